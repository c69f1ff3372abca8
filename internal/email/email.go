// SPDX-License-Identifier: MIT

// Package email delivers transactional mail. Messages are routed to the
// SendGrid HTTP API when an API key is configured, otherwise to SMTP.
package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/madrona-research/madrona/internal/config"
	"github.com/madrona-research/madrona/internal/metrics"
	"github.com/madrona-research/madrona/internal/observability"
)

// Message represents an email message to be sent.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
	ReplyTo string
	CC      []string
	Bcc     []string

	// Optional single attachment
	AttachmentName    string
	AttachmentContent []byte

	// Category tags for delivery analytics (SendGrid only)
	Categories []string
}

// Sender delivers a prepared message. The bool result reports whether the
// message was handed to the provider; policy refusals and provider
// rejections return (false, nil), transport failures return an error.
type Sender interface {
	Send(ctx context.Context, msg *Message) (bool, error)
}

// Service routes transactional mail to SendGrid or SMTP based on
// configuration.
type Service struct {
	Enabled       bool
	WhitelistMode bool
	whitelist     map[string]bool

	smtp     Sender
	sendgrid Sender
	useAPI   bool
}

// NewService builds a Service from the loaded configuration.
func NewService() *Service {
	apiKey := config.GetString("sendgrid.api_key")

	whitelist := make(map[string]bool)
	for _, addr := range config.GetStringSlice("sendgrid.whitelist") {
		whitelist[strings.ToLower(strings.TrimSpace(addr))] = true
	}

	return &Service{
		Enabled:       config.GetBool("email.enabled"),
		WhitelistMode: config.GetBool("sendgrid.whitelist_mode"),
		whitelist:     whitelist,
		smtp:          NewSMTPSenderFromConfig(),
		sendgrid:      NewSendGridClient(apiKey),
		useAPI:        apiKey != "",
	}
}

// NewServiceWith wires explicit transports (used for testing).
func NewServiceWith(smtp, sendgrid Sender, useAPI bool) *Service {
	return &Service{
		Enabled:   true,
		whitelist: make(map[string]bool),
		smtp:      smtp,
		sendgrid:  sendgrid,
		useAPI:    useAPI,
	}
}

// Whitelist replaces the recipient whitelist (used for testing).
func (s *Service) Whitelist(addrs ...string) {
	s.whitelist = make(map[string]bool)
	for _, addr := range addrs {
		s.whitelist[strings.ToLower(addr)] = true
	}
}

// Send delivers msg. With outbound email disabled it is a no-op returning
// (false, nil). Provider rejections also return (false, nil) after being
// reported; only transport failures return an error, so the queue's retry
// policy sees them.
func (s *Service) Send(ctx context.Context, msg *Message) (bool, error) {
	if !s.Enabled {
		return false, nil
	}

	if s.useAPI {
		if s.WhitelistMode && !s.whitelist[strings.ToLower(msg.To)] {
			observability.CaptureMessage(fmt.Sprintf(
				"whitelist mode is on; refused to send email to non-whitelisted recipient %s", msg.To))
			metrics.EmailDeliveryFailures.WithLabelValues("sendgrid", "whitelist").Inc()
			return false, nil
		}
		return s.sendgrid.Send(ctx, msg)
	}

	return s.smtp.Send(ctx, msg)
}
