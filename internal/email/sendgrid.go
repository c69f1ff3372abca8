package email

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/madrona-research/madrona/internal/metrics"
	"github.com/madrona-research/madrona/internal/observability"
)

const sendGridBaseURL = "https://api.sendgrid.com"

// How much of an error response body is kept when reporting; the rest may
// carry recipient content and is redacted.
const errorBodyPreview = 30

// SendGridClient sends mail through the SendGrid v3 mail/send endpoint.
type SendGridClient struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// NewSendGridClient creates a client for the given API key
func NewSendGridClient(apiKey string) *SendGridClient {
	return &SendGridClient{
		APIKey:     apiKey,
		BaseURL:    sendGridBaseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type sgAddress struct {
	Email string `json:"email"`
}

type sgPersonalization struct {
	To  []sgAddress `json:"to"`
	CC  []sgAddress `json:"cc,omitempty"`
	Bcc []sgAddress `json:"bcc,omitempty"`
}

type sgContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sgAttachment struct {
	Content     string `json:"content"`
	Filename    string `json:"filename"`
	Disposition string `json:"disposition"`
}

type sgMail struct {
	Personalizations []sgPersonalization `json:"personalizations"`
	From             sgAddress           `json:"from"`
	ReplyTo          *sgAddress          `json:"reply_to,omitempty"`
	Subject          string              `json:"subject"`
	Content          []sgContent         `json:"content"`
	Categories       []string            `json:"categories,omitempty"`
	Attachments      []sgAttachment      `json:"attachments,omitempty"`
}

func buildPayload(msg *Message) *sgMail {
	personalization := sgPersonalization{
		To: []sgAddress{{Email: msg.To}},
	}
	for _, addr := range msg.CC {
		personalization.CC = append(personalization.CC, sgAddress{Email: addr})
	}
	for _, addr := range msg.Bcc {
		personalization.Bcc = append(personalization.Bcc, sgAddress{Email: addr})
	}

	payload := &sgMail{
		Personalizations: []sgPersonalization{personalization},
		From:             sgAddress{Email: msg.From},
		Subject:          msg.Subject,
		Content:          []sgContent{{Type: "text/html", Value: msg.HTML}},
		Categories:       msg.Categories,
	}

	if msg.ReplyTo != "" {
		payload.ReplyTo = &sgAddress{Email: msg.ReplyTo}
	}

	if msg.AttachmentName != "" && len(msg.AttachmentContent) > 0 {
		payload.Attachments = []sgAttachment{{
			Content:     base64.StdEncoding.EncodeToString(msg.AttachmentContent),
			Filename:    msg.AttachmentName,
			Disposition: "attachment",
		}}
	}

	return payload
}

// Send posts the message to the mail/send endpoint. Non-2xx responses are
// reported to the error-tracking sink and return (false, nil); only
// transport-level failures return an error.
func (c *SendGridClient) Send(ctx context.Context, msg *Message) (bool, error) {
	body, err := json.Marshal(buildPayload(msg))
	if err != nil {
		return false, fmt.Errorf("failed to encode mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v3/mail/send", bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("sendgrid request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		metrics.EmailsSent.WithLabelValues("sendgrid").Inc()
		return true, nil
	}

	preview, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyPreview))
	observability.CaptureMessage(fmt.Sprintf(
		"%d error response from sendgrid. from_addr: %s to_addr: %s subject: %s mimetype: html message: %s categories: %v attachment_name: %s",
		resp.StatusCode, msg.From, msg.To, msg.Subject, preview, msg.Categories, msg.AttachmentName))
	metrics.EmailDeliveryFailures.WithLabelValues("sendgrid", "status").Inc()

	return false, nil
}
