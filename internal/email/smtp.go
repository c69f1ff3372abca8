package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log"

	mail "github.com/go-mail/mail"

	"github.com/madrona-research/madrona/internal/config"
	"github.com/madrona-research/madrona/internal/metrics"
)

// SMTPSender delivers mail over SMTP. STARTTLS is negotiated on port 587,
// implicit TLS is used when TLSMode is "ssl" (port 465).
type SMTPSender struct {
	Host         string
	Port         int
	Username     string
	Password     string
	RequireLogin bool
	TLSMode      string // "auto" | "ssl" | "none"
}

// NewSMTPSenderFromConfig builds an SMTPSender from the loaded configuration
func NewSMTPSenderFromConfig() *SMTPSender {
	return &SMTPSender{
		Host:         config.GetString("smtp.host"),
		Port:         config.GetInt("smtp.port"),
		Username:     config.GetString("smtp.username"),
		Password:     config.GetString("smtp.password"),
		RequireLogin: config.GetBool("smtp.require_login"),
		TLSMode:      config.GetString("smtp.tls_mode"),
	}
}

// Send builds a MIME message and hands it to the SMTP server. A missing
// login aborts the send without dialing; dial and protocol failures return
// an error so the queue can retry.
func (s *SMTPSender) Send(ctx context.Context, msg *Message) (bool, error) {
	if s.RequireLogin && (s.Username == "" || s.Password == "") {
		log.Printf("smtp username and password not set; skipping send to %s", msg.To)
		return false, nil
	}

	m := mail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}
	if len(msg.CC) > 0 {
		m.SetHeader("Cc", msg.CC...)
	}
	if len(msg.Bcc) > 0 {
		m.SetHeader("Bcc", msg.Bcc...)
	}
	m.SetBody("text/html", msg.HTML)

	if msg.AttachmentName != "" && len(msg.AttachmentContent) > 0 {
		content := msg.AttachmentContent
		m.Attach(msg.AttachmentName, mail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(content)
			return err
		}))
	}

	d := mail.NewDialer(s.Host, s.Port, s.Username, s.Password)
	d.TLSConfig = &tls.Config{ServerName: s.Host}

	switch s.TLSMode {
	case "ssl":
		d.SSL = true
	case "none":
		// plaintext relay, local delivery agents only
	default:
		// "auto": STARTTLS is negotiated when the server offers it
	}

	if err := d.DialAndSend(m); err != nil {
		return false, fmt.Errorf("smtp send failed: %w", err)
	}

	metrics.EmailsSent.WithLabelValues("smtp").Inc()
	log.Printf("email sent to %s: %s", msg.To, msg.Subject)
	return true, nil
}
