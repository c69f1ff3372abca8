package email

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/madrona-research/madrona/internal/observability"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*SendGridClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewSendGridClient("SG.test-key")
	client.BaseURL = server.URL
	return client, server
}

func TestSendGridSuccess(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody []byte

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusAccepted)
	})

	msg := &Message{
		From:              "noreply@madrona.local",
		To:                "user@example.com",
		Subject:           "Your preprint was accepted",
		HTML:              "<p>Congratulations</p>",
		ReplyTo:           "support@madrona.local",
		Bcc:               []string{"archive@madrona.local"},
		Categories:        []string{"preprint", "notification"},
		AttachmentName:    "receipt.txt",
		AttachmentContent: []byte("receipt body"),
	}

	sent, err := client.Send(context.Background(), msg)
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if !sent {
		t.Fatal("Expected sent=true for 202 response")
	}

	if gotPath != "/v3/mail/send" {
		t.Errorf("Expected POST /v3/mail/send, got %s", gotPath)
	}
	if gotAuth != "Bearer SG.test-key" {
		t.Errorf("Unexpected Authorization header: %q", gotAuth)
	}

	var payload sgMail
	if err := json.Unmarshal(gotBody, &payload); err != nil {
		t.Fatalf("Failed to decode payload: %v", err)
	}
	if len(payload.Personalizations) != 1 {
		t.Fatalf("Expected 1 personalization, got %d", len(payload.Personalizations))
	}
	p := payload.Personalizations[0]
	if len(p.To) != 1 || p.To[0].Email != "user@example.com" {
		t.Errorf("Unexpected to list: %+v", p.To)
	}
	if len(p.Bcc) != 1 || p.Bcc[0].Email != "archive@madrona.local" {
		t.Errorf("Unexpected bcc list: %+v", p.Bcc)
	}
	if payload.ReplyTo == nil || payload.ReplyTo.Email != "support@madrona.local" {
		t.Errorf("Unexpected reply_to: %+v", payload.ReplyTo)
	}
	if len(payload.Categories) != 2 {
		t.Errorf("Expected 2 categories, got %v", payload.Categories)
	}
	if len(payload.Attachments) != 1 {
		t.Fatalf("Expected 1 attachment, got %d", len(payload.Attachments))
	}
	decoded, err := base64.StdEncoding.DecodeString(payload.Attachments[0].Content)
	if err != nil || string(decoded) != "receipt body" {
		t.Errorf("Attachment content not base64 of original: %v %q", err, decoded)
	}
	if payload.Attachments[0].Disposition != "attachment" {
		t.Errorf("Unexpected disposition: %q", payload.Attachments[0].Disposition)
	}
	if len(payload.Content) != 1 || payload.Content[0].Type != "text/html" {
		t.Errorf("Expected single text/html content, got %+v", payload.Content)
	}
}

func TestSendGridErrorResponseIsFalsyAndReported(t *testing.T) {
	capture := &captureReporter{}
	prev := observability.SetReporter(capture)
	defer observability.SetReporter(prev)

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors":[{"message":"The from address does not match a verified Sender Identity"}]}`))
	})

	msg := &Message{
		From:    "noreply@madrona.local",
		To:      "user@example.com",
		Subject: "Hello",
		HTML:    "<p>Hi</p>",
	}

	sent, err := client.Send(context.Background(), msg)
	if err != nil {
		t.Fatalf("Send must not raise on non-2xx responses, got %v", err)
	}
	if sent {
		t.Error("Send must return false for non-2xx responses")
	}

	if len(capture.messages) != 1 {
		t.Fatalf("Expected 1 observability event, got %d", len(capture.messages))
	}
	event := capture.messages[0]
	if !strings.Contains(event, "400 error response from sendgrid") {
		t.Errorf("Event should carry the status code: %q", event)
	}
	if !strings.Contains(event, "user@example.com") {
		t.Errorf("Event should carry the recipient: %q", event)
	}
	// Body is redacted to a short preview
	if strings.Contains(event, "Sender Identity") {
		t.Errorf("Event must not carry the full response body: %q", event)
	}
}

func TestSendGridTransportErrorRaises(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	_, err := client.Send(context.Background(), &Message{To: "user@example.com"})
	if err == nil {
		t.Error("Expected transport error when the server is unreachable")
	}
}
