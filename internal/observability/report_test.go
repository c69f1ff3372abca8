package observability

import "testing"

type captureReporter struct {
	messages []string
}

func (c *captureReporter) Message(msg string) {
	c.messages = append(c.messages, msg)
}

func TestCaptureMessageUsesActiveSink(t *testing.T) {
	capture := &captureReporter{}
	prev := SetReporter(capture)
	defer SetReporter(prev)

	CaptureMessage("delivery refused")

	if len(capture.messages) != 1 {
		t.Fatalf("Expected 1 captured message, got %d", len(capture.messages))
	}
	if capture.messages[0] != "delivery refused" {
		t.Errorf("Unexpected message: %q", capture.messages[0])
	}
}

func TestSetReporterNilRestoresDefault(t *testing.T) {
	prev := SetReporter(nil)
	defer SetReporter(prev)

	// Must not panic with the default sink
	CaptureMessage("still logged")
}
