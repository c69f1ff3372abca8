// Package observability is the error-tracking sink for delivery and policy
// failures that must be recorded without interrupting the caller.
package observability

import (
	"log"
	"sync"

	"github.com/madrona-research/madrona/internal/metrics"
)

// Reporter receives error-tracking events.
type Reporter interface {
	Message(msg string)
}

type logReporter struct{}

func (logReporter) Message(msg string) {
	log.Printf("event: %s", msg)
}

var (
	mu       sync.RWMutex
	reporter Reporter = logReporter{}
)

// SetReporter swaps the active sink. Returns the previous one so tests can
// restore it.
func SetReporter(r Reporter) Reporter {
	mu.Lock()
	defer mu.Unlock()
	prev := reporter
	if r == nil {
		r = logReporter{}
	}
	reporter = r
	return prev
}

// CaptureMessage records a message with the active sink
func CaptureMessage(msg string) {
	metrics.ReportedEvents.Inc()

	mu.RLock()
	r := reporter
	mu.RUnlock()
	r.Message(msg)
}
