package email

import (
	"context"
	"log"
	"time"

	"github.com/madrona-research/madrona/internal/config"
)

// Dispatcher delivers queued messages in the background. Sends are
// fire-and-forget from the caller's point of view; transport failures are
// retried a bounded number of times here.
type Dispatcher struct {
	svc      *Service
	queue    chan *Message
	done     chan bool
	stopChan chan bool

	MaxRetries int
	RetryDelay time.Duration
}

// NewDispatcher creates a dispatcher for the given service
func NewDispatcher(svc *Service) *Dispatcher {
	size := config.GetInt("email.queue_size")
	if size <= 0 {
		size = 256
	}
	retries := config.GetInt("email.max_retries")
	if retries <= 0 {
		retries = 3
	}
	delay := config.GetDuration("email.retry_delay")
	if delay <= 0 {
		delay = 30 * time.Second
	}

	return &Dispatcher{
		svc:        svc,
		queue:      make(chan *Message, size),
		done:       make(chan bool, 1),
		stopChan:   make(chan bool, 1),
		MaxRetries: retries,
		RetryDelay: delay,
	}
}

// Enqueue queues msg for background delivery. Returns false when the queue
// is full; the message is dropped rather than blocking the caller.
func (d *Dispatcher) Enqueue(msg *Message) bool {
	select {
	case d.queue <- msg:
		return true
	default:
		log.Printf("email queue full; dropping message to %s", msg.To)
		return false
	}
}

// Start begins delivering queued messages in a goroutine
// Returns a done channel that is signaled when the dispatcher stops
func (d *Dispatcher) Start() chan bool {
	go func() {
		for {
			select {
			case <-d.stopChan:
				d.done <- true
				return
			case msg := <-d.queue:
				d.deliver(msg)
			}
		}
	}()

	return d.done
}

// Stop stops the dispatcher; queued messages are abandoned
func (d *Dispatcher) Stop() {
	select {
	case d.stopChan <- true:
	default:
	}
}

// deliver sends one message, retrying transport failures. Policy refusals
// come back as (false, nil) and are final.
func (d *Dispatcher) deliver(msg *Message) {
	for attempt := 1; ; attempt++ {
		sent, err := d.svc.Send(context.Background(), msg)
		if err == nil {
			if !sent {
				log.Printf("email to %s was refused by delivery policy", msg.To)
			}
			return
		}

		if attempt > d.MaxRetries {
			log.Printf("email to %s failed after %d attempts: %v", msg.To, attempt, err)
			return
		}

		log.Printf("email to %s failed (attempt %d): %v", msg.To, attempt, err)
		time.Sleep(d.RetryDelay)
	}
}
