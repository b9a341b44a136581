// Package notify is the fire-and-forget side channel for operator
// visibility: escalations go out by email, every terminal outcome lands
// as a spreadsheet row. Delivery never blocks a user-facing response and
// delivery failures are logged, not propagated.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/AlvaroMonteroB/bellinati-negocia/internal/models"
	"github.com/AlvaroMonteroB/bellinati-negocia/internal/observability"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event is one notification record.
type Event struct {
	ID       string           `json:"id"`
	Tag      models.StatusTag `json:"tag"`
	Phone    string           `json:"phone"`
	Document string           `json:"document"`
	Detail   string           `json:"detail,omitempty"`
	At       time.Time        `json:"at"`
}

// NewEvent builds an event with a fresh id and timestamp.
func NewEvent(tag models.StatusTag, phone, document, detail string) Event {
	return Event{
		ID:       uuid.NewString(),
		Tag:      tag,
		Phone:    phone,
		Document: document,
		Detail:   detail,
		At:       time.Now().UTC(),
	}
}

// Notifier is what the pipeline sees: a non-blocking publish.
type Notifier interface {
	Notify(event Event)
}

// Sink is one delivery channel. Wants filters which tags it receives; an
// unconfigured sink is simply not registered.
type Sink interface {
	Name() string
	Wants(tag models.StatusTag) bool
	Deliver(ctx context.Context, event Event) error
}

// Dispatcher fans events out to sinks from a bounded queue with a single
// worker goroutine. A full queue drops the event rather than blocking.
type Dispatcher struct {
	queue  chan Event
	sinks  []Sink
	logger *zap.Logger
	stop   chan struct{}
	done   sync.WaitGroup
}

// NewDispatcher creates a dispatcher with the given queue capacity.
func NewDispatcher(queueSize int, logger *zap.Logger, sinks ...Sink) *Dispatcher {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Dispatcher{
		queue:  make(chan Event, queueSize),
		sinks:  sinks,
		logger: logger,
		stop:   make(chan struct{}),
	}
}

// Start launches the delivery worker.
func (d *Dispatcher) Start() {
	d.done.Add(1)
	go func() {
		defer d.done.Done()
		for {
			select {
			case <-d.stop:
				// Drain what is already queued before exiting.
				for {
					select {
					case event := <-d.queue:
						d.deliver(event)
					default:
						return
					}
				}
			case event := <-d.queue:
				d.deliver(event)
			}
		}
	}()
}

// Stop drains the queue and stops the worker.
func (d *Dispatcher) Stop() {
	close(d.stop)
	d.done.Wait()
}

// Notify enqueues an event without blocking. Events are dropped with a
// warning when the queue is full.
func (d *Dispatcher) Notify(event Event) {
	select {
	case d.queue <- event:
	default:
		observability.NotificationsDropped.Inc()
		d.logger.Warn("notification queue full, dropping event",
			zap.String("event_id", event.ID),
			zap.String("tag", string(event.Tag)))
	}
}

func (d *Dispatcher) deliver(event Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	for _, sink := range d.sinks {
		if !sink.Wants(event.Tag) {
			continue
		}
		if err := sink.Deliver(ctx, event); err != nil {
			d.logger.Error("notification delivery failed",
				zap.String("sink", sink.Name()),
				zap.String("event_id", event.ID),
				zap.String("tag", string(event.Tag)),
				zap.Error(err))
		}
	}
}

// Noop is a Notifier that discards everything; used when no sink is
// configured and in tests.
type Noop struct{}

// Notify implements Notifier.
func (Noop) Notify(Event) {}
