// Package audit records application activity in an external spreadsheet.
// Delivery is detached from the request path: Publish never blocks and a sink
// failure is logged, never returned to the caller.
package audit

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"
)

type Kind string

const (
	KindApplicationSubmitted Kind = "application_submitted"
	KindStatusChanged        Kind = "status_changed"
)

type Event struct {
	Kind          Kind
	At            time.Time
	ApplicationID string
	StudentName   string
	StudentEmail  string
	StudentBranch string
	StudentCGPA   float64
	JobTitle      string
	Company       string
	AppliedAt     time.Time
	ResumeLink    string
	Status        string
}

// Header is the column layout shared by every spreadsheet sink.
var Header = []string{
	"Timestamp",
	"Student Name",
	"Student Email",
	"Branch",
	"CGPA",
	"Job Title",
	"Company",
	"Application Date",
	"Resume Link",
	"Status",
}

func (e Event) Row() []string {
	return []string{
		e.At.UTC().Format(time.RFC3339),
		e.StudentName,
		e.StudentEmail,
		e.StudentBranch,
		strconv.FormatFloat(e.StudentCGPA, 'f', -1, 64),
		e.JobTitle,
		e.Company,
		e.AppliedAt.UTC().Format("2006-01-02"),
		e.ResumeLink,
		e.Status,
	}
}

type Sink interface {
	Write(ctx context.Context, event Event) error
}

type Publisher interface {
	Publish(event Event)
}

type NopSink struct{}

func (NopSink) Write(context.Context, Event) error { return nil }

// MultiSink writes to every sink and joins their errors.
type MultiSink []Sink

func (m MultiSink) Write(ctx context.Context, event Event) error {
	var errs []error
	for _, sink := range m {
		if err := sink.Write(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type Dispatcher struct {
	sink    Sink
	events  chan Event
	logger  *slog.Logger
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewDispatcher(sink Sink, buffer int, logger *slog.Logger) *Dispatcher {
	if buffer <= 0 {
		buffer = 1
	}
	if sink == nil {
		sink = NopSink{}
	}
	d := &Dispatcher{
		sink:    sink,
		events:  make(chan Event, buffer),
		logger:  logger,
		timeout: 15 * time.Second,
		done:    make(chan struct{}),
	}
	go d.run()
	return d
}

// Publish enqueues the event. When the buffer is full or the dispatcher is
// closed the event is dropped.
func (d *Dispatcher) Publish(event Event) {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.logger.Warn("audit dispatcher closed, event dropped", slog.String("kind", string(event.Kind)), slog.String("application_id", event.ApplicationID))
		return
	}
	select {
	case d.events <- event:
	default:
		d.logger.Warn("audit buffer full, event dropped", slog.String("kind", string(event.Kind)), slog.String("application_id", event.ApplicationID))
	}
}

// Close stops accepting events and waits for the queue to drain or ctx to end.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.events)
	}
	d.mu.Unlock()
	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for event := range d.events {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		if err := d.sink.Write(ctx, event); err != nil {
			d.logger.Warn("audit write failed",
				slog.String("kind", string(event.Kind)),
				slog.String("application_id", event.ApplicationID),
				slog.String("error", err.Error()),
			)
		}
		cancel()
	}
}
