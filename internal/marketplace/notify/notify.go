package notify

import (
	"context"
	"time"
)

// Event types emitted by the marketplace.
const (
	ApplicationCreated  = "application.created"
	ApplicationStatus   = "application.status"
	SubmissionCreated   = "submission.created"
	SubmissionReviewed  = "submission.reviewed"
	PaymentRecorded     = "payment.recorded"
	PaymentCompleted    = "payment.completed"
	WithdrawalRequested = "withdrawal.requested"
	WithdrawalProcessed = "withdrawal.processed"
	CampaignStatus      = "campaign.status"
	MessageCreated      = "message.created"
)

// Event describes a committed state change addressed to one or more actors.
type Event struct {
	Type       string            `json:"type"`
	SubjectID  string            `json:"subject_id"`
	Status     string            `json:"status,omitempty"`
	Title      string            `json:"title"`
	Body       string            `json:"body"`
	Data       map[string]string `json:"data,omitempty"`
	Recipients []string          `json:"-"`
	At         time.Time         `json:"at"`
}

// Logger is the minimal logging interface used by the sinks.
type Logger interface {
	Infof(string, ...interface{})
	Errorf(string, ...interface{})
}

// Sink delivers an event over one channel.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, e Event) error
}

// Fanout hands every event to all sinks. Delivery errors are logged and dropped.
type Fanout struct {
	logger Logger
	sinks  []Sink
}

// NewFanout constructs a Fanout over the given sinks; nil sinks are skipped.
func NewFanout(logger Logger, sinks ...Sink) *Fanout {
	f := &Fanout{logger: logger}
	for _, s := range sinks {
		if s != nil {
			f.sinks = append(f.sinks, s)
		}
	}
	return f
}

// Notify delivers the event synchronously to each sink.
func (f *Fanout) Notify(ctx context.Context, e Event) {
	if f == nil {
		return
	}
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	for _, s := range f.sinks {
		if err := s.Deliver(ctx, e); err != nil && f.logger != nil {
			f.logger.Errorf("marketplace: notify %s via %s: %v", e.Type, s.Name(), err)
		}
	}
}

// Discard drops every event.
type Discard struct{}

// Notify implements the notifier contract.
func (Discard) Notify(context.Context, Event) {}
