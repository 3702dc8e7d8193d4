package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Lifecycle event types emitted by the booking and payment workflows.
const (
	TypeBookingCreated       = "booking.created"
	TypeBookingAssigned      = "booking.assigned"
	TypeBookingStatusChanged = "booking.status_changed"
	TypeBookingCompleted     = "booking.completed"
	TypePaymentConfirmed     = "payment.confirmed"
	TypeDecoratorAccepted    = "decorator.accepted"
)

// Header keys attached to every published message.
const (
	HeaderEventID   = "event-id"
	HeaderEventType = "event-type"
	HeaderSource    = "source"
	HeaderTimestamp = "timestamp"
)

// Event is a lifecycle fact keyed by the entity it concerns. Key drives
// partition routing so events for one booking stay ordered.
type Event struct {
	ID         string
	Type       string
	Key        string
	OccurredAt time.Time
	Payload    any
}

// NewEvent stamps an id and timestamp for a lifecycle fact.
func NewEvent(eventType, key string, payload any) Event {
	return Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

func (e Event) EncodePayload() ([]byte, error) {
	return json.Marshal(e.Payload)
}

// Publisher delivers lifecycle events. Implementations must be safe for
// concurrent use; publish failures never fail the originating request.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NoopPublisher drops events. Used when no brokers are configured and in
// service tests that do not assert on events.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event Event) error { return nil }
func (NoopPublisher) Close() error                                   { return nil }
