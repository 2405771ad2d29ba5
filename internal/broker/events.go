package broker

import (
	"context"
	"time"

	"catalog-service/internal/domain"

	"github.com/google/uuid"
)

// Envelope is the wire shape of a published domain event.
type Envelope struct {
	EventID     string       `json:"event_id"`
	EventType   string       `json:"event_type"`
	AggregateID string       `json:"aggregate_id"`
	Timestamp   time.Time    `json:"timestamp"`
	Payload     domain.Event `json:"payload"`
}

// EventPublisher translates drained domain events into wire envelopes and
// publishes them keyed by aggregate id. Publishing happens only after the
// originating transaction has committed; nothing in this service consumes
// the events.
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// Publish writes one domain event to the broker.
func (ep *EventPublisher) Publish(ctx context.Context, event domain.Event) error {
	envelope := Envelope{
		EventID:     uuid.New().String(),
		EventType:   event.EventType(),
		AggregateID: event.AggregateID().String(),
		Timestamp:   event.OccurredAt(),
		Payload:     event,
	}
	return ep.producer.PublishMessage(ctx, envelope.AggregateID, envelope)
}
