package worker

import (
	"context"
	"time"

	"catalog-service/internal/domain"
	"catalog-service/internal/util"

	"go.uber.org/zap"
)

// Publisher is the outbound side the relay drains into.
type Publisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// Relay moves drained domain events from an in-process buffer to the broker
// so request paths never block on Kafka. Enqueue never blocks; when the
// buffer is full the event is dropped and counted, since publishing is
// best-effort by design.
type Relay struct {
	publisher Publisher
	logger    *zap.Logger
	ch        chan domain.Event
	done      chan struct{}
}

// NewRelay creates an event relay with the given buffer size.
func NewRelay(publisher Publisher, logger *zap.Logger, bufferSize int) *Relay {
	return &Relay{
		publisher: publisher,
		logger:    logger,
		ch:        make(chan domain.Event, bufferSize),
		done:      make(chan struct{}),
	}
}

// Enqueue hands events to the relay without blocking.
func (r *Relay) Enqueue(events ...domain.Event) {
	for _, event := range events {
		select {
		case r.ch <- event:
		default:
			util.EventsDroppedTotal.Inc()
			r.logger.Warn("Event relay buffer full, dropping event",
				zap.String("event_type", event.EventType()))
		}
	}
}

// Start runs the relay loop until the context is cancelled, then drains
// whatever is still buffered before returning.
func (r *Relay) Start(ctx context.Context) error {
	r.logger.Info("Starting event relay")
	defer close(r.done)

	for {
		select {
		case <-ctx.Done():
			r.drainRemaining()
			return ctx.Err()
		case event := <-r.ch:
			r.publish(event)
		}
	}
}

// Stop blocks until the relay loop has finished draining.
func (r *Relay) Stop() {
	<-r.done
	r.logger.Info("Event relay stopped")
}

func (r *Relay) drainRemaining() {
	for {
		select {
		case event := <-r.ch:
			r.publish(event)
		default:
			return
		}
	}
}

func (r *Relay) publish(event domain.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := r.publisher.Publish(ctx, event); err != nil {
		r.logger.Error("Failed to publish event",
			zap.String("event_type", event.EventType()),
			zap.Error(err))
		return
	}
	util.EventsPublishedTotal.WithLabelValues(event.EventType()).Inc()
}
