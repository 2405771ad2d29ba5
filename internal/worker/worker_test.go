package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"catalog-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type capturingPublisher struct {
	mu     sync.Mutex
	events []domain.Event
}

func (p *capturingPublisher) Publish(ctx context.Context, event domain.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func productEvents(t *testing.T, n int) []domain.Event {
	t.Helper()
	events := make([]domain.Event, 0, n)
	for i := 0; i < n; i++ {
		p, err := domain.NewProduct("Gaming Mouse", "desc", domain.NewMoney(79.99), 10)
		require.NoError(t, err)
		events = append(events, p.Events()...)
	}
	return events
}

func TestRelayPublishesEnqueuedEvents(t *testing.T) {
	publisher := &capturingPublisher{}
	relay := NewRelay(publisher, zap.NewNop(), 16)

	ctx, cancel := context.WithCancel(context.Background())
	go relay.Start(ctx)

	relay.Enqueue(productEvents(t, 3)...)

	require.Eventually(t, func() bool {
		return publisher.count() == 3
	}, time.Second, 10*time.Millisecond)

	cancel()
	relay.Stop()
}

func TestRelayDrainsOnShutdown(t *testing.T) {
	publisher := &capturingPublisher{}
	relay := NewRelay(publisher, zap.NewNop(), 16)

	// Enqueue before the loop starts, then cancel immediately: buffered
	// events must still be published on the way out.
	relay.Enqueue(productEvents(t, 5)...)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	go relay.Start(ctx)
	relay.Stop()

	assert.Equal(t, 5, publisher.count())
}

func TestRelayEnqueueNeverBlocks(t *testing.T) {
	publisher := &capturingPublisher{}
	relay := NewRelay(publisher, zap.NewNop(), 2)

	// Nothing is consuming; events beyond the buffer are dropped.
	done := make(chan struct{})
	go func() {
		relay.Enqueue(productEvents(t, 10)...)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full buffer")
	}
}
