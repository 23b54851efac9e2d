package events

import (
	"civicconnect/backend/internal/models"
	"context"
	"sync"
)

// LocalBus is an in-process bus for the memory and SQL store backends.
// Slow subscribers miss events rather than block publishers.
type LocalBus struct {
	mu   sync.Mutex
	subs map[chan models.LedgerEvent]struct{}
}

func NewLocalBus() *LocalBus {
	return &LocalBus{subs: make(map[chan models.LedgerEvent]struct{})}
}

func (b *LocalBus) Publish(_ context.Context, ev models.LedgerEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	return nil
}

func (b *LocalBus) Subscribe(ctx context.Context) (<-chan models.LedgerEvent, error) {
	ch := make(chan models.LedgerEvent, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, ch)
		close(ch)
		b.mu.Unlock()
	}()
	return ch, nil
}
