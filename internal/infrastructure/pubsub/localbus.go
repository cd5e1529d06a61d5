package pubsub

import (
	"context"
	"sync"

	"github.com/schoolit/servicedesk/internal/shared/logger"
)

// LocalChangeBus fans events out to handlers within this process.
type LocalChangeBus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[int]ChangeHandler
	logger   logger.Interface
}

func NewLocalChangeBus(log logger.Interface) *LocalChangeBus {
	return &LocalChangeBus{
		handlers: make(map[int]ChangeHandler),
		logger:   log,
	}
}

func (b *LocalChangeBus) Publish(_ context.Context, event ChangeEvent) error {
	b.deliver(stamp(event))
	return nil
}

func (b *LocalChangeBus) deliver(event ChangeEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, h := range b.handlers {
		h(event)
	}
	b.logger.Debugw("change event delivered",
		"topic", event.Topic,
		"handlers", len(b.handlers),
	)
}

// Subscribe registers handler and blocks until ctx is done.
func (b *LocalChangeBus) Subscribe(ctx context.Context, handler ChangeHandler) error {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = handler
	b.mu.Unlock()

	<-ctx.Done()

	b.mu.Lock()
	delete(b.handlers, id)
	b.mu.Unlock()
	return ctx.Err()
}

// HandlerCount reports the registered handlers.
func (b *LocalChangeBus) HandlerCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}
