// Package feed turns committed change events into live query snapshots.
package feed

import (
	"context"
	"sync"
	"time"

	"github.com/schoolit/servicedesk/internal/infrastructure/pubsub"
	"github.com/schoolit/servicedesk/internal/shared/logger"
)

// Query names a read the caller wants kept fresh. Match decides whether a
// change event can affect the result; Load re-reads it.
type Query struct {
	Name  string
	Match func(event pubsub.ChangeEvent) bool
	Load  func(ctx context.Context) (any, error)
}

// Snapshot is one full read of a query. Err is set when the read failed;
// the subscription stays open and retries on the next matching change.
type Snapshot struct {
	Seq  uint64
	At   time.Time
	Data any
	Err  error
}

// Hub fans change events out to live subscriptions.
type Hub struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[uint64]*Subscription
	closed bool
	logger logger.Interface
}

func NewHub(log logger.Interface) *Hub {
	return &Hub{
		subs:   make(map[uint64]*Subscription),
		logger: log,
	}
}

// Run feeds the hub from a change subscriber until ctx is cancelled.
func (h *Hub) Run(ctx context.Context, source pubsub.ChangeSubscriber) error {
	h.logger.Infow("change feed started")
	defer h.logger.Infow("change feed stopped")
	return source.Subscribe(ctx, h.Handle)
}

// Handle marks every subscription whose query matches event as stale. It
// never blocks.
func (h *Hub) Handle(event pubsub.ChangeEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, s := range h.subs {
		if s.query.Match == nil || s.query.Match(event) {
			s.markStale()
		}
	}
}

// Subscribe registers q and starts delivering snapshots: one right away,
// then one after each matching change. Unsubscribe is the only way to stop
// it.
func (h *Hub) Subscribe(q Query) *Subscription {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Subscription{
		query:  q,
		out:    make(chan Snapshot, 1),
		stale:  make(chan struct{}, 1),
		cancel: cancel,
		logger: h.logger,
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		cancel()
		close(s.out)
		s.once.Do(func() {})
		return s
	}
	s.id = h.nextID
	h.nextID++
	// Close may unsubscribe s as soon as it is in subs.
	s.remove = func() {
		h.mu.Lock()
		delete(h.subs, s.id)
		h.mu.Unlock()
	}
	s.wg.Add(1)
	h.subs[s.id] = s
	h.mu.Unlock()

	go s.loop(ctx)

	h.logger.Debugw("feed subscription opened", "query", q.Name, "subscription_id", s.id)
	return s
}

// Close ends every open subscription, closing their channels, and makes
// later Subscribe calls return already-closed subscriptions.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	open := make([]*Subscription, 0, len(h.subs))
	for _, s := range h.subs {
		open = append(open, s)
	}
	h.mu.Unlock()

	for _, s := range open {
		s.Unsubscribe()
	}
}

// Count reports the open subscriptions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

type Subscription struct {
	id     uint64
	query  Query
	out    chan Snapshot
	stale  chan struct{}
	cancel context.CancelFunc
	remove func()
	wg     sync.WaitGroup
	once   sync.Once
	logger logger.Interface
}

// C delivers snapshots. A reader that falls behind only ever sees the most
// recent one. The channel is closed by Unsubscribe.
func (s *Subscription) C() <-chan Snapshot {
	return s.out
}

func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.remove()
		s.cancel()
		s.wg.Wait()
		close(s.out)
		s.logger.Debugw("feed subscription closed", "query", s.query.Name, "subscription_id", s.id)
	})
}

func (s *Subscription) markStale() {
	select {
	case s.stale <- struct{}{}:
	default:
	}
}

func (s *Subscription) loop(ctx context.Context) {
	defer s.wg.Done()

	var seq uint64
	for {
		seq++
		data, err := s.query.Load(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			s.logger.Warnw("feed snapshot failed", "query", s.query.Name, "error", err)
		}
		s.offer(Snapshot{Seq: seq, At: time.Now().UTC(), Data: data, Err: err})

		select {
		case <-ctx.Done():
			return
		case <-s.stale:
		}
	}
}

// offer replaces an unread snapshot with snap. loop is the only sender, so
// the send after draining cannot block.
func (s *Subscription) offer(snap Snapshot) {
	select {
	case s.out <- snap:
		return
	default:
	}
	select {
	case <-s.out:
	default:
	}
	s.out <- snap
}
