package pubsub

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolit/servicedesk/internal/shared/logger"
)

type recorder struct {
	mu     sync.Mutex
	events []ChangeEvent
}

func (r *recorder) handle(e ChangeEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) snapshot() []ChangeEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ChangeEvent(nil), r.events...)
}

func subscribeAsync(t *testing.T, sub ChangeSubscriber, h ChangeHandler, registered func() int) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	before := registered()
	go func() { _ = sub.Subscribe(ctx, h) }()
	require.Eventually(t, func() bool { return registered() > before }, time.Second, time.Millisecond)
	return cancel
}

func TestLocalChangeBus_DeliversUntilCancelled(t *testing.T) {
	bus := NewLocalChangeBus(logger.NewNop())
	rec := &recorder{}

	cancel := subscribeAsync(t, bus, rec.handle, bus.HandlerCount)

	require.NoError(t, bus.Publish(context.Background(), ChangeEvent{Topic: TopicCalls, SchoolID: "sch_1"}))
	events := rec.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, TopicCalls, events[0].Topic)
	assert.NotZero(t, events[0].Timestamp)

	cancel()
	require.Eventually(t, func() bool { return bus.HandlerCount() == 0 }, time.Second, time.Millisecond)

	require.NoError(t, bus.Publish(context.Background(), ChangeEvent{Topic: TopicCalls}))
	assert.Len(t, rec.snapshot(), 1)
}

func TestRedisChangeBus_SkipsOwnEchoes(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	t.Cleanup(func() { _ = client.Close() })

	bus := NewRedisChangeBus(client, "", logger.NewNop())
	rec := &recorder{}
	cancel := subscribeAsync(t, bus, rec.handle, bus.local.HandlerCount)
	defer cancel()

	own, err := encodeEvent(ChangeEvent{Topic: TopicInventory, InstanceID: bus.InstanceID()})
	require.NoError(t, err)
	bus.handleMessage(string(own))
	assert.Empty(t, rec.snapshot())

	remote, err := encodeEvent(ChangeEvent{Topic: TopicInventory, ItemID: "inv_1", InstanceID: "other"})
	require.NoError(t, err)
	bus.handleMessage(string(remote))

	bus.handleMessage("{not json")

	events := rec.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, "inv_1", events[0].ItemID)
}

func TestRedisChangeBus_LocalDeliveryDespitePublishFailure(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 50 * time.Millisecond})
	t.Cleanup(func() { _ = client.Close() })

	bus := NewRedisChangeBus(client, "test:changes", logger.NewNop())
	rec := &recorder{}
	cancel := subscribeAsync(t, bus, rec.handle, bus.local.HandlerCount)
	defer cancel()

	err := bus.Publish(context.Background(), ChangeEvent{Topic: TopicSessions, TechID: "tech_1"})
	assert.Error(t, err)

	events := rec.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, bus.InstanceID(), events[0].InstanceID)
}
