package pubsub

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/schoolit/servicedesk/internal/shared/logger"
)

const DefaultChangeChannel = "servicedesk:changes"

// RedisChangeBus shares change events between service instances. Events
// are delivered to local handlers immediately and published to Redis;
// copies coming back from Redis with this instance's ID are skipped.
type RedisChangeBus struct {
	client     *redis.Client
	channel    string
	local      *LocalChangeBus
	logger     logger.Interface
	instanceID string
}

func NewRedisChangeBus(client *redis.Client, channel string, log logger.Interface) *RedisChangeBus {
	if channel == "" {
		channel = DefaultChangeChannel
	}
	return &RedisChangeBus{
		client:     client,
		channel:    channel,
		local:      NewLocalChangeBus(log),
		logger:     log,
		instanceID: uuid.NewString(),
	}
}

func (b *RedisChangeBus) InstanceID() string {
	return b.instanceID
}

func (b *RedisChangeBus) Publish(ctx context.Context, event ChangeEvent) error {
	event = stamp(event)
	event.InstanceID = b.instanceID
	b.local.deliver(event)

	data, err := encodeEvent(event)
	if err != nil {
		return err
	}

	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		b.logger.Errorw("failed to publish change event",
			"topic", event.Topic,
			"channel", b.channel,
			"error", err,
		)
		return fmt.Errorf("failed to publish change event: %w", err)
	}
	return nil
}

// Subscribe registers handler for local events and blocks until ctx is
// done. Remote events arrive through Run.
func (b *RedisChangeBus) Subscribe(ctx context.Context, handler ChangeHandler) error {
	return b.local.Subscribe(ctx, handler)
}

// Run relays events published by other instances to local handlers until
// ctx is cancelled.
func (b *RedisChangeBus) Run(ctx context.Context) error {
	ps := b.client.Subscribe(ctx, b.channel)
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}

	b.logger.Infow("subscribed to change events",
		"channel", b.channel,
		"instance_id", b.instanceID,
	)

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			b.logger.Infow("change event subscriber stopped", "reason", ctx.Err())
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				b.logger.Warnw("change event channel closed")
				return nil
			}
			b.handleMessage(msg.Payload)
		}
	}
}

func (b *RedisChangeBus) handleMessage(payload string) {
	event, err := decodeEvent(payload)
	if err != nil {
		b.logger.Warnw("dropping malformed change event", "payload", payload, "error", err)
		return
	}
	if event.InstanceID == b.instanceID {
		return
	}
	b.local.deliver(event)
}
