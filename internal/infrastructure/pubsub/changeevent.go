package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Topic groups change events by the kind of record that changed.
type Topic string

const (
	TopicCalls     Topic = "calls"
	TopicInventory Topic = "inventory"
	TopicSessions  Topic = "sessions"
	TopicSchools   Topic = "schools"
)

// ChangeEvent announces a committed change. It carries identifiers only;
// subscribers re-read whatever they display.
type ChangeEvent struct {
	Topic      Topic  `json:"topic"`
	SchoolID   string `json:"school_id,omitempty"`
	CallID     string `json:"call_id,omitempty"`
	ClientID   string `json:"client_id,omitempty"`
	RoomNumber string `json:"room_number,omitempty"`
	ItemID     string `json:"item_id,omitempty"`
	TechID     string `json:"tech_id,omitempty"`
	SessionID  string `json:"session_id,omitempty"`
	Timestamp  int64  `json:"timestamp"`
	InstanceID string `json:"instance_id,omitempty"`
}

// ChangeHandler receives events. It runs on the bus's delivery path and
// must not block.
type ChangeHandler func(event ChangeEvent)

// ChangePublisher is what use cases depend on.
type ChangePublisher interface {
	Publish(ctx context.Context, event ChangeEvent) error
}

// ChangeSubscriber delivers events to handler until ctx is cancelled.
type ChangeSubscriber interface {
	Subscribe(ctx context.Context, handler ChangeHandler) error
}

type ChangeBus interface {
	ChangePublisher
	ChangeSubscriber
}

func stamp(event ChangeEvent) ChangeEvent {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UnixMilli()
	}
	return event
}

func encodeEvent(event ChangeEvent) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal change event: %w", err)
	}
	return data, nil
}

func decodeEvent(payload string) (ChangeEvent, error) {
	var event ChangeEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return ChangeEvent{}, fmt.Errorf("failed to unmarshal change event: %w", err)
	}
	return event, nil
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ChangeEvent) error { return nil }
