// Package queue manages the event bus for dataset lifecycle notifications.
//
// Overview
//   - Publish/subscribe decouples the dataset store from downstream
//     consumers (indexing, cache invalidation, UI refresh).
//   - Unified envelope: Message[Payload] = Header + Payload.
//   - Topic constants live in topics.go, payload structs in payloads.go.
//   - JSON encoding via bytedance/sonic, easy to parse across languages.
//
// The in-process bus is a watermill gochannel Pub/Sub; publishing is
// best-effort and must never fail a catalog operation.
package queue

import (
	"context"
	"time"

	watermill "github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/bytedance/sonic"
)

const (
	PayloadVersionV1 string = "v1"

	producerName = "geovault"
)

// NewEventHeader builds an event header for a topic.
func NewEventHeader(topic string, opts ...func(*EventHeader)) EventHeader {
	hdr := EventHeader{
		Topic:      topic,
		Producer:   producerName,
		OccurredAt: time.Now().UTC(),
		Version:    PayloadVersionV1,
	}
	for _, opt := range opts {
		opt(&hdr)
	}

	return hdr
}

// WithTraceID sets the TraceID.
func WithTraceID(id string) func(*EventHeader) { return func(h *EventHeader) { h.TraceID = id } }

// Encode marshals a message envelope to JSON.
func Encode[T any](msg Message[T]) ([]byte, error) { return sonic.Marshal(msg) }

// Decode unmarshals a message envelope from JSON.
func Decode[T any](b []byte) (Message[T], error) {
	var m Message[T]

	err := sonic.Unmarshal(b, &m)

	return m, err
}

// NewWatermillMessage builds a watermill message with ID and metadata set.
func NewWatermillMessage[T any](topic string, payload T, opts ...func(*EventHeader)) (*message.Message, error) {
	header := NewEventHeader(topic, opts...)
	env := Message[T]{Header: header, Payload: payload}

	data, err := Encode(env)
	if err != nil {
		return nil, err
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set("topic", topic)

	if header.TraceID != "" {
		msg.Metadata.Set("trace_id", header.TraceID)
	}

	msg.Metadata.Set("producer", header.Producer)
	msg.Metadata.Set("occurred_at", header.OccurredAt.Format(time.RFC3339Nano))
	msg.Metadata.Set("version", header.Version)

	return msg, nil
}

// ParseWatermillMessage decodes the generic payload from a watermill message.
func ParseWatermillMessage[T any](msg *message.Message) (Message[T], error) {
	return Decode[T](msg.Payload)
}

// Bus is the in-process pub/sub used by the service layer.
type Bus struct {
	pubsub *gochannel.GoChannel
}

// NewBus creates a gochannel-backed bus.
func NewBus() *Bus {
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{}),
	}
}

// Publish sends a message to a topic.
func (b *Bus) Publish(topic string, msg *message.Message) error {
	return b.pubsub.Publish(topic, msg)
}

// Subscribe returns a channel of messages for a topic.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, topic)
}

// Close shuts the bus down.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
