package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/yeisme/geovault/pkg/queue"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	payload := queue.DatasetEventPayload{
		Dataset: queue.DatasetRef{ID: 7, Name: "Fontane", ContentID: "fontane.geojson", Version: 2},
		Action:  "updated",
		Actor:   "alice",
	}

	msg, err := queue.NewWatermillMessage(queue.TopicDatasetUpdated, payload)
	if err != nil {
		t.Fatalf("build message: %v", err)
	}

	env, err := queue.ParseWatermillMessage[queue.DatasetEventPayload](msg)
	if err != nil {
		t.Fatalf("parse message: %v", err)
	}

	if env.Header.Topic != queue.TopicDatasetUpdated {
		t.Errorf("expected topic %q, got %q", queue.TopicDatasetUpdated, env.Header.Topic)
	}

	if env.Payload.Dataset.ID != 7 || env.Payload.Action != "updated" {
		t.Errorf("unexpected payload: %+v", env.Payload)
	}
}

func TestBusPublishSubscribe(t *testing.T) {
	bus := queue.NewBus()
	defer func() { _ = bus.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	messages, err := bus.Subscribe(ctx, queue.TopicDatasetCreated)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	payload := queue.DatasetEventPayload{
		Dataset: queue.DatasetRef{ID: 1, Name: "Fontane"},
		Action:  "created",
	}

	msg, err := queue.NewWatermillMessage(queue.TopicDatasetCreated, payload)
	if err != nil {
		t.Fatalf("build message: %v", err)
	}

	if err := bus.Publish(queue.TopicDatasetCreated, msg); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case received := <-messages:
		received.Ack()

		env, err := queue.ParseWatermillMessage[queue.DatasetEventPayload](received)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}

		if env.Payload.Dataset.Name != "Fontane" {
			t.Errorf("unexpected payload: %+v", env.Payload)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for message")
	}
}
