package queue

import "time"

// EventHeader is the common envelope header for all topics.
type EventHeader struct {
	Topic      string    `json:"topic"`
	TraceID    string    `json:"trace_id,omitempty"`
	Producer   string    `json:"producer,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Version    string    `json:"version,omitempty"`
}

// Message is the generic envelope: header plus topic-specific payload.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// DatasetRef identifies a dataset in event payloads.
type DatasetRef struct {
	ID        uint   `json:"id"`
	Name      string `json:"name,omitempty"`
	ContentID string `json:"content_id,omitempty"`
	Version   int    `json:"version,omitempty"`
}

// DatasetEventPayload describes one catalog/content mutation.
type DatasetEventPayload struct {
	Dataset DatasetRef `json:"dataset"`
	Action  string     `json:"action"`
	Actor   string     `json:"actor,omitempty"`
	Comment string     `json:"comment,omitempty"`
}
