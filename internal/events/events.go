package events

import "context"

// Streams
const (
	StreamRequests   = "events:requests"
	StreamInvalidate = "events:invalidate"
)

// Event types
const (
	EventRequestSubmitted = "request_submitted"
	EventRequestDecided   = "request_decided"
	EventCacheInvalidate  = "cache_invalidate"
)

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}
