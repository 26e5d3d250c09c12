package events

import (
	"context"
	"time"
)

const (
	TopicCart    = "cart_events"
	TopicProduct = "product_events"
)

// Event is the JSON payload of a domain event; "type" names it.
type Event map[string]any

type Publisher interface {
	Publish(ctx context.Context, topic, key string, event Event) error
	Close() error
}

// Nop drops events; used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, string, Event) error { return nil }
func (Nop) Close() error                                         { return nil }

// PublishTimeout bounds a single publish so a slow broker never stalls a request.
const PublishTimeout = 5 * time.Second
