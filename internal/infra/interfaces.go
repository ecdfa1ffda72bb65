package infra

import "context"

// PublisherInterface is satisfied by every event broker adapter.
type PublisherInterface interface {
	Publish(ctx context.Context, routingKey string, data any) error
	Close()
}
