package infra

import (
	"context"
	"encoding/json"
	"log"
)

// LogPublisher writes events to the process log. Used when no broker is
// configured.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, routingKey string, data any) error {
	body, err := json.Marshal(data)
	if err != nil {
		return err
	}
	log.Printf("event %s: %s", routingKey, body)
	return nil
}

func (LogPublisher) Close() {}

var _ PublisherInterface = LogPublisher{}
