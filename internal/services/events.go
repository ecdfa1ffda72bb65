package services

import (
	"context"
	"log"
	"sync"
	"time"

	"storefront/internal/infra"
)

const publishTimeout = 5 * time.Second

// Emitter publishes events off the request path. A failed publish is
// logged and never reaches the caller.
type Emitter struct {
	publisher infra.PublisherInterface
	wg        sync.WaitGroup
}

func NewEmitter(p infra.PublisherInterface) *Emitter {
	return &Emitter{publisher: p}
}

func (e *Emitter) Emit(routingKey string, evt any) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := e.publisher.Publish(ctx, routingKey, evt); err != nil {
			log.Printf("Failed to publish %s event: %v", routingKey, err)
			return
		}
		log.Printf("Published %s event", routingKey)
	}()
}

// Wait blocks until every emitted event has been handed to the publisher.
func (e *Emitter) Wait() {
	e.wg.Wait()
}
