package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"storefront/internal/infra"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher writes every event to one topic, keyed by its routing key so
// events of one kind stay ordered within a partition.
type Publisher struct {
	writer *kafkago.Writer
}

type message struct {
	Pattern    string    `json:"pattern"`
	Data       any       `json:"data"`
	ID         string    `json:"id"`
	OccurredAt time.Time `json:"occurredAt"`
}

// newMessage builds the record for one event. The body matches the
// RabbitMQ envelope so consumers can read either broker.
func newMessage(routingKey string, data any) (kafkago.Message, error) {
	m := message{Pattern: routingKey, Data: data, ID: uuid.NewString(), OccurredAt: time.Now().UTC()}
	body, err := json.Marshal(m)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("failed to marshal message: %w", err)
	}
	return kafkago.Message{Key: []byte(routingKey), Value: body, Time: m.OccurredAt}, nil
}

func NewPublisher(brokers []string, topic string) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka: no brokers configured")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka: no topic configured")
	}
	return &Publisher{
		writer: &kafkago.Writer{
			Addr:                   kafkago.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafkago.Hash{},
			RequiredAcks:           kafkago.RequireOne,
			AllowAutoTopicCreation: true,
		},
	}, nil
}

func (p *Publisher) Publish(ctx context.Context, routingKey string, data any) error {
	msg, err := newMessage(routingKey, data)
	if err != nil {
		return err
	}
	err = p.writer.WriteMessages(ctx, msg)
	if err != nil {
		log.Printf("failed to write message to kafka: %v", err)
		return err
	}
	return nil
}

func (p *Publisher) Close() {
	if err := p.writer.Close(); err != nil {
		log.Printf("kafka writer close: %v", err)
	}
}

var _ infra.PublisherInterface = (*Publisher)(nil)
