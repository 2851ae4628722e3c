package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/alvin669/prickleys-store/internal/domain"
	"github.com/segmentio/kafka-go"
)

// KafkaSink publishes finished orders to a topic for a downstream dispatcher
// to pick up.
type KafkaSink struct {
	writer *kafka.Writer
}

func NewKafkaSink(topic string, brokers ...string) *KafkaSink {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaSink{writer: w}
}

func (s *KafkaSink) Submit(ctx context.Context, order *domain.Order) error {
	data, err := json.Marshal(orderPayload(order))
	if err != nil {
		return fmt.Errorf("failed to marshal order payload: %w", err)
	}

	errWrite := s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(order.ID.String()),
		Value: data,
	})
	if errWrite != nil {
		return fmt.Errorf("failed to publish order %s: %w", order.ID, errWrite)
	}
	return nil
}

func (s *KafkaSink) Close() {
	err := s.writer.Close()
	if err != nil {
		log.Printf("error closing kafka writer: %v", err)
	}
}
