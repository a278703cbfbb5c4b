// Package events publishes finalized orders to kafka for downstream
// consumers (sales analytics, loyalty). Publishing is best effort; a broker
// outage never blocks the cashier.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jerico-c/cashier-app/internal/domain"
)

const (
	topic          = "pos-orders"
	eventType      = "order.finalized"
	publishTimeout = 2 * time.Second
)

type orderFinalized struct {
	OrderID   string            `json:"order_id"`
	Items     []domain.LineItem `json:"items"`
	Subtotal  int64             `json:"subtotal"`
	Tax       int64             `json:"tax"`
	Discount  int64             `json:"discount"`
	Total     int64             `json:"total"`
	CreatedAt time.Time         `json:"created_at"`
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

// PublishOrderFinalized emits one order.finalized message keyed by order id.
// The short timeout keeps a dead broker from stalling checkout handling.
func (p *KafkaPublisher) PublishOrderFinalized(ctx context.Context, order *domain.Order) error {
	payload, err := json.Marshal(orderFinalized{
		OrderID:   order.ID.String(),
		Items:     order.Items,
		Subtotal:  order.Subtotal,
		Tax:       order.Tax,
		Discount:  order.Discount,
		Total:     order.Total,
		CreatedAt: order.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(order.ID.String()),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish order event: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
