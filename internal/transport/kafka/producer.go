package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"

	"service-delivery-agent/internal/domain"
)

// StatusEventDTO is the wire form of an order status event.
type StatusEventDTO struct {
	OrderID    string    `json:"order_id"`
	Status     string    `json:"status"`
	AgentID    string    `json:"agent_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Producer publishes order status events after lifecycle transitions.
// A nil Producer is a valid no-op, so publishing can be switched off
// by config the same way intake can.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	now      func() time.Time
}

// NewProducer creates a Kafka producer. Returns (nil, nil) when the
// broker settings are empty.
func NewProducer(brokers []string, topic string) (*Producer, error) {
	if len(brokers) == 0 || strings.TrimSpace(topic) == "" {
		return nil, nil
	}

	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}

	return &Producer{
		producer: producer,
		topic:    topic,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// PublishStatus emits the order's current status.
func (p *Producer) PublishStatus(_ context.Context, o *domain.Order) error {
	if p == nil {
		return nil
	}

	dto := StatusEventDTO{
		OrderID:    o.ID,
		Status:     string(o.Status),
		OccurredAt: p.now(),
	}
	if o.AgentID != nil {
		dto.AgentID = *o.AgentID
	}

	value, err := json.Marshal(dto)
	if err != nil {
		return fmt.Errorf("marshal status event: %w", err)
	}

	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(o.ID),
		Value: sarama.ByteEncoder(value),
	})
	if err != nil {
		return fmt.Errorf("send status event: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.producer.Close()
}
