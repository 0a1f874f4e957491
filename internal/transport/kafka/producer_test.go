package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/require"

	"service-delivery-agent/internal/domain"
)

type fakeSyncProducer struct {
	sent []*sarama.ProducerMessage
	err  error
}

func (f *fakeSyncProducer) SendMessage(msg *sarama.ProducerMessage) (int32, int64, error) {
	if f.err != nil {
		return 0, 0, f.err
	}
	f.sent = append(f.sent, msg)
	return 0, 0, nil
}

func (f *fakeSyncProducer) SendMessages([]*sarama.ProducerMessage) error { return nil }
func (f *fakeSyncProducer) Close() error                                 { return nil }
func (f *fakeSyncProducer) TxnStatus() sarama.ProducerTxnStatusFlag      { return 0 }
func (f *fakeSyncProducer) IsTransactional() bool                        { return false }
func (f *fakeSyncProducer) BeginTxn() error                              { return nil }
func (f *fakeSyncProducer) CommitTxn() error                             { return nil }
func (f *fakeSyncProducer) AbortTxn() error                              { return nil }
func (f *fakeSyncProducer) AddOffsetsToTxn(map[string][]*sarama.PartitionOffsetMetadata, string) error {
	return nil
}
func (f *fakeSyncProducer) AddMessageToTxn(*sarama.ConsumerMessage, string, *string) error {
	return nil
}

func TestNewProducer_SkipsWhenNoKafkaConfig(t *testing.T) {
	t.Parallel()

	got, err := NewProducer(nil, "topic")
	require.NoError(t, err)
	require.Nil(t, got)

	got, err = NewProducer([]string{"b:9092"}, "  ")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestPublishStatus(t *testing.T) {
	t.Parallel()

	fake := &fakeSyncProducer{}
	ts := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	p := &Producer{
		producer: fake,
		topic:    "delivery.order-status",
		now:      func() time.Time { return ts },
	}

	agentID := "agent-1"
	err := p.PublishStatus(context.Background(), &domain.Order{
		ID:      "ord-1",
		Status:  domain.StatusDelivered,
		AgentID: &agentID,
	})
	require.NoError(t, err)
	require.Len(t, fake.sent, 1)

	msg := fake.sent[0]
	require.Equal(t, "delivery.order-status", msg.Topic)

	value, encErr := msg.Value.Encode()
	require.NoError(t, encErr)

	var dto StatusEventDTO
	require.NoError(t, json.Unmarshal(value, &dto))
	require.Equal(t, StatusEventDTO{
		OrderID:    "ord-1",
		Status:     "delivered",
		AgentID:    "agent-1",
		OccurredAt: ts,
	}, dto)
}

func TestPublishStatus_NilProducerIsNoOp(t *testing.T) {
	t.Parallel()

	var p *Producer
	require.NoError(t, p.PublishStatus(context.Background(), &domain.Order{ID: "ord-1"}))
	require.NoError(t, p.Close())
}
