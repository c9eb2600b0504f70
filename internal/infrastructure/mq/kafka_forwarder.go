// Package mq forwards ledger domain events to Kafka for downstream consumers
// such as reporting and notifications.
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/fleet/ledger/internal/domain/shared"
	"github.com/fleet/ledger/internal/infrastructure/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultTopic receives ledger events when no topic is configured
const DefaultTopic = "ledger.events"

// Envelope is the wire format of a forwarded event
type Envelope struct {
	ID            uuid.UUID          `json:"id"`
	Type          string             `json:"type"`
	AggregateType string             `json:"aggregate_type"`
	AggregateID   uuid.UUID          `json:"aggregate_id"`
	CompanyID     uuid.UUID          `json:"company_id"`
	BranchID      uuid.UUID          `json:"branch_id"`
	OccurredAt    time.Time          `json:"occurred_at"`
	Payload       shared.DomainEvent `json:"payload"`
}

// NewProducer creates a synchronous producer that waits for all replicas
func NewProducer(cfg config.KafkaConfig) (sarama.SyncProducer, error) {
	sc := sarama.NewConfig()
	sc.ClientID = cfg.ClientID
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Retry.Max = 3
	sc.Producer.Return.Successes = true
	sc.Producer.Idempotent = true
	sc.Net.MaxOpenRequests = 1

	producer, err := sarama.NewSyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return producer, nil
}

// EventForwarder is an event handler that publishes every ledger event to a
// Kafka topic, keyed by aggregate ID so one record's events stay ordered
type EventForwarder struct {
	producer sarama.SyncProducer
	topic    string
	logger   *zap.Logger
}

// NewEventForwarder wraps a producer. An empty topic means DefaultTopic.
func NewEventForwarder(producer sarama.SyncProducer, topic string, logger *zap.Logger) *EventForwarder {
	if topic == "" {
		topic = DefaultTopic
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventForwarder{producer: producer, topic: topic, logger: logger}
}

// EventTypes subscribes to every event
func (f *EventForwarder) EventTypes() []string {
	return nil
}

// Handle sends one event and waits for the broker acknowledgement
func (f *EventForwarder) Handle(_ context.Context, ev shared.DomainEvent) error {
	body, err := json.Marshal(Envelope{
		ID:            ev.EventID(),
		Type:          ev.EventType(),
		AggregateType: ev.AggregateType(),
		AggregateID:   ev.AggregateID(),
		CompanyID:     ev.CompanyID(),
		BranchID:      ev.BranchID(),
		OccurredAt:    ev.OccurredAt(),
		Payload:       ev,
	})
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", ev.EventID(), err)
	}

	partition, offset, err := f.producer.SendMessage(&sarama.ProducerMessage{
		Topic: f.topic,
		Key:   sarama.StringEncoder(ev.AggregateID().String()),
		Value: sarama.ByteEncoder(body),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(ev.EventType())},
			{Key: []byte("company_id"), Value: []byte(ev.CompanyID().String())},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to forward event %s: %w", ev.EventID(), err)
	}

	f.logger.Debug("event forwarded",
		zap.String("event_type", ev.EventType()),
		zap.String("topic", f.topic),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset))
	return nil
}

// Close closes the producer
func (f *EventForwarder) Close() error {
	return f.producer.Close()
}

var _ shared.EventHandler = (*EventForwarder)(nil)
