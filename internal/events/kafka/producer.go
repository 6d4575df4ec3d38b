package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Event types published by the user service.
const (
	EventUserRegistered      = "user.registered"
	EventUserLoggedIn        = "user.logged_in"
	EventUserLoggedOut       = "user.logged_out"
	EventUserPasswordChanged = "user.password_changed"
	EventUserAvatarUpdated   = "user.avatar_updated"
	EventUserProfileUpdated  = "user.profile_updated"
)

// CloudEvent is the envelope every published event is wrapped in.
type CloudEvent struct {
	ID          string          `json:"id"`
	Source      string          `json:"source"`
	SpecVersion string          `json:"specversion"`
	Type        string          `json:"type"`
	Time        time.Time       `json:"time"`
	Subject     string          `json:"subject,omitempty"`
	ContentType string          `json:"contenttype"`
	Data        json.RawMessage `json:"data"`
}

// EventProducer publishes domain events. Publishing is best-effort from the
// caller's point of view; a broker outage never fails a user request.
type EventProducer interface {
	PublishEvent(ctx context.Context, eventType, subject string, data interface{}) error
	Close() error
}

// KafkaEventProducer implements EventProducer on segmentio/kafka-go.
type KafkaEventProducer struct {
	writer     *kafka.Writer
	sourceName string
	logger     *zap.Logger
}

func NewKafkaEventProducer(brokers []string, topic, sourceName string, logger *zap.Logger) *KafkaEventProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}
	return &KafkaEventProducer{
		writer:     writer,
		sourceName: sourceName,
		logger:     logger.Named("kafka_producer"),
	}
}

// PublishEvent wraps data into a CloudEvent keyed by subject.
func (p *KafkaEventProducer) PublishEvent(ctx context.Context, eventType, subject string, data interface{}) error {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	event := CloudEvent{
		ID:          uuid.New().String(),
		Source:      p.sourceName,
		SpecVersion: "1.0",
		Type:        eventType,
		Time:        time.Now().UTC(),
		Subject:     subject,
		ContentType: "application/json",
		Data:        dataBytes,
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal cloud event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(subject),
		Value: eventBytes,
		Headers: []kafka.Header{
			{Key: "ce_id", Value: []byte(event.ID)},
			{Key: "ce_source", Value: []byte(event.Source)},
			{Key: "ce_type", Value: []byte(event.Type)},
			{Key: "ce_time", Value: []byte(event.Time.Format(time.RFC3339))},
		},
	})
	if err != nil {
		p.logger.Error("Failed to publish event",
			zap.String("event_type", eventType),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("Event published",
		zap.String("event_type", eventType),
		zap.String("subject", subject),
	)
	return nil
}

func (p *KafkaEventProducer) Close() error {
	return p.writer.Close()
}

var _ EventProducer = (*KafkaEventProducer)(nil)
