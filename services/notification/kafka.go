package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fitbook/models"

	"github.com/segmentio/kafka-go"
)

const batchTimeout = 10 * time.Millisecond

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotificationService writes events keyed by booking ID, so one booking's
// events stay ordered within a partition.
type KafkaNotificationService struct {
	writer messageWriter
	topic  string
}

func NewKafkaNotificationService(brokers []string, topic string) *KafkaNotificationService {
	return &KafkaNotificationService{writer: newWriter(brokers, topic), topic: topic}
}

// newWriter builds a writer tuned for single events on the request path: a message is
// flushed after batchTimeout instead of waiting for kafka-go's one second batch timer.
func newWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           batchTimeout,
		MaxAttempts:            2,
		ReadTimeout:            2 * time.Second,
		WriteTimeout:           2 * time.Second,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

func (s *KafkaNotificationService) Publish(ctx context.Context, evt models.BookingEvent) error {
	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", evt.Type, err)
	}
	msg := kafka.Message{
		Key:   []byte(evt.BookingID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(evt.Type)},
		},
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s to %s: %w", evt.Type, s.topic, err)
	}
	return nil
}

func (s *KafkaNotificationService) Close() error {
	return s.writer.Close()
}
