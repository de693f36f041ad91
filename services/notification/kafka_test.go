package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"fitbook/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestKafkaPublishKeysByBooking(t *testing.T) {
	w := &recordingWriter{}
	svc := &KafkaNotificationService{writer: w, topic: "booking-events"}

	b := models.Booking{ID: "b1", UserID: "u1", TrainerID: "t1", Status: models.StatusConfirmed, AmountMinor: 5000, Currency: "INR"}
	at := time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, svc.Publish(context.Background(), models.NewBookingEvent(models.EventBookingConfirmed, b, at)))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "b1", string(w.msgs[0].Key))

	var evt models.BookingEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &evt))
	assert.Equal(t, models.EventBookingConfirmed, evt.Type)
	assert.Equal(t, models.StatusConfirmed, evt.Status)
	assert.Equal(t, int64(5000), evt.AmountMinor)
}

func TestKafkaPublishWrapsWriterError(t *testing.T) {
	boom := errors.New("broker down")
	svc := &KafkaNotificationService{writer: &recordingWriter{err: boom}, topic: "booking-events"}

	err := svc.Publish(context.Background(), models.BookingEvent{Type: models.EventBookingFailed, BookingID: "b1"})
	assert.ErrorIs(t, err, boom)
}

func TestKafkaWriterFlushesSingleEventsPromptly(t *testing.T) {
	w := newWriter([]string{"localhost:9092"}, "booking-events")
	defer w.Close()

	assert.Equal(t, "booking-events", w.Topic)
	assert.LessOrEqual(t, w.BatchTimeout, 50*time.Millisecond)
	assert.LessOrEqual(t, time.Duration(w.MaxAttempts)*w.WriteTimeout, 5*time.Second)
}
