package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeExpireBooking   = "booking:expire"
	TypeExpireSweep     = "booking:expire-sweep"
	TypeReconcileOrders = "payment:reconcile"
)

// ExpireBookingPayload identifies the booking whose payment window closes.
type ExpireBookingPayload struct {
	BookingID string `json:"booking_id"`
}

func NewExpireBookingTask(bookingID string, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(ExpireBookingPayload{BookingID: bookingID})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeExpireBooking, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		// One expiry task per booking even if scheduling is retried.
		asynq.TaskID("expire:" + bookingID),
		asynq.MaxRetry(5),
	}
	return task, opts, nil
}

func ParseExpireBookingPayload(task *asynq.Task) (ExpireBookingPayload, error) {
	var p ExpireBookingPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("decode %s payload: %w", TypeExpireBooking, err)
	}
	if p.BookingID == "" {
		return p, fmt.Errorf("%s payload has no booking_id", TypeExpireBooking)
	}
	return p, nil
}

// taskEnqueuer is the part of *asynq.Client the scheduler uses.
type taskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqExpiryScheduler queues a delayed expiry task for every reserved booking.
type AsynqExpiryScheduler struct {
	client taskEnqueuer
}

func NewAsynqExpiryScheduler(client *asynq.Client) *AsynqExpiryScheduler {
	return &AsynqExpiryScheduler{client: client}
}

func (s *AsynqExpiryScheduler) ScheduleExpiry(ctx context.Context, bookingID string, at time.Time) error {
	task, opts, err := NewExpireBookingTask(bookingID, at)
	if err != nil {
		return err
	}
	if _, err := s.client.EnqueueContext(ctx, task, opts...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("enqueue expiry for booking %s: %w", bookingID, err)
	}
	return nil
}
