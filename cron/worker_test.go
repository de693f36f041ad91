package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"fitbook/models"
	"fitbook/services/booking"
	"fitbook/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	booking.BookingService
	expireErr  error
	expired    []string
	sweepLimit int64
	grace      time.Duration
}

func (f *fakeService) ExpireBooking(ctx context.Context, id string) (*models.Booking, error) {
	if f.expireErr != nil {
		return nil, f.expireErr
	}
	f.expired = append(f.expired, id)
	return &models.Booking{ID: id, Status: models.StatusExpired}, nil
}

func (f *fakeService) ExpireOverdue(ctx context.Context, limit int64) (int, error) {
	f.sweepLimit = limit
	return 2, nil
}

func (f *fakeService) ReconcileOrphanedOrders(ctx context.Context, grace time.Duration, limit int64) (int, error) {
	f.grace = grace
	return 1, nil
}

func TestHandleExpireBooking(t *testing.T) {
	svc := &fakeService{}
	task, _, err := tasks.NewExpireBookingTask("b1", time.Now())
	require.NoError(t, err)

	require.NoError(t, HandleExpireBooking(svc)(context.Background(), task))
	assert.Equal(t, []string{"b1"}, svc.expired)
}

func TestHandleExpireBookingSkipsBadPayload(t *testing.T) {
	err := HandleExpireBooking(&fakeService{})(context.Background(), asynq.NewTask(tasks.TypeExpireBooking, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleExpireBookingIgnoresMissingBooking(t *testing.T) {
	svc := &fakeService{expireErr: &booking.Error{Kind: booking.ErrNotFound, Code: booking.CodeBookingNotFound}}
	task, _, err := tasks.NewExpireBookingTask("gone", time.Now())
	require.NoError(t, err)
	assert.NoError(t, HandleExpireBooking(svc)(context.Background(), task))

	svc.expireErr = errors.New("store down")
	assert.Error(t, HandleExpireBooking(svc)(context.Background(), task))
}

func TestPeriodicHandlers(t *testing.T) {
	svc := &fakeService{}
	require.NoError(t, HandleExpireSweep(svc)(context.Background(), asynq.NewTask(tasks.TypeExpireSweep, nil)))
	assert.Equal(t, int64(sweepBatchSize), svc.sweepLimit)

	require.NoError(t, HandleReconcile(svc, 2*time.Minute)(context.Background(), asynq.NewTask(tasks.TypeReconcileOrders, nil)))
	assert.Equal(t, 2*time.Minute, svc.grace)
}

func TestEverySpec(t *testing.T) {
	assert.Equal(t, "@every 5m0s", every(5*time.Minute))
}
