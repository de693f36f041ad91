package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (e *recordingEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if e.err != nil {
		return nil, e.err
	}
	e.tasks = append(e.tasks, task)
	return &asynq.TaskInfo{}, nil
}

func TestExpireBookingTaskRoundTrip(t *testing.T) {
	task, opts, err := NewExpireBookingTask("b1", time.Now().Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, TypeExpireBooking, task.Type())
	assert.Len(t, opts, 3)

	p, err := ParseExpireBookingPayload(task)
	require.NoError(t, err)
	assert.Equal(t, "b1", p.BookingID)
}

func TestParseExpireBookingPayloadRejectsEmpty(t *testing.T) {
	_, err := ParseExpireBookingPayload(asynq.NewTask(TypeExpireBooking, []byte(`{}`)))
	assert.Error(t, err)
}

func TestScheduleExpiryIgnoresDuplicateTask(t *testing.T) {
	s := &AsynqExpiryScheduler{client: &recordingEnqueuer{err: asynq.ErrTaskIDConflict}}
	assert.NoError(t, s.ScheduleExpiry(context.Background(), "b1", time.Now()))

	rec := &recordingEnqueuer{}
	s = &AsynqExpiryScheduler{client: rec}
	require.NoError(t, s.ScheduleExpiry(context.Background(), "b1", time.Now()))
	assert.Len(t, rec.tasks, 1)
}
