package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitbook/services/booking"
	"fitbook/services/tasks"
	"fitbook/utils"

	"github.com/avast/retry-go/v4"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const sweepBatchSize = 200

// WorkerConfig controls the periodic jobs.
type WorkerConfig struct {
	RedisOpt          asynq.RedisClientOpt
	Concurrency       int
	SweepInterval     time.Duration
	ReconcileInterval time.Duration
	ReconcileGrace    time.Duration
}

// Worker runs the asynq server that expires bookings and the scheduler that enqueues
// the periodic sweeps.
type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
}

// NewWorker builds the server, mux and scheduler for svc.
func NewWorker(cfg WorkerConfig, svc booking.BookingService) (*Worker, error) {
	logger := utils.GetLogger()
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 10
	}

	srv := asynq.NewServer(cfg.RedisOpt, asynq.Config{
		Concurrency: cfg.Concurrency,
		Queues:      map[string]int{"default": 1},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger.Error("Background task failed", zap.String("type", task.Type()), zap.Error(err))
		}),
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeExpireBooking, HandleExpireBooking(svc))
	mux.HandleFunc(tasks.TypeExpireSweep, HandleExpireSweep(svc))
	mux.HandleFunc(tasks.TypeReconcileOrders, HandleReconcile(svc, cfg.ReconcileGrace))

	scheduler := asynq.NewScheduler(cfg.RedisOpt, nil)
	if cfg.SweepInterval > 0 {
		if _, err := scheduler.Register(every(cfg.SweepInterval), asynq.NewTask(tasks.TypeExpireSweep, nil)); err != nil {
			return nil, fmt.Errorf("register expiry sweep: %w", err)
		}
	}
	if cfg.ReconcileInterval > 0 {
		if _, err := scheduler.Register(every(cfg.ReconcileInterval), asynq.NewTask(tasks.TypeReconcileOrders, nil)); err != nil {
			return nil, fmt.Errorf("register reconciliation: %w", err)
		}
	}

	return &Worker{server: srv, scheduler: scheduler, mux: mux}, nil
}

func every(d time.Duration) string {
	return "@every " + d.String()
}

// Start launches the server and scheduler in the background, retrying startup with backoff.
func (w *Worker) Start() {
	logger := utils.GetLogger()
	go func() {
		err := retry.Do(
			func() error { return w.server.Start(w.mux) },
			retry.Attempts(5),
			retry.Delay(2*time.Second),
			retry.DelayType(retry.BackOffDelay),
			retry.LastErrorOnly(true),
			retry.OnRetry(func(n uint, err error) {
				logger.Warn("Task worker failed to start", zap.Uint("attempt", n+1), zap.Error(err))
			}),
		)
		if err != nil {
			logger.Error("Task worker giving up; relying on lazy expiry", zap.Error(err))
			return
		}
		logger.Info("Task worker started")
	}()
	if err := w.scheduler.Start(); err != nil {
		logger.Error("Task scheduler failed to start", zap.Error(err))
	}
}

// Shutdown stops accepting tasks and waits for running handlers.
func (w *Worker) Shutdown() {
	w.scheduler.Shutdown()
	w.server.Shutdown()
}

// HandleExpireBooking expires one booking when its delayed task fires. Bookings that
// were settled in the meantime are left untouched.
func HandleExpireBooking(svc booking.BookingService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseExpireBookingPayload(task)
		if err != nil {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		b, err := svc.ExpireBooking(ctx, p.BookingID)
		if err != nil {
			var bErr *booking.Error
			if errors.As(err, &bErr) && bErr.Kind == booking.ErrNotFound {
				return nil
			}
			return err
		}
		utils.GetLogger().Debug("Expiry task handled", zap.String("booking_id", b.ID), zap.String("status", string(b.Status)))
		return nil
	}
}

func HandleExpireSweep(svc booking.BookingService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		n, err := svc.ExpireOverdue(ctx, sweepBatchSize)
		if err != nil {
			return err
		}
		if n > 0 {
			utils.GetLogger().Info("Expired lapsed bookings", zap.Int("count", n))
		}
		return nil
	}
}

func HandleReconcile(svc booking.BookingService, grace time.Duration) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		n, err := svc.ReconcileOrphanedOrders(ctx, grace, sweepBatchSize)
		if err != nil {
			return err
		}
		if n > 0 {
			utils.GetLogger().Info("Reconciled orphaned orders", zap.Int("count", n))
		}
		return nil
	}
}
