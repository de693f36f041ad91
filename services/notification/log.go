package notification

import (
	"context"

	"fitbook/models"

	"go.uber.org/zap"
)

// LogNotificationService records events in the application log when no broker is configured.
type LogNotificationService struct {
	Logger *zap.Logger
}

func (s *LogNotificationService) Publish(ctx context.Context, evt models.BookingEvent) error {
	s.Logger.Info("Booking event",
		zap.String("type", evt.Type),
		zap.String("booking_id", evt.BookingID),
		zap.String("status", string(evt.Status)),
		zap.Time("occurred_at", evt.OccurredAt),
	)
	return nil
}

func (s *LogNotificationService) Close() error { return nil }
