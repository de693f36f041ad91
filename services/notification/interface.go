package notification

import (
	"context"

	"fitbook/models"
)

// NotificationService fans booking lifecycle events out to downstream consumers.
// Publishing is best effort: callers log failures and carry on.
type NotificationService interface {
	Publish(ctx context.Context, evt models.BookingEvent) error
	Close() error
}
