package booking

import (
	"context"
	"errors"
	"time"

	"fitbook/database/repository"
	bookingRepo "fitbook/database/repository/booking"
	trainerRepo "fitbook/database/repository/trainer"
	"fitbook/metrics"
	"fitbook/models"
	"fitbook/services/notification"
	"fitbook/services/payment"
	"fitbook/utils"

	"go.uber.org/zap"
)

const (
	DefaultExpiryWindow   = 30 * time.Minute
	DefaultCurrency       = "INR"
	DefaultPublishTimeout = 2 * time.Second
	myBookingsLimit       = 100
)

// DefaultBookingService implements BookingService. It keeps no state of its own;
// everything it knows about a booking is read back from Repo.
type DefaultBookingService struct {
	Repo     bookingRepo.BookingRepository
	Trainers trainerRepo.TrainerRepository
	Payments payment.PaymentService
	// Expiry and Events are optional.
	Expiry ExpiryScheduler
	Events notification.NotificationService
	Logger *zap.Logger

	Currency     string
	ExpiryWindow time.Duration
	// PublishTimeout caps how long a lifecycle event may hold up the request.
	PublishTimeout time.Duration
	Now            func() time.Time
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *DefaultBookingService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return utils.GetLogger()
}

func (s *DefaultBookingService) currency() string {
	if s.Currency == "" {
		return DefaultCurrency
	}
	return s.Currency
}

func (s *DefaultBookingService) expiryWindow() time.Duration {
	if s.ExpiryWindow <= 0 {
		return DefaultExpiryWindow
	}
	return s.ExpiryWindow
}

func requireIdentity(who Identity) error {
	if !who.Authenticated || who.UserID == "" {
		return newError(ErrUnauthorized, CodeUnauthorized, "authentication required", nil)
	}
	return nil
}

// transition performs the CAS and reports whether this call moved the booking.
// A lost race is not an error: the booking is re-read and returned with moved=false.
func (s *DefaultBookingService) transition(ctx context.Context, id string, to models.BookingStatus, update models.BookingUpdate) (*models.Booking, bool, error) {
	updated, err := s.Repo.Transition(ctx, id, models.StatusPendingPayment, to, update)
	switch {
	case err == nil:
		metrics.BookingTransitions.WithLabelValues(string(to)).Inc()
		s.publish(ctx, eventFor(to), *updated)
		return updated, true, nil
	case errors.Is(err, repository.ErrStaleState):
		current, getErr := s.Repo.GetByID(ctx, id)
		if getErr != nil {
			return nil, false, s.mapLoadError(getErr)
		}
		return current, false, nil
	case errors.Is(err, repository.ErrNotFound):
		return nil, false, newError(ErrNotFound, CodeBookingNotFound, "booking not found", nil)
	default:
		return nil, false, internalError("failed to update booking", err)
	}
}

func eventFor(status models.BookingStatus) string {
	switch status {
	case models.StatusConfirmed:
		return models.EventBookingConfirmed
	case models.StatusFailed:
		return models.EventBookingFailed
	case models.StatusExpired:
		return models.EventBookingExpired
	default:
		return models.EventBookingReserved
	}
}

func (s *DefaultBookingService) publish(ctx context.Context, eventType string, b models.Booking) {
	if s.Events == nil {
		return
	}
	timeout := s.PublishTimeout
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	evt := models.NewBookingEvent(eventType, b, s.now())
	if err := s.Events.Publish(pubCtx, evt); err != nil {
		s.logger().Warn("Failed to publish booking event",
			zap.String("type", eventType), zap.String("booking_id", b.ID), zap.Error(err))
	}
}

func (s *DefaultBookingService) mapLoadError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return newError(ErrNotFound, CodeBookingNotFound, "booking not found", nil)
	}
	return internalError("failed to load booking", err)
}
