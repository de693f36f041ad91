package booking

import (
	"context"
	"fmt"

	"fitbook/models"

	"go.uber.org/zap"
)

// loadBooking reads a booking and applies lazy expiry: a pending booking whose payment
// window has closed is moved to expired before it is returned.
func (s *DefaultBookingService) loadBooking(ctx context.Context, id string) (*models.Booking, error) {
	if id == "" {
		return nil, newError(ErrNotFound, CodeBookingNotFound, "booking not found", nil)
	}
	b, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapLoadError(err)
	}
	return s.expireIfLapsed(ctx, b)
}

func (s *DefaultBookingService) expireIfLapsed(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	if !b.PaymentWindowLapsed(s.now()) {
		return b, nil
	}
	updated, moved, err := s.transition(ctx, b.ID, models.StatusExpired, models.BookingUpdate{
		FailureReason: "payment window elapsed",
	})
	if err != nil {
		return nil, err
	}
	if moved {
		s.logger().Info("Booking expired", zap.String("booking_id", b.ID))
	}
	return updated, nil
}

func (s *DefaultBookingService) ExpireBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	return s.loadBooking(ctx, bookingID)
}

func (s *DefaultBookingService) ExpireOverdue(ctx context.Context, limit int64) (int, error) {
	lapsed, err := s.Repo.ListExpired(ctx, s.now(), limit)
	if err != nil {
		return 0, fmt.Errorf("list lapsed bookings: %w", err)
	}

	expired := 0
	for i := range lapsed {
		updated, err := s.expireIfLapsed(ctx, &lapsed[i])
		if err != nil {
			s.logger().Warn("Failed to expire booking", zap.String("booking_id", lapsed[i].ID), zap.Error(err))
			continue
		}
		if updated.Status == models.StatusExpired {
			expired++
		}
	}
	return expired, nil
}
