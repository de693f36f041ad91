package booking

import (
	"context"
	"fmt"

	"fitbook/models"
)

// loadOwned returns the booking only if who owns it. Someone else's booking is reported
// as not found so its existence does not leak, and is left untouched: lazy expiry runs
// only after ownership is established.
func (s *DefaultBookingService) loadOwned(ctx context.Context, who Identity, id string) (*models.Booking, error) {
	if id == "" {
		return nil, newError(ErrNotFound, CodeBookingNotFound, "booking not found", nil)
	}
	b, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapLoadError(err)
	}
	if b.UserID != who.UserID {
		return nil, newError(ErrNotFound, CodeBookingNotFound, "booking not found", nil)
	}
	return s.expireIfLapsed(ctx, b)
}

func (s *DefaultBookingService) GetBooking(ctx context.Context, who Identity, bookingID string) (*models.Booking, error) {
	if err := requireIdentity(who); err != nil {
		return nil, err
	}
	return s.loadOwned(ctx, who, bookingID)
}

// ListMyBookings returns the caller's most recent bookings, newest first.
func (s *DefaultBookingService) ListMyBookings(ctx context.Context, who Identity) ([]models.Booking, error) {
	if err := requireIdentity(who); err != nil {
		return nil, err
	}
	list, err := s.Repo.ListByUser(ctx, who.UserID, myBookingsLimit)
	if err != nil {
		return nil, internalError("failed to list bookings", fmt.Errorf("user %s: %w", who.UserID, err))
	}
	for i := range list {
		updated, err := s.expireIfLapsed(ctx, &list[i])
		if err != nil {
			return nil, err
		}
		list[i] = *updated
	}
	return list, nil
}
