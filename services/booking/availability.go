package booking

import (
	"context"
	"errors"
	"time"

	"fitbook/database/repository"
	"fitbook/metrics"
	"fitbook/models"
)

// SessionInterval returns the half-open window [start, start+durationHours).
func SessionInterval(start time.Time, durationHours float64) models.Interval {
	return models.Interval{
		Start: start,
		End:   start.Add(time.Duration(durationHours * float64(time.Hour))),
	}
}

// reserve checks the trainer's calendar and inserts b in one store operation, so two
// overlapping requests can never both reach pending_payment.
func (s *DefaultBookingService) reserve(ctx context.Context, b *models.Booking, now time.Time) error {
	err := s.Repo.CreateIfAvailable(ctx, b, now)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrSlotConflict):
		metrics.SlotConflicts.Inc()
		return newError(ErrSlotConflict, CodeSlotConflict, "trainer is already booked for an overlapping time", nil)
	default:
		return internalError("failed to reserve booking", err)
	}
}
