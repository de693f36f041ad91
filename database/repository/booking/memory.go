package bookingRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"fitbook/database/repository"
	"fitbook/models"
)

// MemoryBookingRepo is a process-local BookingRepository used for local runs
// (STORE_DRIVER=memory) and tests. One mutex serializes every operation, which makes
// CreateIfAvailable and Transition trivially atomic.
type MemoryBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]models.Booking
}

func NewMemoryBookingRepo() *MemoryBookingRepo {
	return &MemoryBookingRepo{bookings: make(map[string]models.Booking)}
}

func (r *MemoryBookingRepo) CreateIfAvailable(ctx context.Context, b *models.Booking, now time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := prepareNew(b, now); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bookings[b.ID]; exists {
		return repository.ErrDuplicate
	}
	window := b.Interval()
	for _, existing := range r.bookings {
		if existing.TrainerID != b.TrainerID || !existing.Interval().Overlaps(window) {
			continue
		}
		if existing.HoldsSlot(now) {
			return repository.ErrSlotConflict
		}
	}
	r.bookings[b.ID] = *b
	return nil
}

func (r *MemoryBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &b, nil
}

func (r *MemoryBookingRepo) Transition(ctx context.Context, id string, from, to models.BookingStatus, update models.BookingUpdate) (*models.Booking, error) {
	if !models.CanTransition(from, to) {
		return nil, repository.ErrStaleState
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if b.Status != from {
		return nil, repository.ErrStaleState
	}
	b.Status = to
	b.UpdatedAt = time.Now().UTC()
	if update.PaymentID != "" {
		b.PaymentID = update.PaymentID
	}
	if update.OrderID != "" {
		b.OrderID = update.OrderID
	}
	if update.FailureReason != "" {
		b.FailureReason = update.FailureReason
	}
	r.bookings[id] = b
	return &b, nil
}

func (r *MemoryBookingRepo) AttachOrder(ctx context.Context, id, orderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	if b.Status != models.StatusPendingPayment {
		return repository.ErrStaleState
	}
	b.OrderID = orderID
	b.UpdatedAt = time.Now().UTC()
	r.bookings[id] = b
	return nil
}

func (r *MemoryBookingRepo) ListByUser(ctx context.Context, userID string, limit int64) ([]models.Booking, error) {
	out := r.filter(func(b models.Booking) bool { return b.UserID == userID })
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return truncate(out, limit), nil
}

func (r *MemoryBookingRepo) ListExpired(ctx context.Context, now time.Time, limit int64) ([]models.Booking, error) {
	out := r.filter(func(b models.Booking) bool { return b.PaymentWindowLapsed(now) })
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(out[j].ExpiresAt) })
	return truncate(out, limit), nil
}

func (r *MemoryBookingRepo) ListPendingWithoutOrder(ctx context.Context, olderThan time.Time, limit int64) ([]models.Booking, error) {
	out := r.filter(func(b models.Booking) bool {
		return b.Status == models.StatusPendingPayment && b.OrderID == "" && !b.CreatedAt.After(olderThan)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return truncate(out, limit), nil
}

func (r *MemoryBookingRepo) filter(keep func(models.Booking) bool) []models.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Booking
	for _, b := range r.bookings {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

func truncate(bookings []models.Booking, limit int64) []models.Booking {
	if limit > 0 && int64(len(bookings)) > limit {
		return bookings[:limit]
	}
	return bookings
}
