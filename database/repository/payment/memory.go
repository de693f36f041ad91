package paymentRepo

import (
	"context"
	"sync"
	"time"

	"fitbook/database/repository"
	"fitbook/models"
)

// MemoryPaymentOrderRepo is the process-local PaymentOrderRepository.
type MemoryPaymentOrderRepo struct {
	mu        sync.Mutex
	orders    map[string]models.PaymentOrder
	byBooking map[string]string
}

func NewMemoryPaymentOrderRepo() *MemoryPaymentOrderRepo {
	return &MemoryPaymentOrderRepo{
		orders:    make(map[string]models.PaymentOrder),
		byBooking: make(map[string]string),
	}
}

func (r *MemoryPaymentOrderRepo) Create(ctx context.Context, order *models.PaymentOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byBooking[order.BookingID]; exists {
		return repository.ErrDuplicate
	}
	if _, exists := r.orders[order.ID]; exists {
		return repository.ErrDuplicate
	}
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now
	r.orders[order.ID] = *order
	r.byBooking[order.BookingID] = order.ID
	return nil
}

func (r *MemoryPaymentOrderRepo) GetByID(ctx context.Context, orderID string) (*models.PaymentOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[orderID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &o, nil
}

func (r *MemoryPaymentOrderRepo) GetByBookingID(ctx context.Context, bookingID string) (*models.PaymentOrder, error) {
	r.mu.Lock()
	id, ok := r.byBooking[bookingID]
	r.mu.Unlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *MemoryPaymentOrderRepo) UpdateStatus(ctx context.Context, orderID string, from, to models.PaymentOrderStatus, paymentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[orderID]
	if !ok {
		return repository.ErrNotFound
	}
	if o.Status != from {
		return repository.ErrStaleState
	}
	o.Status = to
	if paymentID != "" {
		o.PaymentID = paymentID
	}
	o.UpdatedAt = time.Now().UTC()
	r.orders[orderID] = o
	return nil
}
