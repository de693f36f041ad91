package paymentRepo

import (
	"context"

	"fitbook/models"
)

// PaymentOrderRepository persists gateway orders, at most one per booking.
type PaymentOrderRepository interface {
	// Create fails with repository.ErrDuplicate if the booking already has an order.
	Create(ctx context.Context, order *models.PaymentOrder) error
	GetByID(ctx context.Context, orderID string) (*models.PaymentOrder, error)
	GetByBookingID(ctx context.Context, bookingID string) (*models.PaymentOrder, error)
	// UpdateStatus is a compare-and-swap on the order status.
	UpdateStatus(ctx context.Context, orderID string, from, to models.PaymentOrderStatus, paymentID string) error
}
