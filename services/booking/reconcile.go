package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitbook/metrics"
	"fitbook/services/payment"

	"go.uber.org/zap"
)

// ReconcileOrphanedOrders looks for pending bookings older than grace that never had an
// order recorded, typically because the store failed right after the gateway accepted
// the order. Any order the gateway knows for the booking is attached; bookings with
// none are left for expiry.
func (s *DefaultBookingService) ReconcileOrphanedOrders(ctx context.Context, grace time.Duration, limit int64) (int, error) {
	now := s.now()
	candidates, err := s.Repo.ListPendingWithoutOrder(ctx, now.Add(-grace), limit)
	if err != nil {
		return 0, fmt.Errorf("list bookings without order: %w", err)
	}

	attached := 0
	for _, b := range candidates {
		log := s.logger().With(zap.String("booking_id", b.ID))
		if b.PaymentWindowLapsed(now) {
			continue
		}

		order, err := s.Payments.FindOrder(ctx, b.ID)
		if err != nil {
			if errors.Is(err, payment.ErrOrderNotFound) {
				log.Debug("No gateway order for booking")
			} else {
				log.Warn("Order lookup failed during reconciliation", zap.Error(err))
			}
			continue
		}

		if err := s.Repo.AttachOrder(ctx, b.ID, order.ID); err != nil {
			log.Warn("Failed to attach reconciled order", zap.String("order_id", order.ID), zap.Error(err))
			continue
		}
		metrics.ReconciledOrders.Inc()
		log.Info("Reconciled orphaned order", zap.String("order_id", order.ID))
		attached++
	}
	return attached, nil
}
