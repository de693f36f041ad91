package booking

import (
	"context"
	"errors"

	"fitbook/metrics"
	"fitbook/models"
	"fitbook/services/payment"

	"go.uber.org/zap"
)

// CompletePayment verifies the checkout result and finalizes the booking. The status
// CAS is the only serialization point: of any number of concurrent or repeated
// callbacks, one moves the booking and the rest observe its current status.
func (s *DefaultBookingService) CompletePayment(ctx context.Context, who Identity, req models.PaymentVerification) (*models.PaymentResult, error) {
	if err := requireIdentity(who); err != nil {
		return nil, err
	}

	b, err := s.loadOwned(ctx, who, req.BookingID)
	if err != nil {
		return nil, err
	}
	log := s.logger().With(zap.String("booking_id", b.ID), zap.String("order_id", req.OrderID))

	if b.Status != models.StatusPendingPayment {
		metrics.StaleCallbacks.Inc()
		log.Info("Payment callback for settled booking ignored", zap.String("status", string(b.Status)))
		return &models.PaymentResult{BookingID: b.ID, Status: b.Status}, nil
	}

	orderID, err := s.bookingOrderID(ctx, b, log)
	if err != nil {
		return nil, err
	}
	verdict := payment.Rejected
	if orderID != "" && req.OrderID == orderID {
		verdict = s.Payments.VerifyPayment(req.OrderID, req.PaymentID, req.Signature)
	}

	if verdict == payment.Verified {
		updated, moved, err := s.transition(ctx, b.ID, models.StatusConfirmed, models.BookingUpdate{
			PaymentID: req.PaymentID,
			OrderID:   orderID,
		})
		if err != nil {
			return nil, err
		}
		if !moved {
			metrics.StaleCallbacks.Inc()
			log.Info("Booking settled concurrently", zap.String("status", string(updated.Status)))
			return &models.PaymentResult{BookingID: updated.ID, Status: updated.Status}, nil
		}
		s.recordOutcome(ctx, orderID, req.PaymentID, verdict, log)
		log.Info("Booking confirmed", zap.String("payment_id", req.PaymentID))
		return &models.PaymentResult{BookingID: updated.ID, Status: updated.Status}, nil
	}

	updated, moved, err := s.transition(ctx, b.ID, models.StatusFailed, models.BookingUpdate{
		OrderID:       orderID,
		FailureReason: "payment signature verification failed",
	})
	if err != nil {
		return nil, err
	}
	if !moved {
		metrics.StaleCallbacks.Inc()
		return &models.PaymentResult{BookingID: updated.ID, Status: updated.Status}, nil
	}
	if orderID != "" && req.OrderID == orderID {
		s.recordOutcome(ctx, orderID, req.PaymentID, verdict, log)
	}
	log.Warn("Payment rejected, booking failed")

	rejected := newError(ErrPaymentRejected, CodePaymentRejected, "payment could not be verified", nil)
	rejected.Result = &models.PaymentResult{BookingID: updated.ID, Status: updated.Status}
	return nil, rejected
}

// bookingOrderID returns the order recorded on b, recovering it through the payment
// service when the attach step was lost. An empty ID means no order exists for the
// booking. A failed lookup is returned as an error and the booking stays pending, so
// the callback can be retried.
func (s *DefaultBookingService) bookingOrderID(ctx context.Context, b *models.Booking, log *zap.Logger) (string, error) {
	if b.OrderID != "" {
		return b.OrderID, nil
	}
	order, err := s.Payments.FindOrder(ctx, b.ID)
	switch {
	case err == nil:
	case errors.Is(err, payment.ErrOrderNotFound):
		return "", nil
	case errors.Is(err, payment.ErrGatewayUnavailable):
		log.Warn("Order lookup failed, leaving booking pending", zap.Error(err))
		return "", newError(ErrGatewayUnavailable, CodeGatewayUnavailable, "payment gateway is unavailable, please try again", err)
	default:
		return "", internalError("failed to look up payment order", err)
	}
	if err := s.Repo.AttachOrder(ctx, b.ID, order.ID); err != nil {
		log.Warn("Failed to attach recovered order", zap.String("order_id", order.ID), zap.Error(err))
	}
	return order.ID, nil
}

func (s *DefaultBookingService) recordOutcome(ctx context.Context, orderID, paymentID string, verdict payment.Verdict, log *zap.Logger) {
	if err := s.Payments.RecordOutcome(context.WithoutCancel(ctx), orderID, paymentID, verdict); err != nil {
		log.Error("Failed to record payment outcome", zap.String("verdict", verdict.String()), zap.Error(err))
	}
}
