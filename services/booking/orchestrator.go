package booking

import (
	"context"
	"errors"
	"strings"

	"fitbook/database/repository"
	"fitbook/metrics"
	"fitbook/models"
	"fitbook/services/payment"

	"go.uber.org/zap"
)

// StartBooking validates the request, reserves the slot and opens the gateway order.
// Nothing is persisted until every validation has passed.
func (s *DefaultBookingService) StartBooking(ctx context.Context, who Identity, req models.BookingRequest) (*models.StartBookingResponse, error) {
	if err := requireIdentity(who); err != nil {
		return nil, err
	}
	now := s.now()

	trainerID := strings.TrimSpace(req.TrainerID)
	if trainerID == "" {
		return nil, newError(ErrNotFound, CodeTrainerNotFound, "trainer not found", nil)
	}
	trainer, err := s.Trainers.GetTrainer(ctx, trainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, CodeTrainerNotFound, "trainer not found", nil)
		}
		return nil, internalError("failed to load trainer", err)
	}

	total, err := CalculateTotal(trainer.HourlyRate, req.DurationHours)
	if err != nil {
		return nil, err
	}
	if req.SessionDate.IsZero() || req.SessionDate.Before(now) {
		return nil, validationError(CodeInvalidSessionTime, "session_date must be in the future")
	}

	window := SessionInterval(req.SessionDate.UTC(), req.DurationHours)
	b := &models.Booking{
		UserID:        who.UserID,
		TrainerID:     trainer.ID,
		TrainerName:   trainer.Name,
		SessionDate:   window.Start,
		SessionEnd:    window.End,
		DurationHours: req.DurationHours,
		TotalAmount:   total.InexactFloat64(),
		AmountMinor:   ToMinorUnits(total),
		Currency:      s.currency(),
		Notes:         req.Notes,
		ExpiresAt:     now.Add(s.expiryWindow()),
	}
	if err := s.reserve(ctx, b, now); err != nil {
		return nil, err
	}

	log := s.logger().With(zap.String("booking_id", b.ID), zap.String("user_id", b.UserID))
	metrics.BookingsStarted.Inc()
	log.Info("Booking reserved",
		zap.String("trainer_id", b.TrainerID),
		zap.Time("session_date", b.SessionDate),
		zap.Int64("amount_minor", b.AmountMinor))

	s.scheduleExpiry(ctx, b, log)
	s.publish(ctx, models.EventBookingReserved, *b)

	order, err := s.Payments.CreateOrder(ctx, b.ID, b.AmountMinor, b.Currency)
	if err != nil {
		return nil, s.handleOrderFailure(ctx, b, err, log)
	}

	if err := s.Repo.AttachOrder(ctx, b.ID, order.ID); err != nil {
		// The order is persisted by the payment service; reconciliation re-attaches it.
		log.Warn("Failed to attach order to booking", zap.String("order_id", order.ID), zap.Error(err))
	}

	return &models.StartBookingResponse{
		BookingID:   b.ID,
		OrderID:     order.ID,
		Amount:      order.Amount,
		TotalAmount: b.TotalAmount,
		Currency:    order.Currency,
		Gateway:     s.Payments.GatewayName(),
		Status:      models.StatusPendingPayment,
	}, nil
}

// handleOrderFailure releases the slot by failing the booking, except when the caller
// went away or another request is already creating the order. In those cases the
// booking stays pending and expiry cleans it up.
func (s *DefaultBookingService) handleOrderFailure(ctx context.Context, b *models.Booking, orderErr error, log *zap.Logger) error {
	gatewayErr := newError(ErrGatewayUnavailable, CodeGatewayUnavailable, "payment gateway is unavailable, please try again", orderErr)

	if errors.Is(orderErr, payment.ErrOrderInProgress) || errors.Is(ctx.Err(), context.Canceled) {
		log.Warn("Order creation interrupted, leaving booking pending", zap.Error(orderErr))
		return gatewayErr
	}

	_, _, err := s.transition(context.WithoutCancel(ctx), b.ID, models.StatusFailed, models.BookingUpdate{
		FailureReason: "payment order could not be created",
	})
	if err != nil {
		log.Error("Failed to mark booking failed after gateway error", zap.Error(err))
	}
	log.Warn("Booking failed: gateway unavailable", zap.Error(orderErr))
	return gatewayErr
}

func (s *DefaultBookingService) scheduleExpiry(ctx context.Context, b *models.Booking, log *zap.Logger) {
	if s.Expiry == nil {
		return
	}
	if err := s.Expiry.ScheduleExpiry(ctx, b.ID, b.ExpiresAt); err != nil {
		// Lazy expiry and the sweep still cover this booking.
		log.Warn("Failed to schedule booking expiry", zap.Error(err))
	}
}
