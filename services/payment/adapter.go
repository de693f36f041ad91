package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitbook/database/repository"
	paymentRepo "fitbook/database/repository/payment"
	"fitbook/metrics"
	"fitbook/models"
	"fitbook/utils"

	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"
)

// PaymentService is the booking flow's view of the gateway.
type PaymentService interface {
	GatewayName() string
	CreateOrder(ctx context.Context, bookingID string, amountMinor int64, currency string) (*models.PaymentOrder, error)
	VerifyPayment(orderID, paymentID, signature string) Verdict
	RecordOutcome(ctx context.Context, orderID, paymentID string, verdict Verdict) error
	FindOrder(ctx context.Context, bookingID string) (*models.PaymentOrder, error)
}

// DefaultPaymentService implements PaymentService on top of one OrderClient.
type DefaultPaymentService struct {
	Client   OrderClient
	Orders   paymentRepo.PaymentOrderRepository
	Locker   Locker
	Verifier *SignatureVerifier
	Logger   *zap.Logger

	AttemptTimeout time.Duration
	MaxAttempts    uint
	BackoffBase    time.Duration
	LockTTL        time.Duration
}

func (s *DefaultPaymentService) GatewayName() string { return s.Client.Name() }

func (s *DefaultPaymentService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return utils.GetLogger()
}

// CreateOrder returns the booking's order, creating it at the gateway when none exists.
// Creation is never issued concurrently for one booking and retries only transient failures.
func (s *DefaultPaymentService) CreateOrder(ctx context.Context, bookingID string, amountMinor int64, currency string) (*models.PaymentOrder, error) {
	log := s.logger().With(zap.String("booking_id", bookingID), zap.String("gateway", s.Client.Name()))

	if existing, err := s.Orders.GetByBookingID(ctx, bookingID); err == nil {
		return existing, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("look up order for booking %s: %w", bookingID, err)
	}

	release, err := s.Locker.Acquire(ctx, utils.OrderLockPrefix+bookingID, s.lockTTL())
	if err != nil {
		if errors.Is(err, ErrOrderInProgress) {
			return nil, fmt.Errorf("%w: %w", ErrGatewayUnavailable, ErrOrderInProgress)
		}
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer release()

	req := OrderRequest{
		IdempotencyKey: bookingID,
		Amount:         amountMinor,
		Currency:       currency,
		Notes:          map[string]string{"booking_id": bookingID},
	}

	attempt := 0
	gwOrder, err := retry.DoWithData(
		func() (*GatewayOrder, error) {
			attempt++
			if attempt > 1 {
				if found := s.lookupByReceipt(ctx, bookingID, log); found != nil {
					return found, nil
				}
			}
			return s.createOnce(ctx, req)
		},
		retry.Context(ctx),
		retry.Attempts(s.attempts()),
		retry.Delay(s.BackoffBase),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(IsRetryable),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warn("Gateway order creation failed, retrying", zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)
	if err != nil {
		log.Error("Gateway order creation failed", zap.Int("attempts", attempt), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	order := &models.PaymentOrder{
		ID:        gwOrder.ID,
		BookingID: bookingID,
		Gateway:   s.Client.Name(),
		Amount:    amountMinor,
		Currency:  currency,
		Status:    models.OrderCreated,
	}
	if err := s.Orders.Create(ctx, order); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			if existing, getErr := s.Orders.GetByBookingID(ctx, bookingID); getErr == nil {
				return existing, nil
			}
		}
		// The gateway holds the order either way; reconciliation re-attaches it.
		log.Warn("Failed to persist gateway order", zap.String("order_id", order.ID), zap.Error(err))
	}

	log.Info("Gateway order created", zap.String("order_id", order.ID), zap.Int64("amount", amountMinor))
	return order, nil
}

func (s *DefaultPaymentService) attempts() uint {
	if s.MaxAttempts == 0 {
		return 3
	}
	return s.MaxAttempts
}

func (s *DefaultPaymentService) lockTTL() time.Duration {
	if s.LockTTL <= 0 {
		return 45 * time.Second
	}
	return s.LockTTL
}

func (s *DefaultPaymentService) createOnce(ctx context.Context, req OrderRequest) (*GatewayOrder, error) {
	attemptCtx := ctx
	if s.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, s.AttemptTimeout)
		defer cancel()
	}

	start := time.Now()
	order, err := s.Client.CreateOrder(attemptCtx, req)
	metrics.GatewayLatency.WithLabelValues(s.Client.Name()).Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		metrics.GatewayAttempts.WithLabelValues(s.Client.Name(), "success").Inc()
	case IsRetryable(err):
		metrics.GatewayAttempts.WithLabelValues(s.Client.Name(), "retryable").Inc()
	default:
		metrics.GatewayAttempts.WithLabelValues(s.Client.Name(), "rejected").Inc()
	}
	return order, err
}

// lookupByReceipt asks the gateway whether an earlier attempt already created the order.
// Lookup failures are not fatal; the next create carries the same idempotency key.
func (s *DefaultPaymentService) lookupByReceipt(ctx context.Context, bookingID string, log *zap.Logger) *GatewayOrder {
	lookupCtx := ctx
	if s.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		lookupCtx, cancel = context.WithTimeout(ctx, s.AttemptTimeout)
		defer cancel()
	}
	found, err := s.Client.FindOrderByReceipt(lookupCtx, bookingID)
	if err != nil {
		log.Debug("Receipt lookup failed", zap.Error(err))
		return nil
	}
	if found != nil {
		log.Info("Found order from earlier attempt", zap.String("order_id", found.ID))
	}
	return found
}

func (s *DefaultPaymentService) VerifyPayment(orderID, paymentID, signature string) Verdict {
	return s.Verifier.Verify(orderID, paymentID, signature)
}

// RecordOutcome moves a created order to paid or verification_failed. An order that
// has already settled is left as is.
func (s *DefaultPaymentService) RecordOutcome(ctx context.Context, orderID, paymentID string, verdict Verdict) error {
	to := models.OrderVerificationFailed
	if verdict == Verified {
		to = models.OrderPaid
	}
	err := s.Orders.UpdateStatus(ctx, orderID, models.OrderCreated, to, paymentID)
	if err == nil || errors.Is(err, repository.ErrStaleState) {
		return nil
	}
	return fmt.Errorf("record %s outcome for order %s: %w", to, orderID, err)
}

// FindOrder resolves the order for a booking from the local store, falling back to the
// gateway by receipt. A gateway hit is persisted so later lookups stay local.
func (s *DefaultPaymentService) FindOrder(ctx context.Context, bookingID string) (*models.PaymentOrder, error) {
	if order, err := s.Orders.GetByBookingID(ctx, bookingID); err == nil {
		return order, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("look up order for booking %s: %w", bookingID, err)
	}

	found, err := s.Client.FindOrderByReceipt(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	if found == nil {
		return nil, ErrOrderNotFound
	}

	order := &models.PaymentOrder{
		ID:        found.ID,
		BookingID: bookingID,
		Gateway:   s.Client.Name(),
		Amount:    found.Amount,
		Currency:  found.Currency,
		Status:    models.OrderCreated,
	}
	if err := s.Orders.Create(ctx, order); err != nil && !errors.Is(err, repository.ErrDuplicate) {
		s.logger().Warn("Failed to persist recovered order", zap.String("booking_id", bookingID), zap.Error(err))
	}
	return order, nil
}
