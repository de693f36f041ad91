package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"fitbook/models"
	"fitbook/services/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletePaymentConfirms(t *testing.T) {
	f := newFixture(t)
	resp := f.start(t, f.at(24), 1)

	result, err := f.svc.CompletePayment(context.Background(), alice, f.verification(resp, "pay_1"))
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, result.Status)

	b, err := f.repo.GetByID(context.Background(), resp.BookingID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, b.Status)
	assert.Equal(t, "pay_1", b.PaymentID)

	order, err := f.orders.GetByID(context.Background(), resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPaid, order.Status)
}

func TestCompletePaymentDuplicateCallbackIsNoOp(t *testing.T) {
	f := newFixture(t)
	resp := f.start(t, f.at(24), 1)
	req := f.verification(resp, "pay_1")

	first, err := f.svc.CompletePayment(context.Background(), alice, req)
	require.NoError(t, err)
	second, err := f.svc.CompletePayment(context.Background(), alice, req)
	require.NoError(t, err)

	assert.Equal(t, models.StatusConfirmed, first.Status)
	assert.Equal(t, models.StatusConfirmed, second.Status)
	assert.Equal(t, []string{models.EventBookingReserved, models.EventBookingConfirmed}, f.events.Types())
}

func TestCompletePaymentConcurrentCallbacksConfirmOnce(t *testing.T) {
	f := newFixture(t)
	resp := f.start(t, f.at(24), 1)
	req := f.verification(resp, "pay_1")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := f.svc.CompletePayment(context.Background(), alice, req)
			assert.NoError(t, err)
			if result != nil {
				assert.Equal(t, models.StatusConfirmed, result.Status)
			}
		}()
	}
	wg.Wait()

	confirmed := 0
	for _, typ := range f.events.Types() {
		if typ == models.EventBookingConfirmed {
			confirmed++
		}
	}
	assert.Equal(t, 1, confirmed)
}

func TestCompletePaymentAfterExpiryReportsExpired(t *testing.T) {
	f := newFixture(t)
	resp := f.start(t, f.at(24), 1)

	f.clock.Advance(31 * time.Minute)
	result, err := f.svc.CompletePayment(context.Background(), alice, f.verification(resp, "pay_1"))
	require.NoError(t, err)
	assert.Equal(t, models.StatusExpired, result.Status)

	b, err := f.repo.GetByID(context.Background(), resp.BookingID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusExpired, b.Status)
	assert.Empty(t, b.PaymentID)
}

func TestCompletePaymentRejectsBadSignature(t *testing.T) {
	f := newFixture(t)
	resp := f.start(t, f.at(24), 1)
	req := f.verification(resp, "pay_1")
	req.Signature = f.verifier.Sign(resp.OrderID, "pay_other")

	_, err := f.svc.CompletePayment(context.Background(), alice, req)
	require.ErrorIs(t, err, ErrPaymentRejected)
	var bErr *Error
	require.ErrorAs(t, err, &bErr)
	require.NotNil(t, bErr.Result)
	assert.Equal(t, models.StatusFailed, bErr.Result.Status)

	order, err := f.orders.GetByID(context.Background(), resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderVerificationFailed, order.Status)

	// A later valid callback cannot revive the failed booking.
	result, err := f.svc.CompletePayment(context.Background(), alice, f.verification(resp, "pay_1"))
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, result.Status)
}

func TestCompletePaymentRejectsForeignOrder(t *testing.T) {
	f := newFixture(t)
	resp := f.start(t, f.at(24), 1)
	req := f.verification(resp, "pay_1")
	req.OrderID = "order_someone_else"
	req.Signature = f.verifier.Sign(req.OrderID, req.PaymentID)

	_, err := f.svc.CompletePayment(context.Background(), alice, req)
	require.ErrorIs(t, err, ErrPaymentRejected)

	order, err := f.orders.GetByID(context.Background(), resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCreated, order.Status)
}

func TestCompletePaymentHidesOtherUsersBookings(t *testing.T) {
	f := newFixture(t)
	resp := f.start(t, f.at(24), 1)
	bob := Identity{Authenticated: true, UserID: "bob"}

	_, err := f.svc.CompletePayment(context.Background(), bob, f.verification(resp, "pay_1"))
	require.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.CompletePayment(context.Background(), Identity{}, f.verification(resp, "pay_1"))
	require.ErrorIs(t, err, ErrUnauthorized)

	b, err := f.repo.GetByID(context.Background(), resp.BookingID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingPayment, b.Status)
}

func TestCompletePaymentRecoversUnattachedOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := &models.Booking{
		UserID: alice.UserID, TrainerID: testTrainerID,
		SessionDate: f.at(24), SessionEnd: f.at(25), DurationHours: 1,
		AmountMinor: 100000, Currency: "INR", ExpiresAt: f.at(0.5),
	}
	require.NoError(t, f.repo.CreateIfAvailable(ctx, b, f.clock.Now()))
	order, err := f.svc.Payments.CreateOrder(ctx, b.ID, b.AmountMinor, b.Currency)
	require.NoError(t, err)

	result, err := f.svc.CompletePayment(ctx, alice, models.PaymentVerification{
		BookingID: b.ID, OrderID: order.ID, PaymentID: "pay_1",
		Signature: f.verifier.Sign(order.ID, "pay_1"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, result.Status)
}

func TestCompletePaymentLookupOutageLeavesBookingPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b := &models.Booking{
		UserID: alice.UserID, TrainerID: testTrainerID,
		SessionDate: f.at(24), SessionEnd: f.at(25), DurationHours: 1,
		AmountMinor: 100000, Currency: "INR", ExpiresAt: f.at(0.5),
	}
	require.NoError(t, f.repo.CreateIfAvailable(ctx, b, f.clock.Now()))
	// The gateway holds the order but neither the booking nor the order store recorded it.
	gwOrder, err := f.gateway.CreateOrder(ctx, paymentRequest(b))
	require.NoError(t, err)
	f.gateway.failLookups(&payment.GatewayError{Gateway: "stub", StatusCode: 503, Message: "unavailable"})

	req := models.PaymentVerification{
		BookingID: b.ID, OrderID: gwOrder.ID, PaymentID: "pay_1",
		Signature: f.verifier.Sign(gwOrder.ID, "pay_1"),
	}
	_, err = f.svc.CompletePayment(ctx, alice, req)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
	assert.NotErrorIs(t, err, ErrPaymentRejected)

	stored, err := f.repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingPayment, stored.Status)

	f.gateway.failLookups(nil)
	result, err := f.svc.CompletePayment(ctx, alice, req)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, result.Status)
}
