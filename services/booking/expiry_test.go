package booking

import (
	"context"
	"testing"
	"time"

	"fitbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBookingAppliesLazyExpiry(t *testing.T) {
	f := newFixture(t)
	resp := f.start(t, f.at(24), 1)

	b, err := f.svc.GetBooking(context.Background(), alice, resp.BookingID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingPayment, b.Status)

	f.clock.Advance(30 * time.Minute)
	b, err = f.svc.GetBooking(context.Background(), alice, resp.BookingID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusExpired, b.Status)
	assert.Contains(t, f.events.Types(), models.EventBookingExpired)
}

func TestGetBookingNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.GetBooking(context.Background(), alice, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetBookingByOtherUserLeavesLapsedBookingAlone(t *testing.T) {
	f := newFixture(t)
	resp := f.start(t, f.at(24), 1)
	f.clock.Advance(45 * time.Minute)

	_, err := f.svc.GetBooking(context.Background(), Identity{Authenticated: true, UserID: "bob"}, resp.BookingID)
	assert.ErrorIs(t, err, ErrNotFound)

	stored, err := f.repo.GetByID(context.Background(), resp.BookingID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingPayment, stored.Status)
	assert.NotContains(t, f.events.Types(), models.EventBookingExpired)
}

func TestListMyBookingsExpiresLapsed(t *testing.T) {
	f := newFixture(t)
	first := f.start(t, f.at(24), 1)
	f.clock.Advance(20 * time.Minute)
	second := f.start(t, f.at(30), 1)
	f.clock.Advance(15 * time.Minute)

	list, err := f.svc.ListMyBookings(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, list, 2)

	status := map[string]models.BookingStatus{}
	for _, b := range list {
		status[b.ID] = b.Status
	}
	assert.Equal(t, models.StatusExpired, status[first.BookingID])
	assert.Equal(t, models.StatusPendingPayment, status[second.BookingID])

	other, err := f.svc.ListMyBookings(context.Background(), Identity{Authenticated: true, UserID: "bob"})
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestExpireOverdue(t *testing.T) {
	f := newFixture(t)
	f.start(t, f.at(24), 1)
	f.start(t, f.at(26), 1)
	confirmed := f.start(t, f.at(28), 1)
	_, err := f.svc.CompletePayment(context.Background(), alice, f.verification(confirmed, "pay_1"))
	require.NoError(t, err)

	n, err := f.svc.ExpireOverdue(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	f.clock.Advance(time.Hour)
	n, err = f.svc.ExpireOverdue(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	b, err := f.svc.ExpireBooking(context.Background(), confirmed.BookingID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, b.Status)
}

func TestReconcileOrphanedOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Reserved ten minutes ago; the gateway accepted the order but nothing was recorded.
	b := &models.Booking{
		UserID: alice.UserID, TrainerID: testTrainerID,
		SessionDate: f.at(24), SessionEnd: f.at(25), DurationHours: 1,
		AmountMinor: 100000, Currency: "INR", ExpiresAt: f.at(0.3),
	}
	require.NoError(t, f.repo.CreateIfAvailable(ctx, b, f.clock.Now().Add(-10*time.Minute)))
	_, err := f.gateway.CreateOrder(ctx, paymentRequest(b))
	require.NoError(t, err)

	// A booking with no order anywhere is left alone.
	lonely := &models.Booking{
		UserID: alice.UserID, TrainerID: testTrainerID,
		SessionDate: f.at(30), SessionEnd: f.at(31), DurationHours: 1,
		AmountMinor: 100000, Currency: "INR", ExpiresAt: f.at(0.3),
	}
	require.NoError(t, f.repo.CreateIfAvailable(ctx, lonely, f.clock.Now().Add(-10*time.Minute)))

	n, err := f.svc.ReconcileOrphanedOrders(ctx, 2*time.Minute, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stored, err := f.repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "order_"+b.ID, stored.OrderID)

	order, err := f.orders.GetByBookingID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCreated, order.Status)

	stored, err = f.repo.GetByID(ctx, lonely.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.OrderID)
}
