package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	bookingRepo "fitbook/database/repository/booking"
	paymentRepo "fitbook/database/repository/payment"
	trainerRepo "fitbook/database/repository/trainer"
	"fitbook/models"
	"fitbook/services/payment"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testTrainerID = "t1"

var alice = Identity{Authenticated: true, UserID: "alice"}

// stubGateway times out the first timeouts calls, then accepts orders. Receipt
// lookups fail with lookupErr when it is set.
type stubGateway struct {
	mu        sync.Mutex
	timeouts  int
	reject    bool
	lookupErr error
	calls     int
	orders    map[string]*payment.GatewayOrder
}

func newStubGateway() *stubGateway {
	return &stubGateway{orders: make(map[string]*payment.GatewayOrder)}
}

func (g *stubGateway) Name() string { return "stub" }

func (g *stubGateway) CreateOrder(ctx context.Context, req payment.OrderRequest) (*payment.GatewayOrder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.calls <= g.timeouts {
		return nil, context.DeadlineExceeded
	}
	if g.reject {
		return nil, &payment.GatewayError{Gateway: "stub", StatusCode: 400, Message: "bad request"}
	}
	o := &payment.GatewayOrder{ID: "order_" + req.IdempotencyKey, Amount: req.Amount, Currency: req.Currency, Receipt: req.IdempotencyKey}
	g.orders[req.IdempotencyKey] = o
	return o, nil
}

func (g *stubGateway) FindOrderByReceipt(ctx context.Context, key string) (*payment.GatewayOrder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.lookupErr != nil {
		return nil, g.lookupErr
	}
	return g.orders[key], nil
}

func (g *stubGateway) failLookups(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lookupErr = err
}

func (g *stubGateway) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

type recordingEvents struct {
	mu     sync.Mutex
	events []models.BookingEvent
}

func (r *recordingEvents) Publish(ctx context.Context, evt models.BookingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
	return nil
}

func (r *recordingEvents) Close() error { return nil }

func (r *recordingEvents) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type recordingScheduler struct {
	mu  sync.Mutex
	ids []string
}

func (r *recordingScheduler) ScheduleExpiry(ctx context.Context, bookingID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, bookingID)
	return nil
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	svc       *DefaultBookingService
	repo      *bookingRepo.MemoryBookingRepo
	orders    *paymentRepo.MemoryPaymentOrderRepo
	gateway   *stubGateway
	verifier  *payment.SignatureVerifier
	events    *recordingEvents
	scheduler *recordingScheduler
	clock     *clock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	verifier, err := payment.NewSignatureVerifier("test_secret")
	require.NoError(t, err)

	f := &fixture{
		repo:      bookingRepo.NewMemoryBookingRepo(),
		orders:    paymentRepo.NewMemoryPaymentOrderRepo(),
		gateway:   newStubGateway(),
		verifier:  verifier,
		events:    &recordingEvents{},
		scheduler: &recordingScheduler{},
		clock:     &clock{now: time.Date(2030, 6, 1, 8, 0, 0, 0, time.UTC)},
	}
	payments := &payment.DefaultPaymentService{
		Client:         f.gateway,
		Orders:         f.orders,
		Locker:         payment.NewMemoryLocker(),
		Verifier:       verifier,
		Logger:         zap.NewNop(),
		AttemptTimeout: 50 * time.Millisecond,
		MaxAttempts:    3,
		BackoffBase:    time.Millisecond,
		LockTTL:        time.Second,
	}
	trainers := trainerRepo.NewMemoryTrainerRepo(models.Trainer{ID: testTrainerID, Name: "Sarah Johnson", HourlyRate: 1000})

	f.svc = &DefaultBookingService{
		Repo:         f.repo,
		Trainers:     trainers,
		Payments:     payments,
		Expiry:       f.scheduler,
		Events:       f.events,
		Logger:       zap.NewNop(),
		Currency:     "INR",
		ExpiryWindow: 30 * time.Minute,
		Now:          f.clock.Now,
	}
	return f
}

// at returns a session start hours after the fixture's clock.
func (f *fixture) at(hours float64) time.Time {
	return f.clock.Now().Add(time.Duration(hours * float64(time.Hour)))
}

func (f *fixture) start(t *testing.T, sessionStart time.Time, duration float64) *models.StartBookingResponse {
	t.Helper()
	resp, err := f.svc.StartBooking(context.Background(), alice, models.BookingRequest{
		TrainerID:     testTrainerID,
		SessionDate:   sessionStart,
		DurationHours: duration,
	})
	require.NoError(t, err)
	return resp
}

func (f *fixture) verification(resp *models.StartBookingResponse, paymentID string) models.PaymentVerification {
	return models.PaymentVerification{
		BookingID: resp.BookingID,
		OrderID:   resp.OrderID,
		PaymentID: paymentID,
		Signature: f.verifier.Sign(resp.OrderID, paymentID),
	}
}

func paymentRequest(b *models.Booking) payment.OrderRequest {
	return payment.OrderRequest{IdempotencyKey: b.ID, Amount: b.AmountMinor, Currency: b.Currency}
}
