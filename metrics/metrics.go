package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fitbook_bookings_started_total",
		Help: "Bookings reserved in pending_payment",
	})

	BookingTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fitbook_booking_transitions_total",
		Help: "Booking status transitions by target status",
	}, []string{"status"})

	SlotConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fitbook_slot_conflicts_total",
		Help: "Booking attempts rejected because the slot was taken",
	})

	StaleCallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fitbook_stale_payment_callbacks_total",
		Help: "Payment callbacks that arrived after the booking left pending_payment",
	})

	GatewayAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fitbook_gateway_order_attempts_total",
		Help: "Gateway order creation attempts by outcome",
	}, []string{"gateway", "outcome"})

	GatewayLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fitbook_gateway_order_seconds",
		Help:    "Latency of gateway order creation calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"gateway"})

	ReconciledOrders = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fitbook_reconciled_orders_total",
		Help: "Orphaned gateway orders re-attached to their booking",
	})
)
