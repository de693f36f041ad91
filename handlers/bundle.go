package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle groups the endpoint handlers handed to the router.
type HandlerBundle struct {
	// Booking endpoints
	StartBooking   gin.HandlerFunc
	VerifyPayment  gin.HandlerFunc
	GetBooking     gin.HandlerFunc
	ListMyBookings gin.HandlerFunc

	// Trainer directory
	GetTrainer gin.HandlerFunc

	// Operational endpoints
	Health  gin.HandlerFunc
	Metrics gin.HandlerFunc
}

// NewHandlerBundle wires the booking and trainer handlers into a bundle.
func NewHandlerBundle(bh *BookingHandler, th *TrainerHandler, metrics gin.HandlerFunc) *HandlerBundle {
	return &HandlerBundle{
		StartBooking:   bh.StartBooking,
		VerifyPayment:  bh.VerifyPayment,
		GetBooking:     bh.GetBooking,
		ListMyBookings: bh.ListMyBookings,
		GetTrainer:     th.GetTrainer,
		Health:         HealthHandler,
		Metrics:        metrics,
	}
}
