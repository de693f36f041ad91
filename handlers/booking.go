package handlers

import (
	"net/http"

	"fitbook/models"
	"fitbook/services/booking"
	"fitbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BookingHandler struct {
	Service booking.BookingService
}

func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

// identityFrom reads the user placed in the context by JWTAuthUserMiddleware.
func identityFrom(c *gin.Context) booking.Identity {
	userID := c.GetString(utils.ContextUserIDKey)
	return booking.Identity{Authenticated: userID != "", UserID: userID}
}

// StartBooking handles POST /api/trainers/:id/book.
func (h *BookingHandler) StartBooking(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	req.TrainerID = c.Param("id")

	resp, err := h.Service.StartBooking(c.Request.Context(), identityFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	getLogger(c).Info("Booking started", zap.String("booking_id", resp.BookingID), zap.String("order_id", resp.OrderID))
	c.JSON(http.StatusCreated, resp)
}

// VerifyPayment handles POST /api/payments/verify.
func (h *BookingHandler) VerifyPayment(c *gin.Context) {
	var req models.PaymentVerification
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.Service.CompletePayment(c.Request.Context(), identityFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetBooking handles GET /api/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	b, err := h.Service.GetBooking(c.Request.Context(), identityFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// ListMyBookings handles GET /api/bookings/my-bookings.
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	list, err := h.Service.ListMyBookings(c.Request.Context(), identityFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if list == nil {
		list = []models.Booking{}
	}
	c.JSON(http.StatusOK, list)
}
