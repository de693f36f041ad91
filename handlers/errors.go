package handlers

import (
	"errors"
	"net/http"

	"fitbook/services/booking"
	"fitbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// respondError renders a BookingService error. Infrastructure causes are logged here
// and never sent to the client.
func respondError(c *gin.Context, err error) {
	var bErr *booking.Error
	if !errors.As(err, &bErr) {
		getLogger(c).Error("Unclassified service error", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, booking.CodeInternal, "Internal server error", "")
		return
	}

	switch {
	case errors.Is(bErr.Kind, booking.ErrUnauthorized):
		utils.JSONError(c, http.StatusUnauthorized, bErr.Code, bErr.Message, "")
	case errors.Is(bErr.Kind, booking.ErrValidation):
		utils.JSONError(c, http.StatusBadRequest, bErr.Code, bErr.Message, "")
	case errors.Is(bErr.Kind, booking.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, bErr.Code, bErr.Message, "")
	case errors.Is(bErr.Kind, booking.ErrSlotConflict):
		utils.JSONError(c, http.StatusConflict, bErr.Code, bErr.Message, "")
	case errors.Is(bErr.Kind, booking.ErrGatewayUnavailable):
		getLogger(c).Warn("Gateway unavailable", zap.Error(bErr.Err))
		utils.JSONError(c, http.StatusServiceUnavailable, bErr.Code, bErr.Message, "")
	case errors.Is(bErr.Kind, booking.ErrPaymentRejected):
		body := gin.H{"message": bErr.Message, "code": bErr.Code}
		if bErr.Result != nil {
			body["booking_id"] = bErr.Result.BookingID
			body["status"] = bErr.Result.Status
		}
		c.JSON(http.StatusPaymentRequired, body)
	default:
		getLogger(c).Error("Booking service failure", zap.Error(bErr.Err))
		utils.JSONError(c, http.StatusInternalServerError, bErr.Code, "Internal server error", "")
	}
}

// respondBindError reports a malformed body, singling out unsupported session lengths.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == "session_duration" || fe.Field() == "DurationHours" {
				utils.JSONError(c, http.StatusBadRequest, booking.CodeInvalidDuration,
					"duration_hours must be one of 0.5, 1, 1.5, 2 or 3", "")
				return
			}
		}
	}
	utils.JSONError(c, http.StatusBadRequest, booking.CodeInvalidRequest, "Invalid request body", err.Error())
}
