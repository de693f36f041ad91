package handlers

import (
	"fmt"

	"fitbook/services/booking"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the custom binding rules used by request models.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("session_duration", func(fl validator.FieldLevel) bool {
		return booking.IsSupportedDuration(fl.Field().Float())
	})
}
