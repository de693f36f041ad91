package booking

import (
	"math"

	"github.com/shopspring/decimal"
)

// SupportedDurations lists the bookable session lengths in hours.
var SupportedDurations = []float64{0.5, 1, 1.5, 2, 3}

// minorUnitDigits is the number of decimal places in the charged currency.
const minorUnitDigits = 2

// IsSupportedDuration reports whether hours is one of SupportedDurations.
func IsSupportedDuration(hours float64) bool {
	for _, d := range SupportedDurations {
		if hours == d {
			return true
		}
	}
	return false
}

// CalculateTotal prices a session as hourlyRate * durationHours, rounded half-up to the
// currency's minor unit. The result is exact; float inputs are read at their shortest
// decimal representation.
func CalculateTotal(hourlyRate, durationHours float64) (decimal.Decimal, error) {
	if math.IsNaN(durationHours) || durationHours <= 0 || !IsSupportedDuration(durationHours) {
		return decimal.Zero, validationError(CodeInvalidDuration, "duration_hours must be one of 0.5, 1, 1.5, 2 or 3")
	}
	if math.IsNaN(hourlyRate) || math.IsInf(hourlyRate, 0) || hourlyRate <= 0 {
		return decimal.Zero, validationError(CodeInvalidRate, "trainer hourly rate must be positive")
	}

	total := decimal.NewFromFloat(hourlyRate).Mul(decimal.NewFromFloat(durationHours))
	// Round is half away from zero, which is half-up for positive amounts.
	return total.Round(minorUnitDigits), nil
}

// ToMinorUnits converts a rounded total into the integer amount a gateway charges.
func ToMinorUnits(total decimal.Decimal) int64 {
	return total.Shift(minorUnitDigits).Round(0).IntPart()
}
