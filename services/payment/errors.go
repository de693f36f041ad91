package payment

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrGatewayUnavailable is returned once order creation has exhausted its retries
	// or failed in a way retrying cannot fix.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	// ErrOrderInProgress means another caller holds the order lock for the booking.
	ErrOrderInProgress = errors.New("order creation already in progress for booking")
	// ErrOrderNotFound means neither the local store nor the gateway knows an order for the booking.
	ErrOrderNotFound = errors.New("no payment order for booking")
	// ErrMissingSecret is a configuration error: signatures cannot be verified without a secret.
	ErrMissingSecret = errors.New("payment signing secret is not configured")
)

// GatewayError is a non-2xx response from the payment provider.
type GatewayError struct {
	Gateway    string
	StatusCode int
	Message    string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s responded %d: %s", e.Gateway, e.StatusCode, e.Message)
}

// Retryable reports whether the provider asked us to come back later.
func (e *GatewayError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

// IsRetryable classifies order creation failures: timeouts, transport errors and
// 5xx/429 responses are retried, everything else is final.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr.Retryable()
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
