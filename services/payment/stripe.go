package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeClient opens a PaymentIntent per booking. Stripe honours idempotency keys,
// so a retried create with the same booking ID returns the original intent.
type StripeClient struct {
	api *client.API
}

func NewStripeClient(key string, timeout time.Duration) *StripeClient {
	cfg := &stripe.BackendConfig{
		HTTPClient: &http.Client{Timeout: timeout},
		// Retries are owned by the adapter.
		MaxNetworkRetries: stripe.Int64(0),
	}
	backends := &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, cfg),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, cfg),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, cfg),
	}
	return &StripeClient{api: client.New(key, backends)}
}

func (c *StripeClient) Name() string { return "stripe" }

func (c *StripeClient) CreateOrder(ctx context.Context, req OrderRequest) (*GatewayOrder, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(strings.ToLower(req.Currency)),
	}
	params.Context = ctx
	params.SetIdempotencyKey(req.IdempotencyKey)
	params.AddMetadata("booking_id", req.IdempotencyKey)
	for k, v := range req.Notes {
		params.AddMetadata(k, v)
	}

	pi, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return nil, c.wrap(err)
	}
	return intentToOrder(pi, req.IdempotencyKey), nil
}

func (c *StripeClient) FindOrderByReceipt(ctx context.Context, bookingID string) (*GatewayOrder, error) {
	params := &stripe.PaymentIntentSearchParams{}
	params.Context = ctx
	params.Query = fmt.Sprintf("metadata['booking_id']:'%s'", bookingID)

	iter := c.api.PaymentIntents.Search(params)
	for iter.Next() {
		pi := iter.PaymentIntent()
		if pi.Metadata["booking_id"] == bookingID {
			return intentToOrder(pi, bookingID), nil
		}
	}
	if err := iter.Err(); err != nil {
		return nil, c.wrap(err)
	}
	return nil, nil
}

func intentToOrder(pi *stripe.PaymentIntent, bookingID string) *GatewayOrder {
	return &GatewayOrder{
		ID:       pi.ID,
		Amount:   pi.Amount,
		Currency: strings.ToUpper(string(pi.Currency)),
		Receipt:  bookingID,
		Status:   string(pi.Status),
	}
}

// wrap turns API errors into GatewayError so IsRetryable can classify them.
func (c *StripeClient) wrap(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode != 0 {
		return &GatewayError{Gateway: c.Name(), StatusCode: stripeErr.HTTPStatusCode, Message: stripeErr.Msg}
	}
	return fmt.Errorf("stripe: %w", err)
}
