package payment

import "context"

// OrderRequest is what every gateway needs to open a charge.
type OrderRequest struct {
	// IdempotencyKey is the booking ID. Gateways that support idempotency keys
	// receive it as such; the others store it as the order receipt.
	IdempotencyKey string
	Amount         int64 // minor units
	Currency       string
	Notes          map[string]string
}

// GatewayOrder is the provider's view of an order.
type GatewayOrder struct {
	ID       string
	Amount   int64
	Currency string
	Receipt  string
	Status   string
}

// OrderClient talks to one payment provider.
type OrderClient interface {
	Name() string
	CreateOrder(ctx context.Context, req OrderRequest) (*GatewayOrder, error)
	// FindOrderByReceipt returns nil, nil when the provider has no order for the key.
	FindOrderByReceipt(ctx context.Context, idempotencyKey string) (*GatewayOrder, error)
}
