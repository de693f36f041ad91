package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	razorpay "github.com/razorpay/razorpay-go"
	rzperrors "github.com/razorpay/razorpay-go/errors"
)

// RazorpayClient creates orders through the Razorpay Orders API.
// Razorpay has no idempotency header for orders, so the booking ID travels as the
// receipt and FindOrderByReceipt is how duplicates are detected.
//
// The SDK takes no context. Each call is bounded by the HTTP client timeout and
// returns as soon as ctx is done; the abandoned request finishes in the background.
type RazorpayClient struct {
	api *razorpay.Client
}

func NewRazorpayClient(keyID, keySecret, baseURL string, timeout time.Duration) *RazorpayClient {
	api := razorpay.NewClient(keyID, keySecret)
	razorpay.Request.HTTPClient = &http.Client{Timeout: timeout}
	if baseURL != "" {
		razorpay.Request.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &RazorpayClient{api: api}
}

func (c *RazorpayClient) Name() string { return "razorpay" }

type razorpayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

func (o razorpayOrder) toGatewayOrder() *GatewayOrder {
	return &GatewayOrder{ID: o.ID, Amount: o.Amount, Currency: o.Currency, Receipt: o.Receipt, Status: o.Status}
}

func (c *RazorpayClient) CreateOrder(ctx context.Context, req OrderRequest) (*GatewayOrder, error) {
	data := map[string]interface{}{
		"amount":          req.Amount,
		"currency":        req.Currency,
		"receipt":         req.IdempotencyKey,
		"payment_capture": 1,
	}
	if len(req.Notes) > 0 {
		data["notes"] = req.Notes
	}

	resp, err := c.call(ctx, func() (map[string]interface{}, error) {
		return c.api.Order.Create(data, nil)
	})
	if err != nil {
		return nil, err
	}

	var order razorpayOrder
	if err := decodeInto(resp, &order); err != nil {
		return nil, err
	}
	return order.toGatewayOrder(), nil
}

func (c *RazorpayClient) FindOrderByReceipt(ctx context.Context, receipt string) (*GatewayOrder, error) {
	resp, err := c.call(ctx, func() (map[string]interface{}, error) {
		return c.api.Order.All(map[string]interface{}{"receipt": receipt}, nil)
	})
	if err != nil {
		return nil, err
	}

	var page struct {
		Count int             `json:"count"`
		Items []razorpayOrder `json:"items"`
	}
	if err := decodeInto(resp, &page); err != nil {
		return nil, err
	}
	for _, o := range page.Items {
		if o.Receipt == receipt {
			return o.toGatewayOrder(), nil
		}
	}
	return nil, nil
}

type razorpayResult struct {
	body map[string]interface{}
	err  error
}

func (c *RazorpayClient) call(ctx context.Context, fn func() (map[string]interface{}, error)) (map[string]interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	done := make(chan razorpayResult, 1)
	go func() {
		body, err := fn()
		done <- razorpayResult{body: body, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		if res.err != nil {
			return nil, c.wrap(res.err)
		}
		return res.body, nil
	}
}

// wrap maps SDK errors onto GatewayError so IsRetryable can classify them. The SDK
// reports the error class rather than the HTTP status.
func (c *RazorpayClient) wrap(err error) error {
	var (
		badRequest *rzperrors.BadRequestError
		server     *rzperrors.ServerError
		gateway    *rzperrors.GatewayError
	)
	switch {
	case errors.As(err, &badRequest):
		return &GatewayError{Gateway: c.Name(), StatusCode: http.StatusBadRequest, Message: err.Error()}
	case errors.As(err, &server), errors.As(err, &gateway):
		return &GatewayError{Gateway: c.Name(), StatusCode: http.StatusBadGateway, Message: err.Error()}
	default:
		return fmt.Errorf("razorpay: %w", err)
	}
}

// decodeInto converts the SDK's generic response map into out.
func decodeInto(resp map[string]interface{}, out interface{}) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode razorpay response: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode razorpay response: %w", err)
	}
	return nil
}
