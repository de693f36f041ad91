package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRazorpayCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_key", user)
		assert.Equal(t, "rzp_secret", pass)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.EqualValues(t, 5000, body["amount"])
		assert.Equal(t, "INR", body["currency"])
		assert.Equal(t, "b1", body["receipt"])
		assert.EqualValues(t, 1, body["payment_capture"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"order_abc","amount":5000,"currency":"INR","receipt":"b1","status":"created"}`))
	}))
	defer srv.Close()

	c := NewRazorpayClient("rzp_key", "rzp_secret", srv.URL, time.Second)
	order, err := c.CreateOrder(context.Background(), OrderRequest{IdempotencyKey: "b1", Amount: 5000, Currency: "INR"})
	require.NoError(t, err)
	assert.Equal(t, "order_abc", order.ID)
	assert.Equal(t, int64(5000), order.Amount)
}

func TestRazorpayErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount must be at least 100"}}`))
	}))
	defer srv.Close()

	c := NewRazorpayClient("k", "s", srv.URL, time.Second)
	_, err := c.CreateOrder(context.Background(), OrderRequest{IdempotencyKey: "b1", Amount: 1, Currency: "INR"})

	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, http.StatusBadRequest, gwErr.StatusCode)
	assert.Contains(t, gwErr.Message, "amount must be at least 100")
	assert.False(t, IsRetryable(err))
}

func TestRazorpayServerErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":"SERVER_ERROR","description":"The server encountered an error"}}`))
	}))
	defer srv.Close()

	c := NewRazorpayClient("k", "s", srv.URL, time.Second)
	_, err := c.CreateOrder(context.Background(), OrderRequest{IdempotencyKey: "b1", Amount: 5000, Currency: "INR"})
	require.Error(t, err)
	assert.True(t, IsRetryable(err))
}

func TestRazorpayHonoursCallerDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := NewRazorpayClient("k", "s", srv.URL, 5*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.CreateOrder(ctx, OrderRequest{IdempotencyKey: "b1", Amount: 5000, Currency: "INR"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, IsRetryable(err))
	assert.Less(t, time.Since(start), time.Second)
}

func TestRazorpayFindOrderByReceipt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		if r.URL.Query().Get("receipt") == "b1" {
			_, _ = w.Write([]byte(`{"count":1,"items":[{"id":"order_abc","amount":5000,"currency":"INR","receipt":"b1"}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"count":0,"items":[]}`))
	}))
	defer srv.Close()

	c := NewRazorpayClient("k", "s", srv.URL, time.Second)
	order, err := c.FindOrderByReceipt(context.Background(), "b1")
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, "order_abc", order.ID)

	order, err = c.FindOrderByReceipt(context.Background(), "b2")
	require.NoError(t, err)
	assert.Nil(t, order)
}
