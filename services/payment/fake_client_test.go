package payment

import (
	"context"
	"sync"
)

// fakeClient replays scripted CreateOrder results and records receipt lookups.
type fakeClient struct {
	mu       sync.Mutex
	results  []error
	calls    int
	lookups  int
	byKey    map[string]*GatewayOrder
	hangCall bool
}

func newFakeClient(results ...error) *fakeClient {
	return &fakeClient{results: results, byKey: make(map[string]*GatewayOrder)}
}

func (f *fakeClient) Name() string { return "fake" }

func (f *fakeClient) CreateOrder(ctx context.Context, req OrderRequest) (*GatewayOrder, error) {
	f.mu.Lock()
	idx := f.calls
	f.calls++
	var err error
	if idx < len(f.results) {
		err = f.results[idx]
	}
	hang := f.hangCall
	f.mu.Unlock()

	if hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	order := &GatewayOrder{ID: "order_" + req.IdempotencyKey, Amount: req.Amount, Currency: req.Currency, Receipt: req.IdempotencyKey, Status: "created"}
	f.byKey[req.IdempotencyKey] = order
	return order, nil
}

func (f *fakeClient) FindOrderByReceipt(ctx context.Context, key string) (*GatewayOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	return f.byKey[key], nil
}

func (f *fakeClient) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
