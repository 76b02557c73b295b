// Package mock provides an in-process gateway for development and tests.
package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/ShaileshM23290/dollup-sub001/internal/gateway"
)

// Gateway is a mock payment gateway that always succeeds. Orders it creates
// are held in memory so tests can sign captures against them.
type Gateway struct {
	keySecret string

	mu     sync.Mutex
	orders map[string]*gateway.RemoteOrder
}

// NewGateway creates a new mock gateway.
func NewGateway(keySecret string) *Gateway {
	return &Gateway{
		keySecret: keySecret,
		orders:    make(map[string]*gateway.RemoteOrder),
	}
}

// Name returns the gateway name.
func (g *Gateway) Name() string {
	return "mock"
}

// KeyID returns a fixed test key identifier.
func (g *Gateway) KeyID() string {
	return "rzp_test_mock"
}

// CreateOrder records and returns a new order.
func (g *Gateway) CreateOrder(_ context.Context, input *gateway.CreateOrderInput) (*gateway.RemoteOrder, error) {
	order := &gateway.RemoteOrder{
		ID:       "order_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:14],
		Amount:   input.Amount,
		Currency: input.Currency,
		Receipt:  input.Receipt,
		Status:   "created",
	}

	g.mu.Lock()
	g.orders[order.ID] = order
	g.mu.Unlock()

	return order, nil
}

// Refund always succeeds.
func (g *Gateway) Refund(_ context.Context, _ *gateway.RefundInput) (*gateway.RemoteRefund, error) {
	return &gateway.RemoteRefund{
		ID:     "rfnd_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:14],
		Status: "processed",
	}, nil
}

// SignCapture produces a valid capture signature for an order created by
// this gateway, simulating the checkout callback.
func (g *Gateway) SignCapture(orderID, paymentID string) string {
	return gateway.Sign(g.keySecret, orderID, paymentID)
}
