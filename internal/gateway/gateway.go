package gateway

import (
	"context"
)

// CreateOrderInput holds the parameters for opening a payment order
// with the remote gateway. Amount is in the currency's smallest unit.
type CreateOrderInput struct {
	Amount   int64
	Currency string
	Receipt  string
	Notes    map[string]string
}

// RemoteOrder is the gateway's record of an opened order.
type RemoteOrder struct {
	ID       string
	Amount   int64
	Currency string
	Receipt  string
	Status   string
}

// RefundInput holds the parameters for refunding a captured payment.
type RefundInput struct {
	RemotePaymentID string
	Amount          int64
}

// RemoteRefund is the gateway's record of a refund.
type RemoteRefund struct {
	ID     string
	Status string
}

// Gateway defines the interface to the remote payment gateway.
type Gateway interface {
	// Name returns the gateway name (e.g., "razorpay", "mock").
	Name() string

	// KeyID returns the public key identifier the checkout frontend needs.
	KeyID() string

	// CreateOrder opens an order with the gateway.
	CreateOrder(ctx context.Context, input *CreateOrderInput) (*RemoteOrder, error)

	// Refund refunds a captured payment.
	Refund(ctx context.Context, input *RefundInput) (*RemoteRefund, error)
}
