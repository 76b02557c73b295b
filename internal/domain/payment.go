package domain

import (
	"time"
)

// Payment status constants. A payment starts in created when a gateway order
// is opened, and moves forward exactly once: created to paid on a verified
// capture, created to failed on a gateway failure, paid to refunded on refund.
const (
	PaymentStatusCreated  = "created"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// Payment represents one attempt to collect money for a booking.
type Payment struct {
	ID              string     `json:"id"`
	BookingID       string     `json:"booking_id"`
	CustomerID      string     `json:"customer_id"`
	RemoteOrderID   string     `json:"remote_order_id"`
	RemotePaymentID string     `json:"remote_payment_id,omitempty"`
	RemoteSignature string     `json:"-"`
	Amount          int64      `json:"amount"`
	Currency        string     `json:"currency"`
	Status          string     `json:"status"`
	Receipt         string     `json:"receipt"`
	FailureReason   string     `json:"failure_reason,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ValidPaymentStatuses returns all valid payment statuses.
func ValidPaymentStatuses() []string {
	return []string{
		PaymentStatusCreated,
		PaymentStatusPaid,
		PaymentStatusFailed,
		PaymentStatusRefunded,
	}
}

// IsValidPaymentStatus checks whether the given status is a valid payment status.
func IsValidPaymentStatus(status string) bool {
	for _, s := range ValidPaymentStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// CanTransition reports whether a payment may move from one status to another.
// Terminal statuses (failed, refunded) admit no further transitions.
func CanTransition(from, to string) bool {
	switch from {
	case PaymentStatusCreated:
		return to == PaymentStatusPaid || to == PaymentStatusFailed
	case PaymentStatusPaid:
		return to == PaymentStatusRefunded
	default:
		return false
	}
}

// IsActive reports whether the payment still occupies its booking's
// payment slot. At most one active payment may exist per booking.
func (p *Payment) IsActive() bool {
	return p.Status == PaymentStatusCreated || p.Status == PaymentStatusPaid
}
