package domain

import (
	"time"
)

// Booking status constants.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// Booking payment status constants. This tracks money, not scheduling.
const (
	BookingPaymentUnpaid   = "unpaid"
	BookingPaymentPaid     = "paid"
	BookingPaymentRefunded = "refunded"
)

// Booking represents a customer's appointment with an artist.
type Booking struct {
	ID            string    `json:"id"`
	CustomerID    string    `json:"customer_id"`
	ArtistID      string    `json:"artist_id"`
	Service       string    `json:"service"`
	ScheduledAt   time.Time `json:"scheduled_at"`
	Address       string    `json:"address,omitempty"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	// Rating is the customer's score once given; zero means unrated.
	Rating float64 `json:"rating,omitempty"`
	Notes  string  `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ValidBookingStatuses returns all valid booking statuses.
func ValidBookingStatuses() []string {
	return []string{
		BookingStatusPending,
		BookingStatusConfirmed,
		BookingStatusCancelled,
		BookingStatusCompleted,
	}
}

// IsValidBookingStatus checks whether the given status is a valid booking status.
func IsValidBookingStatus(status string) bool {
	for _, s := range ValidBookingStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// IsCancellable reports whether the booking can still be cancelled.
func (b *Booking) IsCancellable() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

// IsPayable reports whether a payment order may be opened for the booking.
// Cancelled and completed bookings take no further payments, and a booking
// already paid for must be refunded before a new charge is attempted.
func (b *Booking) IsPayable() bool {
	if b.Status == BookingStatusCancelled || b.Status == BookingStatusCompleted {
		return false
	}
	return b.PaymentStatus == BookingPaymentUnpaid
}

// IsRated reports whether the customer has already scored the booking.
func (b *Booking) IsRated() bool {
	return b.Rating > 0
}
