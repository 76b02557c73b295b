package repository

import (
	"context"

	"github.com/ShaileshM23290/dollup-sub001/internal/domain"
)

// AdminRepository defines persistence operations for admin accounts.
type AdminRepository interface {
	// Create inserts a new admin into the store.
	Create(ctx context.Context, admin *domain.Admin) error

	// GetByID retrieves an admin by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Admin, error)

	// GetByEmail retrieves an admin by email.
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)

	// CountAll returns the total number of admin accounts.
	CountAll(ctx context.Context) (int, error)
}

// ArtistRepository defines persistence operations for artist accounts.
type ArtistRepository interface {
	// Create inserts a new artist into the store.
	Create(ctx context.Context, artist *domain.Artist) error

	// GetByID retrieves an artist by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Artist, error)

	// GetByEmail retrieves an artist by email.
	GetByEmail(ctx context.Context, email string) (*domain.Artist, error)

	// Update modifies an existing artist in the store.
	Update(ctx context.Context, artist *domain.Artist) error

	// SetApproved marks an artist approved or unapproved.
	SetApproved(ctx context.Context, id string, approved bool) error

	// SetActive activates or deactivates an artist account.
	SetActive(ctx context.Context, id string, active bool) error

	// ListApproved returns approved, active artists with pagination.
	// Returns the artist slice, the total count, and any error.
	ListApproved(ctx context.Context, city string, offset, limit int) ([]domain.Artist, int, error)

	// ListPendingApproval returns artists awaiting admin approval.
	ListPendingApproval(ctx context.Context, offset, limit int) ([]domain.Artist, int, error)
}

// CustomerRepository defines persistence operations for customer accounts.
type CustomerRepository interface {
	// Create inserts a new customer into the store.
	Create(ctx context.Context, customer *domain.Customer) error

	// GetByID retrieves a customer by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Customer, error)

	// GetByEmail retrieves a customer by email.
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)

	// SetActive activates or deactivates a customer account.
	SetActive(ctx context.Context, id string, active bool) error
}

// BookingRepository defines persistence operations for bookings.
type BookingRepository interface {
	// Create inserts a new booking into the store.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// UpdateStatus sets the booking status.
	UpdateStatus(ctx context.Context, id, status string) error

	// SetPaymentStatus sets the booking's payment status.
	SetPaymentStatus(ctx context.Context, id, paymentStatus string) error

	// SetRating records the customer's score on the booking. Returns false
	// without error when the booking already carries a rating, so a
	// concurrent second rating cannot double-count.
	SetRating(ctx context.Context, id string, score float64) (bool, error)

	// ListByCustomerID returns bookings made by a customer with pagination.
	ListByCustomerID(ctx context.Context, customerID string, offset, limit int) ([]domain.Booking, int, error)

	// ListByArtistID returns bookings assigned to an artist with pagination.
	ListByArtistID(ctx context.Context, artistID string, offset, limit int) ([]domain.Booking, int, error)
}

// PaymentRepository defines persistence operations for payments.
type PaymentRepository interface {
	// Create inserts a new payment. A unique-violation on the booking's
	// active payment slot surfaces as a DuplicateOrder error.
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByID retrieves a payment by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Payment, error)

	// GetByRemoteOrderID retrieves a payment by the gateway order ID.
	GetByRemoteOrderID(ctx context.Context, remoteOrderID string) (*domain.Payment, error)

	// GetActiveByBookingID retrieves the booking's active payment
	// (status created or paid), if any.
	GetActiveByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error)

	// MarkPaid transitions a payment from created to paid, recording the
	// gateway payment ID, the verified signature, and a completion
	// timestamp. Returns false without error when no row was in the
	// created status, which the caller disambiguates.
	MarkPaid(ctx context.Context, remoteOrderID, remotePaymentID, signature string) (bool, error)

	// MarkFailed transitions a payment from created to failed.
	MarkFailed(ctx context.Context, remoteOrderID, reason string) (bool, error)

	// MarkRefunded transitions a payment from paid to refunded.
	MarkRefunded(ctx context.Context, id string) (bool, error)

	// ListByCustomerID returns payments made by a customer with pagination.
	ListByCustomerID(ctx context.Context, customerID string, offset, limit int) ([]domain.Payment, int, error)
}
