package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ShaileshM23290/dollup-sub001/internal/domain"
	"github.com/ShaileshM23290/dollup-sub001/pkg/database"
	apperrors "github.com/ShaileshM23290/dollup-sub001/pkg/errors"
)

// BookingRepository implements repository.BookingRepository using PostgreSQL.
type BookingRepository struct {
	db database.DBTX
}

// NewBookingRepository creates a new PostgreSQL-backed booking repository.
func NewBookingRepository(db database.DBTX) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `id, customer_id, artist_id, service, scheduled_at, address, amount, currency, status, payment_status, rating, notes, created_at, updated_at`

// Create inserts a new booking into the database.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.Exec(ctx, query,
		b.ID, b.CustomerID, b.ArtistID, b.Service, b.ScheduledAt, b.Address,
		b.Amount, b.Currency, b.Status, b.PaymentStatus, b.Rating, b.Notes, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}

	return nil
}

// GetByID retrieves a booking by its ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	var b domain.Booking
	err := r.db.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.CustomerID, &b.ArtistID, &b.Service, &b.ScheduledAt, &b.Address,
		&b.Amount, &b.Currency, &b.Status, &b.PaymentStatus, &b.Rating, &b.Notes, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan booking: %w", err)
	}

	return &b, nil
}

// UpdateStatus sets the booking status.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE bookings SET status = $2, updated_at = $3 WHERE id = $1`

	ct, err := r.db.Exec(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("booking", id)
	}

	return nil
}

// SetPaymentStatus sets the booking's payment status.
func (r *BookingRepository) SetPaymentStatus(ctx context.Context, id, paymentStatus string) error {
	query := `UPDATE bookings SET payment_status = $2, updated_at = $3 WHERE id = $1`

	ct, err := r.db.Exec(ctx, query, id, paymentStatus, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set booking payment status: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("booking", id)
	}

	return nil
}

// SetRating records the score for a booking exactly once. The rating = 0
// guard in the WHERE clause makes the second of two concurrent ratings a
// no-op, reported through the bool.
func (r *BookingRepository) SetRating(ctx context.Context, id string, score float64) (bool, error) {
	query := `UPDATE bookings SET rating = $2, updated_at = $3 WHERE id = $1 AND rating = 0`

	ct, err := r.db.Exec(ctx, query, id, score, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("set booking rating: %w", err)
	}

	return ct.RowsAffected() > 0, nil
}

// ListByCustomerID returns bookings made by a customer with pagination.
func (r *BookingRepository) ListByCustomerID(ctx context.Context, customerID string, offset, limit int) ([]domain.Booking, int, error) {
	query := `
		SELECT ` + bookingColumns + `,
		       count(*) OVER() AS total_count
		FROM bookings
		WHERE customer_id = $1
		ORDER BY scheduled_at DESC
		LIMIT $2 OFFSET $3`

	return r.listBookings(ctx, query, customerID, limit, offset)
}

// ListByArtistID returns bookings assigned to an artist with pagination.
func (r *BookingRepository) ListByArtistID(ctx context.Context, artistID string, offset, limit int) ([]domain.Booking, int, error) {
	query := `
		SELECT ` + bookingColumns + `,
		       count(*) OVER() AS total_count
		FROM bookings
		WHERE artist_id = $1
		ORDER BY scheduled_at DESC
		LIMIT $2 OFFSET $3`

	return r.listBookings(ctx, query, artistID, limit, offset)
}

func (r *BookingRepository) listBookings(ctx context.Context, query string, args ...any) ([]domain.Booking, int, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var (
		bookings   []domain.Booking
		totalCount int
	)

	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(
			&b.ID, &b.CustomerID, &b.ArtistID, &b.Service, &b.ScheduledAt, &b.Address,
			&b.Amount, &b.Currency, &b.Status, &b.PaymentStatus, &b.Rating, &b.Notes, &b.CreatedAt, &b.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate booking rows: %w", err)
	}

	if bookings == nil {
		bookings = []domain.Booking{}
	}

	return bookings, totalCount, nil
}
