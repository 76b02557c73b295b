package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ShaileshM23290/dollup-sub001/internal/domain"
	"github.com/ShaileshM23290/dollup-sub001/pkg/database"
	apperrors "github.com/ShaileshM23290/dollup-sub001/pkg/errors"
)

const uniqueViolationCode = "23505"

// Constraint names from the payments table schema.
const (
	activePaymentConstraint = "payments_active_booking_idx"
	remoteOrderConstraint   = "payments_remote_order_id_key"
)

// PaymentRepository implements repository.PaymentRepository using PostgreSQL.
type PaymentRepository struct {
	db database.DBTX
}

// NewPaymentRepository creates a new PostgreSQL-backed payment repository.
func NewPaymentRepository(db database.DBTX) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `id, booking_id, customer_id, remote_order_id, remote_payment_id, remote_signature, amount, currency, status, receipt, failure_reason, completed_at, created_at, updated_at`

// Create inserts a new payment. The partial unique index on booking_id
// rejects a second active payment for the same booking even when two
// requests race, so the duplicate check here is authoritative.
func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.Exec(ctx, query,
		p.ID,
		p.BookingID,
		p.CustomerID,
		p.RemoteOrderID,
		p.RemotePaymentID,
		p.RemoteSignature,
		p.Amount,
		p.Currency,
		p.Status,
		p.Receipt,
		p.FailureReason,
		p.CompletedAt,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			if pgErr.ConstraintName == activePaymentConstraint {
				return apperrors.DuplicateOrder(p.BookingID)
			}
			return apperrors.PaymentConflict(p.RemoteOrderID)
		}
		return fmt.Errorf("insert payment: %w", err)
	}

	return nil
}

// GetByID retrieves a payment by its ID.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE id = $1`

	return r.scanPayment(ctx, query, id)
}

// GetByRemoteOrderID retrieves a payment by the gateway order ID.
func (r *PaymentRepository) GetByRemoteOrderID(ctx context.Context, remoteOrderID string) (*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE remote_order_id = $1`

	return r.scanPayment(ctx, query, remoteOrderID)
}

// GetActiveByBookingID retrieves the booking's active payment, if any.
func (r *PaymentRepository) GetActiveByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE booking_id = $1 AND status IN ('created', 'paid')`

	return r.scanPayment(ctx, query, bookingID)
}

// MarkPaid transitions a payment from created to paid. The status predicate
// makes the update a compare-and-set: of two concurrent verifications only
// one sees a row in created, the other gets zero rows affected.
func (r *PaymentRepository) MarkPaid(ctx context.Context, remoteOrderID, remotePaymentID, signature string) (bool, error) {
	query := `
		UPDATE payments
		SET status = 'paid', remote_payment_id = $2, remote_signature = $3,
		    completed_at = $4, updated_at = $4
		WHERE remote_order_id = $1 AND status = 'created'`

	ct, err := r.db.Exec(ctx, query, remoteOrderID, remotePaymentID, signature, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("mark payment paid: %w", err)
	}

	return ct.RowsAffected() > 0, nil
}

// MarkFailed transitions a payment from created to failed.
func (r *PaymentRepository) MarkFailed(ctx context.Context, remoteOrderID, reason string) (bool, error) {
	query := `
		UPDATE payments
		SET status = 'failed', failure_reason = $2, updated_at = $3
		WHERE remote_order_id = $1 AND status = 'created'`

	ct, err := r.db.Exec(ctx, query, remoteOrderID, reason, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("mark payment failed: %w", err)
	}

	return ct.RowsAffected() > 0, nil
}

// MarkRefunded transitions a payment from paid to refunded.
func (r *PaymentRepository) MarkRefunded(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE payments
		SET status = 'refunded', updated_at = $2
		WHERE id = $1 AND status = 'paid'`

	ct, err := r.db.Exec(ctx, query, id, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("mark payment refunded: %w", err)
	}

	return ct.RowsAffected() > 0, nil
}

// ListByCustomerID returns payments made by a customer with pagination.
func (r *PaymentRepository) ListByCustomerID(ctx context.Context, customerID string, offset, limit int) ([]domain.Payment, int, error) {
	query := `
		SELECT ` + paymentColumns + `,
		       count(*) OVER() AS total_count
		FROM payments
		WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, customerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list payments by customer: %w", err)
	}
	defer rows.Close()

	var (
		payments   []domain.Payment
		totalCount int
	)

	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(
			&p.ID,
			&p.BookingID,
			&p.CustomerID,
			&p.RemoteOrderID,
			&p.RemotePaymentID,
			&p.RemoteSignature,
			&p.Amount,
			&p.Currency,
			&p.Status,
			&p.Receipt,
			&p.FailureReason,
			&p.CompletedAt,
			&p.CreatedAt,
			&p.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan payment row: %w", err)
		}
		payments = append(payments, p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate payment rows: %w", err)
	}

	if payments == nil {
		payments = []domain.Payment{}
	}

	return payments, totalCount, nil
}

// scanPayment executes a query expected to return a single payment row.
func (r *PaymentRepository) scanPayment(ctx context.Context, query string, args ...any) (*domain.Payment, error) {
	var p domain.Payment

	err := r.db.QueryRow(ctx, query, args...).Scan(
		&p.ID,
		&p.BookingID,
		&p.CustomerID,
		&p.RemoteOrderID,
		&p.RemotePaymentID,
		&p.RemoteSignature,
		&p.Amount,
		&p.Currency,
		&p.Status,
		&p.Receipt,
		&p.FailureReason,
		&p.CompletedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan payment: %w", err)
	}

	return &p, nil
}
