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

// AdminRepository implements repository.AdminRepository using PostgreSQL.
type AdminRepository struct {
	db database.DBTX
}

// NewAdminRepository creates a new PostgreSQL-backed admin repository.
func NewAdminRepository(db database.DBTX) *AdminRepository {
	return &AdminRepository{db: db}
}

const adminColumns = `id, email, password_hash, name, is_active, created_at, updated_at`

// Create inserts a new admin into the database.
func (r *AdminRepository) Create(ctx context.Context, a *domain.Admin) error {
	query := `
		INSERT INTO admins (` + adminColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		a.ID, a.Email, a.PasswordHash, a.Name, a.IsActive, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return apperrors.AlreadyExists("admin", "email", a.Email)
		}
		return fmt.Errorf("insert admin: %w", err)
	}

	return nil
}

// GetByID retrieves an admin by its ID.
func (r *AdminRepository) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE id = $1`
	return r.scanAdmin(ctx, query, id)
}

// GetByEmail retrieves an admin by email.
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE email = $1`
	return r.scanAdmin(ctx, query, email)
}

// CountAll returns the total number of admin accounts.
func (r *AdminRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM admins`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return count, nil
}

func (r *AdminRepository) scanAdmin(ctx context.Context, query string, args ...any) (*domain.Admin, error) {
	var a domain.Admin

	err := r.db.QueryRow(ctx, query, args...).Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.IsActive, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan admin: %w", err)
	}

	return &a, nil
}

// CustomerRepository implements repository.CustomerRepository using PostgreSQL.
type CustomerRepository struct {
	db database.DBTX
}

// NewCustomerRepository creates a new PostgreSQL-backed customer repository.
func NewCustomerRepository(db database.DBTX) *CustomerRepository {
	return &CustomerRepository{db: db}
}

const customerColumns = `id, email, password_hash, name, phone, is_active, created_at, updated_at`

// Create inserts a new customer into the database.
func (r *CustomerRepository) Create(ctx context.Context, c *domain.Customer) error {
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(ctx, query,
		c.ID, c.Email, c.PasswordHash, c.Name, c.Phone, c.IsActive, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return apperrors.AlreadyExists("customer", "email", c.Email)
		}
		return fmt.Errorf("insert customer: %w", err)
	}

	return nil
}

// GetByID retrieves a customer by its ID.
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return r.scanCustomer(ctx, query, id)
}

// GetByEmail retrieves a customer by email.
func (r *CustomerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE email = $1`
	return r.scanCustomer(ctx, query, email)
}

// SetActive activates or deactivates a customer account.
func (r *CustomerRepository) SetActive(ctx context.Context, id string, active bool) error {
	query := `UPDATE customers SET is_active = $2, updated_at = $3 WHERE id = $1`

	ct, err := r.db.Exec(ctx, query, id, active, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set customer active: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("customer", id)
	}

	return nil
}

func (r *CustomerRepository) scanCustomer(ctx context.Context, query string, args ...any) (*domain.Customer, error) {
	var c domain.Customer

	err := r.db.QueryRow(ctx, query, args...).Scan(
		&c.ID, &c.Email, &c.PasswordHash, &c.Name, &c.Phone, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan customer: %w", err)
	}

	return &c, nil
}
