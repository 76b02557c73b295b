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

// ArtistRepository implements repository.ArtistRepository using PostgreSQL.
type ArtistRepository struct {
	db database.DBTX
}

// NewArtistRepository creates a new PostgreSQL-backed artist repository.
func NewArtistRepository(db database.DBTX) *ArtistRepository {
	return &ArtistRepository{db: db}
}

const artistColumns = `id, email, password_hash, name, phone, city, bio, is_approved, is_active, rating, rating_count, created_at, updated_at`

// Create inserts a new artist into the database.
func (r *ArtistRepository) Create(ctx context.Context, a *domain.Artist) error {
	query := `
		INSERT INTO artists (` + artistColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.Exec(ctx, query,
		a.ID, a.Email, a.PasswordHash, a.Name, a.Phone, a.City, a.Bio,
		a.IsApproved, a.IsActive, a.Rating, a.RatingCount, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return apperrors.AlreadyExists("artist", "email", a.Email)
		}
		return fmt.Errorf("insert artist: %w", err)
	}

	return nil
}

// GetByID retrieves an artist by its ID.
func (r *ArtistRepository) GetByID(ctx context.Context, id string) (*domain.Artist, error) {
	query := `SELECT ` + artistColumns + ` FROM artists WHERE id = $1`
	return r.scanArtist(ctx, query, id)
}

// GetByEmail retrieves an artist by email.
func (r *ArtistRepository) GetByEmail(ctx context.Context, email string) (*domain.Artist, error) {
	query := `SELECT ` + artistColumns + ` FROM artists WHERE email = $1`
	return r.scanArtist(ctx, query, email)
}

// Update modifies an existing artist in the database.
func (r *ArtistRepository) Update(ctx context.Context, a *domain.Artist) error {
	a.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE artists
		SET name = $1, phone = $2, city = $3, bio = $4, is_approved = $5,
		    is_active = $6, rating = $7, rating_count = $8, updated_at = $9
		WHERE id = $10`

	ct, err := r.db.Exec(ctx, query,
		a.Name, a.Phone, a.City, a.Bio, a.IsApproved,
		a.IsActive, a.Rating, a.RatingCount, a.UpdatedAt, a.ID,
	)
	if err != nil {
		return fmt.Errorf("update artist: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("artist", a.ID)
	}

	return nil
}

// SetApproved marks an artist approved or unapproved.
func (r *ArtistRepository) SetApproved(ctx context.Context, id string, approved bool) error {
	query := `UPDATE artists SET is_approved = $2, updated_at = $3 WHERE id = $1`

	ct, err := r.db.Exec(ctx, query, id, approved, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set artist approved: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("artist", id)
	}

	return nil
}

// SetActive activates or deactivates an artist account.
func (r *ArtistRepository) SetActive(ctx context.Context, id string, active bool) error {
	query := `UPDATE artists SET is_active = $2, updated_at = $3 WHERE id = $1`

	ct, err := r.db.Exec(ctx, query, id, active, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set artist active: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("artist", id)
	}

	return nil
}

// ListApproved returns approved, active artists with pagination. An empty
// city matches all cities.
func (r *ArtistRepository) ListApproved(ctx context.Context, city string, offset, limit int) ([]domain.Artist, int, error) {
	query := `
		SELECT ` + artistColumns + `,
		       count(*) OVER() AS total_count
		FROM artists
		WHERE is_approved = TRUE AND is_active = TRUE
		  AND ($1 = '' OR city = $1)
		ORDER BY rating DESC, created_at DESC
		LIMIT $2 OFFSET $3`

	return r.listArtists(ctx, query, city, limit, offset)
}

// ListPendingApproval returns artists awaiting admin approval.
func (r *ArtistRepository) ListPendingApproval(ctx context.Context, offset, limit int) ([]domain.Artist, int, error) {
	query := `
		SELECT ` + artistColumns + `,
		       count(*) OVER() AS total_count
		FROM artists
		WHERE is_approved = FALSE AND is_active = TRUE
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2`

	return r.listArtists(ctx, query, limit, offset)
}

func (r *ArtistRepository) listArtists(ctx context.Context, query string, args ...any) ([]domain.Artist, int, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list artists: %w", err)
	}
	defer rows.Close()

	var (
		artists    []domain.Artist
		totalCount int
	)

	for rows.Next() {
		var a domain.Artist
		if err := rows.Scan(
			&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.Phone, &a.City, &a.Bio,
			&a.IsApproved, &a.IsActive, &a.Rating, &a.RatingCount, &a.CreatedAt, &a.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan artist row: %w", err)
		}
		artists = append(artists, a)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate artist rows: %w", err)
	}

	if artists == nil {
		artists = []domain.Artist{}
	}

	return artists, totalCount, nil
}

func (r *ArtistRepository) scanArtist(ctx context.Context, query string, args ...any) (*domain.Artist, error) {
	var a domain.Artist

	err := r.db.QueryRow(ctx, query, args...).Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.Phone, &a.City, &a.Bio,
		&a.IsApproved, &a.IsActive, &a.Rating, &a.RatingCount, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan artist: %w", err)
	}

	return &a, nil
}
