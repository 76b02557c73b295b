package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ShaileshM23290/dollup-sub001/internal/domain"
	"github.com/ShaileshM23290/dollup-sub001/internal/repository"
	apperrors "github.com/ShaileshM23290/dollup-sub001/pkg/errors"
)

// AdminService implements platform moderation operations. Every method is
// reachable only through admin-gated routes.
type AdminService struct {
	artists   repository.ArtistRepository
	customers repository.CustomerRepository
	logger    *slog.Logger
}

// NewAdminService creates a new admin service.
func NewAdminService(
	artists repository.ArtistRepository,
	customers repository.CustomerRepository,
	logger *slog.Logger,
) *AdminService {
	return &AdminService{
		artists:   artists,
		customers: customers,
		logger:    logger,
	}
}

// ApproveArtist marks an artist approved so they can log in and take bookings.
func (s *AdminService) ApproveArtist(ctx context.Context, artistID string) (*domain.Artist, error) {
	artist, err := s.artists.GetByID(ctx, artistID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("artist", artistID)
		}
		return nil, fmt.Errorf("get artist for approval: %w", err)
	}

	if artist.IsApproved {
		return artist, nil
	}

	if err := s.artists.SetApproved(ctx, artistID, true); err != nil {
		return nil, fmt.Errorf("approve artist: %w", err)
	}
	artist.IsApproved = true

	s.logger.InfoContext(ctx, "artist approved", slog.String("artist_id", artistID))

	return artist, nil
}

// DeactivateArtist disables an artist account. Existing tokens stop working
// at the next request because the auth gate revalidates the directory.
func (s *AdminService) DeactivateArtist(ctx context.Context, artistID string) error {
	if err := s.artists.SetActive(ctx, artistID, false); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("artist", artistID)
		}
		return fmt.Errorf("deactivate artist: %w", err)
	}

	s.logger.InfoContext(ctx, "artist deactivated", slog.String("artist_id", artistID))
	return nil
}

// ReactivateArtist re-enables a previously deactivated artist account.
func (s *AdminService) ReactivateArtist(ctx context.Context, artistID string) error {
	if err := s.artists.SetActive(ctx, artistID, true); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("artist", artistID)
		}
		return fmt.Errorf("reactivate artist: %w", err)
	}

	s.logger.InfoContext(ctx, "artist reactivated", slog.String("artist_id", artistID))
	return nil
}

// DeactivateCustomer disables a customer account.
func (s *AdminService) DeactivateCustomer(ctx context.Context, customerID string) error {
	if err := s.customers.SetActive(ctx, customerID, false); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("customer", customerID)
		}
		return fmt.Errorf("deactivate customer: %w", err)
	}

	s.logger.InfoContext(ctx, "customer deactivated", slog.String("customer_id", customerID))
	return nil
}

// ReactivateCustomer re-enables a previously deactivated customer account.
func (s *AdminService) ReactivateCustomer(ctx context.Context, customerID string) error {
	if err := s.customers.SetActive(ctx, customerID, true); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("customer", customerID)
		}
		return fmt.Errorf("reactivate customer: %w", err)
	}

	s.logger.InfoContext(ctx, "customer reactivated", slog.String("customer_id", customerID))
	return nil
}

// ListPendingArtists returns artists awaiting approval, oldest first.
func (s *AdminService) ListPendingArtists(ctx context.Context, page, perPage int) ([]domain.Artist, int, error) {
	offset, limit := pageToRange(page, perPage)

	artists, total, err := s.artists.ListPendingApproval(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list pending artists: %w", err)
	}
	return artists, total, nil
}
