package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ShaileshM23290/dollup-sub001/internal/domain"
	"github.com/ShaileshM23290/dollup-sub001/internal/event"
	"github.com/ShaileshM23290/dollup-sub001/internal/repository"
	apperrors "github.com/ShaileshM23290/dollup-sub001/pkg/errors"
)

// BookingService implements booking intake and lifecycle operations.
type BookingService struct {
	bookings repository.BookingRepository
	artists  repository.ArtistRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewBookingService creates a new booking service. The producer may be nil
// when event publishing is disabled.
func NewBookingService(
	bookings repository.BookingRepository,
	artists repository.ArtistRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		artists:  artists,
		producer: producer,
		logger:   logger,
	}
}

// CreateBookingInput holds the parameters for booking intake.
type CreateBookingInput struct {
	ArtistID    string    `json:"artist_id" validate:"required,uuid"`
	Service     string    `json:"service" validate:"required,min=2"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	Address     string    `json:"address" validate:"omitempty,max=500"`
	Amount      int64     `json:"amount" validate:"required,gt=0"`
	Currency    string    `json:"currency" validate:"required,len=3"`
	Notes       string    `json:"notes" validate:"omitempty,max=2000"`
}

// RateBookingInput holds the parameters for rating a completed booking.
type RateBookingInput struct {
	Score float64 `json:"score" validate:"required,gte=1,lte=5"`
}

// CreateBooking creates a pending, unpaid booking for the customer with an
// approved, active artist.
func (s *BookingService) CreateBooking(ctx context.Context, customerID string, input *CreateBookingInput) (*domain.Booking, error) {
	if input.ScheduledAt.Before(time.Now()) {
		return nil, apperrors.InvalidInput("scheduled_at must be in the future")
	}

	artist, err := s.artists.GetByID(ctx, input.ArtistID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("artist", input.ArtistID)
		}
		return nil, fmt.Errorf("get artist for booking: %w", err)
	}
	if !artist.IsApproved || !artist.IsActive {
		return nil, apperrors.InvalidInput("artist is not accepting bookings")
	}

	now := time.Now().UTC()
	booking := &domain.Booking{
		ID:            uuid.New().String(),
		CustomerID:    customerID,
		ArtistID:      artist.ID,
		Service:       input.Service,
		ScheduledAt:   input.ScheduledAt.UTC(),
		Address:       input.Address,
		Amount:        input.Amount,
		Currency:      strings.ToUpper(input.Currency),
		Status:        domain.BookingStatusPending,
		PaymentStatus: domain.BookingPaymentUnpaid,
		Notes:         input.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.logger.InfoContext(ctx, "booking created",
		slog.String("booking_id", booking.ID),
		slog.String("artist_id", booking.ArtistID),
		slog.Time("scheduled_at", booking.ScheduledAt),
	)

	return booking, nil
}

// GetBooking retrieves a booking, enforcing that the requesting principal
// is a participant. Admins pass an empty actorID to bypass the scope check.
func (s *BookingService) GetBooking(ctx context.Context, actorID, bookingID string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("booking", bookingID)
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}

	if actorID != "" && booking.CustomerID != actorID && booking.ArtistID != actorID {
		return nil, apperrors.Forbidden("booking belongs to another account")
	}

	return booking, nil
}

// ListCustomerBookings returns the customer's bookings, newest first.
func (s *BookingService) ListCustomerBookings(ctx context.Context, customerID string, page, perPage int) ([]domain.Booking, int, error) {
	offset, limit := pageToRange(page, perPage)

	bookings, total, err := s.bookings.ListByCustomerID(ctx, customerID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list customer bookings: %w", err)
	}
	return bookings, total, nil
}

// ListArtistBookings returns the artist's assigned bookings, newest first.
func (s *BookingService) ListArtistBookings(ctx context.Context, artistID string, page, perPage int) ([]domain.Booking, int, error) {
	offset, limit := pageToRange(page, perPage)

	bookings, total, err := s.bookings.ListByArtistID(ctx, artistID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list artist bookings: %w", err)
	}
	return bookings, total, nil
}

// ListArtists returns approved, active artists for customers to browse.
func (s *BookingService) ListArtists(ctx context.Context, city string, page, perPage int) ([]domain.Artist, int, error) {
	offset, limit := pageToRange(page, perPage)

	artists, total, err := s.artists.ListApproved(ctx, city, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list approved artists: %w", err)
	}
	return artists, total, nil
}

// CancelBooking cancels a booking owned by the customer. A paid booking
// must go through the refund flow before it can be cancelled.
func (s *BookingService) CancelBooking(ctx context.Context, customerID, bookingID string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("booking", bookingID)
		}
		return nil, fmt.Errorf("get booking for cancel: %w", err)
	}

	if booking.CustomerID != customerID {
		return nil, apperrors.Forbidden("booking belongs to another customer")
	}
	if !booking.IsCancellable() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("booking cannot be cancelled in status %q", booking.Status))
	}
	if booking.PaymentStatus == domain.BookingPaymentPaid {
		return nil, apperrors.InvalidInput("refund the payment before cancelling a paid booking")
	}

	if err := s.bookings.UpdateStatus(ctx, bookingID, domain.BookingStatusCancelled); err != nil {
		return nil, fmt.Errorf("cancel booking: %w", err)
	}
	booking.Status = domain.BookingStatusCancelled

	if s.producer != nil {
		if pubErr := s.producer.PublishBookingCancelled(ctx, booking); pubErr != nil {
			s.logger.ErrorContext(ctx, "failed to publish booking.cancelled event",
				slog.String("booking_id", booking.ID),
				slog.String("error", pubErr.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "booking cancelled", slog.String("booking_id", booking.ID))

	return booking, nil
}

// CompleteBooking marks a confirmed booking completed, by its artist.
func (s *BookingService) CompleteBooking(ctx context.Context, artistID, bookingID string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("booking", bookingID)
		}
		return nil, fmt.Errorf("get booking for completion: %w", err)
	}

	if booking.ArtistID != artistID {
		return nil, apperrors.Forbidden("booking is assigned to another artist")
	}
	if booking.Status != domain.BookingStatusConfirmed {
		return nil, apperrors.InvalidInput(fmt.Sprintf("booking cannot be completed in status %q", booking.Status))
	}

	if err := s.bookings.UpdateStatus(ctx, bookingID, domain.BookingStatusCompleted); err != nil {
		return nil, fmt.Errorf("complete booking: %w", err)
	}
	booking.Status = domain.BookingStatusCompleted

	s.logger.InfoContext(ctx, "booking completed", slog.String("booking_id", booking.ID))

	return booking, nil
}

// RateBooking records the customer's score for a completed booking and
// recomputes the artist's running average.
func (s *BookingService) RateBooking(ctx context.Context, customerID, bookingID string, input *RateBookingInput) (*domain.Artist, error) {
	if input.Score < 1 || input.Score > 5 {
		return nil, apperrors.InvalidInput("score must be between 1 and 5")
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("booking", bookingID)
		}
		return nil, fmt.Errorf("get booking for rating: %w", err)
	}

	if booking.CustomerID != customerID {
		return nil, apperrors.Forbidden("booking belongs to another customer")
	}
	if booking.Status != domain.BookingStatusCompleted {
		return nil, apperrors.InvalidInput("only completed bookings can be rated")
	}
	if booking.IsRated() {
		return nil, apperrors.InvalidInput("booking has already been rated")
	}

	// Claim the rating slot before touching the artist's average, so two
	// concurrent ratings cannot both count.
	updated, err := s.bookings.SetRating(ctx, booking.ID, input.Score)
	if err != nil {
		return nil, fmt.Errorf("record booking rating: %w", err)
	}
	if !updated {
		return nil, apperrors.InvalidInput("booking has already been rated")
	}

	artist, err := s.artists.GetByID(ctx, booking.ArtistID)
	if err != nil {
		return nil, fmt.Errorf("get artist for rating: %w", err)
	}

	artist.ApplyRating(input.Score)

	if err := s.artists.Update(ctx, artist); err != nil {
		return nil, fmt.Errorf("update artist rating: %w", err)
	}

	s.logger.InfoContext(ctx, "booking rated",
		slog.String("booking_id", booking.ID),
		slog.String("artist_id", artist.ID),
		slog.Float64("score", input.Score),
	)

	return artist, nil
}

// pageToRange clamps page/perPage and converts them to offset/limit.
func pageToRange(page, perPage int) (offset, limit int) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	return (page - 1) * perPage, perPage
}
