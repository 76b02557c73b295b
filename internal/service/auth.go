package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ShaileshM23290/dollup-sub001/internal/auth"
	"github.com/ShaileshM23290/dollup-sub001/internal/domain"
	"github.com/ShaileshM23290/dollup-sub001/internal/repository"
	apperrors "github.com/ShaileshM23290/dollup-sub001/pkg/errors"
)

// bcryptCost is the cost factor for bcrypt password hashing.
const bcryptCost = 12

// Codecs bundles the three per-role token codecs.
type Codecs struct {
	Admin    *auth.TokenCodec
	Artist   *auth.TokenCodec
	Customer *auth.TokenCodec
}

// AuthService implements registration and login for the three actor kinds.
type AuthService struct {
	admins    repository.AdminRepository
	artists   repository.ArtistRepository
	customers repository.CustomerRepository
	codecs    Codecs
	logger    *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(
	admins repository.AdminRepository,
	artists repository.ArtistRepository,
	customers repository.CustomerRepository,
	codecs Codecs,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		admins:    admins,
		artists:   artists,
		customers: customers,
		codecs:    codecs,
		logger:    logger,
	}
}

// RegisterCustomerInput holds the parameters for customer registration.
type RegisterCustomerInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=2"`
	Phone    string `json:"phone" validate:"omitempty,e164"`
}

// RegisterArtistInput holds the parameters for artist registration.
// New artists start unapproved and wait for an admin.
type RegisterArtistInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=2"`
	Phone    string `json:"phone" validate:"omitempty,e164"`
	City     string `json:"city" validate:"omitempty,min=2"`
	Bio      string `json:"bio" validate:"omitempty,max=1000"`
}

// LoginInput holds the credentials for any login endpoint.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult carries the issued token and the principal it was issued for.
type LoginResult struct {
	Token   string `json:"token"`
	ActorID string `json:"actor_id"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Name    string `json:"name"`
}

// RegisterCustomer creates a customer account and logs it in.
func (s *AuthService) RegisterCustomer(ctx context.Context, input *RegisterCustomerInput) (*domain.Customer, *LoginResult, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	customer := &domain.Customer{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: string(hash),
		Name:         input.Name,
		Phone:        input.Phone,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, nil, fmt.Errorf("create customer: %w", err)
	}

	token, err := s.codecs.Customer.Issue(customer.ID, customer.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("issue customer token: %w", err)
	}

	s.logger.InfoContext(ctx, "customer registered",
		slog.String("customer_id", customer.ID),
	)

	return customer, &LoginResult{
		Token:   token,
		ActorID: customer.ID,
		Email:   customer.Email,
		Role:    domain.RoleCustomer,
		Name:    customer.Name,
	}, nil
}

// RegisterArtist creates an unapproved artist account. No token is issued
// until the account is approved and the artist logs in.
func (s *AuthService) RegisterArtist(ctx context.Context, input *RegisterArtistInput) (*domain.Artist, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	artist := &domain.Artist{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: string(hash),
		Name:         input.Name,
		Phone:        input.Phone,
		City:         input.City,
		Bio:          input.Bio,
		IsApproved:   false,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.artists.Create(ctx, artist); err != nil {
		return nil, fmt.Errorf("create artist: %w", err)
	}

	s.logger.InfoContext(ctx, "artist registered",
		slog.String("artist_id", artist.ID),
		slog.String("city", artist.City),
	)

	return artist, nil
}

// LoginAdmin authenticates an admin and issues an admin token.
func (s *AuthService) LoginAdmin(ctx context.Context, input *LoginInput) (*LoginResult, error) {
	admin, err := s.admins.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("invalid email or password")
		}
		return nil, fmt.Errorf("get admin by email: %w", err)
	}

	if !admin.IsActive {
		return nil, apperrors.AccountInactive()
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(input.Password)) != nil {
		return nil, apperrors.Unauthorized("invalid email or password")
	}

	token, err := s.codecs.Admin.Issue(admin.ID, admin.Email)
	if err != nil {
		return nil, fmt.Errorf("issue admin token: %w", err)
	}

	s.logger.InfoContext(ctx, "admin logged in", slog.String("admin_id", admin.ID))

	return &LoginResult{
		Token:   token,
		ActorID: admin.ID,
		Email:   admin.Email,
		Role:    domain.RoleAdmin,
		Name:    admin.Name,
	}, nil
}

// LoginArtist authenticates an artist and issues an artist token.
// Unapproved artists cannot log in; the gate also rejects their tokens,
// so withdrawing approval locks out existing sessions too.
func (s *AuthService) LoginArtist(ctx context.Context, input *LoginInput) (*LoginResult, error) {
	artist, err := s.artists.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("invalid email or password")
		}
		return nil, fmt.Errorf("get artist by email: %w", err)
	}

	if !artist.IsActive {
		return nil, apperrors.AccountInactive()
	}
	if bcrypt.CompareHashAndPassword([]byte(artist.PasswordHash), []byte(input.Password)) != nil {
		return nil, apperrors.Unauthorized("invalid email or password")
	}
	if !artist.IsApproved {
		return nil, apperrors.Forbidden("artist account is pending approval")
	}

	token, err := s.codecs.Artist.Issue(artist.ID, artist.Email)
	if err != nil {
		return nil, fmt.Errorf("issue artist token: %w", err)
	}

	s.logger.InfoContext(ctx, "artist logged in", slog.String("artist_id", artist.ID))

	return &LoginResult{
		Token:   token,
		ActorID: artist.ID,
		Email:   artist.Email,
		Role:    domain.RoleArtist,
		Name:    artist.Name,
	}, nil
}

// LoginCustomer authenticates a customer and issues a customer token.
func (s *AuthService) LoginCustomer(ctx context.Context, input *LoginInput) (*LoginResult, error) {
	customer, err := s.customers.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("invalid email or password")
		}
		return nil, fmt.Errorf("get customer by email: %w", err)
	}

	if !customer.IsActive {
		return nil, apperrors.AccountInactive()
	}
	if bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(input.Password)) != nil {
		return nil, apperrors.Unauthorized("invalid email or password")
	}

	token, err := s.codecs.Customer.Issue(customer.ID, customer.Email)
	if err != nil {
		return nil, fmt.Errorf("issue customer token: %w", err)
	}

	s.logger.InfoContext(ctx, "customer logged in", slog.String("customer_id", customer.ID))

	return &LoginResult{
		Token:   token,
		ActorID: customer.ID,
		Email:   customer.Email,
		Role:    domain.RoleCustomer,
		Name:    customer.Name,
	}, nil
}

// SeedAdmin creates the bootstrap admin account if no admins exist yet.
func (s *AuthService) SeedAdmin(ctx context.Context, email, password, name string) error {
	if email == "" || password == "" {
		return nil
	}

	count, err := s.admins.CountAll(ctx)
	if err != nil {
		return fmt.Errorf("count admins for seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash seed admin password: %w", err)
	}

	now := time.Now().UTC()
	admin := &domain.Admin{
		ID:           uuid.New().String(),
		Email:        normalizeEmail(email),
		PasswordHash: string(hash),
		Name:         name,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.admins.Create(ctx, admin); err != nil {
		return fmt.Errorf("create seed admin: %w", err)
	}

	s.logger.InfoContext(ctx, "seed admin created", slog.String("admin_id", admin.ID))
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
