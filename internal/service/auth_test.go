package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ShaileshM23290/dollup-sub001/internal/auth"
	"github.com/ShaileshM23290/dollup-sub001/internal/domain"
	apperrors "github.com/ShaileshM23290/dollup-sub001/pkg/errors"
)

// --- Mock Admin Repository ---

type mockAdminRepository struct {
	mock.Mock
}

func (m *mockAdminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

func (m *mockAdminRepository) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Admin), args.Error(1)
}

func (m *mockAdminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Admin), args.Error(1)
}

func (m *mockAdminRepository) CountAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// --- Mock Artist Repository ---

type mockArtistRepository struct {
	mock.Mock
}

func (m *mockArtistRepository) Create(ctx context.Context, artist *domain.Artist) error {
	args := m.Called(ctx, artist)
	return args.Error(0)
}

func (m *mockArtistRepository) GetByID(ctx context.Context, id string) (*domain.Artist, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Artist), args.Error(1)
}

func (m *mockArtistRepository) GetByEmail(ctx context.Context, email string) (*domain.Artist, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Artist), args.Error(1)
}

func (m *mockArtistRepository) Update(ctx context.Context, artist *domain.Artist) error {
	args := m.Called(ctx, artist)
	return args.Error(0)
}

func (m *mockArtistRepository) SetApproved(ctx context.Context, id string, approved bool) error {
	args := m.Called(ctx, id, approved)
	return args.Error(0)
}

func (m *mockArtistRepository) SetActive(ctx context.Context, id string, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *mockArtistRepository) ListApproved(ctx context.Context, city string, offset, limit int) ([]domain.Artist, int, error) {
	args := m.Called(ctx, city, offset, limit)
	return args.Get(0).([]domain.Artist), args.Int(1), args.Error(2)
}

func (m *mockArtistRepository) ListPendingApproval(ctx context.Context, offset, limit int) ([]domain.Artist, int, error) {
	args := m.Called(ctx, offset, limit)
	return args.Get(0).([]domain.Artist), args.Int(1), args.Error(2)
}

// --- Mock Customer Repository ---

type mockCustomerRepository struct {
	mock.Mock
}

func (m *mockCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *mockCustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *mockCustomerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *mockCustomerRepository) SetActive(ctx context.Context, id string, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

// --- Test Helpers ---

func newTestCodecs(t *testing.T) Codecs {
	t.Helper()

	adminCodec, err := auth.NewTokenCodec(domain.RoleAdmin, "test-deployment-secret", auth.AdminTokenExpiry)
	require.NoError(t, err)
	artistCodec, err := auth.NewTokenCodec(domain.RoleArtist, "test-deployment-secret", auth.ArtistTokenExpiry)
	require.NoError(t, err)
	customerCodec, err := auth.NewTokenCodec(domain.RoleCustomer, "test-deployment-secret", auth.CustomerTokenExpiry)
	require.NoError(t, err)

	return Codecs{Admin: adminCodec, Artist: artistCodec, Customer: customerCodec}
}

func newTestAuthService(t *testing.T, admins *mockAdminRepository, artists *mockArtistRepository, customers *mockCustomerRepository) *AuthService {
	t.Helper()
	return NewAuthService(admins, artists, customers, newTestCodecs(t), newTestLogger())
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	// MinCost keeps the test fast; the service uses a production cost.
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

// --- Registration ---

func TestRegisterCustomer_Success(t *testing.T) {
	admins := new(mockAdminRepository)
	artists := new(mockArtistRepository)
	customers := new(mockCustomerRepository)
	svc := newTestAuthService(t, admins, artists, customers)

	customers.On("Create", mock.Anything, mock.AnythingOfType("*domain.Customer")).Return(nil)

	customer, login, err := svc.RegisterCustomer(context.Background(), &RegisterCustomerInput{
		Email:    "  Priya@Example.COM ",
		Password: "s3cret-password",
		Name:     "Priya",
	})

	require.NoError(t, err)
	assert.Equal(t, "priya@example.com", customer.Email)
	assert.True(t, customer.IsActive)
	assert.NotEqual(t, "s3cret-password", customer.PasswordHash)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, domain.RoleCustomer, login.Role)

	// The issued token must verify under the customer codec.
	claims, err := newTestCodecs(t).Customer.Verify(login.Token)
	require.NoError(t, err)
	assert.Equal(t, customer.ID, claims.ActorID)
	customers.AssertExpectations(t)
}

func TestRegisterCustomer_DuplicateEmail(t *testing.T) {
	admins := new(mockAdminRepository)
	artists := new(mockArtistRepository)
	customers := new(mockCustomerRepository)
	svc := newTestAuthService(t, admins, artists, customers)

	customers.On("Create", mock.Anything, mock.Anything).
		Return(apperrors.AlreadyExists("customer", "email", "priya@example.com"))

	customer, login, err := svc.RegisterCustomer(context.Background(), &RegisterCustomerInput{
		Email:    "priya@example.com",
		Password: "s3cret-password",
		Name:     "Priya",
	})

	assert.Nil(t, customer)
	assert.Nil(t, login)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyExists))
}

func TestRegisterArtist_StartsUnapproved(t *testing.T) {
	admins := new(mockAdminRepository)
	artists := new(mockArtistRepository)
	customers := new(mockCustomerRepository)
	svc := newTestAuthService(t, admins, artists, customers)

	artists.On("Create", mock.Anything, mock.AnythingOfType("*domain.Artist")).Return(nil)

	artist, err := svc.RegisterArtist(context.Background(), &RegisterArtistInput{
		Email:    "meera@example.com",
		Password: "s3cret-password",
		Name:     "Meera",
		City:     "Mumbai",
	})

	require.NoError(t, err)
	assert.False(t, artist.IsApproved)
	assert.True(t, artist.IsActive)
	artists.AssertExpectations(t)
}

// --- Login ---

func TestLoginCustomer_Success(t *testing.T) {
	admins := new(mockAdminRepository)
	artists := new(mockArtistRepository)
	customers := new(mockCustomerRepository)
	svc := newTestAuthService(t, admins, artists, customers)

	customer := &domain.Customer{
		ID:           uuid.New().String(),
		Email:        "priya@example.com",
		PasswordHash: hashPassword(t, "s3cret-password"),
		Name:         "Priya",
		IsActive:     true,
	}
	customers.On("GetByEmail", mock.Anything, "priya@example.com").Return(customer, nil)

	result, err := svc.LoginCustomer(context.Background(), &LoginInput{
		Email:    "Priya@Example.com",
		Password: "s3cret-password",
	})

	require.NoError(t, err)
	assert.Equal(t, customer.ID, result.ActorID)
	assert.Equal(t, domain.RoleCustomer, result.Role)
	assert.NotEmpty(t, result.Token)
}

func TestLoginCustomer_WrongPassword(t *testing.T) {
	admins := new(mockAdminRepository)
	artists := new(mockArtistRepository)
	customers := new(mockCustomerRepository)
	svc := newTestAuthService(t, admins, artists, customers)

	customer := &domain.Customer{
		ID:           uuid.New().String(),
		Email:        "priya@example.com",
		PasswordHash: hashPassword(t, "s3cret-password"),
		IsActive:     true,
	}
	customers.On("GetByEmail", mock.Anything, "priya@example.com").Return(customer, nil)

	result, err := svc.LoginCustomer(context.Background(), &LoginInput{
		Email:    "priya@example.com",
		Password: "wrong-password",
	})

	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthorized))
}

func TestLoginCustomer_UnknownEmailSameError(t *testing.T) {
	admins := new(mockAdminRepository)
	artists := new(mockArtistRepository)
	customers := new(mockCustomerRepository)
	svc := newTestAuthService(t, admins, artists, customers)

	customers.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, apperrors.ErrNotFound)

	result, err := svc.LoginCustomer(context.Background(), &LoginInput{
		Email:    "nobody@example.com",
		Password: "whatever-password",
	})

	assert.Nil(t, result)
	require.Error(t, err)

	// An unknown email reads exactly like a wrong password.
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)
	assert.Equal(t, "invalid email or password", appErr.Message)
}

func TestLoginCustomer_InactiveAccount(t *testing.T) {
	admins := new(mockAdminRepository)
	artists := new(mockArtistRepository)
	customers := new(mockCustomerRepository)
	svc := newTestAuthService(t, admins, artists, customers)

	customer := &domain.Customer{
		ID:           uuid.New().String(),
		Email:        "priya@example.com",
		PasswordHash: hashPassword(t, "s3cret-password"),
		IsActive:     false,
	}
	customers.On("GetByEmail", mock.Anything, "priya@example.com").Return(customer, nil)

	result, err := svc.LoginCustomer(context.Background(), &LoginInput{
		Email:    "priya@example.com",
		Password: "s3cret-password",
	})

	assert.Nil(t, result)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "ACCOUNT_INACTIVE", appErr.Code)
}

func TestLoginArtist_PendingApprovalRejected(t *testing.T) {
	admins := new(mockAdminRepository)
	artists := new(mockArtistRepository)
	customers := new(mockCustomerRepository)
	svc := newTestAuthService(t, admins, artists, customers)

	artist := &domain.Artist{
		ID:           uuid.New().String(),
		Email:        "meera@example.com",
		PasswordHash: hashPassword(t, "s3cret-password"),
		IsApproved:   false,
		IsActive:     true,
	}
	artists.On("GetByEmail", mock.Anything, "meera@example.com").Return(artist, nil)

	result, err := svc.LoginArtist(context.Background(), &LoginInput{
		Email:    "meera@example.com",
		Password: "s3cret-password",
	})

	assert.Nil(t, result)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrForbidden))
}

func TestLoginArtist_Success(t *testing.T) {
	admins := new(mockAdminRepository)
	artists := new(mockArtistRepository)
	customers := new(mockCustomerRepository)
	svc := newTestAuthService(t, admins, artists, customers)

	artist := &domain.Artist{
		ID:           uuid.New().String(),
		Email:        "meera@example.com",
		PasswordHash: hashPassword(t, "s3cret-password"),
		Name:         "Meera",
		IsApproved:   true,
		IsActive:     true,
	}
	artists.On("GetByEmail", mock.Anything, "meera@example.com").Return(artist, nil)

	result, err := svc.LoginArtist(context.Background(), &LoginInput{
		Email:    "meera@example.com",
		Password: "s3cret-password",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.RoleArtist, result.Role)

	// An artist token must not verify under the customer codec.
	_, err = newTestCodecs(t).Customer.Verify(result.Token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestLoginAdmin_Success(t *testing.T) {
	admins := new(mockAdminRepository)
	artists := new(mockArtistRepository)
	customers := new(mockCustomerRepository)
	svc := newTestAuthService(t, admins, artists, customers)

	admin := &domain.Admin{
		ID:           uuid.New().String(),
		Email:        "ops@dollup.in",
		PasswordHash: hashPassword(t, "s3cret-password"),
		Name:         "Ops",
		IsActive:     true,
	}
	admins.On("GetByEmail", mock.Anything, "ops@dollup.in").Return(admin, nil)

	result, err := svc.LoginAdmin(context.Background(), &LoginInput{
		Email:    "ops@dollup.in",
		Password: "s3cret-password",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, result.Role)

	claims, err := newTestCodecs(t).Admin.Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, claims.ActorID)
}

// --- SeedAdmin ---

func TestSeedAdmin_CreatesFirstAdmin(t *testing.T) {
	admins := new(mockAdminRepository)
	artists := new(mockArtistRepository)
	customers := new(mockCustomerRepository)
	svc := newTestAuthService(t, admins, artists, customers)

	admins.On("CountAll", mock.Anything).Return(0, nil)
	admins.On("Create", mock.Anything, mock.AnythingOfType("*domain.Admin")).Return(nil)

	err := svc.SeedAdmin(context.Background(), "ops@dollup.in", "s3cret-password", "Ops")

	require.NoError(t, err)
	admins.AssertExpectations(t)
}

func TestSeedAdmin_NoOpWhenAdminsExist(t *testing.T) {
	admins := new(mockAdminRepository)
	artists := new(mockArtistRepository)
	customers := new(mockCustomerRepository)
	svc := newTestAuthService(t, admins, artists, customers)

	admins.On("CountAll", mock.Anything).Return(1, nil)

	err := svc.SeedAdmin(context.Background(), "ops@dollup.in", "s3cret-password", "Ops")

	require.NoError(t, err)
	admins.AssertNotCalled(t, "Create")
}

func TestSeedAdmin_NoOpWithoutCredentials(t *testing.T) {
	admins := new(mockAdminRepository)
	artists := new(mockArtistRepository)
	customers := new(mockCustomerRepository)
	svc := newTestAuthService(t, admins, artists, customers)

	err := svc.SeedAdmin(context.Background(), "", "", "")

	require.NoError(t, err)
	admins.AssertNotCalled(t, "CountAll")
	admins.AssertNotCalled(t, "Create")
}
