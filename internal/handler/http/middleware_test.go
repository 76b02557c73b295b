package http

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShaileshM23290/dollup-sub001/internal/auth"
	"github.com/ShaileshM23290/dollup-sub001/internal/domain"
	"github.com/ShaileshM23290/dollup-sub001/internal/repository"
	apperrors "github.com/ShaileshM23290/dollup-sub001/pkg/errors"
)

// --- Stub directories ---

type stubAdminDirectory struct {
	repository.AdminRepository
	admin *domain.Admin
}

func (s *stubAdminDirectory) GetByID(_ context.Context, id string) (*domain.Admin, error) {
	if s.admin != nil && s.admin.ID == id {
		return s.admin, nil
	}
	return nil, apperrors.ErrNotFound
}

type stubArtistDirectory struct {
	repository.ArtistRepository
	artist *domain.Artist
}

func (s *stubArtistDirectory) GetByID(_ context.Context, id string) (*domain.Artist, error) {
	if s.artist != nil && s.artist.ID == id {
		return s.artist, nil
	}
	return nil, apperrors.ErrNotFound
}

type stubCustomerDirectory struct {
	repository.CustomerRepository
	customer *domain.Customer
}

func (s *stubCustomerDirectory) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	if s.customer != nil && s.customer.ID == id {
		return s.customer, nil
	}
	return nil, apperrors.ErrNotFound
}

// --- Helpers ---

const gateTestSecret = "gate-test-secret"

func newGateTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

type gateFixture struct {
	gate          *AuthGate
	admins        *stubAdminDirectory
	artists       *stubArtistDirectory
	customers     *stubCustomerDirectory
	adminCodec    *auth.TokenCodec
	artistCodec   *auth.TokenCodec
	customerCodec *auth.TokenCodec
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()

	adminCodec, err := auth.NewTokenCodec(domain.RoleAdmin, gateTestSecret, auth.AdminTokenExpiry)
	require.NoError(t, err)
	artistCodec, err := auth.NewTokenCodec(domain.RoleArtist, gateTestSecret, auth.ArtistTokenExpiry)
	require.NoError(t, err)
	customerCodec, err := auth.NewTokenCodec(domain.RoleCustomer, gateTestSecret, auth.CustomerTokenExpiry)
	require.NoError(t, err)

	admins := &stubAdminDirectory{}
	artists := &stubArtistDirectory{}
	customers := &stubCustomerDirectory{}

	gate := NewAuthGate(admins, artists, customers, adminCodec, artistCodec, customerCodec, newGateTestLogger())

	return &gateFixture{
		gate:          gate,
		admins:        admins,
		artists:       artists,
		customers:     customers,
		adminCodec:    adminCodec,
		artistCodec:   artistCodec,
		customerCodec: customerCodec,
	}
}

// echoPrincipal writes the principal ID so tests can see what the gate set.
func echoPrincipal(w http.ResponseWriter, r *http.Request) {
	p := PrincipalFromContext(r.Context())
	if p == nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(p.ID))
}

// --- AuthGate tests ---

func TestAuthGate_MissingToken(t *testing.T) {
	f := newGateFixture(t)
	handler := f.gate.RequireCustomer(http.HandlerFunc(echoPrincipal))

	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "UNAUTHORIZED")
}

func TestAuthGate_MalformedToken(t *testing.T) {
	f := newGateFixture(t)
	handler := f.gate.RequireCustomer(http.HandlerFunc(echoPrincipal))

	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "authentication failed")
}

func TestAuthGate_ValidBearerToken(t *testing.T) {
	f := newGateFixture(t)

	customer := &domain.Customer{ID: uuid.New().String(), Email: "priya@example.com", IsActive: true}
	f.customers.customer = customer

	token, err := f.customerCodec.Issue(customer.ID, customer.Email)
	require.NoError(t, err)

	handler := f.gate.RequireCustomer(http.HandlerFunc(echoPrincipal))
	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, customer.ID, rr.Body.String())
}

func TestAuthGate_CookieFallback(t *testing.T) {
	f := newGateFixture(t)

	customer := &domain.Customer{ID: uuid.New().String(), Email: "priya@example.com", IsActive: true}
	f.customers.customer = customer

	token, err := f.customerCodec.Issue(customer.ID, customer.Email)
	require.NoError(t, err)

	for _, cookieName := range []string{CustomerCookie, LegacyUserCookie} {
		handler := f.gate.RequireCustomer(http.HandlerFunc(echoPrincipal))
		req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
		req.AddCookie(&http.Cookie{Name: cookieName, Value: token})
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, "cookie %s should authenticate", cookieName)
	}
}

func TestAuthGate_HeaderWinsOverCookie(t *testing.T) {
	f := newGateFixture(t)

	customer := &domain.Customer{ID: uuid.New().String(), Email: "priya@example.com", IsActive: true}
	f.customers.customer = customer

	token, err := f.customerCodec.Issue(customer.ID, customer.Email)
	require.NoError(t, err)

	// A garbage header must not fall through to the valid cookie.
	handler := f.gate.RequireCustomer(http.HandlerFunc(echoPrincipal))
	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	req.AddCookie(&http.Cookie{Name: CustomerCookie, Value: token})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuthGate_CrossRoleTokenRejected(t *testing.T) {
	f := newGateFixture(t)

	admin := &domain.Admin{ID: uuid.New().String(), Email: "ops@dollup.in", IsActive: true}
	f.admins.admin = admin

	token, err := f.adminCodec.Issue(admin.ID, admin.Email)
	require.NoError(t, err)

	handler := f.gate.RequireCustomer(http.HandlerFunc(echoPrincipal))
	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "authentication failed")
}

func TestAuthGate_DeactivatedAccountRejectedImmediately(t *testing.T) {
	f := newGateFixture(t)

	customer := &domain.Customer{ID: uuid.New().String(), Email: "priya@example.com", IsActive: true}
	f.customers.customer = customer

	token, err := f.customerCodec.Issue(customer.ID, customer.Email)
	require.NoError(t, err)

	// Deactivation after issuance must lock the account out on the next
	// request even though the token is still cryptographically valid.
	customer.IsActive = false

	handler := f.gate.RequireCustomer(http.HandlerFunc(echoPrincipal))
	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "ACCOUNT_INACTIVE")
}

func TestAuthGate_UnapprovedArtistRejected(t *testing.T) {
	f := newGateFixture(t)

	artist := &domain.Artist{ID: uuid.New().String(), Email: "meera@example.com", IsActive: true, IsApproved: false}
	f.artists.artist = artist

	token, err := f.artistCodec.Issue(artist.ID, artist.Email)
	require.NoError(t, err)

	handler := f.gate.RequireArtist(http.HandlerFunc(echoPrincipal))
	req := httptest.NewRequest(http.MethodGet, "/artist/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "ACCOUNT_INACTIVE")
}

func TestAuthGate_DeletedAccountRejected(t *testing.T) {
	f := newGateFixture(t)

	// Token for an account the directory no longer knows.
	token, err := f.customerCodec.Issue(uuid.New().String(), "ghost@example.com")
	require.NoError(t, err)

	handler := f.gate.RequireCustomer(http.HandlerFunc(echoPrincipal))
	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

// --- ContentTypeJSON tests ---

func TestContentTypeJSON_RejectsWrongType(t *testing.T) {
	handler := ContentTypeJSON(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/test", strings.NewReader("a=b"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)
}

func TestContentTypeJSON_AllowsJSONWithCharset(t *testing.T) {
	called := false
	handler := ContentTypeJSON(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/test", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, called)
}

func TestContentTypeJSON_GetPassesThrough(t *testing.T) {
	called := false
	handler := ContentTypeJSON(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.True(t, called)
}

// --- RateLimit tests ---

func TestRateLimit_AllowsWithinBurst(t *testing.T) {
	handler := RateLimit(1, 3, newGateTestLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/customer/login", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code, "request %d within burst", i+1)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/customer/login", nil)
	req.RemoteAddr = "203.0.113.7:1234"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}

func TestRateLimit_PerIPIsolation(t *testing.T) {
	handler := RateLimit(1, 1, newGateTestLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRequest(http.MethodPost, "/login", nil)
	first.RemoteAddr = "203.0.113.7:1234"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, first)
	require.Equal(t, http.StatusOK, rr.Code)

	// The first IP's bucket is drained, a second IP is unaffected.
	second := httptest.NewRequest(http.MethodPost, "/login", nil)
	second.RemoteAddr = "203.0.113.8:1234"
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, second)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestVisitorStore_CleanupEvictsStale(t *testing.T) {
	store := newVisitorStore(1, 1, time.Minute)
	store.getVisitor("203.0.113.7")
	require.Equal(t, 1, store.len())

	store.nowFunc = func() time.Time { return time.Now().Add(2 * time.Minute) }
	store.cleanup()
	assert.Equal(t, 0, store.len())
}

func TestClientIP_ForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.9, 10.0.0.1")
	assert.Equal(t, "198.51.100.9", clientIP(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:9999"
	assert.Equal(t, "203.0.113.7", clientIP(req))
}
