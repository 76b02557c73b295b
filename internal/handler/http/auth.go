package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/ShaileshM23290/dollup-sub001/internal/auth"
	"github.com/ShaileshM23290/dollup-sub001/internal/domain"
	"github.com/ShaileshM23290/dollup-sub001/internal/service"
	"github.com/ShaileshM23290/dollup-sub001/pkg/httputil"
	"github.com/ShaileshM23290/dollup-sub001/pkg/validator"
)

// AuthHandler handles registration and login endpoints.
type AuthHandler struct {
	service *service.AuthService
	// secureCookies controls the Secure flag; off only in development.
	secureCookies bool
	logger        *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(svc *service.AuthService, secureCookies bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: svc, secureCookies: secureCookies, logger: logger}
}

// LoginResponse wraps the account with its issued token.
type LoginResponse struct {
	Account any                  `json:"account,omitempty"`
	Auth    *service.LoginResult `json:"auth"`
}

// RegisterCustomer handles POST /api/v1/auth/customer/register
func (h *AuthHandler) RegisterCustomer(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req service.RegisterCustomerInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	customer, login, err := h.service.RegisterCustomer(r.Context(), &req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.setRoleCookie(w, domain.RoleCustomer, login.Token)
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{
		Data: LoginResponse{Account: customer, Auth: login},
	})
}

// RegisterArtist handles POST /api/v1/auth/artist/register
//
// No token is issued; the artist waits for admin approval before logging in.
func (h *AuthHandler) RegisterArtist(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req service.RegisterArtistInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	artist, err := h.service.RegisterArtist(r.Context(), &req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: artist})
}

// LoginAdmin handles POST /api/v1/auth/admin/login
func (h *AuthHandler) LoginAdmin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, domain.RoleAdmin, h.service.LoginAdmin)
}

// LoginArtist handles POST /api/v1/auth/artist/login
func (h *AuthHandler) LoginArtist(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, domain.RoleArtist, h.service.LoginArtist)
}

// LoginCustomer handles POST /api/v1/auth/customer/login
func (h *AuthHandler) LoginCustomer(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, domain.RoleCustomer, h.service.LoginCustomer)
}

type loginFunc func(ctx context.Context, input *service.LoginInput) (*service.LoginResult, error)

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, role string, fn loginFunc) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req service.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	result, err := fn(r.Context(), &req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	h.setRoleCookie(w, role, result.Token)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: LoginResponse{Auth: result}})
}

// Logout handles POST /api/v1/auth/{role}/logout by expiring the cookie.
// Bearer tokens simply age out; there is no server-side session to clear.
func (h *AuthHandler) Logout(role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     cookieNameForRole(role),
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.secureCookies,
			SameSite: http.SameSiteLaxMode,
		})
		httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "logged out"}})
	}
}

func (h *AuthHandler) setRoleCookie(w http.ResponseWriter, role, token string) {
	expiry := auth.CustomerTokenExpiry
	switch role {
	case domain.RoleAdmin:
		expiry = auth.AdminTokenExpiry
	case domain.RoleArtist:
		expiry = auth.ArtistTokenExpiry
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieNameForRole(role),
		Value:    token,
		Path:     "/",
		MaxAge:   int(expiry / time.Second),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func cookieNameForRole(role string) string {
	switch role {
	case domain.RoleAdmin:
		return AdminCookie
	case domain.RoleArtist:
		return ArtistCookie
	default:
		return CustomerCookie
	}
}
