package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ShaileshM23290/dollup-sub001/internal/auth"
	"github.com/ShaileshM23290/dollup-sub001/internal/domain"
	"github.com/ShaileshM23290/dollup-sub001/internal/repository"
	apperrors "github.com/ShaileshM23290/dollup-sub001/pkg/errors"
	"github.com/ShaileshM23290/dollup-sub001/pkg/httputil"
)

// Cookie names the browser clients use per role. "user-token" is accepted
// as a legacy alias for the customer cookie.
const (
	AdminCookie      = "admin-token"
	ArtistCookie     = "artist-token"
	CustomerCookie   = "customer-token"
	LegacyUserCookie = "user-token"
)

// Principal identifies the authenticated actor for the current request.
type Principal struct {
	ID    string
	Email string
	Role  string
}

type principalContextKey struct{}

// PrincipalFromContext returns the authenticated principal, or nil when the
// request did not pass an auth gate.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey{}).(*Principal)
	return p
}

// AuthGate authenticates requests for one role. Tokens prove identity but
// the account directory is consulted on every request, so deactivation and
// approval withdrawal take effect immediately.
type AuthGate struct {
	admins    repository.AdminRepository
	artists   repository.ArtistRepository
	customers repository.CustomerRepository
	codecs    map[string]*auth.TokenCodec
	logger    *slog.Logger
}

// NewAuthGate creates an auth gate backed by the given directory repositories.
func NewAuthGate(
	admins repository.AdminRepository,
	artists repository.ArtistRepository,
	customers repository.CustomerRepository,
	adminCodec, artistCodec, customerCodec *auth.TokenCodec,
	logger *slog.Logger,
) *AuthGate {
	return &AuthGate{
		admins:    admins,
		artists:   artists,
		customers: customers,
		codecs: map[string]*auth.TokenCodec{
			domain.RoleAdmin:    adminCodec,
			domain.RoleArtist:   artistCodec,
			domain.RoleCustomer: customerCodec,
		},
		logger: logger,
	}
}

// RequireAdmin gates a route to authenticated, active admins.
func (g *AuthGate) RequireAdmin(next http.Handler) http.Handler {
	return g.require(domain.RoleAdmin, next)
}

// RequireArtist gates a route to authenticated, active, approved artists.
func (g *AuthGate) RequireArtist(next http.Handler) http.Handler {
	return g.require(domain.RoleArtist, next)
}

// RequireCustomer gates a route to authenticated, active customers.
func (g *AuthGate) RequireCustomer(next http.Handler) http.Handler {
	return g.require(domain.RoleCustomer, next)
}

func (g *AuthGate) require(role string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r, role)
		if token == "" {
			httputil.WriteError(w, r, apperrors.Unauthorized("authentication failed"), g.logger)
			return
		}

		claims, err := g.codecs[role].Verify(token)
		if err != nil {
			// Expired, malformed, and wrong-role tokens all read the same.
			httputil.WriteError(w, r, apperrors.Unauthorized("authentication failed"), g.logger)
			return
		}

		principal, err := g.revalidate(r.Context(), role, claims)
		if err != nil {
			httputil.WriteError(w, r, err, g.logger)
			return
		}

		ctx := context.WithValue(r.Context(), principalContextKey{}, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// revalidate checks the directory record behind a valid token. A missing,
// deactivated, or unapproved account fails with the same opaque 401.
func (g *AuthGate) revalidate(ctx context.Context, role string, claims *auth.Claims) (*Principal, error) {
	switch role {
	case domain.RoleAdmin:
		admin, err := g.admins.GetByID(ctx, claims.ActorID)
		if err != nil || !admin.IsActive {
			return nil, apperrors.AccountInactive()
		}
		return &Principal{ID: admin.ID, Email: admin.Email, Role: role}, nil

	case domain.RoleArtist:
		artist, err := g.artists.GetByID(ctx, claims.ActorID)
		if err != nil || !artist.IsActive || !artist.IsApproved {
			return nil, apperrors.AccountInactive()
		}
		return &Principal{ID: artist.ID, Email: artist.Email, Role: role}, nil

	case domain.RoleCustomer:
		customer, err := g.customers.GetByID(ctx, claims.ActorID)
		if err != nil || !customer.IsActive {
			return nil, apperrors.AccountInactive()
		}
		return &Principal{ID: customer.ID, Email: customer.Email, Role: role}, nil
	}

	return nil, apperrors.Unauthorized("authentication failed")
}

// extractToken pulls the bearer token from the Authorization header, falling
// back to the role's cookie.
func extractToken(r *http.Request, role string) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	names := []string{}
	switch role {
	case domain.RoleAdmin:
		names = append(names, AdminCookie)
	case domain.RoleArtist:
		names = append(names, ArtistCookie)
	case domain.RoleCustomer:
		names = append(names, CustomerCookie, LegacyUserCookie)
	}

	for _, name := range names {
		if cookie, err := r.Cookie(name); err == nil && cookie.Value != "" {
			return cookie.Value
		}
	}
	return ""
}

// ContentTypeJSON enforces that requests with a body carry
// Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if !strings.HasPrefix(ct, "application/json") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnsupportedMediaType)
				_, _ = w.Write([]byte(`{"error":{"code":"UNSUPPORTED_MEDIA_TYPE","message":"Content-Type must be application/json"}}`))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// CORSConfig holds configuration for the CORS middleware.
type CORSConfig struct {
	AllowedOrigins []string
	Environment    string
}

// CORS returns a middleware that sets Cross-Origin Resource Sharing headers.
// Development mode (or a "*" entry) allows any origin; otherwise the request
// Origin is matched against the allow list.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	allowWildcard := cfg.Environment == "development"
	originSet := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			allowWildcard = true
		}
		originSet[o] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if allowWildcard {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else if origin != "" {
				if _, ok := originSet[origin]; ok {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Vary", "Origin")
				}
			}

			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Correlation-ID")
			w.Header().Set("Access-Control-Max-Age", "3600")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
