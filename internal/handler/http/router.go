package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ShaileshM23290/dollup-sub001/pkg/health"
	"github.com/ShaileshM23290/dollup-sub001/pkg/middleware"
)

// RouterConfig bundles the handlers and middleware dependencies the router
// needs.
type RouterConfig struct {
	Auth     *AuthHandler
	Booking  *BookingHandler
	Payment  *PaymentHandler
	Admin    *AdminHandler
	Gate     *AuthGate
	Health   *health.Handler
	Logger   *slog.Logger
	CORS     CORSConfig
	LoginRPS int
}

// NewRouter creates a chi router with every platform route registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(CORS(cfg.CORS))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("dollup"))

	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	loginRPS := cfg.LoginRPS
	if loginRPS <= 0 {
		loginRPS = 5
	}

	// Credential endpoints (public, rate limited).
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(RateLimit(loginRPS, loginRPS*2, cfg.Logger))

		r.Post("/customer/register", cfg.Auth.RegisterCustomer)
		r.Post("/customer/login", cfg.Auth.LoginCustomer)
		r.Post("/customer/logout", cfg.Auth.Logout("customer"))

		r.Post("/artist/register", cfg.Auth.RegisterArtist)
		r.Post("/artist/login", cfg.Auth.LoginArtist)
		r.Post("/artist/logout", cfg.Auth.Logout("artist"))

		r.Post("/admin/login", cfg.Auth.LoginAdmin)
		r.Post("/admin/logout", cfg.Auth.Logout("admin"))
	})

	// Artist directory (public).
	r.Get("/api/v1/artists", cfg.Booking.ListArtists)

	// Customer endpoints.
	r.Route("/api/v1/bookings", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(cfg.Gate.RequireCustomer)

		r.Post("/", cfg.Booking.Create)
		r.Get("/", cfg.Booking.ListMine)
		r.Get("/{id}", cfg.Booking.Get)
		r.Post("/{id}/cancel", cfg.Booking.Cancel)
		r.Post("/{id}/rating", cfg.Booking.Rate)
	})

	r.Route("/api/v1/payments", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(cfg.Gate.RequireCustomer)

		r.Post("/order", cfg.Payment.CreateOrder)
		r.Post("/verify", cfg.Payment.Verify)
		r.Get("/", cfg.Payment.ListMine)
		r.Get("/{id}", cfg.Payment.Get)
	})

	// Artist endpoints.
	r.Route("/api/v1/artist/bookings", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(cfg.Gate.RequireArtist)

		r.Get("/", cfg.Booking.ListAssigned)
		r.Get("/{id}", cfg.Booking.Get)
		r.Post("/{id}/complete", cfg.Booking.Complete)
	})

	// Admin endpoints.
	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(cfg.Gate.RequireAdmin)

		r.Get("/artists/pending", cfg.Admin.ListPendingArtists)
		r.Post("/artists/{id}/approve", cfg.Admin.ApproveArtist)
		r.Post("/artists/{id}/deactivate", cfg.Admin.DeactivateArtist)
		r.Post("/artists/{id}/reactivate", cfg.Admin.ReactivateArtist)
		r.Post("/customers/{id}/deactivate", cfg.Admin.DeactivateCustomer)
		r.Post("/customers/{id}/reactivate", cfg.Admin.ReactivateCustomer)

		r.Get("/bookings/{id}", cfg.Booking.Get)
		r.Get("/payments/{id}", cfg.Payment.Get)
		r.Post("/payments/fail", cfg.Payment.MarkFailed)
		r.Post("/payments/{id}/refund", cfg.Payment.Refund)
	})

	return r
}
