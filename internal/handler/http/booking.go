package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ShaileshM23290/dollup-sub001/internal/domain"
	"github.com/ShaileshM23290/dollup-sub001/internal/service"
	"github.com/ShaileshM23290/dollup-sub001/pkg/httputil"
	"github.com/ShaileshM23290/dollup-sub001/pkg/validator"
)

// BookingHandler handles booking and artist-directory endpoints.
type BookingHandler struct {
	service *service.BookingService
	logger  *slog.Logger
}

// NewBookingHandler creates a new booking HTTP handler.
func NewBookingHandler(svc *service.BookingService, logger *slog.Logger) *BookingHandler {
	return &BookingHandler{service: svc, logger: logger}
}

// ListArtists handles GET /api/v1/artists (public).
func (h *BookingHandler) ListArtists(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r)
	city := r.URL.Query().Get("city")

	artists, total, err := h.service.ListArtists(r.Context(), city, page, perPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(artists, total, page, perPage))
}

// Create handles POST /api/v1/bookings (customer).
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req service.CreateBookingInput
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

	booking, err := h.service.CreateBooking(r.Context(), principal.ID, &req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: booking})
}

// Get handles GET /api/v1/bookings/{id} (customer, artist, or admin).
func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())

	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	// Admins see every booking; others only their own.
	actorID := principal.ID
	if principal.Role == domain.RoleAdmin {
		actorID = ""
	}

	booking, err := h.service.GetBooking(r.Context(), actorID, id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: booking})
}

// ListMine handles GET /api/v1/bookings (customer).
func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())
	page, perPage := parsePagination(r)

	bookings, total, err := h.service.ListCustomerBookings(r.Context(), principal.ID, page, perPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(bookings, total, page, perPage))
}

// ListAssigned handles GET /api/v1/artist/bookings (artist).
func (h *BookingHandler) ListAssigned(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())
	page, perPage := parsePagination(r)

	bookings, total, err := h.service.ListArtistBookings(r.Context(), principal.ID, page, perPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(bookings, total, page, perPage))
}

// Cancel handles POST /api/v1/bookings/{id}/cancel (customer).
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())

	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	booking, err := h.service.CancelBooking(r.Context(), principal.ID, id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: booking})
}

// Complete handles POST /api/v1/artist/bookings/{id}/complete (artist).
func (h *BookingHandler) Complete(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())

	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	booking, err := h.service.CompleteBooking(r.Context(), principal.ID, id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: booking})
}

// Rate handles POST /api/v1/bookings/{id}/rating (customer).
func (h *BookingHandler) Rate(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())

	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req service.RateBookingInput
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

	artist, err := h.service.RateBooking(r.Context(), principal.ID, id.String(), &req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: artist})
}

// parsePagination reads page and per_page query parameters with defaults.
func parsePagination(r *http.Request) (page, perPage int) {
	page = 1
	perPage = 20

	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := r.URL.Query().Get("per_page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			perPage = n
		}
	}
	return page, perPage
}
