package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ShaileshM23290/dollup-sub001/internal/service"
	"github.com/ShaileshM23290/dollup-sub001/pkg/httputil"
)

// AdminHandler handles platform moderation endpoints.
type AdminHandler struct {
	service *service.AdminService
	logger  *slog.Logger
}

// NewAdminHandler creates a new admin HTTP handler.
func NewAdminHandler(svc *service.AdminService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{service: svc, logger: logger}
}

// ListPendingArtists handles GET /api/v1/admin/artists/pending
func (h *AdminHandler) ListPendingArtists(w http.ResponseWriter, r *http.Request) {
	page, perPage := parsePagination(r)

	artists, total, err := h.service.ListPendingArtists(r.Context(), page, perPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(artists, total, page, perPage))
}

// ApproveArtist handles POST /api/v1/admin/artists/{id}/approve
func (h *AdminHandler) ApproveArtist(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	artist, err := h.service.ApproveArtist(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: artist})
}

// DeactivateArtist handles POST /api/v1/admin/artists/{id}/deactivate
func (h *AdminHandler) DeactivateArtist(w http.ResponseWriter, r *http.Request) {
	h.setArtistActive(w, r, false)
}

// ReactivateArtist handles POST /api/v1/admin/artists/{id}/reactivate
func (h *AdminHandler) ReactivateArtist(w http.ResponseWriter, r *http.Request) {
	h.setArtistActive(w, r, true)
}

func (h *AdminHandler) setArtistActive(w http.ResponseWriter, r *http.Request, active bool) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var err error
	if active {
		err = h.service.ReactivateArtist(r.Context(), id.String())
	} else {
		err = h.service.DeactivateArtist(r.Context(), id.String())
	}
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]any{"id": id.String(), "is_active": active},
	})
}

// DeactivateCustomer handles POST /api/v1/admin/customers/{id}/deactivate
func (h *AdminHandler) DeactivateCustomer(w http.ResponseWriter, r *http.Request) {
	h.setCustomerActive(w, r, false)
}

// ReactivateCustomer handles POST /api/v1/admin/customers/{id}/reactivate
func (h *AdminHandler) ReactivateCustomer(w http.ResponseWriter, r *http.Request) {
	h.setCustomerActive(w, r, true)
}

func (h *AdminHandler) setCustomerActive(w http.ResponseWriter, r *http.Request, active bool) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var err error
	if active {
		err = h.service.ReactivateCustomer(r.Context(), id.String())
	} else {
		err = h.service.DeactivateCustomer(r.Context(), id.String())
	}
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]any{"id": id.String(), "is_active": active},
	})
}
