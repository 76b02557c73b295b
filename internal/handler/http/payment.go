package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ShaileshM23290/dollup-sub001/internal/domain"
	"github.com/ShaileshM23290/dollup-sub001/internal/service"
	"github.com/ShaileshM23290/dollup-sub001/pkg/httputil"
	"github.com/ShaileshM23290/dollup-sub001/pkg/validator"
)

// PaymentHandler handles the payment order and verification endpoints.
type PaymentHandler struct {
	service *service.PaymentService
	logger  *slog.Logger
}

// NewPaymentHandler creates a new payment HTTP handler.
func NewPaymentHandler(svc *service.PaymentService, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{service: svc, logger: logger}
}

// CreateOrder handles POST /api/v1/payments/order (customer).
func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req service.CreateOrderInput
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

	result, err := h.service.CreateOrder(r.Context(), principal.ID, &req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: result})
}

// Verify handles POST /api/v1/payments/verify (customer).
func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req service.VerifyInput
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

	payment, err := h.service.VerifyPayment(r.Context(), principal.ID, &req)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: payment})
}

// Get handles GET /api/v1/payments/{id} (customer or admin).
func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())

	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	payment, err := h.service.GetPayment(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if principal.Role != domain.RoleAdmin && payment.CustomerID != principal.ID {
		// Same shape as a miss, so payment IDs cannot be probed.
		httputil.WriteJSON(w, http.StatusNotFound, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "NOT_FOUND", Message: "payment with id " + id.String() + " not found"},
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: payment})
}

// ListMine handles GET /api/v1/payments (customer).
func (h *PaymentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())
	page, perPage := parsePagination(r)

	payments, total, err := h.service.ListPaymentsByCustomer(r.Context(), principal.ID, page, perPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(payments, total, page, perPage))
}

// FailRequest is the JSON body for recording a gateway failure.
type FailRequest struct {
	RemoteOrderID string `json:"remote_order_id" validate:"required"`
	Reason        string `json:"reason" validate:"required,max=500"`
}

// MarkFailed handles POST /api/v1/admin/payments/fail (admin).
//
// Used when the gateway dashboard shows a failed charge that never reached
// the verify endpoint.
func (h *PaymentHandler) MarkFailed(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req FailRequest
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

	payment, err := h.service.MarkFailed(r.Context(), req.RemoteOrderID, req.Reason)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: payment})
}

// Refund handles POST /api/v1/admin/payments/{id}/refund (admin).
func (h *PaymentHandler) Refund(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	payment, err := h.service.Refund(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: payment})
}
