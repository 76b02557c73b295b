package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	apperrors "github.com/ShaileshM23290/dollup-sub001/pkg/errors"
	"github.com/ShaileshM23290/dollup-sub001/pkg/httpclient"
)

// RazorpayConfig holds credentials and endpoint for the Razorpay gateway.
type RazorpayConfig struct {
	KeyID     string
	KeySecret string
	BaseURL   string
}

// Razorpay is the production payment gateway adapter. All calls go through
// a circuit breaker so a degraded gateway does not pile up request handlers.
type Razorpay struct {
	cfg    RazorpayConfig
	client *httpclient.CircuitBreakerClient
	logger *slog.Logger
}

// NewRazorpay creates the Razorpay adapter. Missing credentials are a
// configuration error and fail startup rather than the first payment.
func NewRazorpay(cfg RazorpayConfig, client *httpclient.CircuitBreakerClient, logger *slog.Logger) (*Razorpay, error) {
	if cfg.KeyID == "" || cfg.KeySecret == "" {
		return nil, errors.New("razorpay: key id and key secret are required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.razorpay.com"
	}
	// Paths below carry the /v1 prefix; a configured host that already
	// includes it would double to /v1/v1.
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/v1")

	return &Razorpay{
		cfg:    cfg,
		client: client,
		logger: logger,
	}, nil
}

// Name returns the gateway name.
func (g *Razorpay) Name() string {
	return "razorpay"
}

// KeyID returns the public key identifier for checkout.
func (g *Razorpay) KeyID() string {
	return g.cfg.KeyID
}

type razorpayOrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type razorpayOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type razorpayRefundResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type razorpayErrorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder opens an order with Razorpay.
func (g *Razorpay) CreateOrder(ctx context.Context, input *CreateOrderInput) (*RemoteOrder, error) {
	body, err := json.Marshal(razorpayOrderRequest{
		Amount:   input.Amount,
		Currency: input.Currency,
		Receipt:  input.Receipt,
		Notes:    input.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal order request: %w", err)
	}

	resp, err := g.post(ctx, g.cfg.BaseURL+"/v1/orders", body)
	if err != nil {
		return nil, apperrors.GatewayError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.GatewayError(g.responseError(resp))
	}

	var order razorpayOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, apperrors.GatewayError(fmt.Errorf("decode order response: %w", err))
	}

	return &RemoteOrder{
		ID:       order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Receipt:  order.Receipt,
		Status:   order.Status,
	}, nil
}

// Refund refunds a captured payment with Razorpay.
func (g *Razorpay) Refund(ctx context.Context, input *RefundInput) (*RemoteRefund, error) {
	body, err := json.Marshal(map[string]int64{"amount": input.Amount})
	if err != nil {
		return nil, fmt.Errorf("marshal refund request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/payments/%s/refund", g.cfg.BaseURL, input.RemotePaymentID)
	resp, err := g.post(ctx, url, body)
	if err != nil {
		return nil, apperrors.GatewayError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.GatewayError(g.responseError(resp))
	}

	var refund razorpayRefundResponse
	if err := json.NewDecoder(resp.Body).Decode(&refund); err != nil {
		return nil, apperrors.GatewayError(fmt.Errorf("decode refund response: %w", err))
	}

	return &RemoteRefund{ID: refund.ID, Status: refund.Status}, nil
}

func (g *Razorpay) post(ctx context.Context, url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+basicAuth(g.cfg.KeyID, g.cfg.KeySecret))

	return g.client.Do(ctx, req)
}

// responseError turns a non-2xx gateway response into an error, preserving
// the gateway's error code and description when the body is structured.
func (g *Razorpay) responseError(resp *http.Response) error {
	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("razorpay status %d (read body: %w)", resp.StatusCode, err)
	}

	var gwErr razorpayErrorResponse
	if json.Unmarshal(bodyBytes, &gwErr) == nil && gwErr.Error.Code != "" {
		return fmt.Errorf("razorpay %s: %s", gwErr.Error.Code, gwErr.Error.Description)
	}

	return fmt.Errorf("razorpay status %d: %s", resp.StatusCode, string(bodyBytes))
}

func basicAuth(user, pass string) string {
	return base64.StdEncoding.EncodeToString([]byte(user + ":" + pass))
}
