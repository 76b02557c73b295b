package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ShaileshM23290/dollup-sub001/internal/domain"
	"github.com/ShaileshM23290/dollup-sub001/internal/event"
	"github.com/ShaileshM23290/dollup-sub001/internal/gateway"
	"github.com/ShaileshM23290/dollup-sub001/internal/repository"
	apperrors "github.com/ShaileshM23290/dollup-sub001/pkg/errors"
)

// PaymentService implements the payment order and verification logic.
type PaymentService struct {
	payments repository.PaymentRepository
	bookings repository.BookingRepository
	gateway  gateway.Gateway
	// keySecret signs capture callbacks; it is the gateway key secret.
	keySecret string
	producer  *event.Producer
	logger    *slog.Logger
}

// NewPaymentService creates a new payment service. The producer may be nil
// when event publishing is disabled.
func NewPaymentService(
	payments repository.PaymentRepository,
	bookings repository.BookingRepository,
	gw gateway.Gateway,
	keySecret string,
	producer *event.Producer,
	logger *slog.Logger,
) *PaymentService {
	return &PaymentService{
		payments:  payments,
		bookings:  bookings,
		gateway:   gw,
		keySecret: keySecret,
		producer:  producer,
		logger:    logger,
	}
}

// CreateOrderInput holds the parameters for opening a payment order.
type CreateOrderInput struct {
	BookingID string `json:"booking_id" validate:"required,uuid"`
	Amount    int64  `json:"amount" validate:"required,gt=0"`
	Currency  string `json:"currency" validate:"required,len=3"`
}

// OrderResult is returned to the client so it can open the gateway checkout.
type OrderResult struct {
	PaymentID     string `json:"payment_id"`
	RemoteOrderID string `json:"remote_order_id"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	Receipt       string `json:"receipt"`
	GatewayKeyID  string `json:"gateway_key_id"`
}

// VerifyInput is the completion proof the client submits after paying.
type VerifyInput struct {
	RemoteOrderID   string `json:"remote_order_id" validate:"required"`
	RemotePaymentID string `json:"remote_payment_id" validate:"required"`
	RemoteSignature string `json:"remote_signature" validate:"required"`
	BookingID       string `json:"booking_id" validate:"omitempty,uuid"`
}

// CreateOrder opens a gateway order for a booking and records the payment
// in the created state. The customer principal must own the booking, and
// the booking must not already carry an active payment.
func (s *PaymentService) CreateOrder(ctx context.Context, customerID string, input *CreateOrderInput) (*OrderResult, error) {
	if input.Amount <= 0 {
		return nil, apperrors.InvalidInput("amount must be greater than zero")
	}
	if len(input.Currency) != 3 {
		return nil, apperrors.InvalidInput("currency must be a 3-letter ISO code")
	}

	booking, err := s.bookings.GetByID(ctx, input.BookingID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("booking", input.BookingID)
		}
		return nil, fmt.Errorf("get booking for order: %w", err)
	}

	if booking.CustomerID != customerID {
		return nil, apperrors.Forbidden("booking belongs to another customer")
	}

	if !booking.IsPayable() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("booking in status %q with payment status %q takes no payment", booking.Status, booking.PaymentStatus))
	}

	// Check-then-act is advisory only; the partial unique index on
	// payments(booking_id) is what actually closes the race. Checking
	// here avoids opening a remote order we would immediately orphan.
	if _, err := s.payments.GetActiveByBookingID(ctx, input.BookingID); err == nil {
		return nil, apperrors.DuplicateOrder(input.BookingID)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("check active payment: %w", err)
	}

	receipt := fmt.Sprintf("bkg_%s_%d", booking.ID, time.Now().Unix())

	remoteOrder, err := s.gateway.CreateOrder(ctx, &gateway.CreateOrderInput{
		Amount:   input.Amount,
		Currency: strings.ToUpper(input.Currency),
		Receipt:  receipt,
		Notes: map[string]string{
			"booking_id":  booking.ID,
			"customer_id": booking.CustomerID,
		},
	})
	if err != nil {
		// No local record exists yet, so there is nothing to clean up.
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperrors.GatewayError(err)
	}

	now := time.Now().UTC()
	payment := &domain.Payment{
		ID:            uuid.New().String(),
		BookingID:     booking.ID,
		CustomerID:    booking.CustomerID,
		RemoteOrderID: remoteOrder.ID,
		Amount:        input.Amount,
		Currency:      strings.ToUpper(input.Currency),
		Status:        domain.PaymentStatusCreated,
		Receipt:       receipt,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.payments.Create(ctx, payment); err != nil {
		// The remote order exists but no local record does. That orphan
		// must be visible to reconciliation, whatever the insert error was.
		s.logger.ErrorContext(ctx, "reconciliation required: remote order without local payment",
			slog.String("remote_order_id", remoteOrder.ID),
			slog.String("booking_id", booking.ID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.InfoContext(ctx, "payment order created",
		slog.String("payment_id", payment.ID),
		slog.String("booking_id", booking.ID),
		slog.String("remote_order_id", remoteOrder.ID),
		slog.Int64("amount", payment.Amount),
	)

	return &OrderResult{
		PaymentID:     payment.ID,
		RemoteOrderID: remoteOrder.ID,
		Amount:        payment.Amount,
		Currency:      payment.Currency,
		Receipt:       receipt,
		GatewayKeyID:  s.gateway.KeyID(),
	}, nil
}

// VerifyPayment validates a completion proof and transitions the payment to
// paid, confirming the booking as a correlated effect. A repeated verify with
// the same proof is a no-op success; a proof for an order that settled with a
// different gateway payment ID is a conflict.
func (s *PaymentService) VerifyPayment(ctx context.Context, customerID string, input *VerifyInput) (*domain.Payment, error) {
	// Signature first. An invalid proof must not reveal whether the order
	// exists, and must leave every record untouched.
	if !gateway.VerifySignature(s.keySecret, input.RemoteOrderID, input.RemotePaymentID, input.RemoteSignature) {
		return nil, apperrors.SignatureInvalid()
	}

	payment, err := s.payments.GetByRemoteOrderID(ctx, input.RemoteOrderID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("payment", input.RemoteOrderID)
		}
		return nil, fmt.Errorf("get payment for verification: %w", err)
	}

	if customerID != "" && payment.CustomerID != customerID {
		return nil, apperrors.Forbidden("payment belongs to another customer")
	}
	if input.BookingID != "" && payment.BookingID != input.BookingID {
		return nil, apperrors.InvalidInput("booking_id does not match the payment's booking")
	}

	updated, err := s.payments.MarkPaid(ctx, input.RemoteOrderID, input.RemotePaymentID, input.RemoteSignature)
	if err != nil {
		return nil, fmt.Errorf("mark payment paid: %w", err)
	}

	if !updated {
		// Someone settled this order first. Re-read and disambiguate.
		settled, err := s.payments.GetByRemoteOrderID(ctx, input.RemoteOrderID)
		if err != nil {
			return nil, fmt.Errorf("reread payment after missed transition: %w", err)
		}
		if settled.Status == domain.PaymentStatusPaid && settled.RemotePaymentID == input.RemotePaymentID {
			return settled, nil
		}
		return nil, apperrors.PaymentConflict(input.RemoteOrderID)
	}

	payment.Status = domain.PaymentStatusPaid
	payment.RemotePaymentID = input.RemotePaymentID
	payment.RemoteSignature = input.RemoteSignature
	now := time.Now().UTC()
	payment.CompletedAt = &now
	payment.UpdatedAt = now

	// The payment is paid; the booking must follow. If it cannot, the
	// caller must not hear success.
	if err := s.confirmBooking(ctx, payment); err != nil {
		return nil, err
	}

	if s.producer != nil {
		if pubErr := s.producer.PublishPaymentCaptured(ctx, payment); pubErr != nil {
			s.logger.ErrorContext(ctx, "failed to publish payment.captured event",
				slog.String("payment_id", payment.ID),
				slog.String("error", pubErr.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "payment verified",
		slog.String("payment_id", payment.ID),
		slog.String("booking_id", payment.BookingID),
		slog.String("remote_order_id", payment.RemoteOrderID),
	)

	return payment, nil
}

// confirmBooking moves the paid payment's booking to confirmed/paid.
func (s *PaymentService) confirmBooking(ctx context.Context, payment *domain.Payment) error {
	if err := s.bookings.UpdateStatus(ctx, payment.BookingID, domain.BookingStatusConfirmed); err != nil {
		s.logger.ErrorContext(ctx, "reconciliation required: payment paid but booking not confirmed",
			slog.String("remote_order_id", payment.RemoteOrderID),
			slog.String("booking_id", payment.BookingID),
			slog.String("error", err.Error()),
		)
		return apperrors.ReconciliationFailure(err)
	}

	if err := s.bookings.SetPaymentStatus(ctx, payment.BookingID, domain.BookingPaymentPaid); err != nil {
		s.logger.ErrorContext(ctx, "reconciliation required: payment paid but booking payment status stale",
			slog.String("remote_order_id", payment.RemoteOrderID),
			slog.String("booking_id", payment.BookingID),
			slog.String("error", err.Error()),
		)
		return apperrors.ReconciliationFailure(err)
	}

	if s.producer != nil {
		booking, err := s.bookings.GetByID(ctx, payment.BookingID)
		if err == nil {
			if pubErr := s.producer.PublishBookingConfirmed(ctx, booking); pubErr != nil {
				s.logger.ErrorContext(ctx, "failed to publish booking.confirmed event",
					slog.String("booking_id", booking.ID),
					slog.String("error", pubErr.Error()),
				)
			}
		}
	}

	return nil
}

// MarkFailed records an out-of-band gateway failure for a created payment.
func (s *PaymentService) MarkFailed(ctx context.Context, remoteOrderID, reason string) (*domain.Payment, error) {
	updated, err := s.payments.MarkFailed(ctx, remoteOrderID, reason)
	if err != nil {
		return nil, fmt.Errorf("mark payment failed: %w", err)
	}
	if !updated {
		return nil, apperrors.PaymentConflict(remoteOrderID)
	}

	payment, err := s.payments.GetByRemoteOrderID(ctx, remoteOrderID)
	if err != nil {
		return nil, fmt.Errorf("get payment after failure: %w", err)
	}

	if s.producer != nil {
		if pubErr := s.producer.PublishPaymentFailed(ctx, payment); pubErr != nil {
			s.logger.ErrorContext(ctx, "failed to publish payment.failed event",
				slog.String("payment_id", payment.ID),
				slog.String("error", pubErr.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "payment marked failed",
		slog.String("payment_id", payment.ID),
		slog.String("remote_order_id", remoteOrderID),
		slog.String("reason", reason),
	)

	return payment, nil
}

// Refund refunds a paid payment through the gateway and records the
// terminal state on both the payment and its booking.
func (s *PaymentService) Refund(ctx context.Context, paymentID string) (*domain.Payment, error) {
	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("payment", paymentID)
		}
		return nil, fmt.Errorf("get payment for refund: %w", err)
	}

	if !domain.CanTransition(payment.Status, domain.PaymentStatusRefunded) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("payment cannot be refunded in status %q", payment.Status))
	}

	if _, err := s.gateway.Refund(ctx, &gateway.RefundInput{
		RemotePaymentID: payment.RemotePaymentID,
		Amount:          payment.Amount,
	}); err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperrors.GatewayError(err)
	}

	updated, err := s.payments.MarkRefunded(ctx, paymentID)
	if err != nil {
		s.logger.ErrorContext(ctx, "reconciliation required: gateway refund done but payment not recorded",
			slog.String("remote_order_id", payment.RemoteOrderID),
			slog.String("booking_id", payment.BookingID),
			slog.String("error", err.Error()),
		)
		return nil, apperrors.ReconciliationFailure(err)
	}
	if !updated {
		return nil, apperrors.PaymentConflict(payment.RemoteOrderID)
	}

	payment.Status = domain.PaymentStatusRefunded
	payment.UpdatedAt = time.Now().UTC()

	if err := s.bookings.SetPaymentStatus(ctx, payment.BookingID, domain.BookingPaymentRefunded); err != nil {
		s.logger.ErrorContext(ctx, "reconciliation required: payment refunded but booking payment status stale",
			slog.String("remote_order_id", payment.RemoteOrderID),
			slog.String("booking_id", payment.BookingID),
			slog.String("error", err.Error()),
		)
		return nil, apperrors.ReconciliationFailure(err)
	}

	if s.producer != nil {
		if pubErr := s.producer.PublishPaymentRefunded(ctx, payment); pubErr != nil {
			s.logger.ErrorContext(ctx, "failed to publish payment.refunded event",
				slog.String("payment_id", payment.ID),
				slog.String("error", pubErr.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "payment refunded",
		slog.String("payment_id", payment.ID),
		slog.String("booking_id", payment.BookingID),
	)

	return payment, nil
}

// GetPayment retrieves a payment by its ID.
func (s *PaymentService) GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("payment", paymentID)
		}
		return nil, fmt.Errorf("get payment by id: %w", err)
	}
	return payment, nil
}

// ListPaymentsByCustomer returns a paginated list of a customer's payments.
func (s *PaymentService) ListPaymentsByCustomer(ctx context.Context, customerID string, page, perPage int) ([]domain.Payment, int, error) {
	offset, limit := pageToRange(page, perPage)

	payments, total, err := s.payments.ListByCustomerID(ctx, customerID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list payments by customer: %w", err)
	}

	return payments, total, nil
}
