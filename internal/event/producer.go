package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ShaileshM23290/dollup-sub001/internal/domain"
	pkgkafka "github.com/ShaileshM23290/dollup-sub001/pkg/kafka"
)

// Kafka topic constants for dollup domain events.
const (
	TopicPaymentCaptured  = "dollup.payment.captured"
	TopicPaymentFailed    = "dollup.payment.failed"
	TopicPaymentRefunded  = "dollup.payment.refunded"
	TopicBookingConfirmed = "dollup.booking.confirmed"
	TopicBookingCancelled = "dollup.booking.cancelled"
)

// Aggregate type constants.
const (
	AggregateTypePayment = "payment"
	AggregateTypeBooking = "booking"
)

// Source identifier for events originating from this service.
const Source = "dollup-api"

// PaymentCapturedData is the payload for a payment.captured event.
type PaymentCapturedData struct {
	ID              string `json:"id"`
	BookingID       string `json:"booking_id"`
	CustomerID      string `json:"customer_id"`
	RemoteOrderID   string `json:"remote_order_id"`
	RemotePaymentID string `json:"remote_payment_id"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
}

// PaymentFailedData is the payload for a payment.failed event.
type PaymentFailedData struct {
	ID            string `json:"id"`
	BookingID     string `json:"booking_id"`
	CustomerID    string `json:"customer_id"`
	RemoteOrderID string `json:"remote_order_id"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	FailureReason string `json:"failure_reason"`
}

// PaymentRefundedData is the payload for a payment.refunded event.
type PaymentRefundedData struct {
	ID         string `json:"id"`
	BookingID  string `json:"booking_id"`
	CustomerID string `json:"customer_id"`
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
}

// BookingStatusData is the payload for booking.confirmed and booking.cancelled events.
type BookingStatusData struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	ArtistID   string `json:"artist_id"`
	Service    string `json:"service"`
	Status     string `json:"status"`
}

// Producer publishes dollup domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishPaymentCaptured publishes a payment.captured event.
func (p *Producer) PublishPaymentCaptured(ctx context.Context, payment *domain.Payment) error {
	data := PaymentCapturedData{
		ID:              payment.ID,
		BookingID:       payment.BookingID,
		CustomerID:      payment.CustomerID,
		RemoteOrderID:   payment.RemoteOrderID,
		RemotePaymentID: payment.RemotePaymentID,
		Amount:          payment.Amount,
		Currency:        payment.Currency,
	}

	return p.publish(ctx, TopicPaymentCaptured, payment.ID, AggregateTypePayment, data)
}

// PublishPaymentFailed publishes a payment.failed event.
func (p *Producer) PublishPaymentFailed(ctx context.Context, payment *domain.Payment) error {
	data := PaymentFailedData{
		ID:            payment.ID,
		BookingID:     payment.BookingID,
		CustomerID:    payment.CustomerID,
		RemoteOrderID: payment.RemoteOrderID,
		Amount:        payment.Amount,
		Currency:      payment.Currency,
		FailureReason: payment.FailureReason,
	}

	return p.publish(ctx, TopicPaymentFailed, payment.ID, AggregateTypePayment, data)
}

// PublishPaymentRefunded publishes a payment.refunded event.
func (p *Producer) PublishPaymentRefunded(ctx context.Context, payment *domain.Payment) error {
	data := PaymentRefundedData{
		ID:         payment.ID,
		BookingID:  payment.BookingID,
		CustomerID: payment.CustomerID,
		Amount:     payment.Amount,
		Currency:   payment.Currency,
	}

	return p.publish(ctx, TopicPaymentRefunded, payment.ID, AggregateTypePayment, data)
}

// PublishBookingConfirmed publishes a booking.confirmed event.
func (p *Producer) PublishBookingConfirmed(ctx context.Context, booking *domain.Booking) error {
	data := BookingStatusData{
		ID:         booking.ID,
		CustomerID: booking.CustomerID,
		ArtistID:   booking.ArtistID,
		Service:    booking.Service,
		Status:     booking.Status,
	}

	return p.publish(ctx, TopicBookingConfirmed, booking.ID, AggregateTypeBooking, data)
}

// PublishBookingCancelled publishes a booking.cancelled event.
func (p *Producer) PublishBookingCancelled(ctx context.Context, booking *domain.Booking) error {
	data := BookingStatusData{
		ID:         booking.ID,
		CustomerID: booking.CustomerID,
		ArtistID:   booking.ArtistID,
		Service:    booking.Service,
		Status:     booking.Status,
	}

	return p.publish(ctx, TopicBookingCancelled, booking.ID, AggregateTypeBooking, data)
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	event, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, Source, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)

	return nil
}
