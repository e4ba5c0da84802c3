// Package payment records payments and drives the Stripe checkout flow.
package payment

import (
	"context"
	"errors"
	"fmt"

	bookingRepo "fuelq/database/repository/booking"
	paymentRepo "fuelq/database/repository/payment"
	"fuelq/models"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"
)

const (
	ModeOnline = "online"
	ModeCash   = "cash"
)

var ErrInvalidAmount = errors.New("invalid payment amount")

// IntentResult carries what a client needs to finish a Stripe payment.
type IntentResult struct {
	Payment      *models.Payment `json:"payment"`
	ClientSecret string          `json:"client_secret"`
}

type PaymentService interface {
	// CreateIntent opens a Stripe payment intent for the booking's amount and
	// records a pending payment.
	CreateIntent(ctx context.Context, bookingID string) (*IntentResult, error)
	// RecordCash records an offline payment as already settled.
	RecordCash(ctx context.Context, bookingID string) (*models.Payment, error)
	// Settle resolves a pending payment and mirrors the outcome onto the
	// booking's payment status.
	Settle(ctx context.Context, paymentID, status string) error
	GetByBookingID(ctx context.Context, bookingID string) ([]models.Payment, error)
}

// DefaultPaymentService is the production implementation.
type DefaultPaymentService struct {
	Repo     paymentRepo.PaymentRepository
	Bookings bookingRepo.BookingRepository
	Logger   *zap.Logger
	Currency string // ISO code, e.g. "inr"
}

func (s *DefaultPaymentService) CreateIntent(ctx context.Context, bookingID string) (*IntentResult, error) {
	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking %s: %w", bookingID, err)
	}

	amount, err := decimal.NewFromString(booking.Amount)
	if err != nil || !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	// Stripe wants the smallest currency unit.
	minorUnits := amount.Shift(2).IntPart()

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(minorUnits),
		Currency: stripe.String(s.currency()),
	}
	params.AddMetadata("booking_id", bookingID)

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	p := &models.Payment{
		BookingID:     bookingID,
		Amount:        booking.Amount,
		Mode:          ModeOnline,
		Status:        models.PaymentStatusPending,
		TransactionID: intent.ID,
	}
	if err := s.Repo.Insert(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	s.Logger.Info("payment intent created",
		zap.String("booking_id", bookingID),
		zap.String("intent_id", intent.ID))
	return &IntentResult{Payment: p, ClientSecret: intent.ClientSecret}, nil
}

func (s *DefaultPaymentService) RecordCash(ctx context.Context, bookingID string) (*models.Payment, error) {
	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking %s: %w", bookingID, err)
	}

	p := &models.Payment{
		BookingID: bookingID,
		Amount:    booking.Amount,
		Mode:      ModeCash,
		Status:    models.PaymentStatusSuccess,
	}
	if err := s.Repo.Insert(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to record cash payment: %w", err)
	}
	if err := s.Bookings.SetPaymentStatus(ctx, bookingID, models.PaymentStatusSuccess); err != nil {
		return nil, fmt.Errorf("failed to update booking payment status: %w", err)
	}
	return p, nil
}

func (s *DefaultPaymentService) Settle(ctx context.Context, paymentID, status string) error {
	if status != models.PaymentStatusSuccess && status != models.PaymentStatusFailed {
		return fmt.Errorf("invalid settlement status %q", status)
	}

	p, err := s.Repo.GetByID(ctx, paymentID)
	if err != nil {
		return fmt.Errorf("failed to load payment %s: %w", paymentID, err)
	}
	if err := s.Repo.SetStatus(ctx, paymentID, status); err != nil {
		return fmt.Errorf("failed to update payment %s: %w", paymentID, err)
	}
	if err := s.Bookings.SetPaymentStatus(ctx, p.BookingID, status); err != nil {
		return fmt.Errorf("failed to update booking %s payment status: %w", p.BookingID, err)
	}

	s.Logger.Info("payment settled",
		zap.String("payment_id", paymentID),
		zap.String("status", status))
	return nil
}

func (s *DefaultPaymentService) GetByBookingID(ctx context.Context, bookingID string) ([]models.Payment, error) {
	return s.Repo.GetByBookingID(ctx, bookingID)
}

func (s *DefaultPaymentService) currency() string {
	if s.Currency == "" {
		return "inr"
	}
	return s.Currency
}
