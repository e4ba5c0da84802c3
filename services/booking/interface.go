// File: services/booking/interface.go
package booking

import (
	"context"
	"time"

	bookingRepo "fuelq/database/repository/booking"
	pumpRepo "fuelq/database/repository/pump"
	"fuelq/models"
	"fuelq/services/reminder"
	"fuelq/services/slot"
	"fuelq/services/token"
	"fuelq/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateBookingRequest carries everything needed to book a slot.
type CreateBookingRequest struct {
	UserID       string  `json:"user_id"`
	PumpID       string  `json:"pump_id" binding:"required"`
	SlotDate     string  `json:"slot_date" binding:"required"` // 2006-01-02
	SlotTime     string  `json:"slot_time" binding:"required"` // 15:04
	FuelQuantity float64 `json:"fuel_quantity" binding:"required"`
}

// CreateBookingResult bundles the booking with its freshly issued token.
type CreateBookingResult struct {
	Booking *models.Booking `json:"booking"`
	Token   *models.Token   `json:"token"`
	Payload string          `json:"payload"`
}

// BookingService owns the booking lifecycle: creation, the status state
// machine, and the cancellation cascade.
type BookingService interface {
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*CreateBookingResult, error)
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	GetByUser(ctx context.Context, userID string) ([]models.Booking, error)
	GetByPump(ctx context.Context, pumpID string) ([]models.Booking, error)
	AvailableSlots(ctx context.Context, pumpID, date string) ([]models.TimeSlot, error)
	Confirm(ctx context.Context, id string) error
	Complete(ctx context.Context, id string) error
	Cancel(ctx context.Context, id string) error
	Expire(ctx context.Context, id string) error
	SetConfirmation(ctx context.Context, id, status string) error
}

// DefaultBookingService is the production implementation.
type DefaultBookingService struct {
	Repo      bookingRepo.BookingRepository
	Pumps     pumpRepo.PumpRepository
	Allocator *slot.Allocator
	Tokens    token.TokenService
	Reminders reminder.ReminderService
	Clock     utils.Clock
	Logger    *zap.Logger
	// UnitPrice is the per-kg price applied at creation time.
	UnitPrice decimal.Decimal
	// TokenTTL is passed through to token issuance.
	TokenTTL time.Duration
}

func (s *DefaultBookingService) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now()
	}
	return time.Now().UTC()
}
