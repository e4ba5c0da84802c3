package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "fuelq/database/repository/booking"
	"fuelq/models"
	"fuelq/monitoring"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// maxFuelQuantityKg bounds a single booking's fill.
const maxFuelQuantityKg = 50.0

// CreateBooking books a slot, issues its e-token and schedules reminders.
//
// Availability is not pre-checked beyond the universe rule: the insert itself
// decides the race, and a duplicate-key rejection from the live-slot unique
// index surfaces as ErrSlotUnavailable. Two concurrent requests for the same
// slot therefore get exactly one booking between them.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*CreateBookingResult, error) {
	if req.FuelQuantity <= 0 || req.FuelQuantity > maxFuelQuantityKg {
		return nil, ErrInvalidQuantity
	}

	pump, err := s.Pumps.GetByID(ctx, req.PumpID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("pump %s not found", req.PumpID)
		}
		return nil, fmt.Errorf("failed to load pump %s: %w", req.PumpID, err)
	}
	if !pump.IsOpen {
		return nil, ErrPumpClosed
	}

	if err := s.validateSlot(req.SlotDate, req.SlotTime); err != nil {
		return nil, err
	}

	amount := s.UnitPrice.Mul(decimal.NewFromFloat(req.FuelQuantity))

	booking := &models.Booking{
		ID:                 uuid.New().String(),
		UserID:             req.UserID,
		PumpID:             req.PumpID,
		SlotDate:           req.SlotDate,
		SlotTime:           req.SlotTime,
		FuelQuantity:       req.FuelQuantity,
		Amount:             amount.StringFixed(2),
		PaymentStatus:      models.PaymentStatusPending,
		BookingStatus:      models.BookingStatusActive,
		ConfirmationStatus: models.ConfirmationPending,
	}

	if err := s.Repo.Insert(ctx, booking); err != nil {
		if errors.Is(err, bookingRepo.ErrSlotTaken) {
			monitoring.TrackSlotConflict()
			return nil, ErrSlotUnavailable
		}
		return nil, fmt.Errorf("failed to insert booking: %w", err)
	}
	monitoring.TrackBookingCreated(req.PumpID)

	if err := s.Pumps.AdjustCapacity(ctx, req.PumpID, -1); err != nil {
		s.Logger.Warn("failed to decrement pump capacity",
			zap.String("pump_id", req.PumpID), zap.Error(err))
	}

	tok, payload, err := s.Tokens.IssueToken(ctx, booking.ID, s.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("booking %s created but token issuance failed: %w", booking.ID, err)
	}

	if err := s.Reminders.ScheduleBookingReminders(ctx, booking); err != nil {
		s.Logger.Warn("failed to schedule reminders",
			zap.String("booking_id", booking.ID), zap.Error(err))
	}

	s.Logger.Info("booking created",
		zap.String("booking_id", booking.ID),
		zap.String("pump_id", req.PumpID),
		zap.String("slot", req.SlotDate+" "+req.SlotTime))

	return &CreateBookingResult{Booking: booking, Token: tok, Payload: payload}, nil
}

// validateSlot checks the date parses, the time is in the universe and the
// slot has not already started.
func (s *DefaultBookingService) validateSlot(date, slotTime string) error {
	start, err := time.Parse("2006-01-02 15:04", date+" "+slotTime)
	if err != nil {
		return ErrInvalidSlot
	}
	if !s.Allocator.InUniverse(slotTime) {
		return ErrInvalidSlot
	}
	if !start.After(s.now()) {
		return ErrInvalidSlot
	}
	return nil
}

func (s *DefaultBookingService) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *DefaultBookingService) GetByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	return s.Repo.GetByUser(ctx, userID)
}

func (s *DefaultBookingService) GetByPump(ctx context.Context, pumpID string) ([]models.Booking, error) {
	return s.Repo.GetByPump(ctx, pumpID)
}

func (s *DefaultBookingService) AvailableSlots(ctx context.Context, pumpID, date string) ([]models.TimeSlot, error) {
	return s.Allocator.ListAvailableSlots(ctx, pumpID, date)
}

// Confirm moves an active booking to confirmed.
func (s *DefaultBookingService) Confirm(ctx context.Context, id string) error {
	return s.transition(ctx, id, models.BookingStatusConfirmed)
}

// Complete marks the booking served. Requires the user to have answered
// "coming" to a reminder; the token redeem path enforces the same rule.
func (s *DefaultBookingService) Complete(ctx context.Context, id string) error {
	booking, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load booking %s: %w", id, err)
	}
	if booking.ConfirmationStatus != models.ConfirmationComing {
		return ErrNotConfirmed
	}
	return s.transition(ctx, id, models.BookingStatusCompleted)
}

// Cancel soft-cancels the booking and cascades: the token is invalidated,
// unanswered reminders are dropped and the pump's capacity is released. The
// record keeps its slot fields, but the live-slot index no longer counts it,
// so the slot is immediately re-bookable.
func (s *DefaultBookingService) Cancel(ctx context.Context, id string) error {
	if err := s.transition(ctx, id, models.BookingStatusCancelled); err != nil {
		return err
	}
	s.cascadeRelease(ctx, id)
	s.Logger.Info("booking cancelled", zap.String("booking_id", id))
	return nil
}

// Expire moves a no-show booking to expired with the same release cascade as
// cancellation.
func (s *DefaultBookingService) Expire(ctx context.Context, id string) error {
	if err := s.transition(ctx, id, models.BookingStatusExpired); err != nil {
		return err
	}
	s.cascadeRelease(ctx, id)
	s.Logger.Info("booking expired", zap.String("booking_id", id))
	return nil
}

// SetConfirmation records the user's coming / not coming answer.
func (s *DefaultBookingService) SetConfirmation(ctx context.Context, id, status string) error {
	if status != models.ConfirmationComing && status != models.ConfirmationNotComing {
		return fmt.Errorf("invalid confirmation status %q", status)
	}
	return s.Repo.SetConfirmationStatus(ctx, id, status)
}

// transition applies the state machine through a conditional update, so the
// validity check and the write are one storage operation.
func (s *DefaultBookingService) transition(ctx context.Context, id, to string) error {
	err := s.Repo.UpdateStatusIf(ctx, id, SourcesFor(to), to)
	if err == nil {
		monitoring.TrackBookingTransition(to)
		return nil
	}
	if !errors.Is(err, bookingRepo.ErrNoMatch) {
		return fmt.Errorf("failed to transition booking %s to %s: %w", id, to, err)
	}
	// Either the booking does not exist or its status is not a valid source.
	if _, gerr := s.Repo.GetByID(ctx, id); gerr != nil {
		return fmt.Errorf("booking %s not found: %w", id, gerr)
	}
	return ErrInvalidTransition
}

func (s *DefaultBookingService) cascadeRelease(ctx context.Context, id string) {
	booking, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		s.Logger.Warn("failed to reload booking for release cascade",
			zap.String("booking_id", id), zap.Error(err))
		return
	}
	if err := s.Tokens.ExpireForBooking(ctx, id); err != nil {
		s.Logger.Warn("failed to expire tokens",
			zap.String("booking_id", id), zap.Error(err))
	}
	if err := s.Reminders.CancelForBooking(ctx, id); err != nil {
		s.Logger.Warn("failed to drop pending reminders",
			zap.String("booking_id", id), zap.Error(err))
	}
	if err := s.Pumps.AdjustCapacity(ctx, booking.PumpID, 1); err != nil {
		s.Logger.Warn("failed to release pump capacity",
			zap.String("pump_id", booking.PumpID), zap.Error(err))
	}
}
