// Package reminder schedules and resolves pre-slot reminders.
package reminder

import (
	"context"
	"fmt"
	"time"

	bookingRepo "fuelq/database/repository/booking"
	reminderRepo "fuelq/database/repository/reminder"
	"fuelq/models"
	"fuelq/monitoring"
	"fuelq/services/tasks"
	"fuelq/utils"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Offsets before the slot start at which reminders fire.
var reminderOffsets = []time.Duration{60 * time.Minute, 30 * time.Minute}

// ReminderTimes returns the fire times for a slot start, earliest first.
func ReminderTimes(slotStart time.Time) []time.Time {
	times := make([]time.Time, 0, len(reminderOffsets))
	for _, off := range reminderOffsets {
		times = append(times, slotStart.Add(-off))
	}
	return times
}

type ReminderService interface {
	// ScheduleBookingReminders creates reminder records for the booking and
	// enqueues delayed delivery tasks. Fire times already in the past are
	// skipped (late bookings close to the slot).
	ScheduleBookingReminders(ctx context.Context, booking *models.Booking) error
	// Respond records the user's answer to a reminder and mirrors it onto the
	// booking's confirmation status.
	Respond(ctx context.Context, reminderID, status string) error
	GetByBookingID(ctx context.Context, bookingID string) ([]models.Reminder, error)
	// CancelForBooking drops unanswered reminders of a booking.
	CancelForBooking(ctx context.Context, bookingID string) error
}

// DefaultReminderService is the production implementation.
type DefaultReminderService struct {
	Repo     reminderRepo.ReminderRepository
	Bookings bookingRepo.BookingRepository
	Queue    *asynq.Client
	Clock    utils.Clock
	Logger   *zap.Logger
}

func (s *DefaultReminderService) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now()
	}
	return time.Now().UTC()
}

func (s *DefaultReminderService) ScheduleBookingReminders(ctx context.Context, booking *models.Booking) error {
	slotStart, err := booking.SlotStart()
	if err != nil {
		return fmt.Errorf("booking %s has an unparseable slot: %w", booking.ID, err)
	}

	now := s.now()
	for _, fireAt := range ReminderTimes(slotStart) {
		if !fireAt.After(now) {
			continue
		}

		rem := &models.Reminder{
			ID:                 uuid.New().String(),
			BookingID:          booking.ID,
			ReminderTime:       fireAt,
			ConfirmationStatus: models.ConfirmationPending,
		}
		if err := s.Repo.Insert(ctx, rem); err != nil {
			return fmt.Errorf("failed to insert reminder for booking %s: %w", booking.ID, err)
		}

		payload := models.ReminderPayload{
			ReminderID: rem.ID,
			BookingID:  booking.ID,
			UserID:     booking.UserID,
			FireDate:   fireAt.Format(time.RFC3339),
			Title:      "Upcoming CNG slot",
			Body:       fmt.Sprintf("Your slot at %s on %s is coming up. Are you coming?", booking.SlotTime, booking.SlotDate),
		}
		task, opts, err := tasks.NewReminderTask(payload, fireAt)
		if err != nil {
			return fmt.Errorf("failed to build reminder task: %w", err)
		}
		if s.Queue != nil {
			if _, err := s.Queue.Enqueue(task, opts...); err != nil {
				return fmt.Errorf("failed to enqueue reminder for booking %s: %w", booking.ID, err)
			}
		}

		monitoring.TrackReminderScheduled()
		s.Logger.Info("reminder scheduled",
			zap.String("booking_id", booking.ID),
			zap.String("reminder_id", rem.ID),
			zap.Time("fire_at", fireAt))
	}
	return nil
}

func (s *DefaultReminderService) Respond(ctx context.Context, reminderID, status string) error {
	if status != models.ConfirmationComing && status != models.ConfirmationNotComing {
		return fmt.Errorf("invalid confirmation status %q", status)
	}

	rem, err := s.Repo.GetByID(ctx, reminderID)
	if err != nil {
		return fmt.Errorf("failed to load reminder %s: %w", reminderID, err)
	}

	if err := s.Repo.SetConfirmationStatus(ctx, reminderID, status); err != nil {
		return fmt.Errorf("failed to update reminder %s: %w", reminderID, err)
	}
	if err := s.Bookings.SetConfirmationStatus(ctx, rem.BookingID, status); err != nil {
		return fmt.Errorf("failed to update booking %s confirmation: %w", rem.BookingID, err)
	}

	s.Logger.Info("reminder response recorded",
		zap.String("reminder_id", reminderID),
		zap.String("booking_id", rem.BookingID),
		zap.String("status", status))
	return nil
}

func (s *DefaultReminderService) GetByBookingID(ctx context.Context, bookingID string) ([]models.Reminder, error) {
	return s.Repo.GetByBookingID(ctx, bookingID)
}

func (s *DefaultReminderService) CancelForBooking(ctx context.Context, bookingID string) error {
	return s.Repo.DeletePendingForBooking(ctx, bookingID)
}
