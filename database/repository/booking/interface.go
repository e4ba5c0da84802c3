// File: database/repository/booking/interface.go
package bookingRepo

import (
	"context"
	"errors"
	"time"

	"fuelq/database"
	"fuelq/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrSlotTaken is returned when an insert loses the race for a slot: the
// partial unique index on (pump_id, slot_date, slot_time) over live bookings
// rejected the document.
var ErrSlotTaken = errors.New("slot already taken")

// ErrNoMatch is returned by conditional updates whose precondition did not hold.
var ErrNoMatch = errors.New("no document matched the update condition")

type BookingRepository interface {
	Insert(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	GetByUser(ctx context.Context, userID string) ([]models.Booking, error)
	GetByPump(ctx context.Context, pumpID string) ([]models.Booking, error)
	GetLiveByPumpAndDate(ctx context.Context, pumpID, date string) ([]models.Booking, error)
	// ListOverdueActive returns active bookings whose slot has already started.
	ListOverdueActive(ctx context.Context, before time.Time) ([]models.Booking, error)
	// UpdateStatusIf transitions booking_status to `to` only if the current
	// status is one of `from`. Returns ErrNoMatch when the precondition fails.
	UpdateStatusIf(ctx context.Context, id string, from []string, to string) error
	SetConfirmationStatus(ctx context.Context, id, status string) error
	SetPaymentStatus(ctx context.Context, id, status string) error
	EnsureIndexes() error
}

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a new MongoDB BookingRepository.
func NewMongoBookingRepo() BookingRepository {
	return &mongoBookingRepo{
		coll: database.Collection("bookings"),
	}
}
