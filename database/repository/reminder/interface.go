// File: database/repository/reminder/interface.go
package reminderRepo

import (
	"context"

	"fuelq/database"
	"fuelq/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type ReminderRepository interface {
	Insert(ctx context.Context, reminder *models.Reminder) error
	GetByID(ctx context.Context, id string) (*models.Reminder, error)
	GetByBookingID(ctx context.Context, bookingID string) ([]models.Reminder, error)
	SetConfirmationStatus(ctx context.Context, id, status string) error
	// DeletePendingForBooking removes reminders that have not been responded
	// to; used by the cancellation cascade.
	DeletePendingForBooking(ctx context.Context, bookingID string) error
	EnsureIndexes() error
}

type mongoReminderRepo struct {
	coll *mongo.Collection
}

// NewMongoReminderRepo constructs a new MongoDB ReminderRepository.
func NewMongoReminderRepo() ReminderRepository {
	return &mongoReminderRepo{
		coll: database.Collection("reminders"),
	}
}
