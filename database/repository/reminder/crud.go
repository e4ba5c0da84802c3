// File: database/repository/reminder/crud.go
package reminderRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fuelq/models"
)

func (r *mongoReminderRepo) Insert(ctx context.Context, reminder *models.Reminder) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if reminder.ID == "" {
		reminder.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	reminder.CreatedAt = now
	reminder.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, reminder); err != nil {
		return fmt.Errorf("failed to insert reminder: %w", err)
	}
	return nil
}

func (r *mongoReminderRepo) GetByID(ctx context.Context, id string) (*models.Reminder, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var reminder models.Reminder
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&reminder); err != nil {
		return nil, err
	}
	return &reminder, nil
}

func (r *mongoReminderRepo) GetByBookingID(ctx context.Context, bookingID string) ([]models.Reminder, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "reminder_time", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"booking_id": bookingID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reminders []models.Reminder
	if err := cursor.All(ctx, &reminders); err != nil {
		return nil, err
	}
	return reminders, nil
}

func (r *mongoReminderRepo) SetConfirmationStatus(ctx context.Context, id, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{
		"$set": bson.M{
			"confirmation_status": status,
			"updated_at":          time.Now().UTC(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to update reminder confirmation: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoReminderRepo) DeletePendingForBooking(ctx context.Context, bookingID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.coll.DeleteMany(ctx, bson.M{
		"booking_id":          bookingID,
		"confirmation_status": models.ConfirmationPending,
	})
	if err != nil {
		return fmt.Errorf("failed to delete pending reminders for booking %s: %w", bookingID, err)
	}
	return nil
}
