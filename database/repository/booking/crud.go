// File: database/repository/booking/crud.go
package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"fuelq/models"
)

func (r *mongoBookingRepo) Insert(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, booking)
	if err != nil {
		// A duplicate key on the live-slot index means another request won the
		// slot; the caller surfaces this as SlotUnavailable, not a server fault.
		if mongo.IsDuplicateKeyError(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

func (r *mongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *mongoBookingRepo) UpdateStatusIf(ctx context.Context, id string, from []string, to string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":             id,
		"booking_status": bson.M{"$in": from},
	}
	update := bson.M{
		"$set": bson.M{
			"booking_status": to,
			"updated_at":     time.Now().UTC(),
		},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNoMatch
	}
	return nil
}

func (r *mongoBookingRepo) SetConfirmationStatus(ctx context.Context, id, status string) error {
	return r.setField(ctx, id, "confirmation_status", status)
}

func (r *mongoBookingRepo) SetPaymentStatus(ctx context.Context, id, status string) error {
	return r.setField(ctx, id, "payment_status", status)
}

func (r *mongoBookingRepo) setField(ctx context.Context, id, field, value string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{
		"$set": bson.M{field: value, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("failed to update booking %s: %w", field, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
