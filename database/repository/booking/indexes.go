// FILE: database/repository/booking/indexes.go
package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fuelq/models"
)

// EnsureIndexes creates the necessary indexes on the bookings collection.
//
// The partial unique index on (pump_id, slot_date, slot_time) is the
// serialization point for slot allocation: concurrent inserts for the same
// slot are resolved by the storage layer, never by a client-side check.
// Cancelled and expired bookings fall outside the partial filter, so their
// slots become bookable again without deleting history.
func (r *mongoBookingRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys: bson.D{
				{Key: "pump_id", Value: 1},
				{Key: "slot_date", Value: 1},
				{Key: "slot_time", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetName("unique_live_slot").
				SetPartialFilterExpression(bson.M{
					"booking_status": bson.M{"$in": []string{
						models.BookingStatusActive,
						models.BookingStatusConfirmed,
						models.BookingStatusCompleted,
					}},
				}),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("user_idx"),
		},
		{
			Keys:    bson.D{{Key: "pump_id", Value: 1}, {Key: "slot_date", Value: 1}},
			Options: options.Index().SetName("pump_date_idx"),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}
