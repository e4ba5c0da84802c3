// File: database/repository/booking/queries.go
package bookingRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"fuelq/models"
)

func (r *mongoBookingRepo) GetByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *mongoBookingRepo) GetByPump(ctx context.Context, pumpID string) ([]models.Booking, error) {
	return r.find(ctx, bson.M{"pump_id": pumpID})
}

// GetLiveByPumpAndDate returns the bookings that occupy slots on the given
// date: everything except cancelled and expired ones.
func (r *mongoBookingRepo) GetLiveByPumpAndDate(ctx context.Context, pumpID, date string) ([]models.Booking, error) {
	return r.find(ctx, bson.M{
		"pump_id":   pumpID,
		"slot_date": date,
		"booking_status": bson.M{
			"$nin": []string{models.BookingStatusCancelled, models.BookingStatusExpired},
		},
	})
}

// ListOverdueActive returns active bookings whose slot start lies before the
// given instant. Both slot fields sort lexicographically in their formats, so
// plain string comparison is correct.
func (r *mongoBookingRepo) ListOverdueActive(ctx context.Context, before time.Time) ([]models.Booking, error) {
	date := before.Format("2006-01-02")
	clock := before.Format("15:04")
	return r.find(ctx, bson.M{
		"booking_status": models.BookingStatusActive,
		"$or": []bson.M{
			{"slot_date": bson.M{"$lt": date}},
			{"slot_date": date, "slot_time": bson.M{"$lt": clock}},
		},
	})
}

func (r *mongoBookingRepo) find(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}
