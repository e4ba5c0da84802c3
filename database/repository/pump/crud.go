// File: database/repository/pump/crud.go
package pumpRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fuelq/models"
)

// ErrCapacityBounds is returned when a capacity adjustment would push
// remaining_capacity outside [0, total_capacity].
var ErrCapacityBounds = errors.New("capacity adjustment out of bounds")

func (r *mongoPumpRepo) Create(ctx context.Context, pump *models.Pump) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if pump.ID == "" {
		pump.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	pump.CreatedAt = now
	pump.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, pump); err != nil {
		return fmt.Errorf("failed to insert pump: %w", err)
	}
	return nil
}

func (r *mongoPumpRepo) GetByID(ctx context.Context, id string) (*models.Pump, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var pump models.Pump
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&pump); err != nil {
		return nil, err
	}
	return &pump, nil
}

func (r *mongoPumpRepo) GetAll(ctx context.Context, skip, limit int64) ([]models.Pump, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSkip(skip)
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var pumps []models.Pump
	if err := cursor.All(ctx, &pumps); err != nil {
		return nil, err
	}
	return pumps, nil
}

func (r *mongoPumpRepo) GetByCity(ctx context.Context, city string) ([]models.Pump, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"city": city})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var pumps []models.Pump
	if err := cursor.All(ctx, &pumps); err != nil {
		return nil, err
	}
	return pumps, nil
}

func (r *mongoPumpRepo) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update pump: %w", err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoPumpRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// AdjustCapacity embeds the bounds check in the update filter so the
// invariant holds under concurrent adjustments.
func (r *mongoPumpRepo) AdjustCapacity(ctx context.Context, id string, delta int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id}
	if delta < 0 {
		filter["remaining_capacity"] = bson.M{"$gte": -delta}
	} else {
		filter["$expr"] = bson.M{"$lte": bson.A{
			bson.M{"$add": bson.A{"$remaining_capacity", delta}},
			"$total_capacity",
		}}
	}
	update := bson.M{
		"$inc": bson.M{"remaining_capacity": delta},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to adjust pump capacity: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrCapacityBounds
	}
	return nil
}
