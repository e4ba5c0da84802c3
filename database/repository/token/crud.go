// File: database/repository/token/crud.go
package tokenRepo

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

func (r *mongoTokenRepo) Insert(ctx context.Context, token *models.Token) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	token.CreatedAt = now
	token.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, token); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrValidTokenExists
		}
		return fmt.Errorf("failed to insert token: %w", err)
	}
	return nil
}

func (r *mongoTokenRepo) GetByID(ctx context.Context, id string) (*models.Token, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *mongoTokenRepo) GetByCode(ctx context.Context, code string) (*models.Token, error) {
	return r.findOne(ctx, bson.M{"token_code": code})
}

func (r *mongoTokenRepo) GetByBookingID(ctx context.Context, bookingID string) (*models.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Most recent token wins when a booking has been reissued.
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	var token models.Token
	if err := r.coll.FindOne(ctx, bson.M{"booking_id": bookingID}, opts).Decode(&token); err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *mongoTokenRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := r.coll.CountDocuments(ctx, bson.M{"token_code": code})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *mongoTokenRepo) findOne(ctx context.Context, filter bson.M) (*models.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var token models.Token
	if err := r.coll.FindOne(ctx, filter).Decode(&token); err != nil {
		return nil, err
	}
	return &token, nil
}

// MarkUsed is the single-use serialization point: the filter embeds the
// precondition (status still valid, expiry not passed), so the update applies
// at most once no matter how many redeems race on the same code.
func (r *mongoTokenRepo) MarkUsed(ctx context.Context, code string, now time.Time) (*models.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"token_code":  code,
		"status":      models.TokenStatusValid,
		"expiry_time": bson.M{"$gt": now},
	}
	update := bson.M{
		"$set": bson.M{
			"status":     models.TokenStatusUsed,
			"scan_time":  now,
			"updated_at": now,
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var token models.Token
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&token)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNoMatch
	}
	if err != nil {
		return nil, fmt.Errorf("failed to mark token used: %w", err)
	}
	return &token, nil
}

func (r *mongoTokenRepo) MarkExpired(ctx context.Context, code string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"token_code": code,
		"status":     models.TokenStatusValid,
	}
	update := bson.M{
		"$set": bson.M{
			"status":     models.TokenStatusExpired,
			"updated_at": time.Now().UTC(),
		},
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to mark token expired: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNoMatch
	}
	return nil
}

func (r *mongoTokenRepo) ExpireValidForBooking(ctx context.Context, bookingID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"booking_id": bookingID,
		"status":     models.TokenStatusValid,
	}
	update := bson.M{
		"$set": bson.M{
			"status":     models.TokenStatusExpired,
			"updated_at": time.Now().UTC(),
		},
	}

	if _, err := r.coll.UpdateMany(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to expire tokens for booking %s: %w", bookingID, err)
	}
	return nil
}

func (r *mongoTokenRepo) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"status":      models.TokenStatusValid,
		"expiry_time": bson.M{"$lte": now},
	}
	update := bson.M{
		"$set": bson.M{
			"status":     models.TokenStatusExpired,
			"updated_at": now,
		},
	}

	res, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep overdue tokens: %w", err)
	}
	return res.ModifiedCount, nil
}
