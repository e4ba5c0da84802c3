// FILE: database/repository/token/indexes.go
package tokenRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fuelq/models"
)

// EnsureIndexes creates the necessary indexes on the tokens and token_scans
// collections. token_code uniqueness backs the bounded-retry code generator.
//
// The partial unique index on booking_id over valid tokens is the
// serialization point for reissues: concurrent issuers for the same booking
// are resolved by the storage layer, mirroring the live-slot index on
// bookings. Used and expired tokens fall outside the filter, so history is
// kept.
func (r *mongoTokenRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tokenIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "token_code", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_token_code"),
		},
		{
			Keys: bson.D{{Key: "booking_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("unique_valid_token").
				SetPartialFilterExpression(bson.M{
					"status": models.TokenStatusValid,
				}),
		},
		{
			Keys:    bson.D{{Key: "booking_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("booking_created_idx"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "expiry_time", Value: 1}},
			Options: options.Index().SetName("status_expiry_idx"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, tokenIndexes); err != nil {
		return fmt.Errorf("failed to create token indexes: %w", err)
	}

	scanIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "pump_id", Value: 1}, {Key: "scan_time", Value: -1}},
			Options: options.Index().SetName("pump_scan_time_idx"),
		},
		{
			Keys:    bson.D{{Key: "token_code", Value: 1}},
			Options: options.Index().SetName("scan_token_code_idx"),
		},
	}
	if _, err := r.scanColl.Indexes().CreateMany(ctx, scanIndexes); err != nil {
		return fmt.Errorf("failed to create token scan indexes: %w", err)
	}
	return nil
}
