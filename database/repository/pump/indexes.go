// FILE: database/repository/pump/indexes.go
package pumpRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the pumps and pump_admins collections.
func (r *mongoPumpRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pumpIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "city", Value: 1}},
			Options: options.Index().SetName("city_idx"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, pumpIndexes); err != nil {
		return fmt.Errorf("failed to create pump indexes: %w", err)
	}

	adminIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "pump_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_user_pump"),
		},
	}
	if _, err := r.adminColl.Indexes().CreateMany(ctx, adminIndexes); err != nil {
		return fmt.Errorf("failed to create pump admin indexes: %w", err)
	}
	return nil
}
