// File: database/repository/pump/interface.go
package pumpRepo

import (
	"context"

	"fuelq/database"
	"fuelq/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type PumpRepository interface {
	Create(ctx context.Context, pump *models.Pump) error
	GetByID(ctx context.Context, id string) (*models.Pump, error)
	GetAll(ctx context.Context, skip, limit int64) ([]models.Pump, error)
	GetByCity(ctx context.Context, city string) ([]models.Pump, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	// AdjustCapacity applies a guarded increment so remaining_capacity can
	// never leave [0, total_capacity].
	AdjustCapacity(ctx context.Context, id string, delta int) error
	AssignAdmin(ctx context.Context, userID, pumpID string) (*models.PumpAdmin, error)
	GetAdmins(ctx context.Context, pumpID string) ([]models.PumpAdmin, error)
	GetPumpsForAdmin(ctx context.Context, userID string) ([]models.Pump, error)
	EnsureIndexes() error
}

type mongoPumpRepo struct {
	coll      *mongo.Collection
	adminColl *mongo.Collection
}

// NewMongoPumpRepo constructs a new MongoDB PumpRepository.
func NewMongoPumpRepo() PumpRepository {
	return &mongoPumpRepo{
		coll:      database.Collection("pumps"),
		adminColl: database.Collection("pump_admins"),
	}
}
