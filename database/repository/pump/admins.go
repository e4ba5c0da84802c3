// File: database/repository/pump/admins.go
package pumpRepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"fuelq/models"
)

func (r *mongoPumpRepo) AssignAdmin(ctx context.Context, userID, pumpID string) (*models.PumpAdmin, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Idempotent: return the existing assignment if present.
	var existing models.PumpAdmin
	err := r.adminColl.FindOne(ctx, bson.M{"user_id": userID, "pump_id": pumpID}).Decode(&existing)
	if err == nil {
		return &existing, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	assignment := models.PumpAdmin{
		ID:        uuid.New().String(),
		UserID:    userID,
		PumpID:    pumpID,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := r.adminColl.InsertOne(ctx, assignment); err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *mongoPumpRepo) GetAdmins(ctx context.Context, pumpID string) ([]models.PumpAdmin, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.adminColl.Find(ctx, bson.M{"pump_id": pumpID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var admins []models.PumpAdmin
	if err := cursor.All(ctx, &admins); err != nil {
		return nil, err
	}
	return admins, nil
}

func (r *mongoPumpRepo) GetPumpsForAdmin(ctx context.Context, userID string) ([]models.Pump, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.adminColl.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var assignments []models.PumpAdmin
	if err := cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		return nil, nil
	}

	ids := make([]string, len(assignments))
	for i, a := range assignments {
		ids[i] = a.PumpID
	}

	pumpCursor, err := r.coll.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer pumpCursor.Close(ctx)

	var pumps []models.Pump
	if err := pumpCursor.All(ctx, &pumps); err != nil {
		return nil, err
	}
	return pumps, nil
}
