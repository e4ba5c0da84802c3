// File: database/repository/token/scans.go
package tokenRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fuelq/models"
)

func (r *mongoTokenRepo) InsertScan(ctx context.Context, scan *models.TokenScan) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if scan.ID == "" {
		scan.ID = uuid.New().String()
	}
	if scan.ScanTime.IsZero() {
		scan.ScanTime = time.Now().UTC()
	}

	if _, err := r.scanColl.InsertOne(ctx, scan); err != nil {
		return fmt.Errorf("failed to insert token scan record: %w", err)
	}
	return nil
}

func (r *mongoTokenRepo) ListScansByPump(ctx context.Context, pumpID string) ([]models.TokenScan, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "scan_time", Value: -1}})
	cursor, err := r.scanColl.Find(ctx, bson.M{"pump_id": pumpID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var scans []models.TokenScan
	if err := cursor.All(ctx, &scans); err != nil {
		return nil, err
	}
	return scans, nil
}
