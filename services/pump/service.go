// Package pump manages station records, capacity and admin assignment.
package pump

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	pumpRepo "fuelq/database/repository/pump"
	"fuelq/models"
	"fuelq/utils"

	"go.uber.org/zap"
)

const (
	nearbyCacheTTL = 60 * time.Second
	earthRadiusKm  = 6371.0
)

var ErrPumpNotFound = errors.New("pump not found")

type PumpService interface {
	Register(ctx context.Context, pump *models.Pump) error
	GetByID(ctx context.Context, id string) (*models.Pump, error)
	List(ctx context.Context, skip, limit int64) ([]models.Pump, error)
	ListByCity(ctx context.Context, city string) ([]models.Pump, error)
	// Nearby returns open pumps within radiusKm of the point, nearest first.
	Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]models.PumpWithDistance, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	SetOpen(ctx context.Context, id string, open bool) error
	Delete(ctx context.Context, id string) error
	AssignAdmin(ctx context.Context, userID, pumpID string) (*models.PumpAdmin, error)
	GetAdmins(ctx context.Context, pumpID string) ([]models.PumpAdmin, error)
	PumpsForAdmin(ctx context.Context, userID string) ([]models.Pump, error)
	// IsAdminOf reports whether the user administers the pump.
	IsAdminOf(ctx context.Context, userID, pumpID string) (bool, error)
}

// DefaultPumpService is the production implementation.
type DefaultPumpService struct {
	Repo   pumpRepo.PumpRepository
	Logger *zap.Logger
}

func (s *DefaultPumpService) Register(ctx context.Context, pump *models.Pump) error {
	if pump.Name == "" || pump.City == "" {
		return fmt.Errorf("pump name and city are required")
	}
	if pump.TotalCapacity <= 0 {
		return fmt.Errorf("total capacity must be positive")
	}
	pump.RemainingCapacity = pump.TotalCapacity
	if err := s.Repo.Create(ctx, pump); err != nil {
		return fmt.Errorf("failed to register pump: %w", err)
	}
	s.Logger.Info("pump registered", zap.String("pump_id", pump.ID), zap.String("city", pump.City))
	return nil
}

func (s *DefaultPumpService) GetByID(ctx context.Context, id string) (*models.Pump, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *DefaultPumpService) List(ctx context.Context, skip, limit int64) ([]models.Pump, error) {
	return s.Repo.GetAll(ctx, skip, limit)
}

func (s *DefaultPumpService) ListByCity(ctx context.Context, city string) ([]models.Pump, error) {
	return s.Repo.GetByCity(ctx, city)
}

// Nearby computes great-circle distances in-process over all pumps. The fleet
// is small enough (hundreds of stations) that a geo index would be overkill.
// Results are cached briefly since map screens poll this endpoint.
func (s *DefaultPumpService) Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]models.PumpWithDistance, error) {
	cacheKey := fmt.Sprintf("pumps:nearby:%.3f:%.3f:%.1f", lat, lng, radiusKm)
	if cached := s.readNearbyCache(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	pumps, err := s.Repo.GetAll(ctx, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load pumps: %w", err)
	}

	var out []models.PumpWithDistance
	for _, p := range pumps {
		if !p.IsOpen {
			continue
		}
		d := haversineKm(lat, lng, p.Latitude, p.Longitude)
		if d <= radiusKm {
			out = append(out, models.PumpWithDistance{Pump: p, Distance: d})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })

	s.writeNearbyCache(ctx, cacheKey, out)
	return out, nil
}

func (s *DefaultPumpService) readNearbyCache(ctx context.Context, key string) []models.PumpWithDistance {
	client := utils.GetCacheClient()
	if client == nil {
		return nil
	}
	raw, err := client.Get(ctx, key).Result()
	if err != nil {
		return nil
	}
	var out []models.PumpWithDistance
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

func (s *DefaultPumpService) writeNearbyCache(ctx context.Context, key string, pumps []models.PumpWithDistance) {
	client := utils.GetCacheClient()
	if client == nil {
		return
	}
	raw, err := json.Marshal(pumps)
	if err != nil {
		return
	}
	if err := client.Set(ctx, key, raw, nearbyCacheTTL).Err(); err != nil {
		s.Logger.Warn("failed to cache nearby pumps", zap.String("key", key), zap.Error(err))
	}
}

func (s *DefaultPumpService) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	return s.Repo.Update(ctx, id, fields)
}

func (s *DefaultPumpService) SetOpen(ctx context.Context, id string, open bool) error {
	return s.Repo.Update(ctx, id, map[string]interface{}{"is_open": open})
}

func (s *DefaultPumpService) Delete(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}

func (s *DefaultPumpService) AssignAdmin(ctx context.Context, userID, pumpID string) (*models.PumpAdmin, error) {
	if _, err := s.Repo.GetByID(ctx, pumpID); err != nil {
		return nil, ErrPumpNotFound
	}
	return s.Repo.AssignAdmin(ctx, userID, pumpID)
}

func (s *DefaultPumpService) GetAdmins(ctx context.Context, pumpID string) ([]models.PumpAdmin, error) {
	return s.Repo.GetAdmins(ctx, pumpID)
}

func (s *DefaultPumpService) PumpsForAdmin(ctx context.Context, userID string) ([]models.Pump, error) {
	return s.Repo.GetPumpsForAdmin(ctx, userID)
}

func (s *DefaultPumpService) IsAdminOf(ctx context.Context, userID, pumpID string) (bool, error) {
	admins, err := s.Repo.GetAdmins(ctx, pumpID)
	if err != nil {
		return false, err
	}
	for _, a := range admins {
		if a.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

// haversineKm returns the great-circle distance between two points.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
