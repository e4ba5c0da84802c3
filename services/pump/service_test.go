package pump

import (
	"context"
	"sync"
	"testing"
	"time"

	"fuelq/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type memPumpRepo struct {
	mu     sync.Mutex
	pumps  map[string]*models.Pump
	admins []models.PumpAdmin
}

func newMemPumpRepo() *memPumpRepo {
	return &memPumpRepo{pumps: make(map[string]*models.Pump)}
}

func (r *memPumpRepo) Create(ctx context.Context, p *models.Pump) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == "" {
		p.ID = "pump-" + time.Now().Format("150405.000000000")
	}
	cp := *p
	r.pumps[p.ID] = &cp
	return nil
}

func (r *memPumpRepo) GetByID(ctx context.Context, id string) (*models.Pump, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pumps[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *p
	return &cp, nil
}

func (r *memPumpRepo) GetAll(ctx context.Context, skip, limit int64) ([]models.Pump, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Pump
	for _, p := range r.pumps {
		out = append(out, *p)
	}
	return out, nil
}

func (r *memPumpRepo) GetByCity(ctx context.Context, city string) ([]models.Pump, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Pump
	for _, p := range r.pumps {
		if p.City == city {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memPumpRepo) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pumps[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if v, ok := fields["is_open"]; ok {
		p.IsOpen = v.(bool)
	}
	return nil
}

func (r *memPumpRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pumps, id)
	return nil
}

func (r *memPumpRepo) AdjustCapacity(ctx context.Context, id string, delta int) error {
	return nil
}

func (r *memPumpRepo) AssignAdmin(ctx context.Context, userID, pumpID string) (*models.PumpAdmin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if a.UserID == userID && a.PumpID == pumpID {
			cp := a
			return &cp, nil
		}
	}
	a := models.PumpAdmin{ID: "pa-" + userID, UserID: userID, PumpID: pumpID}
	r.admins = append(r.admins, a)
	return &a, nil
}

func (r *memPumpRepo) GetAdmins(ctx context.Context, pumpID string) ([]models.PumpAdmin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.PumpAdmin
	for _, a := range r.admins {
		if a.PumpID == pumpID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memPumpRepo) GetPumpsForAdmin(ctx context.Context, userID string) ([]models.Pump, error) {
	return nil, nil
}

func (r *memPumpRepo) EnsureIndexes() error { return nil }

func newService(repo *memPumpRepo) *DefaultPumpService {
	return &DefaultPumpService{Repo: repo, Logger: zap.NewNop()}
}

func TestRegisterValidation(t *testing.T) {
	svc := newService(newMemPumpRepo())
	ctx := context.Background()

	assert.Error(t, svc.Register(ctx, &models.Pump{Name: "", City: "Pune", TotalCapacity: 5}))
	assert.Error(t, svc.Register(ctx, &models.Pump{Name: "X", City: "Pune", TotalCapacity: 0}))

	p := &models.Pump{Name: "X", City: "Pune", TotalCapacity: 5}
	require.NoError(t, svc.Register(ctx, p))
	assert.Equal(t, 5, p.RemainingCapacity)
}

func TestHaversine(t *testing.T) {
	// Mumbai to Pune is roughly 120 km as the crow flies.
	d := haversineKm(19.0760, 72.8777, 18.5204, 73.8567)
	assert.InDelta(t, 120, d, 10)

	assert.InDelta(t, 0, haversineKm(18.5, 73.8, 18.5, 73.8), 1e-9)
}

func TestNearbyFiltersAndSorts(t *testing.T) {
	repo := newMemPumpRepo()
	svc := newService(repo)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Pump{
		ID: "near", Name: "Near", City: "Pune", TotalCapacity: 5,
		Latitude: 18.5210, Longitude: 73.8570, IsOpen: true,
	}))
	require.NoError(t, repo.Create(ctx, &models.Pump{
		ID: "far", Name: "Far", City: "Pune", TotalCapacity: 5,
		Latitude: 18.6000, Longitude: 73.9500, IsOpen: true,
	}))
	require.NoError(t, repo.Create(ctx, &models.Pump{
		ID: "closed", Name: "Closed", City: "Pune", TotalCapacity: 5,
		Latitude: 18.5205, Longitude: 73.8568, IsOpen: false,
	}))
	require.NoError(t, repo.Create(ctx, &models.Pump{
		ID: "mumbai", Name: "Mumbai", City: "Mumbai", TotalCapacity: 5,
		Latitude: 19.0760, Longitude: 72.8777, IsOpen: true,
	}))

	out, err := svc.Nearby(ctx, 18.5204, 73.8567, 20)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "near", out[0].ID)
	assert.Equal(t, "far", out[1].ID)
	assert.Less(t, out[0].Distance, out[1].Distance)
}

func TestIsAdminOf(t *testing.T) {
	repo := newMemPumpRepo()
	svc := newService(repo)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Pump{
		ID: "p1", Name: "X", City: "Pune", TotalCapacity: 5,
	}))

	_, err := svc.AssignAdmin(ctx, "u1", "p1")
	require.NoError(t, err)

	ok, err := svc.IsAdminOf(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsAdminOf(ctx, "u2", "p1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAssignAdminUnknownPump(t *testing.T) {
	svc := newService(newMemPumpRepo())

	_, err := svc.AssignAdmin(context.Background(), "u1", "missing")
	assert.ErrorIs(t, err, ErrPumpNotFound)
}
