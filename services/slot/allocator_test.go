package slot

import (
	"context"
	"sync"
	"testing"
	"time"

	"fuelq/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

type stubBookingRepo struct {
	mu       sync.Mutex
	bookings []models.Booking
}

func (r *stubBookingRepo) Insert(ctx context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings = append(r.bookings, *b)
	return nil
}

func (r *stubBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	return nil, mongo.ErrNoDocuments
}

func (r *stubBookingRepo) GetByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	return nil, nil
}

func (r *stubBookingRepo) GetByPump(ctx context.Context, pumpID string) ([]models.Booking, error) {
	return nil, nil
}

func (r *stubBookingRepo) GetLiveByPumpAndDate(ctx context.Context, pumpID, date string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.PumpID != pumpID || b.SlotDate != date {
			continue
		}
		if b.BookingStatus == models.BookingStatusCancelled || b.BookingStatus == models.BookingStatusExpired {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *stubBookingRepo) ListOverdueActive(ctx context.Context, before time.Time) ([]models.Booking, error) {
	return nil, nil
}

func (r *stubBookingRepo) UpdateStatusIf(ctx context.Context, id string, from []string, to string) error {
	return nil
}

func (r *stubBookingRepo) SetConfirmationStatus(ctx context.Context, id, status string) error {
	return nil
}

func (r *stubBookingRepo) SetPaymentStatus(ctx context.Context, id, status string) error {
	return nil
}

func (r *stubBookingRepo) EnsureIndexes() error { return nil }

func TestUniverseHourly(t *testing.T) {
	a := NewAllocator(&stubBookingRepo{}, 6, 18, 60)

	u := a.Universe()
	require.Len(t, u, 12)
	assert.Equal(t, "06:00", u[0])
	assert.Equal(t, "17:00", u[len(u)-1])
}

func TestUniverseHalfHour(t *testing.T) {
	a := NewAllocator(&stubBookingRepo{}, 9, 11, 30)

	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30"}, a.Universe())
}

func TestUniverseDeterministic(t *testing.T) {
	a := NewAllocator(&stubBookingRepo{}, 6, 18, 60)
	assert.Equal(t, a.Universe(), a.Universe())
}

func TestInUniverse(t *testing.T) {
	a := NewAllocator(&stubBookingRepo{}, 6, 18, 60)

	assert.True(t, a.InUniverse("06:00"))
	assert.True(t, a.InUniverse("17:00"))
	assert.False(t, a.InUniverse("18:00"))
	assert.False(t, a.InUniverse("06:30"))
	assert.False(t, a.InUniverse("6:00"))
}

func TestListAvailableSlotsExcludesLive(t *testing.T) {
	repo := &stubBookingRepo{}
	a := NewAllocator(repo, 6, 18, 60)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, &models.Booking{
		ID: "b1", PumpID: "p1", SlotDate: "2026-09-01", SlotTime: "10:00",
		BookingStatus: models.BookingStatusActive,
	}))
	require.NoError(t, repo.Insert(ctx, &models.Booking{
		ID: "b2", PumpID: "p1", SlotDate: "2026-09-01", SlotTime: "11:00",
		BookingStatus: models.BookingStatusConfirmed,
	}))

	slots, err := a.ListAvailableSlots(ctx, "p1", "2026-09-01")
	require.NoError(t, err)
	require.Len(t, slots, 10)
	for _, s := range slots {
		assert.NotEqual(t, "10:00", s.Time)
		assert.NotEqual(t, "11:00", s.Time)
		assert.Equal(t, "p1", s.PumpID)
		assert.Equal(t, "2026-09-01", s.Date)
	}
}

func TestCancelledSlotIsRebookable(t *testing.T) {
	repo := &stubBookingRepo{}
	a := NewAllocator(repo, 6, 18, 60)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, &models.Booking{
		ID: "b1", PumpID: "p1", SlotDate: "2026-09-01", SlotTime: "10:00",
		BookingStatus: models.BookingStatusCancelled,
	}))
	require.NoError(t, repo.Insert(ctx, &models.Booking{
		ID: "b2", PumpID: "p1", SlotDate: "2026-09-01", SlotTime: "11:00",
		BookingStatus: models.BookingStatusExpired,
	}))

	ok, err := a.IsSlotAvailable(ctx, "p1", "2026-09-01", "10:00")
	require.NoError(t, err)
	assert.True(t, ok)

	slots, err := a.ListAvailableSlots(ctx, "p1", "2026-09-01")
	require.NoError(t, err)
	assert.Len(t, slots, 12)
}

func TestIsSlotAvailable(t *testing.T) {
	repo := &stubBookingRepo{}
	a := NewAllocator(repo, 6, 18, 60)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, &models.Booking{
		ID: "b1", PumpID: "p1", SlotDate: "2026-09-01", SlotTime: "10:00",
		BookingStatus: models.BookingStatusCompleted,
	}))

	ok, err := a.IsSlotAvailable(ctx, "p1", "2026-09-01", "10:00")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = a.IsSlotAvailable(ctx, "p1", "2026-09-01", "12:00")
	require.NoError(t, err)
	assert.True(t, ok)

	// Outside the universe is never available.
	ok, err = a.IsSlotAvailable(ctx, "p1", "2026-09-01", "05:00")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListAvailableSlotsBadDate(t *testing.T) {
	a := NewAllocator(&stubBookingRepo{}, 6, 18, 60)

	_, err := a.ListAvailableSlots(context.Background(), "p1", "01-09-2026")
	assert.Error(t, err)
}
