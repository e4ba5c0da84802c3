package reminder

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

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type memReminderRepo struct {
	mu        sync.Mutex
	reminders map[string]*models.Reminder
}

func newMemReminderRepo() *memReminderRepo {
	return &memReminderRepo{reminders: make(map[string]*models.Reminder)}
}

func (r *memReminderRepo) Insert(ctx context.Context, rem *models.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rem
	r.reminders[rem.ID] = &cp
	return nil
}

func (r *memReminderRepo) GetByID(ctx context.Context, id string) (*models.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rem, ok := r.reminders[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *rem
	return &cp, nil
}

func (r *memReminderRepo) GetByBookingID(ctx context.Context, bookingID string) ([]models.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Reminder
	for _, rem := range r.reminders {
		if rem.BookingID == bookingID {
			out = append(out, *rem)
		}
	}
	return out, nil
}

func (r *memReminderRepo) SetConfirmationStatus(ctx context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rem, ok := r.reminders[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	rem.ConfirmationStatus = status
	return nil
}

func (r *memReminderRepo) DeletePendingForBooking(ctx context.Context, bookingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, rem := range r.reminders {
		if rem.BookingID == bookingID && rem.ConfirmationStatus == models.ConfirmationPending {
			delete(r.reminders, id)
		}
	}
	return nil
}

func (r *memReminderRepo) EnsureIndexes() error { return nil }

type confirmationRecorder struct {
	mu     sync.Mutex
	status map[string]string
}

func (r *confirmationRecorder) Insert(ctx context.Context, b *models.Booking) error { return nil }
func (r *confirmationRecorder) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	return nil, mongo.ErrNoDocuments
}
func (r *confirmationRecorder) GetByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	return nil, nil
}
func (r *confirmationRecorder) GetByPump(ctx context.Context, pumpID string) ([]models.Booking, error) {
	return nil, nil
}
func (r *confirmationRecorder) GetLiveByPumpAndDate(ctx context.Context, pumpID, date string) ([]models.Booking, error) {
	return nil, nil
}
func (r *confirmationRecorder) ListOverdueActive(ctx context.Context, before time.Time) ([]models.Booking, error) {
	return nil, nil
}
func (r *confirmationRecorder) UpdateStatusIf(ctx context.Context, id string, from []string, to string) error {
	return nil
}
func (r *confirmationRecorder) SetConfirmationStatus(ctx context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status == nil {
		r.status = make(map[string]string)
	}
	r.status[id] = status
	return nil
}
func (r *confirmationRecorder) SetPaymentStatus(ctx context.Context, id, status string) error {
	return nil
}
func (r *confirmationRecorder) EnsureIndexes() error { return nil }

func TestReminderTimes(t *testing.T) {
	slotStart := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	times := ReminderTimes(slotStart)
	require.Len(t, times, 2)
	assert.Equal(t, slotStart.Add(-60*time.Minute), times[0])
	assert.Equal(t, slotStart.Add(-30*time.Minute), times[1])
}

func TestScheduleBookingReminders(t *testing.T) {
	repo := newMemReminderRepo()
	svc := &DefaultReminderService{
		Repo:     repo,
		Bookings: &confirmationRecorder{},
		Clock:    fixedClock{now: time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)},
		Logger:   zap.NewNop(),
	}

	b := &models.Booking{ID: "b1", UserID: "u1", SlotDate: "2026-09-01", SlotTime: "10:00"}
	require.NoError(t, svc.ScheduleBookingReminders(context.Background(), b))

	reminders, err := repo.GetByBookingID(context.Background(), "b1")
	require.NoError(t, err)
	require.Len(t, reminders, 2)
	for _, rem := range reminders {
		assert.Equal(t, models.ConfirmationPending, rem.ConfirmationStatus)
	}
}

func TestScheduleSkipsPastFireTimes(t *testing.T) {
	repo := newMemReminderRepo()
	svc := &DefaultReminderService{
		Repo:     repo,
		Bookings: &confirmationRecorder{},
		// 09:45: the 60-minute reminder is in the past, the 30-minute one is not.
		Clock:  fixedClock{now: time.Date(2026, 9, 1, 9, 45, 0, 0, time.UTC)},
		Logger: zap.NewNop(),
	}

	b := &models.Booking{ID: "b1", UserID: "u1", SlotDate: "2026-09-01", SlotTime: "10:30"}
	require.NoError(t, svc.ScheduleBookingReminders(context.Background(), b))

	reminders, err := repo.GetByBookingID(context.Background(), "b1")
	require.NoError(t, err)
	assert.Len(t, reminders, 1)
}

func TestScheduleBadSlot(t *testing.T) {
	svc := &DefaultReminderService{
		Repo:     newMemReminderRepo(),
		Bookings: &confirmationRecorder{},
		Clock:    fixedClock{now: time.Now().UTC()},
		Logger:   zap.NewNop(),
	}

	b := &models.Booking{ID: "b1", SlotDate: "2026-09-01", SlotTime: "25:99"}
	assert.Error(t, svc.ScheduleBookingReminders(context.Background(), b))
}

func TestRespond(t *testing.T) {
	repo := newMemReminderRepo()
	bookings := &confirmationRecorder{}
	svc := &DefaultReminderService{
		Repo:     repo,
		Bookings: bookings,
		Clock:    fixedClock{now: time.Now().UTC()},
		Logger:   zap.NewNop(),
	}
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, &models.Reminder{
		ID: "r1", BookingID: "b1", ConfirmationStatus: models.ConfirmationPending,
	}))

	require.NoError(t, svc.Respond(ctx, "r1", models.ConfirmationComing))

	rem, err := repo.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, models.ConfirmationComing, rem.ConfirmationStatus)
	assert.Equal(t, models.ConfirmationComing, bookings.status["b1"])

	// The answer mirrors onto the booking, whatever it is.
	require.NoError(t, svc.Respond(ctx, "r1", models.ConfirmationNotComing))
	assert.Equal(t, models.ConfirmationNotComing, bookings.status["b1"])

	assert.Error(t, svc.Respond(ctx, "r1", "maybe"))
	assert.Error(t, svc.Respond(ctx, "missing", models.ConfirmationComing))
}

func TestCancelForBookingDropsOnlyPending(t *testing.T) {
	repo := newMemReminderRepo()
	svc := &DefaultReminderService{
		Repo:     repo,
		Bookings: &confirmationRecorder{},
		Clock:    fixedClock{now: time.Now().UTC()},
		Logger:   zap.NewNop(),
	}
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, &models.Reminder{
		ID: "r1", BookingID: "b1", ConfirmationStatus: models.ConfirmationPending,
	}))
	require.NoError(t, repo.Insert(ctx, &models.Reminder{
		ID: "r2", BookingID: "b1", ConfirmationStatus: models.ConfirmationComing,
	}))

	require.NoError(t, svc.CancelForBooking(ctx, "b1"))

	reminders, err := repo.GetByBookingID(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, "r2", reminders[0].ID)
}
