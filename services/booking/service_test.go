package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	bookingRepo "fuelq/database/repository/booking"
	"fuelq/models"
	"fuelq/services/slot"
	"fuelq/services/token"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// memBookingRepo enforces the live-slot uniqueness rule the Mongo partial
// index provides in production.
type memBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: make(map[string]*models.Booking)}
}

func isLive(status string) bool {
	return status != models.BookingStatusCancelled && status != models.BookingStatusExpired
}

func (r *memBookingRepo) Insert(ctx context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.bookings {
		if existing.PumpID == b.PumpID && existing.SlotDate == b.SlotDate &&
			existing.SlotTime == b.SlotTime && isLive(existing.BookingStatus) {
			return bookingRepo.ErrSlotTaken
		}
	}
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *memBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *b
	return &cp, nil
}

func (r *memBookingRepo) GetByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) GetByPump(ctx context.Context, pumpID string) ([]models.Booking, error) {
	return nil, nil
}

func (r *memBookingRepo) GetLiveByPumpAndDate(ctx context.Context, pumpID, date string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.PumpID == pumpID && b.SlotDate == date && isLive(b.BookingStatus) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) ListOverdueActive(ctx context.Context, before time.Time) ([]models.Booking, error) {
	return nil, nil
}

func (r *memBookingRepo) UpdateStatusIf(ctx context.Context, id string, from []string, to string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return bookingRepo.ErrNoMatch
	}
	for _, f := range from {
		if b.BookingStatus == f {
			b.BookingStatus = to
			return nil
		}
	}
	return bookingRepo.ErrNoMatch
}

func (r *memBookingRepo) SetConfirmationStatus(ctx context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.bookings[id]; ok {
		b.ConfirmationStatus = status
	}
	return nil
}

func (r *memBookingRepo) SetPaymentStatus(ctx context.Context, id, status string) error {
	return nil
}

func (r *memBookingRepo) EnsureIndexes() error { return nil }

// memPumpRepo tracks capacity adjustments.
type memPumpRepo struct {
	mu    sync.Mutex
	pumps map[string]*models.Pump
}

func newMemPumpRepo() *memPumpRepo {
	return &memPumpRepo{pumps: make(map[string]*models.Pump)}
}

func (r *memPumpRepo) Create(ctx context.Context, p *models.Pump) error {
	r.mu.Lock()
	defer r.mu.Unlock()
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
	return nil, nil
}

func (r *memPumpRepo) GetByCity(ctx context.Context, city string) ([]models.Pump, error) {
	return nil, nil
}

func (r *memPumpRepo) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	return nil
}

func (r *memPumpRepo) Delete(ctx context.Context, id string) error { return nil }

func (r *memPumpRepo) AdjustCapacity(ctx context.Context, id string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.pumps[id]; ok {
		p.RemainingCapacity += delta
	}
	return nil
}

func (r *memPumpRepo) AssignAdmin(ctx context.Context, userID, pumpID string) (*models.PumpAdmin, error) {
	return nil, nil
}

func (r *memPumpRepo) GetAdmins(ctx context.Context, pumpID string) ([]models.PumpAdmin, error) {
	return nil, nil
}

func (r *memPumpRepo) GetPumpsForAdmin(ctx context.Context, userID string) ([]models.Pump, error) {
	return nil, nil
}

func (r *memPumpRepo) EnsureIndexes() error { return nil }

// stubTokenService records issuance and cascade calls.
type stubTokenService struct {
	mu      sync.Mutex
	issued  []string
	expired []string
}

func (s *stubTokenService) IssueToken(ctx context.Context, bookingID string, ttl time.Duration) (*models.Token, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued = append(s.issued, bookingID)
	tok := &models.Token{ID: "tok-" + bookingID, BookingID: bookingID, TokenCode: "CNG-TEST42", Status: models.TokenStatusValid}
	return tok, token.Payload(tok.TokenCode, bookingID), nil
}

func (s *stubTokenService) GetByBookingID(ctx context.Context, bookingID string) (*models.Token, error) {
	return nil, mongo.ErrNoDocuments
}

func (s *stubTokenService) Validate(ctx context.Context, code string) (token.ValidationResult, error) {
	return token.ValidationResult{}, nil
}

func (s *stubTokenService) RedeemAndComplete(ctx context.Context, code string, meta token.ScanMeta) (token.RedeemResult, error) {
	return token.RedeemResult{}, nil
}

func (s *stubTokenService) ListScans(ctx context.Context, pumpID string) ([]models.TokenScan, error) {
	return nil, nil
}

func (s *stubTokenService) ExpireForBooking(ctx context.Context, bookingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expired = append(s.expired, bookingID)
	return nil
}

// stubReminderService records scheduling and cascade calls.
type stubReminderService struct {
	mu        sync.Mutex
	scheduled []string
	cancelled []string
}

func (s *stubReminderService) ScheduleBookingReminders(ctx context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheduled = append(s.scheduled, b.ID)
	return nil
}

func (s *stubReminderService) Respond(ctx context.Context, reminderID, status string) error {
	return nil
}

func (s *stubReminderService) GetByBookingID(ctx context.Context, bookingID string) ([]models.Reminder, error) {
	return nil, nil
}

func (s *stubReminderService) CancelForBooking(ctx context.Context, bookingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelled = append(s.cancelled, bookingID)
	return nil
}

type testEnv struct {
	svc       *DefaultBookingService
	bookings  *memBookingRepo
	pumps     *memPumpRepo
	tokens    *stubTokenService
	reminders *stubReminderService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	bookings := newMemBookingRepo()
	pumps := newMemPumpRepo()
	tokens := &stubTokenService{}
	reminders := &stubReminderService{}

	require.NoError(t, pumps.Create(context.Background(), &models.Pump{
		ID: "p1", Name: "City CNG", City: "Pune",
		TotalCapacity: 10, RemainingCapacity: 10, IsOpen: true,
	}))

	svc := &DefaultBookingService{
		Repo:      bookings,
		Pumps:     pumps,
		Allocator: slot.NewAllocator(bookings, 6, 18, 60),
		Tokens:    tokens,
		Reminders: reminders,
		Clock:     fixedClock{now: time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)},
		Logger:    zap.NewNop(),
		UnitPrice: decimal.RequireFromString("75.50"),
		TokenTTL:  20 * time.Minute,
	}
	return &testEnv{svc: svc, bookings: bookings, pumps: pumps, tokens: tokens, reminders: reminders}
}

func validRequest() CreateBookingRequest {
	return CreateBookingRequest{
		UserID:       "u1",
		PumpID:       "p1",
		SlotDate:     "2026-09-01",
		SlotTime:     "10:00",
		FuelQuantity: 8,
	}
}

func TestCreateBooking(t *testing.T) {
	env := newTestEnv(t)

	res, err := env.svc.CreateBooking(context.Background(), validRequest())
	require.NoError(t, err)
	require.NotNil(t, res.Booking)
	require.NotNil(t, res.Token)

	assert.Equal(t, models.BookingStatusActive, res.Booking.BookingStatus)
	assert.Equal(t, models.ConfirmationPending, res.Booking.ConfirmationStatus)
	assert.Equal(t, models.PaymentStatusPending, res.Booking.PaymentStatus)
	assert.Equal(t, "604.00", res.Booking.Amount)
	assert.Equal(t, []string{res.Booking.ID}, env.tokens.issued)
	assert.Equal(t, []string{res.Booking.ID}, env.reminders.scheduled)

	p, err := env.pumps.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 9, p.RemainingCapacity)
}

func TestCreateBookingSlotTaken(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.CreateBooking(context.Background(), validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.UserID = "u2"
	_, err = env.svc.CreateBooking(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestCreateBookingCancelledSlotRebookable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.svc.CreateBooking(ctx, validRequest())
	require.NoError(t, err)
	require.NoError(t, env.svc.Cancel(ctx, res.Booking.ID))

	req := validRequest()
	req.UserID = "u2"
	_, err = env.svc.CreateBooking(ctx, req)
	assert.NoError(t, err)
}

func TestCreateBookingValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	req := validRequest()
	req.FuelQuantity = 0
	_, err := env.svc.CreateBooking(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	req = validRequest()
	req.FuelQuantity = 51
	_, err = env.svc.CreateBooking(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	req = validRequest()
	req.SlotTime = "10:30"
	_, err = env.svc.CreateBooking(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidSlot)

	req = validRequest()
	req.SlotTime = "07:00" // clock is at 08:00, slot already started
	_, err = env.svc.CreateBooking(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidSlot)

	req = validRequest()
	req.SlotDate = "bad-date"
	_, err = env.svc.CreateBooking(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidSlot)
}

func TestCreateBookingPumpClosed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.pumps.Create(ctx, &models.Pump{
		ID: "p2", Name: "Shut", City: "Pune", TotalCapacity: 5, IsOpen: false,
	}))

	req := validRequest()
	req.PumpID = "p2"
	_, err := env.svc.CreateBooking(ctx, req)
	assert.ErrorIs(t, err, ErrPumpClosed)
}

func TestConfirmThenComplete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.svc.CreateBooking(ctx, validRequest())
	require.NoError(t, err)
	id := res.Booking.ID

	require.NoError(t, env.svc.Confirm(ctx, id))

	// Not confirmed as coming yet.
	err = env.svc.Complete(ctx, id)
	assert.ErrorIs(t, err, ErrNotConfirmed)

	require.NoError(t, env.svc.SetConfirmation(ctx, id, models.ConfirmationComing))
	require.NoError(t, env.svc.Complete(ctx, id))

	b, err := env.bookings.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCompleted, b.BookingStatus)

	// Terminal: nothing moves out of completed.
	assert.ErrorIs(t, env.svc.Confirm(ctx, id), ErrInvalidTransition)
	assert.ErrorIs(t, env.svc.Cancel(ctx, id), ErrInvalidTransition)
}

func TestCancelCascade(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.svc.CreateBooking(ctx, validRequest())
	require.NoError(t, err)
	id := res.Booking.ID

	require.NoError(t, env.svc.Cancel(ctx, id))

	b, err := env.bookings.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, b.BookingStatus)
	assert.Equal(t, []string{id}, env.tokens.expired)
	assert.Equal(t, []string{id}, env.reminders.cancelled)

	p, err := env.pumps.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 10, p.RemainingCapacity)

	// Cancelling twice is rejected.
	assert.ErrorIs(t, env.svc.Cancel(ctx, id), ErrInvalidTransition)
}

func TestExpireCascade(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.svc.CreateBooking(ctx, validRequest())
	require.NoError(t, err)
	id := res.Booking.ID

	require.NoError(t, env.svc.Expire(ctx, id))

	b, err := env.bookings.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusExpired, b.BookingStatus)
	assert.Equal(t, []string{id}, env.tokens.expired)

	// Confirmed bookings do not expire.
	res2, err := env.svc.CreateBooking(ctx, CreateBookingRequest{
		UserID: "u2", PumpID: "p1", SlotDate: "2026-09-01", SlotTime: "11:00", FuelQuantity: 5,
	})
	require.NoError(t, err)
	require.NoError(t, env.svc.Confirm(ctx, res2.Booking.ID))
	assert.ErrorIs(t, env.svc.Expire(ctx, res2.Booking.ID), ErrInvalidTransition)
}

func TestSetConfirmationValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.svc.CreateBooking(ctx, validRequest())
	require.NoError(t, err)

	assert.Error(t, env.svc.SetConfirmation(ctx, res.Booking.ID, "maybe"))
	assert.NoError(t, env.svc.SetConfirmation(ctx, res.Booking.ID, models.ConfirmationNotComing))
}

func TestTransitionUnknownBooking(t *testing.T) {
	env := newTestEnv(t)

	err := env.svc.Confirm(context.Background(), "missing")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidTransition)
}

func TestAvailableSlotsShrinkWithBookings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	slots, err := env.svc.AvailableSlots(ctx, "p1", "2026-09-01")
	require.NoError(t, err)
	require.Len(t, slots, 12)

	_, err = env.svc.CreateBooking(ctx, validRequest())
	require.NoError(t, err)

	slots, err = env.svc.AvailableSlots(ctx, "p1", "2026-09-01")
	require.NoError(t, err)
	assert.Len(t, slots, 11)
}
