package slot

import (
	"context"
	"fmt"
	"time"

	bookingRepo "fuelq/database/repository/booking"
	"fuelq/models"
)

// Allocator computes the bookable slot universe for a pump/date and answers
// availability queries against live bookings.
//
// The universe is derived, never persisted: the operating window is divided
// into fixed-width slots, and a slot is taken iff a non-cancelled,
// non-expired booking occupies its (pump_id, date, time) triple. The answers
// here are advisory; the bookings collection's unique index is what actually
// serializes concurrent inserts for the same slot.
type Allocator struct {
	Bookings  bookingRepo.BookingRepository
	OpenHour  int
	CloseHour int
	Width     time.Duration
}

// NewAllocator builds an Allocator with the given operating window and slot width.
func NewAllocator(repo bookingRepo.BookingRepository, openHour, closeHour, widthMinutes int) *Allocator {
	if widthMinutes <= 0 {
		widthMinutes = 60
	}
	return &Allocator{
		Bookings:  repo,
		OpenHour:  openHour,
		CloseHour: closeHour,
		Width:     time.Duration(widthMinutes) * time.Minute,
	}
}

// Universe returns every slot time ("15:04") the generation rule produces for
// one day. Deterministic: same configuration, same universe.
func (a *Allocator) Universe() []string {
	open := time.Duration(a.OpenHour) * time.Hour
	close := time.Duration(a.CloseHour) * time.Hour

	var slots []string
	for t := open; t+a.Width <= close; t += a.Width {
		slots = append(slots, fmt.Sprintf("%02d:%02d", int(t.Hours()), int(t.Minutes())%60))
	}
	return slots
}

// InUniverse reports whether slotTime is one of the generated slot times.
func (a *Allocator) InUniverse(slotTime string) bool {
	for _, s := range a.Universe() {
		if s == slotTime {
			return true
		}
	}
	return false
}

// ListAvailableSlots returns the universe minus slots held by live bookings.
// Slots whose only bookings are cancelled or expired are re-bookable.
func (a *Allocator) ListAvailableSlots(ctx context.Context, pumpID, date string) ([]models.TimeSlot, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	live, err := a.Bookings.GetLiveByPumpAndDate(ctx, pumpID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings for pump %s on %s: %w", pumpID, date, err)
	}

	taken := make(map[string]struct{}, len(live))
	for _, b := range live {
		taken[b.SlotTime] = struct{}{}
	}

	var available []models.TimeSlot
	for _, t := range a.Universe() {
		if _, ok := taken[t]; ok {
			continue
		}
		available = append(available, models.TimeSlot{PumpID: pumpID, Date: date, Time: t})
	}
	return available, nil
}

// IsSlotAvailable reports whether the given slot is in the universe and not
// held by a live booking. Callers must not treat a true result as a
// reservation; only the insert itself wins the slot.
func (a *Allocator) IsSlotAvailable(ctx context.Context, pumpID, date, slotTime string) (bool, error) {
	if !a.InUniverse(slotTime) {
		return false, nil
	}

	live, err := a.Bookings.GetLiveByPumpAndDate(ctx, pumpID, date)
	if err != nil {
		return false, err
	}
	for _, b := range live {
		if b.SlotTime == slotTime {
			return false, nil
		}
	}
	return true, nil
}
