package models

import "time"

// Booking lifecycle states. Transitions are one-way; nothing returns to active.
const (
	BookingStatusActive    = "active"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
	BookingStatusExpired   = "expired"
)

// Payment states for a booking.
const (
	PaymentStatusPending = "pending"
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"
)

// Pre-arrival confirmation states. Redemption requires "coming".
const (
	ConfirmationPending   = "pending"
	ConfirmationComing    = "coming"
	ConfirmationNotComing = "not_coming"
)

// Booking represents a reservation of a single pump slot.
// At most one non-cancelled booking may exist per (pump_id, slot_date, slot_time);
// the booking collection's partial unique index enforces this.
type Booking struct {
	ID                 string    `bson:"id" json:"id"`
	UserID             string    `bson:"user_id" json:"user_id"`
	PumpID             string    `bson:"pump_id" json:"pump_id"`
	SlotDate           string    `bson:"slot_date" json:"slot_date"` // "2006-01-02"
	SlotTime           string    `bson:"slot_time" json:"slot_time"` // "15:04"
	FuelQuantity       float64   `bson:"fuel_quantity" json:"fuel_quantity"`
	Amount             string    `bson:"amount" json:"amount"` // decimal string, > 0
	PaymentStatus      string    `bson:"payment_status" json:"payment_status"`
	BookingStatus      string    `bson:"booking_status" json:"booking_status"`
	ConfirmationStatus string    `bson:"confirmation_status" json:"confirmation_status"`
	CreatedAt          time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time `bson:"updated_at" json:"updated_at"`
}

// SlotStart resolves the booking's slot date and time into a wall-clock instant (UTC).
func (b *Booking) SlotStart() (time.Time, error) {
	return time.Parse("2006-01-02 15:04", b.SlotDate+" "+b.SlotTime)
}

// TimeSlot is a derived (not persisted) bookable unit.
type TimeSlot struct {
	PumpID string `json:"pump_id"`
	Date   string `json:"date"`
	Time   string `json:"time"`
}
