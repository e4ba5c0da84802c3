package models

import "time"

// Reminder is a scheduled pre-slot notification for a booking.
type Reminder struct {
	ID                 string    `bson:"id" json:"id"`
	BookingID          string    `bson:"booking_id" json:"booking_id"`
	ReminderTime       time.Time `bson:"reminder_time" json:"reminder_time"`
	ConfirmationStatus string    `bson:"confirmation_status" json:"confirmation_status"` // pending, coming, not_coming
	CreatedAt          time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time `bson:"updated_at" json:"updated_at"`
}

// ReminderPayload is the asynq task payload for a scheduled reminder.
type ReminderPayload struct {
	ReminderID string `json:"reminderId"`
	BookingID  string `json:"bookingId"`
	UserID     string `json:"userId"`
	FireDate   string `json:"fireDate"`
	Title      string `json:"title"`
	Body       string `json:"body"`
}
