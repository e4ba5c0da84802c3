package models

import "time"

// Payment records a payment attempt against a booking.
type Payment struct {
	ID            string    `bson:"id" json:"id"`
	BookingID     string    `bson:"booking_id" json:"booking_id"`
	Amount        string    `bson:"amount" json:"amount"` // decimal string
	Mode          string    `bson:"mode,omitempty" json:"mode,omitempty"` // UPI, card, wallet
	Status        string    `bson:"status" json:"status"`                 // success, failed
	TransactionID string    `bson:"transaction_id,omitempty" json:"transaction_id,omitempty"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updated_at"`
}
