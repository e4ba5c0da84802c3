package models

import "time"

// Token lifecycle states. Forward-only: valid→used, valid→expired.
const (
	TokenStatusValid   = "valid"
	TokenStatusUsed    = "used"
	TokenStatusExpired = "expired"
)

// Token is the single-use e-token bound 1:1 to a non-cancelled booking.
type Token struct {
	ID         string     `bson:"id" json:"id"`
	BookingID  string     `bson:"booking_id" json:"booking_id"`
	TokenCode  string     `bson:"token_code" json:"token_code"` // unique, human-typeable
	QRData     string     `bson:"qr_data,omitempty" json:"qr_data,omitempty"`
	QRImageURL string     `bson:"qr_image_url,omitempty" json:"qr_image_url,omitempty"`
	ExpiryTime time.Time  `bson:"expiry_time" json:"expiry_time"`
	ScanTime   *time.Time `bson:"scan_time,omitempty" json:"scan_time,omitempty"`
	Status     string     `bson:"status" json:"status"`
	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `bson:"updated_at" json:"updated_at"`
}

// TokenScan is an append-only audit record of a scan attempt.
type TokenScan struct {
	ID        string    `bson:"id" json:"id"`
	TokenID   string    `bson:"token_id,omitempty" json:"token_id,omitempty"`
	TokenCode string    `bson:"token_code" json:"token_code"`
	PumpID    string    `bson:"pump_id,omitempty" json:"pump_id,omitempty"`
	ScannedBy string    `bson:"scanned_by,omitempty" json:"scanned_by,omitempty"`
	ScanTime  time.Time `bson:"scan_time" json:"scan_time"`
	Result    string    `bson:"result" json:"result"`
}
