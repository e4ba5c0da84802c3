// File: services/token/interface.go
package token

import (
	"context"
	"time"

	bookingRepo "fuelq/database/repository/booking"
	tokenRepo "fuelq/database/repository/token"
	"fuelq/models"
	"fuelq/services/qrcode"
	"fuelq/services/storage"
	"fuelq/utils"

	"go.uber.org/zap"
)

// ValidationResult is the outcome of a token validation.
type ValidationResult struct {
	Valid  bool          `json:"valid"`
	Reason string        `json:"reason,omitempty"`
	Token  *models.Token `json:"token,omitempty"`
}

// RedeemResult is the outcome of a redeem-and-complete call.
type RedeemResult struct {
	Success bool            `json:"success"`
	Reason  string          `json:"reason,omitempty"`
	Booking *models.Booking `json:"booking,omitempty"`
}

// ScanMeta identifies where and by whom a scan happened, for the audit trail.
type ScanMeta struct {
	PumpID    string
	ScannedBy string
}

// TokenService issues, validates and redeems single-use e-tokens.
type TokenService interface {
	// IssueToken mints a token for the booking. Any previously valid token of
	// the same booking is expired first, so at most one valid token exists per
	// booking. Returns the token and the scannable payload string.
	IssueToken(ctx context.Context, bookingID string, ttl time.Duration) (*models.Token, string, error)
	GetByBookingID(ctx context.Context, bookingID string) (*models.Token, error)
	// Validate classifies a code without consuming it. A false Valid with a
	// Reason is an expected outcome; the error covers system failures only.
	Validate(ctx context.Context, code string) (ValidationResult, error)
	// RedeemAndComplete atomically consumes the token and completes its
	// booking, recording a scan audit entry either way.
	RedeemAndComplete(ctx context.Context, code string, meta ScanMeta) (RedeemResult, error)
	ListScans(ctx context.Context, pumpID string) ([]models.TokenScan, error)
	// ExpireForBooking invalidates any still-valid token of the booking. Part
	// of the cancellation cascade.
	ExpireForBooking(ctx context.Context, bookingID string) error
}

// DefaultTokenService is the production implementation.
type DefaultTokenService struct {
	Repo     tokenRepo.TokenRepository
	Bookings bookingRepo.BookingRepository
	Renderer qrcode.Renderer
	Storage  storage.StorageService // optional; nil skips QR upload
	Clock    utils.Clock
	Logger   *zap.Logger
	TTL      time.Duration
}

func (s *DefaultTokenService) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now()
	}
	return time.Now().UTC()
}
