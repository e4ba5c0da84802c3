package token

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tokenRepo "fuelq/database/repository/token"
	"fuelq/models"
	"fuelq/monitoring"
	"fuelq/services/qrcode"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxReissueRounds bounds the expire+insert retry when concurrent issuers
// race for the same booking.
const maxReissueRounds = 5

// IssueToken mints a new token for bookingID with the given ttl (the
// configured default applies when ttl <= 0).
//
// Reissuing is allowed and invalidates: any still-valid token of the booking
// is expired before the new one is inserted. The partial unique index on
// booking_id over valid tokens enforces that at the storage layer; losing
// the insert race to a concurrent issuer means a fresh token just appeared,
// so the loser expires it and tries again.
func (s *DefaultTokenService) IssueToken(ctx context.Context, bookingID string, ttl time.Duration) (*models.Token, string, error) {
	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load booking %s: %w", bookingID, err)
	}
	if booking.BookingStatus == models.BookingStatusCancelled || booking.BookingStatus == models.BookingStatusExpired {
		return nil, "", fmt.Errorf("booking %s is %s, no token can be issued", bookingID, booking.BookingStatus)
	}

	if ttl <= 0 {
		ttl = s.TTL
	}

	for round := 0; round < maxReissueRounds; round++ {
		if err := s.Repo.ExpireValidForBooking(ctx, bookingID); err != nil {
			return nil, "", fmt.Errorf("failed to expire prior tokens for booking %s: %w", bookingID, err)
		}

		code, err := s.generateUniqueCode(ctx)
		if err != nil {
			return nil, "", err
		}
		payload := Payload(code, bookingID)

		now := s.now()
		tok := &models.Token{
			ID:         uuid.New().String(),
			BookingID:  bookingID,
			TokenCode:  code,
			QRData:     payload,
			ExpiryTime: now.Add(ttl),
			Status:     models.TokenStatusValid,
		}

		s.attachQRImage(ctx, tok, payload)

		err = s.Repo.Insert(ctx, tok)
		if errors.Is(err, tokenRepo.ErrValidTokenExists) {
			continue
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to insert token: %w", err)
		}

		monitoring.TrackTokenIssued()
		s.Logger.Info("token issued",
			zap.String("booking_id", bookingID),
			zap.String("token_code", code),
			zap.Time("expiry_time", tok.ExpiryTime))
		return tok, payload, nil
	}
	return nil, "", fmt.Errorf("failed to issue token for booking %s: lost the insert race %d times", bookingID, maxReissueRounds)
}

// attachQRImage renders and uploads the QR image when both a renderer and a
// storage backend are configured. Upload failures are logged, not fatal: the
// payload string alone is enough to redeem.
func (s *DefaultTokenService) attachQRImage(ctx context.Context, tok *models.Token, payload string) {
	if s.Renderer == nil || s.Storage == nil {
		return
	}
	png, err := s.Renderer.Render(payload, qrcode.DefaultSize)
	if err != nil {
		s.Logger.Warn("failed to render QR image", zap.String("token_code", tok.TokenCode), zap.Error(err))
		return
	}
	url, err := s.Storage.UploadBytes(ctx, png, "tokens/qr", strings.ToLower(tok.TokenCode))
	if err != nil {
		s.Logger.Warn("failed to upload QR image", zap.String("token_code", tok.TokenCode), zap.Error(err))
		return
	}
	tok.QRImageURL = url
}

// GetByBookingID returns the most recently issued token of a booking.
func (s *DefaultTokenService) GetByBookingID(ctx context.Context, bookingID string) (*models.Token, error) {
	return s.Repo.GetByBookingID(ctx, bookingID)
}

// ExpireForBooking invalidates any still-valid token of the booking.
func (s *DefaultTokenService) ExpireForBooking(ctx context.Context, bookingID string) error {
	return s.Repo.ExpireValidForBooking(ctx, bookingID)
}
