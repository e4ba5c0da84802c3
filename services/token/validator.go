package token

import (
	"context"
	"errors"
	"fmt"

	bookingRepo "fuelq/database/repository/booking"
	tokenRepo "fuelq/database/repository/token"
	"fuelq/models"
	"fuelq/monitoring"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// errRedeemRejected aborts the redeem transaction for an expected, classified
// outcome. It never escapes RedeemAndComplete.
var errRedeemRejected = errors.New("redeem rejected")

// Validate classifies a token code without consuming it.
func (s *DefaultTokenService) Validate(ctx context.Context, code string) (ValidationResult, error) {
	tok, err := s.Repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ValidationResult{Reason: ReasonNotFound}, nil
		}
		return ValidationResult{}, fmt.Errorf("failed to load token %s: %w", code, err)
	}

	reason, err := s.classifyStatus(ctx, tok)
	if err != nil {
		return ValidationResult{}, err
	}
	if reason != "" {
		return ValidationResult{Reason: reason, Token: tok}, nil
	}
	return ValidationResult{Valid: true, Token: tok}, nil
}

// classifyStatus reports why tok cannot be redeemed, or "" for a live token.
// Overdue tokens are flipped valid→expired in storage here, so expiry holds
// even when no background sweep runs; losing that CAS to a concurrent writer
// just means someone else already settled the state.
func (s *DefaultTokenService) classifyStatus(ctx context.Context, tok *models.Token) (string, error) {
	switch tok.Status {
	case models.TokenStatusUsed:
		return ReasonAlreadyUsed, nil
	case models.TokenStatusExpired:
		return ReasonExpired, nil
	}

	if !tok.ExpiryTime.After(s.now()) {
		if err := s.Repo.MarkExpired(ctx, tok.TokenCode); err != nil && !errors.Is(err, tokenRepo.ErrNoMatch) {
			return "", fmt.Errorf("failed to expire token %s: %w", tok.TokenCode, err)
		}
		tok.Status = models.TokenStatusExpired
		return ReasonExpired, nil
	}
	return "", nil
}

// RedeemAndComplete consumes the token and completes its booking in one
// transaction. Exactly one of any number of concurrent calls for the same
// code can succeed; the rest come back with a classified reason.
//
// The scan audit record is written after the transaction settles, for
// successes and rejections alike.
func (s *DefaultTokenService) RedeemAndComplete(ctx context.Context, code string, meta ScanMeta) (RedeemResult, error) {
	var result RedeemResult
	var tokenID string

	err := s.Repo.WithTransaction(ctx, func(txCtx context.Context) error {
		tok, err := s.Repo.GetByCode(txCtx, code)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				result = RedeemResult{Reason: ReasonNotFound}
				return errRedeemRejected
			}
			return fmt.Errorf("failed to load token %s: %w", code, err)
		}
		tokenID = tok.ID

		// Token state is settled before anything about the booking is
		// consulted: a used or expired token reports as such even when the
		// booking's confirmation would also block the redeem.
		reason, err := s.classifyStatus(txCtx, tok)
		if err != nil {
			return err
		}
		if reason != "" {
			result = RedeemResult{Reason: reason}
			return errRedeemRejected
		}

		booking, err := s.Bookings.GetByID(txCtx, tok.BookingID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				result = RedeemResult{Reason: ReasonBookingNotFound}
				return errRedeemRejected
			}
			return fmt.Errorf("failed to load booking %s: %w", tok.BookingID, err)
		}

		if booking.ConfirmationStatus != models.ConfirmationComing {
			result = RedeemResult{Reason: ReasonNotConfirmed, Booking: booking}
			return errRedeemRejected
		}

		now := s.now()
		if _, err := s.Repo.MarkUsed(txCtx, code, now); err != nil {
			if errors.Is(err, tokenRepo.ErrNoMatch) {
				result = RedeemResult{Reason: s.classifyMiss(txCtx, code, tok)}
				return errRedeemRejected
			}
			return fmt.Errorf("failed to mark token %s used: %w", code, err)
		}

		from := []string{models.BookingStatusActive, models.BookingStatusConfirmed}
		if err := s.Bookings.UpdateStatusIf(txCtx, booking.ID, from, models.BookingStatusCompleted); err != nil {
			if errors.Is(err, bookingRepo.ErrNoMatch) {
				result = RedeemResult{Reason: ReasonBookingNotFound, Booking: booking}
				return errRedeemRejected
			}
			return fmt.Errorf("failed to complete booking %s: %w", booking.ID, err)
		}

		booking.BookingStatus = models.BookingStatusCompleted
		result = RedeemResult{Success: true, Booking: booking}
		return nil
	})

	if err != nil && !errors.Is(err, errRedeemRejected) {
		return RedeemResult{}, err
	}

	s.recordScan(ctx, tokenID, code, meta, result)
	return result, nil
}

// classifyMiss explains a lost MarkUsed race by re-reading the token. The CAS
// already failed, so the answer is for reporting only.
func (s *DefaultTokenService) classifyMiss(ctx context.Context, code string, stale *models.Token) string {
	tok, err := s.Repo.GetByCode(ctx, code)
	if err != nil {
		s.Logger.Warn("failed to re-read token after redeem miss", zap.String("token_code", code), zap.Error(err))
		tok = stale
	}
	switch tok.Status {
	case models.TokenStatusUsed:
		return ReasonAlreadyUsed
	case models.TokenStatusExpired:
		return ReasonExpired
	default:
		// Still valid in the document but past expiry: the CAS guard caught it
		// before the lazy flip did.
		return ReasonExpired
	}
}

func (s *DefaultTokenService) recordScan(ctx context.Context, tokenID, code string, meta ScanMeta, result RedeemResult) {
	outcome := result.Reason
	if result.Success {
		outcome = "SUCCESS"
	}
	scan := &models.TokenScan{
		ID:        uuid.New().String(),
		TokenID:   tokenID,
		TokenCode: code,
		PumpID:    meta.PumpID,
		ScannedBy: meta.ScannedBy,
		ScanTime:  s.now(),
		Result:    outcome,
	}
	if err := s.Repo.InsertScan(ctx, scan); err != nil {
		s.Logger.Warn("failed to record token scan", zap.String("token_code", code), zap.Error(err))
	}
	monitoring.TrackTokenScan(outcome)
	s.Logger.Info("token scan",
		zap.String("token_code", code),
		zap.String("pump_id", meta.PumpID),
		zap.String("result", outcome))
}

// ListScans returns the scan audit trail for a pump.
func (s *DefaultTokenService) ListScans(ctx context.Context, pumpID string) ([]models.TokenScan, error) {
	return s.Repo.ListScansByPump(ctx, pumpID)
}
