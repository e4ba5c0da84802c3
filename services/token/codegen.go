package token

import (
	"context"
	"fmt"

	"fuelq/utils"
)

const (
	// CodePrefix is the fixed human-readable prefix of every token code.
	CodePrefix = "CNG-"
	// codeAlphabet excludes visually ambiguous glyphs (0/O, 1/I). 32 symbols,
	// 6 positions: ~1.07e9 combinations.
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 6
	maxAttempts  = 10
)

// generateUniqueCode draws random codes until one is free of collisions,
// bounded at maxAttempts so a pathological collision streak surfaces as a
// hard failure instead of looping forever.
func (s *DefaultTokenService) generateUniqueCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		suffix, err := utils.RandomFromCharset(codeLength, codeAlphabet)
		if err != nil {
			return "", fmt.Errorf("failed to draw random code: %w", err)
		}
		code := CodePrefix + suffix

		exists, err := s.Repo.CodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check code uniqueness: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrCodeGenerationExhausted
}

// Payload builds the scannable payload string for a token code and booking.
func Payload(code, bookingID string) string {
	return fmt.Sprintf("CNG_TOKEN:%s:%s", code, bookingID)
}
