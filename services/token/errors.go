package token

import "errors"

// Validation and redeem failure reasons. These are expected, user-facing
// outcomes, not system errors.
const (
	ReasonNotFound        = "NOT_FOUND"
	ReasonAlreadyUsed     = "ALREADY_USED"
	ReasonExpired         = "EXPIRED"
	ReasonNotConfirmed    = "NOT_CONFIRMED"
	ReasonBookingNotFound = "BOOKING_NOT_FOUND"
)

// ErrCodeGenerationExhausted is returned when no unique token code could be
// generated within the attempt bound. Safe to retry the whole issuance.
var ErrCodeGenerationExhausted = errors.New("could not generate a unique token code")
