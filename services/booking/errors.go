package booking

import "errors"

var (
	// ErrSlotUnavailable means the slot was taken by the time the insert
	// reached storage. Callers should re-list availability.
	ErrSlotUnavailable = errors.New("slot unavailable")
	// ErrInvalidSlot means the requested slot time is not in the pump's
	// bookable universe or the date is malformed.
	ErrInvalidSlot = errors.New("invalid slot")
	// ErrInvalidTransition means the booking's current status is not a valid
	// source for the requested transition.
	ErrInvalidTransition = errors.New("invalid booking state transition")
	ErrPumpClosed        = errors.New("pump is closed")
	ErrInvalidQuantity   = errors.New("fuel quantity out of range")
	// ErrNotConfirmed means completion was requested for a booking whose user
	// never confirmed they are coming.
	ErrNotConfirmed = errors.New("booking not confirmed by user")
)
