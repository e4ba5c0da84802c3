package booking

import "fuelq/models"

// transitionSources lists, per target status, the statuses a booking may move
// from. Completed, cancelled and expired are terminal: nothing transitions
// out of them. Completion from active covers walk-up redeems where the user
// answered a reminder but never hit the explicit confirm endpoint.
var transitionSources = map[string][]string{
	models.BookingStatusConfirmed: {models.BookingStatusActive},
	models.BookingStatusCompleted: {models.BookingStatusActive, models.BookingStatusConfirmed},
	models.BookingStatusCancelled: {models.BookingStatusActive, models.BookingStatusConfirmed},
	models.BookingStatusExpired:   {models.BookingStatusActive},
}

// CanTransition reports whether a booking in `from` may move to `to`.
func CanTransition(from, to string) bool {
	for _, s := range transitionSources[to] {
		if s == from {
			return true
		}
	}
	return false
}

// SourcesFor returns the valid source statuses for a target status. The slice
// is used directly as the precondition of the storage-level conditional
// update, so the check and the write cannot disagree.
func SourcesFor(to string) []string {
	return transitionSources[to]
}
