package booking

import (
	"testing"

	"fuelq/models"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{models.BookingStatusActive, models.BookingStatusConfirmed, true},
		{models.BookingStatusActive, models.BookingStatusCompleted, true},
		{models.BookingStatusActive, models.BookingStatusCancelled, true},
		{models.BookingStatusActive, models.BookingStatusExpired, true},
		{models.BookingStatusConfirmed, models.BookingStatusCompleted, true},
		{models.BookingStatusConfirmed, models.BookingStatusCancelled, true},
		{models.BookingStatusConfirmed, models.BookingStatusExpired, false},
		{models.BookingStatusCompleted, models.BookingStatusCancelled, false},
		{models.BookingStatusCompleted, models.BookingStatusConfirmed, false},
		{models.BookingStatusCancelled, models.BookingStatusActive, false},
		{models.BookingStatusCancelled, models.BookingStatusConfirmed, false},
		{models.BookingStatusExpired, models.BookingStatusCompleted, false},
		{models.BookingStatusConfirmed, models.BookingStatusConfirmed, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	terminals := []string{
		models.BookingStatusCompleted,
		models.BookingStatusCancelled,
		models.BookingStatusExpired,
	}
	targets := []string{
		models.BookingStatusActive,
		models.BookingStatusConfirmed,
		models.BookingStatusCompleted,
		models.BookingStatusCancelled,
		models.BookingStatusExpired,
	}

	for _, from := range terminals {
		for _, to := range targets {
			assert.False(t, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestSourcesForMatchesCanTransition(t *testing.T) {
	for to, sources := range transitionSources {
		assert.Equal(t, sources, SourcesFor(to))
		for _, from := range sources {
			assert.True(t, CanTransition(from, to))
		}
	}
}
