package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlotStart(t *testing.T) {
	b := &Booking{SlotDate: "2026-09-01", SlotTime: "10:00"}

	start, err := b.SlotStart()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC), start)
}

func TestSlotStartInvalid(t *testing.T) {
	for _, b := range []*Booking{
		{SlotDate: "2026-09-01", SlotTime: "25:00"},
		{SlotDate: "01-09-2026", SlotTime: "10:00"},
		{SlotDate: "", SlotTime: ""},
	} {
		_, err := b.SlotStart()
		assert.Error(t, err)
	}
}
