// Package monitoring exposes Prometheus metrics for the booking pipeline.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bookingsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Bookings created, by pump",
		},
		[]string{"pump_id"},
	)

	bookingTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_transitions_total",
			Help: "Booking status transitions",
		},
		[]string{"to_status"},
	)

	slotConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "slot_conflicts_total",
			Help: "Booking attempts rejected because the slot was taken",
		},
	)

	tokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tokens_issued_total",
			Help: "E-tokens issued",
		},
	)

	tokenScans = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_scans_total",
			Help: "Token scan attempts by result",
		},
		[]string{"result"},
	)

	remindersScheduled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reminders_scheduled_total",
			Help: "Reminder tasks enqueued",
		},
	)
)

func TrackBookingCreated(pumpID string) {
	bookingsCreated.WithLabelValues(pumpID).Inc()
}

func TrackBookingTransition(toStatus string) {
	bookingTransitions.WithLabelValues(toStatus).Inc()
}

func TrackSlotConflict() {
	slotConflicts.Inc()
}

func TrackTokenIssued() {
	tokensIssued.Inc()
}

func TrackTokenScan(result string) {
	tokenScans.WithLabelValues(result).Inc()
}

func TrackReminderScheduled() {
	remindersScheduled.Inc()
}
