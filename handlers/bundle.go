// File: fuelq/handlers/bundle.go
package handlers

// HandlerBundle groups all endpoint handlers into one struct for route
// registration.
type HandlerBundle struct {
	User     *UserHandler
	Pump     *PumpHandler
	Booking  *BookingHandler
	Token    *TokenHandler
	Reminder *ReminderHandler
	Payment  *PaymentHandler
}
