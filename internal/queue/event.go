// Package queue defines the booking events exchanged over RabbitMQ together
// with their publisher and the background consumer.
package queue

// Event types carried in BookingEvent.Type.
const (
	EventBookingCreated       = "booking.created"
	EventBookingStatusChanged = "booking.status_changed"
)

// BookingEventsQueue is the durable queue both sides declare.
const BookingEventsQueue = "booking.events"

// BookingEvent is published after a booking row is written.  It carries
// enough detail for downstream consumers to log or notify without querying
// the primary database.
type BookingEvent struct {
	Type           string  `json:"type"`
	BookingID      uint64  `json:"booking_id"`
	UserID         *uint64 `json:"user_id,omitempty"`
	Name           string  `json:"name,omitempty"`
	Email          string  `json:"email,omitempty"`
	Address        string  `json:"address,omitempty"`
	PickupDate     string  `json:"pickup_date,omitempty"`
	PickupTime     string  `json:"pickup_time,omitempty"`
	Status         string  `json:"status"`
	PreviousStatus string  `json:"previous_status,omitempty"`
	OccurredAt     string  `json:"occurred_at"`
}
