package model

import (
	"fmt"
	"time"
)

// BookingStatus is the progress of a pickup request.  The set is closed:
// every stored booking carries exactly one of the values below.
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusCompleting BookingStatus = "completing"
	StatusCompleted  BookingStatus = "completed"
)

// BookingStatuses lists the closed set in lifecycle order.
var BookingStatuses = []BookingStatus{StatusPending, StatusCompleting, StatusCompleted}

// nextStatuses is the forward progression of a booking.  It is advisory:
// status updates accept any member of the set, and callers that want a
// strict pending -> completing -> completed flow consult CanTransitionTo.
var nextStatuses = map[BookingStatus][]BookingStatus{
	StatusPending:    {StatusCompleting, StatusCompleted},
	StatusCompleting: {StatusCompleted},
	StatusCompleted:  {},
}

// ParseBookingStatus converts s into a BookingStatus, rejecting values
// outside the closed set.
func ParseBookingStatus(s string) (BookingStatus, error) {
	st := BookingStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown booking status %q", s)
	}
	return st, nil
}

func (s BookingStatus) Valid() bool {
	_, ok := nextStatuses[s]
	return ok
}

// NextStatuses returns the statuses reachable from s by moving forward.
func (s BookingStatus) NextStatuses() []BookingStatus {
	return append([]BookingStatus(nil), nextStatuses[s]...)
}

// CanTransitionTo reports whether next is a forward step from s.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, n := range nextStatuses[s] {
		if n == next {
			return true
		}
	}
	return false
}

// Booking is a pickup request as stored in the `bookings` table.
//
// Fields:
//
//	ID         – primary key identifier.
//	UserID     – owning user; nil for anonymous bookings.
//	Name       – requester name.
//	Email      – requester email.
//	Address    – pickup address.
//	PickupDate – requested day (date only, UTC midnight).
//	PickupTime – requested time as 24-hour HH:MM.
//	Photo      – generated filename of the uploaded photo.
//	Status     – lifecycle status.
//	CreatedAt  – creation timestamp.
type Booking struct {
	ID         uint64        `db:"id"`
	UserID     *uint64       `db:"user_id"`
	Name       string        `db:"name"`
	Email      string        `db:"email"`
	Address    string        `db:"address"`
	PickupDate time.Time     `db:"pickup_date"`
	PickupTime string        `db:"pickup_time"`
	Photo      string        `db:"photo"`
	Status     BookingStatus `db:"status"`
	CreatedAt  time.Time     `db:"created_at"`
}

// PickupDateLayout is the wire format of Booking.PickupDate.
const PickupDateLayout = "2006-01-02"
