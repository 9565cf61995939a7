package booking

import (
	"crypto/rand"
	"time"
)

// Status is the booking lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a defined booking status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// InsertBooking is the payload handed to the store when a conversation is
// confirmed: every context field except the step, with the seating
// preference mandatory.
type InsertBooking struct {
	CustomerName      string          `json:"customerName"`
	NumberOfGuests    int             `json:"numberOfGuests"`
	BookingDate       string          `json:"bookingDate"`
	BookingTime       string          `json:"bookingTime"`
	CuisinePreference string          `json:"cuisinePreference"`
	Location          string          `json:"location"`
	SpecialRequests   string          `json:"specialRequests,omitempty"`
	SeatingPreference Seating         `json:"seatingPreference"`
	WeatherInfo       *WeatherSummary `json:"weatherInfo,omitempty"`
}

// Booking is a stored reservation.
type Booking struct {
	InsertBooking
	BookingID string    `json:"bookingId"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

const idPrefix = "BK-"
const idLength = 8
const idCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewBookingID returns a fresh identifier of the form BK-XXXXXXXX where X is
// an uppercase alphanumeric. Collisions are not checked; with 36^8
// possibilities they are negligible for this store's scale.
func NewBookingID() string {
	buf := make([]byte, idLength)
	// crypto/rand.Read does not fail on supported platforms.
	_, _ = rand.Read(buf)

	id := make([]byte, 0, len(idPrefix)+idLength)
	id = append(id, idPrefix...)
	for _, b := range buf {
		id = append(id, idCharset[int(b)%len(idCharset)])
	}
	return string(id)
}
