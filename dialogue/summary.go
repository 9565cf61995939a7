package dialogue

import (
	"fmt"
	"strings"
	"time"

	"github.com/tabletalk-ai/tabletalk/booking"
	"github.com/tabletalk-ai/tabletalk/weather"
)

var confirmationPhrases = []string{"yes", "confirm", "correct", "looks good", "that's right"}

func isConfirmation(message string) bool {
	return containsAny(lowercase(message), confirmationPhrases...)
}

// Documented defaults substituted for still-missing fields at confirmation.
const (
	defaultName     = "Guest"
	defaultGuests   = 2
	defaultTime     = "7:00 PM"
	defaultCuisine  = "Any"
	defaultLocation = "Unknown"
)

func withDefaults(bctx booking.Context, now time.Time) booking.InsertBooking {
	p := booking.InsertBooking{
		CustomerName:      bctx.CustomerName,
		NumberOfGuests:    bctx.NumberOfGuests,
		BookingDate:       bctx.BookingDate,
		BookingTime:       bctx.BookingTime,
		CuisinePreference: bctx.CuisinePreference,
		Location:          bctx.Location,
		SpecialRequests:   bctx.SpecialRequests,
		SeatingPreference: bctx.SeatingPreference,
		WeatherInfo:       bctx.WeatherInfo,
	}
	if p.CustomerName == "" {
		p.CustomerName = defaultName
	}
	if p.NumberOfGuests == 0 {
		p.NumberOfGuests = defaultGuests
	}
	if p.BookingDate == "" {
		p.BookingDate = now.Format(weather.DateLayout)
	}
	if p.BookingTime == "" {
		p.BookingTime = defaultTime
	}
	if p.CuisinePreference == "" {
		p.CuisinePreference = defaultCuisine
	}
	if p.Location == "" {
		p.Location = defaultLocation
	}
	if p.SeatingPreference == "" {
		p.SeatingPreference = booking.SeatingNoPreference
	}
	return p
}

// renderSummary lists every known field of the booking so far.
func renderSummary(bctx booking.Context) string {
	var b strings.Builder
	add := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "• %s: %s\n", label, value)
		}
	}

	add("Name", bctx.CustomerName)
	if bctx.NumberOfGuests > 0 {
		add("Guests", fmt.Sprintf("%d", bctx.NumberOfGuests))
	}
	add("Date", formatDate(bctx.BookingDate))
	add("Time", bctx.BookingTime)
	add("Cuisine", bctx.CuisinePreference)
	add("Location", bctx.Location)
	add("Seating", seatingLabel(bctx.SeatingPreference))
	add("Special requests", bctx.SpecialRequests)
	if bctx.WeatherInfo != nil {
		add("Expected weather", fmt.Sprintf("%s, %.0f°C",
			bctx.WeatherInfo.Description, bctx.WeatherInfo.Temperature))
	}
	return b.String()
}

// formatDate renders a YYYY-MM-DD date as "Monday, January 2, 2006";
// anything else passes through untouched.
func formatDate(date string) string {
	t, err := time.Parse(weather.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("Monday, January 2, 2006")
}

func seatingLabel(s booking.Seating) string {
	switch s {
	case booking.SeatingIndoor:
		return "indoor"
	case booking.SeatingOutdoor:
		return "outdoor"
	case booking.SeatingNoPreference:
		return "no preference"
	}
	return ""
}

func seatingQuestion(s booking.Seating) string {
	switch s {
	case booking.SeatingIndoor:
		return "Shall I note indoor seating for you?"
	case booking.SeatingOutdoor:
		return "Shall I note outdoor seating for you?"
	default:
		return "Would you prefer indoor or outdoor seating?"
	}
}

func seatingAck(s booking.Seating) string {
	if label := seatingLabel(s); label != "" && s != booking.SeatingNoPreference {
		return fmt.Sprintf("Perfect, %s seating it is.", label)
	}
	return "Noted."
}

func lowercase(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func trim(s string) string {
	return strings.TrimSpace(s)
}

func containsAny(s string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
