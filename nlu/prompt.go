package nlu

import (
	"fmt"
	"strings"

	"github.com/tabletalk-ai/tabletalk/booking"
)

const promptPreamble = `You are a warm, efficient restaurant reservation assistant. You guide the
guest through booking a table, collecting one detail at a time: name, number
of guests, date, time, cuisine preference, and location.

Reply with EXACTLY ONE JSON object and nothing else, in this shape:

{
  "response": "<what you say to the guest next>",
  "extractedData": {
    "customerName": "<string or omit>",
    "numberOfGuests": <integer or omit>,
    "bookingDate": "<YYYY-MM-DD or omit>",
    "bookingTime": "<string or omit>",
    "cuisinePreference": "<string or omit>",
    "location": "<city name or omit>",
    "specialRequests": "<string or omit>",
    "seatingPreference": "<indoor|outdoor|no_preference or omit>"
  },
  "nextStep": "<one of: greeting, collect_name, collect_guests, collect_date, collect_time, collect_cuisine, collect_location, fetch_weather, suggest_seating, collect_special_requests, confirm_booking, booking_complete>",
  "isConfirmed": <true only when the guest has given final confirmation>
}

Only extract values the guest actually stated. Never invent details. Ask for
exactly one missing detail per turn, in the step order above.`

// BuildPrompt assembles the completion prompt: the fixed instruction
// preamble, a human-readable summary of everything already collected, the
// current step, and the guest's latest message.
func BuildPrompt(message string, ctx booking.Context) string {
	var b strings.Builder
	b.WriteString(promptPreamble)
	b.WriteString("\n\nDetails collected so far:\n")
	b.WriteString(summarizeContext(ctx))
	fmt.Fprintf(&b, "\nCurrent step: %s\n", ctx.Step)
	fmt.Fprintf(&b, "Guest's message: %q\n", message)
	return b.String()
}

func summarizeContext(ctx booking.Context) string {
	line := func(label, value string) string {
		if value == "" {
			value = "not provided"
		}
		return fmt.Sprintf("- %s: %s\n", label, value)
	}

	guests := ""
	if ctx.NumberOfGuests > 0 {
		guests = fmt.Sprintf("%d", ctx.NumberOfGuests)
	}
	weather := ""
	if ctx.WeatherInfo != nil {
		weather = fmt.Sprintf("%s, %.0f°C", ctx.WeatherInfo.Description, ctx.WeatherInfo.Temperature)
	}

	var b strings.Builder
	b.WriteString(line("Customer name", ctx.CustomerName))
	b.WriteString(line("Number of guests", guests))
	b.WriteString(line("Booking date", ctx.BookingDate))
	b.WriteString(line("Booking time", ctx.BookingTime))
	b.WriteString(line("Cuisine preference", ctx.CuisinePreference))
	b.WriteString(line("Location", ctx.Location))
	b.WriteString(line("Special requests", ctx.SpecialRequests))
	b.WriteString(line("Seating preference", string(ctx.SeatingPreference)))
	b.WriteString(line("Weather", weather))
	return b.String()
}
