package booking

import "strings"

// Guest count bounds enforced on every merge.
const (
	MinGuests = 1
	MaxGuests = 20
)

// ClampGuests forces n into [MinGuests, MaxGuests].
func ClampGuests(n int) int {
	if n < MinGuests {
		return MinGuests
	}
	if n > MaxGuests {
		return MaxGuests
	}
	return n
}

// Extracted holds candidate field values pulled from a single user message,
// either by the language model or by the fallback parser. Absent fields are
// empty strings / nil and never clear existing context values.
type Extracted struct {
	CustomerName      string  `json:"customerName,omitempty"`
	NumberOfGuests    *int    `json:"numberOfGuests,omitempty"`
	BookingDate       string  `json:"bookingDate,omitempty"`
	BookingTime       string  `json:"bookingTime,omitempty"`
	CuisinePreference string  `json:"cuisinePreference,omitempty"`
	Location          string  `json:"location,omitempty"`
	SpecialRequests   string  `json:"specialRequests,omitempty"`
	SeatingPreference Seating `json:"seatingPreference,omitempty"`
}

// Merge folds extracted candidates into ctx. A populated field is only ever
// overwritten by a non-empty candidate, the guest count is clamped before
// assignment, and proposedNextStep is accepted only when it names one of the
// twelve defined steps; otherwise the current step is silently retained.
func Merge(ctx Context, extracted *Extracted, proposedNextStep Step) Context {
	if extracted != nil {
		if v := strings.TrimSpace(extracted.CustomerName); v != "" {
			ctx.CustomerName = v
		}
		if extracted.NumberOfGuests != nil {
			ctx.NumberOfGuests = ClampGuests(*extracted.NumberOfGuests)
		}
		if v := strings.TrimSpace(extracted.BookingDate); v != "" {
			ctx.BookingDate = v
		}
		if v := strings.TrimSpace(extracted.BookingTime); v != "" {
			ctx.BookingTime = v
		}
		if v := strings.TrimSpace(extracted.CuisinePreference); v != "" {
			ctx.CuisinePreference = v
		}
		if v := strings.TrimSpace(extracted.Location); v != "" {
			ctx.Location = v
		}
		if v := strings.TrimSpace(extracted.SpecialRequests); v != "" {
			ctx.SpecialRequests = v
		}
		if extracted.SeatingPreference.Valid() {
			ctx.SeatingPreference = extracted.SeatingPreference
		}
	}

	if proposedNextStep.Valid() {
		ctx.Step = proposedNextStep
	}
	return ctx
}
