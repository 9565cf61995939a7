package booking

// Seating is the seating preference enumeration.
type Seating string

const (
	SeatingIndoor       Seating = "indoor"
	SeatingOutdoor      Seating = "outdoor"
	SeatingNoPreference Seating = "no_preference"
)

// Valid reports whether s is a defined seating preference.
func (s Seating) Valid() bool {
	switch s {
	case SeatingIndoor, SeatingOutdoor, SeatingNoPreference:
		return true
	}
	return false
}

// WeatherSummary is a normalized weather report for the booking date.
// It is produced only by the weather resolver and never mutated once
// attached to a context.
type WeatherSummary struct {
	Condition   string   `json:"condition"`
	Temperature float64  `json:"temperature"` // °C
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Humidity    *int     `json:"humidity,omitempty"`  // %
	WindSpeed   *float64 `json:"windSpeed,omitempty"` // m/s
}

// Context is the accumulated, partially filled booking form plus the current
// conversation step. It is round-tripped opaquely by callers between turns;
// the dialogue engine replaces it wholesale rather than mutating shared state.
type Context struct {
	CustomerName      string          `json:"customerName,omitempty"`
	NumberOfGuests    int             `json:"numberOfGuests,omitempty"`
	BookingDate       string          `json:"bookingDate,omitempty"` // YYYY-MM-DD
	BookingTime       string          `json:"bookingTime,omitempty"` // free text, display only
	CuisinePreference string          `json:"cuisinePreference,omitempty"`
	Location          string          `json:"location,omitempty"`
	SpecialRequests   string          `json:"specialRequests,omitempty"`
	SeatingPreference Seating         `json:"seatingPreference,omitempty"`
	WeatherInfo       *WeatherSummary `json:"weatherInfo,omitempty"`
	Step              Step            `json:"step"`
}

// NewContext returns a fresh context at the greeting step.
func NewContext() Context {
	return Context{Step: StepGreeting}
}

// Normalize repairs an externally supplied context: unknown steps collapse to
// greeting and an out-of-range guest count is clamped. Callers get silent
// normalization, not an error.
func (c Context) Normalize() Context {
	c.Step = NormalizeStep(c.Step)
	if c.NumberOfGuests != 0 {
		c.NumberOfGuests = ClampGuests(c.NumberOfGuests)
	}
	if c.SeatingPreference != "" && !c.SeatingPreference.Valid() {
		c.SeatingPreference = ""
	}
	return c
}
