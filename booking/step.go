package booking

// Step identifies the current position in the slot-filling sequence.
type Step string

const (
	StepGreeting        Step = "greeting"
	StepCollectName     Step = "collect_name"
	StepCollectGuests   Step = "collect_guests"
	StepCollectDate     Step = "collect_date"
	StepCollectTime     Step = "collect_time"
	StepCollectCuisine  Step = "collect_cuisine"
	StepCollectLocation Step = "collect_location"
	StepFetchWeather    Step = "fetch_weather"
	StepSuggestSeating  Step = "suggest_seating"
	StepSpecialRequests Step = "collect_special_requests"
	StepConfirmBooking  Step = "confirm_booking"
	StepBookingComplete Step = "booking_complete"
)

// Steps lists every step in conversation order, greeting first.
var Steps = []Step{
	StepGreeting,
	StepCollectName,
	StepCollectGuests,
	StepCollectDate,
	StepCollectTime,
	StepCollectCuisine,
	StepCollectLocation,
	StepFetchWeather,
	StepSuggestSeating,
	StepSpecialRequests,
	StepConfirmBooking,
	StepBookingComplete,
}

var stepIndex = func() map[Step]int {
	m := make(map[Step]int, len(Steps))
	for i, s := range Steps {
		m[s] = i
	}
	return m
}()

// Valid reports whether s is one of the twelve defined steps.
func (s Step) Valid() bool {
	_, ok := stepIndex[s]
	return ok
}

// Next returns the step that follows s in the nominal sequence.
// The terminal step returns itself.
func (s Step) Next() Step {
	i, ok := stepIndex[s]
	if !ok || i == len(Steps)-1 {
		return StepBookingComplete
	}
	return Steps[i+1]
}

// NormalizeStep guards externally supplied contexts: anything outside the
// defined enumeration collapses to greeting rather than erroring.
func NormalizeStep(s Step) Step {
	if s.Valid() {
		return s
	}
	return StepGreeting
}
