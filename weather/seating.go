package weather

import (
	"fmt"
	"math"
	"strings"

	"github.com/tabletalk-ai/tabletalk/booking"
)

// Recommend maps a weather condition and temperature to a seating preference
// plus a one-sentence rationale. Precedence, first match wins:
// rain/storm/snow, then hot, then cold, then clear/sunny, then no preference.
func Recommend(condition string, tempC float64) (string, booking.Seating) {
	cond := strings.ToLower(condition)
	rounded := int(math.Round(tempC))

	switch {
	case containsAny(cond, "rain", "storm", "snow"):
		return fmt.Sprintf("Since %s is expected, indoor seating would be more comfortable.", cond),
			booking.SeatingIndoor
	case tempC > 30:
		return fmt.Sprintf("At %d°C it will be quite hot outside, so indoor seating is recommended.", rounded),
			booking.SeatingIndoor
	case tempC < 10:
		return fmt.Sprintf("At %d°C it will be chilly outside, so indoor seating is recommended.", rounded),
			booking.SeatingIndoor
	case containsAny(cond, "clear", "sunny"):
		return fmt.Sprintf("With %s conditions and a pleasant %d°C, outdoor seating would be lovely.", cond, rounded),
			booking.SeatingOutdoor
	default:
		return fmt.Sprintf("The weather looks mild at around %d°C, so either seating would work well.", rounded),
			booking.SeatingNoPreference
	}
}

func containsAny(s string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
