package weather

import (
	"hash/fnv"
	"strings"

	"github.com/tabletalk-ai/tabletalk/booking"
)

// Canned condition/temperature templates for offline weather. Selection is
// keyed by a hash of the date string so identical dates always render the
// same summary.
var syntheticTemplates = []struct {
	condition   string
	description string
	icon        string
	tempC       float64
}{
	{"Clear", "clear sky", "01d", 24},
	{"Clouds", "scattered clouds", "03d", 18},
	{"Rain", "light rain", "10d", 13},
	{"Clear", "sunny and bright", "01d", 29},
}

// Synthetic derives a reproducible weather summary from the date string
// alone, so offline behavior is stable across turns and restarts.
func Synthetic(date string) booking.WeatherSummary {
	h := fnv.New32a()
	_, _ = h.Write([]byte(date))
	sum := h.Sum32()

	t := syntheticTemplates[int(sum%uint32(len(syntheticTemplates)))]
	humidity := int(40 + sum%45)
	wind := float64(sum%80) / 10

	return booking.WeatherSummary{
		Condition:   t.condition,
		Temperature: t.tempC,
		Description: capitalizeWords(t.description),
		Icon:        t.icon,
		Humidity:    &humidity,
		WindSpeed:   &wind,
	}
}

// capitalizeWords renders "light rain" as "Light Rain".
func capitalizeWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
