package weather

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- mock Source -----------------------------------------------------------

type mockSource struct {
	forecast func(ctx context.Context, location string) ([]Observation, error)
	current  func(ctx context.Context, location string) (*Observation, error)
}

func (m *mockSource) Forecast(ctx context.Context, location string) ([]Observation, error) {
	return m.forecast(ctx, location)
}
func (m *mockSource) Current(ctx context.Context, location string) (*Observation, error) {
	return m.current(ctx, location)
}

var _ Source = (*mockSource)(nil)

func fixedNow() time.Time {
	return time.Date(2026, time.September, 1, 9, 30, 0, 0, time.UTC)
}

func newTestResolver(src Source) *Resolver {
	r := NewResolver(src, nil)
	r.now = fixedNow
	return r
}

// ---- synthetic -------------------------------------------------------------

func TestSynthetic_DeterministicPerDate(t *testing.T) {
	a := Synthetic("2020-05-05")
	b := Synthetic("2020-05-05")
	assert.Equal(t, a, b)

	c := Synthetic("2020-05-06")
	// Different dates may collide on a template, but hash-derived humidity
	// and wind make full equality overwhelmingly unlikely.
	assert.NotEqual(t, a, c)
}

func TestSynthetic_PopulatesAllFields(t *testing.T) {
	s := Synthetic("1999-12-31")
	assert.NotEmpty(t, s.Condition)
	assert.NotEmpty(t, s.Description)
	assert.NotEmpty(t, s.Icon)
	require.NotNil(t, s.Humidity)
	require.NotNil(t, s.WindSpeed)
}

func TestCapitalizeWords(t *testing.T) {
	assert.Equal(t, "Light Rain", capitalizeWords("light rain"))
	assert.Equal(t, "Clear Sky", capitalizeWords("clear  sky"))
}

// ---- resolver --------------------------------------------------------------

func TestResolve_PastDateIsSyntheticEvenWithSource(t *testing.T) {
	r := newTestResolver(&mockSource{
		forecast: func(context.Context, string) ([]Observation, error) {
			t.Fatal("forecast must not be called for past dates")
			return nil, nil
		},
		current: func(context.Context, string) (*Observation, error) {
			t.Fatal("current must not be called for past dates")
			return nil, nil
		},
	})

	got := r.Resolve(context.Background(), "2026-08-31", "London")
	assert.Equal(t, Synthetic("2026-08-31"), got)
}

func TestResolve_MalformedDateIsSynthetic(t *testing.T) {
	r := newTestResolver(nil)
	got := r.Resolve(context.Background(), "next friday", "London")
	assert.Equal(t, Synthetic("next friday"), got)
}

func TestResolve_NoSourceIsSynthetic(t *testing.T) {
	r := newTestResolver(nil)
	got := r.Resolve(context.Background(), "2026-09-03", "London")
	assert.Equal(t, Synthetic("2026-09-03"), got)
}

func TestResolve_ForecastPrefersMiddayWindow(t *testing.T) {
	day := time.Date(2026, time.September, 3, 0, 0, 0, 0, time.UTC)
	r := newTestResolver(&mockSource{
		forecast: func(context.Context, string) ([]Observation, error) {
			return []Observation{
				{Condition: "Clouds", Description: "overcast clouds", TempC: 15, At: day.Add(9 * time.Hour)},
				{Condition: "Clear", Description: "clear sky", TempC: 22, At: day.Add(13 * time.Hour)},
				{Condition: "Rain", Description: "light rain", TempC: 17, At: day.Add(18 * time.Hour)},
			}, nil
		},
	})

	got := r.Resolve(context.Background(), "2026-09-03", "London")
	assert.Equal(t, "Clear", got.Condition)
	assert.Equal(t, 22.0, got.Temperature)
	assert.Equal(t, "Clear Sky", got.Description)
}

func TestResolve_ForecastFallsBackToSameDayThenFirst(t *testing.T) {
	day := time.Date(2026, time.September, 3, 0, 0, 0, 0, time.UTC)
	r := newTestResolver(&mockSource{
		forecast: func(context.Context, string) ([]Observation, error) {
			return []Observation{
				{Condition: "Clouds", Description: "overcast clouds", TempC: 15, At: day.Add(-24 * time.Hour)},
				{Condition: "Rain", Description: "light rain", TempC: 17, At: day.Add(20 * time.Hour)},
			}, nil
		},
	})

	got := r.Resolve(context.Background(), "2026-09-03", "London")
	assert.Equal(t, "Rain", got.Condition, "same-day entry beats first entry")

	r = newTestResolver(&mockSource{
		forecast: func(context.Context, string) ([]Observation, error) {
			return []Observation{
				{Condition: "Snow", Description: "heavy snow", TempC: -2, At: day.Add(-24 * time.Hour)},
			}, nil
		},
	})
	got = r.Resolve(context.Background(), "2026-09-03", "London")
	assert.Equal(t, "Snow", got.Condition, "first entry is the last resort")
}

func TestResolve_ForecastErrorIsSynthetic(t *testing.T) {
	r := newTestResolver(&mockSource{
		forecast: func(context.Context, string) ([]Observation, error) {
			return nil, errors.New("401 unauthorized")
		},
	})

	got := r.Resolve(context.Background(), "2026-09-02", "London")
	assert.Equal(t, Synthetic("2026-09-02"), got)
}

func TestResolve_FarFutureUsesEstimate(t *testing.T) {
	r := newTestResolver(&mockSource{
		current: func(context.Context, string) (*Observation, error) {
			return &Observation{Condition: "Clouds", Description: "broken clouds", TempC: 19}, nil
		},
	})

	got := r.Resolve(context.Background(), "2026-10-15", "London")
	assert.Equal(t, "Clouds", got.Condition)
	assert.Equal(t, "Broken Clouds (Estimate)", got.Description)
}

func TestResolve_CurrentErrorIsSynthetic(t *testing.T) {
	r := newTestResolver(&mockSource{
		current: func(context.Context, string) (*Observation, error) {
			return nil, errors.New("connection refused")
		},
	})

	got := r.Resolve(context.Background(), "2026-10-15", "London")
	assert.Equal(t, Synthetic("2026-10-15"), got)
}
