package weather

import (
	"context"
	"time"
)

// Observation is one normalized weather data point from an upstream source.
type Observation struct {
	Condition   string
	Description string
	Icon        string
	TempC       float64
	Humidity    int
	WindSpeed   float64
	At          time.Time // zero value for current-conditions observations
}

// Source provides raw weather data for a free-text location. Implementations
// may fail freely; the resolver absorbs every error. A nil observation (or
// empty forecast) with a nil error signals "no data" rather than a failure.
type Source interface {
	// Forecast returns the multi-point forecast for the next few days.
	Forecast(ctx context.Context, location string) ([]Observation, error)
	// Current returns present conditions at the location.
	Current(ctx context.Context, location string) (*Observation, error)
}
