package weather

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tabletalk-ai/tabletalk/booking"
)

// DateLayout is the calendar-date format carried in booking contexts.
const DateLayout = "2006-01-02"

// The forecast upstream covers today plus this many days ahead.
const forecastHorizonDays = 5

// Resolver turns a (date, location) pair into a weather summary. It never
// fails outward: past dates, malformed dates, a missing upstream credential,
// and every transport error all degrade to the deterministic synthetic
// summary.
type Resolver struct {
	source Source // nil when no upstream credential is configured
	log    *zap.Logger
	now    func() time.Time
}

// NewResolver builds a resolver over source, which may be nil to force
// offline behavior.
func NewResolver(source Source, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{source: source, log: log, now: time.Now}
}

// Resolve returns the weather summary for the booking date at the location.
func (r *Resolver) Resolve(ctx context.Context, date, location string) booking.WeatherSummary {
	target, err := time.Parse(DateLayout, date)
	if err != nil {
		r.log.Debug("unparsable booking date, using synthetic weather", zap.String("date", date))
		return Synthetic(date)
	}

	today := r.today()
	if target.Before(today) {
		return Synthetic(date)
	}
	if r.source == nil {
		return Synthetic(date)
	}

	days := int(target.Sub(today).Hours() / 24)
	if days <= forecastHorizonDays {
		return r.fromForecast(ctx, date, location)
	}
	return r.fromCurrent(ctx, date, location)
}

func (r *Resolver) today() time.Time {
	y, m, d := r.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// fromForecast picks the forecast entry for the target date inside the
// midday window (12:00–15:00), falling back to any entry on that date, then
// to the first entry overall.
func (r *Resolver) fromForecast(ctx context.Context, date, location string) booking.WeatherSummary {
	entries, err := r.source.Forecast(ctx, location)
	if err != nil || len(entries) == 0 {
		if err != nil {
			r.log.Warn("forecast lookup failed, using synthetic weather",
				zap.String("location", location), zap.Error(err))
		}
		return Synthetic(date)
	}

	pick := entries[0]
	foundSameDay := false
	for _, e := range entries {
		if e.At.Format(DateLayout) != date {
			continue
		}
		if h := e.At.Hour(); h >= 12 && h <= 15 {
			pick = e
			foundSameDay = true
			break
		}
		if !foundSameDay {
			pick = e
			foundSameDay = true
		}
	}

	return summarize(pick, capitalizeWords(pick.Description))
}

// fromCurrent labels present conditions as an estimate, since no forecast
// reaches that far ahead.
func (r *Resolver) fromCurrent(ctx context.Context, date, location string) booking.WeatherSummary {
	obs, err := r.source.Current(ctx, location)
	if err != nil || obs == nil {
		if err != nil {
			r.log.Warn("current-weather lookup failed, using synthetic weather",
				zap.String("location", location), zap.Error(err))
		}
		return Synthetic(date)
	}
	return summarize(*obs, capitalizeWords(obs.Description)+" (Estimate)")
}

func summarize(o Observation, description string) booking.WeatherSummary {
	humidity := o.Humidity
	wind := o.WindSpeed
	return booking.WeatherSummary{
		Condition:   o.Condition,
		Temperature: o.TempC,
		Description: description,
		Icon:        o.Icon,
		Humidity:    &humidity,
		WindSpeed:   &wind,
	}
}
