package weather

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bytedance/sonic"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5"

// OpenWeather is a Source backed by the OpenWeatherMap 5-day/3-hour forecast
// and current-weather endpoints.
type OpenWeather struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewOpenWeather builds a client for the given API key.
func NewOpenWeather(apiKey string) *OpenWeather {
	return &OpenWeather{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type owCondition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type owReading struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []owCondition `json:"weather"`
	Wind    struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

type owForecastResponse struct {
	List []owReading `json:"list"`
}

// Forecast fetches the 5-day forecast in 3-hour intervals.
func (ow *OpenWeather) Forecast(ctx context.Context, location string) ([]Observation, error) {
	var resp owForecastResponse
	if err := ow.get(ctx, "/forecast", location, &resp); err != nil {
		return nil, err
	}

	obs := make([]Observation, 0, len(resp.List))
	for _, r := range resp.List {
		obs = append(obs, r.toObservation(time.Unix(r.Dt, 0).UTC()))
	}
	return obs, nil
}

// Current fetches present conditions.
func (ow *OpenWeather) Current(ctx context.Context, location string) (*Observation, error) {
	var resp owReading
	if err := ow.get(ctx, "/weather", location, &resp); err != nil {
		return nil, err
	}
	o := resp.toObservation(time.Time{})
	return &o, nil
}

func (r owReading) toObservation(at time.Time) Observation {
	o := Observation{
		TempC:     r.Main.Temp,
		Humidity:  r.Main.Humidity,
		WindSpeed: r.Wind.Speed,
		At:        at,
	}
	if len(r.Weather) > 0 {
		o.Condition = r.Weather[0].Main
		o.Description = r.Weather[0].Description
		o.Icon = r.Weather[0].Icon
	}
	return o
}

func (ow *OpenWeather) get(ctx context.Context, path, location string, out any) error {
	q := url.Values{}
	q.Set("q", location)
	q.Set("appid", ow.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ow.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build weather request: %w", err)
	}

	resp, err := ow.client.Do(req)
	if err != nil {
		return fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("weather upstream returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read weather response: %w", err)
	}
	if err := sonic.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode weather response: %w", err)
	}
	return nil
}
