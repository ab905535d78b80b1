package weather

import (
	"context"
	"time"
)

// Provider represents a weather data provider. CurrentConditions and
// Forecast are separate calls so the service controls their ordering.
type Provider interface {
	Name() string
	CurrentConditions(ctx context.Context, q Query) (*Observation, error)
	Forecast(ctx context.Context, q Query) ([]ForecastEntry, error)
}

// Observation is the provider-neutral result of a current conditions call.
type Observation struct {
	CityID      int64
	City        string
	Country     string
	Time        time.Time
	Coordinates Coordinates
	Temperature float64
	FeelsLike   float64
	Humidity    int
	WindSpeed   float64
	Visibility  int
	Summary     Summary
}

// ForecastEntry is one time step of a provider forecast.
type ForecastEntry struct {
	Time    time.Time
	TempMax float64
	TempMin float64
	Summary Summary
}
