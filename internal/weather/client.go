package weather

import (
	"context"
	"fmt"
)

// Client abstracts the upstream weather data source (e.g. OpenWeatherMap).
// Each call performs a single bounded-timeout request; there are no
// retries inside one report flow.
type Client interface {
	FetchCurrent(ctx context.Context, loc Location) (CurrentConditions, error)
	FetchAirQuality(ctx context.Context, loc Location) (AirQuality, error)
	FetchForecast(ctx context.Context, loc Location) (Forecast, error)
}

// ProviderError wraps a failed provider call with the location and
// operation it was serving, so the synthesis layer can degrade that
// location's report block without losing the underlying cause.
type ProviderError struct {
	Provider string
	Location string
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s for %s: %v", e.Provider, e.Op, e.Location, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
