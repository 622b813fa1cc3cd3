package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_TOKEN", "test-token")
	t.Setenv("OPENWEATHER_API_KEY", "test-weather-key")
	t.Setenv("UNSPLASH_ACCESS_KEY", "test-photo-key")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 2, cfg.TrendStep)
	assert.Equal(t, 30*time.Minute, cfg.PrefetchInterval)
	assert.Equal(t, 5*time.Minute, cfg.ReportMaxStale)
	assert.Equal(t, "80", cfg.Port)

	require.Len(t, cfg.Locations, 3)
	assert.Equal(t, "Центральный район", cfg.Locations[0].Name)
	assert.InDelta(t, 56.13, cfg.Locations[0].Lat, 0.001)
	assert.InDelta(t, 101.63, cfg.Locations[0].Lon, 0.001)
}

func TestLoadMissingRequiredKeys(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("OPENWEATHER_API_KEY", "")
	t.Setenv("UNSPLASH_ACCESS_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestLoadCustomLocations(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("WEATHER_LOCATIONS", "Иркутск=52.28,104.28; Ангарск=52.54,103.89")

	cfg, err := Load()
	require.NoError(t, err)

	require.Len(t, cfg.Locations, 2)
	assert.Equal(t, "Иркутск", cfg.Locations[0].Name)
	assert.InDelta(t, 52.28, cfg.Locations[0].Lat, 0.001)
	assert.Equal(t, "Ангарск", cfg.Locations[1].Name)
	assert.InDelta(t, 103.89, cfg.Locations[1].Lon, 0.001)
}

func TestLoadLocationsBadCoordinates(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("WEATHER_LOCATIONS", "Иркутск=52.28")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "coordinates must be lat,lon")
}

func TestLoadLocationsGeocoderRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("WEATHER_LOCATIONS", "Иркутск")
	t.Setenv("GEOCODER_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEOCODER_API_KEY is not set")
}

func TestLoadInvalidDuration(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HTTP_TIMEOUT", "not-a-duration")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid HTTP_TIMEOUT")
}
