package providers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovoronin/weather-report-bot/internal/weather"
)

const (
	currentURL  = "https://api.openweathermap.org/data/2.5/weather"
	airURL      = "https://api.openweathermap.org/data/2.5/air_pollution"
	forecastURL = "https://api.openweathermap.org/data/2.5/forecast"
)

var testLocation = weather.Location{Name: "Центральный район", Lat: 56.13, Lon: 101.63}

func newTestClient(t *testing.T) *OpenWeatherClient {
	t.Helper()

	httpClient := &http.Client{Timeout: 5 * time.Second}
	httpmock.ActivateNonDefault(httpClient)
	t.Cleanup(httpmock.DeactivateAndReset)

	return NewOpenWeatherClient(httpClient, "test-key")
}

func currentSuccessBody() string {
	return `{
		"main": {"temp": -14.6, "feels_like": -20.5, "pressure": 1013, "humidity": 68},
		"wind": {"speed": 3.4},
		"weather": [{"main": "Snow", "description": "небольшой снег"}],
		"sys": {"sunrise": 1768439520, "sunset": 1768470000}
	}`
}

func TestFetchCurrentSuccess(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, currentURL,
		httpmock.NewStringResponder(http.StatusOK, currentSuccessBody()))

	got, err := client.FetchCurrent(context.Background(), testLocation)
	require.NoError(t, err)

	assert.Equal(t, -15, got.TempC)
	assert.Equal(t, -21, got.FeelsLikeC)
	assert.Equal(t, 760, got.PressureMmHg)
	assert.Equal(t, 68, got.Humidity)
	assert.Equal(t, 3, got.WindMS)
	assert.Equal(t, "небольшой снег", got.Description)
	assert.Equal(t, "Snow", got.Category)
	assert.Equal(t, time.Unix(1768439520, 0).UTC(), got.Sunrise)
	assert.Equal(t, time.Unix(1768470000, 0).UTC(), got.Sunset)
}

func TestFetchCurrentMissingConditions(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, currentURL,
		httpmock.NewStringResponder(http.StatusOK, `{"main": {"temp": 1}, "weather": []}`))

	_, err := client.FetchCurrent(context.Background(), testLocation)
	require.Error(t, err)

	var provErr *weather.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "Центральный район", provErr.Location)
	assert.Equal(t, "current conditions", provErr.Op)
}

func TestFetchCurrentServerError(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, currentURL,
		httpmock.NewStringResponder(http.StatusInternalServerError, "oops"))

	_, err := client.FetchCurrent(context.Background(), testLocation)
	require.Error(t, err)
	assert.ErrorIs(t, err, errServerError)
}

func TestFetchCurrentNoAPIKey(t *testing.T) {
	httpClient := &http.Client{Timeout: 5 * time.Second}
	client := NewOpenWeatherClient(httpClient, "")

	_, err := client.FetchCurrent(context.Background(), testLocation)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key is not configured")
}

func TestFetchAirQualitySuccess(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, airURL,
		httpmock.NewStringResponder(http.StatusOK, `{"list": [{"main": {"aqi": 3}}]}`))

	got, err := client.FetchAirQuality(context.Background(), testLocation)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Index)
}

func TestFetchAirQualityEmptyList(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, airURL,
		httpmock.NewStringResponder(http.StatusOK, `{"list": []}`))

	_, err := client.FetchAirQuality(context.Background(), testLocation)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no air quality entries")
}

func TestFetchForecastSuccess(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, forecastURL,
		httpmock.NewStringResponder(http.StatusOK, `{
			"list": [
				{"dt": 1768464000, "main": {"temp": -12.2}, "weather": [{"main": "Snow"}]},
				{"dt": 1768474800, "main": {"temp": -10.7}, "weather": []}
			]
		}`))

	got, err := client.FetchForecast(context.Background(), testLocation)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, time.Unix(1768464000, 0).UTC(), got[0].Time)
	assert.Equal(t, -12, got[0].TempC)
	assert.Equal(t, "Snow", got[0].Category)

	// Entries without a condition keep an empty category; the report
	// layer renders the default pictogram for it.
	assert.Equal(t, -11, got[1].TempC)
	assert.Equal(t, "", got[1].Category)
}

func TestFetchForecastEmptyList(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, forecastURL,
		httpmock.NewStringResponder(http.StatusOK, `{"list": []}`))

	_, err := client.FetchForecast(context.Background(), testLocation)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty forecast list")
}

func TestFetchNetworkError(t *testing.T) {
	client := newTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, currentURL,
		httpmock.NewErrorResponder(errors.New("connection refused")))

	_, err := client.FetchCurrent(context.Background(), testLocation)
	require.Error(t, err)

	var provErr *weather.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "openweathermap", provErr.Provider)
}
