package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ovoronin/weather-report-bot/internal/weather"
	"github.com/sony/gobreaker"
)

// OpenWeatherClient implements the weather.Client interface for
// OpenWeatherMap: current conditions, air pollution and the
// 5-day/3-hour forecast.
type OpenWeatherClient struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherClient(client *http.Client, apiKey string) *OpenWeatherClient {
	return &OpenWeatherClient{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5",
		client:  client,
		circuit: newCircuitBreaker("openweather"),
	}
}

func (p *OpenWeatherClient) Name() string {
	return p.name
}

func (p *OpenWeatherClient) buildRequest(path string, loc weather.Location, metric bool) func() (*http.Request, error) {
	return func() (*http.Request, error) {
		values := url.Values{}
		values.Set("appid", p.apiKey)
		values.Set("lat", fmt.Sprintf("%f", loc.Lat))
		values.Set("lon", fmt.Sprintf("%f", loc.Lon))
		if metric {
			values.Set("units", "metric")
			values.Set("lang", "ru")
		}

		u := fmt.Sprintf("%s%s?%s", p.baseURL, path, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}
}

func (p *OpenWeatherClient) fail(loc weather.Location, op string, err error) error {
	return &weather.ProviderError{Provider: p.name, Location: loc.Name, Op: op, Err: err}
}

// FetchCurrent requests current conditions for the location and
// normalizes them for report rendering.
func (p *OpenWeatherClient) FetchCurrent(ctx context.Context, loc weather.Location) (weather.CurrentConditions, error) {
	const op = "current conditions"

	if p.apiKey == "" {
		return weather.CurrentConditions{}, p.fail(loc, op, fmt.Errorf("openweather api key is not configured"))
	}

	resp, err := doRequest(ctx, p.client, p.circuit, p.buildRequest("/weather", loc, true))
	if err != nil {
		return weather.CurrentConditions{}, p.fail(loc, op, err)
	}
	defer resp.Body.Close()

	var payload struct {
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Pressure  float64 `json:"pressure"`
			Humidity  int     `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Weather []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
		} `json:"weather"`
		Sys struct {
			Sunrise int64 `json:"sunrise"`
			Sunset  int64 `json:"sunset"`
		} `json:"sys"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.CurrentConditions{}, p.fail(loc, op, err)
	}
	if len(payload.Weather) == 0 {
		return weather.CurrentConditions{}, p.fail(loc, op, fmt.Errorf("no weather conditions in response"))
	}

	return weather.CurrentConditions{
		TempC:        weather.RoundTemp(payload.Main.Temp),
		FeelsLikeC:   weather.RoundTemp(payload.Main.FeelsLike),
		PressureMmHg: weather.PressureToMmHg(payload.Main.Pressure),
		Humidity:     payload.Main.Humidity,
		WindMS:       weather.RoundTemp(payload.Wind.Speed),
		Description:  payload.Weather[0].Description,
		Category:     payload.Weather[0].Main,
		Sunrise:      time.Unix(payload.Sys.Sunrise, 0).UTC(),
		Sunset:       time.Unix(payload.Sys.Sunset, 0).UTC(),
	}, nil
}

// FetchAirQuality requests the air pollution index for the location.
func (p *OpenWeatherClient) FetchAirQuality(ctx context.Context, loc weather.Location) (weather.AirQuality, error) {
	const op = "air quality"

	if p.apiKey == "" {
		return weather.AirQuality{}, p.fail(loc, op, fmt.Errorf("openweather api key is not configured"))
	}

	resp, err := doRequest(ctx, p.client, p.circuit, p.buildRequest("/air_pollution", loc, false))
	if err != nil {
		return weather.AirQuality{}, p.fail(loc, op, err)
	}
	defer resp.Body.Close()

	var payload struct {
		List []struct {
			Main struct {
				AQI int `json:"aqi"`
			} `json:"main"`
		} `json:"list"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.AirQuality{}, p.fail(loc, op, err)
	}
	if len(payload.List) == 0 {
		return weather.AirQuality{}, p.fail(loc, op, fmt.Errorf("no air quality entries in response"))
	}

	return weather.AirQuality{Index: payload.List[0].Main.AQI}, nil
}

// FetchForecast requests the 5-day/3-hour forecast for the location
// and returns it as a chronological sequence of forecast points.
func (p *OpenWeatherClient) FetchForecast(ctx context.Context, loc weather.Location) (weather.Forecast, error) {
	const op = "forecast"

	if p.apiKey == "" {
		return nil, p.fail(loc, op, fmt.Errorf("openweather api key is not configured"))
	}

	resp, err := doRequest(ctx, p.client, p.circuit, p.buildRequest("/forecast", loc, true))
	if err != nil {
		return nil, p.fail(loc, op, err)
	}
	defer resp.Body.Close()

	var payload struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				Temp float64 `json:"temp"`
			} `json:"main"`
			Weather []struct {
				Main string `json:"main"`
			} `json:"weather"`
		} `json:"list"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, p.fail(loc, op, err)
	}
	if len(payload.List) == 0 {
		return nil, p.fail(loc, op, fmt.Errorf("empty forecast list in response"))
	}

	forecast := make(weather.Forecast, 0, len(payload.List))
	for _, entry := range payload.List {
		category := ""
		if len(entry.Weather) > 0 {
			category = entry.Weather[0].Main
		}
		forecast = append(forecast, weather.ForecastPoint{
			Time:     time.Unix(entry.Dt, 0).UTC(),
			TempC:    weather.RoundTemp(entry.Main.Temp),
			Category: category,
		})
	}

	return forecast, nil
}
