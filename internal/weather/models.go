package weather

import (
	"math"
	"time"
)

// hPaToMmHg is the fixed conversion factor used to display provider
// pressure (hPa) in millimetres of mercury.
const hPaToMmHg = 0.75006

// Location represents a named geographic point the bot reports on.
// The set of locations is fixed at startup; iteration order defines
// the order of sections in the generated report.
type Location struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// CurrentConditions is the normalized view of the current weather at a
// location. Temperatures are rounded to whole degrees Celsius and the
// pressure is already converted to mmHg. Sunrise and Sunset are UTC
// instants; callers apply the display offset at formatting time.
type CurrentConditions struct {
	TempC        int       `json:"tempC"`
	FeelsLikeC   int       `json:"feelsLikeC"`
	PressureMmHg int       `json:"pressureMmHg"`
	Humidity     int       `json:"humidityPercent"`
	WindMS       int       `json:"windMs"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Sunrise      time.Time `json:"sunrise"`
	Sunset       time.Time `json:"sunset"`
}

// AirQuality carries the provider's 1-5 ordinal air quality index.
// Values outside that range render as "no data" in the report.
type AirQuality struct {
	Index int `json:"index"`
}

// ForecastPoint is a single entry of the provider's forecast sequence.
// The reference provider yields one point every 3 hours.
type ForecastPoint struct {
	Time     time.Time `json:"time"`
	TempC    int       `json:"tempC"`
	Category string    `json:"category"`
}

// Forecast is a chronological sequence of forecast points.
type Forecast []ForecastPoint

// PressureToMmHg converts a provider pressure in hPa to rounded mmHg.
func PressureToMmHg(hpa float64) int {
	return int(math.Round(hpa * hPaToMmHg))
}

// RoundTemp rounds a provider temperature to whole degrees Celsius.
func RoundTemp(t float64) int {
	return int(math.Round(t))
}
