package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelvins/geocoder"

	"github.com/ovoronin/weather-report-bot/internal/weather"
)

var validate = validator.New()

// AppConfig is the immutable process configuration, constructed once at
// startup and passed by reference to every component. Nothing mutates
// it afterwards, so it needs no locking.
type AppConfig struct {
	TelegramToken     string `validate:"required"`
	OpenWeatherAPIKey string `validate:"required"`
	UnsplashAccessKey string `validate:"required"`

	// HTTPTimeout bounds every outbound provider call.
	HTTPTimeout time.Duration

	// TrendStep is how many forecast entries ahead the warming/cooling
	// comparison looks. The reference provider steps every 3 hours.
	TrendStep int

	// PrefetchInterval controls the background report prefetch job;
	// zero disables it. ReportMaxStale is how old a prefetched report
	// may be and still be served for an initial command.
	PrefetchInterval time.Duration
	ReportMaxStale   time.Duration

	// Locations to report on, in report section order.
	Locations []weather.Location

	// In-memory report history retention.
	StoreMaxHistory int
	StoreMaxAge     time.Duration

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.UnsplashAccessKey = os.Getenv("UNSPLASH_ACCESS_KEY")

	timeout, err := getenvDuration("HTTP_TIMEOUT", "5s")
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.TrendStep = getenvInt("TREND_STEP_OFFSET", 2)

	prefetch, err := getenvDuration("PREFETCH_INTERVAL", "30m")
	if err != nil {
		return nil, fmt.Errorf("invalid PREFETCH_INTERVAL: %w", err)
	}
	cfg.PrefetchInterval = prefetch

	maxStale, err := getenvDuration("REPORT_MAX_STALE", "5m")
	if err != nil {
		return nil, fmt.Errorf("invalid REPORT_MAX_STALE: %w", err)
	}
	cfg.ReportMaxStale = maxStale

	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 48)

	maxAge, err := getenvDuration("STORE_MAX_AGE", "24h")
	if err != nil {
		return nil, fmt.Errorf("invalid STORE_MAX_AGE: %w", err)
	}
	cfg.StoreMaxAge = maxAge

	cfg.Port = getenvDefault("PORT", "80")

	locs, err := loadLocations()
	if err != nil {
		return nil, err
	}
	cfg.Locations = locs

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// defaultLocations is the fixed table for the reference deployment:
// three districts of Bratsk.
func defaultLocations() []weather.Location {
	return []weather.Location{
		{Name: "Центральный район", Lat: 56.13, Lon: 101.63},
		{Name: "Район Энергетик", Lat: 56.31, Lon: 101.77},
		{Name: "Район Гидростроитель", Lat: 56.45, Lon: 101.74},
	}
}

// loadLocations parses WEATHER_LOCATIONS ("Name=lat,lon;Name2=lat,lon").
// An entry without coordinates is resolved through the Google geocoding
// API when GEOCODER_API_KEY is set.
func loadLocations() ([]weather.Location, error) {
	raw := os.Getenv("WEATHER_LOCATIONS")
	if strings.TrimSpace(raw) == "" {
		return defaultLocations(), nil
	}

	geocoder.ApiKey = os.Getenv("GEOCODER_API_KEY")

	var locs []weather.Location
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		name, coords, found := strings.Cut(part, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("location entry %q has no name", part)
		}

		if !found {
			loc, err := geocodeLocation(name)
			if err != nil {
				return nil, err
			}
			locs = append(locs, loc)
			continue
		}

		latStr, lonStr, ok := strings.Cut(coords, ",")
		if !ok {
			return nil, fmt.Errorf("location %q: coordinates must be lat,lon", name)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
		if err != nil {
			return nil, fmt.Errorf("location %q: invalid latitude: %w", name, err)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
		if err != nil {
			return nil, fmt.Errorf("location %q: invalid longitude: %w", name, err)
		}

		locs = append(locs, weather.Location{Name: name, Lat: lat, Lon: lon})
	}

	if len(locs) == 0 {
		return defaultLocations(), nil
	}
	return locs, nil
}

func geocodeLocation(name string) (weather.Location, error) {
	if geocoder.ApiKey == "" {
		return weather.Location{}, fmt.Errorf("location %q has no coordinates and GEOCODER_API_KEY is not set", name)
	}

	resolved, err := geocoder.Geocoding(geocoder.Address{City: name})
	if err != nil {
		return weather.Location{}, fmt.Errorf("geocoding %q: %w", name, err)
	}

	return weather.Location{
		Name: name,
		Lat:  resolved.Latitude,
		Lon:  resolved.Longitude,
	}, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	return time.ParseDuration(getenvDefault(key, def))
}
