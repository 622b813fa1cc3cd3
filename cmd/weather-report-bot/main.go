package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/ovoronin/weather-report-bot/internal/api/http"
	"github.com/ovoronin/weather-report-bot/internal/bot"
	"github.com/ovoronin/weather-report-bot/internal/config"
	"github.com/ovoronin/weather-report-bot/internal/photo"
	"github.com/ovoronin/weather-report-bot/internal/report"
	"github.com/ovoronin/weather-report-bot/internal/scheduler"
	"github.com/ovoronin/weather-report-bot/internal/store"
	"github.com/ovoronin/weather-report-bot/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// In-memory report history with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	// Weather and photo provider clients.
	weatherClient := providers.NewOpenWeatherClient(httpClient, cfg.OpenWeatherAPIKey)
	photoClient := photo.NewClient(httpClient, cfg.UnsplashAccessKey)

	// Core report synthesis.
	synth := report.NewSynthesizer(weatherClient, cfg.TrendStep)

	// Background report prefetch.
	sched := scheduler.New(cfg.Locations, cfg.PrefetchInterval, synth, memStore)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weather-report-bot",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Health probe and read-only report API.
	httpapi.RegisterRoutes(app, memStore)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telegram gateway: the second long-lived loop, independent of the
	// health listener.
	gateway, err := bot.New(cfg.TelegramToken, synth, photoClient, memStore, cfg.Locations, cfg.ReportMaxStale)
	if err != nil {
		log.Fatalf("failed to start telegram bot: %v", err)
	}

	go func() {
		if err := gateway.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("telegram gateway stopped: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
