package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/ovoronin/weather-report-bot/internal/store"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, st *store.MemoryStore) {
	// Liveness probe for the hosting platform.
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Weather Bot is Running")
	})

	v1 := app.Group("/api/v1")

	v1.Get("/report/latest", func(c *fiber.Ctx) error {
		latest, err := st.Latest()
		if err != nil {
			if errors.Is(err, store.ErrEmpty) {
				return fiber.NewError(fiber.StatusNotFound, "no report generated yet")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch report")
		}
		return c.JSON(latest)
	})

	v1.Get("/report/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		reports, err := st.Range(req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrEmpty) {
				return fiber.NewError(fiber.StatusNotFound, "no reports in requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch report history")
		}

		return c.JSON(fiber.Map{
			"from":    req.From,
			"to":      req.To,
			"reports": reports,
		})
	})
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
