package report

import (
	"time"

	"github.com/ovoronin/weather-report-bot/internal/weather"
)

// DisplayZone is the fixed UTC+8 offset applied at formatting time.
// All internal timestamps stay in UTC; only rendered wall-clock times
// use this zone.
var DisplayZone = time.FixedZone("UTC+8", 8*60*60)

const (
	maxDailyEntries = 5

	// minDailyHour picks a midday-ish entry as the representative
	// forecast for each day.
	minDailyHour = 11
)

// DailyEntry is one line of the multi-day summary block.
type DailyEntry struct {
	Date     string // "02.01"
	Weekday  string
	TempC    int
	Category string
}

var weekdayAbbrev = map[time.Weekday]string{
	time.Monday:    "ПН",
	time.Tuesday:   "ВТ",
	time.Wednesday: "СР",
	time.Thursday:  "ЧТ",
	time.Friday:    "ПТ",
	time.Saturday:  "СБ",
	time.Sunday:    "ВС",
}

// SelectDaily walks a chronological forecast and picks one entry per
// future local day: the first point at or after 11:00 local time,
// skipping today, capped at 5 distinct dates.
func SelectDaily(points weather.Forecast, now time.Time) []DailyEntry {
	today := now.In(DisplayZone).Format("02.01")
	seen := make(map[string]bool)

	var entries []DailyEntry
	for _, pt := range points {
		local := pt.Time.In(DisplayZone)
		date := local.Format("02.01")

		if seen[date] || date == today || local.Hour() < minDailyHour {
			continue
		}

		entries = append(entries, DailyEntry{
			Date:     date,
			Weekday:  weekdayAbbrev[local.Weekday()],
			TempC:    pt.TempC,
			Category: pt.Category,
		})
		seen[date] = true

		if len(entries) >= maxDailyEntries {
			break
		}
	}

	return entries
}
