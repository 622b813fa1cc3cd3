package report

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/ovoronin/weather-report-bot/internal/weather"
)

const (
	nameUnderline  = "▬▬▬▬▬▬▬▬▬▬▬▬▬▬\n"
	blockSeparator = "⎯⎯⎯⎯⎯⎯⎯⎯⎯⎯\n\n"

	// defaultTrendStep is how many forecast entries ahead the
	// warming/cooling comparison looks, about 9 hours at the
	// provider's 3-hour cadence. The offset is in forecast steps, not
	// hours: if the provider cadence changes, the window changes with
	// it.
	defaultTrendStep = 2

	trendThreshold = 2
)

// Synthesizer turns raw provider data into the formatted report text.
type Synthesizer struct {
	client    weather.Client
	trendStep int
}

func NewSynthesizer(client weather.Client, trendStep int) *Synthesizer {
	if trendStep <= 0 {
		trendStep = defaultTrendStep
	}
	return &Synthesizer{
		client:    client,
		trendStep: trendStep,
	}
}

// BuildFullReport renders one weather block per location, in configured
// order, followed by the multi-day summary anchored at the first
// location. It never fails: a provider error degrades the affected
// location to a short error block, and a failed summary fetch omits the
// summary section entirely.
func (s *Synthesizer) BuildFullReport(ctx context.Context, locations []weather.Location) string {
	var b strings.Builder

	for _, loc := range locations {
		b.WriteString(s.locationBlock(ctx, loc))
		b.WriteString(blockSeparator)
	}

	if len(locations) > 0 {
		if daily, ok := s.dailyBlock(ctx, locations[0]); ok {
			b.WriteString(daily)
		}
	}

	return b.String()
}

// locationBlock fetches current conditions, air quality and the short
// forecast window for one location. Any failure collapses the whole
// block to an error placeholder so the rest of the report can proceed.
func (s *Synthesizer) locationBlock(ctx context.Context, loc weather.Location) string {
	current, err := s.client.FetchCurrent(ctx, loc)
	if err != nil {
		log.Printf("report: current conditions failed for %s: %v", loc.Name, err)
		return errorBlock(loc)
	}

	air, err := s.client.FetchAirQuality(ctx, loc)
	if err != nil {
		log.Printf("report: air quality failed for %s: %v", loc.Name, err)
		return errorBlock(loc)
	}

	forecast, err := s.client.FetchForecast(ctx, loc)
	if err != nil {
		log.Printf("report: forecast failed for %s: %v", loc.Name, err)
		return errorBlock(loc)
	}

	return formatBlock(loc, current, air, trendNote(current.TempC, forecast, s.trendStep))
}

// dailyBlock renders the multi-day summary. The boolean result is false
// when the forecast is unavailable; the caller then omits the section.
func (s *Synthesizer) dailyBlock(ctx context.Context, loc weather.Location) (string, bool) {
	forecast, err := s.client.FetchForecast(ctx, loc)
	if err != nil {
		log.Printf("report: 5-day forecast unavailable for %s: %v", loc.Name, err)
		return "", false
	}

	entries := SelectDaily(forecast, time.Now().UTC())
	if len(entries) == 0 {
		return "", false
	}

	var b strings.Builder
	b.WriteString("📅 **ПРОГНОЗ НА 5 ДНЕЙ:**\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "▪️ %s (%s): %+d°C %s\n", e.Date, e.Weekday, e.TempC, ConditionIcon(e.Category))
	}
	return b.String(), true
}

// trendNote compares the current temperature against the forecast entry
// step lookups ahead. A delta above +2 produces a warming note, below
// -2 a cooling note, anything in between no note at all.
func trendNote(currentTempC int, forecast weather.Forecast, step int) string {
	if step < 0 || step >= len(forecast) {
		return ""
	}
	delta := forecast[step].TempC - currentTempC
	switch {
	case delta > trendThreshold:
		return "\n📈 Ожидается потепление"
	case delta < -trendThreshold:
		return "\n📉 Станет холоднее"
	}
	return ""
}

func formatBlock(loc weather.Location, cur weather.CurrentConditions, air weather.AirQuality, trend string) string {
	aqiIcon, aqiLabel := AirQualityInfo(air.Index)

	var b strings.Builder
	fmt.Fprintf(&b, "🏙 **%s**\n", strings.ToUpper(loc.Name))
	b.WriteString(nameUnderline)
	fmt.Fprintf(&b, "%s **%+d°C** (ощущается как %+d°C)\n", ConditionIcon(cur.Category), cur.TempC, cur.FeelsLikeC)
	fmt.Fprintf(&b, "💬 %s%s\n\n", capitalize(cur.Description), trend)
	fmt.Fprintf(&b, "💧 Влажность: %d%% | 📉 %d мм\n", cur.Humidity, cur.PressureMmHg)
	fmt.Fprintf(&b, "💨 Ветер: %d м/с | 🏭 Воздух: %s %s\n", cur.WindMS, aqiIcon, aqiLabel)
	fmt.Fprintf(&b, "🌅 %s — 🌇 %s\n",
		cur.Sunrise.In(DisplayZone).Format("15:04"),
		cur.Sunset.In(DisplayZone).Format("15:04"))
	return b.String()
}

func errorBlock(loc weather.Location) string {
	return fmt.Sprintf("🏙 **%s**: ⚠️ Ошибка данных\n", loc.Name)
}

// Header renders the "generated at" line prefixed to every delivered
// report. The timestamp is the report's generation time, which for a
// prefetched report may be earlier than the send time.
func Header(generatedAt time.Time) string {
	return fmt.Sprintf("🕒 Обновлено: %s\n\n", generatedAt.In(DisplayZone).Format("15:04"))
}

// capitalize upper-cases the first rune; provider descriptions arrive
// all lower-case.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
