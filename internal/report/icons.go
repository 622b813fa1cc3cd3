package report

// conditionIcons maps OpenWeather condition categories to the pictogram
// shown next to the temperature.
var conditionIcons = map[string]string{
	"Clear":        "☀️",
	"Clouds":       "☁️",
	"Rain":         "🌧",
	"Snow":         "❄️",
	"Drizzle":      "🌦",
	"Thunderstorm": "⛈",
	"Mist":         "🌫",
	"Smoke":        "💨",
}

// defaultConditionIcon covers categories the table does not know.
const defaultConditionIcon = "🌡"

// ConditionIcon returns the pictogram for a condition category.
func ConditionIcon(category string) string {
	if icon, ok := conditionIcons[category]; ok {
		return icon
	}
	return defaultConditionIcon
}

type aqiInfo struct {
	Icon  string
	Label string
}

// aqiTable maps the provider's 1-5 air quality index to a pictogram and
// a short label.
var aqiTable = map[int]aqiInfo{
	1: {"✅", "Чисто"},
	2: {"✅", "Норма"},
	3: {"🟨", "Умеренно"},
	4: {"🟧", "Смог"},
	5: {"🟥", "Опасно"},
}

var aqiUnknown = aqiInfo{"⚪", "Нет данных"}

// AirQualityInfo returns the pictogram and label for an air quality
// index. Indexes outside 1-5 map to the "no data" pair.
func AirQualityInfo(index int) (icon, label string) {
	if info, ok := aqiTable[index]; ok {
		return info.Icon, info.Label
	}
	return aqiUnknown.Icon, aqiUnknown.Label
}
