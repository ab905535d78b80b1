package weather

import "strings"

// IconCode is an OpenWeather condition icon code. Codes outside the known
// set parse to IconUnknown.
type IconCode string

// OpenWeather icon codes, day and night variants
const (
	IconClearDay             IconCode = "01d"
	IconClearNight           IconCode = "01n"
	IconFewCloudsDay         IconCode = "02d"
	IconFewCloudsNight       IconCode = "02n"
	IconScatteredCloudsDay   IconCode = "03d"
	IconScatteredCloudsNight IconCode = "03n"
	IconBrokenCloudsDay      IconCode = "04d"
	IconBrokenCloudsNight    IconCode = "04n"
	IconShowerRainDay        IconCode = "09d"
	IconShowerRainNight      IconCode = "09n"
	IconRainDay              IconCode = "10d"
	IconRainNight            IconCode = "10n"
	IconThunderstormDay      IconCode = "11d"
	IconThunderstormNight    IconCode = "11n"
	IconSnowDay              IconCode = "13d"
	IconSnowNight            IconCode = "13n"
	IconUnknown              IconCode = "unknown"
)

// IconDescription maps icon codes to generic descriptions, worded the way
// the provider words them.
var IconDescription = map[IconCode]string{
	IconClearDay:             "clear sky",
	IconClearNight:           "clear sky",
	IconFewCloudsDay:         "few clouds",
	IconFewCloudsNight:       "few clouds",
	IconScatteredCloudsDay:   "scattered clouds",
	IconScatteredCloudsNight: "scattered clouds",
	IconBrokenCloudsDay:      "broken clouds",
	IconBrokenCloudsNight:    "broken clouds",
	IconShowerRainDay:        "shower rain",
	IconShowerRainNight:      "shower rain",
	IconRainDay:              "rain",
	IconRainNight:            "rain",
	IconThunderstormDay:      "thunderstorm",
	IconThunderstormNight:    "thunderstorm",
	IconSnowDay:              "snow",
	IconSnowNight:            "snow",
	IconUnknown:              "unknown",
}

// ParseIconCode converts a provider icon string to an IconCode. Mist
// (50d/50n) and any other unlisted code return IconUnknown.
func ParseIconCode(code string) IconCode {
	switch c := IconCode(strings.ToLower(strings.TrimSpace(code))); c {
	case IconClearDay, IconClearNight,
		IconFewCloudsDay, IconFewCloudsNight,
		IconScatteredCloudsDay, IconScatteredCloudsNight,
		IconBrokenCloudsDay, IconBrokenCloudsNight,
		IconShowerRainDay, IconShowerRainNight,
		IconRainDay, IconRainNight,
		IconThunderstormDay, IconThunderstormNight,
		IconSnowDay, IconSnowNight:
		return c
	default:
		return IconUnknown
	}
}
