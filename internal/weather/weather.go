// Package weather classifies forecast days for display and field planning.
package weather

import (
	"strings"

	"farmhub/internal/core"
)

// Precipitation thresholds in percent.
const (
	HeavyRain = 50
	LightRain = 25
)

const maxBestDays = 3

type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Advice values for the day's field work.
const (
	AdviceHeavyRain = "Heavy rain expected. Avoid field work and equipment operation. Good time for indoor planning."
	AdviceLightRain = "Light rain possible. Plan flexible schedules and avoid irrigation if rain occurs."
	AdviceGreatDay  = "Great day for field work! Perfect conditions for planting, harvesting, and equipment maintenance."
	AdviceGood      = "Good conditions for most farming activities. Monitor weather changes throughout the day."
)

func has(condition string, words ...string) bool {
	c := strings.ToLower(condition)
	for _, w := range words {
		if strings.Contains(c, w) {
			return true
		}
	}
	return false
}

// Icon picks an icon name by the first matching condition keyword.
func Icon(condition string) string {
	switch {
	case has(condition, "sunny", "clear"):
		return "Sun"
	case has(condition, "partly", "partial"):
		return "CloudSun"
	case has(condition, "cloud"):
		return "Cloud"
	case has(condition, "rain"):
		return "CloudRain"
	case has(condition, "storm", "thunder"):
		return "Zap"
	case has(condition, "snow"):
		return "Snowflake"
	case has(condition, "fog", "mist"):
		return "CloudFog"
	}
	return "Cloud"
}

func Color(condition string) string {
	switch {
	case has(condition, "sunny", "clear"):
		return "yellow"
	case has(condition, "rain"):
		return "blue"
	case has(condition, "storm"):
		return "purple"
	case has(condition, "snow"):
		return "light-blue"
	}
	return "gray"
}

func PrecipitationLevel(precipitation int) Level {
	switch {
	case precipitation >= HeavyRain:
		return LevelError
	case precipitation >= LightRain:
		return LevelWarning
	}
	return LevelInfo
}

func Advice(day core.WeatherDay) string {
	switch {
	case day.Precipitation >= HeavyRain:
		return AdviceHeavyRain
	case day.Precipitation >= LightRain:
		return AdviceLightRain
	case has(day.Condition, "sunny"):
		return AdviceGreatDay
	}
	return AdviceGood
}

// RainyDays returns the days with at least a light-rain chance.
func RainyDays(days []core.WeatherDay) []core.WeatherDay {
	out := []core.WeatherDay{}
	for _, d := range days {
		if d.Precipitation >= LightRain {
			out = append(out, d)
		}
	}
	return out
}

// BestWorkingDays returns up to three dry, sunny or clear days in forecast order.
func BestWorkingDays(days []core.WeatherDay) []core.WeatherDay {
	out := []core.WeatherDay{}
	for _, d := range days {
		if d.Precipitation < LightRain && has(d.Condition, "sunny", "clear") {
			out = append(out, d)
			if len(out) == maxBestDays {
				break
			}
		}
	}
	return out
}

// Day is a forecast day with its display classification.
type Day struct {
	core.WeatherDay
	Icon               string `json:"icon"`
	Color              string `json:"color"`
	PrecipitationLevel Level  `json:"precipitationLevel"`
}

func Describe(d core.WeatherDay) Day {
	return Day{
		WeatherDay:         d,
		Icon:               Icon(d.Condition),
		Color:              Color(d.Condition),
		PrecipitationLevel: PrecipitationLevel(d.Precipitation),
	}
}

// Insights summarises a forecast for field planning. Today is the first day.
type Insights struct {
	Today           *Day   `json:"today"`
	Advice          string `json:"advice"`
	RainyDays       []Day  `json:"rainyDays"`
	BestWorkingDays []Day  `json:"bestWorkingDays"`
}

func Summarize(days []core.WeatherDay) Insights {
	in := Insights{
		RainyDays:       describeAll(RainyDays(days)),
		BestWorkingDays: describeAll(BestWorkingDays(days)),
	}
	if len(days) > 0 {
		today := Describe(days[0])
		in.Today = &today
		in.Advice = Advice(days[0])
	}
	return in
}

func describeAll(days []core.WeatherDay) []Day {
	out := make([]Day, len(days))
	for i, d := range days {
		out[i] = Describe(d)
	}
	return out
}
