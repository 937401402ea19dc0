package weather_test

import (
	"testing"

	"github.com/carlmjohnson/be"

	"farmhub/internal/core"
	"farmhub/internal/weather"
)

func day(date int, condition string, precipitation int) core.WeatherDay {
	return core.WeatherDay{Date: core.NewDate(2024, 6, date), Condition: condition, Precipitation: precipitation}
}

func TestIcon(t *testing.T) {
	tests := map[string]string{
		"Sunny":          "Sun",
		"Clear skies":    "Sun",
		"Partly Cloudy":  "CloudSun",
		"Overcast cloud": "Cloud",
		"Light Rain":     "CloudRain",
		"Thunderstorms":  "Zap",
		"Snow showers":   "Snowflake",
		"Morning mist":   "CloudFog",
		"Hail":           "Cloud",
		"":               "Cloud",
	}
	for condition, icon := range tests {
		be.Equal(t, icon, weather.Icon(condition))
	}
}

func TestColor(t *testing.T) {
	be.Equal(t, "yellow", weather.Color("Sunny"))
	be.Equal(t, "blue", weather.Color("Rain"))
	be.Equal(t, "purple", weather.Color("Thunderstorm"))
	be.Equal(t, "light-blue", weather.Color("Snow"))
	be.Equal(t, "gray", weather.Color("Fog"))
}

func TestPrecipitationLevel(t *testing.T) {
	be.Equal(t, weather.LevelError, weather.PrecipitationLevel(50))
	be.Equal(t, weather.LevelWarning, weather.PrecipitationLevel(25))
	be.Equal(t, weather.LevelWarning, weather.PrecipitationLevel(49))
	be.Equal(t, weather.LevelInfo, weather.PrecipitationLevel(24))
}

func TestAdvice(t *testing.T) {
	be.Equal(t, weather.AdviceHeavyRain, weather.Advice(day(1, "Sunny", 60)))
	be.Equal(t, weather.AdviceLightRain, weather.Advice(day(1, "Cloudy", 25)))
	be.Equal(t, weather.AdviceGreatDay, weather.Advice(day(1, "Sunny", 0)))
	be.Equal(t, weather.AdviceGood, weather.Advice(day(1, "Clear", 0)))
}

func TestBestWorkingDaysTopThree(t *testing.T) {
	days := []core.WeatherDay{
		day(1, "Sunny", 10),
		day(2, "Clear", 30),
		day(3, "Cloudy", 0),
		day(4, "Clear", 0),
		day(5, "Sunny", 24),
		day(6, "Sunny", 5),
	}
	best := weather.BestWorkingDays(days)
	be.Equal(t, 3, len(best))
	be.Equal(t, 1, best[0].Date.Day())
	be.Equal(t, 4, best[1].Date.Day())
	be.Equal(t, 5, best[2].Date.Day())

	rainy := weather.RainyDays(days)
	be.Equal(t, 1, len(rainy))
	be.Equal(t, 2, rainy[0].Date.Day())
}

func TestSummarize(t *testing.T) {
	in := weather.Summarize([]core.WeatherDay{day(10, "Light Rain", 40), day(11, "Sunny", 0)})
	be.Nonzero(t, in.Today)
	be.Equal(t, "CloudRain", in.Today.Icon)
	be.Equal(t, weather.AdviceLightRain, in.Advice)
	be.Equal(t, 1, len(in.BestWorkingDays))

	empty := weather.Summarize(nil)
	be.True(t, empty.Today == nil)
	be.Equal(t, 0, len(empty.RainyDays))
}
