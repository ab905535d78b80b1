package weather

import (
	"github.com/tphakala/weatherboard/internal/errors"
)

const (
	// MaxForecastDays is the number of distinct days kept from a forecast.
	MaxForecastDays = 3

	providerOpenWeather = "openweather"
)

// newWeatherError creates a standardized weather error with common fields
func newWeatherError(err error, category errors.ErrorCategory, operation, provider string) error {
	return errors.New(err).
		Component("weather").
		Category(category).
		Context("operation", operation).
		Context("provider", provider).
		Build()
}

// categoryOf keeps the category of an enhanced error, falling back to
// fallback for plain errors.
func categoryOf(err error, fallback errors.ErrorCategory) errors.ErrorCategory {
	var ee *errors.EnhancedError
	if errors.As(err, &ee) {
		return ee.Category
	}
	return fallback
}
