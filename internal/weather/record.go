package weather

import "slices"

// Summary describes a weather condition as reported by the provider.
type Summary struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Code returns the parsed icon code of the summary.
func (s Summary) Code() IconCode {
	return ParseIconCode(s.Icon)
}

// Current holds current conditions in metric units.
type Current struct {
	Temp       float64 `json:"temp"`
	FeelsLike  float64 `json:"feels_like"`
	Humidity   int     `json:"humidity"`   // percent
	WindSpeed  float64 `json:"wind_speed"` // m/s
	Visibility int     `json:"visibility"` // meters
	Weather    Summary `json:"weather"`
}

// DayForecast is the representative forecast entry for one day label.
type DayForecast struct {
	Date    string  `json:"date"` // short weekday label, e.g. "Mon"
	TempMax float64 `json:"temp_max"`
	TempMin float64 `json:"temp_min"`
	Weather Summary `json:"weather"`
}

// Record is one tracked city with current conditions and a short forecast.
// The JSON form is the persisted city list format.
type Record struct {
	ID       int64         `json:"id"`
	Name     string        `json:"name"`
	Country  string        `json:"country"`
	Current  Current       `json:"current"`
	Forecast []DayForecast `json:"forecast"`
}

// Clone returns a deep copy of r.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	c.Forecast = slices.Clone(r.Forecast)
	return &c
}
