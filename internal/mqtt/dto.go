package mqtt

import (
	"math"
	"time"

	"github.com/tphakala/weatherboard/internal/weather"
)

// CityListDTO is the payload published whenever the city list changes.
//
// Field names are part of the MQTT payload contract consumed by home
// automation rules.
type CityListDTO struct {
	UpdatedAt string    `json:"updatedAt"` // RFC 3339
	Count     int       `json:"count"`
	Cities    []CityDTO `json:"cities"`
}

// CityDTO summarises one tracked city.
type CityDTO struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Country     string  `json:"country"`
	Temperature float64 `json:"temperature"` // °C, one decimal
	FeelsLike   float64 `json:"feelsLike"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"` // m/s
	Condition   string  `json:"condition"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
}

// NewCityListDTO builds the payload for records at time now.
func NewCityListDTO(records []weather.Record, now time.Time) *CityListDTO {
	dto := &CityListDTO{
		UpdatedAt: now.Format(time.RFC3339),
		Count:     len(records),
		Cities:    make([]CityDTO, 0, len(records)),
	}
	for i := range records {
		r := &records[i]
		dto.Cities = append(dto.Cities, CityDTO{
			ID:          r.ID,
			Name:        r.Name,
			Country:     r.Country,
			Temperature: oneDecimal(r.Current.Temp),
			FeelsLike:   oneDecimal(r.Current.FeelsLike),
			Humidity:    r.Current.Humidity,
			WindSpeed:   r.Current.WindSpeed,
			Condition:   r.Current.Weather.Main,
			Description: r.Current.Weather.Description,
			Icon:        string(r.Current.Weather.Code()),
		})
	}
	return dto
}

func oneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
