package weather

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tphakala/weatherboard/internal/errors"
)

// Coordinates is a geographic position in decimal degrees.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Query selects the location to fetch weather for: either a city name with
// an optional ISO country code, or coordinates.
type Query struct {
	City        string
	Country     string
	Coordinates *Coordinates
}

// CityQuery builds a query for a city name and optional country code.
func CityQuery(city, country string) Query {
	return Query{City: strings.TrimSpace(city), Country: strings.TrimSpace(country)}
}

// CoordinatesQuery builds a query for a position.
func CoordinatesQuery(lat, lon float64) Query {
	return Query{Coordinates: &Coordinates{Latitude: lat, Longitude: lon}}
}

// ErrEmptyQuery is returned for queries with neither a city nor coordinates.
var ErrEmptyQuery = errors.NewStd("empty weather query")

// Validate checks that the query names a location.
func (q Query) Validate() error {
	if q.Coordinates != nil {
		if q.Coordinates.Latitude < -90 || q.Coordinates.Latitude > 90 ||
			q.Coordinates.Longitude < -180 || q.Coordinates.Longitude > 180 {
			return errors.Newf("coordinates out of range: %s", q).
				Component("weather").
				Category(errors.CategoryValidation).
				Build()
		}
		return nil
	}
	if q.City == "" {
		return errors.New(ErrEmptyQuery).
			Component("weather").
			Category(errors.CategoryValidation).
			Build()
	}
	return nil
}

// String returns "city" or "city,CC" for name queries and "lat,lon" for
// coordinate queries.
func (q Query) String() string {
	if q.Coordinates != nil {
		return fmt.Sprintf("%.4f,%.4f", q.Coordinates.Latitude, q.Coordinates.Longitude)
	}
	if q.Country != "" {
		return q.City + "," + q.Country
	}
	return q.City
}

// cacheKey normalizes the query so equivalent lookups share a cache entry.
func (q Query) cacheKey() string {
	if q.Coordinates != nil {
		return fmt.Sprintf("coords:%.3f,%.3f", q.Coordinates.Latitude, q.Coordinates.Longitude)
	}
	return "city:" + strings.ToLower(q.String())
}

// values returns the location parameters of a provider request.
func (q Query) values() url.Values {
	v := url.Values{}
	if q.Coordinates != nil {
		v.Set("lat", strconv.FormatFloat(q.Coordinates.Latitude, 'f', -1, 64))
		v.Set("lon", strconv.FormatFloat(q.Coordinates.Longitude, 'f', -1, 64))
		return v
	}
	v.Set("q", q.String())
	return v
}
