package weather

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tphakala/weatherboard/internal/errors"
	"github.com/tphakala/weatherboard/internal/httpclient"
	"github.com/tphakala/weatherboard/internal/logger"
	"github.com/tphakala/weatherboard/internal/observability/metrics"
	"github.com/tphakala/weatherboard/internal/privacy"
)

// OpenWeatherResponse represents the current weather payload of the
// OpenWeather 2.5 API
type OpenWeatherResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Coord struct {
		Lon float64 `json:"lon"`
		Lat float64 `json:"lat"`
	} `json:"coord"`
	Weather []openWeatherCondition `json:"weather"`
	Main    struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Visibility int `json:"visibility"`
	Wind       struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Dt  int64 `json:"dt"`
	Sys struct {
		Country string `json:"country"`
	} `json:"sys"`
}

// OpenWeatherForecastResponse represents the 5 day / 3 hour forecast payload
type OpenWeatherForecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			TempMin float64 `json:"temp_min"`
			TempMax float64 `json:"temp_max"`
		} `json:"main"`
		Weather []openWeatherCondition `json:"weather"`
	} `json:"list"`
}

type openWeatherCondition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func (c openWeatherCondition) summary() Summary {
	return Summary{Main: c.Main, Description: c.Description, Icon: c.Icon}
}

// OpenWeatherConfig configures an OpenWeatherProvider.
type OpenWeatherConfig struct {
	APIKey   string
	Endpoint string // base URL, e.g. https://api.openweathermap.org/data/2.5
	Language string
}

// OpenWeatherProvider fetches current conditions and forecasts from
// OpenWeather. Units are always metric.
type OpenWeatherProvider struct {
	client   *httpclient.Client
	endpoint string
	apiKey   string
	language string
	metrics  *metrics.WeatherMetrics
	log      logger.Logger
}

// NewOpenWeatherProvider creates a new OpenWeather provider
func NewOpenWeatherProvider(client *httpclient.Client, cfg OpenWeatherConfig, m *metrics.WeatherMetrics, log logger.Logger) *OpenWeatherProvider {
	if log == nil {
		log = logger.Global().Module("weather")
	}
	return &OpenWeatherProvider{
		client:   client,
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:   cfg.APIKey,
		language: cfg.Language,
		metrics:  m,
		log:      log,
	}
}

// Name implements Provider
func (p *OpenWeatherProvider) Name() string { return providerOpenWeather }

// CurrentConditions implements Provider
func (p *OpenWeatherProvider) CurrentConditions(ctx context.Context, q Query) (*Observation, error) {
	var data OpenWeatherResponse
	if err := p.get(ctx, "weather", q, &data); err != nil {
		return nil, err
	}

	// Safety check for weather data
	if len(data.Weather) == 0 {
		return nil, newWeatherError(fmt.Errorf("no weather conditions returned from API"),
			errors.CategoryFileParsing, "current_conditions", providerOpenWeather)
	}

	return &Observation{
		CityID:      data.ID,
		City:        data.Name,
		Country:     data.Sys.Country,
		Time:        time.Unix(data.Dt, 0),
		Coordinates: Coordinates{Latitude: data.Coord.Lat, Longitude: data.Coord.Lon},
		Temperature: data.Main.Temp,
		FeelsLike:   data.Main.FeelsLike,
		Humidity:    data.Main.Humidity,
		WindSpeed:   data.Wind.Speed,
		Visibility:  data.Visibility,
		Summary:     data.Weather[0].summary(),
	}, nil
}

// Forecast implements Provider
func (p *OpenWeatherProvider) Forecast(ctx context.Context, q Query) ([]ForecastEntry, error) {
	var data OpenWeatherForecastResponse
	if err := p.get(ctx, "forecast", q, &data); err != nil {
		return nil, err
	}

	entries := make([]ForecastEntry, 0, len(data.List))
	for i, item := range data.List {
		if len(item.Weather) == 0 {
			return nil, errors.Newf("forecast entry %d has no weather conditions", i).
				Component("weather").
				Category(errors.CategoryFileParsing).
				Context("operation", "forecast").
				Context("provider", providerOpenWeather).
				Build()
		}
		entries = append(entries, ForecastEntry{
			Time:    time.Unix(item.Dt, 0),
			TempMax: item.Main.TempMax,
			TempMin: item.Main.TempMin,
			Summary: item.Weather[0].summary(),
		})
	}
	return entries, nil
}

// get calls {endpoint}/{path} for q and decodes the JSON response into target.
func (p *OpenWeatherProvider) get(ctx context.Context, path string, q Query, target any) error {
	values := q.values()
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")
	if p.language != "" {
		values.Set("lang", p.language)
	}
	requestURL := p.endpoint + "/" + path + "?" + values.Encode()

	start := time.Now()
	err := p.client.GetJSON(ctx, requestURL, target)
	elapsed := time.Since(start)

	if p.metrics != nil {
		p.metrics.RecordWeatherProviderRequest(providerOpenWeather, path, statusCode(err), elapsed.Seconds())
	}

	if err != nil {
		p.log.Debug("OpenWeather request failed",
			logger.String("url", privacy.ScrubMessage(requestURL)),
			logger.Duration("duration", elapsed),
			logger.Error(err))
		return newWeatherError(privacy.WrapError(err), categoryOf(err, errors.CategoryNetwork), path, providerOpenWeather)
	}

	p.log.Trace("OpenWeather request completed",
		logger.String("url", privacy.ScrubMessage(requestURL)),
		logger.Duration("duration", elapsed))
	return nil
}

// statusCode extracts the HTTP status of a provider call, 0 when the
// request failed before a response was read.
func statusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	if errors.IsCategory(err, errors.CategoryFileParsing) {
		return http.StatusOK
	}
	return 0
}
