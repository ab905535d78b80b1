package geolocation

import (
	"context"
	"fmt"

	"github.com/antonholmquist/jason"

	"github.com/tphakala/weatherboard/internal/errors"
	"github.com/tphakala/weatherboard/internal/httpclient"
	"github.com/tphakala/weatherboard/internal/logger"
	"github.com/tphakala/weatherboard/internal/privacy"
)

// IPLocator approximates the position from the public IP address using an
// ip-api.com compatible JSON endpoint.
type IPLocator struct {
	client   *httpclient.Client
	endpoint string
	log      logger.Logger
}

// NewIPLocator creates an IP based locator.
func NewIPLocator(client *httpclient.Client, endpoint string, log logger.Logger) *IPLocator {
	if log == nil {
		log = logger.Global().Module("geolocation")
	}
	return &IPLocator{client: client, endpoint: endpoint, log: log}
}

// Locate implements Locator.
func (l *IPLocator) Locate(ctx context.Context) Result {
	body, err := l.client.GetBody(ctx, l.endpoint)
	if err != nil {
		l.log.Warn("IP geolocation request failed", logger.String("endpoint", privacy.ScrubMessage(l.endpoint)), logger.Error(err))
		return Failed(err)
	}

	obj, err := jason.NewObjectFromBytes(body)
	if err != nil {
		return Failed(l.parseError(err))
	}

	// ip-api reports lookup failures in-band
	if status, err := obj.GetString("status"); err == nil && status != "success" {
		message, _ := obj.GetString("message")
		return Failed(errors.Newf("ip geolocation failed: %s", message).
			Component("geolocation").
			Category(errors.CategoryIntegration).
			Context("status", status).
			Build())
	}

	lat, err := obj.GetFloat64("lat")
	if err != nil {
		return Failed(l.parseError(fmt.Errorf("missing latitude: %w", err)))
	}
	lon, err := obj.GetFloat64("lon")
	if err != nil {
		return Failed(l.parseError(fmt.Errorf("missing longitude: %w", err)))
	}

	city, _ := obj.GetString("city")
	l.log.Debug("Located by IP address",
		logger.String("city", city),
		logger.Float64("latitude", lat),
		logger.Float64("longitude", lon))
	return Located(lat, lon)
}

func (l *IPLocator) parseError(err error) error {
	return errors.New(err).
		Component("geolocation").
		Category(errors.CategoryFileParsing).
		Context("endpoint", l.endpoint).
		Build()
}
