// Package geolocation determines the position used to seed an empty
// dashboard. A lookup either yields coordinates, fails, or is unsupported
// by the configured provider.
package geolocation

import (
	"context"
	"fmt"

	"github.com/tphakala/weatherboard/internal/conf"
	"github.com/tphakala/weatherboard/internal/errors"
	"github.com/tphakala/weatherboard/internal/httpclient"
	"github.com/tphakala/weatherboard/internal/logger"
)

// Status is the outcome of a location lookup.
type Status int

const (
	StatusLocated Status = iota
	StatusFailed
	StatusUnsupported
)

func (s Status) String() string {
	switch s {
	case StatusLocated:
		return "located"
	case StatusFailed:
		return "failed"
	case StatusUnsupported:
		return "unsupported"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Coordinates is a position in decimal degrees.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Result is the single outcome of a lookup. Coordinates are only set when
// Status is StatusLocated; Err is set for StatusFailed.
type Result struct {
	Status      Status
	Coordinates Coordinates
	Err         error
}

// Locator performs one location lookup.
type Locator interface {
	Locate(ctx context.Context) Result
}

// Await runs the lookup in the background and delivers exactly one result on
// the returned channel. If ctx ends first the result is StatusFailed.
func Await(ctx context.Context, l Locator) <-chan Result {
	out := make(chan Result, 1)
	inner := make(chan Result, 1)

	go func() {
		inner <- l.Locate(ctx)
	}()

	go func() {
		select {
		case res := <-inner:
			out <- res
		case <-ctx.Done():
			out <- Failed(ctx.Err())
		}
	}()
	return out
}

// Located returns a successful result.
func Located(lat, lon float64) Result {
	return Result{Status: StatusLocated, Coordinates: Coordinates{Latitude: lat, Longitude: lon}}
}

// Failed returns a failed result caused by err.
func Failed(err error) Result {
	return Result{Status: StatusFailed, Err: err}
}

// unsupportedLocator is used when no location source is available.
type unsupportedLocator struct{}

func (unsupportedLocator) Locate(context.Context) Result {
	return Result{Status: StatusUnsupported}
}

// Unsupported is the locator for systems without a location source.
var Unsupported Locator = unsupportedLocator{}

// StaticLocator returns configured coordinates.
type StaticLocator struct {
	Latitude  float64
	Longitude float64
}

// Locate implements Locator. Zero coordinates count as not configured.
func (s StaticLocator) Locate(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return Failed(err)
	}
	if s.Latitude == 0 && s.Longitude == 0 {
		return Failed(errors.Newf("static location not configured").
			Component("geolocation").
			Category(errors.CategoryConfiguration).
			Build())
	}
	return Located(s.Latitude, s.Longitude)
}

// FromSettings returns the locator selected by location.provider.
func FromSettings(settings *conf.Settings, client *httpclient.Client, log logger.Logger) Locator {
	switch settings.Location.Provider {
	case "static":
		return StaticLocator{Latitude: settings.Location.Latitude, Longitude: settings.Location.Longitude}
	case "ip":
		return NewIPLocator(client, settings.Location.Endpoint, log)
	default:
		return Unsupported
	}
}
