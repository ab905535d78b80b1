package dashboard

import (
	"context"

	"github.com/tphakala/weatherboard/internal/geolocation"
	"github.com/tphakala/weatherboard/internal/logger"
	"github.com/tphakala/weatherboard/internal/observability/metrics"
	"github.com/tphakala/weatherboard/internal/weather"
)

// BootstrapResult describes how startup seeded the dashboard.
type BootstrapResult struct {
	// Outcome is RESTORED, RESTORE_FAILED, LOCATED, LOCATION_FAILED or
	// LOCATION_UNSUPPORTED.
	Outcome Phase
	// Added is the record fetched for the located position, if any.
	Added *weather.Record
	// Err is the store, location or weather error behind a failed outcome.
	// A LOCATED outcome with Err set means the position was found but its
	// weather could not be fetched.
	Err error
}

// Failed reports whether bootstrap hit an error, including a weather fetch
// failure after a successful location lookup.
func (r BootstrapResult) Failed() bool {
	return r.Err != nil
}

// Bootstrap seeds the dashboard at startup. Persisted cities win; otherwise
// the locator is asked for a position and its weather is added. It runs at
// most once per Controller and later calls return the first result.
func (c *Controller) Bootstrap(ctx context.Context) BootstrapResult {
	c.bootstrapOnce.Do(func() {
		c.bootstrapResult = c.bootstrap(withTrace(ctx))
	})
	return c.bootstrapResult
}

func (c *Controller) bootstrap(ctx context.Context) BootstrapResult {
	log := c.log.WithContext(ctx)

	restored, err := c.Restore(ctx)
	if err != nil {
		c.finish(PhaseRestoreFailed, MsgLoadFailed)
		c.recordOperation(metrics.OpBootstrap, string(PhaseRestoreFailed))
		return BootstrapResult{Outcome: PhaseRestoreFailed, Err: err}
	}
	if restored {
		c.finish(PhaseRestored, "")
		c.recordOperation(metrics.OpBootstrap, string(PhaseRestored))
		return BootstrapResult{Outcome: PhaseRestored}
	}

	c.mu.Lock()
	c.state = c.state.withBanner("")
	c.state.Locating = true
	c.setPhaseLocked(PhaseLocating)
	c.mu.Unlock()
	log.Info("Locating for initial weather")

	var res geolocation.Result
	select {
	case res = <-geolocation.Await(ctx, c.locator):
	case <-ctx.Done():
		res = geolocation.Failed(ctx.Err())
	}

	var result BootstrapResult
	switch res.Status {
	case geolocation.StatusUnsupported:
		log.Info("Location lookup not supported")
		c.recordOperation(metrics.OpLocate, res.Status.String())
		c.finish(PhaseLocationUnsupported, MsgLocationUnsupported)
		result = BootstrapResult{Outcome: PhaseLocationUnsupported}

	case geolocation.StatusFailed:
		log.Warn("Location lookup failed", logger.Error(res.Err))
		c.recordOperation(metrics.OpLocate, res.Status.String())
		c.finish(PhaseLocationFailed, MsgLocationFailed)
		result = BootstrapResult{Outcome: PhaseLocationFailed, Err: res.Err}

	default:
		c.recordOperation(metrics.OpLocate, res.Status.String())
		result = c.addLocated(ctx, res.Coordinates)
	}

	c.recordOperation(metrics.OpBootstrap, string(result.Outcome))
	return result
}

// addLocated fetches weather for the located position and appends it unless
// the same city is already tracked.
func (c *Controller) addLocated(ctx context.Context, pos geolocation.Coordinates) BootstrapResult {
	log := c.log.WithContext(ctx)

	record, err := c.fetcher.Fetch(ctx, weather.CoordinatesQuery(pos.Latitude, pos.Longitude))
	if err != nil {
		log.Warn("Failed to fetch weather for location",
			logger.Float64("lat", pos.Latitude), logger.Float64("lon", pos.Longitude), logger.Error(err))
		c.finish(PhaseLocated, MsgLocationFetchFailed)
		return BootstrapResult{Outcome: PhaseLocated, Err: err}
	}

	c.mu.Lock()
	added := !c.state.HasID(record.ID)
	c.state = c.state.withBanner("")
	if added {
		c.state = c.state.withRecord(*record)
		c.persistLocked(ctx)
	}
	records := c.state.Clone().Records
	banner := c.state.Banner
	c.mu.Unlock()
	c.finish(PhaseLocated, banner)

	if !added {
		log.Info("Located city already tracked", logger.Int64("city_id", record.ID))
		return BootstrapResult{Outcome: PhaseLocated}
	}
	log.Info("Added weather for location", logger.String("city", record.Name), logger.Int64("city_id", record.ID))
	c.notify(ctx, records)
	return BootstrapResult{Outcome: PhaseLocated, Added: record.Clone()}
}

// finish records the branch outcome, sets the banner and moves to READY.
func (c *Controller) finish(outcome Phase, banner string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = c.state.withBanner(banner)
	c.state.Locating = false
	c.setPhaseLocked(outcome)
	c.state.InitialLoad = false
	c.setPhaseLocked(PhaseReady)
}

// setPhaseLocked moves to phase and reports the transition. c.mu must be held.
func (c *Controller) setPhaseLocked(phase Phase) {
	c.state = c.state.withPhase(phase)
	if c.onPhase != nil {
		c.onPhase(phase)
	}
}
