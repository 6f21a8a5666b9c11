// Package refresher keeps the dashboard's forecast loop current. It runs a
// single fetch-build-publish cycle on a fixed interval and exposes the latest
// build as an atomically swapped snapshot.
package refresher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lyndonwx/dashboard-service/internal/config"
	"github.com/lyndonwx/dashboard-service/internal/domain"
	"github.com/lyndonwx/dashboard-service/internal/observability"
)

// Exponential backoff after a failed refresh: start at 1s, double each
// retry, cap at 5m. Keeps outage recovery prompt without hammering the API.
const (
	initialBackoff = time.Second
	maxBackoff     = 5 * time.Minute
)

// Refresher periodically rebuilds the forecast frame loops.
type Refresher struct {
	forecaster domain.Forecaster
	lat        float64
	lon        float64
	frameCount int
	interval   time.Duration
	logger     *slog.Logger
	metrics    *observability.Metrics

	mu    sync.RWMutex
	loops map[string]domain.FrameLoop
	ready atomic.Bool
}

// New creates a Refresher for the configured station point.
func New(f domain.Forecaster, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Refresher {
	return &Refresher{
		forecaster: f,
		lat:        cfg.ForecastLat,
		lon:        cfg.ForecastLon,
		frameCount: cfg.ForecastFrames,
		interval:   cfg.RefreshInterval,
		logger:     logger,
		metrics:    metrics,
		loops:      make(map[string]domain.FrameLoop),
	}
}

// CheckReadiness returns nil once the first refresh has succeeded, or an
// error describing why the service is not yet ready.
func (r *Refresher) CheckReadiness(_ context.Context) error {
	if !r.ready.Load() {
		return errors.New("no forecast refresh has succeeded yet")
	}
	return nil
}

// Snapshot returns the latest frame loop for a variable, if one has been built.
func (r *Refresher) Snapshot(variable string) (domain.FrameLoop, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	loop, ok := r.loops[variable]
	return loop, ok
}

// Run executes the refresh loop until the context is cancelled. Refreshes
// never overlap; a failed refresh retries with capped exponential backoff.
func (r *Refresher) Run(ctx context.Context) error {
	r.logger.Info("refresher started", "interval", r.interval, "frames", r.frameCount)
	r.metrics.RefresherRunning.Set(1)
	defer r.metrics.RefresherRunning.Set(0)

	backoff := initialBackoff
	for {
		if err := r.refresh(ctx); err != nil {
			if ctx.Err() != nil {
				r.logger.Info("refresher stopping", "reason", ctx.Err())
				return nil
			}
			r.metrics.RefreshesTotal.WithLabelValues("error").Inc()
			r.logger.Error("forecast refresh failed", "error", err, "retry_in", backoff)
			if !sleepWithContext(ctx, backoff) {
				return nil
			}
			backoff = nextBackoff(backoff)
			continue
		}

		backoff = initialBackoff
		if !sleepWithContext(ctx, r.interval) {
			r.logger.Info("refresher stopping", "reason", ctx.Err())
			return nil
		}
	}
}

// refresh runs one fetch-build-publish cycle, building a loop for every
// forecast variable from a single API response.
func (r *Refresher) refresh(ctx context.Context) error {
	start := time.Now()

	forecast, err := r.forecaster.FetchHourly(ctx, r.lat, r.lon)
	if err != nil {
		return err
	}

	loops := make(map[string]domain.FrameLoop, len(domain.ForecastVariables))
	for _, variable := range domain.ForecastVariables {
		loop, err := domain.BuildFrameLoop(forecast, variable, r.frameCount)
		if err != nil {
			return err
		}
		loops[variable] = loop
		r.metrics.FramesBuilt.Add(float64(len(loop.Frames)))
	}

	r.mu.Lock()
	r.loops = loops
	r.mu.Unlock()
	r.ready.Store(true)

	r.metrics.RefreshesTotal.WithLabelValues("success").Inc()
	r.metrics.RefreshDuration.Observe(time.Since(start).Seconds())
	r.logger.Info("forecast refreshed", "variables", len(loops), "frames", r.frameCount)
	return nil
}

func nextBackoff(current time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
