package refresher_test

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lyndonwx/dashboard-service/internal/config"
	"github.com/lyndonwx/dashboard-service/internal/domain"
	"github.com/lyndonwx/dashboard-service/internal/observability"
	"github.com/lyndonwx/dashboard-service/internal/refresher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockForecaster struct {
	calls    atomic.Int64
	failures int64 // fail the first N calls
	forecast domain.HourlyForecast
}

func (m *mockForecaster) FetchHourly(_ context.Context, _, _ float64) (domain.HourlyForecast, error) {
	n := m.calls.Add(1)
	if n <= m.failures {
		return domain.HourlyForecast{}, errors.New("upstream down")
	}
	return m.forecast, nil
}

func fullForecast(hours int) domain.HourlyForecast {
	base := time.Date(2026, time.January, 15, 6, 0, 0, 0, time.UTC)
	times := make([]time.Time, hours)
	for i := range times {
		times[i] = base.Add(time.Duration(i) * time.Hour)
	}
	series := make(map[string][]float64, len(domain.ForecastVariables))
	for _, v := range domain.ForecastVariables {
		values := make([]float64, hours)
		for i := range values {
			values[i] = float64(i)
		}
		series[v] = values
	}
	return domain.HourlyForecast{Latitude: 44.5337, Longitude: -72.0032, Times: times, Series: series}
}

func testConfig() *config.Config {
	return &config.Config{
		ForecastLat:     44.5337,
		ForecastLon:     -72.0032,
		ForecastFrames:  12,
		RefreshInterval: time.Hour, // a single refresh per test run
	}
}

func newRefresher(f domain.Forecaster) *refresher.Refresher {
	return refresher.New(f, testConfig(), slog.Default(), observability.NewMetricsForTesting())
}

// --- tests ---

func TestRun_PublishesSnapshotForEveryVariable(t *testing.T) {
	fc := &mockForecaster{forecast: fullForecast(24)}
	r := newRefresher(fc)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	require.NoError(t, r.Run(ctx))
	require.NoError(t, r.CheckReadiness(context.Background()))
	assert.Equal(t, int64(1), fc.calls.Load(), "one fetch serves all variables")

	for _, variable := range domain.ForecastVariables {
		loop, ok := r.Snapshot(variable)
		require.True(t, ok, variable)
		assert.Equal(t, variable, loop.Variable)
		assert.Len(t, loop.Frames, 12)
	}
}

func TestRun_NotReadyBeforeFirstSuccess(t *testing.T) {
	r := newRefresher(&mockForecaster{forecast: fullForecast(24)})

	require.Error(t, r.CheckReadiness(context.Background()))
	_, ok := r.Snapshot(domain.VarTemperature)
	assert.False(t, ok)
}

func TestRun_RetriesAfterFailure(t *testing.T) {
	fc := &mockForecaster{failures: 1, forecast: fullForecast(24)}
	r := newRefresher(fc)

	// First attempt fails, backoff is 1s; allow enough wall time for the retry.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, r.Run(ctx))
	require.NoError(t, r.CheckReadiness(context.Background()))
	assert.Equal(t, int64(2), fc.calls.Load())
}

func TestRun_ContextCancellation(t *testing.T) {
	fc := &mockForecaster{forecast: fullForecast(24)}
	r := newRefresher(fc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, r.Run(ctx))
}

func TestRun_ShortForecastIsARefreshError(t *testing.T) {
	fc := &mockForecaster{forecast: fullForecast(6)} // fewer hours than frames
	r := newRefresher(fc)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	require.NoError(t, r.Run(ctx))
	require.Error(t, r.CheckReadiness(context.Background()))
}

func TestSnapshot_UnknownVariable(t *testing.T) {
	fc := &mockForecaster{forecast: fullForecast(24)}
	r := newRefresher(fc)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	require.NoError(t, r.Run(ctx))

	_, ok := r.Snapshot("dew_point")
	assert.False(t, ok)
}
