package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)

	assert.Equal(t, 44.5337, cfg.ForecastLat)
	assert.Equal(t, -72.0032, cfg.ForecastLon)
	assert.Equal(t, "temperature_2m", cfg.ForecastVariable)
	assert.Equal(t, 12, cfg.ForecastFrames)
	assert.Equal(t, time.Hour, cfg.RefreshInterval)

	assert.Equal(t, 10*time.Second, cfg.OpenMeteoTimeout)
	assert.Equal(t, 64, cfg.OpenMeteoCacheSize)

	assert.Empty(t, cfg.PanelsFile)

	assert.Equal(t, "reports.db", cfg.ReportsDBPath)
	assert.Equal(t, "VT-CL-14", cfg.CoCoRaHSStation)
	assert.False(t, cfg.CoCoRaHSEnabled)
	assert.Equal(t, 30*time.Second, cfg.CoCoRaHSTimeout)

	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "precip-reports", cfg.KafkaReportTopic)
	assert.False(t, cfg.ReportsEnabled())
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("FORECAST_LAT", "44.476")
	t.Setenv("FORECAST_LON", "-73.212")
	t.Setenv("FORECAST_VARIABLE", "precipitation")
	t.Setenv("FORECAST_FRAMES", "6")
	t.Setenv("FORECAST_REFRESH_INTERVAL", "15m")
	t.Setenv("OPENMETEO_TIMEOUT", "5s")
	t.Setenv("OPENMETEO_CACHE_SIZE", "8")
	t.Setenv("PANELS_FILE", "panels.yaml")
	t.Setenv("REPORTS_DB_PATH", "/var/lib/dashboard/reports.db")
	t.Setenv("COCORAHS_USERNAME", "observer")
	t.Setenv("COCORAHS_PASSWORD", "secret")
	t.Setenv("COCORAHS_STATION", "VT-CL-99")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_REPORTS_TOPIC", "reports")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 44.476, cfg.ForecastLat)
	assert.Equal(t, -73.212, cfg.ForecastLon)
	assert.Equal(t, "precipitation", cfg.ForecastVariable)
	assert.Equal(t, 6, cfg.ForecastFrames)
	assert.Equal(t, 15*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, 5*time.Second, cfg.OpenMeteoTimeout)
	assert.Equal(t, 8, cfg.OpenMeteoCacheSize)
	assert.Equal(t, "panels.yaml", cfg.PanelsFile)
	assert.Equal(t, "/var/lib/dashboard/reports.db", cfg.ReportsDBPath)
	assert.True(t, cfg.CoCoRaHSEnabled)
	assert.Equal(t, "VT-CL-99", cfg.CoCoRaHSStation)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "reports", cfg.KafkaReportTopic)
	assert.True(t, cfg.ReportsEnabled())
}

func TestLoad_CoCoRaHSDisabledWithoutCredentials(t *testing.T) {
	t.Setenv("COCORAHS_USERNAME", "observer")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.CoCoRaHSEnabled, "password missing, relay should stay disabled")
}

func TestLoad_CoCoRaHSEnabledWithoutCredentials(t *testing.T) {
	t.Setenv("COCORAHS_ENABLED", "true")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COCORAHS_USERNAME")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"SHUTDOWN_TIMEOUT", "never"},
		{"FORECAST_REFRESH_INTERVAL", "-1h"},
		{"FORECAST_REFRESH_INTERVAL", "0s"},
		{"OPENMETEO_TIMEOUT", "0s"},
		{"FORECAST_LAT", "north"},
		{"FORECAST_FRAMES", "dozen"},
		{"FORECAST_FRAMES", "0"},
		{"OPENMETEO_CACHE_SIZE", "big"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}
