package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Forecast loop configuration.
	ForecastLat      float64
	ForecastLon      float64
	ForecastVariable string
	ForecastFrames   int
	RefreshInterval  time.Duration

	// Open-Meteo client configuration.
	OpenMeteoTimeout   time.Duration
	OpenMeteoCacheSize int

	// Resource panel configuration. Empty means the built-in panel set.
	PanelsFile string

	// Report log and CoCoRaHS relay configuration.
	ReportsDBPath    string
	CoCoRaHSUsername string
	CoCoRaHSPassword string
	CoCoRaHSStation  string
	CoCoRaHSEnabled  bool
	CoCoRaHSTimeout  time.Duration

	// Report event publishing. Empty brokers disables publishing.
	KafkaBrokers     []string
	KafkaReportTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	refreshInterval, err := parseDuration("FORECAST_REFRESH_INTERVAL", "1h")
	if err != nil {
		return nil, err
	}
	openMeteoTimeout, err := parseDuration("OPENMETEO_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cocorahsTimeout, err := parseDuration("COCORAHS_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	lat, err := parseFloat("FORECAST_LAT", 44.5337)
	if err != nil {
		return nil, err
	}
	lon, err := parseFloat("FORECAST_LON", -72.0032)
	if err != nil {
		return nil, err
	}
	frames, err := parseInt("FORECAST_FRAMES", 12)
	if err != nil {
		return nil, err
	}
	cacheSize, err := parseInt("OPENMETEO_CACHE_SIZE", 64)
	if err != nil {
		return nil, err
	}

	username := os.Getenv("COCORAHS_USERNAME")
	password := os.Getenv("COCORAHS_PASSWORD")
	cocorahsEnabled := username != "" && password != ""
	if v := os.Getenv("COCORAHS_ENABLED"); v != "" {
		cocorahsEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		ForecastLat:      lat,
		ForecastLon:      lon,
		ForecastVariable: envOrDefault("FORECAST_VARIABLE", "temperature_2m"),
		ForecastFrames:   frames,
		RefreshInterval:  refreshInterval,

		OpenMeteoTimeout:   openMeteoTimeout,
		OpenMeteoCacheSize: cacheSize,

		PanelsFile: os.Getenv("PANELS_FILE"),

		ReportsDBPath:    envOrDefault("REPORTS_DB_PATH", "reports.db"),
		CoCoRaHSUsername: username,
		CoCoRaHSPassword: password,
		CoCoRaHSStation:  envOrDefault("COCORAHS_STATION", "VT-CL-14"),
		CoCoRaHSEnabled:  cocorahsEnabled,
		CoCoRaHSTimeout:  cocorahsTimeout,

		KafkaBrokers:     parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaReportTopic: envOrDefault("KAFKA_REPORTS_TOPIC", "precip-reports"),
	}

	if cfg.ForecastFrames <= 0 {
		return nil, errors.New("FORECAST_FRAMES must be positive")
	}
	if cfg.CoCoRaHSEnabled && (cfg.CoCoRaHSUsername == "" || cfg.CoCoRaHSPassword == "") {
		return nil, errors.New("COCORAHS_ENABLED is true but COCORAHS_USERNAME/COCORAHS_PASSWORD are not set")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaReportTopic == "" {
		return nil, errors.New("KAFKA_REPORTS_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// ReportsEnabled reports whether the Kafka report publisher should run.
func (c *Config) ReportsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	s := envOrDefault(key, def)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return f, nil
}

func parseBrokers(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
