package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	retry "github.com/avast/retry-go"
	"github.com/lyndonwx/dashboard-service/internal/domain"
	"github.com/lyndonwx/dashboard-service/internal/observability"
)

const (
	defaultBaseURL = "https://api.open-meteo.com/v1/forecast"

	// The upstream occasionally drops requests during model-run switchover;
	// five attempts with short backoff rides that out.
	maxAttempts = 5
	retryDelay  = 200 * time.Millisecond
)

// Client implements domain.Forecaster using the Open-Meteo forecast API with
// the gfs_hrrr model.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an Open-Meteo forecast client.
func NewClient(timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: defaultBaseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// FetchHourly requests the hourly HRRR series for the given coordinates in
// the station's display units (°F, mph, inches, America/New_York).
func (c *Client) FetchHourly(ctx context.Context, lat, lon float64) (domain.HourlyForecast, error) {
	params := url.Values{
		"latitude":           {fmt.Sprintf("%.4f", lat)},
		"longitude":          {fmt.Sprintf("%.4f", lon)},
		"hourly":             {strings.Join(domain.ForecastVariables, ",")},
		"models":             {"gfs_hrrr"},
		"timezone":           {"America/New_York"},
		"wind_speed_unit":    {"mph"},
		"precipitation_unit": {"inch"},
		"temperature_unit":   {"fahrenheit"},
	}

	var forecast domain.HourlyForecast
	attempt := 0
	err := retry.Do(
		func() error {
			attempt++
			if attempt > 1 {
				c.metrics.ForecastRetries.Inc()
			}
			var err error
			forecast, err = c.doRequest(ctx, c.baseURL+"?"+params.Encode())
			return err
		},
		retry.Attempts(maxAttempts),
		retry.Delay(retryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			// Do not retry after cancellation; shutdown should be prompt.
			return ctx.Err() == nil
		}),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("forecast request retrying", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		c.metrics.ForecastRequests.WithLabelValues("error").Inc()
		return domain.HourlyForecast{}, err
	}

	c.metrics.ForecastRequests.WithLabelValues("success").Inc()
	return forecast, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.HourlyForecast, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.HourlyForecast{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.HourlyForecast{}, fmt.Errorf("forecast request: %w", err)
	}
	defer resp.Body.Close()

	c.metrics.ForecastDuration.Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.HourlyForecast{}, fmt.Errorf("open-meteo API error: status %d: %s", resp.StatusCode, body)
	}

	var omResp response
	if err := json.NewDecoder(resp.Body).Decode(&omResp); err != nil {
		return domain.HourlyForecast{}, fmt.Errorf("decode response: %w", err)
	}

	return omResp.toDomain()
}

// Open-Meteo API response types. Hourly times arrive as local ISO-8601
// strings without an offset; the utc_offset_seconds field locates them.

type response struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	UTCOffsetSeconds int     `json:"utc_offset_seconds"`
	Hourly           hourly  `json:"hourly"`
}

type hourly struct {
	Time               []string  `json:"time"`
	Temperature        []float64 `json:"temperature_2m"`
	CloudCover         []float64 `json:"cloud_cover"`
	WindSpeed          []float64 `json:"wind_speed_10m"`
	SurfaceTemperature []float64 `json:"surface_temperature"`
	Precipitation      []float64 `json:"precipitation"`
}

func (r response) toDomain() (domain.HourlyForecast, error) {
	if len(r.Hourly.Time) == 0 {
		return domain.HourlyForecast{}, fmt.Errorf("open-meteo response has no hourly times")
	}

	loc := time.FixedZone("local", r.UTCOffsetSeconds)
	times := make([]time.Time, len(r.Hourly.Time))
	for i, s := range r.Hourly.Time {
		t, err := time.ParseInLocation("2006-01-02T15:04", s, loc)
		if err != nil {
			return domain.HourlyForecast{}, fmt.Errorf("parse hourly time %q: %w", s, err)
		}
		times[i] = t
	}

	return domain.HourlyForecast{
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Times:     times,
		Series: map[string][]float64{
			domain.VarTemperature:        r.Hourly.Temperature,
			domain.VarCloudCover:         r.Hourly.CloudCover,
			domain.VarWindSpeed:          r.Hourly.WindSpeed,
			domain.VarSurfaceTemperature: r.Hourly.SurfaceTemperature,
			domain.VarPrecipitation:      r.Hourly.Precipitation,
		},
	}, nil
}
