package domain

import "context"

// Forecaster fetches the hourly model forecast for a station point.
type Forecaster interface {
	// FetchHourly returns the current model run's hourly series for the
	// given coordinates.
	FetchHourly(ctx context.Context, lat, lon float64) (HourlyForecast, error)
}
