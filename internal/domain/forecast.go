package domain

import (
	"fmt"
	"time"
)

// Hourly forecast variables, named as the Open-Meteo API names them.
const (
	VarTemperature        = "temperature_2m"
	VarCloudCover         = "cloud_cover"
	VarWindSpeed          = "wind_speed_10m"
	VarSurfaceTemperature = "surface_temperature"
	VarPrecipitation      = "precipitation"
)

// ForecastVariables lists every hourly variable requested from the model,
// in the order the client asks for them.
var ForecastVariables = []string{
	VarTemperature,
	VarCloudCover,
	VarWindSpeed,
	VarSurfaceTemperature,
	VarPrecipitation,
}

// ValidVariable reports whether name is a known forecast variable.
func ValidVariable(name string) bool {
	for _, v := range ForecastVariables {
		if v == name {
			return true
		}
	}
	return false
}

// HourlyForecast is one model run's hourly series for the station point.
// Series values are keyed by variable name; every series is aligned with Times.
type HourlyForecast struct {
	Latitude  float64
	Longitude float64
	Times     []time.Time
	Series    map[string][]float64
}

// ValuesFor returns the hourly series for a variable, or an error if the
// model response did not include it.
func (f HourlyForecast) ValuesFor(variable string) ([]float64, error) {
	values, ok := f.Series[variable]
	if !ok {
		return nil, fmt.Errorf("forecast has no %q series", variable)
	}
	if len(values) != len(f.Times) {
		return nil, fmt.Errorf("forecast %q series has %d values for %d times", variable, len(values), len(f.Times))
	}
	return values, nil
}
