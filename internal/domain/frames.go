package domain

import (
	"fmt"
	"time"
)

// DefaultFrameCount is the length of the standard 12-hour forecast loop.
const DefaultFrameCount = 12

// Frame is one step of the forecast loop: a single hourly value with its
// display color and caption, ready for the page's loop script to render.
type Frame struct {
	Index     int       `json:"index"`
	ValidTime time.Time `json:"valid_time"`
	Value     float64   `json:"value"`
	Color     string    `json:"color"`
	Caption   string    `json:"caption"`
}

// FrameLoop is the full payload served by /api/frames and written by the
// genframes tool.
type FrameLoop struct {
	Variable    string       `json:"variable"`
	Title       string       `json:"title"`
	Station     Geo          `json:"station"`
	Legend      []LegendStep `json:"legend"`
	Frames      []Frame      `json:"frames"`
	GeneratedAt time.Time    `json:"generated_at"`
}

// Geo is a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// LegendStep maps one color band to its human-readable range label.
type LegendStep struct {
	Color string `json:"color"`
	Label string `json:"label"`
}

// BuildFrameLoop extracts count hourly frames for one variable from a
// forecast. It fails if the forecast is shorter than the requested loop.
func BuildFrameLoop(f HourlyForecast, variable string, count int) (FrameLoop, error) {
	if count <= 0 {
		count = DefaultFrameCount
	}
	values, err := f.ValuesFor(variable)
	if err != nil {
		return FrameLoop{}, err
	}
	if len(values) < count {
		return FrameLoop{}, fmt.Errorf("forecast has %d hours, need %d", len(values), count)
	}

	frames := make([]Frame, count)
	for i := 0; i < count; i++ {
		frames[i] = Frame{
			Index:     i,
			ValidTime: f.Times[i],
			Value:     values[i],
			Color:     ColorForValue(variable, values[i]),
			Caption:   fmt.Sprintf("Valid %s | Forecast Hour +%02d", f.Times[i].Format("Mon Jan 02, 2006 - 15:04 MST"), i),
		}
	}

	return FrameLoop{
		Variable:    variable,
		Title:       FrameTitle(variable, values[0]),
		Station:     Geo{Lat: f.Latitude, Lon: f.Longitude},
		Legend:      LegendFor(variable),
		Frames:      frames,
		GeneratedAt: clock.Now().UTC(),
	}, nil
}

// ColorForValue returns the display color for a value on the station's
// per-variable scale. Unknown variables get a neutral gray.
func ColorForValue(variable string, value float64) string {
	switch variable {
	case VarTemperature, VarSurfaceTemperature:
		switch {
		case value < 0:
			return "#0066ff"
		case value < 20:
			return "#00ccff"
		case value < 32:
			return "#00ff00"
		case value < 50:
			return "#ffff00"
		case value < 70:
			return "#ff8800"
		case value < 85:
			return "#ff4400"
		default:
			return "#ff0000"
		}
	case VarPrecipitation:
		switch {
		case value < 0.01:
			return "#64b4ff" // trace
		case value < 0.1:
			return "#00d632"
		case value < 0.25:
			return "#ffff00"
		case value < 0.5:
			return "#ff8800"
		case value < 1.0:
			return "#ff0000"
		default:
			return "#8b0000"
		}
	case VarCloudCover:
		switch {
		case value < 20:
			return "#FFD700" // sunny
		case value < 50:
			return "#87CEEB"
		case value < 80:
			return "#b0b0b0"
		default:
			return "#505050"
		}
	case VarWindSpeed:
		switch {
		case value < 5:
			return "#00aa00"
		case value < 10:
			return "#55dd00"
		case value < 15:
			return "#ffff00"
		case value < 20:
			return "#ff9900"
		case value < 25:
			return "#ff5500"
		default:
			return "#ff0000"
		}
	}
	return "#888888"
}

// FrameTitle formats the loop header for a variable and its current value.
func FrameTitle(variable string, value float64) string {
	var label string
	switch variable {
	case VarTemperature:
		label = fmt.Sprintf("Temperature: %.1f°F", value)
	case VarSurfaceTemperature:
		label = fmt.Sprintf("Surface Temperature: %.1f°F", value)
	case VarPrecipitation:
		label = fmt.Sprintf("Precipitation: %.3f in", value)
	case VarCloudCover:
		label = fmt.Sprintf("Cloud Cover: %.0f%%", value)
	case VarWindSpeed:
		label = fmt.Sprintf("Wind Speed: %.1f mph", value)
	default:
		label = variable
	}
	return "HRRR Forecast | Vermont & Eastern NY | " + label
}

// LegendFor returns the color scale legend for a variable, in band order.
func LegendFor(variable string) []LegendStep {
	switch variable {
	case VarTemperature, VarSurfaceTemperature:
		return []LegendStep{
			{"#0066ff", "< 0°F"},
			{"#00ccff", "0-20°F"},
			{"#00ff00", "20-32°F"},
			{"#ffff00", "32-50°F"},
			{"#ff8800", "50-70°F"},
			{"#ff4400", "70-85°F"},
			{"#ff0000", "> 85°F"},
		}
	case VarPrecipitation:
		return []LegendStep{
			{"#64b4ff", "Trace"},
			{"#00d632", `0.01-0.1"`},
			{"#ffff00", `0.1-0.25"`},
			{"#ff8800", `0.25-0.5"`},
			{"#ff0000", `0.5-1.0"`},
			{"#8b0000", `> 1.0"`},
		}
	case VarCloudCover:
		return []LegendStep{
			{"#FFD700", "Clear (0-20%)"},
			{"#87CEEB", "Partly Cloudy (20-50%)"},
			{"#b0b0b0", "Mostly Cloudy (50-80%)"},
			{"#505050", "Overcast (80-100%)"},
		}
	case VarWindSpeed:
		return []LegendStep{
			{"#00aa00", "0-5 mph"},
			{"#55dd00", "5-10 mph"},
			{"#ffff00", "10-15 mph"},
			{"#ff9900", "15-20 mph"},
			{"#ff5500", "20-25 mph"},
			{"#ff0000", "> 25 mph"},
		}
	}
	return nil
}
