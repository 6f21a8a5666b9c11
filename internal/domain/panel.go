package domain

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Render kinds for panel entries. Images become <img> embeds, frames become
// <iframe> embeds, links render as plain anchors, and the loop kind is the
// locally generated HRRR frame loop driven by /api/frames.
const (
	PanelImage = "image"
	PanelFrame = "frame"
	PanelLink  = "link"
	PanelLoop  = "loop"
)

// ResourceLink is one entry of the external resource panel: a named, passive
// embed of an externally hosted weather product. Entries are fixed at startup
// and never mutated at runtime.
type ResourceLink struct {
	Name  string `yaml:"name" json:"name"`
	Label string `yaml:"label" json:"label"`
	URL   string `yaml:"url" json:"url"`
	Kind  string `yaml:"kind" json:"kind"`
}

// DefaultPanels returns the built-in panel set: the five regions the page has
// always shown, in display order.
func DefaultPanels() []ResourceLink {
	return []ResourceLink{
		{
			Name:  "radar",
			Label: "NWS Burlington Radar Loop",
			URL:   "https://radar.weather.gov/ridge/standard/KCXX_loop.gif",
			Kind:  PanelImage,
		},
		{
			Name:  "gfs-ecmwf",
			Label: "GFS / ECMWF Model Imagery",
			URL:   "https://www.tropicaltidbits.com/analysis/models/",
			Kind:  PanelLink,
		},
		{
			Name:  "hrrr",
			Label: "HRRR Imagery",
			URL:   "https://www.pivotalweather.com/",
			Kind:  PanelLink,
		},
		{
			Name:  "hrrr-loop",
			Label: "Campus HRRR Forecast Loop",
			URL:   "/api/frames",
			Kind:  PanelLoop,
		},
		{
			Name:  "mesonet",
			Label: "Mesonet Station Data",
			URL:   "https://atmos.northernvermont.edu/weather-data/weather-station/",
			Kind:  PanelFrame,
		},
	}
}

// ParsePanels decodes a YAML panel list and validates it. A configured file
// replaces the built-in set wholesale.
func ParsePanels(data []byte) ([]ResourceLink, error) {
	var panels []ResourceLink
	if err := yaml.Unmarshal(data, &panels); err != nil {
		return nil, fmt.Errorf("parse panels: %w", err)
	}
	if err := ValidatePanels(panels); err != nil {
		return nil, err
	}
	return panels, nil
}

// ValidatePanels enforces the panel invariants: at least one entry, every
// entry named with a URL and a known kind, and no duplicate names.
func ValidatePanels(panels []ResourceLink) error {
	if len(panels) == 0 {
		return fmt.Errorf("panel set is empty")
	}
	seen := make(map[string]bool, len(panels))
	for i, p := range panels {
		if p.Name == "" {
			return fmt.Errorf("panel %d: name is required", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("panel %q: duplicate name", p.Name)
		}
		seen[p.Name] = true
		if p.URL == "" {
			return fmt.Errorf("panel %q: url is required", p.Name)
		}
		switch p.Kind {
		case PanelImage, PanelFrame, PanelLink, PanelLoop:
		default:
			return fmt.Errorf("panel %q: unknown kind %q", p.Name, p.Kind)
		}
	}
	return nil
}
