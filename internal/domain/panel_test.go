package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPanels(t *testing.T) {
	panels := DefaultPanels()
	require.NoError(t, ValidatePanels(panels))
	require.Len(t, panels, 5)

	byName := make(map[string]ResourceLink, len(panels))
	for _, p := range panels {
		byName[p.Name] = p
	}

	assert.Equal(t, "https://radar.weather.gov/ridge/standard/KCXX_loop.gif", byName["radar"].URL)
	assert.Equal(t, PanelImage, byName["radar"].Kind)
	assert.Equal(t, "https://www.tropicaltidbits.com/analysis/models/", byName["gfs-ecmwf"].URL)
	assert.Equal(t, "https://www.pivotalweather.com/", byName["hrrr"].URL)
	assert.Equal(t, "https://atmos.northernvermont.edu/weather-data/weather-station/", byName["mesonet"].URL)
	assert.Equal(t, PanelFrame, byName["mesonet"].Kind)
	assert.Equal(t, PanelLoop, byName["hrrr-loop"].Kind)
}

func TestParsePanels(t *testing.T) {
	data := []byte(`
- name: radar
  label: Radar
  url: https://example.org/radar.gif
  kind: image
- name: models
  label: Models
  url: https://example.org/models/
  kind: link
`)
	panels, err := ParsePanels(data)
	require.NoError(t, err)
	require.Len(t, panels, 2)
	assert.Equal(t, "radar", panels[0].Name)
	assert.Equal(t, "https://example.org/models/", panels[1].URL)
}

func TestParsePanels_InvalidYAML(t *testing.T) {
	_, err := ParsePanels([]byte("{not yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse panels")
}

func TestValidatePanels(t *testing.T) {
	tests := []struct {
		name    string
		panels  []ResourceLink
		wantErr string
	}{
		{
			name:    "empty set",
			panels:  nil,
			wantErr: "empty",
		},
		{
			name:    "missing name",
			panels:  []ResourceLink{{URL: "https://example.org", Kind: PanelLink}},
			wantErr: "name is required",
		},
		{
			name: "duplicate name",
			panels: []ResourceLink{
				{Name: "radar", URL: "https://example.org/a", Kind: PanelImage},
				{Name: "radar", URL: "https://example.org/b", Kind: PanelImage},
			},
			wantErr: "duplicate name",
		},
		{
			name:    "missing url",
			panels:  []ResourceLink{{Name: "radar", Kind: PanelImage}},
			wantErr: "url is required",
		},
		{
			name:    "unknown kind",
			panels:  []ResourceLink{{Name: "radar", URL: "https://example.org", Kind: "video"}},
			wantErr: "unknown kind",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePanels(tt.panels)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
