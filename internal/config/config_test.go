package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
style:
  marker_color: "#ff0000"
  polygon_filled: false
documents:
  - name: districts
    path: testdata/districts.geojson
    tag: district
  - name: parks
    path: testdata/parks.geojson
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Len(t, cfg.Documents, 2)
	assert.Equal(t, "districts", cfg.Documents[0].Name)
	assert.Equal(t, "district", cfg.Documents[0].Tag)
	assert.Empty(t, cfg.Documents[1].Tag)

	assert.Equal(t, "#ff0000", cfg.Style.MarkerColor)
	assert.False(t, cfg.Style.Filled())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestStyleMerged(t *testing.T) {
	def := DefaultStyle()

	merged := Style{MarkerColor: "#123456"}.Merged()
	assert.Equal(t, "#123456", merged.MarkerColor)
	assert.Equal(t, def.MarkerIcon, merged.MarkerIcon)
	assert.Equal(t, def.PolylineColor, merged.PolylineColor)
	assert.Equal(t, def.PolylineWidth, merged.PolylineWidth)
	assert.Equal(t, def.PolygonBorderColor, merged.PolygonBorderColor)
	assert.Equal(t, def.PolygonFillColor, merged.PolygonFillColor)
	assert.Equal(t, def.PolygonBorderWidth, merged.PolygonBorderWidth)
	assert.True(t, merged.Filled())
}

func TestStyleFilledDefaultsTrue(t *testing.T) {
	assert.True(t, Style{}.Filled())

	f := false
	assert.False(t, Style{PolygonFilled: &f}.Filled())
}
