package raster

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/geolayers/internal/geojson"
)

func TestRenderFilledPolygon(t *testing.T) {
	p := geojson.New(geojson.Options{})
	_, err := p.Parse([]byte(`{"type": "FeatureCollection", "features": [{
		"geometry": {
			"type": "Polygon",
			"coordinates": [[[0, 0], [10, 0], [10, 10], [0, 10], [0, 0]]]
		},
		"properties": {}
	}]}`))
	require.NoError(t, err)

	// force a deterministic fill without supersampling
	p.Polygons[0].FillColor = "#ff0000"
	p.Polygons[0].BorderColor = "#ff0000"

	img, err := Render(p, Options{Width: 100, Height: 100, Oversample: 1})
	require.NoError(t, err)

	b := img.Bounds()
	assert.Equal(t, 100, b.Dx())
	assert.Equal(t, 100, b.Dy())

	center := img.RGBAAt(b.Dx()/2, b.Dy()/2)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, center)

	corner := img.RGBAAt(1, 1)
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, corner, "background should stay untouched outside the polygon")
}

func TestRenderHolePunched(t *testing.T) {
	p := geojson.New(geojson.Options{})
	_, err := p.Parse([]byte(`{"type": "FeatureCollection", "features": [{
		"geometry": {
			"type": "Polygon",
			"coordinates": [
				[[0, 0], [10, 0], [10, 10], [0, 10], [0, 0]],
				[[4, 4], [6, 4], [6, 6], [4, 6], [4, 4]]
			]
		},
		"properties": {}
	}]}`))
	require.NoError(t, err)

	p.Polygons[0].FillColor = "#00ff00"
	p.Polygons[0].BorderWidth = 1

	img, err := Render(p, Options{Width: 200, Height: 200, Oversample: 1})
	require.NoError(t, err)

	// hole center keeps the background
	center := img.RGBAAt(100, 100)
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, center)
}

func TestRenderEmptyLayers(t *testing.T) {
	p := geojson.New(geojson.Options{})

	_, err := Render(p, Options{})
	assert.Error(t, err)
}

func TestRenderMarkersAndLines(t *testing.T) {
	p := geojson.New(geojson.Options{})
	_, err := p.Parse([]byte(`{"type": "FeatureCollection", "features": [
		{"geometry": {"type": "Point", "coordinates": [5, 5]}, "properties": {}},
		{"geometry": {"type": "LineString", "coordinates": [[0, 0], [10, 10]]}, "properties": {}}
	]}`))
	require.NoError(t, err)

	img, err := Render(p, Options{Width: 64, Height: 64, Oversample: 1})
	require.NoError(t, err)

	// something must have been drawn
	drawn := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y) != (color.RGBA{255, 255, 255, 255}) {
				drawn++
			}
		}
	}
	assert.Positive(t, drawn)
}

func TestParseHexColor(t *testing.T) {
	fallback := color.RGBA{1, 2, 3, 4}

	assert.Equal(t, color.RGBA{255, 0, 0, 255}, parseHexColor("#ff0000", fallback))
	assert.Equal(t, color.RGBA{0x11, 0x22, 0x33, 255}, parseHexColor("#123", fallback))
	assert.Equal(t, color.RGBA{0xab, 0xcd, 0xef, 0x80}, parseHexColor("#abcdef80", fallback))
	assert.Equal(t, color.RGBA{0xAB, 0xCD, 0xEF, 255}, parseHexColor("#ABCDEF", fallback))

	assert.Equal(t, fallback, parseHexColor("", fallback))
	assert.Equal(t, fallback, parseHexColor("red", fallback))
	assert.Equal(t, fallback, parseHexColor("#12", fallback))
	assert.Equal(t, fallback, parseHexColor("#zzzzzz", fallback))
}
