package geojson

import (
	"github.com/woozymasta/geolayers/internal/config"
	"github.com/woozymasta/geolayers/internal/geo"
)

// Builders holds the three creation callbacks, one per output kind. The
// parser hands each callback the already-extracted geometry plus the
// feature's property bag and appends whatever it returns, so callers can
// swap in entirely different renderable construction without touching the
// parsing logic. A nil callback falls back to the styled default.
type Builders struct {
	Marker   func(at geo.Point, props Properties) *Marker
	Polyline func(points []geo.Point, props Properties) *Polyline
	Polygon  func(outer geo.Ring, holes []geo.Ring, props Properties) *Polygon
}

// DefaultBuilders returns callbacks producing plain renderable primitives
// styled with the given defaults.
func DefaultBuilders(style config.Style) Builders {
	style = style.Merged()

	return Builders{
		Marker: func(at geo.Point, props Properties) *Marker {
			return &Marker{
				At:    at,
				Icon:  style.MarkerIcon,
				Color: style.MarkerColor,
				Props: props,
			}
		},
		Polyline: func(points []geo.Point, props Properties) *Polyline {
			return &Polyline{
				Points: points,
				Color:  style.PolylineColor,
				Width:  style.PolylineWidth,
				Props:  props,
			}
		},
		Polygon: func(outer geo.Ring, holes []geo.Ring, props Properties) *Polygon {
			return &Polygon{
				Outer:       outer,
				Holes:       holes,
				BorderColor: style.PolygonBorderColor,
				FillColor:   style.PolygonFillColor,
				BorderWidth: style.PolygonBorderWidth,
				Filled:      style.Filled(),
				Props:       props,
			}
		},
	}
}
