// Package hittest resolves which polygons contain a query point, for
// interactive "which area was tapped" lookups. The query point must already
// be in the same coordinate space as the polygon vertices; projecting a
// screen coordinate into that space is the caller's job.
package hittest

import (
	"github.com/woozymasta/geolayers/internal/geo"
	"github.com/woozymasta/geolayers/internal/geojson"
)

// Tester hit-tests a fixed list of polygons. The zero value is usable;
// OnHit and OnMiss are optional and only consulted by Dispatch.
type Tester struct {
	OnHit  func([]*geojson.Polygon)
	OnMiss func()

	Polygons []*geojson.Polygon
}

// New creates a tester over the given polygons.
func New(polygons []*geojson.Polygon) *Tester {
	return &Tester{Polygons: polygons}
}

// Hit returns every polygon whose outer ring contains pt, in input order.
// A point matching several overlapping polygons returns them all; picking
// a winner is left to the caller. No match returns an empty slice.
//
// Holes are ignored: a point inside a hole is still reported as a hit on
// that polygon. Use HitExcludingHoles to change that.
//
// tolerance only pads the bounding-box prefilter so points within
// tolerance of a polygon's box are never rejected early; the ray cast
// itself is exact.
func (t *Tester) Hit(pt geo.Point, tolerance float64) []*geojson.Polygon {
	return t.hit(pt, tolerance, false)
}

// HitExcludingHoles is Hit with hole rings honored: a point inside any
// hole of a polygon does not match it. This deviates from the classic
// outer-ring-only behavior of Hit.
func (t *Tester) HitExcludingHoles(pt geo.Point, tolerance float64) []*geojson.Polygon {
	return t.hit(pt, tolerance, true)
}

func (t *Tester) hit(pt geo.Point, tolerance float64, excludeHoles bool) []*geojson.Polygon {
	matched := make([]*geojson.Polygon, 0, 2)

	for _, poly := range t.Polygons {
		if len(poly.Outer) < 3 {
			continue
		}
		if !poly.Outer.Bound().Pad(tolerance).Contains(pt) {
			continue
		}
		if !poly.Outer.Contains(pt) {
			continue
		}
		if excludeHoles && inAnyHole(poly, pt) {
			continue
		}
		matched = append(matched, poly)
	}

	return matched
}

func inAnyHole(poly *geojson.Polygon, pt geo.Point) bool {
	for _, h := range poly.Holes {
		if h.Contains(pt) {
			return true
		}
	}

	return false
}

// Dispatch runs Hit and routes the outcome: a non-empty result goes to
// OnHit, an empty one to OnMiss. The candidates are returned either way.
func (t *Tester) Dispatch(pt geo.Point, tolerance float64) []*geojson.Polygon {
	matched := t.Hit(pt, tolerance)

	if len(matched) > 0 {
		if t.OnHit != nil {
			t.OnHit(matched)
		}
	} else if t.OnMiss != nil {
		t.OnMiss()
	}

	return matched
}
