package hittest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/geolayers/internal/geo"
	"github.com/woozymasta/geolayers/internal/geojson"
)

func poly(tag string, outer geo.Ring, holes ...geo.Ring) *geojson.Polygon {
	return &geojson.Polygon{
		Tag:   tag,
		Outer: outer,
		Holes: holes,
		Props: geojson.Properties{},
	}
}

func square(minLat, minLon, maxLat, maxLon float64) geo.Ring {
	return geo.Ring{
		{Lat: minLat, Lon: minLon},
		{Lat: minLat, Lon: maxLon},
		{Lat: maxLat, Lon: maxLon},
		{Lat: maxLat, Lon: minLon},
	}
}

func TestHitSingleSquare(t *testing.T) {
	tester := New([]*geojson.Polygon{poly("sq", square(0, 0, 10, 10))})

	hits := tester.Hit(geo.Point{Lat: 5, Lon: 5}, 0)
	require.Len(t, hits, 1)
	assert.Equal(t, "sq", hits[0].Tag)

	hits = tester.Hit(geo.Point{Lat: 20, Lon: 20}, 0)
	assert.NotNil(t, hits)
	assert.Empty(t, hits)
}

func TestHitOverlappingSquaresKeepsInputOrder(t *testing.T) {
	tester := New([]*geojson.Polygon{
		poly("a", square(0, 0, 10, 10)),
		poly("b", square(5, 5, 15, 15)),
	})

	hits := tester.Hit(geo.Point{Lat: 7, Lon: 7}, 0)
	require.Len(t, hits, 2)
	assert.Equal(t, "a", hits[0].Tag)
	assert.Equal(t, "b", hits[1].Tag)

	// point only in the second square
	hits = tester.Hit(geo.Point{Lat: 12, Lon: 12}, 0)
	require.Len(t, hits, 1)
	assert.Equal(t, "b", hits[0].Tag)
}

// A point inside a hole still hits the polygon: only the outer ring is
// consulted. HitExcludingHoles is the opt-in deviation.
func TestHitIgnoresHoles(t *testing.T) {
	donut := poly("donut", square(0, 0, 10, 10), square(4, 4, 6, 6))
	tester := New([]*geojson.Polygon{donut})

	inHole := geo.Point{Lat: 5, Lon: 5}
	inRim := geo.Point{Lat: 2, Lon: 2}

	assert.Len(t, tester.Hit(inHole, 0), 1)
	assert.Len(t, tester.Hit(inRim, 0), 1)

	assert.Empty(t, tester.HitExcludingHoles(inHole, 0))
	assert.Len(t, tester.HitExcludingHoles(inRim, 0), 1)
}

func TestHitDegenerateRingNeverMatches(t *testing.T) {
	tester := New([]*geojson.Polygon{
		poly("line", geo.Ring{{Lat: 0, Lon: 0}, {Lat: 10, Lon: 10}}),
		poly("empty", geo.Ring{}),
	})

	assert.Empty(t, tester.Hit(geo.Point{Lat: 0, Lon: 0}, 0))
	assert.Empty(t, tester.Hit(geo.Point{Lat: 5, Lon: 5}, 100))
}

func TestHitToleranceOnlyPadsPrefilter(t *testing.T) {
	tester := New([]*geojson.Polygon{poly("sq", square(0, 0, 10, 10))})
	outside := geo.Point{Lat: 10.5, Lon: 5}

	// the point is outside the polygon; a generous tolerance must not
	// turn it into a hit, it only keeps the prefilter out of the way
	assert.Empty(t, tester.Hit(outside, 0))
	assert.Empty(t, tester.Hit(outside, 5))

	inside := geo.Point{Lat: 9.5, Lon: 5}
	assert.Len(t, tester.Hit(inside, 0), 1)
	assert.Len(t, tester.Hit(inside, 5), 1)
}

func TestHitUnclosedAndClosedRingsAgree(t *testing.T) {
	open := square(0, 0, 10, 10)
	closed := append(square(0, 0, 10, 10), geo.Point{Lat: 0, Lon: 0})

	tester := New([]*geojson.Polygon{poly("open", open), poly("closed", closed)})

	hits := tester.Hit(geo.Point{Lat: 5, Lon: 5}, 0)
	assert.Len(t, hits, 2)
}

func TestDispatchRoutesCallbacks(t *testing.T) {
	tester := New([]*geojson.Polygon{poly("sq", square(0, 0, 10, 10))})

	var hit []*geojson.Polygon
	missed := 0
	tester.OnHit = func(p []*geojson.Polygon) { hit = p }
	tester.OnMiss = func() { missed++ }

	got := tester.Dispatch(geo.Point{Lat: 5, Lon: 5}, 0)
	require.Len(t, got, 1)
	assert.Equal(t, got, hit)
	assert.Zero(t, missed)

	hit = nil
	got = tester.Dispatch(geo.Point{Lat: 20, Lon: 20}, 0)
	assert.Empty(t, got)
	assert.Nil(t, hit)
	assert.Equal(t, 1, missed)
}

func TestDispatchWithoutCallbacks(t *testing.T) {
	tester := New([]*geojson.Polygon{poly("sq", square(0, 0, 10, 10))})

	assert.Len(t, tester.Dispatch(geo.Point{Lat: 5, Lon: 5}, 0), 1)
	assert.Empty(t, tester.Dispatch(geo.Point{Lat: 20, Lon: 20}, 0))
}
