// Package geojson parses GeoJSON FeatureCollections into renderable layers
// of markers, polylines and polygons.
package geojson

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/geolayers/internal/config"
	"github.com/woozymasta/geolayers/internal/geo"
)

// StructureError reports a document that is structurally not a usable
// FeatureCollection. The whole parse call is aborted and nothing is
// appended; output from earlier calls on the same parser stays intact.
type StructureError struct {
	Reason string
}

func (e *StructureError) Error() string {
	return "geojson: " + e.Reason
}

// FeatureError records one feature that failed on malformed coordinates.
type FeatureError struct {
	Err   error
	Kind  string
	Index int
}

func (e FeatureError) Error() string {
	return fmt.Sprintf("feature %d (%s): %v", e.Index, e.Kind, e.Err)
}

// MarshalJSON flattens the wrapped error into a plain message.
func (e FeatureError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Error string `json:"error"`
		Kind  string `json:"kind"`
		Index int    `json:"index"`
	}{e.Err.Error(), e.Kind, e.Index})
}

// Diagnostics summarizes one parse call. Malformed features and unknown
// geometry types are reported here instead of failing the document.
type Diagnostics struct {
	Malformed []FeatureError `json:"malformed,omitempty"`
	Features  int            `json:"features"`
	Skipped   int            `json:"skipped"`
}

// Options configures a Parser. All fields are optional.
type Options struct {
	// OnMarkerTap is invoked by NotifyMarkerTap when the caller's input
	// handling decides a marker was tapped.
	OnMarkerTap func(*Marker)

	Builders Builders
	Style    config.Style
}

// Parser turns GeoJSON documents into layers of renderable primitives.
//
// A parser accumulates: every successful Parse or ParseValue call appends
// to the three layer slices, so several documents can be merged into one
// combined result. Construct a fresh Parser to start over.
//
// A Parser is not safe for concurrent use; callers parsing in parallel
// need one instance each.
type Parser struct {
	onMarkerTap func(*Marker)

	Markers   []*Marker
	Polylines []*Polyline
	Polygons  []*Polygon

	builders Builders
}

// New creates a parser with the given options. Missing builders fall back
// to the styled defaults.
func New(opts Options) *Parser {
	b := opts.Builders
	def := DefaultBuilders(opts.Style)
	if b.Marker == nil {
		b.Marker = def.Marker
	}
	if b.Polyline == nil {
		b.Polyline = def.Polyline
	}
	if b.Polygon == nil {
		b.Polygon = def.Polygon
	}

	return &Parser{builders: b, onMarkerTap: opts.OnMarkerTap}
}

// Parse decodes a raw GeoJSON document and appends its features to the
// parser's layers. See ParseValue for the error policy.
func (p *Parser) Parse(data []byte) (*Diagnostics, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}

	return p.ParseValue(doc)
}

// ParseValue walks an already-decoded FeatureCollection and appends its
// features to the parser's layers.
//
// A document without a "features" array, a feature that is not an object,
// or a feature without a geometry object aborts the whole call with a
// *StructureError and appends nothing. A recognized geometry with
// malformed coordinates fails only that feature, recorded in the returned
// Diagnostics. Unknown geometry types are skipped and counted.
func (p *Parser) ParseValue(doc map[string]any) (*Diagnostics, error) {
	rawFeats, ok := doc["features"].([]any)
	if !ok {
		return nil, &StructureError{Reason: `document has no "features" array`}
	}

	diag := &Diagnostics{Features: len(rawFeats)}

	// Stage everything and commit only if the whole walk succeeds, so a
	// structural abort can never leave the layers half-populated.
	var markers []*Marker
	var polylines []*Polyline
	var polygons []*Polygon

	for i, rf := range rawFeats {
		feat, ok := rf.(map[string]any)
		if !ok {
			return nil, &StructureError{Reason: fmt.Sprintf("feature %d is not an object", i)}
		}

		geom, ok := feat["geometry"].(map[string]any)
		if !ok {
			return nil, &StructureError{Reason: fmt.Sprintf("feature %d has no geometry object", i)}
		}

		props := featureProps(feat)
		kind, _ := geom["type"].(string)
		coords := geom["coordinates"]

		var err error
		switch kind {
		case "Point":
			var at geo.Point
			if at, err = position(coords); err == nil {
				markers = append(markers, p.builders.Marker(at, props))
			}

		case "MultiPoint":
			var pts []geo.Point
			if pts, err = positions(coords); err == nil {
				for _, at := range pts {
					// independent copy per marker, equal by value
					markers = append(markers, p.builders.Marker(at, props.Clone()))
				}
			}

		case "LineString":
			var pts []geo.Point
			if pts, err = positions(coords); err == nil {
				polylines = append(polylines, p.builders.Polyline(pts, props))
			}

		case "MultiLineString":
			var lines [][]geo.Point
			if lines, err = positionLists(coords); err == nil {
				for _, pts := range lines {
					polylines = append(polylines, p.builders.Polyline(pts, props.Clone()))
				}
			}

		case "Polygon":
			var outer geo.Ring
			var holes []geo.Ring
			if outer, holes, err = polygonRings(coords); err == nil {
				polygons = append(polygons, p.builders.Polygon(outer, holes, props))
			}

		case "MultiPolygon":
			raw, ok := coords.([]any)
			if !ok {
				err = fmt.Errorf("coordinates are not an array")
				break
			}
			staged := make([]*Polygon, 0, len(raw))
			for pi, rp := range raw {
				outer, holes, perr := polygonRings(rp)
				if perr != nil {
					err = fmt.Errorf("polygon %d: %w", pi, perr)
					break
				}
				staged = append(staged, p.builders.Polygon(outer, holes, props.Clone()))
			}
			if err == nil {
				polygons = append(polygons, staged...)
			}

		case "":
			err = fmt.Errorf("geometry has no type")

		default:
			// Unknown geometry kinds are not an error, tolerate documents
			// from newer or mixed producers.
			diag.Skipped++
			log.Debug().Int("feature", i).Str("type", kind).Msg("Skipping unsupported geometry")
			continue
		}

		if err != nil {
			diag.Malformed = append(diag.Malformed, FeatureError{Index: i, Kind: kind, Err: err})
		}
	}

	p.Markers = append(p.Markers, markers...)
	p.Polylines = append(p.Polylines, polylines...)
	p.Polygons = append(p.Polygons, polygons...)

	log.Debug().
		Int("features", diag.Features).
		Int("markers", len(markers)).
		Int("polylines", len(polylines)).
		Int("polygons", len(polygons)).
		Int("skipped", diag.Skipped).
		Int("malformed", len(diag.Malformed)).
		Msg("Document parsed")

	return diag, nil
}

// NotifyMarkerTap forwards a marker-tap event to the configured callback.
// It is a no-op without one.
func (p *Parser) NotifyMarkerTap(m *Marker) {
	if p.onMarkerTap != nil {
		p.onMarkerTap(m)
	}
}

// featureProps extracts the property bag, yielding an empty non-nil bag
// when the key is absent or not an object.
func featureProps(feat map[string]any) Properties {
	if pm, ok := feat["properties"].(map[string]any); ok {
		return Properties(pm)
	}

	return Properties{}
}

func number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// position decodes one [lon, lat] coordinate pair. Extra elements beyond
// the first two (altitude) are ignored.
func position(v any) (geo.Point, error) {
	pair, ok := v.([]any)
	if !ok {
		return geo.Point{}, fmt.Errorf("position is not an array")
	}
	if len(pair) < 2 {
		return geo.Point{}, fmt.Errorf("position has %d elements, need at least 2", len(pair))
	}

	lon, ok := number(pair[0])
	if !ok {
		return geo.Point{}, fmt.Errorf("longitude is not a number")
	}
	lat, ok := number(pair[1])
	if !ok {
		return geo.Point{}, fmt.Errorf("latitude is not a number")
	}

	return geo.FromGeoJSON(lon, lat), nil
}

func positions(v any) ([]geo.Point, error) {
	raw, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("coordinates are not an array")
	}

	pts := make([]geo.Point, 0, len(raw))
	for i, rp := range raw {
		at, err := position(rp)
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		pts = append(pts, at)
	}

	return pts, nil
}

func positionLists(v any) ([][]geo.Point, error) {
	raw, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("coordinates are not an array")
	}

	lists := make([][]geo.Point, 0, len(raw))
	for i, rl := range raw {
		pts, err := positions(rl)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
		lists = append(lists, pts)
	}

	return lists, nil
}

// polygonRings decodes a Polygon coordinate array: ring 0 is the outer
// boundary, every further ring is a hole.
func polygonRings(v any) (geo.Ring, []geo.Ring, error) {
	lists, err := positionLists(v)
	if err != nil {
		return nil, nil, err
	}
	if len(lists) == 0 {
		return nil, nil, fmt.Errorf("polygon has no rings")
	}

	outer := geo.Ring(lists[0])
	var holes []geo.Ring
	for _, h := range lists[1:] {
		holes = append(holes, geo.Ring(h))
	}

	return outer, holes, nil
}
