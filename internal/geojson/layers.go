package geojson

import "github.com/woozymasta/geolayers/internal/geo"

// Properties is the free-form metadata bag attached to a feature. The
// parser passes it through untouched; it never interprets keys or values.
type Properties map[string]any

// Clone returns an independent deep copy. Nested objects and arrays are
// copied too, so mutating one clone never leaks into another. A nil bag
// clones to an empty, non-nil one.
func (p Properties) Clone() Properties {
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}

	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = cloneValue(e)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = cloneValue(e)
		}
		return s
	default:
		return t
	}
}

// Marker is a renderable point with an icon glyph and color.
// One is produced per Point feature and per MultiPoint coordinate.
type Marker struct {
	Props Properties `json:"properties"`
	Icon  string     `json:"icon,omitempty"`
	Color string     `json:"color,omitempty"`
	At    geo.Point  `json:"at"`
}

// Polyline is a renderable open line. Points are kept exactly as given,
// duplicates included.
type Polyline struct {
	Props  Properties  `json:"properties"`
	Color  string      `json:"color,omitempty"`
	Points []geo.Point `json:"points"`
	Width  float64     `json:"width,omitempty"`
}

// Polygon is a renderable area: one outer ring plus zero or more hole
// rings. Rings are stored verbatim, no closing or winding normalization.
// Tag is free for caller use and never touched by the parser.
type Polygon struct {
	Props       Properties `json:"properties"`
	Tag         string     `json:"tag,omitempty"`
	BorderColor string     `json:"border_color,omitempty"`
	FillColor   string     `json:"fill_color,omitempty"`
	Outer       geo.Ring   `json:"outer"`
	Holes       []geo.Ring `json:"holes,omitempty"`
	BorderWidth float64    `json:"border_width,omitempty"`
	Filled      bool       `json:"filled"`
}
