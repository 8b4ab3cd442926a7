// Package config handles configuration loading and default styling values.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the root configuration file structure.
type Config struct {
	Style     Style      `yaml:"style,omitempty"`
	Documents []Document `yaml:"documents"`
}

// Document points at one GeoJSON source to parse at startup.
type Document struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`

	// Tag is stamped onto every polygon parsed from this document
	Tag string `yaml:"tag,omitempty"`
}

// Style carries the default rendering attributes handed to the default
// creation callbacks. Empty or zero fields fall back to the package
// defaults, see Merged.
type Style struct {
	PolygonFilled      *bool   `yaml:"polygon_filled,omitempty"`
	MarkerColor        string  `yaml:"marker_color,omitempty"`
	MarkerIcon         string  `yaml:"marker_icon,omitempty"`
	PolylineColor      string  `yaml:"polyline_color,omitempty"`
	PolygonBorderColor string  `yaml:"polygon_border_color,omitempty"`
	PolygonFillColor   string  `yaml:"polygon_fill_color,omitempty"`
	PolylineWidth      float64 `yaml:"polyline_width,omitempty"`
	PolygonBorderWidth float64 `yaml:"polygon_border_width,omitempty"`
}

// DefaultStyle returns the built-in rendering defaults.
func DefaultStyle() Style {
	filled := true

	return Style{
		MarkerColor:        "#2a81cb",
		MarkerIcon:         "pin",
		PolylineColor:      "#3388ff",
		PolylineWidth:      3,
		PolygonBorderColor: "#3388ff",
		PolygonFillColor:   "#74a8e8",
		PolygonBorderWidth: 2,
		PolygonFilled:      &filled,
	}
}

// Merged returns s with every unset field replaced by its default.
func (s Style) Merged() Style {
	def := DefaultStyle()

	if s.MarkerColor == "" {
		s.MarkerColor = def.MarkerColor
	}
	if s.MarkerIcon == "" {
		s.MarkerIcon = def.MarkerIcon
	}
	if s.PolylineColor == "" {
		s.PolylineColor = def.PolylineColor
	}
	if s.PolylineWidth <= 0 {
		s.PolylineWidth = def.PolylineWidth
	}
	if s.PolygonBorderColor == "" {
		s.PolygonBorderColor = def.PolygonBorderColor
	}
	if s.PolygonFillColor == "" {
		s.PolygonFillColor = def.PolygonFillColor
	}
	if s.PolygonBorderWidth <= 0 {
		s.PolygonBorderWidth = def.PolygonBorderWidth
	}
	if s.PolygonFilled == nil {
		s.PolygonFilled = def.PolygonFilled
	}

	return s
}

// Filled resolves the polygon filled flag.
func (s Style) Filled() bool {
	if s.PolygonFilled == nil {
		return true
	}

	return *s.PolygonFilled
}

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
