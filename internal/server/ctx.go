package server

import (
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	mjson "github.com/tdewolff/minify/v2/json"

	"github.com/woozymasta/geolayers/internal/config"
	"github.com/woozymasta/geolayers/internal/geo"
	"github.com/woozymasta/geolayers/internal/geojson"
	"github.com/woozymasta/geolayers/internal/hittest"
)

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	parser   *geojson.Parser
	tester   *hittest.Tester
	minifier *minify.M
	sources  map[string][]byte // minified source documents by name

	// tag is picked up by the polygon builder during a parse call
	tag string

	// the parser accumulates and is not safe for concurrent appends;
	// uploads and reads are serialized here
	mu sync.RWMutex
}

// NewServerContext builds the parser, loads every configured document and
// prepares the hit tester. A document that cannot be read or is
// structurally broken fails startup; per-feature problems are only logged.
func NewServerContext(cfg *config.Config) (*ServerContext, error) {
	s := &ServerContext{
		minifier: minify.New(),
		sources:  make(map[string][]byte, len(cfg.Documents)),
	}
	s.minifier.AddFunc("application/json", mjson.Minify)

	// Default builders, except polygons also carry the per-document tag.
	def := geojson.DefaultBuilders(cfg.Style)
	s.parser = geojson.New(geojson.Options{
		Style: cfg.Style,
		Builders: geojson.Builders{
			Polygon: func(outer geo.Ring, holes []geo.Ring, props geojson.Properties) *geojson.Polygon {
				poly := def.Polygon(outer, holes, props)
				poly.Tag = s.tag
				return poly
			},
		},
		OnMarkerTap: func(m *geojson.Marker) {
			log.Info().
				Float64("lat", m.At.Lat).
				Float64("lon", m.At.Lon).
				Msg("Marker tapped")
		},
	})

	for _, doc := range cfg.Documents {
		data, err := os.ReadFile(doc.Path)
		if err != nil {
			return nil, fmt.Errorf("reading document %q: %w", doc.Name, err)
		}

		s.tag = doc.Tag
		diag, err := s.parser.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parsing document %q: %w", doc.Name, err)
		}
		logDiagnostics(doc.Name, diag)

		minified, err := s.minifier.Bytes("application/json", data)
		if err != nil {
			return nil, fmt.Errorf("minifying document %q: %w", doc.Name, err)
		}
		s.sources[doc.Name] = minified
	}
	s.tag = ""

	s.tester = hittest.New(s.parser.Polygons)
	s.tester.OnMiss = func() {
		log.Debug().Msg("Hit test missed all polygons")
	}

	log.Info().
		Int("documents", len(cfg.Documents)).
		Int("markers", len(s.parser.Markers)).
		Int("polylines", len(s.parser.Polylines)).
		Int("polygons", len(s.parser.Polygons)).
		Msg("Server context initialized")

	return s, nil
}

func logDiagnostics(name string, diag *geojson.Diagnostics) {
	for _, fe := range diag.Malformed {
		log.Warn().
			Str("document", name).
			Int("feature", fe.Index).
			Str("type", fe.Kind).
			Err(fe.Err).
			Msg("Malformed feature skipped")
	}
	if diag.Skipped > 0 {
		log.Debug().
			Str("document", name).
			Int("skipped", diag.Skipped).
			Msg("Unsupported geometry types skipped")
	}
}
