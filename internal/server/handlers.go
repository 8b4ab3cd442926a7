// Package server handles HTTP requests and middleware.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/woozymasta/geolayers/internal/geo"
	"github.com/woozymasta/geolayers/internal/geojson"
)

// uploads are interactive documents, not bulk imports
const maxUploadSize = 16 << 20

type layersResponse struct {
	Markers   []*geojson.Marker   `json:"markers"`
	Polylines []*geojson.Polyline `json:"polylines"`
	Polygons  []*geojson.Polygon  `json:"polygons"`
}

type hitResponse struct {
	Hits  []*geojson.Polygon `json:"hits"`
	Count int                `json:"count"`
}

// HandleLayers serves the accumulated layers of every parsed document.
func (s *ServerContext) HandleLayers(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	resp := layersResponse{
		Markers:   s.parser.Markers,
		Polylines: s.parser.Polylines,
		Polygons:  s.parser.Polygons,
	}
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, resp)
}

// HandleHit resolves which polygons contain the query point.
// Query parameters: lat, lon (required, in the geometry's coordinate
// space), tol (optional bounding-box slack) and holes=1 to exclude points
// falling inside hole rings. A miss is a 200 with an empty hits array.
func (s *ServerContext) HandleHit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(q.Get("lon"), 64)
	if errLat != nil || errLon != nil {
		http.Error(w, "lat and lon query parameters are required", http.StatusBadRequest)
		return
	}

	tol := 0.0
	if raw := q.Get("tol"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			http.Error(w, "tol must be a non-negative number", http.StatusBadRequest)
			return
		}
		tol = v
	}

	pt := geo.Point{Lat: lat, Lon: lon}

	s.mu.RLock()
	var hits []*geojson.Polygon
	if q.Get("holes") == "1" {
		hits = s.tester.HitExcludingHoles(pt, tol)
	} else {
		hits = s.tester.Dispatch(pt, tol)
	}
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, hitResponse{Hits: hits, Count: len(hits)})
}

// HandleDocuments dispatches /api/documents: POST parses an uploaded
// document into the shared layers, GET /api/documents/{name} serves the
// minified source of a configured document.
func (s *ServerContext) HandleDocuments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleUpload(w, r)
	case http.MethodGet:
		s.handleSource(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleUpload appends an uploaded document to the accumulated layers.
// Structural errors are a 400 and leave the layers untouched; malformed
// features are reported in the returned diagnostics.
func (s *ServerContext) handleUpload(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadSize))
	if err != nil {
		http.Error(w, "reading request body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.tag = r.URL.Query().Get("tag")
	diag, err := s.parser.Parse(data)
	s.tag = ""
	if err == nil {
		// the tester sees documents uploaded after startup too
		s.tester.Polygons = s.parser.Polygons
	}
	s.mu.Unlock()

	if err != nil {
		var serr *geojson.StructureError
		if errors.As(err, &serr) {
			http.Error(w, serr.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, diag)
}

func (s *ServerContext) handleSource(w http.ResponseWriter, r *http.Request) {
	// Path: /api/documents/{name}
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 {
		http.NotFound(w, r)
		return
	}

	s.mu.RLock()
	data, ok := s.sources[parts[2]]
	s.mu.RUnlock()
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.Header().Set("Cache-Control", "public, no-cache")
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(v)
}
