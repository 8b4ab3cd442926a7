// Package geo holds the geometry primitives shared by the parser and the
// hit tester: points, rings and bounding boxes.
package geo

// Point is a (latitude, longitude) pair in degrees. It is a plain value;
// copying it is always safe.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// FromGeoJSON builds a Point from a GeoJSON coordinate position.
// GeoJSON stores positions as [longitude, latitude]; this constructor is
// the only place where that order is swapped, so nothing else in the
// module may index into a raw coordinate pair.
func FromGeoJSON(lon, lat float64) Point {
	return Point{Lat: lat, Lon: lon}
}
