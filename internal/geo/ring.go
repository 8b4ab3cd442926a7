package geo

// Ring is an ordered sequence of points forming a polygon boundary or a
// hole. It is always treated as closed: an edge from the last point back
// to the first is implied, whether or not the input repeats the first
// point. Winding order is kept exactly as given.
type Ring []Point

// Contains reports whether p lies inside the ring, using an even-odd ray
// cast: a horizontal ray towards positive longitude is intersected with
// every edge and p is inside iff the crossing count is odd.
//
// Edges are tested half-open (strict comparison on the upper vertex), so a
// point exactly on a shared edge of two adjacent rings is claimed by
// exactly one of them. Rings with fewer than 3 points contain nothing.
func (r Ring) Contains(p Point) bool {
	if len(r) < 3 {
		return false
	}

	inside := false
	for i, j := 0, len(r)-1; i < len(r); j, i = i, i+1 {
		vi, vj := r[i], r[j]
		if (vi.Lat > p.Lat) == (vj.Lat > p.Lat) {
			continue
		}
		// Longitude where the edge crosses the ray's latitude
		cross := vi.Lon + (vj.Lon-vi.Lon)*(p.Lat-vi.Lat)/(vj.Lat-vi.Lat)
		if p.Lon < cross {
			inside = !inside
		}
	}

	return inside
}

// Bound returns the axis-aligned bounding box of the ring. The zero Bound
// is returned for an empty ring.
func (r Ring) Bound() Bound {
	if len(r) == 0 {
		return Bound{}
	}

	b := Bound{
		MinLat: r[0].Lat, MaxLat: r[0].Lat,
		MinLon: r[0].Lon, MaxLon: r[0].Lon,
	}
	for _, p := range r[1:] {
		if p.Lat < b.MinLat {
			b.MinLat = p.Lat
		}
		if p.Lat > b.MaxLat {
			b.MaxLat = p.Lat
		}
		if p.Lon < b.MinLon {
			b.MinLon = p.Lon
		}
		if p.Lon > b.MaxLon {
			b.MaxLon = p.Lon
		}
	}

	return b
}

// Bound is an axis-aligned box in the same coordinate space as Point.
type Bound struct {
	MinLat, MinLon float64
	MaxLat, MaxLon float64
}

// Contains reports whether p lies inside the box, borders included.
func (b Bound) Contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat &&
		p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}

// Pad returns the box grown by d on every side.
func (b Bound) Pad(d float64) Bound {
	return Bound{
		MinLat: b.MinLat - d, MinLon: b.MinLon - d,
		MaxLat: b.MaxLat + d, MaxLon: b.MaxLon + d,
	}
}

// Extend returns the smallest box covering both b and o.
func (b Bound) Extend(o Bound) Bound {
	if o.MinLat < b.MinLat {
		b.MinLat = o.MinLat
	}
	if o.MinLon < b.MinLon {
		b.MinLon = o.MinLon
	}
	if o.MaxLat > b.MaxLat {
		b.MaxLat = o.MaxLat
	}
	if o.MaxLon > b.MaxLon {
		b.MaxLon = o.MaxLon
	}

	return b
}
