package geo

// Point represents a geographic coordinate in degrees. Longitude is not
// constrained to [-180, 180] so that rings crossing the antimeridian can be
// carried in an unwrapped form.
type Point struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Ring is an ordered vertex sequence. A closed ring repeats its first point at
// the end.
type Ring []Point

// MultiRing is an ordered list of rings, either the pieces of a line split at
// the antimeridian or the outer and inner boundaries of a polygon.
type MultiRing []Ring

// Offset is a planar displacement from an origin, in meters. The plane is
// read in the azimuth sense: X points toward azimuth 0 and the angle
// atan2(Y, X) grows clockwise, so Y points toward azimuth 90.
type Offset struct {
	X float64
	Y float64
}

// Polar is a bearing (degrees clockwise from north) and distance in meters.
type Polar struct {
	Bearing  float64
	Distance float64
}

// Closed reports whether the ring repeats its first point at the end.
func (r Ring) Closed() bool {
	return len(r) > 1 && r[0] == r[len(r)-1]
}

// Close returns the ring with its first point appended, unless it is already
// closed or empty.
func (r Ring) Close() Ring {
	if len(r) == 0 || r.Closed() {
		return r
	}
	return append(r, r[0])
}

// Clone returns a copy of the ring that shares no storage with r.
func (r Ring) Clone() Ring {
	if r == nil {
		return nil
	}
	out := make(Ring, len(r))
	copy(out, r)
	return out
}

// Clone returns a deep copy of the multi ring.
func (m MultiRing) Clone() MultiRing {
	if m == nil {
		return nil
	}
	out := make(MultiRing, len(m))
	for i, r := range m {
		out[i] = r.Clone()
	}
	return out
}

// NumPoints returns the total vertex count over all rings.
func (m MultiRing) NumPoints() int {
	n := 0
	for _, r := range m {
		n += len(r)
	}
	return n
}

// Valid reports whether the latitude is in [-90, 90] and the longitude is a
// finite value in [-540, 540], the widest range the engine produces.
func (p Point) Valid() bool {
	return p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -540 && p.Longitude <= 540
}

// NewPoint creates a Point from latitude and longitude values with validation
func NewPoint(latitude, longitude float64) (Point, error) {
	point := Point{Latitude: latitude, Longitude: longitude}
	if !isValidCoordinate(point) {
		return Point{}, invalidf("coordinates (%v, %v) out of range: latitude must be [-90, 90], longitude must be [-180, 180]",
			latitude, longitude)
	}
	return point, nil
}

func isValidCoordinate(p Point) bool {
	return p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -180 && p.Longitude <= 180
}
