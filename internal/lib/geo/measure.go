package geo

// Segment describes one edge of a measured line.
type Segment struct {
	Distance float64 `json:"distance_meters"`
	Azimuth  float64 `json:"azimuth"`
}

// Measurement summarizes a line or ring.
type Measurement struct {
	// Length is the perimeter of a closed ring or the length of an open line.
	Length float64 `json:"length_meters"`
	// Area is only set for closed rings, in square meters.
	Area     float64   `json:"area_square_meters,omitempty"`
	Segments []Segment `json:"segments"`
}

// Measure returns the geodesic length of r, the area it encloses when closed,
// and per-edge distances and azimuths.
func (g *Geodesic) Measure(r Ring) (Measurement, error) {
	var m Measurement
	if len(r) < 2 {
		return m, invalidf("need at least 2 points to measure, got %d", len(r))
	}
	for i := 1; i < len(r); i++ {
		s12, azi1, _, err := g.Inverse(r[i-1], r[i])
		if err != nil {
			return Measurement{}, err
		}
		m.Segments = append(m.Segments, Segment{Distance: s12, Azimuth: azi1})
	}

	closed := r.Closed() && len(r) > 3
	poly := g.ell.PolygonInit(!closed)
	pts := r
	if closed {
		pts = r[:len(r)-1]
	}
	for _, p := range pts {
		poly.AddPoint(p.Latitude, p.Longitude)
	}
	var area, perimeter float64
	if closed {
		// Signed so a clockwise ring reports its own area instead of the
		// rest of the ellipsoid.
		poly.Compute(false, true, &area, &perimeter)
		if area < 0 {
			area = -area
		}
		m.Area = area
	} else {
		poly.Compute(false, false, nil, &perimeter)
	}
	m.Length = perimeter
	return m, nil
}
