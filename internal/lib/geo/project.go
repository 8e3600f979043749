package geo

import "math"

// Project converts planar offsets from origin into ellipsoid points. Each
// offset becomes a bearing of atan2(y, x) degrees plus orientation and a
// distance of hypot(x, y), solved with Direct from origin. The curve is
// therefore laid out in the local geodesic polar frame at origin rather than
// translated in degrees.
//
// The output has exactly one point per offset.
func Project(g *Geodesic, origin Point, offsets []Offset, orientation float64) (Ring, error) {
	polar := make([]Polar, len(offsets))
	for i, o := range offsets {
		polar[i] = Polar{
			Bearing:  math.Atan2(o.Y, o.X)*180/math.Pi + orientation,
			Distance: math.Hypot(o.X, o.Y),
		}
	}
	return ProjectPolar(g, origin, polar)
}

// ProjectPolar solves Direct from origin for every bearing and distance pair.
func ProjectPolar(g *Geodesic, origin Point, polar []Polar) (Ring, error) {
	out := make(Ring, 0, len(polar))
	for _, p := range polar {
		if p.Distance == 0 {
			out = append(out, origin)
			continue
		}
		pt, _, err := g.Direct(origin, p.Bearing, p.Distance)
		if err != nil {
			return nil, err
		}
		out = append(out, pt)
	}
	return out, nil
}
