// Package sampler subdivides geodesics into bounded-length pieces.
package sampler

import (
	"math"

	"github.com/dpup/shapetools/internal/lib/geo"
)

// Segments returns how many equal pieces a geodesic of the given length is
// split into: ceil(length / MaxSegmentLength), at least 1 and at most
// MaxSegments.
func Segments(length float64, s geo.Settings) int {
	f := math.Ceil(length / s.MaxSegmentLength)
	switch {
	case f > float64(s.MaxSegments):
		return s.MaxSegments
	case !(f >= 1):
		return 1
	}
	return int(f)
}

// Sample returns the geodesic from p1 to p2 as a sequence of points no more
// than MaxSegmentLength apart, unless MaxSegments binds first. The first point
// is p1 and the last is p2, with p2's longitude unrolled to be continuous with
// the samples before it.
func Sample(g *geo.Geodesic, p1, p2 geo.Point) (geo.Ring, error) {
	s12, azi1, _, err := g.Inverse(p1, p2)
	if err != nil {
		return nil, err
	}
	if s12 == 0 {
		return geo.Ring{p1, p2}, nil
	}

	line := g.Line(p1, azi1)
	n := Segments(s12, g.Settings())
	segLen := s12 / float64(n)

	out := make(geo.Ring, 0, n+1)
	out = append(out, p1)
	for i := 1; i < n; i++ {
		p, err := line.Position(segLen * float64(i))
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	end := p2
	end.Longitude = geo.Unroll(p2.Longitude, out[len(out)-1].Longitude)
	return append(out, end), nil
}

// SampleLine samples the geodesic leaving origin on azimuth from offset to
// distance meters. The first point is origin itself when offset is 0, and the
// last point is always exactly distance meters along the line.
func SampleLine(g *geo.Geodesic, origin geo.Point, azimuth, distance, offset float64) (geo.Ring, error) {
	if offset < 0 {
		return nil, geo.Invalidf("offset must not be negative, got %v", offset)
	}
	length := distance - offset
	if !(length > 0) {
		return nil, geo.Invalidf("distance %v must exceed offset %v", distance, offset)
	}

	line := g.Line(origin, azimuth)
	n := Segments(length, g.Settings())
	segLen := length / float64(n)

	out := make(geo.Ring, 0, n+1)
	if offset == 0 {
		out = append(out, origin)
	} else {
		p, err := line.Position(offset)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	for i := 1; i <= n; i++ {
		s := offset + segLen*float64(i)
		if i == n {
			s = distance
		}
		p, err := line.Position(s)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
