package sampler

import (
	"math"

	"github.com/dpup/shapetools/internal/lib/geo"
)

// Densify inserts points along every segment of r that is longer than
// MaxSegmentLength so that no gap exceeds it. Input vertices are kept as
// given and inserted points continue the longitude of the segment's start
// vertex, so an unrolled ring stays unrolled.
//
// With discardVertices only the first and last vertex are kept and the
// geodesic between them is densified.
func Densify(g *geo.Geodesic, r geo.Ring, discardVertices bool) (geo.Ring, error) {
	if len(r) < 2 {
		return nil, geo.Invalidf("need at least 2 points to densify, got %d", len(r))
	}
	if discardVertices {
		first, last := r[0], r[len(r)-1]
		if first == last {
			return nil, geo.Invalidf("first and last vertex coincide")
		}
		r = geo.Ring{first, last}
	}

	settings := g.Settings()
	out := geo.Ring{r[0]}
	for i := 1; i < len(r); i++ {
		start, end := r[i-1], r[i]
		s13, azi1, _, err := g.Inverse(start, end)
		if err != nil {
			return nil, err
		}
		if s13 > settings.MaxSegmentLength {
			n := Segments(s13, settings)
			segLen := s13 / float64(n)
			line := g.Line(start, azi1)
			for j := 1; j < n; j++ {
				p, err := line.Position(segLen * float64(j))
				if err != nil {
					return nil, err
				}
				out = append(out, p)
			}
		}
		out = append(out, end)
	}
	return out, nil
}

// DensifyRings densifies every ring of m.
func DensifyRings(g *geo.Geodesic, m geo.MultiRing, discardVertices bool) (geo.MultiRing, error) {
	out := make(geo.MultiRing, 0, len(m))
	for _, r := range m {
		d, err := Densify(g, r, discardVertices)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// MaxGap returns the longest geodesic distance between consecutive points.
func MaxGap(g *geo.Geodesic, r geo.Ring) (float64, error) {
	gap := 0.0
	for i := 1; i < len(r); i++ {
		d, err := g.Distance(r[i-1], r[i])
		if err != nil {
			return 0, err
		}
		gap = math.Max(gap, d)
	}
	return gap, nil
}
