package antimeridian

import (
	"github.com/dpup/shapetools/internal/lib/geo"
)

// meridianStartLat and meridianBearing describe the antimeridian as a path the
// crossing geodesic can be intersected with.
const (
	meridianStartLat = -89
	meridianBearing  = 0
)

// BreakAtIdl splits line into pieces that never cross the antimeridian. The
// line is first normalized into [-180, 180). Each crossing segment is cut at
// the latitude where its geodesic meets the meridian: the piece before the
// cut ends at that latitude on one side (±180) and the next piece starts at
// the same latitude on the other side.
//
// When the crossing latitude cannot be solved the segment is kept uncut.
//
// A vertex lying exactly on the meridian is assigned to the side of its
// predecessor, so a line that only touches ±180 is not split.
func BreakAtIdl(g *geo.Geodesic, line geo.Ring) geo.MultiRing {
	if len(line) == 0 {
		return nil
	}
	pts := normalizeForBreak(line)

	var pieces geo.MultiRing
	cur := geo.Ring{pts[0]}
	for i := 1; i < len(pts); i++ {
		prev, p := pts[i-1], pts[i]
		if !LooksLikeIdlCrossing(prev.Longitude, p.Longitude) {
			cur = append(cur, p)
			continue
		}

		// The previous vertex already sits on the meridian: cut there.
		if prev.Longitude == 180 || prev.Longitude == -180 {
			pieces = append(pieces, cur)
			cur = geo.Ring{{Latitude: prev.Latitude, Longitude: -prev.Longitude}, p}
			continue
		}

		side := 180.0
		if prev.Longitude < 0 {
			side = -180
		}
		lat, ok := crossingLatitude(g, prev, p, side)
		if !ok {
			cur = append(cur, p)
			continue
		}
		cur = append(cur, geo.Point{Latitude: lat, Longitude: side})
		pieces = append(pieces, cur)
		cur = geo.Ring{{Latitude: lat, Longitude: -side}, p}
	}
	return append(pieces, cur)
}

// BreakRings applies BreakAtIdl to every ring and concatenates the pieces.
func BreakRings(g *geo.Geodesic, m geo.MultiRing) geo.MultiRing {
	var out geo.MultiRing
	for _, r := range m {
		out = append(out, BreakAtIdl(g, r)...)
	}
	return out
}

// crossingLatitude intersects the geodesic from prev toward p with the
// meridian at longitude side.
func crossingLatitude(g *geo.Geodesic, prev, p geo.Point, side float64) (float64, bool) {
	_, azi, _, err := g.Inverse(prev, p)
	if err != nil {
		return 0, false
	}
	meridian := geo.Point{Latitude: meridianStartLat, Longitude: side}
	x, err := Intersection(meridian, meridianBearing, prev, azi)
	if err != nil {
		return 0, false
	}
	return x.Latitude, true
}

func normalizeForBreak(line geo.Ring) geo.Ring {
	pts := NormalizeLine(line)
	for i := range pts {
		if pts[i].Longitude != -180 {
			continue
		}
		ref := 0.0
		switch {
		case i > 0:
			ref = pts[i-1].Longitude
		case len(pts) > 1:
			ref = pts[1].Longitude
		}
		if ref > 0 {
			pts[i].Longitude = 180
		}
	}
	return pts
}
