// Package antimeridian detects and repairs vertex sequences that cross the
// ±180 degree meridian.
//
// Rings produced by the shape generators are repaired by unwrapping negative
// longitudes (NormalizePositive). Arbitrary lines are split into pieces that
// end and start exactly on the meridian (BreakAtIdl).
package antimeridian

import (
	"math"

	"github.com/dpup/shapetools/internal/lib/geo"
)

// crossingThreshold is the longitude magnitude both ends of a segment must
// exceed, on opposite sides, for the segment to count as an antimeridian
// crossing.
const crossingThreshold = 120

// LooksLikeIdlCrossing reports whether a step from longitude a to b is taken
// to cross the antimeridian rather than span the globe the long way round.
//
// This is a heuristic: a shape legitimately wider than 240 degrees of
// longitude that never touches ±180 would be misread as crossing.
func LooksLikeIdlCrossing(a, b float64) bool {
	return (a < -crossingThreshold && b > crossingThreshold) ||
		(a > crossingThreshold && b < -crossingThreshold)
}

// HasIdlCrossing reports whether any consecutive pair of vertices in r looks
// like an antimeridian crossing.
func HasIdlCrossing(r geo.Ring) bool {
	for i := 1; i < len(r); i++ {
		if LooksLikeIdlCrossing(r[i-1].Longitude, r[i].Longitude) {
			return true
		}
	}
	return false
}

// NormalizePositive returns r with 360 added to every negative longitude when
// r crosses the antimeridian, or unconditionally when force is set. The
// result is one unbroken ring whose longitudes run past +180.
func NormalizePositive(r geo.Ring, force bool) geo.Ring {
	if !force && !HasIdlCrossing(r) {
		return r
	}
	out := r.Clone()
	for i := range out {
		if out[i].Longitude < 0 {
			out[i].Longitude += 360
		}
	}
	return out
}

// NormalizePositiveRings applies NormalizePositive to every ring of m. The
// decision to unwrap is taken once from the first (outer) ring so nested
// rings stay in the same longitude frame.
func NormalizePositiveRings(m geo.MultiRing, force bool) geo.MultiRing {
	if len(m) == 0 {
		return m
	}
	if !force && !HasIdlCrossing(m[0]) {
		return m
	}
	out := make(geo.MultiRing, len(m))
	for i, r := range m {
		out[i] = NormalizePositive(r, true)
	}
	return out
}

// NormalizeLongitude wraps lon into [-180, 180).
func NormalizeLongitude(lon float64) float64 {
	l := math.Mod(lon+180, 360)
	if l < 0 {
		l += 360
	}
	return l - 180
}

// NormalizeLine returns a copy of r with every longitude wrapped into
// [-180, 180).
func NormalizeLine(r geo.Ring) geo.Ring {
	out := r.Clone()
	for i := range out {
		out[i].Longitude = NormalizeLongitude(out[i].Longitude)
	}
	return out
}
