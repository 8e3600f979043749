// Package transform scales, rotates, translates and mirrors shapes about
// their centroid using geodesic distances and azimuths, so a shape keeps its
// ground size wherever it is moved.
package transform

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"
	"github.com/pkg/errors"

	"github.com/dpup/shapetools/internal/lib/antimeridian"
	"github.com/dpup/shapetools/internal/lib/geo"
	"github.com/dpup/shapetools/internal/lib/shapes"
)

// Options describes an affine-like geodesic transform. The zero value is not
// the identity: Scale must be set.
type Options struct {
	// Scale multiplies every vertex distance from the centroid.
	Scale float64
	// Rotate is added to every vertex azimuth, degrees clockwise.
	Rotate float64
	// TranslateAzimuth and TranslateDistance move the centroid.
	TranslateAzimuth  float64
	TranslateDistance float64
}

// Identity returns options that leave a shape in place.
func Identity() Options {
	return Options{Scale: 1}
}

// Validate reports whether the options can be applied.
func (o Options) Validate() error {
	switch {
	case !(o.Scale > 0) || math.IsInf(o.Scale, 0):
		return geo.Invalidf("scale must be positive, got %v", o.Scale)
	case math.IsNaN(o.Rotate) || math.IsInf(o.Rotate, 0):
		return geo.Invalidf("rotation must be finite, got %v", o.Rotate)
	case math.IsNaN(o.TranslateAzimuth) || math.IsInf(o.TranslateAzimuth, 0):
		return geo.Invalidf("translation azimuth must be finite, got %v", o.TranslateAzimuth)
	case !(o.TranslateDistance >= 0) || math.IsInf(o.TranslateDistance, 0):
		return geo.Invalidf("translation distance must not be negative, got %v", o.TranslateDistance)
	}
	return nil
}

// Mode selects a mirror or quarter-turn for Flip.
type Mode int

const (
	Horizontal Mode = iota
	Vertical
	Rotate180
	Rotate90CW
	Rotate90CCW
)

var modeNames = map[string]Mode{
	"horizontal":  Horizontal,
	"vertical":    Vertical,
	"rotate180":   Rotate180,
	"rotate90cw":  Rotate90CW,
	"rotate90ccw": Rotate90CCW,
}

// ParseMode looks up a Mode by its CLI name.
func ParseMode(name string) (Mode, error) {
	m, ok := modeNames[name]
	if !ok {
		return 0, geo.Invalidf("unknown flip mode %q", name)
	}
	return m, nil
}

func (m Mode) azimuth(azi float64) float64 {
	switch m {
	case Horizontal:
		return -azi
	case Vertical:
		return -(azi + 180)
	case Rotate180:
		return azi + 180
	case Rotate90CW:
		return azi + 90
	default:
		return azi - 90
	}
}

// Centroid returns the normalized mean of the shape's distinct vertices on
// the unit sphere. Polygons use only the outer boundary. A closing vertex is
// counted once.
func Centroid(s shapes.Shape) (geo.Point, error) {
	rings := s.Rings
	if s.Kind == shapes.Polygon && len(rings) > 0 {
		rings = rings[:1]
	}
	var sum r3.Vector
	n := 0
	for _, r := range rings {
		if r.Closed() {
			r = r[:len(r)-1]
		}
		for _, p := range r {
			sum = sum.Add(s2.PointFromLatLng(s2.LatLngFromDegrees(p.Latitude, p.Longitude)).Vector)
			n++
		}
	}
	if n == 0 {
		return geo.Point{}, geo.Invalidf("shape has no vertices")
	}
	if sum.Norm() < 1e-12 {
		return geo.Point{}, geo.Invalidf("centroid is undefined for %d vertices spread over the globe", n)
	}
	ll := s2.LatLngFromPoint(s2.Point{Vector: sum.Normalize()})
	return geo.Point{Latitude: ll.Lat.Degrees(), Longitude: ll.Lng.Degrees()}, nil
}

// Transform scales and rotates every vertex about the centroid and then
// moves the result by the translation.
func Transform(g *geo.Geodesic, s shapes.Shape, o Options) (shapes.Shape, error) {
	if err := o.Validate(); err != nil {
		return shapes.Shape{}, err
	}
	c, err := Centroid(s)
	if err != nil {
		return shapes.Shape{}, err
	}
	target := c
	if o.TranslateDistance != 0 {
		if target, _, err = g.Direct(c, o.TranslateAzimuth, o.TranslateDistance); err != nil {
			return shapes.Shape{}, err
		}
	}
	return remap(g, s, c, target, func(azi, dist float64) (float64, float64) {
		return azi + o.Rotate, dist * o.Scale
	})
}

// Flip mirrors or quarter-turns the shape in place about its centroid.
func Flip(g *geo.Geodesic, s shapes.Shape, m Mode) (shapes.Shape, error) {
	if m < Horizontal || m > Rotate90CCW {
		return shapes.Shape{}, geo.Invalidf("unknown flip mode %d", m)
	}
	c, err := Centroid(s)
	if err != nil {
		return shapes.Shape{}, err
	}
	return remap(g, s, c, c, func(azi, dist float64) (float64, float64) {
		return m.azimuth(azi), dist
	})
}

// remap measures every vertex from the centroid, applies fn and re-solves it
// from target.
func remap(g *geo.Geodesic, s shapes.Shape, centroid, target geo.Point,
	fn func(azi, dist float64) (float64, float64)) (shapes.Shape, error) {
	out := shapes.Shape{Kind: s.Kind, Rings: make(geo.MultiRing, len(s.Rings))}
	for i, r := range s.Rings {
		closed := r.Closed()
		open := r
		if closed {
			open = r[:len(r)-1]
		}
		ring := make(geo.Ring, 0, len(r))
		for _, p := range open {
			dist, azi, _, err := g.Inverse(centroid, p)
			if err != nil {
				return shapes.Shape{}, err
			}
			azi, dist = fn(azi, dist)
			q, _, err := g.Direct(target, azi, dist)
			if err != nil {
				return shapes.Shape{}, errors.Wrapf(err, "ring %d", i)
			}
			ring = append(ring, q)
		}
		if closed {
			ring = ring.Close()
		}
		out.Rings[i] = ring
	}
	if s.Kind == shapes.Polygon {
		out.Rings = antimeridian.NormalizePositiveRings(out.Rings, false)
	}
	return out, nil
}
