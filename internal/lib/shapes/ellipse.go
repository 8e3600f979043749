package shapes

import (
	"math"

	"github.com/dpup/shapetools/internal/lib/geo"
)

// minAxis keeps the curvature step finite for degenerate axes.
const minAxis = 0.0001

// EllipseParams describes an ellipse. Orientation is the azimuth of the
// semi-major axis.
type EllipseParams struct {
	SemiMajor   float64
	SemiMinor   float64
	Orientation float64
	Segments    int
}

// Ellipse returns a closed ring whose vertex density follows curvature: the
// angular step is min(maxStep, delta/r²) where r is the polar radius of the
// ellipse at the current angle, so points bunch up at the ends of the major
// axis where the curve turns fastest. Half the requested segment count sets
// delta, which yields about Segments points for a circle.
//
// A minor axis longer than the major axis is swapped and the orientation
// turned by 90 degrees so the same figure is drawn.
func Ellipse(g *geo.Geodesic, origin geo.Point, p EllipseParams) (Shape, error) {
	if err := requirePositive("semi-major axis", p.SemiMajor); err != nil {
		return Shape{}, err
	}
	if err := requirePositive("semi-minor axis", p.SemiMinor); err != nil {
		return Shape{}, err
	}
	if err := requireAtLeast("segments", p.Segments, 4); err != nil {
		return Shape{}, err
	}

	a := math.Max(p.SemiMajor, minAxis)
	b := math.Max(p.SemiMinor, minAxis)
	orientation := p.Orientation
	if a < b {
		a, b = b, a
		orientation += 90
	}

	segments := math.Ceil(float64(p.Segments) / 2)
	ab := a * b
	maxStep := math.Pi / 6 * math.Min(18*b/a, 1)
	delta := ab * math.Pi / segments

	var polar []geo.Polar
	// The epsilon keeps accumulated rounding from emitting a duplicate of
	// the first vertex just short of a full turn.
	for theta := 0.0; theta < 2*math.Pi-1e-9; {
		sin, cos := math.Sincos(theta)
		r := ab / math.Sqrt(a*a*sin*sin+b*b*cos*cos)
		polar = append(polar, geo.Polar{Bearing: theta*180/math.Pi + orientation, Distance: r})
		theta += math.Min(delta/(r*r), maxStep)
	}
	r, err := geo.ProjectPolar(g, origin, polar)
	if err != nil {
		return Shape{}, err
	}
	return polygon(closedRing(r)), nil
}
