package shapes

import (
	"math"

	"github.com/dpup/shapetools/internal/lib/antimeridian"
	"github.com/dpup/shapetools/internal/lib/geo"
)

// AzimuthMode selects how ArcParams.Start and ArcParams.End are read.
type AzimuthMode int

const (
	// StartEnd sweeps clockwise from Start to End.
	StartEnd AzimuthMode = iota
	// CenterWidth centres the sweep on Start with a total width of |End|.
	CenterWidth
)

// ArcParams describes an arc-shaped band (donut wedge) between two radii.
type ArcParams struct {
	OuterRadius float64
	InnerRadius float64
	Start       float64
	End         float64
	Mode        AzimuthMode
	Segments    int
}

// bounds resolves the sweep into start < end, with end in [0, 360). A sweep
// through north is made monotonic by moving start below zero. ok is false
// when start and end coincide.
func bounds(start, end float64) (float64, float64, bool) {
	s, e := mod360(start), mod360(end)
	if s == e {
		return 0, 0, false
	}
	if s > e {
		s -= 360
	}
	return s, e, true
}

// Arc returns a closed ring running clockwise along the outer radius from
// Start to End and back along the inner radius. An inner radius of 0 closes
// the wedge at origin instead. Equal start and end azimuths describe no sweep
// at all and produce the full donut.
func Arc(g *geo.Geodesic, origin geo.Point, p ArcParams) (Shape, error) {
	if err := requirePositive("outer radius", p.OuterRadius); err != nil {
		return Shape{}, err
	}
	if err := requireNonNegative("inner radius", p.InnerRadius); err != nil {
		return Shape{}, err
	}
	if err := requireAtLeast("segments", p.Segments, 3); err != nil {
		return Shape{}, err
	}
	if err := requireFinite("start azimuth", p.Start); err != nil {
		return Shape{}, err
	}
	if err := requireFinite("end azimuth", p.End); err != nil {
		return Shape{}, err
	}

	start, end := p.Start, p.End
	if p.Mode == CenterWidth {
		half := math.Abs(end) / 2
		start, end = start-half, start+half
	}
	s, e, ok := bounds(start, end)
	if !ok {
		return Donut(g, origin, DonutParams{OuterRadius: p.OuterRadius, InnerRadius: p.InnerRadius, Segments: p.Segments})
	}

	step := 360 / float64(p.Segments)
	outer, err := ringAt(g, origin, sweep(s, e, step), p.OuterRadius)
	if err != nil {
		return Shape{}, err
	}
	if p.InnerRadius == 0 {
		return polygon(closedRing(append(outer, origin))), nil
	}

	var back []float64
	for a := e; a > s+1e-9; a -= step {
		back = append(back, a)
	}
	back = append(back, s)
	inner, err := ringAt(g, origin, back, p.InnerRadius)
	if err != nil {
		return Shape{}, err
	}
	return polygon(closedRing(append(outer, inner...))), nil
}

// PieParams describes a pie wedge.
type PieParams struct {
	Radius   float64
	Start    float64
	End      float64
	Segments int
}

// Pie returns origin, the arc from Start to End at Radius, and origin again.
// Equal start and end azimuths give the full circle.
func Pie(g *geo.Geodesic, origin geo.Point, p PieParams) (Shape, error) {
	if err := requirePositive("radius", p.Radius); err != nil {
		return Shape{}, err
	}
	if err := requireAtLeast("segments", p.Segments, 3); err != nil {
		return Shape{}, err
	}
	s, e, ok := bounds(p.Start, p.End)
	if !ok {
		return Circle(g, origin, CircleParams{Radius: p.Radius, Segments: p.Segments})
	}
	arc, err := ringAt(g, origin, sweep(s, e, 360/float64(p.Segments)), p.Radius)
	if err != nil {
		return Shape{}, err
	}
	r := append(geo.Ring{origin}, arc...)
	return polygon(closedRing(r)), nil
}

// DonutParams describes an annulus.
type DonutParams struct {
	OuterRadius float64
	InnerRadius float64
	Segments    int
}

// Donut returns the outer ring followed by the inner ring as a hole. With an
// inner radius of 0 only the outer ring is returned, the same ring Circle
// produces.
func Donut(g *geo.Geodesic, origin geo.Point, p DonutParams) (Shape, error) {
	if err := requirePositive("outer radius", p.OuterRadius); err != nil {
		return Shape{}, err
	}
	if err := requireNonNegative("inner radius", p.InnerRadius); err != nil {
		return Shape{}, err
	}
	if p.InnerRadius >= p.OuterRadius {
		return Shape{}, geo.Invalidf("inner radius %v must be less than outer radius %v", p.InnerRadius, p.OuterRadius)
	}
	if err := requireAtLeast("segments", p.Segments, 3); err != nil {
		return Shape{}, err
	}

	azimuths := steps(0, p.Segments)
	outer, err := ringAt(g, origin, azimuths, p.OuterRadius)
	if err != nil {
		return Shape{}, err
	}
	rings := geo.MultiRing{outer.Close()}
	if p.InnerRadius > 0 {
		inner, err := ringAt(g, origin, azimuths, p.InnerRadius)
		if err != nil {
			return Shape{}, err
		}
		rings = append(rings, inner.Close())
	}
	return Shape{Kind: Polygon, Rings: antimeridian.NormalizePositiveRings(rings, false)}, nil
}

// RadialParams describes a fan of lines leaving origin.
type RadialParams struct {
	Lines       int
	InnerRadius float64
	OuterRadius float64
	StartAngle  float64
}

// RadialLines returns Lines two-point lines evenly spaced around origin, each
// from InnerRadius (origin itself when 0) out to OuterRadius.
func RadialLines(g *geo.Geodesic, origin geo.Point, p RadialParams) (Shape, error) {
	if err := requireAtLeast("lines", p.Lines, 1); err != nil {
		return Shape{}, err
	}
	if err := requirePositive("outer radius", p.OuterRadius); err != nil {
		return Shape{}, err
	}
	if err := requireNonNegative("inner radius", p.InnerRadius); err != nil {
		return Shape{}, err
	}
	if p.InnerRadius >= p.OuterRadius {
		return Shape{}, geo.Invalidf("inner radius %v must be less than outer radius %v", p.InnerRadius, p.OuterRadius)
	}

	out := Shape{Kind: MultiLine}
	for _, a := range steps(p.StartAngle, p.Lines) {
		line := g.Line(origin, a)
		start := origin
		if p.InnerRadius > 0 {
			var err error
			if start, err = line.Position(p.InnerRadius); err != nil {
				return Shape{}, err
			}
		}
		end, err := line.Position(p.OuterRadius)
		if err != nil {
			return Shape{}, err
		}
		out.Rings = append(out.Rings, geo.Ring{start, end})
	}
	return out, nil
}

// RingsParams describes concentric rings with optional radial spokes.
type RingsParams struct {
	Rings int
	// Spacing is the distance from one ring to the next.
	Spacing float64
	// StartRadius is the radius of the first ring; 0 means Spacing.
	StartRadius float64
	Segments    int
	// Radials is the number of spokes drawn from origin to the last ring.
	Radials     int
	RadialStart float64
}

// ConcentricRings returns each ring as a closed polyline, followed by the
// radial spokes. Spokes carry max(2, Segments/6) points each so long spokes
// follow the geodesic.
func ConcentricRings(g *geo.Geodesic, origin geo.Point, p RingsParams) (Shape, error) {
	if err := requireAtLeast("rings", p.Rings, 1); err != nil {
		return Shape{}, err
	}
	if err := requirePositive("ring spacing", p.Spacing); err != nil {
		return Shape{}, err
	}
	if err := requireNonNegative("start radius", p.StartRadius); err != nil {
		return Shape{}, err
	}
	if err := requireAtLeast("segments", p.Segments, 3); err != nil {
		return Shape{}, err
	}
	if err := requireAtLeast("radials", p.Radials, 0); err != nil {
		return Shape{}, err
	}

	first := p.StartRadius
	if first == 0 {
		first = p.Spacing
	}
	azimuths := steps(0, p.Segments)

	out := Shape{Kind: MultiLine}
	var last float64
	for i := 0; i < p.Rings; i++ {
		last = first + p.Spacing*float64(i)
		r, err := ringAt(g, origin, azimuths, last)
		if err != nil {
			return Shape{}, err
		}
		out.Rings = append(out.Rings, closedRing(r))
	}

	if p.Radials == 0 {
		return out, nil
	}
	n := p.Segments / 6
	if n < 2 {
		n = 2
	}
	for _, a := range steps(p.RadialStart, p.Radials) {
		line := g.Line(origin, a)
		spoke := geo.Ring{origin}
		for j := 1; j <= n; j++ {
			pt, err := line.Position(last * float64(j) / float64(n))
			if err != nil {
				return Shape{}, err
			}
			spoke = append(spoke, pt)
		}
		out.Rings = append(out.Rings, spoke)
	}
	return out, nil
}
