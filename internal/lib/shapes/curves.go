package shapes

import (
	"math"

	"github.com/dpup/shapetools/internal/lib/geo"
)

// CurveParams describes the parametric curves. Count is the number of
// petals, cusps or lobes depending on the curve. Segments is the number of
// parameter samples over one full turn.
type CurveParams struct {
	Count      int
	Radius     float64
	StartAngle float64
	Segments   int
}

func (p CurveParams) validate(minCount int) error {
	if err := requireAtLeast("count", p.Count, minCount); err != nil {
		return err
	}
	if err := requirePositive("radius", p.Radius); err != nil {
		return err
	}
	return requireAtLeast("segments", p.Segments, 8)
}

// parametric samples fn at Segments evenly spaced angles over [0, 2π).
func parametric(segments int, fn func(t float64) geo.Offset) []geo.Offset {
	out := make([]geo.Offset, segments)
	for i := range out {
		out[i] = fn(2 * math.Pi * float64(i) / float64(segments))
	}
	return out
}

func projectCurve(g *geo.Geodesic, origin geo.Point, offsets []geo.Offset, orientation float64) (Shape, error) {
	r, err := geo.Project(g, origin, offsets, orientation)
	if err != nil {
		return Shape{}, err
	}
	return polygon(closedRing(r)), nil
}

// Hypocycloid traces a point on a circle of radius Radius/Count rolling inside
// a circle of radius Radius, giving Count cusps that touch Radius.
func Hypocycloid(g *geo.Geodesic, origin geo.Point, p CurveParams) (Shape, error) {
	if err := p.validate(3); err != nil {
		return Shape{}, err
	}
	c := float64(p.Count)
	r := p.Radius / c
	offsets := parametric(p.Segments, func(t float64) geo.Offset {
		return geo.Offset{
			X: r*(c-1)*math.Cos(t) + r*math.Cos((c-1)*t),
			Y: r*(c-1)*math.Sin(t) - r*math.Sin((c-1)*t),
		}
	})
	return projectCurve(g, origin, offsets, p.StartAngle)
}

// Epicycloid traces a point on a circle rolling around the outside of a fixed
// circle, giving Count lobes whose outermost points reach Radius.
func Epicycloid(g *geo.Geodesic, origin geo.Point, p CurveParams) (Shape, error) {
	if err := p.validate(1); err != nil {
		return Shape{}, err
	}
	c := float64(p.Count)
	r := p.Radius / (c + 2)
	offsets := parametric(p.Segments, func(t float64) geo.Offset {
		return geo.Offset{
			X: r*(c+1)*math.Cos(t) - r*math.Cos((c+1)*t),
			Y: r*(c+1)*math.Sin(t) - r*math.Sin((c+1)*t),
		}
	})
	return projectCurve(g, origin, offsets, p.StartAngle)
}

// Polyfoil is a polar curve with Count lobes: at each azimuth the distance is
// the magnitude of the hypocycloid offset for that angle, so lobes bulge out
// to Radius between narrower waists.
func Polyfoil(g *geo.Geodesic, origin geo.Point, p CurveParams) (Shape, error) {
	if err := p.validate(3); err != nil {
		return Shape{}, err
	}
	c := float64(p.Count)
	r := p.Radius / c
	step := 360 / float64(p.Segments)
	polar := make([]geo.Polar, p.Segments)
	for i := range polar {
		t := radians(step * float64(i))
		x := r*(c-1)*math.Cos(t) + r*math.Cos((c-1)*t)
		y := r*(c-1)*math.Sin(t) - r*math.Sin((c-1)*t)
		polar[i] = geo.Polar{Bearing: p.StartAngle + step*float64(i), Distance: math.Hypot(x, y)}
	}
	r2, err := geo.ProjectPolar(g, origin, polar)
	if err != nil {
		return Shape{}, err
	}
	return polygon(closedRing(r2)), nil
}

// heartExtent is the largest magnitude of the heart curve below, reached at
// its bottom tip.
const heartExtent = 17

// Heart draws the classic heart curve upright at StartAngle 0, scaled so the
// tip lies at Radius. Count is ignored.
func Heart(g *geo.Geodesic, origin geo.Point, p CurveParams) (Shape, error) {
	if err := requirePositive("radius", p.Radius); err != nil {
		return Shape{}, err
	}
	if err := requireAtLeast("segments", p.Segments, 8); err != nil {
		return Shape{}, err
	}
	scale := p.Radius / heartExtent
	offsets := parametric(p.Segments, func(t float64) geo.Offset {
		sin := math.Sin(t)
		return geo.Offset{
			X: scale * 16 * sin * sin * sin,
			Y: scale * (13*math.Cos(t) - 5*math.Cos(2*t) - 2*math.Cos(3*t) - math.Cos(4*t)),
		}
	})
	return projectCurve(g, origin, offsets, p.StartAngle-90)
}

// roseProfile is the radial profile of one petal, the cosine of -89..89
// degrees in one degree steps. A single petal also starts at the origin so
// the figure is anchored there.
func roseProfile(petals int) []float64 {
	var out []float64
	if petals == 1 {
		out = append(out, 0)
	}
	for a := -89; a < 90; a++ {
		out = append(out, math.Cos(radians(float64(a))))
	}
	return out
}

// Rose draws Count petals of length Radius spaced evenly around origin, each
// centred on its own azimuth. Segments is ignored: petal resolution is one
// sample per degree of the petal profile.
func Rose(g *geo.Geodesic, origin geo.Point, p CurveParams) (Shape, error) {
	if err := requireAtLeast("petals", p.Count, 1); err != nil {
		return Shape{}, err
	}
	if err := requirePositive("radius", p.Radius); err != nil {
		return Shape{}, err
	}
	k := float64(p.Count)
	profile := roseProfile(p.Count)
	arc := 360 / k
	step := arc / float64(len(profile))
	offset := arc*(k-1) + p.StartAngle

	polar := make([]geo.Polar, 0, p.Count*len(profile))
	angle := -arc / 2
	for i := 0; i < p.Count; i++ {
		for _, d := range profile {
			polar = append(polar, geo.Polar{Bearing: angle + offset, Distance: d * p.Radius})
			angle += step
		}
	}
	r, err := geo.ProjectPolar(g, origin, polar)
	if err != nil {
		return Shape{}, err
	}
	return polygon(closedRing(r)), nil
}
