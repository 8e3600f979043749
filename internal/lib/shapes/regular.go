package shapes

import (
	"github.com/dpup/shapetools/internal/lib/geo"
)

// CircleParams describes a circle approximated by a regular ring.
type CircleParams struct {
	Radius   float64
	Segments int
}

// Circle returns a closed ring of Segments+1 points at Radius from origin,
// the first due north and the rest clockwise at 360/Segments steps.
func Circle(g *geo.Geodesic, origin geo.Point, p CircleParams) (Shape, error) {
	if err := requirePositive("radius", p.Radius); err != nil {
		return Shape{}, err
	}
	if err := requireAtLeast("segments", p.Segments, 3); err != nil {
		return Shape{}, err
	}
	r, err := ringAt(g, origin, steps(0, p.Segments), p.Radius)
	if err != nil {
		return Shape{}, err
	}
	return polygon(closedRing(r)), nil
}

// PolygonParams describes a regular polygon.
type PolygonParams struct {
	Sides      int
	Radius     float64
	StartAngle float64
}

// RegularPolygon returns Sides vertices at Radius, the first at StartAngle and
// the rest counter-clockwise, closed back onto the first.
func RegularPolygon(g *geo.Geodesic, origin geo.Point, p PolygonParams) (Shape, error) {
	if err := requireAtLeast("sides", p.Sides, 3); err != nil {
		return Shape{}, err
	}
	if err := requirePositive("radius", p.Radius); err != nil {
		return Shape{}, err
	}
	step := 360 / float64(p.Sides)
	azimuths := make([]float64, p.Sides)
	for i := range azimuths {
		azimuths[i] = p.StartAngle - step*float64(i)
	}
	r, err := ringAt(g, origin, azimuths, p.Radius)
	if err != nil {
		return Shape{}, err
	}
	return polygon(closedRing(r)), nil
}

// StarParams describes a star with Points tips.
type StarParams struct {
	Points      int
	OuterRadius float64
	InnerRadius float64
	StartAngle  float64
}

// Star alternates tips at OuterRadius with notches at InnerRadius half a step
// behind them, walking counter-clockwise from StartAngle.
func Star(g *geo.Geodesic, origin geo.Point, p StarParams) (Shape, error) {
	if err := requireAtLeast("points", p.Points, 3); err != nil {
		return Shape{}, err
	}
	if err := requirePositive("outer radius", p.OuterRadius); err != nil {
		return Shape{}, err
	}
	if err := requireNonNegative("inner radius", p.InnerRadius); err != nil {
		return Shape{}, err
	}

	step := 360 / float64(p.Points)
	half := step / 2
	polar := make([]geo.Polar, 0, 2*p.Points)
	for i := 0; i < p.Points; i++ {
		a := p.StartAngle - step*float64(i)
		polar = append(polar,
			geo.Polar{Bearing: a, Distance: p.OuterRadius},
			geo.Polar{Bearing: a - half, Distance: p.InnerRadius})
	}
	r, err := geo.ProjectPolar(g, origin, polar)
	if err != nil {
		return Shape{}, err
	}
	return polygon(closedRing(r)), nil
}

// GearParams describes a gear. ToothPercent and SlotPercent are the share of
// one tooth's angular pitch taken by the flat top of the tooth and by the
// bottom of the slot.
type GearParams struct {
	Teeth        int
	OuterRadius  float64
	InnerRadius  float64
	ToothPercent float64
	SlotPercent  float64
	StartAngle   float64
}

// Gear returns a closed ring with two vertices on the outer radius for each
// tooth top and two on the inner radius for each slot, clockwise.
func Gear(g *geo.Geodesic, origin geo.Point, p GearParams) (Shape, error) {
	if err := requireAtLeast("teeth", p.Teeth, 3); err != nil {
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
	if p.ToothPercent <= 0 || p.ToothPercent > 100 || p.SlotPercent <= 0 || p.SlotPercent > 100 {
		return Shape{}, geo.Invalidf("tooth and slot percent must be in (0, 100], got %v and %v", p.ToothPercent, p.SlotPercent)
	}
	if p.ToothPercent+p.SlotPercent > 100 {
		return Shape{}, geo.Invalidf("tooth percent %v and slot percent %v exceed 100 together", p.ToothPercent, p.SlotPercent)
	}

	pitch := 360 / float64(p.Teeth)
	half := pitch / 2
	toothHalf := pitch * p.ToothPercent / 200
	slotHalf := pitch * p.SlotPercent / 200

	polar := make([]geo.Polar, 0, 4*p.Teeth)
	for i := 0; i < p.Teeth; i++ {
		a := p.StartAngle + pitch*float64(i)
		polar = append(polar,
			geo.Polar{Bearing: a - toothHalf, Distance: p.OuterRadius},
			geo.Polar{Bearing: a + toothHalf, Distance: p.OuterRadius})
		a += half
		polar = append(polar,
			geo.Polar{Bearing: a - slotHalf, Distance: p.InnerRadius},
			geo.Polar{Bearing: a + slotHalf, Distance: p.InnerRadius})
	}
	r, err := geo.ProjectPolar(g, origin, polar)
	if err != nil {
		return Shape{}, err
	}
	return polygon(closedRing(r)), nil
}
