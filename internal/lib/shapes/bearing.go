package shapes

import (
	"github.com/dpup/shapetools/internal/lib/geo"
	"github.com/dpup/shapetools/internal/lib/sampler"
)

// BearingParams describes a line of bearing from origin. Offset skips the
// first Offset meters of the line.
type BearingParams struct {
	Azimuth  float64
	Distance float64
	Offset   float64
}

// LineOfBearing samples the geodesic from origin at Azimuth out to Distance
// with the sampler limits of g. The last point is exactly Distance from
// origin. Longitudes are unrolled so the line never jumps at ±180.
func LineOfBearing(g *geo.Geodesic, origin geo.Point, p BearingParams) (Shape, error) {
	if err := requirePositive("distance", p.Distance); err != nil {
		return Shape{}, err
	}
	if err := requireFinite("azimuth", p.Azimuth); err != nil {
		return Shape{}, err
	}
	r, err := sampler.SampleLine(g, origin, p.Azimuth, p.Distance, p.Offset)
	if err != nil {
		return Shape{}, err
	}
	return Shape{Kind: Line, Rings: geo.MultiRing{r}}, nil
}

// PointsParams describes points spaced along a bearing.
type PointsParams struct {
	Azimuth  float64
	Distance float64
	Spacing  float64
	Offset   float64
}

// pointTolerance is how close the last regular point may come to Distance
// before it is dropped in favour of the final point.
const pointTolerance = 1e-6

// PointsAlongBearing returns points at Offset, Offset+Spacing, ... strictly
// short of Distance, then one final point exactly at Distance.
func PointsAlongBearing(g *geo.Geodesic, origin geo.Point, p PointsParams) (Shape, error) {
	if err := requirePositive("distance", p.Distance); err != nil {
		return Shape{}, err
	}
	if err := requirePositive("spacing", p.Spacing); err != nil {
		return Shape{}, err
	}
	if err := requireNonNegative("offset", p.Offset); err != nil {
		return Shape{}, err
	}
	if p.Offset >= p.Distance {
		return Shape{}, geo.Invalidf("offset %v must be less than distance %v", p.Offset, p.Distance)
	}
	max := g.Settings().MaxSegments + 1
	if n := (p.Distance-p.Offset)/p.Spacing + 2; !(n <= float64(max)) {
		return Shape{}, geo.Invalidf("spacing %v yields more than %d points", p.Spacing, max)
	}
	count := int((p.Distance-p.Offset)/p.Spacing) + 2

	line := g.Line(origin, p.Azimuth)
	pts := make(geo.Ring, 0, count)
	for i := 0; ; i++ {
		d := p.Offset + p.Spacing*float64(i)
		if d >= p.Distance-pointTolerance {
			break
		}
		pt, err := line.Position(d)
		if err != nil {
			return Shape{}, err
		}
		pts = append(pts, pt)
	}
	end, err := line.Position(p.Distance)
	if err != nil {
		return Shape{}, err
	}
	return Shape{Kind: Points, Rings: geo.MultiRing{append(pts, end)}}, nil
}
