package geo

import (
	"math"

	"github.com/pkg/errors"
	"github.com/tidwall/geodesic"
)

// Line is a geodesic starting at Origin with initial azimuth Azimuth. Positions
// along it carry unrolled longitudes: a line heading east past 180 keeps
// increasing instead of wrapping to -180, continuing from Origin's longitude
// as given.
type Line struct {
	Origin  Point
	Azimuth float64
	line    geodesic.Line
}

// Line returns the geodesic from p at azimuth azi.
func (g *Geodesic) Line(p Point, azi float64) *Line {
	return &Line{
		Origin:  p,
		Azimuth: azi,
		line:    g.ell.LineInit(p.Latitude, p.Longitude, azi, geodesic.Latitude|geodesic.Longitude|geodesic.Azimuth|geodesic.DistanceIn),
	}
}

// Position returns the point s meters along the line.
func (l *Line) Position(s float64) (Point, error) {
	p, _, err := l.PositionAzimuth(s)
	return p, err
}

// PositionAzimuth is Position plus the forward azimuth at the returned point.
func (l *Line) PositionAzimuth(s float64) (Point, float64, error) {
	var lat2, lon2, azi2 float64
	l.line.GenPosition(geodesic.LongUnroll, s, &lat2, &lon2, &azi2, nil, nil, nil, nil, nil)
	if !finite(lat2, lon2, azi2) {
		return Point{}, 0, errors.Wrapf(ErrSolverFailure, "position %v along (%v, %v) azimuth %v",
			s, l.Origin.Latitude, l.Origin.Longitude, l.Azimuth)
	}
	return Point{Latitude: lat2, Longitude: lon2}, azi2, nil
}

// Unroll shifts lon by a multiple of 360 so it lies within 180 degrees of ref.
func Unroll(lon, ref float64) float64 {
	return lon + 360*math.Round((ref-lon)/360)
}
