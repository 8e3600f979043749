package geo

import (
	"math"

	"github.com/pkg/errors"
	"github.com/tidwall/geodesic"
)

// Settings is the immutable engine configuration shared by every generator,
// sampler and resolver call.
type Settings struct {
	// SemiMajorAxis is the equatorial radius of the ellipsoid in meters.
	SemiMajorAxis float64 `yaml:"semi_major_axis"`
	// Flattening of the ellipsoid, 0 for a sphere.
	Flattening float64 `yaml:"flattening"`
	// MaxSegmentLength bounds the spacing of sampled geodesic lines, in meters.
	MaxSegmentLength float64 `yaml:"max_segment_length"`
	// MaxSegments caps the number of pieces a single line is split into.
	MaxSegments int `yaml:"max_segments"`
}

// DefaultSettings returns the WGS84 ellipsoid with a 20 km sampling cap.
func DefaultSettings() Settings {
	return Settings{
		SemiMajorAxis:    6378137,
		Flattening:       1 / 298.257223563,
		MaxSegmentLength: 20000,
		MaxSegments:      1000,
	}
}

// Validate checks that the settings describe a usable ellipsoid and sampling
// policy.
func (s Settings) Validate() error {
	switch {
	case !(s.SemiMajorAxis > 0) || math.IsInf(s.SemiMajorAxis, 0):
		return invalidf("semi-major axis must be positive, got %v", s.SemiMajorAxis)
	case !(s.Flattening > -1 && s.Flattening < 1):
		return invalidf("flattening must be in (-1, 1), got %v", s.Flattening)
	case !(s.MaxSegmentLength > 0):
		return invalidf("max segment length must be positive, got %v", s.MaxSegmentLength)
	case s.MaxSegments < 1:
		return invalidf("max segments must be at least 1, got %d", s.MaxSegments)
	}
	return nil
}

// Geodesic solves direct and inverse problems on one ellipsoid. It holds no
// mutable state and is safe for concurrent use.
type Geodesic struct {
	settings Settings
	ell      *geodesic.Ellipsoid
}

// New builds a Geodesic for the given settings.
func New(s Settings) (*Geodesic, error) {
	if err := s.Validate(); err != nil {
		return nil, errors.Wrap(err, "geodesic settings")
	}
	return &Geodesic{settings: s, ell: geodesic.NewEllipsoid(s.SemiMajorAxis, s.Flattening)}, nil
}

// WGS84 returns a Geodesic built from DefaultSettings.
func WGS84() *Geodesic {
	return &Geodesic{settings: DefaultSettings(), ell: geodesic.WGS84}
}

// Settings returns the configuration the Geodesic was built with.
func (g *Geodesic) Settings() Settings {
	return g.settings
}

// Direct returns the point reached by travelling s meters from p along the
// initial azimuth azi, and the forward azimuth at that point. The returned
// longitude is in [-180, 180].
func (g *Geodesic) Direct(p Point, azi, s float64) (Point, float64, error) {
	var lat2, lon2, azi2 float64
	g.ell.Direct(p.Latitude, p.Longitude, azi, s, &lat2, &lon2, &azi2)
	if !finite(lat2, lon2, azi2) {
		return Point{}, 0, errors.Wrapf(ErrSolverFailure, "direct from (%v, %v) azimuth %v distance %v",
			p.Latitude, p.Longitude, azi, s)
	}
	return Point{Latitude: lat2, Longitude: lon2}, azi2, nil
}

// Inverse returns the geodesic distance between p1 and p2 in meters and the
// azimuths at each end.
func (g *Geodesic) Inverse(p1, p2 Point) (s12, azi1, azi2 float64, err error) {
	g.ell.Inverse(p1.Latitude, p1.Longitude, p2.Latitude, p2.Longitude, &s12, &azi1, &azi2)
	if !finite(s12, azi1, azi2) {
		return 0, 0, 0, errors.Wrapf(ErrSolverFailure, "inverse (%v, %v) to (%v, %v)",
			p1.Latitude, p1.Longitude, p2.Latitude, p2.Longitude)
	}
	return s12, azi1, azi2, nil
}

// Distance is Inverse without the azimuths.
func (g *Geodesic) Distance(p1, p2 Point) (float64, error) {
	s12, _, _, err := g.Inverse(p1, p2)
	return s12, err
}

// Destination is Direct with the result longitude unrolled to be continuous
// with the origin longitude.
func (g *Geodesic) Destination(p Point, azi, s float64) (Point, error) {
	return g.Line(p, azi).Position(s)
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
