package antimeridian

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/pkg/errors"

	"github.com/dpup/shapetools/internal/lib/geo"
)

// ErrNoIntersection is returned when two great-circle paths do not have a
// unique forward intersection.
var ErrNoIntersection = errors.New("no intersection")

// Intersection returns the point where the great circle leaving p1 on
// bearing1 meets the great circle leaving p2 on bearing2, solved on the
// sphere with the law of cosines. Coincident points, identical paths and
// intersections that lie behind one of the two starting points yield
// ErrNoIntersection.
func Intersection(p1 geo.Point, bearing1 float64, p2 geo.Point, bearing2 float64) (geo.Point, error) {
	ll1 := s2.LatLngFromDegrees(p1.Latitude, p1.Longitude)
	ll2 := s2.LatLngFromDegrees(p2.Latitude, p2.Longitude)
	phi1, lambda1 := ll1.Lat.Radians(), ll1.Lng.Radians()
	phi2, lambda2 := ll2.Lat.Radians(), ll2.Lng.Radians()
	theta13 := (s1.Angle(bearing1) * s1.Degree).Radians()
	theta23 := (s1.Angle(bearing2) * s1.Degree).Radians()

	// Angular distance between the two starting points.
	d12 := ll1.Distance(ll2).Radians()
	if d12 == 0 {
		return geo.Point{}, errors.Wrap(ErrNoIntersection, "coincident points")
	}

	cosThetaA := (math.Sin(phi2) - math.Sin(phi1)*math.Cos(d12)) / (math.Sin(d12) * math.Cos(phi1))
	cosThetaB := (math.Sin(phi1) - math.Sin(phi2)*math.Cos(d12)) / (math.Sin(d12) * math.Cos(phi2))
	thetaA := math.Acos(clamp(cosThetaA))
	thetaB := math.Acos(clamp(cosThetaB))

	var theta12, theta21 float64
	if math.Sin(lambda2-lambda1) > 0 {
		theta12 = thetaA
		theta21 = 2*math.Pi - thetaB
	} else {
		theta12 = 2*math.Pi - thetaA
		theta21 = thetaB
	}

	alpha1 := theta13 - theta12
	alpha2 := theta21 - theta23
	sinA1, sinA2 := math.Sin(alpha1), math.Sin(alpha2)
	if sinA1 == 0 && sinA2 == 0 {
		return geo.Point{}, errors.Wrap(ErrNoIntersection, "paths coincide")
	}
	if sinA1*sinA2 < 0 {
		return geo.Point{}, errors.Wrap(ErrNoIntersection, "ambiguous intersection")
	}

	cosA3 := -math.Cos(alpha1)*math.Cos(alpha2) + sinA1*sinA2*math.Cos(d12)
	d13 := math.Atan2(math.Sin(d12)*sinA1*sinA2, math.Cos(alpha2)+math.Cos(alpha1)*cosA3)
	phi3 := math.Asin(clamp(math.Sin(phi1)*math.Cos(d13) + math.Cos(phi1)*math.Sin(d13)*math.Cos(theta13)))
	dLambda13 := math.Atan2(math.Sin(theta13)*math.Sin(d13)*math.Cos(phi1), math.Cos(d13)-math.Sin(phi1)*math.Sin(phi3))
	lambda3 := lambda1 + dLambda13

	out := s2.LatLng{Lat: s1.Angle(phi3), Lng: s1.Angle(lambda3)}
	return geo.Point{
		Latitude:  out.Lat.Degrees(),
		Longitude: NormalizeLongitude(out.Lng.Degrees()),
	}, nil
}

func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
