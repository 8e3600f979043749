package geo

import (
	"github.com/pkg/errors"
	"github.com/twpayne/go-polyline"
)

// DecodePolyline decodes a Google encoded polyline string to a ring.
func DecodePolyline(encoded string) (Ring, error) {
	if encoded == "" {
		return nil, invalidf("encoded polyline string is empty")
	}

	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidParameter, "failed to decode polyline: %v", err)
	}

	points := make(Ring, len(coords))
	for i, coord := range coords {
		points[i] = Point{Latitude: coord[0], Longitude: coord[1]}
		if !isValidCoordinate(points[i]) {
			return nil, invalidf("decoded polyline contains invalid coordinates at index %d", i)
		}
	}
	return points, nil
}

// EncodePolyline encodes a ring as a Google polyline. Longitudes outside
// [-180, 180] are encoded as-is.
func EncodePolyline(r Ring) string {
	coords := make([][]float64, len(r))
	for i, p := range r {
		coords[i] = []float64{p.Latitude, p.Longitude}
	}
	return string(polyline.EncodeCoords(coords))
}
