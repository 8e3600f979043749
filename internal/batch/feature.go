package batch

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"

	"github.com/dpup/shapetools/internal/lib/geo"
)

// Feature is one input record: the origin shapes are generated around and
// the attributes data-driven parameters are read from.
type Feature struct {
	ID         interface{}
	Origin     geo.Point
	Properties geojson.Properties

	// err marks a feature whose geometry could not be used. It is skipped
	// and counted like any other bad feature.
	err error
}

// NewFeature builds a feature at origin with no attributes.
func NewFeature(origin geo.Point) Feature {
	return Feature{Origin: origin, Properties: geojson.Properties{}}
}

// FromGeoJSON converts every feature of fc. Point features become origins;
// anything else is kept so that it is skipped and counted in order.
func FromGeoJSON(fc *geojson.FeatureCollection) []Feature {
	out := make([]Feature, len(fc.Features))
	for i, f := range fc.Features {
		feat := Feature{ID: f.ID, Properties: f.Properties}
		if feat.Properties == nil {
			feat.Properties = geojson.Properties{}
		}
		switch g := f.Geometry.(type) {
		case orb.Point:
			p, err := geo.NewPoint(g.Lat(), g.Lon())
			if err != nil {
				feat.err = err
			} else {
				feat.Origin = p
			}
		case nil:
			feat.err = geo.Invalidf("feature has no geometry")
		default:
			feat.err = geo.Invalidf("feature geometry is %s, not a point", g.GeoJSONType())
		}
		out[i] = feat
	}
	return out
}

// ReadGeoJSON parses a feature collection.
func ReadGeoJSON(data []byte) ([]Feature, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrap(err, "parsing feature collection")
	}
	return FromGeoJSON(fc), nil
}
