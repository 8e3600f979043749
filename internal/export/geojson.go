package export

import (
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"

	"github.com/dpup/shapetools/internal/lib/geo"
	"github.com/dpup/shapetools/internal/lib/shapes"
)

// Geometry converts a shape to the matching orb geometry.
func Geometry(s shapes.Shape) orb.Geometry {
	switch s.Kind {
	case shapes.Polygon:
		poly := make(orb.Polygon, len(s.Rings))
		for i, r := range s.Rings {
			poly[i] = orb.Ring(points(r))
		}
		return poly
	case shapes.Line:
		return orb.LineString(points(s.Outer()))
	case shapes.MultiLine:
		ml := make(orb.MultiLineString, len(s.Rings))
		for i, r := range s.Rings {
			ml[i] = orb.LineString(points(r))
		}
		return ml
	default:
		var mp orb.MultiPoint
		for _, r := range s.Rings {
			mp = append(mp, points(r)...)
		}
		return mp
	}
}

func points(r geo.Ring) []orb.Point {
	out := make([]orb.Point, len(r))
	for i, p := range r {
		out[i] = orb.Point{p.Longitude, p.Latitude}
	}
	return out
}

// FeatureCollection wraps each item in a feature carrying its properties.
func FeatureCollection(items []Item) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, it := range items {
		f := geojson.NewFeature(Geometry(it.Shape))
		for k, v := range it.Properties {
			f.Properties[k] = v
		}
		if it.Name != "" {
			f.Properties["name"] = it.Name
		}
		fc.Append(f)
	}
	return fc
}

// WriteGeoJSON writes items as a feature collection.
func WriteGeoJSON(w io.Writer, items []Item) error {
	data, err := FeatureCollection(items).MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "encoding geojson")
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return errors.Wrap(err, "writing geojson")
}

// RingsFromGeoJSON extracts the line or ring vertices of every feature, for
// commands that post-process existing geometry. Points become a single
// ring of their coordinates.
func RingsFromGeoJSON(fc *geojson.FeatureCollection) ([]Item, error) {
	items := make([]Item, 0, len(fc.Features))
	for i, f := range fc.Features {
		var s shapes.Shape
		switch g := f.Geometry.(type) {
		case orb.LineString:
			s = shapes.Shape{Kind: shapes.Line, Rings: geo.MultiRing{ring(g)}}
		case orb.MultiLineString:
			s = shapes.Shape{Kind: shapes.MultiLine}
			for _, ls := range g {
				s.Rings = append(s.Rings, ring(ls))
			}
		case orb.Polygon:
			s = shapes.Shape{Kind: shapes.Polygon}
			for _, r := range g {
				s.Rings = append(s.Rings, ring(r))
			}
		case orb.Point:
			s = shapes.Shape{Kind: shapes.Points, Rings: geo.MultiRing{ring([]orb.Point{g})}}
		case orb.MultiPoint:
			s = shapes.Shape{Kind: shapes.Points, Rings: geo.MultiRing{ring(g)}}
		default:
			return nil, geo.Invalidf("feature %d: unsupported geometry %T", i, f.Geometry)
		}
		items = append(items, Item{Shape: s, Properties: f.Properties})
	}
	return items, nil
}

func ring(pts []orb.Point) geo.Ring {
	r := make(geo.Ring, len(pts))
	for i, p := range pts {
		r[i] = geo.Point{Latitude: p.Lat(), Longitude: p.Lon()}
	}
	return r
}
