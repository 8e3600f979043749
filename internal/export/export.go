// Package export writes generated shapes as GeoJSON, KML or encoded
// polylines. Longitudes beyond 180 produced by antimeridian normalization are
// written as they are.
package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/pkg/errors"

	"github.com/dpup/shapetools/internal/lib/geo"
	"github.com/dpup/shapetools/internal/lib/shapes"
)

// Item is one output feature.
type Item struct {
	Name       string
	Shape      shapes.Shape
	Properties map[string]interface{}
}

// Format is an output encoding.
type Format string

const (
	GeoJSON  Format = "geojson"
	KML      Format = "kml"
	Polyline Format = "polyline"
)

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(name); f {
	case GeoJSON, KML, Polyline:
		return f, nil
	}
	return "", geo.Invalidf("unknown output format %q", name)
}

// Write encodes items to w in format f. name titles the KML document.
func Write(w io.Writer, f Format, name string, items []Item) error {
	switch f {
	case GeoJSON:
		return WriteGeoJSON(w, items)
	case KML:
		return WriteKML(w, name, items)
	case Polyline:
		return WritePolyline(w, items)
	}
	return geo.Invalidf("unknown output format %q", string(f))
}

// WritePolyline writes every ring of every item as an encoded polyline, one
// per line.
func WritePolyline(w io.Writer, items []Item) error {
	for i, it := range items {
		for _, r := range it.Shape.Rings {
			if _, err := fmt.Fprintln(w, geo.EncodePolyline(r)); err != nil {
				return errors.Wrapf(err, "writing item %d", i)
			}
		}
	}
	return nil
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
