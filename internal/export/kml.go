package export

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/twpayne/go-kml"

	"github.com/dpup/shapetools/internal/lib/geo"
	"github.com/dpup/shapetools/internal/lib/shapes"
)

// Document builds a KML document with one placemark per item.
func Document(name string, items []Item) *kml.CompoundElement {
	doc := kml.Document(kml.Name(name))
	for _, it := range items {
		pm := kml.Placemark()
		if it.Name != "" {
			pm.Add(kml.Name(it.Name))
		}
		if len(it.Properties) > 0 {
			pm.Add(extendedData(it.Properties))
		}
		pm.Add(kmlGeometry(it.Shape))
		doc.Add(pm)
	}
	return kml.KML(doc)
}

// WriteKML writes items as an indented KML document.
func WriteKML(w io.Writer, name string, items []Item) error {
	return errors.Wrap(Document(name, items).WriteIndent(w, "", "  "), "writing kml")
}

func kmlGeometry(s shapes.Shape) kml.Element {
	switch s.Kind {
	case shapes.Polygon:
		if len(s.Rings) == 0 {
			return kml.Polygon()
		}
		poly := kml.Polygon(kml.OuterBoundaryIs(kml.LinearRing(coordinates(s.Rings[0]))))
		for _, hole := range s.Rings[1:] {
			poly.Add(kml.InnerBoundaryIs(kml.LinearRing(coordinates(hole))))
		}
		return poly
	case shapes.Line:
		return kml.LineString(coordinates(s.Outer()))
	case shapes.MultiLine:
		mg := kml.MultiGeometry()
		for _, r := range s.Rings {
			mg.Add(kml.LineString(coordinates(r)))
		}
		return mg
	default:
		mg := kml.MultiGeometry()
		for _, r := range s.Rings {
			for _, p := range r {
				mg.Add(kml.Point(kml.Coordinates(kml.Coordinate{Lon: p.Longitude, Lat: p.Latitude})))
			}
		}
		return mg
	}
}

func coordinates(r geo.Ring) *kml.CoordinatesElement {
	cs := make([]kml.Coordinate, len(r))
	for i, p := range r {
		cs[i] = kml.Coordinate{Lon: p.Longitude, Lat: p.Latitude}
	}
	return kml.Coordinates(cs...)
}

func extendedData(props map[string]interface{}) kml.Element {
	ed := kml.ExtendedData()
	for _, k := range sortedKeys(props) {
		d := kml.Data(kml.Value(fmt.Sprint(props[k])))
		d.Attr = append(d.Attr, xml.Attr{Name: xml.Name{Local: "name"}, Value: k})
		ed.Add(d)
	}
	return ed
}
