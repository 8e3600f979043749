package batch

import (
	"math"
	"sort"

	"github.com/dpup/shapetools/internal/lib/geo"
	"github.com/dpup/shapetools/internal/lib/shapes"
)

// ParamKind says how a raw parameter value is interpreted.
type ParamKind int

const (
	// Length values are in the job's distance unit and converted to meters.
	Length ParamKind = iota
	// Count values must be whole numbers.
	Count
	// Angle values are degrees clockwise from north.
	Angle
	// Number values are used as given.
	Number
)

// Param describes one input of a shape builder.
type Param struct {
	Name    string
	Kind    ParamKind
	Default float64
	Usage   string
}

// Values are evaluated parameters, lengths already in meters.
type Values map[string]float64

func (v Values) int(name string) int {
	return int(v[name])
}

// Builder generates one kind of shape from evaluated parameters.
type Builder struct {
	Name   string
	Short  string
	Params []Param
	Build  func(g *geo.Geodesic, origin geo.Point, v Values) (shapes.Shape, error)
}

// Param returns the named parameter description.
func (b Builder) Param(name string) (Param, bool) {
	for _, p := range b.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Defaults returns every parameter at its default value, in job units.
func (b Builder) Defaults() Constant {
	c := make(Constant, len(b.Params))
	for _, p := range b.Params {
		c[p.Name] = p.Default
	}
	return c
}

// convert checks a raw value against its kind and applies the unit. Counts
// above maxCount are rejected so a single feature cannot request an unbounded
// number of vertices.
func (p Param) convert(raw, metersPerUnit float64, maxCount int) (float64, error) {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0, geo.Invalidf("%s: %v is not a finite number", p.Name, raw)
	}
	switch p.Kind {
	case Length:
		return raw * metersPerUnit, nil
	case Count:
		if raw != math.Trunc(raw) {
			return 0, geo.Invalidf("%s: %v is not a valid integer", p.Name, raw)
		}
		if raw > float64(maxCount) {
			return 0, geo.Invalidf("%s: %v exceeds the limit of %d", p.Name, raw, maxCount)
		}
	}
	return raw, nil
}

var (
	startAngle = Param{Name: "start_angle", Kind: Angle, Usage: "azimuth of the first vertex"}
	curveSteps = Param{Name: "segments", Kind: Count, Default: 720, Usage: "samples over the full curve"}
)

func radius(def float64) Param {
	return Param{Name: "radius", Kind: Length, Default: def, Usage: "radius"}
}

func segments(def float64) Param {
	return Param{Name: "segments", Kind: Count, Default: def, Usage: "vertices in a full circle"}
}

var registry = map[string]Builder{}

func register(b Builder) {
	registry[b.Name] = b
}

// Lookup returns the builder for a shape name.
func Lookup(name string) (Builder, bool) {
	b, ok := registry[name]
	return b, ok
}

// Names lists every registered shape.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func curveBuilder(name, short, count string, def float64, usage string,
	gen func(*geo.Geodesic, geo.Point, shapes.CurveParams) (shapes.Shape, error)) Builder {
	return Builder{
		Name:  name,
		Short: short,
		Params: []Param{
			{Name: count, Kind: Count, Default: def, Usage: usage},
			radius(40), startAngle, curveSteps,
		},
		Build: func(g *geo.Geodesic, origin geo.Point, v Values) (shapes.Shape, error) {
			return gen(g, origin, shapes.CurveParams{
				Count:      v.int(count),
				Radius:     v["radius"],
				StartAngle: v["start_angle"],
				Segments:   v.int("segments"),
			})
		},
	}
}

func init() {
	register(Builder{
		Name:   "circle",
		Short:  "Circle of a given radius",
		Params: []Param{radius(20), segments(36)},
		Build: func(g *geo.Geodesic, origin geo.Point, v Values) (shapes.Shape, error) {
			return shapes.Circle(g, origin, shapes.CircleParams{Radius: v["radius"], Segments: v.int("segments")})
		},
	})
	register(Builder{
		Name:  "ellipse",
		Short: "Ellipse with curvature-adaptive vertex spacing",
		Params: []Param{
			{Name: "semi_major", Kind: Length, Default: 40, Usage: "semi-major axis"},
			{Name: "semi_minor", Kind: Length, Default: 20, Usage: "semi-minor axis"},
			{Name: "orientation", Kind: Angle, Usage: "azimuth of the major axis"},
			segments(64),
		},
		Build: func(g *geo.Geodesic, origin geo.Point, v Values) (shapes.Shape, error) {
			return shapes.Ellipse(g, origin, shapes.EllipseParams{
				SemiMajor:   v["semi_major"],
				SemiMinor:   v["semi_minor"],
				Orientation: v["orientation"],
				Segments:    v.int("segments"),
			})
		},
	})
	register(Builder{
		Name:   "polygon",
		Short:  "Regular polygon",
		Params: []Param{{Name: "sides", Kind: Count, Default: 3, Usage: "number of sides"}, radius(40), startAngle},
		Build: func(g *geo.Geodesic, origin geo.Point, v Values) (shapes.Shape, error) {
			return shapes.RegularPolygon(g, origin, shapes.PolygonParams{
				Sides:      v.int("sides"),
				Radius:     v["radius"],
				StartAngle: v["start_angle"],
			})
		},
	})
	register(Builder{
		Name:  "star",
		Short: "Star with alternating outer and inner vertices",
		Params: []Param{
			{Name: "points", Kind: Count, Default: 5, Usage: "number of tips"},
			{Name: "outer_radius", Kind: Length, Default: 20, Usage: "radius of the tips"},
			{Name: "inner_radius", Kind: Length, Default: 10, Usage: "radius of the notches"},
			startAngle,
		},
		Build: func(g *geo.Geodesic, origin geo.Point, v Values) (shapes.Shape, error) {
			return shapes.Star(g, origin, shapes.StarParams{
				Points:      v.int("points"),
				OuterRadius: v["outer_radius"],
				InnerRadius: v["inner_radius"],
				StartAngle:  v["start_angle"],
			})
		},
	})
	register(Builder{
		Name:  "gear",
		Short: "Gear outline",
		Params: []Param{
			{Name: "teeth", Kind: Count, Default: 6, Usage: "number of teeth"},
			{Name: "outer_radius", Kind: Length, Default: 20, Usage: "radius of the tooth tops"},
			{Name: "inner_radius", Kind: Length, Default: 14, Usage: "radius of the slot bottoms"},
			{Name: "tooth_percent", Kind: Number, Default: 40, Usage: "share of each pitch taken by the tooth top"},
			{Name: "slot_percent", Kind: Number, Default: 40, Usage: "share of each pitch taken by the slot bottom"},
			startAngle,
		},
		Build: func(g *geo.Geodesic, origin geo.Point, v Values) (shapes.Shape, error) {
			return shapes.Gear(g, origin, shapes.GearParams{
				Teeth:        v.int("teeth"),
				OuterRadius:  v["outer_radius"],
				InnerRadius:  v["inner_radius"],
				ToothPercent: v["tooth_percent"],
				SlotPercent:  v["slot_percent"],
				StartAngle:   v["start_angle"],
			})
		},
	})
	register(Builder{
		Name:   "rose",
		Short:  "Rose curve",
		Params: []Param{{Name: "petals", Kind: Count, Default: 8, Usage: "number of petals"}, radius(40), startAngle},
		Build: func(g *geo.Geodesic, origin geo.Point, v Values) (shapes.Shape, error) {
			return shapes.Rose(g, origin, shapes.CurveParams{
				Count:      v.int("petals"),
				Radius:     v["radius"],
				StartAngle: v["start_angle"],
			})
		},
	})
	register(curveBuilder("hypocycloid", "Hypocycloid", "cusps", 4, "number of cusps", shapes.Hypocycloid))
	register(curveBuilder("epicycloid", "Epicycloid", "lobes", 5, "number of lobes", shapes.Epicycloid))
	register(curveBuilder("polyfoil", "Polyfoil", "lobes", 5, "number of lobes", shapes.Polyfoil))
	register(Builder{
		Name:   "heart",
		Short:  "Heart curve",
		Params: []Param{radius(40), startAngle, curveSteps},
		Build: func(g *geo.Geodesic, origin geo.Point, v Values) (shapes.Shape, error) {
			return shapes.Heart(g, origin, shapes.CurveParams{
				Radius:     v["radius"],
				StartAngle: v["start_angle"],
				Segments:   v.int("segments"),
			})
		},
	})
	register(Builder{
		Name:  "arc",
		Short: "Arc wedge between two radii",
		Params: []Param{
			{Name: "outer_radius", Kind: Length, Default: 40, Usage: "outer radius"},
			{Name: "inner_radius", Kind: Length, Default: 20, Usage: "inner radius, 0 for a pie wedge"},
			{Name: "start", Kind: Angle, Usage: "start azimuth, or centre azimuth with mode 1"},
			{Name: "end", Kind: Angle, Default: 30, Usage: "end azimuth, or total width with mode 1"},
			{Name: "mode", Kind: Count, Usage: "0 start/end azimuths, 1 centre azimuth and width"},
			segments(36),
		},
		Build: func(g *geo.Geodesic, origin geo.Point, v Values) (shapes.Shape, error) {
			mode := shapes.AzimuthMode(v.int("mode"))
			if mode != shapes.StartEnd && mode != shapes.CenterWidth {
				return shapes.Shape{}, geo.Invalidf("mode must be 0 or 1, got %d", mode)
			}
			return shapes.Arc(g, origin, shapes.ArcParams{
				OuterRadius: v["outer_radius"],
				InnerRadius: v["inner_radius"],
				Start:       v["start"],
				End:         v["end"],
				Mode:        mode,
				Segments:    v.int("segments"),
			})
		},
	})
	register(Builder{
		Name:  "pie",
		Short: "Pie wedge",
		Params: []Param{
			radius(20),
			{Name: "start", Kind: Angle, Usage: "start azimuth"},
			{Name: "end", Kind: Angle, Default: 30, Usage: "end azimuth"},
			segments(36),
		},
		Build: func(g *geo.Geodesic, origin geo.Point, v Values) (shapes.Shape, error) {
			return shapes.Pie(g, origin, shapes.PieParams{
				Radius:   v["radius"],
				Start:    v["start"],
				End:      v["end"],
				Segments: v.int("segments"),
			})
		},
	})
	register(Builder{
		Name:  "donut",
		Short: "Ring with a hole",
		Params: []Param{
			{Name: "outer_radius", Kind: Length, Default: 20, Usage: "outer radius"},
			{Name: "inner_radius", Kind: Length, Default: 10, Usage: "inner radius, 0 for a plain circle"},
			segments(36),
		},
		Build: func(g *geo.Geodesic, origin geo.Point, v Values) (shapes.Shape, error) {
			return shapes.Donut(g, origin, shapes.DonutParams{
				OuterRadius: v["outer_radius"],
				InnerRadius: v["inner_radius"],
				Segments:    v.int("segments"),
			})
		},
	})
	register(Builder{
		Name:  "radials",
		Short: "Evenly spaced radial lines",
		Params: []Param{
			{Name: "lines", Kind: Count, Default: 5, Usage: "number of lines"},
			{Name: "inner_radius", Kind: Length, Default: 10, Usage: "where each line starts"},
			{Name: "outer_radius", Kind: Length, Default: 20, Usage: "where each line ends"},
			startAngle,
		},
		Build: func(g *geo.Geodesic, origin geo.Point, v Values) (shapes.Shape, error) {
			return shapes.RadialLines(g, origin, shapes.RadialParams{
				Lines:       v.int("lines"),
				InnerRadius: v["inner_radius"],
				OuterRadius: v["outer_radius"],
				StartAngle:  v["start_angle"],
			})
		},
	})
	register(Builder{
		Name:  "rings",
		Short: "Concentric range rings with optional spokes",
		Params: []Param{
			{Name: "rings", Kind: Count, Default: 4, Usage: "number of rings"},
			{Name: "spacing", Kind: Length, Default: 10, Usage: "distance between rings"},
			{Name: "start_radius", Kind: Length, Default: 10, Usage: "radius of the first ring"},
			segments(90),
			{Name: "radials", Kind: Count, Usage: "number of spokes"},
			{Name: "radial_start", Kind: Angle, Usage: "azimuth of the first spoke"},
		},
		Build: func(g *geo.Geodesic, origin geo.Point, v Values) (shapes.Shape, error) {
			return shapes.ConcentricRings(g, origin, shapes.RingsParams{
				Rings:       v.int("rings"),
				Spacing:     v["spacing"],
				StartRadius: v["start_radius"],
				Segments:    v.int("segments"),
				Radials:     v.int("radials"),
				RadialStart: v["radial_start"],
			})
		},
	})
	register(Builder{
		Name:  "lob",
		Short: "Line of bearing",
		Params: []Param{
			{Name: "azimuth", Kind: Angle, Usage: "bearing of the line"},
			{Name: "distance", Kind: Length, Default: 1000, Usage: "length of the line"},
			{Name: "offset", Kind: Length, Usage: "distance from the origin to the start of the line"},
		},
		Build: func(g *geo.Geodesic, origin geo.Point, v Values) (shapes.Shape, error) {
			return shapes.LineOfBearing(g, origin, shapes.BearingParams{
				Azimuth:  v["azimuth"],
				Distance: v["distance"],
				Offset:   v["offset"],
			})
		},
	})
	register(Builder{
		Name:  "points",
		Short: "Points spaced along a bearing",
		Params: []Param{
			{Name: "azimuth", Kind: Angle, Usage: "bearing of the line"},
			{Name: "distance", Kind: Length, Default: 1000, Usage: "length of the line"},
			{Name: "spacing", Kind: Length, Default: 50, Usage: "distance between points"},
			{Name: "offset", Kind: Length, Usage: "distance from the origin to the first point"},
		},
		Build: func(g *geo.Geodesic, origin geo.Point, v Values) (shapes.Shape, error) {
			return shapes.PointsAlongBearing(g, origin, shapes.PointsParams{
				Azimuth:  v["azimuth"],
				Distance: v["distance"],
				Spacing:  v["spacing"],
				Offset:   v["offset"],
			})
		},
	})
}
