package main

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/dpup/shapetools/internal/export"
	"github.com/dpup/shapetools/internal/lib/antimeridian"
	"github.com/dpup/shapetools/internal/lib/decimate"
	"github.com/dpup/shapetools/internal/lib/geo"
	"github.com/dpup/shapetools/internal/lib/sampler"
	"github.com/dpup/shapetools/internal/lib/shapes"
	"github.com/dpup/shapetools/internal/lib/transform"
	"github.com/dpup/shapetools/internal/lib/units"
	"github.com/dpup/shapetools/internal/logging"
)

var (
	inputPath string

	linePoints   string
	linePolyline string
	lineSplit    bool

	discardVertices bool

	minDistance   float64
	minTime       float64
	timeUnit      string
	timeField     string
	groupField    string
	orderField    string
	either        bool
	preserveFinal bool

	scale     float64
	rotate    float64
	moveAzi   float64
	moveDist  float64
	flipMode  string
	measureIn string
)

var lineCmd = &cobra.Command{
	Use:   "line",
	Short: "Geodesic line through a list of points",
	Example: `  shapetools line --points "37.62,-122.38 35.55,139.78" --split-idl
  shapetools line --polyline '_p~iF~ps|U_ulLnnqC_mqNvxq` + "`" + `@'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pts, err := parseLinePoints()
		if err != nil {
			return err
		}
		var r geo.Ring
		for i := 1; i < len(pts); i++ {
			seg, err := sampler.Sample(a.g, pts[i-1], pts[i])
			if err != nil {
				return errors.Wrapf(err, "segment %d", i)
			}
			if len(r) > 0 {
				// Continue the unrolled longitude of the previous segment.
				seg = unrollFrom(r[len(r)-1], seg)
				seg = seg[1:]
			}
			r = append(r, seg...)
		}
		s := shapes.Shape{Kind: shapes.Line, Rings: geo.MultiRing{r}}
		if lineSplit {
			s = shapes.Shape{Kind: shapes.MultiLine, Rings: antimeridian.BreakAtIdl(a.g, r)}
		}
		return a.write(cmd, "line", []export.Item{{Name: "line", Shape: s}})
	},
}

func parseLinePoints() (geo.Ring, error) {
	if linePolyline != "" {
		return geo.DecodePolyline(linePolyline)
	}
	var r geo.Ring
	for _, f := range strings.Fields(linePoints) {
		lat, lon, ok := strings.Cut(f, ",")
		if !ok {
			return nil, geo.Invalidf("point %q is not lat,lon", f)
		}
		la, err1 := strconv.ParseFloat(lat, 64)
		lo, err2 := strconv.ParseFloat(lon, 64)
		if err1 != nil || err2 != nil {
			return nil, geo.Invalidf("point %q is not lat,lon", f)
		}
		p, err := geo.NewPoint(la, lo)
		if err != nil {
			return nil, err
		}
		r = append(r, p)
	}
	if len(r) < 2 {
		return nil, geo.Invalidf("a line needs at least 2 points, got %d", len(r))
	}
	return r, nil
}

// unrollFrom shifts seg by whole turns so that its first point matches the
// longitude of prev.
func unrollFrom(prev geo.Point, seg geo.Ring) geo.Ring {
	shift := geo.Unroll(seg[0].Longitude, prev.Longitude) - seg[0].Longitude
	if shift == 0 {
		return seg
	}
	out := seg.Clone()
	for i := range out {
		out[i].Longitude += shift
	}
	return out
}

var densifyCmd = &cobra.Command{
	Use:   "densify",
	Short: "Insert geodesic vertices into lines and polygon rings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := readItems(cmd, inputPath)
		if err != nil {
			return err
		}
		for i := range items {
			s := items[i].Shape
			if s.Kind == shapes.Points {
				return geo.Invalidf("feature %d: points cannot be densified", i)
			}
			rings, err := sampler.DensifyRings(a.g, s.Rings, discardVertices && s.Kind != shapes.Polygon)
			if err != nil {
				return errors.Wrapf(err, "feature %d", i)
			}
			items[i].Shape.Rings = rings
		}
		return a.write(cmd, "densified", items)
	},
}

var idlCmd = &cobra.Command{
	Use:   "idl",
	Short: "Split lines where they cross the antimeridian",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := readItems(cmd, inputPath)
		if err != nil {
			return err
		}
		split := 0
		for i := range items {
			s := items[i].Shape
			if s.Kind != shapes.Line && s.Kind != shapes.MultiLine {
				continue
			}
			parts := antimeridian.BreakRings(a.g, s.Rings)
			if len(parts) > len(s.Rings) {
				split++
			}
			items[i].Shape = shapes.Shape{Kind: shapes.MultiLine, Rings: parts}
		}
		logging.Infow(a.ctx(cmd), "Antimeridian split", "features", len(items), "split", split)
		return a.write(cmd, "split", items)
	},
}

var decimateCmd = &cobra.Command{
	Use:   "decimate",
	Short: "Drop line vertices or points closer than a distance or time",
	Long: `Lines keep every vertex at least --min-distance from the last one kept.
Point features are decimated in input order, or by --order-field within each
--group-field, using distance, time or both.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := readItems(cmd, inputPath)
		if err != nil {
			return err
		}
		if len(items) > 0 && items[0].Shape.Kind == shapes.Points {
			return decimatePoints(cmd, items)
		}
		for i := range items {
			if items[i].Shape.Kind == shapes.Points || items[i].Shape.Kind == shapes.Polygon {
				return geo.Invalidf("feature %d: only lines or a set of points can be decimated", i)
			}
			rings, err := decimate.Lines(a.g, items[i].Shape.Rings, a.meters(minDistance), preserveFinal)
			if err != nil {
				return errors.Wrapf(err, "feature %d", i)
			}
			items[i].Shape.Rings = rings
		}
		return a.write(cmd, "decimated", items)
	},
}

func decimatePoints(cmd *cobra.Command, items []export.Item) error {
	flags := cmd.Flags()
	opts := decimate.Options{
		ByDistance:    flags.Changed("min-distance"),
		MinDistance:   a.meters(minDistance),
		ByTime:        flags.Changed("min-time"),
		Either:        either,
		PreserveFinal: preserveFinal,
		Grouped:       groupField != "",
		Ordered:       orderField != "",
	}
	if opts.ByTime {
		unit, err := units.ParseDuration(timeUnit)
		if err != nil {
			return err
		}
		secs, err := units.ToSeconds(minTime, unit)
		if err != nil {
			return err
		}
		opts.MinTime = time.Duration(secs * float64(time.Second))
		if timeField == "" {
			return geo.Invalidf("--min-time needs --time-field")
		}
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	samples := make([]decimate.Sample, 0, len(items))
	for i, it := range items {
		if it.Shape.Kind != shapes.Points || len(it.Shape.Outer()) != 1 {
			return geo.Invalidf("feature %d: expected a single point", i)
		}
		s := decimate.Sample{Point: it.Shape.Outer()[0], Index: i}
		if opts.ByTime {
			t, err := parseTime(it.Properties[timeField])
			if err != nil {
				return errors.Wrapf(err, "feature %d", i)
			}
			s.Time = t
		}
		if opts.Grouped {
			s.Group = toString(it.Properties[groupField])
		}
		if opts.Ordered {
			o, err := strconv.ParseFloat(toString(it.Properties[orderField]), 64)
			if err != nil {
				return geo.Invalidf("feature %d: %s is not a number", i, orderField)
			}
			s.Order = o
		}
		samples = append(samples, s)
	}

	kept, err := decimate.Points(a.g, samples, opts)
	if err != nil {
		return err
	}
	out := make([]export.Item, len(kept))
	for i, s := range kept {
		out[i] = items[s.Index]
	}
	logging.Infow(a.ctx(cmd), "Decimated points", "in", len(items), "kept", len(kept))
	return a.write(cmd, "decimated", out)
}

// parseTime accepts RFC 3339 strings or Unix seconds.
func parseTime(v interface{}) (time.Time, error) {
	switch x := v.(type) {
	case nil:
		return time.Time{}, nil
	case float64:
		sec := int64(x)
		return time.Unix(sec, int64((x-float64(sec))*1e9)).UTC(), nil
	case string:
		if t, err := time.Parse(time.RFC3339, x); err == nil {
			return t, nil
		}
		if f, err := strconv.ParseFloat(x, 64); err == nil {
			return parseTime(f)
		}
	}
	return time.Time{}, geo.Invalidf("%v is not a time", v)
}

func toString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	b, _ := json.Marshal(v)
	return string(b)
}

var measureCmd = &cobra.Command{
	Use:   "measure",
	Short: "Geodesic length, area and per-segment azimuths",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var rings []geo.Ring
		if measureIn != "" {
			r, err := geo.DecodePolyline(measureIn)
			if err != nil {
				return err
			}
			rings = append(rings, r)
		} else {
			items, err := readItems(cmd, inputPath)
			if err != nil {
				return err
			}
			for _, it := range items {
				rings = append(rings, it.Shape.Rings...)
			}
		}

		perUnit, _ := a.unit.Meters()
		type result struct {
			geo.Measurement
			Unit   string  `json:"unit"`
			Length float64 `json:"length"`
			Area   float64 `json:"area,omitempty"`
		}
		out := make([]result, 0, len(rings))
		for i, r := range rings {
			m, err := a.g.Measure(r)
			if err != nil {
				return errors.Wrapf(err, "ring %d", i)
			}
			out = append(out, result{
				Measurement: m,
				Unit:        string(a.unit),
				Length:      m.Length / perUnit,
				Area:        m.Area / (perUnit * perUnit),
			})
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Scale, rotate and move features about their centroid",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := readItems(cmd, inputPath)
		if err != nil {
			return err
		}
		opts := transform.Options{
			Scale:             scale,
			Rotate:            rotate,
			TranslateAzimuth:  moveAzi,
			TranslateDistance: a.meters(moveDist),
		}
		for i := range items {
			if items[i].Shape, err = transform.Transform(a.g, items[i].Shape, opts); err != nil {
				return errors.Wrapf(err, "feature %d", i)
			}
		}
		return a.write(cmd, "transformed", items)
	},
}

var flipCmd = &cobra.Command{
	Use:   "flip",
	Short: "Mirror or quarter-turn features about their centroid",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := transform.ParseMode(flipMode)
		if err != nil {
			return err
		}
		items, err := readItems(cmd, inputPath)
		if err != nil {
			return err
		}
		for i := range items {
			if items[i].Shape, err = transform.Flip(a.g, items[i].Shape, mode); err != nil {
				return errors.Wrapf(err, "feature %d", i)
			}
		}
		return a.write(cmd, "flipped", items)
	},
}

func addInputFlag(cmds ...*cobra.Command) {
	for _, c := range cmds {
		c.Flags().StringVar(&inputPath, "in", "", "GeoJSON feature collection to read, stdin when empty")
	}
}

func init() {
	addInputFlag(densifyCmd, idlCmd, decimateCmd, measureCmd, transformCmd, flipCmd)

	lineCmd.Flags().StringVar(&linePoints, "points", "", "space separated lat,lon pairs")
	lineCmd.Flags().StringVar(&linePolyline, "polyline", "", "encoded polyline of the vertices")
	lineCmd.Flags().BoolVar(&lineSplit, "split-idl", false, "split the line at the antimeridian")

	densifyCmd.Flags().BoolVar(&discardVertices, "discard-vertices", false, "drop the original vertices of lines")

	df := decimateCmd.Flags()
	df.Float64Var(&minDistance, "min-distance", 0, "minimum distance between kept vertices (in --unit)")
	df.Float64Var(&minTime, "min-time", 0, "minimum time between kept points (in --time-unit)")
	df.StringVar(&timeUnit, "time-unit", string(units.Seconds), "unit of --min-time: s, min, h or day")
	df.StringVar(&timeField, "time-field", "", "property holding each point's time")
	df.StringVar(&groupField, "group-field", "", "property that partitions points into independent tracks")
	df.StringVar(&orderField, "order-field", "", "numeric property that orders points within a track")
	df.BoolVar(&either, "either", false, "keep a point when either the distance or the time condition holds")
	df.BoolVar(&preserveFinal, "preserve-final", false, "always keep the last vertex or point")

	measureCmd.Flags().StringVar(&measureIn, "polyline", "", "encoded polyline to measure instead of --in")

	tf := transformCmd.Flags()
	tf.Float64Var(&scale, "scale", 1, "distance multiplier from the centroid")
	tf.Float64Var(&rotate, "rotate", 0, "rotation in degrees, clockwise")
	tf.Float64Var(&moveAzi, "azimuth", 0, "direction to move the centroid")
	tf.Float64Var(&moveDist, "distance", 0, "distance to move the centroid (in --unit)")

	flipCmd.Flags().StringVar(&flipMode, "mode", "horizontal", "horizontal, vertical, rotate180, rotate90cw or rotate90ccw")
}
