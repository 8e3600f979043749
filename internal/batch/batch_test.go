package batch

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/dpup/shapetools/internal/cache"
	"github.com/dpup/shapetools/internal/lib/geo"
	"github.com/dpup/shapetools/internal/lib/shapes"
	"github.com/dpup/shapetools/internal/lib/units"
	"github.com/dpup/shapetools/internal/metrics"
)

var angelscamp = geo.Point{Latitude: 38.0675, Longitude: -120.5436}

func featureWith(props geojson.Properties) Feature {
	f := NewFeature(angelscamp)
	f.Properties = props
	return f
}

func TestConstant(t *testing.T) {
	c := Constant{"radius": 5}
	v, err := c.Evaluate("radius", Feature{})
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)

	_, err = c.Evaluate("segments", Feature{})
	assert.True(t, errors.Is(err, ErrUndefined))
	assert.Equal(t, []string{"radius"}, c.Declared())
}

func TestFields(t *testing.T) {
	src := Fields{
		Columns:  map[string]string{"radius": "r"},
		Defaults: Constant{"radius": 7, "segments": 12},
	}

	tests := []struct {
		name    string
		props   geojson.Properties
		want    float64
		invalid bool
	}{
		{"number", geojson.Properties{"r": 3.5}, 3.5, false},
		{"integer", geojson.Properties{"r": 4}, 4, false},
		{"numeric string", geojson.Properties{"r": " 2.25 "}, 2.25, false},
		{"json number", geojson.Properties{"r": json.Number("9")}, 9, false},
		{"absent falls back", geojson.Properties{}, 7, false},
		{"null falls back", geojson.Properties{"r": nil}, 7, false},
		{"garbage", geojson.Properties{"r": "ten"}, 0, true},
		{"wrong type", geojson.Properties{"r": true}, 0, true},
		{"not finite", geojson.Properties{"r": "NaN"}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := src.Evaluate("radius", featureWith(tt.props))
			if tt.invalid {
				assert.True(t, geo.IsInvalid(err), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}

	v, err := src.Evaluate("segments", featureWith(geojson.Properties{"r": 1}))
	require.NoError(t, err)
	assert.Equal(t, 12.0, v)
	assert.Equal(t, []string{"radius", "segments"}, src.Declared())
}

func TestParseColumns(t *testing.T) {
	cols, err := ParseColumns([]string{"radius=r", "segments=seg"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"radius": "r", "segments": "seg"}, cols)

	_, err = ParseColumns([]string{"radius"})
	assert.True(t, geo.IsInvalid(err))
}

func TestFromGeoJSON(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(orb.Point{-120.5436, 38.0675}))
	fc.Append(geojson.NewFeature(orb.LineString{{0, 0}, {1, 1}}))
	fc.Append(geojson.NewFeature(orb.Point{200, 0}))

	features := FromGeoJSON(fc)
	require.Len(t, features, 3)
	assert.NoError(t, features[0].err)
	assert.Equal(t, angelscamp, features[0].Origin)
	assert.True(t, geo.IsInvalid(features[1].err))
	assert.True(t, geo.IsInvalid(features[2].err))
}

func TestReadGeoJSON(t *testing.T) {
	features, err := ReadGeoJSON([]byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Point","coordinates":[10,20]},"properties":{"r":2}}
	]}`))
	require.NoError(t, err)
	require.Len(t, features, 1)
	assert.Equal(t, geo.Point{Latitude: 20, Longitude: 10}, features[0].Origin)
	assert.Equal(t, 2.0, features[0].Properties.MustFloat64("r"))

	_, err = ReadGeoJSON([]byte(`{"type":`))
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	want := []string{
		"arc", "circle", "donut", "ellipse", "epicycloid", "gear", "heart", "hypocycloid",
		"lob", "pie", "points", "polyfoil", "polygon", "radials", "rings", "rose", "star",
	}
	assert.Equal(t, want, Names())

	// Every shape builds from its defaults.
	g := geo.WGS84()
	for _, name := range Names() {
		b, _ := Lookup(name)
		job := Job{Shape: name, Unit: units.Kilometers, Source: b.Defaults()}
		require.NoError(t, job.Validate(), name)
		s, err := job.Build(g, NewFeature(angelscamp))
		require.NoError(t, err, name)
		assert.NotEmpty(t, s.Rings, name)
	}
}

func TestJobValidate(t *testing.T) {
	err := Job{Shape: "blob", Unit: units.Meters, Source: Constant{}}.Validate()
	assert.True(t, geo.IsInvalid(err))

	err = Job{Shape: "circle", Unit: "parsec", Source: Constant{"radius": 1, "colour": 2}}.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)

	err = Job{Shape: "circle", Unit: units.Meters}.Validate()
	assert.Error(t, err)
}

func TestJobEvaluate(t *testing.T) {
	job := Job{Shape: "circle", Unit: units.Miles, Source: Constant{"radius": 2}}
	v, err := job.Evaluate(geo.WGS84(), NewFeature(angelscamp))
	require.NoError(t, err)
	assert.InDelta(t, 3218.688, v["radius"], 1e-9)
	assert.Equal(t, 36.0, v["segments"], "default")

	job.Source = Constant{"radius": 2, "segments": 12.5}
	_, err = job.Evaluate(geo.WGS84(), NewFeature(angelscamp))
	assert.True(t, geo.IsInvalid(err))

	job.Source = Constant{"radius": 2, "segments": 2e9}
	_, err = job.Evaluate(geo.WGS84(), NewFeature(angelscamp))
	assert.True(t, geo.IsInvalid(err), "counts are bounded by max segments")

	job.Source = Constant{"radius": 2, "segments": 1000}
	_, err = job.Evaluate(geo.WGS84(), NewFeature(angelscamp))
	assert.NoError(t, err)
}

func TestRunner_SkipsAndCounts(t *testing.T) {
	props := []geojson.Properties{
		{"r": 1}, {"r": -1}, {"r": "wide"}, {"r": 2}, {},
	}
	features := make([]Feature, len(props))
	for i, p := range props {
		features[i] = featureWith(p)
		features[i].ID = i
	}
	m := metrics.New()
	r := &Runner{Geodesic: geo.WGS84(), Workers: 3, Metrics: m}
	job := Job{
		Shape:  "circle",
		Unit:   units.Kilometers,
		Source: Fields{Columns: map[string]string{"radius": "r"}, Defaults: Constant{"radius": 3}},
	}

	res, err := r.Run(context.Background(), job, features)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Processed)
	assert.Equal(t, 2, res.Skipped)
	assert.Len(t, multierr.Errors(res.Err), 2)

	var idx []int
	for _, o := range res.Outcomes {
		idx = append(idx, o.Index)
		assert.Equal(t, shapes.Polygon, o.Shape.Kind)
	}
	assert.Equal(t, []int{0, 3, 4}, idx, "outcomes keep input order")

	assert.Equal(t, 3.0, testutil.ToFloat64(m.Features.WithLabelValues("circle", "processed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Features.WithLabelValues("circle", "skipped")))
}

func TestRunner_OversizedFeatureIsSkipped(t *testing.T) {
	features := []Feature{
		featureWith(geojson.Properties{"sp": 100}),
		featureWith(geojson.Properties{"sp": 1e-300}),
		featureWith(geojson.Properties{"n": 2e9}),
	}
	r := &Runner{Geodesic: geo.WGS84(), Workers: 2}

	res, err := r.Run(context.Background(), Job{
		Shape:  "points",
		Unit:   units.Kilometers,
		Source: Fields{Columns: map[string]string{"spacing": "sp"}},
	}, features[:2])
	require.NoError(t, err)
	assert.Equal(t, 1, res.Processed)
	assert.Equal(t, 1, res.Skipped)
	assert.True(t, geo.IsInvalid(res.Err))

	res, err = r.Run(context.Background(), Job{
		Shape:  "circle",
		Unit:   units.Kilometers,
		Source: Fields{Columns: map[string]string{"segments": "n"}},
	}, features[2:])
	require.NoError(t, err)
	assert.Equal(t, 0, res.Processed)
	assert.Equal(t, 1, res.Skipped)
	assert.True(t, geo.IsInvalid(res.Err))
}

func TestRunner_BadGeometryIsSkipped(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}))
	fc.Append(geojson.NewFeature(orb.Point{0, 0}))

	r := &Runner{Geodesic: geo.WGS84(), Workers: 2, Cache: cache.NewCache(8, nil)}
	res, err := r.Run(context.Background(), Job{Shape: "circle", Unit: units.Kilometers, Source: Constant{}}, FromGeoJSON(fc))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Processed)
	assert.Equal(t, 1, res.Skipped)
}

func TestRunner_ConfigErrorAbortsBeforeAnyFeature(t *testing.T) {
	m := metrics.New()
	r := &Runner{Geodesic: geo.WGS84(), Workers: 2, Metrics: m}
	res, err := r.Run(context.Background(), Job{Shape: "circle", Unit: units.Kilometers, Source: Constant{"radiu": 1}},
		[]Feature{NewFeature(angelscamp)})
	require.Error(t, err)
	assert.Zero(t, res.Processed)
	assert.Zero(t, res.Skipped)
	assert.Zero(t, testutil.CollectAndCount(m.Features))
}

// cancelingSource cancels the run while evaluating the feature with ID at.
type cancelingSource struct {
	Constant
	at     int
	cancel context.CancelFunc
}

func (s cancelingSource) Evaluate(paramID string, f Feature) (float64, error) {
	if f.ID == s.at {
		s.cancel()
	}
	return s.Constant.Evaluate(paramID, f)
}

func TestRunner_Cancellation(t *testing.T) {
	features := make([]Feature, 10)
	for i := range features {
		features[i] = NewFeature(angelscamp)
		features[i].ID = i
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := &Runner{Geodesic: geo.WGS84(), Workers: 1}
	job := Job{Shape: "circle", Unit: units.Kilometers, Source: cancelingSource{Constant: Constant{"radius": 1}, at: 2, cancel: cancel}}

	res, err := r.Run(ctx, job, features)
	assert.True(t, errors.Is(err, geo.ErrCanceled), "got %v", err)
	assert.Equal(t, 3, res.Processed, "the feature in flight finishes")
	assert.Len(t, res.Outcomes, 3)
}

func TestRunner_AlreadyCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &Runner{Geodesic: geo.WGS84(), Workers: 4}
	res, err := r.Run(ctx, Job{Shape: "circle", Unit: units.Kilometers, Source: Constant{}},
		[]Feature{NewFeature(angelscamp), NewFeature(angelscamp)})
	assert.True(t, errors.Is(err, geo.ErrCanceled))
	assert.Zero(t, res.Processed)
}

func TestRunner_Cache(t *testing.T) {
	m := metrics.New()
	r := &Runner{Geodesic: geo.WGS84(), Workers: 1, Cache: cache.NewCache(8, m), Metrics: m}
	features := []Feature{NewFeature(angelscamp), NewFeature(angelscamp), NewFeature(angelscamp)}

	res, err := r.Run(context.Background(), Job{Shape: "star", Unit: units.Kilometers, Source: Constant{}}, features)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Processed)
	assert.Equal(t, res.Outcomes[0].Shape, res.Outcomes[2].Shape)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheHits))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheMisses))
}

func TestRunner_SplitAntimeridian(t *testing.T) {
	r := &Runner{Geodesic: geo.WGS84(), Workers: 1}
	job := Job{
		Shape:             "lob",
		Unit:              units.Kilometers,
		Source:            Constant{"azimuth": 90, "distance": 500},
		SplitAntimeridian: true,
	}
	res, err := r.Run(context.Background(), job, []Feature{NewFeature(geo.Point{Latitude: 0, Longitude: 179})})
	require.NoError(t, err)
	require.Len(t, res.Outcomes, 1)

	s := res.Outcomes[0].Shape
	assert.Equal(t, shapes.MultiLine, s.Kind)
	require.Len(t, s.Rings, 2)
	first, second := s.Rings[0], s.Rings[1]
	assert.InDelta(t, 180, first[len(first)-1].Longitude, 1e-9)
	assert.InDelta(t, -180, second[0].Longitude, 1e-9)
}
