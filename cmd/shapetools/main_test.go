package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) *geojson.FeatureCollection {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append(args, "--log-level", "error", "--format", "geojson"))
	require.NoError(t, rootCmd.Execute())

	fc, err := geojson.UnmarshalFeatureCollection(out.Bytes())
	require.NoError(t, err, out.String())
	return fc
}

func TestShapeCommand(t *testing.T) {
	fc := run(t, "", "circle", "--lat", "10", "--lon", "20", "--radius", "5", "--segments", "8", "--unit", "km")
	require.Len(t, fc.Features, 1)
	f := fc.Features[0]
	require.IsType(t, orb.Polygon{}, f.Geometry)
	ring := f.Geometry.(orb.Polygon)[0]
	assert.Len(t, ring, 9)
	assert.Equal(t, ring[0], ring[8])
	assert.Equal(t, 5.0, f.Properties.MustFloat64("radius"))
	assert.Equal(t, "km", f.Properties.MustString("unit"))
}

func TestBatchCommand(t *testing.T) {
	in := `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Point","coordinates":[20,10]},"properties":{"r":2}},
		{"type":"Feature","geometry":{"type":"Point","coordinates":[21,11]},"properties":{"r":"wide"}},
		{"type":"Feature","geometry":{"type":"Point","coordinates":[22,12]},"properties":{}}
	]}`
	fc := run(t, in, "batch", "--in", "-", "--shape", "circle", "--field", "radius=r", "--param", "segments=12", "--unit", "km")
	require.Len(t, fc.Features, 2, "the unreadable radius is skipped")
	center := fc.Features[0].Geometry.Bound().Center()
	assert.InDelta(t, 20, center.Lon(), 0.01)
	assert.InDelta(t, 10, center.Lat(), 0.01)
	assert.Len(t, fc.Features[1].Geometry.(orb.Polygon)[0], 13)
	assert.Equal(t, "circle", fc.Features[1].Properties.MustString("shape"))
}

func TestIdlCommand(t *testing.T) {
	in := `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"LineString","coordinates":[[179,10],[-179,10]]},"properties":{}}
	]}`
	fc := run(t, in, "idl", "--in", "-")
	require.Len(t, fc.Features, 1)
	ml, ok := fc.Features[0].Geometry.(orb.MultiLineString)
	require.True(t, ok)
	assert.Len(t, ml, 2)
}
