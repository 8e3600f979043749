package sampler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpup/shapetools/internal/lib/geo"
)

func TestSegments(t *testing.T) {
	s := geo.DefaultSettings()
	assert.Equal(t, 25, Segments(500000, s))
	assert.Equal(t, 1, Segments(0, s))
	assert.Equal(t, 1, Segments(19999, s))
	assert.Equal(t, 2, Segments(20001, s))
	assert.Equal(t, s.MaxSegments, Segments(1e12, s), "clamped to max segments")
	assert.Equal(t, s.MaxSegments, Segments(1e24, s), "clamped before converting to int")
	assert.Equal(t, s.MaxSegments, Segments(math.Inf(1), s))
}

func TestSampleLine_LineOfBearing(t *testing.T) {
	g := geo.WGS84()
	origin := geo.Point{}

	line, err := SampleLine(g, origin, 90, 500000, 0)
	require.NoError(t, err)
	require.Len(t, line, 26, "25 segments")
	assert.Equal(t, origin, line[0])

	d, err := g.Distance(origin, line[len(line)-1])
	require.NoError(t, err)
	assert.InDelta(t, 500000, d, 1e-3)

	gap, err := MaxGap(g, line)
	require.NoError(t, err)
	assert.LessOrEqual(t, gap, 20000.0+1e-6)
}

func TestSampleLine_Offset(t *testing.T) {
	g := geo.WGS84()
	origin := geo.Point{Latitude: 38.0675, Longitude: -120.5436}

	line, err := SampleLine(g, origin, 45, 50000, 10000)
	require.NoError(t, err)
	require.Len(t, line, 3)

	d, err := g.Distance(origin, line[0])
	require.NoError(t, err)
	assert.InDelta(t, 10000, d, 1e-6)

	d, err = g.Distance(origin, line[2])
	require.NoError(t, err)
	assert.InDelta(t, 50000, d, 1e-6)

	_, err = SampleLine(g, origin, 45, 10000, 10000)
	assert.True(t, geo.IsInvalid(err))
	_, err = SampleLine(g, origin, 45, 10000, -1)
	assert.True(t, geo.IsInvalid(err))
}

func TestSampleLine_CrossesAntimeridian(t *testing.T) {
	g := geo.WGS84()
	line, err := SampleLine(g, geo.Point{Latitude: 0, Longitude: 179}, 90, 300000, 0)
	require.NoError(t, err)
	for i := 1; i < len(line); i++ {
		assert.Greater(t, line[i].Longitude, line[i-1].Longitude, "longitudes stay monotonic")
	}
	assert.Greater(t, line[len(line)-1].Longitude, 180.0)
}

func TestSample(t *testing.T) {
	g := geo.WGS84()
	angelscamp := geo.Point{Latitude: 38.0675, Longitude: -120.5436}
	sacramento := geo.Point{Latitude: 38.5816, Longitude: -121.4944}

	line, err := Sample(g, angelscamp, sacramento)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(line), 2)
	assert.Equal(t, angelscamp, line[0])
	assert.Equal(t, sacramento, line[len(line)-1])

	gap, err := MaxGap(g, line)
	require.NoError(t, err)
	assert.LessOrEqual(t, gap, 20000.0+1e-6)

	same, err := Sample(g, angelscamp, angelscamp)
	require.NoError(t, err)
	assert.Len(t, same, 2)
}

func TestSample_ClampedBySegments(t *testing.T) {
	s := geo.DefaultSettings()
	s.MaxSegments = 4
	g, err := geo.New(s)
	require.NoError(t, err)

	line, err := Sample(g, geo.Point{}, geo.Point{Latitude: 0, Longitude: 10})
	require.NoError(t, err)
	assert.Len(t, line, 5)
}

func TestDensify(t *testing.T) {
	g := geo.WGS84()
	square := geo.Ring{
		{Latitude: 0, Longitude: 0},
		{Latitude: 1, Longitude: 0},
		{Latitude: 1, Longitude: 1},
		{Latitude: 0, Longitude: 1},
		{Latitude: 0, Longitude: 0},
	}
	dense, err := Densify(g, square, false)
	require.NoError(t, err)
	assert.Greater(t, len(dense), len(square))
	assert.True(t, dense.Closed())
	for _, v := range square {
		assert.Contains(t, dense, v, "input vertices are kept")
	}
	gap, err := MaxGap(g, dense)
	require.NoError(t, err)
	assert.LessOrEqual(t, gap, 20000.0+1e-6)

	endpoints, err := Densify(g, geo.Ring{square[0], square[1], square[2]}, true)
	require.NoError(t, err)
	assert.Equal(t, square[0], endpoints[0])
	assert.Equal(t, square[2], endpoints[len(endpoints)-1])
	assert.NotContains(t, endpoints, square[1])

	_, err = Densify(g, square, true)
	assert.True(t, geo.IsInvalid(err), "closed ring has no distinct endpoints")

	_, err = Densify(g, geo.Ring{{}}, false)
	assert.True(t, geo.IsInvalid(err))

	short := geo.Ring{{Latitude: 0, Longitude: 0}, {Latitude: 0, Longitude: 0.01}}
	same, err := Densify(g, short, false)
	require.NoError(t, err)
	assert.Equal(t, short, same)
}

func TestDensifyRings(t *testing.T) {
	g := geo.WGS84()
	m := geo.MultiRing{
		{{Latitude: 0, Longitude: 0}, {Latitude: 0, Longitude: 1}},
		{{Latitude: 1, Longitude: 0}, {Latitude: 1, Longitude: 0.1}},
	}
	out, err := DensifyRings(g, m, false)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Len(t, out[0], 7)
	assert.Len(t, out[1], 2)
}

func TestDensify_UnrolledInput(t *testing.T) {
	g := geo.WGS84()
	for _, r := range []geo.Ring{
		{{Latitude: 0, Longitude: 179}, {Latitude: 0, Longitude: 181}},
		{{Latitude: 0, Longitude: 179}, {Latitude: 1, Longitude: 181}, {Latitude: -1, Longitude: 181}, {Latitude: 0, Longitude: 179}},
	} {
		dense, err := Densify(g, r, false)
		require.NoError(t, err)
		require.Greater(t, len(dense), len(r))
		assert.Equal(t, r[0], dense[0])
		assert.Equal(t, r[len(r)-1], dense[len(dense)-1])
		for i := 1; i < len(dense); i++ {
			assert.Less(t, math.Abs(dense[i].Longitude-dense[i-1].Longitude), 1.0,
				"jump between %v and %v", dense[i-1], dense[i])
			assert.GreaterOrEqual(t, dense[i].Longitude, 179.0-1e-9)
		}
	}
}
