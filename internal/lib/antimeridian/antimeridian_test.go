package antimeridian

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpup/shapetools/internal/lib/geo"
)

func TestLooksLikeIdlCrossing(t *testing.T) {
	assert.True(t, LooksLikeIdlCrossing(179, -179))
	assert.True(t, LooksLikeIdlCrossing(-121, 121))
	assert.False(t, LooksLikeIdlCrossing(120, -120), "threshold is strict")
	assert.False(t, LooksLikeIdlCrossing(-10, 10))
	assert.False(t, LooksLikeIdlCrossing(-100, 170), "wide but not past the threshold")
}

func TestNormalizeLongitude(t *testing.T) {
	tests := map[float64]float64{
		0:    0,
		179:  179,
		180:  -180,
		-180: -180,
		181:  -179,
		-181: 179,
		540:  -180,
		725:  5,
	}
	for in, expected := range tests {
		assert.InDelta(t, expected, NormalizeLongitude(in), 1e-9, "lon %v", in)
	}
}

func TestNormalizePositive(t *testing.T) {
	crossing := geo.Ring{{Latitude: 0, Longitude: 179}, {Latitude: 1, Longitude: -179}, {Latitude: 0, Longitude: 179}}
	out := NormalizePositive(crossing, false)
	assert.Equal(t, 181.0, out[1].Longitude)
	assert.Equal(t, -179.0, crossing[1].Longitude, "input is not modified")

	plain := geo.Ring{{Latitude: 0, Longitude: -10}, {Latitude: 1, Longitude: 10}}
	assert.Equal(t, plain, NormalizePositive(plain, false))
	assert.Equal(t, 350.0, NormalizePositive(plain, true)[0].Longitude)
}

func TestNormalizePositiveRings(t *testing.T) {
	outer := geo.Ring{{Longitude: 179}, {Longitude: -179}, {Longitude: 179}}
	inner := geo.Ring{{Longitude: 179.5}, {Longitude: 179.9}, {Longitude: 179.5}}
	innerNeg := geo.Ring{{Longitude: -179.5}, {Longitude: -179.9}, {Longitude: -179.5}}

	out := NormalizePositiveRings(geo.MultiRing{outer, innerNeg}, false)
	assert.Equal(t, 181.0, out[0][1].Longitude)
	assert.Equal(t, 180.5, out[1][0].Longitude, "inner ring follows the outer ring's frame")

	same := geo.MultiRing{inner}
	assert.Equal(t, same, NormalizePositiveRings(same, false))
}

func TestBreakAtIdl_NoCrossing(t *testing.T) {
	g := geo.WGS84()
	line := geo.Ring{
		{Latitude: 38.0675, Longitude: -120.5436},
		{Latitude: 38.1391, Longitude: -120.4561},
		{Latitude: 38.5, Longitude: -120.2},
	}
	pieces := BreakAtIdl(g, line)
	require.Len(t, pieces, 1)
	assert.Equal(t, line, pieces[0])
}

func TestBreakAtIdl_EastwardCrossing(t *testing.T) {
	g := geo.WGS84()
	line := geo.Ring{{Latitude: 10, Longitude: 170}, {Latitude: 20, Longitude: -170}}

	pieces := BreakAtIdl(g, line)
	require.Len(t, pieces, 2)

	first, second := pieces[0], pieces[1]
	require.Len(t, first, 2)
	require.Len(t, second, 2)
	assert.Equal(t, line[0], first[0])
	assert.Equal(t, 180.0, first[1].Longitude)
	assert.Equal(t, -180.0, second[0].Longitude)
	assert.Equal(t, first[1].Latitude, second[0].Latitude, "both sides meet at the same latitude")
	assert.Equal(t, line[1], second[1])

	lat := first[1].Latitude
	assert.Greater(t, lat, 10.0)
	assert.Less(t, lat, 20.0)

	// The cut point lies on the original geodesic.
	_, aziFull, _, err := g.Inverse(line[0], line[1])
	require.NoError(t, err)
	_, aziCut, _, err := g.Inverse(line[0], first[1])
	require.NoError(t, err)
	assert.InDelta(t, aziFull, aziCut, 0.5)
}

func TestBreakAtIdl_WestwardCrossing(t *testing.T) {
	g := geo.WGS84()
	line := geo.Ring{
		{Latitude: -30, Longitude: -175},
		{Latitude: -31, Longitude: 175},
		{Latitude: -32, Longitude: 170},
	}
	pieces := BreakAtIdl(g, line)
	require.Len(t, pieces, 2)
	assert.Equal(t, -180.0, pieces[0][len(pieces[0])-1].Longitude)
	assert.Equal(t, 180.0, pieces[1][0].Longitude)
	assert.Len(t, pieces[1], 3)
	assert.InDelta(t, -30.5, pieces[1][0].Latitude, 0.2)
}

func TestBreakAtIdl_UnwrappedInput(t *testing.T) {
	g := geo.WGS84()
	// Generator output normalized to positive longitudes.
	line := geo.Ring{{Latitude: 0, Longitude: 175}, {Latitude: 0, Longitude: 185}}
	pieces := BreakAtIdl(g, line)
	require.Len(t, pieces, 2)
	assert.InDelta(t, 0, pieces[0][1].Latitude, 1e-9)
}

func TestBreakAtIdl_TouchingMeridian(t *testing.T) {
	g := geo.WGS84()
	touch := geo.Ring{{Latitude: 0, Longitude: 170}, {Latitude: 1, Longitude: 180}, {Latitude: 2, Longitude: 170}}
	pieces := BreakAtIdl(g, touch)
	require.Len(t, pieces, 1)
	assert.Equal(t, 180.0, pieces[0][1].Longitude)

	through := geo.Ring{{Latitude: 0, Longitude: 170}, {Latitude: 1, Longitude: 180}, {Latitude: 2, Longitude: -170}}
	pieces = BreakAtIdl(g, through)
	require.Len(t, pieces, 2)
	assert.Equal(t, geo.Ring{{Latitude: 0, Longitude: 170}, {Latitude: 1, Longitude: 180}}, pieces[0])
	assert.Equal(t, geo.Point{Latitude: 1, Longitude: -180}, pieces[1][0])
}

func TestBreakAtIdl_NoIntersectionKeepsSegment(t *testing.T) {
	// Near the pole the crossing latitude cannot be solved; the segment is
	// kept whole instead of being cut or dropped.
	line := geo.Ring{{Latitude: -89.5, Longitude: 170}, {Latitude: -89.6, Longitude: -170}}
	parts := BreakAtIdl(geo.WGS84(), line)
	require.Len(t, parts, 1)
	assert.Equal(t, line, parts[0])
}

func TestBreakRings(t *testing.T) {
	g := geo.WGS84()
	m := geo.MultiRing{
		{{Latitude: 10, Longitude: 170}, {Latitude: 20, Longitude: -170}},
		{{Latitude: 0, Longitude: 0}, {Latitude: 1, Longitude: 1}},
	}
	assert.Len(t, BreakRings(g, m), 3)
}

func TestIntersection(t *testing.T) {
	// Meridian at 0 heading north meets the equator heading east at (0, 0).
	p, err := Intersection(geo.Point{Latitude: -10, Longitude: 0}, 0, geo.Point{Latitude: 0, Longitude: -10}, 90)
	require.NoError(t, err)
	assert.InDelta(t, 0, p.Latitude, 1e-9)
	assert.InDelta(t, 0, p.Longitude, 1e-9)

	_, err = Intersection(geo.Point{Latitude: 5, Longitude: 5}, 0, geo.Point{Latitude: 5, Longitude: 5}, 90)
	assert.ErrorIs(t, err, ErrNoIntersection)
}
