package cache

import (
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpup/shapetools/internal/lib/geo"
	"github.com/dpup/shapetools/internal/lib/shapes"
)

type counter struct {
	mu           sync.Mutex
	hits, misses int
}

func (c *counter) CacheHit()  { c.mu.Lock(); c.hits++; c.mu.Unlock() }
func (c *counter) CacheMiss() { c.mu.Lock(); c.misses++; c.mu.Unlock() }

func triangle() shapes.Shape {
	return shapes.Shape{Kind: shapes.Polygon, Rings: geo.MultiRing{{
		{Latitude: 38.0675, Longitude: -120.5436},
		{Latitude: 38.1377, Longitude: -120.4613},
		{Latitude: 38.2458, Longitude: -120.3486},
		{Latitude: 38.0675, Longitude: -120.5436},
	}}}
}

func TestKey(t *testing.T) {
	origin := geo.Point{Latitude: 1.5, Longitude: -2}
	a := Key("circle", origin, map[string]float64{"radius": 1000, "segments": 36})
	b := Key("circle", origin, map[string]float64{"segments": 36, "radius": 1000})
	assert.Equal(t, a, b, "parameter order does not matter")
	assert.Equal(t, "circle@1.5,-2;radius=1000;segments=36", a)
	assert.NotEqual(t, a, Key("circle", origin, map[string]float64{"radius": 1001, "segments": 36}))
}

func TestSetGet(t *testing.T) {
	obs := &counter{}
	c := NewCache(10, obs)

	_, found, err := c.Get("k")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set("k", "polygon", triangle()))
	got, found, err := c.Get("k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, triangle(), got)

	// Mutating the result must not leak into the cache.
	got.Rings[0][0].Latitude = 0
	again, _, err := c.Get("k")
	require.NoError(t, err)
	assert.Equal(t, triangle(), again)

	assert.Equal(t, 2, obs.hits)
	assert.Equal(t, 1, obs.misses)
	stats := c.Stats()
	assert.Equal(t, 1, stats.TotalEntries)
	assert.Equal(t, 2, stats.Hits)
	assert.Equal(t, 1, stats.Misses)
}

func TestEviction(t *testing.T) {
	c := NewCache(2, nil)
	require.NoError(t, c.Set("a", "polygon", triangle()))
	require.NoError(t, c.Set("b", "polygon", triangle()))
	require.NoError(t, c.Set("c", "polygon", triangle()))

	assert.ElementsMatch(t, []string{"b", "c"}, c.Keys())
}

func TestDisabled(t *testing.T) {
	c := NewCache(0, nil)
	require.NoError(t, c.Set("a", "polygon", triangle()))
	assert.Empty(t, c.Keys())
}

func TestGetOrBuild(t *testing.T) {
	c := NewCache(4, nil)
	calls := 0
	build := func() (shapes.Shape, error) {
		calls++
		return triangle(), nil
	}

	_, hit, err := c.GetOrBuild("k", "polygon", build)
	require.NoError(t, err)
	assert.False(t, hit)
	s, hit, err := c.GetOrBuild("k", "polygon", build)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, triangle(), s)
	assert.Equal(t, 1, calls)

	boom := errors.New("boom")
	_, _, err = c.GetOrBuild("bad", "polygon", func() (shapes.Shape, error) { return shapes.Shape{}, boom })
	assert.Equal(t, boom, err)
	assert.NotContains(t, c.Keys(), "bad", "failures are not cached")
}

func TestDeleteClear(t *testing.T) {
	c := NewCache(4, nil)
	require.NoError(t, c.Set("a", "polygon", triangle()))
	require.NoError(t, c.Set("b", "polygon", triangle()))
	c.Delete("a")
	assert.Equal(t, []string{"b"}, c.Keys())
	c.Clear()
	assert.Empty(t, c.Keys())
}

func TestConcurrentAccess(t *testing.T) {
	c := NewCache(8, nil)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := Key("circle", geo.Point{}, map[string]float64{"radius": float64(i % 4)})
			_, _, err := c.GetOrBuild(key, "circle", func() (shapes.Shape, error) { return triangle(), nil })
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, len(c.Keys()), 8)
}
