package cache

import (
	"testing"
	"time"

	da "github.com/rithy-sen/phnomroute/pkg/datastructure"
	"github.com/rithy-sen/phnomroute/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sampleRoute() da.Route {
	return da.NewRoute([]da.NodeID{1, 2}, 100,
		[]geo.Coordinate{geo.NewCoordinate(11.50, 104.80), geo.NewCoordinate(11.51, 104.81)})
}

func TestRouteCacheRoundTrip(t *testing.T) {
	c := NewRouteCache(10, zap.NewNop())
	route := sampleRoute()

	c.Set("k", route, time.Minute)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, route, got)
}

func TestRouteCacheExpiresLazily(t *testing.T) {
	c := NewRouteCache(10, zap.NewNop())
	c.Set("k", sampleRoute(), 20*time.Millisecond)

	time.Sleep(40 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestRouteCacheSweepsExpiredPastCapacity(t *testing.T) {
	c := NewRouteCache(3, zap.NewNop())
	route := sampleRoute()

	c.Set("a", route, time.Nanosecond)
	c.Set("b", route, time.Nanosecond)
	c.Set("c", route, time.Nanosecond)
	time.Sleep(5 * time.Millisecond)

	// fourth insert crosses capacity and sweeps the dead entries
	c.Set("d", route, time.Minute)
	assert.Equal(t, 1, c.Len())

	_, ok := c.Get("d")
	assert.True(t, ok)
}

func TestRouteCacheStats(t *testing.T) {
	c := NewRouteCache(10, zap.NewNop())
	c.Set("k", sampleRoute(), time.Minute)

	c.Get("k")
	c.Get("missing")

	hits, misses := c.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
}

func TestCoordRouteKeyDistinguishesTempCoordinates(t *testing.T) {
	a := CoordRouteKey("g1", 11.5001, 104.8001, 11.5099, 104.8099)
	b := CoordRouteKey("g1", 11.5002, 104.8001, 11.5099, 104.8099)
	assert.NotEqual(t, a, b)

	// same query against a different graph snapshot
	c := CoordRouteKey("g2", 11.5001, 104.8001, 11.5099, 104.8099)
	assert.NotEqual(t, a, c)
}

func TestRouteKeyIncludesGraphIdentity(t *testing.T) {
	assert.NotEqual(t, RouteKey("g1", 1, 2), RouteKey("g2", 1, 2))
	assert.NotEqual(t, RouteKey("g1", 1, 2), RouteKey("g1", 2, 1))
}

type fakeStore struct {
	data    map[string][]byte
	failSet bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string][]byte)}
}

func (s *fakeStore) Get(key string) ([]byte, bool) {
	v, ok := s.data[key]
	return v, ok
}

func (s *fakeStore) Set(key string, value []byte, ttl time.Duration) bool {
	if s.failSet {
		return false
	}
	s.data[key] = value
	return true
}

func TestTieredFallsBackToStore(t *testing.T) {
	store := newFakeStore()
	tiered := NewTiered(NewRouteCache(10, zap.NewNop()), store, zap.NewNop())
	route := sampleRoute()

	tiered.Set("k", route, time.Minute)

	// fresh local layer, entry only survives in the store
	cold := NewTiered(NewRouteCache(10, zap.NewNop()), store, zap.NewNop())
	got, ok := cold.Get("k")
	require.True(t, ok)
	assert.Equal(t, route.Path, got.Path)
	assert.Equal(t, route.TotalLength, got.TotalLength)
}

func TestTieredTreatsStoreFailureAsMiss(t *testing.T) {
	store := newFakeStore()
	store.failSet = true
	tiered := NewTiered(NewRouteCache(10, zap.NewNop()), store, zap.NewNop())

	// write is dropped by the store but must not error
	tiered.Set("k", sampleRoute(), time.Minute)

	cold := NewTiered(NewRouteCache(10, zap.NewNop()), store, zap.NewNop())
	_, ok := cold.Get("k")
	assert.False(t, ok)
}

func TestTieredIgnoresPoisonedStoreEntry(t *testing.T) {
	store := newFakeStore()
	store.data["k"] = []byte("{not json")

	tiered := NewTiered(NewRouteCache(10, zap.NewNop()), store, zap.NewNop())
	_, ok := tiered.Get("k")
	assert.False(t, ok)
}

func TestTieredWithoutStore(t *testing.T) {
	tiered := NewTiered(NewRouteCache(10, zap.NewNop()), nil, zap.NewNop())
	route := sampleRoute()

	tiered.Set("k", route, time.Minute)
	got, ok := tiered.Get("k")
	require.True(t, ok)
	assert.Equal(t, route, got)

	_, ok = tiered.Get("missing")
	assert.False(t, ok)
}
