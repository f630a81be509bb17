package cache

import (
	"strconv"
	"strings"
	"sync"
	"time"

	da "github.com/rithy-sen/phnomroute/pkg/datastructure"
	"go.uber.org/zap"
)

type entry struct {
	route     da.Route
	expiresAt time.Time
}

// RouteCache memoizes computed routes with per-entry TTL. Expired entries are
// dropped lazily on read; once the cache grows past its capacity every write
// sweeps all expired entries eagerly. Safe for concurrent use.
type RouteCache struct {
	mu       sync.Mutex
	entries  map[string]entry
	capacity int

	hits   uint64
	misses uint64

	log *zap.Logger
}

func NewRouteCache(capacity int, log *zap.Logger) *RouteCache {
	return &RouteCache{
		entries:  make(map[string]entry),
		capacity: capacity,
		log:      log,
	}
}

func (c *RouteCache) Get(key string) (da.Route, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return da.Route{}, false
	}
	if !e.expiresAt.After(time.Now()) {
		delete(c.entries, key)
		c.misses++
		return da.Route{}, false
	}
	c.hits++
	return e.route, true
}

func (c *RouteCache) Set(key string, route da.Route, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{
		route:     route,
		expiresAt: time.Now().Add(ttl),
	}

	if len(c.entries) > c.capacity {
		c.sweepExpiredLocked()
	}
}

func (c *RouteCache) sweepExpiredLocked() {
	now := time.Now()
	removed := 0
	for key, e := range c.entries {
		if !e.expiresAt.After(now) {
			delete(c.entries, key)
			removed++
		}
	}
	if removed > 0 && c.log != nil {
		c.log.Info("swept expired route cache entries", zap.Int("removed", removed),
			zap.Int("remaining", len(c.entries)))
	}
}

func (c *RouteCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *RouteCache) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// key builders. The graph identity token leads every key; temporary-point
// queries key on exact coordinates, never on the session-local synthetic ids.

func RouteKey(graphID string, startID, endID da.NodeID) string {
	var sb strings.Builder
	sb.WriteString("route:")
	sb.WriteString(graphID)
	sb.WriteByte(':')
	sb.WriteString(strconv.FormatInt(startID, 10))
	sb.WriteByte(':')
	sb.WriteString(strconv.FormatInt(endID, 10))
	return sb.String()
}

func CoordRouteKey(graphID string, sLat, sLon, dLat, dLon float64) string {
	var sb strings.Builder
	sb.WriteString("route:")
	sb.WriteString(graphID)
	for _, v := range [4]float64{sLat, sLon, dLat, dLon} {
		sb.WriteByte(':')
		sb.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
	}
	return sb.String()
}
