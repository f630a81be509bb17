package cache

import (
	"encoding/json"
	"time"

	da "github.com/rithy-sen/phnomroute/pkg/datastructure"
	"go.uber.org/zap"
)

// Store is the external key-value collaborator (a TTL store such as redis or
// memcached, owned outside this core). A false return from Set means the
// write was dropped; both are treated as cache misses, never as errors.
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) bool
}

// Tiered fronts the in-process RouteCache with an optional external Store.
// Collaborator failures of any kind degrade to recomputation.
type Tiered struct {
	local *RouteCache
	store Store
	log   *zap.Logger
}

func NewTiered(local *RouteCache, store Store, log *zap.Logger) *Tiered {
	return &Tiered{
		local: local,
		store: store,
		log:   log,
	}
}

func (t *Tiered) Get(key string) (da.Route, bool) {
	if route, ok := t.local.Get(key); ok {
		return route, true
	}
	if t.store == nil {
		return da.Route{}, false
	}

	raw, ok := t.store.Get(key)
	if !ok {
		return da.Route{}, false
	}
	var route da.Route
	if err := json.Unmarshal(raw, &route); err != nil {
		// poisoned entry, fall through to recomputation
		t.log.Warn("undecodable route in external cache store", zap.String("key", key),
			zap.Error(err))
		return da.Route{}, false
	}
	return route, true
}

func (t *Tiered) Set(key string, route da.Route, ttl time.Duration) {
	t.local.Set(key, route, ttl)
	if t.store == nil {
		return
	}

	raw, err := json.Marshal(route)
	if err != nil {
		t.log.Warn("route not serializable for external cache store", zap.Error(err))
		return
	}
	if ok := t.store.Set(key, raw, ttl); !ok {
		t.log.Warn("external cache store rejected write", zap.String("key", key))
	}
}
