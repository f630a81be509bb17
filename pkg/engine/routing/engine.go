package routing

import (
	"sync"

	da "github.com/rithy-sen/phnomroute/pkg/datastructure"
	"go.uber.org/zap"
)

// Engine answers shortest-path queries over one graph view. It keeps no
// per-query state, so a single Engine over an immutable base graph may serve
// concurrent requests; engines over augmented views are per-session like the
// views themselves.
type Engine struct {
	view da.GraphView
	log  *zap.Logger
	memo *SearchMemo
}

func NewEngine(view da.GraphView, log *zap.Logger) *Engine {
	return &Engine{
		view: view,
		log:  log,
	}
}

// NewEngineWithMemo attaches a shared single-source search memo. The memo is
// consulted only while the view carries no temporary nodes; per-session
// overlay state must never leak into a memo keyed by graph identity.
func NewEngineWithMemo(view da.GraphView, log *zap.Logger, memo *SearchMemo) *Engine {
	return &Engine{
		view: view,
		log:  log,
		memo: memo,
	}
}

func (e *Engine) GetView() da.GraphView {
	return e.view
}

type searchState struct {
	dist map[da.NodeID]float64
	prev map[da.NodeID]da.NodeID
}

// SearchMemo caches full single-source Dijkstra results per
// (graph identity, origin).
type SearchMemo struct {
	mu       sync.RWMutex
	entries  map[string]searchState
	capacity int
}

func NewSearchMemo(capacity int) *SearchMemo {
	return &SearchMemo{
		entries:  make(map[string]searchState, capacity),
		capacity: capacity,
	}
}

func (m *SearchMemo) get(key string) (searchState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.entries[key]
	return st, ok
}

func (m *SearchMemo) put(key string, st searchState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.entries) >= m.capacity {
		for k := range m.entries {
			delete(m.entries, k)
			break
		}
	}
	m.entries[key] = st
}

func (m *SearchMemo) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
