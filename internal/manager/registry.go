package manager

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/svendcsvendsen/judoassistant/internal/ids"
	"github.com/svendcsvendsen/judoassistant/internal/store"
)

// Loader loads a tournament's persisted store by id, e.g. from disk or from
// a replication SYNC message.
type Loader func(ctx context.Context, id ids.ID) (*store.Tournament, error)

// Manager is the process-wide registry of live tournaments. Concurrent
// requests to open the same tournament id are coalesced onto a single
// Loader call via singleflight, so a tournament is loaded only once even
// if two clients race to open it.
type Manager struct {
	log    *zap.Logger
	load   Loader
	group  singleflight.Group
	mu     sync.Mutex
	active map[ids.ID]*Tournament
}

// NewManager creates a manager backed by the given Loader.
func NewManager(load Loader, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{load: load, log: log, active: make(map[ids.ID]*Tournament)}
}

// Open returns the live Tournament for id, loading and starting its strand
// the first time it's requested and reusing it for every later caller.
func (m *Manager) Open(ctx context.Context, id ids.ID) (*Tournament, error) {
	m.mu.Lock()
	if tr, ok := m.active[id]; ok {
		m.mu.Unlock()
		return tr, nil
	}
	m.mu.Unlock()

	v, err, _ := m.group.Do(id.String(), func() (interface{}, error) {
		m.mu.Lock()
		if tr, ok := m.active[id]; ok {
			m.mu.Unlock()
			return tr, nil
		}
		m.mu.Unlock()

		st, err := m.load(ctx, id)
		if err != nil {
			return nil, err
		}
		tr := New(st, m.log)

		m.mu.Lock()
		m.active[id] = tr
		m.mu.Unlock()
		return tr, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Tournament), nil
}

// Close stops and forgets a tournament's strand, e.g. once its last
// participant disconnects.
func (m *Manager) Close(id ids.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if tr, ok := m.active[id]; ok {
		tr.Close()
		delete(m.active, id)
	}
}

// Lookup returns the live Tournament for id without loading it, or false.
func (m *Manager) Lookup(id ids.ID) (*Tournament, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tr, ok := m.active[id]
	return tr, ok
}
