package view

import (
	"context"
	"sync"
)

// Manager opens views lazily and keeps them alive for the life of the
// process. All views share one scheduler, cell cache, and notifier.
type Manager struct {
	deps Deps

	mu    sync.Mutex
	views map[string]*View
}

func NewManager(deps Deps) *Manager {
	return &Manager{deps: deps, views: make(map[string]*View)}
}

// View returns the open view with the given id, opening it on first use.
func (m *Manager) View(ctx context.Context, viewID string) (*View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.views[viewID]; ok {
		return v, nil
	}
	v, err := Open(ctx, viewID, m.deps)
	if err != nil {
		return nil, err
	}
	m.views[viewID] = v
	return v, nil
}

// Close closes every open view.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, v := range m.views {
		v.Close()
		delete(m.views, id)
	}
}
