package manager

import (
	"sync"
	"time"

	"genaid/internal/genai"
	"genaid/pkg/types"
)

type Manager struct {
	mu           sync.RWMutex
	state        State
	lastErr      string
	registry     []types.Model
	defaultModel string
	device       string
	instances    map[string]*Instance
	loadsTotal   uint64
	startTime    time.Time

	// Queue config
	maxQueueDepth int
	maxWait       time.Duration

	// Lifecycle config
	maxInstances int
	drainTimeout time.Duration
	publisher    EventPublisher

	runtime    genai.Runtime
	runtimeErr error
}

// Ready reports whether at least one pipeline instance is ready, or the
// manager is idle with a working runtime (nothing loaded yet is still
// serviceable; requests trigger a load).
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state == StateError {
		return false
	}
	for _, inst := range m.instances {
		if inst.State == StateReady {
			return true
		}
	}
	return m.runtime != nil
}

// ListModels returns the registry contents.
func (m *Manager) ListModels() []types.Model {
	m.mu.RLock()
	defer m.mu.RUnlock()
	// return a shallow copy to avoid external mutation
	out := make([]types.Model, len(m.registry))
	copy(out, m.registry)
	return out
}

// getModelByID looks up a registry entry.
func (m *Manager) getModelByID(id string) (types.Model, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, mdl := range m.registry {
		if mdl.ID == id {
			return mdl, true
		}
	}
	return types.Model{}, false
}

// resolveModelID applies the default model when the request omits one.
func (m *Manager) resolveModelID(requested string) (string, error) {
	if requested != "" {
		return requested, nil
	}
	m.mu.RLock()
	def := m.defaultModel
	m.mu.RUnlock()
	if def == "" {
		return "", modelNotFoundError{id: "(unspecified)"}
	}
	return def, nil
}

// Close releases every pipeline instance. Safe to call once at shutdown;
// in-flight generations should be drained by the caller first (the HTTP
// layer cancels them via its base context).
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, inst := range m.instances {
		if inst.pipeline != nil {
			inst.pipeline.Close()
		}
		delete(m.instances, id)
	}
}
