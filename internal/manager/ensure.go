package manager

import (
	"time"

	"genaid/internal/genai"
)

// ensureInstance returns the live instance for modelID, constructing the
// pipeline on first use. Construction is slow (model loading) and happens at
// most once per model id; concurrent callers for the same id wait on the
// loading instance rather than loading twice.
func (m *Manager) ensureInstance(modelID string) (*Instance, error) {
	mdl, ok := m.getModelByID(modelID)
	if !ok || mdl.Path == "" {
		return nil, modelNotFoundError{id: modelID}
	}

	m.mu.Lock()
	if m.runtime == nil {
		err := m.runtimeErr
		m.mu.Unlock()
		if err == nil {
			err = genai.ErrEngineUnavailable("engine runtime not initialized")
		}
		return nil, err
	}
	if inst, ok := m.instances[modelID]; ok {
		m.mu.Unlock()
		return inst, m.waitReady(inst)
	}
	device := mdl.Device
	if device == "" {
		device = m.device
	}
	inst := &Instance{
		ID:      modelID,
		State:   StateLoading,
		Device:  device,
		genCh:   make(chan struct{}, 1),
		queueCh: make(chan struct{}, m.maxQueueDepth),
		ready:   make(chan struct{}),
	}
	m.instances[modelID] = inst
	rt := m.runtime
	m.mu.Unlock()

	// Make room before the expensive load, not after.
	m.evictForLoad(modelID)

	p, err := genai.NewPipeline(rt, mdl.Path, device)

	m.mu.Lock()
	if err != nil {
		// Record the failure for waiters before removing the entry, so
		// they report the load error rather than a vanished model.
		inst.loadErr = err
		delete(m.instances, modelID)
		m.lastErr = err.Error()
		m.mu.Unlock()
		close(inst.ready)
		return nil, err
	}
	inst.pipeline = p
	inst.State = StateReady
	inst.LastUsed = time.Now()
	m.loadsTotal++
	m.mu.Unlock()
	close(inst.ready)
	pipelineLoads.Inc()
	m.publish(Event{Name: "load_done", ModelID: modelID})
	return inst, nil
}

// waitReady blocks until a concurrently-loading instance finishes loading
// and reports how the load ended.
func (m *Manager) waitReady(inst *Instance) error {
	<-inst.ready
	return inst.loadErr
}
