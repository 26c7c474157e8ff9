package manager

import "time"

// Unload gracefully drains a model instance and releases its pipeline.
// The instance is put into draining state so status reflects it, in-flight
// and queued requests get up to drainTimeout to finish, then the native
// pipeline is closed and the entry removed. The next request for the model
// loads it again from scratch (any chat session state is gone).
func (m *Manager) Unload(modelID string) error {
	if modelID == "" {
		return modelNotFoundError{id: "(unspecified)"}
	}
	m.mu.Lock()
	inst := m.instances[modelID]
	if inst == nil {
		m.mu.Unlock()
		return modelNotFoundError{id: modelID}
	}
	m.mu.Unlock()
	// Let an in-progress load settle first; unloading mid-load would leak
	// the pipeline the loader is about to hand over.
	if err := m.waitReady(inst); err != nil {
		// Load failed; the loader already removed the entry.
		return nil
	}
	m.mu.Lock()
	inst.State = StateDraining
	m.mu.Unlock()
	m.publish(Event{Name: "unload_start", ModelID: modelID})

	deadline := time.Now().Add(m.drainTimeout)
	for {
		m.mu.RLock()
		qlen := len(inst.queueCh)
		inflight := len(inst.genCh)
		m.mu.RUnlock()
		if inflight == 0 && qlen == 0 {
			break
		}
		if time.Now().After(deadline) {
			m.publish(Event{Name: "unload_timeout", ModelID: modelID, Fields: map[string]any{"inflight": inflight, "queue": qlen}})
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	m.mu.Lock()
	pipe := inst.pipeline
	delete(m.instances, modelID)
	m.mu.Unlock()
	if pipe != nil {
		pipe.Close()
	}
	m.publish(Event{Name: "unload_done", ModelID: modelID})
	return nil
}
