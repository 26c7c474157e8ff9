package manager

// evictForLoad frees resident-instance slots before loading modelID, so the
// instance count stays within MaxInstances. Victims are picked LRU over
// LastUsed among idle instances; anything with in-flight or queued work is
// skipped, as is an active chat session (evicting one would silently drop
// its accumulated conversation). With no eligible victim the load proceeds
// over the cap rather than failing: the cap bounds idle residency, it is
// not an admission limit.
func (m *Manager) evictForLoad(modelID string) {
	if m.maxInstances <= 0 {
		return
	}
	for {
		m.mu.Lock()
		if len(m.instances) <= m.maxInstances {
			m.mu.Unlock()
			return
		}
		var lru *Instance
		for _, inst := range m.instances {
			if inst.ID == modelID || inst.State != StateReady {
				continue
			}
			if len(inst.genCh) > 0 || len(inst.queueCh) > 0 || inst.ChatActive {
				continue
			}
			if lru == nil || inst.LastUsed.Before(lru.LastUsed) {
				lru = inst
			}
		}
		if lru == nil {
			m.mu.Unlock()
			return
		}
		delete(m.instances, lru.ID)
		pipe := lru.pipeline
		m.mu.Unlock()

		if pipe != nil {
			pipe.Close()
		}
		m.publish(Event{Name: "evict", ModelID: lru.ID})
	}
}
