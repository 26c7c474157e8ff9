package manager

import (
	"context"
	"time"
)

// beginGeneration reserves a queue slot and then the single in-flight slot.
// Returns a release func to be deferred. This is the external serialization
// the pipeline handle requires: one generation (or chat/tokenizer operation)
// at a time per instance.
func (m *Manager) beginGeneration(ctx context.Context, inst *Instance) (func(), error) {
	// Fast path: respect an already-canceled context
	if err := ctx.Err(); err != nil {
		return func() {}, err
	}

	// A draining instance takes no new work; it is about to be unloaded.
	m.mu.RLock()
	draining := inst.State == StateDraining
	m.mu.RUnlock()
	if draining {
		return func() {}, ErrTooBusy(inst.ID)
	}

	// Try to reserve a queue slot with timeout
	timer := time.NewTimer(m.maxWait)
	defer timer.Stop()
	select {
	case inst.queueCh <- struct{}{}:
		// reserved queue slot
	case <-ctx.Done():
		return func() {}, ctx.Err()
	case <-timer.C:
		return func() {}, ErrTooBusy(inst.ID)
	}

	// Wait to acquire the single in-flight slot
	acquired := false
	defer func() {
		if !acquired {
			<-inst.queueCh
		}
	}()
	if err := ctx.Err(); err != nil {
		return func() {}, err
	}
	timer2 := time.NewTimer(m.maxWait)
	defer timer2.Stop()
	select {
	case inst.genCh <- struct{}{}:
		acquired = true
		m.mu.Lock()
		inst.LastUsed = time.Now()
		m.mu.Unlock()
		return func() { <-inst.genCh; <-inst.queueCh }, nil
	case <-ctx.Done():
		return func() {}, ctx.Err()
	case <-timer2.C:
		return func() {}, ErrTooBusy(inst.ID)
	}
}
