package manager

import (
	"time"

	"genaid/pkg/types"
)

// Status returns a read-only projection of the manager and its instances.
func (m *Manager) Status() types.StatusResponse {
	m.mu.RLock()
	defer m.mu.RUnlock()
	now := time.Now()
	resp := types.StatusResponse{
		Instances:      make([]types.InstanceStatus, 0, len(m.instances)),
		DefaultModel:   m.defaultModel,
		State:          string(m.state),
		LastError:      m.lastErr,
		UptimeSeconds:  int64(now.Sub(m.startTime).Seconds()),
		ServerTimeUnix: now.Unix(),
		LoadsTotal:     m.loadsTotal,
	}
	for _, inst := range m.instances {
		resp.Instances = append(resp.Instances, types.InstanceStatus{
			ModelID:       inst.ID,
			State:         string(inst.State),
			Device:        inst.Device,
			LastUsed:      inst.LastUsed.Unix(),
			ChatActive:    inst.ChatActive,
			QueueLen:      len(inst.queueCh),
			Inflight:      len(inst.genCh),
			MaxQueueDepth: m.maxQueueDepth,
			LoadTimeMs:    inst.LoadTimeMs,
		})
	}
	return resp
}
