package manager

import (
	"time"

	"genaid/internal/genai"
	"genaid/pkg/types"
)

// Defaults applied when corresponding ManagerConfig fields are unset.
const (
	defaultMaxQueueDepth = 32
	defaultMaxWait       = 30 * time.Second
	defaultDevice        = "CPU"
	defaultDrainTimeout  = 5 * time.Second
)

// ManagerConfig encapsulates all tunables for Manager construction.
type ManagerConfig struct {
	Registry      []types.Model
	DefaultModel  string
	Device        string
	MaxQueueDepth int
	MaxWait       time.Duration
	// MaxInstances caps how many pipelines stay resident; loading one more
	// evicts the least recently used idle instance. 0 means unlimited.
	MaxInstances int
	// DrainTimeout bounds how long Unload waits for in-flight and queued
	// work before closing the pipeline anyway.
	DrainTimeout time.Duration
	// Publisher receives lifecycle events (loads, evictions, unloads);
	// nil drops them.
	Publisher EventPublisher
	// Runtime overrides the engine runtime; nil selects the build's
	// default (OpenVINO when built with -tags=openvino, otherwise a
	// fail-fast stub).
	Runtime genai.Runtime
}

// NewWithConfig constructs a Manager from ManagerConfig.
func NewWithConfig(cfg ManagerConfig) *Manager {
	m := &Manager{
		state:        StateReady,
		registry:     cfg.Registry,
		defaultModel: cfg.DefaultModel,
		device:       cfg.Device,
		instances:    make(map[string]*Instance),
		maxInstances: cfg.MaxInstances,
		publisher:    cfg.Publisher,
		runtime:      cfg.Runtime,
	}
	if m.device == "" {
		m.device = defaultDevice
	}
	// Apply defaults if unset
	if cfg.MaxQueueDepth <= 0 {
		m.maxQueueDepth = defaultMaxQueueDepth
	} else {
		m.maxQueueDepth = cfg.MaxQueueDepth
	}
	if cfg.MaxWait <= 0 {
		m.maxWait = defaultMaxWait
	} else {
		m.maxWait = cfg.MaxWait
	}
	if cfg.DrainTimeout <= 0 {
		m.drainTimeout = defaultDrainTimeout
	} else {
		m.drainTimeout = cfg.DrainTimeout
	}
	if m.publisher == nil {
		m.publisher = noopPublisher{}
	}
	if m.runtime == nil {
		rt, err := genai.NewRuntime()
		if err != nil {
			// Engine unavailable in this build: remember why and fail
			// per-request instead of refusing to start. Health and
			// status endpoints still work.
			m.runtimeErr = err
		} else {
			m.runtime = rt
		}
	}
	m.startTime = time.Now()
	return m
}
