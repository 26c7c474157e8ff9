package manager

import (
	"time"

	"genaid/internal/genai"
)

// State represents lifecycle state of the manager/instances.
type State string

const (
	StateReady    State = "ready"
	StateLoading  State = "loading"
	StateDraining State = "draining"
	StateError    State = "error"
)

// Instance is one live pipeline (one per model id). The pipeline handle is
// not safe for concurrent use, so all generation and chat operations on an
// instance are serialized through its admission queue.
type Instance struct {
	ID       string
	State    State
	Device   string
	LastUsed time.Time
	// Chat session flag as last toggled through this manager. The engine
	// owns the authoritative state; this mirror only feeds /status.
	ChatActive bool
	// LoadTimeMs is the engine-reported model load time, captured from the
	// first generate call's metrics. loadTimeCaptured distinguishes a
	// legitimate 0 ms load from not-yet-captured.
	LoadTimeMs       float64
	loadTimeCaptured bool
	// Queueing primitives
	genCh   chan struct{} // size 1: single in-flight generation
	queueCh chan struct{} // buffered: queue slots
	// ready is closed once loading finishes, successfully or not; loadErr
	// carries the failure and must be written before the close.
	ready   chan struct{}
	loadErr error
	// Pipeline handle backing this instance.
	pipeline *genai.Pipeline
}
