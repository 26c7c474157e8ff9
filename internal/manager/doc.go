// Package manager coordinates pipeline lifecycle, admission, and inference
// on top of the genai bridge. It is structured into small files by concern:
//
//   - manager.go: core Manager type, constructor, simple getters, Close.
//   - config.go: ManagerConfig and package defaults; NewWithConfig applies defaults.
//   - types.go: internal state types (State, Instance).
//   - errors.go: error types and helpers (IsTooBusy, IsModelNotFound).
//   - ensure.go: lazy pipeline construction, one instance per model id.
//   - admission.go: per-instance queueing and generation admission.
//   - infer.go: inference entry point, NDJSON streaming, request mapping.
//   - chat.go: chat session toggles and tokenization.
//   - evict.go: LRU eviction keeping resident pipelines within MaxInstances.
//   - unload.go: explicit drain-and-release of one model instance.
//   - events.go: lifecycle event publishing (loads, evictions, unloads).
//   - metrics.go: Prometheus counters fed from engine perf metrics.
//   - status.go: Status reporting.
//
// The bridge provides no internal locking, so the manager supplies the
// external synchronization the handles require: each instance admits a
// single in-flight generation, and distinct instances (distinct pipelines)
// run concurrently without cross-contamination.
//
// External packages should treat this package as the orchestration layer and
// use public methods only (NewWithConfig, Ready, ListModels, Status, Infer,
// StartChat, FinishChat, CountTokens, Unload, Close). Internal types are
// subject to change.
package manager
