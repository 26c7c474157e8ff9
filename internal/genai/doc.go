// Package genai is the in-process bridge to the OpenVINO GenAI inference
// engine. It is structured into small files by concern:
//
//   - runtime.go: the engine boundary (Runtime, RawPipeline, RawConfig,
//     RawTokenizer), the handful of stable native entry points.
//   - pipeline.go: the Pipeline handle, the three generate call shapes,
//     and chat session toggles.
//   - config.go: the GenerationConfig handle and its field setters.
//   - tokenizer.go: the Tokenizer handle and token counting.
//   - metrics.go: the flat PerfMetrics record and the Result value.
//   - stream.go: TokenSink and the callback adapter used during streaming
//     generation, including UTF-8 chunk framing.
//   - errors.go: error types and helpers (IsPipelineCreate, IsGeneration,
//     IsEngineUnavailable).
//
// Build tags and runtimes:
//
//   - OpenVINO (cgo):
//     NewRuntime returns the cgo-backed runtime over the OpenVINO GenAI
//     C API. Enabled with `-tags=openvino`. Files: openvino.go.
//     A no-CGO stub exists when the tag is not set: openvino_stub.go. It
//     fails fast instead of mocking inference, keeping default builds and
//     CI CGO-free.
//
// All operations are synchronous and blocking; a generate call occupies the
// calling goroutine for its entire duration, streaming callbacks included.
// Handles provide no internal locking: a single handle must not be used from
// multiple goroutines without external synchronization, while distinct
// handles are independent and may be used concurrently.
package genai
