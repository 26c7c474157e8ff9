package genai

// Runtime constructs native engine resources. Concrete implementations are
// the OpenVINO-backed runtime (see openvino.go) and test fakes. The engine
// itself is a black box reached only through these entry points; everything
// above this interface is the bridge.
type Runtime interface {
	// NewPipeline loads a model from modelPath onto the given device and
	// returns the native pipeline. Loading may be slow; callers construct a
	// pipeline once per model, not per generation.
	NewPipeline(modelPath, device string) (RawPipeline, error)
	// NewConfig returns a native generation config with engine defaults.
	NewConfig() RawConfig
}

// StreamFunc is the callback shape the engine invokes once per produced token
// chunk, synchronously, on the generating goroutine. Returning false tells
// the engine to stop generating; no further invocations occur after that.
type StreamFunc func(chunk []byte) bool

// RawPipeline is one loaded model bound to one execution device.
type RawPipeline interface {
	// Generate runs one generation. stream may be nil for non-streaming
	// calls. The engine blocks until generation completes or the stream
	// callback signals stop.
	Generate(prompt string, cfg RawConfig, stream StreamFunc) (RawResult, error)
	// StartChat and FinishChat toggle the engine's multi-turn session mode.
	// Both are forwarded as-is; the engine defines what happens on redundant
	// toggles.
	StartChat()
	FinishChat()
	// Tokenizer derives a tokenizer from this pipeline. The returned
	// tokenizer owns its own native state and outlives the pipeline.
	Tokenizer() RawTokenizer
	// Close releases the native pipeline. Must be called exactly once.
	Close()
}

// RawConfig is the engine's native generation-configuration object. Setters
// overwrite the corresponding native field; no validation happens here; the
// engine is the validation authority at generate time.
type RawConfig interface {
	SetMaxNewTokens(n uint64)
	SetTemperature(t float32)
	SetTopP(p float32)
	SetTopK(k uint64)
	SetDoSample(v bool)
	SetStopStrings(stops []string)
	SetFrequencyPenalty(p float32)
	SetPresencePenalty(p float32)
	SetRepetitionPenalty(p float32)
	SetRNGSeed(seed uint64)
	SetLogprobs(n uint64)
	Close()
}

// RawTokenizer encodes text with the model's tokenizer.
type RawTokenizer interface {
	// CountTokens encodes text and returns the number of resulting tokens.
	CountTokens(text string) uint64
	Close()
}

// RawResult is the flat record the engine hands back after one generate call:
// the primary candidate's text plus the performance measurements for the call.
type RawResult struct {
	Text    string
	Metrics PerfMetrics
}
