package types

// InferRequest represents an inference request payload.
type InferRequest struct {
	// Optional model identifier. If empty, the server default is used.
	// example: tinyllama-1.1b-int4
	Model string `json:"model,omitempty" example:"tinyllama-1.1b-int4"`
	// Required prompt text to generate a completion for.
	// example: Write a haiku about the ocean.
	Prompt string `json:"prompt" example:"Write a haiku about the ocean."`
	// If true, stream results as NDJSON tokens. When false, the server may still stream internally but buffer.
	// example: true
	Stream bool `json:"stream,omitempty" example:"true"`
	// Maximum number of new tokens to generate.
	// example: 128
	MaxTokens uint64 `json:"max_tokens,omitempty" example:"128"`
	// Sampling temperature (higher = more random).
	// example: 0.7
	Temperature *float64 `json:"temperature,omitempty" example:"0.7"`
	// Nucleus sampling probability.
	// example: 0.9
	TopP *float64 `json:"top_p,omitempty" example:"0.9"`
	// Top-K sampling: limit candidates to top K tokens.
	// example: 40
	TopK uint64 `json:"top_k,omitempty" example:"40"`
	// Enable sampling (true) vs greedy decoding (false/omitted).
	// example: true
	DoSample bool `json:"do_sample,omitempty" example:"true"`
	// Optional stop sequences. Generation stops when any sequence is matched. Duplicates collapse.
	// example: ["\n\n","END"]
	Stop []string `json:"stop,omitempty" example:"[\"\\n\\n\",\"END\"]"`
	// Random seed for reproducibility; 0 or omitted lets the engine choose.
	// example: 42
	Seed uint64 `json:"seed,omitempty" example:"42"`
	// Frequency penalty applied to repeated tokens.
	// example: 0.2
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty" example:"0.2"`
	// Presence penalty applied to tokens already present.
	// example: 0.1
	PresencePenalty *float64 `json:"presence_penalty,omitempty" example:"0.1"`
	// Repetition penalty (1.0 = disabled).
	// example: 1.1
	RepetitionPenalty *float64 `json:"repetition_penalty,omitempty" example:"1.1"`
	// Number of top logprobs to record per token (0 = disabled).
	// example: 0
	Logprobs uint64 `json:"logprobs,omitempty" example:"0"`
}

// UsageInfo contains token accounting for one generate call.
type UsageInfo struct {
	// Number of tokens in the input prompt.
	// example: 9
	PromptTokens uint64 `json:"prompt_tokens" example:"9"`
	// Number of tokens generated.
	// example: 128
	CompletionTokens uint64 `json:"completion_tokens" example:"128"`
	// Prompt plus completion tokens.
	// example: 137
	TotalTokens uint64 `json:"total_tokens" example:"137"`
}

// PerfStats is the flat performance record attached to the final NDJSON line
// of an inference response. All statistics are computed by the engine.
type PerfStats struct {
	// Model load time in milliseconds, measured once at pipeline construction.
	// example: 1834.2
	LoadTimeMs float64 `json:"load_time_ms" example:"1834.2"`
	// Time to first token, mean/std in milliseconds.
	// example: 41.7
	TTFTMeanMs float64 `json:"ttft_mean_ms" example:"41.7"`
	TTFTStdMs  float64 `json:"ttft_std_ms" example:"1.2"`
	// Throughput, mean/std in tokens per second.
	// example: 38.5
	ThroughputMeanTPS float64 `json:"throughput_mean_tps" example:"38.5"`
	ThroughputStdTPS  float64 `json:"throughput_std_tps" example:"0.8"`
	// Total generation duration, mean/std in milliseconds.
	// example: 3322.9
	GenerateDurationMeanMs float64 `json:"generate_duration_mean_ms" example:"3322.9"`
	GenerateDurationStdMs  float64 `json:"generate_duration_std_ms" example:"10.4"`
}

// TokenizeRequest asks for the token count of a text under a model's tokenizer.
type TokenizeRequest struct {
	// Optional model identifier. If empty, the server default is used.
	// example: tinyllama-1.1b-int4
	Model string `json:"model,omitempty" example:"tinyllama-1.1b-int4"`
	// Text to encode.
	// example: Hello world
	Text string `json:"text" example:"Hello world"`
}

// TokenizeResponse returns the token count only; token IDs are not exposed.
type TokenizeResponse struct {
	// Model whose tokenizer was used.
	// example: tinyllama-1.1b-int4
	Model string `json:"model" example:"tinyllama-1.1b-int4"`
	// Number of tokens the text encodes to.
	// example: 2
	NumTokens uint64 `json:"num_tokens" example:"2"`
}

// ChatRequest toggles a model's chat session (start or finish).
type ChatRequest struct {
	// Optional model identifier. If empty, the server default is used.
	// example: tinyllama-1.1b-int4
	Model string `json:"model,omitempty" example:"tinyllama-1.1b-int4"`
}

// UnloadRequest names the model instance to drain and release.
type UnloadRequest struct {
	// Model identifier to unload.
	// example: tinyllama-1.1b-int4
	Model string `json:"model" example:"tinyllama-1.1b-int4"`
}

// ModelsResponse wraps the list of models returned by GET /models.
type ModelsResponse struct {
	// List of available models.
	Models []Model `json:"models"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// InstanceStatus summarizes a loaded pipeline instance for /status.
type InstanceStatus struct {
	// ID of the model this instance serves.
	// example: tinyllama-1.1b-int4
	ModelID string `json:"model_id" example:"tinyllama-1.1b-int4"`
	// Current lifecycle state of the instance (loading, ready, draining, error).
	// example: ready
	State string `json:"state" example:"ready"`
	// Device the pipeline runs on.
	// example: CPU
	Device string `json:"device" example:"CPU"`
	// Last time this instance served a request (unix seconds).
	// example: 1700000000
	LastUsed int64 `json:"last_used_unix" example:"1700000000"`
	// Whether a chat session is currently active on this instance.
	// example: false
	ChatActive bool `json:"chat_active" example:"false"`
	// Current queue length for incoming requests.
	// example: 0
	QueueLen int `json:"queue_len" example:"0"`
	// Number of in-flight requests currently being processed.
	// example: 1
	Inflight int `json:"inflight" example:"1"`
	// Maximum queued requests allowed before backpressure triggers.
	// example: 32
	MaxQueueDepth int `json:"max_queue_depth" example:"32"`
	// Model load time in milliseconds as reported by the engine.
	// example: 1834.2
	LoadTimeMs float64 `json:"load_time_ms,omitempty" example:"1834.2"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Loaded/managed pipeline instances.
	Instances []InstanceStatus `json:"instances"`
	// Default model id used when requests omit one.
	// example: tinyllama-1.1b-int4
	DefaultModel string `json:"default_model,omitempty" example:"tinyllama-1.1b-int4"`
	// Overall manager state (loading, ready, error).
	// example: ready
	State string `json:"state" example:"ready"`
	// Last error observed by the manager (if any).
	LastError string `json:"last_error,omitempty"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
	// Total number of pipeline loads.
	// example: 12
	LoadsTotal uint64 `json:"loads_total" example:"12"`
}
