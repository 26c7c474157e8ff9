package genai

// PerfMetrics is a flat, copy-by-value record of the engine's performance
// measurements for one generate call. All statistics (mean/std) are computed
// by the engine; the bridge only copies fields. Times are milliseconds,
// throughput is tokens per second.
type PerfMetrics struct {
	LoadTime             float32 `json:"load_time_ms"`
	NumInputTokens       uint64  `json:"num_input_tokens"`
	NumGeneratedTokens   uint64  `json:"num_generated_tokens"`
	TTFTMean             float32 `json:"ttft_mean_ms"`
	TTFTStd              float32 `json:"ttft_std_ms"`
	ThroughputMean       float32 `json:"throughput_mean_tps"`
	ThroughputStd        float32 `json:"throughput_std_tps"`
	GenerateDurationMean float32 `json:"generate_duration_mean_ms"`
	GenerateDurationStd  float32 `json:"generate_duration_std_ms"`
}

// Result is the transient value returned from a metrics-bearing generate
// call. Text is the primary candidate only; an engine that produced zero
// candidates yields an empty string, which is a defined outcome rather than
// an error.
type Result struct {
	Text    string
	Metrics PerfMetrics
}
