package genai

import "sync"

// Pipeline exclusively owns one native pipeline instance: one loaded model
// bound to one execution device. Construction may be slow (model loading)
// and is done once per model, not per generation.
//
// A Pipeline is not safe for concurrent use; callers needing to share one
// across goroutines must serialize access themselves. Distinct pipelines are
// fully independent.
type Pipeline struct {
	raw       RawPipeline
	modelPath string
	device    string
	closeOnce sync.Once
}

// NewPipeline loads the model at modelPath onto device and wraps the native
// pipeline. Fails if the artifact cannot be loaded or the device selector is
// invalid or unavailable; no partial handle is returned.
func NewPipeline(rt Runtime, modelPath, device string) (*Pipeline, error) {
	raw, err := rt.NewPipeline(modelPath, device)
	if err != nil {
		return nil, ErrPipelineCreate(modelPath, device, err)
	}
	return &Pipeline{raw: raw, modelPath: modelPath, device: device}, nil
}

// ModelPath returns the model artifact location this pipeline was built from.
func (p *Pipeline) ModelPath() string { return p.modelPath }

// Device returns the device selector this pipeline was built with.
func (p *Pipeline) Device() string { return p.device }

// Close releases the native pipeline. Safe to call more than once; only the
// first call releases. Any use of the pipeline after Close is a caller bug.
func (p *Pipeline) Close() {
	p.closeOnce.Do(func() { p.raw.Close() })
}

// Generate runs one generation and returns the primary candidate's text. A
// zero-candidate result is an empty string, not an error. No retries: with
// sampling enabled generation is not idempotent, so retrying is explicitly
// the caller's decision.
func (p *Pipeline) Generate(prompt string, cfg *GenerationConfig) (string, error) {
	res, err := p.generate(prompt, cfg, nil)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// GenerateWithMetrics is Generate plus the performance metrics for the call.
// Metrics are always present, even when the text is empty.
func (p *Pipeline) GenerateWithMetrics(prompt string, cfg *GenerationConfig) (Result, error) {
	return p.generate(prompt, cfg, nil)
}

// GenerateStream is GenerateWithMetrics with a token sink attached: the sink
// receives incremental output while generation runs, before the final result
// is available. The sink is invoked synchronously on the calling goroutine;
// returning false from it stops generation (see TokenSink).
func (p *Pipeline) GenerateStream(prompt string, cfg *GenerationConfig, sink TokenSink) (Result, error) {
	if sink == nil {
		return p.generate(prompt, cfg, nil)
	}
	st := &streamer{sink: sink}
	return p.generate(prompt, cfg, st.push)
}

// generate is the single funnel all three call shapes go through.
func (p *Pipeline) generate(prompt string, cfg *GenerationConfig, stream StreamFunc) (Result, error) {
	raw, err := p.raw.Generate(prompt, cfg.raw, stream)
	if err != nil {
		return Result{}, ErrGeneration(err)
	}
	return Result{Text: raw.Text, Metrics: raw.Metrics}, nil
}

// StartChat puts the engine in multi-turn session mode: subsequent generate
// calls accumulate conversation context. Forwarded as-is; calling it while
// already in a chat is the engine's call (OpenVINO GenAI restarts the
// session, discarding accumulated context).
func (p *Pipeline) StartChat() { p.raw.StartChat() }

// FinishChat leaves multi-turn session mode and drops accumulated context.
// Forwarded as-is, with no guard against not being in a chat.
func (p *Pipeline) FinishChat() { p.raw.FinishChat() }

// GetTokenizer derives a tokenizer handle from this pipeline. The tokenizer
// owns its own native state; its lifetime is not tied to the pipeline's.
func (p *Pipeline) GetTokenizer() *Tokenizer {
	return &Tokenizer{raw: p.raw.Tokenizer()}
}
