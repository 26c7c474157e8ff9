package manager

import (
	"errors"
	"strings"

	"genaid/internal/genai"
	"genaid/pkg/types"
)

// stubRuntime satisfies genai.Runtime for manager tests without native code.
type stubRuntime struct {
	chunks   []string
	failPath string
	// loadTime overrides the reported model load time (nil keeps 900).
	loadTime *float32
	// loadGate, when set, blocks NewPipeline until the channel is closed.
	loadGate chan struct{}
	// pipes records every pipeline handed out, for lifecycle assertions.
	pipes []*stubPipeline
}

func (r *stubRuntime) loadTimeNow() float32 {
	if r.loadTime != nil {
		return *r.loadTime
	}
	return 900
}

func (r *stubRuntime) NewPipeline(modelPath, device string) (genai.RawPipeline, error) {
	if r.loadGate != nil {
		<-r.loadGate
	}
	if r.failPath != "" && modelPath == r.failPath {
		return nil, errors.New("model artifact unreadable")
	}
	chunks := r.chunks
	if chunks == nil {
		chunks = []string{"a", " b", " c"}
	}
	p := &stubPipeline{rt: r, chunks: chunks}
	r.pipes = append(r.pipes, p)
	return p, nil
}

func (r *stubRuntime) NewConfig() genai.RawConfig { return &stubConfig{maxNewTokens: 64} }

type stubConfig struct {
	maxNewTokens uint64
	doSample     bool
	seed         uint64
	stops        []string
}

func (c *stubConfig) SetMaxNewTokens(n uint64) { c.maxNewTokens = n }

func (c *stubConfig) SetTemperature(float32) {}

func (c *stubConfig) SetTopP(float32) {}

func (c *stubConfig) SetTopK(uint64) {}

func (c *stubConfig) SetDoSample(v bool) { c.doSample = v }

func (c *stubConfig) SetStopStrings(stops []string) { c.stops = stops }

func (c *stubConfig) SetFrequencyPenalty(float32) {}

func (c *stubConfig) SetPresencePenalty(float32) {}

func (c *stubConfig) SetRepetitionPenalty(float32) {}

func (c *stubConfig) SetRNGSeed(seed uint64) { c.seed = seed }

func (c *stubConfig) SetLogprobs(uint64) {}

func (c *stubConfig) Close() {}

type stubPipeline struct {
	rt     *stubRuntime
	chunks []string
	chatOn bool
	closed int
}

func (p *stubPipeline) Generate(prompt string, cfg genai.RawConfig, stream genai.StreamFunc) (genai.RawResult, error) {
	c := cfg.(*stubConfig)
	chunks := p.chunks
	if uint64(len(chunks)) > c.maxNewTokens {
		chunks = chunks[:c.maxNewTokens]
	}
	var b strings.Builder
	emitted := 0
	for _, tok := range chunks {
		b.WriteString(tok)
		emitted++
		if stream != nil && !stream([]byte(tok)) {
			break
		}
	}
	return genai.RawResult{
		Text: b.String(),
		Metrics: genai.PerfMetrics{
			LoadTime:             p.loadTime(),
			NumInputTokens:       uint64(len(strings.Fields(prompt))),
			NumGeneratedTokens:   uint64(emitted),
			GenerateDurationMean: 100,
		},
	}, nil
}

func (p *stubPipeline) loadTime() float32 {
	if p.rt != nil {
		return p.rt.loadTimeNow()
	}
	return 900
}

func (p *stubPipeline) StartChat()  { p.chatOn = true }
func (p *stubPipeline) FinishChat() { p.chatOn = false }

func (p *stubPipeline) Tokenizer() genai.RawTokenizer { return stubTokenizer{} }

func (p *stubPipeline) Close() { p.closed++ }

type stubTokenizer struct{}

func (stubTokenizer) CountTokens(text string) uint64 {
	return uint64(len(strings.Fields(text)))
}

func (stubTokenizer) Close() {}

func testManager(rt genai.Runtime) *Manager {
	return NewWithConfig(ManagerConfig{
		Registry: []types.Model{
			{ID: "m1", Name: "m1", Path: "/models/m1"},
			{ID: "broken", Name: "broken", Path: "/models/broken"},
		},
		DefaultModel: "m1",
		Runtime:      rt,
	})
}
