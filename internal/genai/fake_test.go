package genai

import (
	"errors"
	"strings"
)

// fakeRuntime is an in-memory engine used by the package tests. It produces
// a canned chunk sequence per pipeline so every bridge component can be
// exercised without native code.
type fakeRuntime struct {
	pipelines []*fakePipeline
}

func (r *fakeRuntime) NewPipeline(modelPath, device string) (RawPipeline, error) {
	if modelPath == "" {
		return nil, errors.New("model path is empty")
	}
	if device == "BADDEV" {
		return nil, errors.New("device not available: " + device)
	}
	p := &fakePipeline{
		modelPath: modelPath,
		device:    device,
		loadTime:  123.5,
		output:    []string{"hello", " ", "from", " ", "the", " ", "engine"},
	}
	r.pipelines = append(r.pipelines, p)
	return p, nil
}

func (r *fakeRuntime) NewConfig() RawConfig {
	// Engine defaults: greedy decoding, generous token limit.
	return &fakeConfig{maxNewTokens: 64, temperature: 1.0, topP: 1.0, topK: 50}
}

type fakeConfig struct {
	maxNewTokens uint64
	temperature  float32
	topP         float32
	topK         uint64
	doSample     bool
	stops        []string
	freqPenalty  float32
	presPenalty  float32
	repPenalty   float32
	seed         uint64
	logprobs     uint64
	closed       int
}

func (c *fakeConfig) SetMaxNewTokens(n uint64) { c.maxNewTokens = n }

func (c *fakeConfig) SetTemperature(t float32) { c.temperature = t }

func (c *fakeConfig) SetTopP(p float32) { c.topP = p }

func (c *fakeConfig) SetTopK(k uint64) { c.topK = k }

func (c *fakeConfig) SetDoSample(v bool) { c.doSample = v }

func (c *fakeConfig) SetStopStrings(stops []string) { c.stops = stops }

func (c *fakeConfig) SetFrequencyPenalty(p float32) { c.freqPenalty = p }

func (c *fakeConfig) SetPresencePenalty(p float32) { c.presPenalty = p }

func (c *fakeConfig) SetRepetitionPenalty(p float32) { c.repPenalty = p }

func (c *fakeConfig) SetRNGSeed(seed uint64) { c.seed = seed }

func (c *fakeConfig) SetLogprobs(n uint64) { c.logprobs = n }

func (c *fakeConfig) Close() { c.closed++ }

type fakePipeline struct {
	modelPath string
	device    string
	loadTime  float32
	// output is the chunk sequence the "engine" emits, one callback per
	// chunk. Empty output simulates the zero-candidate case.
	output      []string
	generateErr error

	chatStarts   int
	chatFinishes int
	closed       int
}

func (p *fakePipeline) Generate(prompt string, cfg RawConfig, stream StreamFunc) (RawResult, error) {
	if p.generateErr != nil {
		return RawResult{}, p.generateErr
	}
	c := cfg.(*fakeConfig)
	chunks := p.output
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
	return RawResult{
		Text: b.String(),
		Metrics: PerfMetrics{
			LoadTime:             p.loadTime,
			NumInputTokens:       uint64(len(strings.Fields(prompt))),
			NumGeneratedTokens:   uint64(emitted),
			TTFTMean:             12.0,
			TTFTStd:              0.5,
			ThroughputMean:       40.0,
			ThroughputStd:        1.5,
			GenerateDurationMean: 250.0,
			GenerateDurationStd:  3.0,
		},
	}, nil
}

func (p *fakePipeline) StartChat()  { p.chatStarts++ }
func (p *fakePipeline) FinishChat() { p.chatFinishes++ }

func (p *fakePipeline) Tokenizer() RawTokenizer {
	return &fakeTokenizer{}
}

func (p *fakePipeline) Close() { p.closed++ }

// fakeTokenizer encodes by whitespace splitting, which is enough to check
// that the bridge only surfaces counts, never IDs.
type fakeTokenizer struct {
	closed int
}

func (t *fakeTokenizer) CountTokens(text string) uint64 {
	return uint64(len(strings.Fields(text)))
}

func (t *fakeTokenizer) Close() { t.closed++ }
