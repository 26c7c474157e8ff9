package e2e

import (
	"strings"
	"time"

	"genaid/internal/genai"
)

// slowRuntime is a minimal in-process engine for end-to-end tests. Each
// generate call emits a fixed token sequence, optionally sleeping between
// tokens to hold the generation slot.
type slowRuntime struct {
	delay time.Duration
}

func (r *slowRuntime) NewPipeline(modelPath, device string) (genai.RawPipeline, error) {
	return &slowPipeline{delay: r.delay}, nil
}

func (r *slowRuntime) NewConfig() genai.RawConfig { return noopConfig{} }

type slowPipeline struct {
	delay time.Duration
}

func (p *slowPipeline) Generate(prompt string, cfg genai.RawConfig, stream genai.StreamFunc) (genai.RawResult, error) {
	chunks := []string{"hello", " ", "world"}
	var b strings.Builder
	for _, c := range chunks {
		if p.delay > 0 {
			time.Sleep(p.delay)
		}
		b.WriteString(c)
		if stream != nil && !stream([]byte(c)) {
			break
		}
	}
	return genai.RawResult{
		Text: b.String(),
		Metrics: genai.PerfMetrics{
			NumInputTokens:     uint64(len(strings.Fields(prompt))),
			NumGeneratedTokens: uint64(len(chunks)),
		},
	}, nil
}

func (p *slowPipeline) StartChat()  {}
func (p *slowPipeline) FinishChat() {}

func (p *slowPipeline) Tokenizer() genai.RawTokenizer { return fieldTokenizer{} }

func (p *slowPipeline) Close() {}

type noopConfig struct{}

func (noopConfig) SetMaxNewTokens(uint64)       {}
func (noopConfig) SetTemperature(float32)       {}
func (noopConfig) SetTopP(float32)              {}
func (noopConfig) SetTopK(uint64)               {}
func (noopConfig) SetDoSample(bool)             {}
func (noopConfig) SetStopStrings([]string)      {}
func (noopConfig) SetFrequencyPenalty(float32)  {}
func (noopConfig) SetPresencePenalty(float32)   {}
func (noopConfig) SetRepetitionPenalty(float32) {}
func (noopConfig) SetRNGSeed(uint64)            {}
func (noopConfig) SetLogprobs(uint64)           {}
func (noopConfig) Close()                       {}

type fieldTokenizer struct{}

func (fieldTokenizer) CountTokens(text string) uint64 {
	return uint64(len(strings.Fields(text)))
}

func (fieldTokenizer) Close() {}
