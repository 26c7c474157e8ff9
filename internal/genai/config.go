package genai

import (
	"sort"
	"sync"
)

// GenerationConfig exclusively owns one native generation-configuration
// object. A config is independent of any pipeline and may be reused across
// many generate calls, against the same or different pipelines. It must not
// be mutated while a generate call that reads it is in flight; the bridge
// adds no lock for that, per the concurrency contract.
//
// Setters perform a total overwrite of the corresponding native field and no
// validation: out-of-range values are forwarded unchecked and rejected (or
// not) by the engine at generate time.
type GenerationConfig struct {
	raw       RawConfig
	closeOnce sync.Once
}

// NewGenerationConfig returns a config populated with engine defaults.
// It always succeeds.
func NewGenerationConfig(rt Runtime) *GenerationConfig {
	return &GenerationConfig{raw: rt.NewConfig()}
}

// Close releases the native config. Safe to call more than once; only the
// first call releases.
func (c *GenerationConfig) Close() {
	c.closeOnce.Do(func() { c.raw.Close() })
}

func (c *GenerationConfig) SetMaxNewTokens(n uint64) { c.raw.SetMaxNewTokens(n) }

func (c *GenerationConfig) SetTemperature(t float32) { c.raw.SetTemperature(t) }

func (c *GenerationConfig) SetTopP(p float32) { c.raw.SetTopP(p) }

func (c *GenerationConfig) SetTopK(k uint64) { c.raw.SetTopK(k) }

func (c *GenerationConfig) SetDoSample(v bool) { c.raw.SetDoSample(v) }

func (c *GenerationConfig) SetFrequencyPenalty(p float32) { c.raw.SetFrequencyPenalty(p) }

func (c *GenerationConfig) SetPresencePenalty(p float32) { c.raw.SetPresencePenalty(p) }

func (c *GenerationConfig) SetRepetitionPenalty(p float32) { c.raw.SetRepetitionPenalty(p) }

func (c *GenerationConfig) SetRNGSeed(seed uint64) { c.raw.SetRNGSeed(seed) }

func (c *GenerationConfig) SetLogprobs(n uint64) { c.raw.SetLogprobs(n) }

// SetStopStrings replaces the entire stop-set. Duplicates collapse silently;
// order is irrelevant. The native side receives a sorted, deduplicated slice
// so repeated calls with the same set are byte-identical.
func (c *GenerationConfig) SetStopStrings(stops []string) {
	seen := make(map[string]struct{}, len(stops))
	uniq := make([]string, 0, len(stops))
	for _, s := range stops {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		uniq = append(uniq, s)
	}
	sort.Strings(uniq)
	c.raw.SetStopStrings(uniq)
}
