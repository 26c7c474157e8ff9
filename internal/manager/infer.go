package manager

import (
	"context"
	"encoding/json"
	"io"

	"genaid/internal/genai"
	"genaid/pkg/types"
)

// Infer centralizes inference behavior. It ensures the pipeline instance
// exists, acquires the instance's generation slot, runs one generate call
// through the bridge, and streams NDJSON token lines to the provided writer
// followed by a final summary line. Cancellation is cooperative: the token
// sink observes ctx and signals the engine to stop.
func (m *Manager) Infer(ctx context.Context, req types.InferRequest, w io.Writer, flush func()) error {
	modelID, err := m.resolveModelID(req.Model)
	if err != nil {
		return err
	}
	inst, err := m.ensureInstance(modelID)
	if err != nil {
		return err
	}
	// Admission: per-instance FIFO queue, single in-flight
	release, err := m.beginGeneration(ctx, inst)
	if err != nil {
		return err
	}
	defer release()

	cfg := genai.NewGenerationConfig(m.runtime)
	defer cfg.Close()
	applyRequest(cfg, req)

	var res genai.Result
	canceled := false
	if req.Stream {
		sink := genai.SinkFunc(func(chunk []byte) bool {
			select {
			case <-ctx.Done():
				canceled = true
				return false
			default:
			}
			if _, e := w.Write(tokenLineJSON(string(chunk))); e != nil {
				canceled = true
				return false
			}
			if flush != nil {
				flush()
			}
			return true
		})
		res, err = inst.pipeline.GenerateStream(req.Prompt, cfg, sink)
	} else {
		res, err = inst.pipeline.GenerateWithMetrics(req.Prompt, cfg)
	}
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	m.recordGeneration(inst, res.Metrics)

	finish := "stop"
	if canceled {
		finish = "canceled"
	}
	gen := res.Metrics.NumGeneratedTokens
	end := map[string]any{
		"done":          true,
		"content":       res.Text,
		"finish_reason": finish,
		"usage": types.UsageInfo{
			PromptTokens:     res.Metrics.NumInputTokens,
			CompletionTokens: gen,
			TotalTokens:      res.Metrics.NumInputTokens + gen,
		},
		"perf": perfStats(res.Metrics),
	}
	jb, _ := json.Marshal(end)
	if _, err := w.Write(append(jb, '\n')); err != nil {
		return err
	}
	if flush != nil {
		flush()
	}
	return nil
}

// applyRequest writes the request's explicitly-provided fields into the
// generation config; everything else keeps the engine default. No
// validation happens here: the engine rejects bad values at generate time.
func applyRequest(cfg *genai.GenerationConfig, req types.InferRequest) {
	if req.MaxTokens > 0 {
		cfg.SetMaxNewTokens(req.MaxTokens)
	}
	if req.Temperature != nil {
		cfg.SetTemperature(float32(*req.Temperature))
	}
	if req.TopP != nil {
		cfg.SetTopP(float32(*req.TopP))
	}
	if req.TopK > 0 {
		cfg.SetTopK(req.TopK)
	}
	cfg.SetDoSample(req.DoSample)
	if req.Stop != nil {
		cfg.SetStopStrings(req.Stop)
	}
	if req.Seed != 0 {
		cfg.SetRNGSeed(req.Seed)
	}
	if req.FrequencyPenalty != nil {
		cfg.SetFrequencyPenalty(float32(*req.FrequencyPenalty))
	}
	if req.PresencePenalty != nil {
		cfg.SetPresencePenalty(float32(*req.PresencePenalty))
	}
	if req.RepetitionPenalty != nil {
		cfg.SetRepetitionPenalty(float32(*req.RepetitionPenalty))
	}
	if req.Logprobs > 0 {
		cfg.SetLogprobs(req.Logprobs)
	}
}

// recordGeneration captures per-call engine metrics into instance state and
// Prometheus collectors.
func (m *Manager) recordGeneration(inst *Instance, pm genai.PerfMetrics) {
	m.mu.Lock()
	if !inst.loadTimeCaptured {
		// Captured once: the engine measures load time at construction, so
		// the first generate call's value is authoritative (and may be 0).
		inst.LoadTimeMs = float64(pm.LoadTime)
		inst.loadTimeCaptured = true
	}
	m.mu.Unlock()
	generatedTokens.Add(float64(pm.NumGeneratedTokens))
	promptTokens.Add(float64(pm.NumInputTokens))
	generateDuration.Observe(float64(pm.GenerateDurationMean) / 1000.0)
}

// perfStats converts the bridge metrics record to the API payload shape.
func perfStats(pm genai.PerfMetrics) types.PerfStats {
	return types.PerfStats{
		LoadTimeMs:             float64(pm.LoadTime),
		TTFTMeanMs:             float64(pm.TTFTMean),
		TTFTStdMs:              float64(pm.TTFTStd),
		ThroughputMeanTPS:      float64(pm.ThroughputMean),
		ThroughputStdTPS:       float64(pm.ThroughputStd),
		GenerateDurationMeanMs: float64(pm.GenerateDurationMean),
		GenerateDurationStdMs:  float64(pm.GenerateDurationStd),
	}
}

// tokenLineJSON formats a token NDJSON line using json.Marshal for correctness.
func tokenLineJSON(tok string) []byte {
	type tokenMsg struct {
		Token string `json:"token"`
	}
	b, _ := json.Marshal(tokenMsg{Token: tok})
	return append(b, '\n')
}
