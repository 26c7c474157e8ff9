//go:build openvino

package genai

/*
#include <stdlib.h>
#include <openvino/genai/c/llm_pipeline.h>

// ov_genai_llm_pipeline_create is variadic (trailing device properties);
// cgo cannot call variadics, so wrap the no-property case.
static ov_status_e genaid_pipeline_create(const char* models_path, const char* device,
                                          ov_genai_llm_pipeline** pipe) {
	return ov_genai_llm_pipeline_create(models_path, device, 0, pipe);
}

extern ov_genai_streamming_status_e genaidTokenCB(const char* str, void* args);

static ov_status_e genaid_pipeline_generate(ov_genai_llm_pipeline* pipe, const char* inputs,
                                            const ov_genai_generation_config* config,
                                            void* stream_handle,
                                            ov_genai_decoded_results** results) {
	if (stream_handle == NULL) {
		return ov_genai_llm_pipeline_generate(pipe, inputs, config, NULL, results);
	}
	streamer_callback cb;
	cb.callback_func = genaidTokenCB;
	cb.args = stream_handle;
	return ov_genai_llm_pipeline_generate(pipe, inputs, config, &cb, results);
}
*/
import "C"

import (
	"fmt"
	"runtime/cgo"
	"unsafe"
)

// ovRuntime is the cgo-backed Runtime over the OpenVINO GenAI C API.
type ovRuntime struct{}

// NewRuntime returns the OpenVINO-backed engine runtime.
func NewRuntime() (Runtime, error) {
	return ovRuntime{}, nil
}

// ovStatus converts a C status into a Go error (nil on OK).
func ovStatus(s C.ov_status_e) error {
	if s == C.OK {
		return nil
	}
	return fmt.Errorf("openvino status %d: %s", int(s), C.GoString(C.ov_get_error_info(s)))
}

func (ovRuntime) NewPipeline(modelPath, device string) (RawPipeline, error) {
	cPath := C.CString(modelPath)
	defer C.free(unsafe.Pointer(cPath))
	cDev := C.CString(device)
	defer C.free(unsafe.Pointer(cDev))
	var pipe *C.ov_genai_llm_pipeline
	if err := ovStatus(C.genaid_pipeline_create(cPath, cDev, &pipe)); err != nil {
		return nil, err
	}
	return &ovPipeline{pipe: pipe}, nil
}

func (ovRuntime) NewConfig() RawConfig {
	var cfg *C.ov_genai_generation_config
	// Config creation only allocates a defaults struct; a failure here means
	// the process is out of memory and there is nothing sensible to return.
	if err := ovStatus(C.ov_genai_generation_config_create(&cfg)); err != nil {
		panic("genai: create generation config: " + err.Error())
	}
	return &ovConfig{cfg: cfg}
}

type ovPipeline struct {
	pipe *C.ov_genai_llm_pipeline
}

func (p *ovPipeline) Generate(prompt string, cfg RawConfig, stream StreamFunc) (RawResult, error) {
	cPrompt := C.CString(prompt)
	defer C.free(unsafe.Pointer(cPrompt))

	var handle unsafe.Pointer
	if stream != nil {
		h := cgo.NewHandle(stream)
		defer h.Delete()
		handle = unsafe.Pointer(&h)
	}

	var results *C.ov_genai_decoded_results
	st := C.genaid_pipeline_generate(p.pipe, cPrompt, cfg.(*ovConfig).cfg, handle, &results)
	if err := ovStatus(st); err != nil {
		return RawResult{}, err
	}
	defer C.ov_genai_decoded_results_free(results)

	text, err := decodedString(results)
	if err != nil {
		return RawResult{}, err
	}
	metrics, err := extractMetrics(results)
	if err != nil {
		return RawResult{}, err
	}
	return RawResult{Text: text, Metrics: metrics}, nil
}

// decodedString reads the primary candidate's text out of the decoded
// results via the size-then-copy protocol.
func decodedString(results *C.ov_genai_decoded_results) (string, error) {
	var size C.size_t
	if err := ovStatus(C.ov_genai_decoded_results_get_string(results, nil, &size)); err != nil {
		return "", err
	}
	if size == 0 {
		return "", nil
	}
	buf := (*C.char)(C.malloc(size))
	defer C.free(unsafe.Pointer(buf))
	if err := ovStatus(C.ov_genai_decoded_results_get_string(results, buf, &size)); err != nil {
		return "", err
	}
	return C.GoString(buf), nil
}

// extractMetrics copies the engine's perf-metrics object into the flat
// boundary record, field by field. All statistics are computed by the
// engine; nothing is aggregated here.
func extractMetrics(results *C.ov_genai_decoded_results) (PerfMetrics, error) {
	var pm PerfMetrics
	var metrics *C.ov_genai_perf_metrics
	if err := ovStatus(C.ov_genai_decoded_results_get_perf_metrics(results, &metrics)); err != nil {
		return pm, err
	}
	defer C.ov_genai_perf_metrics_free(metrics)

	var f C.float
	var std C.float
	var n C.size_t
	C.ov_genai_perf_metrics_get_load_time(metrics, &f)
	pm.LoadTime = float32(f)
	C.ov_genai_perf_metrics_get_num_input_tokens(metrics, &n)
	pm.NumInputTokens = uint64(n)
	C.ov_genai_perf_metrics_get_num_generation_tokens(metrics, &n)
	pm.NumGeneratedTokens = uint64(n)
	C.ov_genai_perf_metrics_get_ttft(metrics, &f, &std)
	pm.TTFTMean, pm.TTFTStd = float32(f), float32(std)
	C.ov_genai_perf_metrics_get_throughput(metrics, &f, &std)
	pm.ThroughputMean, pm.ThroughputStd = float32(f), float32(std)
	C.ov_genai_perf_metrics_get_generate_duration(metrics, &f, &std)
	pm.GenerateDurationMean, pm.GenerateDurationStd = float32(f), float32(std)
	return pm, nil
}

func (p *ovPipeline) StartChat() {
	C.ov_genai_llm_pipeline_start_chat(p.pipe)
}

func (p *ovPipeline) FinishChat() {
	C.ov_genai_llm_pipeline_finish_chat(p.pipe)
}

func (p *ovPipeline) Tokenizer() RawTokenizer {
	var tok *C.ov_genai_tokenizer
	if err := ovStatus(C.ov_genai_llm_pipeline_get_tokenizer(p.pipe, &tok)); err != nil {
		panic("genai: get tokenizer: " + err.Error())
	}
	return &ovTokenizer{tok: tok}
}

func (p *ovPipeline) Close() {
	C.ov_genai_llm_pipeline_free(p.pipe)
	p.pipe = nil
}

type ovConfig struct {
	cfg *C.ov_genai_generation_config
}

func (c *ovConfig) SetMaxNewTokens(n uint64) {
	C.ov_genai_generation_config_set_max_new_tokens(c.cfg, C.size_t(n))
}

func (c *ovConfig) SetTemperature(t float32) {
	C.ov_genai_generation_config_set_temperature(c.cfg, C.float(t))
}

func (c *ovConfig) SetTopP(p float32) {
	C.ov_genai_generation_config_set_top_p(c.cfg, C.float(p))
}

func (c *ovConfig) SetTopK(k uint64) {
	C.ov_genai_generation_config_set_top_k(c.cfg, C.size_t(k))
}

func (c *ovConfig) SetDoSample(v bool) {
	C.ov_genai_generation_config_set_do_sample(c.cfg, C.bool(v))
}

func (c *ovConfig) SetStopStrings(stops []string) {
	cStops := make([]*C.char, len(stops))
	for i, s := range stops {
		cStops[i] = C.CString(s)
	}
	defer func() {
		for _, cs := range cStops {
			C.free(unsafe.Pointer(cs))
		}
	}()
	var head **C.char
	if len(cStops) > 0 {
		head = &cStops[0]
	}
	C.ov_genai_generation_config_set_stop_strings(c.cfg, head, C.size_t(len(cStops)))
}

func (c *ovConfig) SetFrequencyPenalty(p float32) {
	C.ov_genai_generation_config_set_frequency_penalty(c.cfg, C.float(p))
}

func (c *ovConfig) SetPresencePenalty(p float32) {
	C.ov_genai_generation_config_set_presence_penalty(c.cfg, C.float(p))
}

func (c *ovConfig) SetRepetitionPenalty(p float32) {
	C.ov_genai_generation_config_set_repetition_penalty(c.cfg, C.float(p))
}

func (c *ovConfig) SetRNGSeed(seed uint64) {
	C.ov_genai_generation_config_set_rng_seed(c.cfg, C.size_t(seed))
}

func (c *ovConfig) SetLogprobs(n uint64) {
	C.ov_genai_generation_config_set_logprobs(c.cfg, C.size_t(n))
}

func (c *ovConfig) Close() {
	C.ov_genai_generation_config_free(c.cfg)
	c.cfg = nil
}

type ovTokenizer struct {
	tok *C.ov_genai_tokenizer
}

func (t *ovTokenizer) CountTokens(text string) uint64 {
	cText := C.CString(text)
	defer C.free(unsafe.Pointer(cText))
	var inputIDs *C.ov_tensor_t
	var attentionMask *C.ov_tensor_t
	if err := ovStatus(C.ov_genai_tokenizer_encode(t.tok, cText, &inputIDs, &attentionMask)); err != nil {
		return 0
	}
	defer C.ov_tensor_free(inputIDs)
	defer C.ov_tensor_free(attentionMask)
	var size C.size_t
	if err := ovStatus(C.ov_tensor_get_size(inputIDs, &size)); err != nil {
		return 0
	}
	return uint64(size)
}

func (t *ovTokenizer) Close() {
	C.ov_genai_tokenizer_free(t.tok)
	t.tok = nil
}
