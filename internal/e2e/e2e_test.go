package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"genaid/internal/genai"
	"genaid/internal/httpapi"
	"genaid/internal/manager"
	"genaid/internal/registry"
	"genaid/pkg/types"
)

// createTempModelsDir creates a temporary directory populated with model
// folders (each containing an openvino_model.xml) and returns the directory
// path and the model IDs (folder names).
func createTempModelsDir(t *testing.T, names ...string) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		sub := filepath.Join(dir, n)
		if err := os.MkdirAll(sub, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", sub, err)
		}
		p := filepath.Join(sub, "openvino_model.xml")
		if err := os.WriteFile(p, []byte("<net/>"), 0o644); err != nil {
			t.Fatalf("write temp model %s: %v", p, err)
		}
	}
	return dir, names
}

func newServerForDir(t *testing.T, modelsDir string, cfg manager.ManagerConfig) (*httptest.Server, *manager.Manager) {
	t.Helper()
	reg, err := registry.LoadDir(modelsDir)
	if err != nil {
		t.Fatalf("scan models: %v", err)
	}
	cfg.Registry = reg
	mgr := manager.NewWithConfig(cfg)
	t.Cleanup(mgr.Close)
	srv := httptest.NewServer(httpapi.NewMux(mgr))
	t.Cleanup(srv.Close)
	return srv, mgr
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func httpPostJSON(t *testing.T, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func TestModelsInferReadyStatus(t *testing.T) {
	dir, models := createTempModelsDir(t, "alpha", "beta")
	srv, _ := newServerForDir(t, dir, manager.ManagerConfig{
		DefaultModel: models[0],
		Runtime:      &slowRuntime{},
	})

	// GET /models returns discovered models
	resp, body := httpGet(t, srv.URL+"/models")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/models status=%d body=%s", resp.StatusCode, body)
	}
	var modelsResp types.ModelsResponse
	if err := json.Unmarshal(body, &modelsResp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(modelsResp.Models) != 2 {
		t.Fatalf("models=%+v", modelsResp.Models)
	}

	// GET /readyz is OK (runtime present)
	resp, _ = httpGet(t, srv.URL+"/readyz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/readyz status=%d", resp.StatusCode)
	}

	// POST /infer streams and ends with a summary line
	resp, body = httpPostJSON(t, srv.URL+"/infer", []byte(`{"prompt":"hello","stream":true}`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/infer status=%d body=%s", resp.StatusCode, body)
	}
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	if len(lines) < 2 {
		t.Fatalf("expected token lines plus summary, got %q", body)
	}
	var final struct {
		Done    bool   `json:"done"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &final); err != nil {
		t.Fatalf("final line: %v", err)
	}
	if !final.Done || final.Content == "" {
		t.Fatalf("final=%+v", final)
	}

	// GET /status reflects the loaded instance
	resp, body = httpGet(t, srv.URL+"/status")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/status status=%d", resp.StatusCode)
	}
	var st types.StatusResponse
	if err := json.Unmarshal(body, &st); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(st.Instances) != 1 || st.Instances[0].ModelID != models[0] {
		t.Fatalf("status=%+v", st)
	}
}

func TestUnknownModel404(t *testing.T) {
	dir, models := createTempModelsDir(t, "alpha")
	srv, _ := newServerForDir(t, dir, manager.ManagerConfig{
		DefaultModel: models[0],
		Runtime:      &slowRuntime{},
	})
	resp, _ := httpPostJSON(t, srv.URL+"/infer", []byte(`{"model":"ghost","prompt":"hi"}`))
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status=%d", resp.StatusCode)
	}
}

// Backpressure: with a queue of one waiting request and a single in-flight
// slot, a third concurrent request should be rejected with 429.
func TestBackpressure429(t *testing.T) {
	dir, models := createTempModelsDir(t, "alpha")
	srv, _ := newServerForDir(t, dir, manager.ManagerConfig{
		DefaultModel:  models[0],
		MaxQueueDepth: 1,
		MaxWait:       5 * time.Millisecond,
		Runtime:       &slowRuntime{delay: 200 * time.Millisecond},
	})

	doInfer := func() int {
		resp, _ := httpPostJSON(t, srv.URL+"/infer", []byte(`{"prompt":"hello"}`))
		return resp.StatusCode
	}

	done := make(chan int, 3)
	go func() { done <- doInfer() }()
	go func() { done <- doInfer() }()
	go func() { done <- doInfer() }()

	s1, s2, s3 := <-done, <-done, <-done
	got429 := s1 == http.StatusTooManyRequests || s2 == http.StatusTooManyRequests || s3 == http.StatusTooManyRequests
	if !got429 {
		t.Fatalf("expected at least one 429 status, got: %d, %d, %d", s1, s2, s3)
	}
}

func TestTokenizeAndChatLifecycle(t *testing.T) {
	dir, models := createTempModelsDir(t, "alpha")
	srv, _ := newServerForDir(t, dir, manager.ManagerConfig{
		DefaultModel: models[0],
		Runtime:      &slowRuntime{},
	})

	resp, body := httpPostJSON(t, srv.URL+"/tokenize", []byte(`{"text":"one two three"}`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/tokenize status=%d body=%s", resp.StatusCode, body)
	}
	var tok types.TokenizeResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		t.Fatalf("json: %v", err)
	}
	if tok.NumTokens != 3 {
		t.Fatalf("num_tokens=%d", tok.NumTokens)
	}

	resp, _ = httpPostJSON(t, srv.URL+"/chat/start", []byte(`{}`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/chat/start status=%d", resp.StatusCode)
	}
	_, body = httpGet(t, srv.URL+"/status")
	var st types.StatusResponse
	if err := json.Unmarshal(body, &st); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(st.Instances) != 1 || !st.Instances[0].ChatActive {
		t.Fatalf("expected chat active, status=%+v", st)
	}
	resp, _ = httpPostJSON(t, srv.URL+"/chat/finish", []byte(`{}`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/chat/finish status=%d", resp.StatusCode)
	}
}

func TestUnloadLifecycle(t *testing.T) {
	dir, models := createTempModelsDir(t, "alpha")
	srv, _ := newServerForDir(t, dir, manager.ManagerConfig{
		DefaultModel: models[0],
		Runtime:      &slowRuntime{},
	})

	resp, _ := httpPostJSON(t, srv.URL+"/infer", []byte(`{"prompt":"hello"}`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/infer status=%d", resp.StatusCode)
	}

	resp, body := httpPostJSON(t, srv.URL+"/unload", []byte(`{"model":"alpha"}`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/unload status=%d body=%s", resp.StatusCode, body)
	}
	_, body = httpGet(t, srv.URL+"/status")
	var st types.StatusResponse
	if err := json.Unmarshal(body, &st); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(st.Instances) != 0 {
		t.Fatalf("expected no instances after unload, status=%+v", st)
	}

	// A fresh request reloads the model.
	resp, _ = httpPostJSON(t, srv.URL+"/infer", []byte(`{"prompt":"hello"}`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/infer after unload status=%d", resp.StatusCode)
	}

	resp, _ = httpPostJSON(t, srv.URL+"/unload", []byte(`{"model":"ghost"}`))
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("/unload ghost status=%d", resp.StatusCode)
	}
}

// Without an engine runtime the daemon still serves health and metadata
// endpoints; generation paths degrade to 503.
func TestNoEngine503(t *testing.T) {
	dir, models := createTempModelsDir(t, "alpha")
	reg, err := registry.LoadDir(dir)
	if err != nil {
		t.Fatalf("scan models: %v", err)
	}
	mgr := manager.NewWithConfig(manager.ManagerConfig{Registry: reg, DefaultModel: models[0]})
	t.Cleanup(mgr.Close)
	srv := httptest.NewServer(httpapi.NewMux(mgr))
	t.Cleanup(srv.Close)

	if _, err := genai.NewRuntime(); err == nil {
		t.Skip("engine compiled in; 503 path not reachable")
	}

	resp, _ := httpGet(t, srv.URL+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/healthz status=%d", resp.StatusCode)
	}
	resp, _ = httpGet(t, srv.URL+"/models")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/models status=%d", resp.StatusCode)
	}
	resp, body := httpPostJSON(t, srv.URL+"/infer", []byte(`{"prompt":"hi"}`))
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("/infer status=%d body=%s", resp.StatusCode, body)
	}
}
