package main

import (
	"testing"

	"genaid/internal/config"
)

func TestSplitCSV(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"a,,c", []string{"a", "c"}},
		{"", nil},
	}
	for _, c := range cases {
		got := splitCSV(c.in)
		if len(got) != len(c.want) {
			t.Fatalf("%q -> %v, want %v", c.in, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("%q -> %v, want %v", c.in, got, c.want)
			}
		}
	}
}

func TestEnvOr(t *testing.T) {
	t.Setenv("GENAID_TEST_KEY", "set")
	if got := envOr("GENAID_TEST_KEY", "fallback"); got != "set" {
		t.Fatalf("got %q", got)
	}
	if got := envOr("GENAID_TEST_MISSING", "fallback"); got != "fallback" {
		t.Fatalf("got %q", got)
	}
}

func TestApplyFileConfig_EnvBeatsFile(t *testing.T) {
	t.Setenv("GENAID_DEVICE", "GPU")
	t.Setenv("GENAID_ADDR", "")

	// Env feeds the flag default, exactly as main sets the flags up.
	addr := envOr("GENAID_ADDR", ":8080")
	device := envOr("GENAID_DEVICE", "CPU")
	modelsDir, defaultModel := "~/models/openvino", ""
	maxQueueDepth, maxWaitSec, maxInstances := 0, 0, 0

	cfg := config.Config{Addr: ":9999", Device: "NPU", MaxInstances: 3}
	applyFileConfig(cfg, explicitSettings(), &addr, &modelsDir, &device, &defaultModel, &maxQueueDepth, &maxWaitSec, &maxInstances)

	if device != "GPU" {
		t.Fatalf("env device overridden by file: got %q", device)
	}
	if addr != ":9999" {
		t.Fatalf("file addr should apply when env is unset: got %q", addr)
	}
	if maxInstances != 3 {
		t.Fatalf("file max_instances should apply: got %d", maxInstances)
	}
}
