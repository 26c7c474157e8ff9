package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"genaid/internal/config"
	"genaid/internal/httpapi"
	"genaid/internal/manager"
	"genaid/internal/registry"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	// Flags with environment variable defaults
	addr := flag.String("addr", envOr("GENAID_ADDR", ":8080"), "HTTP listen address, e.g. :8080")
	modelsDir := flag.String("models-dir", envOr("GENAID_MODELS_DIR", "~/models/openvino"), "Directory to scan for OpenVINO model folders")
	device := flag.String("device", envOr("GENAID_DEVICE", "CPU"), "Inference device (CPU, GPU, NPU)")
	defaultModel := flag.String("default-model", envOr("GENAID_DEFAULT_MODEL", ""), "Default model id when request omits model")
	maxQueueDepth := flag.Int("max-queue-depth", 0, "Per-model admission queue depth (0=default)")
	maxWaitSec := flag.Int("max-wait-sec", 0, "Seconds a request may wait for a generation slot (0=default)")
	maxInstances := flag.Int("max-instances", 0, "Max resident model instances; loading beyond the cap evicts the least recently used idle one (0=unlimited)")
	configPath := flag.String("config", envOr("GENAID_CONFIG", ""), "Optional config file (yaml, json or toml); flags override it")
	corsOrigins := flag.String("cors-origins", envOr("GENAID_CORS_ORIGINS", ""), "Comma-separated CORS origins (empty disables CORS)")
	flag.Parse()

	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			logger.Fatal().Err(err).Str("path", *configPath).Msg("failed to load config")
		}
		// File values fill in whatever flags and environment left unset.
		applyFileConfig(cfg, explicitSettings(), addr, modelsDir, device, defaultModel, maxQueueDepth, maxWaitSec, maxInstances)
	}

	reg, err := registry.LoadDir(*modelsDir)
	if err != nil {
		logger.Fatal().Err(err).Str("dir", *modelsDir).Msg("failed to scan models directory")
	}
	if len(reg) == 0 {
		logger.Warn().Str("dir", *modelsDir).Msg("no models found")
	}

	mgr := manager.NewWithConfig(manager.ManagerConfig{
		Registry:      reg,
		DefaultModel:  *defaultModel,
		Device:        *device,
		MaxQueueDepth: *maxQueueDepth,
		MaxWait:       time.Duration(*maxWaitSec) * time.Second,
		MaxInstances:  *maxInstances,
		Publisher:     logPublisher{l: logger},
	})
	defer mgr.Close()

	// Shutdown cancels in-flight generations through the base context.
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)
	httpapi.SetLogger(logger)
	if origins := splitCSV(*corsOrigins); len(origins) > 0 {
		httpapi.SetCORSOptions(true, origins,
			[]string{"GET", "POST", "OPTIONS"},
			[]string{"Accept", "Content-Type", "X-Log-Level"})
	}

	srv := &http.Server{Addr: *addr, Handler: httpapi.NewMux(mgr)}

	go func() {
		logger.Info().Str("addr", *addr).Str("models_dir", *modelsDir).Str("device", *device).Int("models", len(reg)).Msg("genaid listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	cancelBase()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
}

// logPublisher forwards manager lifecycle events to the daemon log.
type logPublisher struct {
	l zerolog.Logger
}

func (p logPublisher) Publish(e manager.Event) {
	ev := p.l.Info().Str("event", e.Name).Str("model", e.ModelID)
	for k, v := range e.Fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg("lifecycle")
}

// flagEnvVars maps flags to the environment variables that feed their
// defaults. A value from either source counts as explicitly set.
var flagEnvVars = map[string]string{
	"addr":          "GENAID_ADDR",
	"models-dir":    "GENAID_MODELS_DIR",
	"device":        "GENAID_DEVICE",
	"default-model": "GENAID_DEFAULT_MODEL",
}

// explicitSettings reports which settings the operator chose via command-line
// flag or environment variable. Env values arrive as flag defaults, so
// flag.Visit alone would miss them and let a config file override them.
func explicitSettings() map[string]bool {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	for name, env := range flagEnvVars {
		if os.Getenv(env) != "" {
			set[name] = true
		}
	}
	return set
}

// applyFileConfig copies file values into settings the operator left unset.
// Precedence is flag, then environment, then file, then built-in default.
func applyFileConfig(cfg config.Config, set map[string]bool, addr, modelsDir, device, defaultModel *string, maxQueueDepth, maxWaitSec, maxInstances *int) {
	if !set["addr"] && cfg.Addr != "" {
		*addr = cfg.Addr
	}
	if !set["models-dir"] && cfg.ModelsDir != "" {
		*modelsDir = cfg.ModelsDir
	}
	if !set["device"] && cfg.Device != "" {
		*device = cfg.Device
	}
	if !set["default-model"] && cfg.DefaultModel != "" {
		*defaultModel = cfg.DefaultModel
	}
	if !set["max-queue-depth"] && cfg.MaxQueueDepth > 0 {
		*maxQueueDepth = cfg.MaxQueueDepth
	}
	if !set["max-wait-sec"] && cfg.MaxWaitSec > 0 {
		*maxWaitSec = cfg.MaxWaitSec
	}
	if !set["max-instances"] && cfg.MaxInstances > 0 {
		*maxInstances = cfg.MaxInstances
	}
}
