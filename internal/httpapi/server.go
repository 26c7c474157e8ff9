package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"genaid/internal/genai"
	"genaid/internal/manager"
	"genaid/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	ListModels() []types.Model
	Status() types.StatusResponse
	Ready() bool
	Infer(ctx context.Context, req types.InferRequest, w io.Writer, flush func()) error
	StartChat(ctx context.Context, model string) error
	FinishChat(ctx context.Context, model string) error
	CountTokens(ctx context.Context, model, text string) (uint64, error)
	Unload(model string) error
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(types.ModelsResponse{Models: svc.ListModels()}); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
			return
		}
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(svc.Status()); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
			return
		}
	})

	r.Post("/infer", func(w http.ResponseWriter, r *http.Request) {
		var req types.InferRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Prompt) == "" {
			writeJSONError(w, http.StatusBadRequest, "prompt is required")
			return
		}

		// Stream NDJSON via manager.Infer (centralized logic)
		w.Header().Set("Content-Type", "application/x-ndjson")
		var flush func()
		if f, ok := w.(http.Flusher); ok {
			flush = f.Flush
		}
		start := time.Now()
		// Optional logging of NDJSON tokens
		writer := io.Writer(w)
		lvl := requestLogLevel(r)
		if lvl >= LevelDebug {
			writer = io.MultiWriter(w, &loggingLineWriter{})
		}
		if lvl >= LevelInfo {
			if zlog != nil {
				z := zlog.Info().Str("path", r.URL.Path).Str("model", req.Model)
				if rid := middleware.GetReqID(r.Context()); rid != "" {
					z = z.Str("request_id", rid)
				}
				z.Msg("infer start")
			} else {
				log.Printf("infer start path=%s model=%s", r.URL.Path, req.Model)
			}
		}
		ctx, cancel := requestContext(r)
		defer cancel()
		err := svc.Infer(ctx, req, writer, flush)
		if err != nil {
			// If context was canceled (client disconnect), just return.
			if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
				return
			}
			status := statusForError(err)
			if status == http.StatusTooManyRequests {
				IncrementBackpressure("queue_full", req.Model)
			}
			observeModelRequest(req.Model, "infer", status)
			writeJSONError(w, status, err.Error())
			logRequestEnd(r, lvl, "infer end", status, start, err)
			return
		}
		observeModelRequest(req.Model, "infer", http.StatusOK)
		logRequestEnd(r, lvl, "infer end", http.StatusOK, start, nil)
	})

	r.Post("/chat/start", func(w http.ResponseWriter, r *http.Request) {
		var req types.ChatRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		ctx, cancel := requestContext(r)
		defer cancel()
		if err := svc.StartChat(ctx, req.Model); err != nil {
			status := statusForError(err)
			observeModelRequest(req.Model, "chat_start", status)
			writeJSONError(w, status, err.Error())
			return
		}
		observeModelRequest(req.Model, "chat_start", http.StatusOK)
		writeJSON(w, map[string]any{"chat_active": true, "model": req.Model})
	})

	r.Post("/chat/finish", func(w http.ResponseWriter, r *http.Request) {
		var req types.ChatRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		ctx, cancel := requestContext(r)
		defer cancel()
		if err := svc.FinishChat(ctx, req.Model); err != nil {
			status := statusForError(err)
			observeModelRequest(req.Model, "chat_finish", status)
			writeJSONError(w, status, err.Error())
			return
		}
		observeModelRequest(req.Model, "chat_finish", http.StatusOK)
		writeJSON(w, map[string]any{"chat_active": false, "model": req.Model})
	})

	r.Post("/tokenize", func(w http.ResponseWriter, r *http.Request) {
		var req types.TokenizeRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		ctx, cancel := requestContext(r)
		defer cancel()
		n, err := svc.CountTokens(ctx, req.Model, req.Text)
		if err != nil {
			status := statusForError(err)
			observeModelRequest(req.Model, "tokenize", status)
			writeJSONError(w, status, err.Error())
			return
		}
		observeModelRequest(req.Model, "tokenize", http.StatusOK)
		writeJSON(w, types.TokenizeResponse{Model: req.Model, NumTokens: n})
	})

	r.Post("/unload", func(w http.ResponseWriter, r *http.Request) {
		var req types.UnloadRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		// Draining can take up to the manager's drain timeout; the handler
		// blocks until the instance is gone.
		if err := svc.Unload(req.Model); err != nil {
			status := statusForError(err)
			observeModelRequest(req.Model, "unload", status)
			writeJSONError(w, status, err.Error())
			return
		}
		observeModelRequest(req.Model, "unload", http.StatusOK)
		writeJSON(w, map[string]any{"unloaded": true, "model": req.Model})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("no engine"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// decodeJSONBody enforces the JSON content type and body size limit, then
// decodes into dst. On failure it writes the error response and returns false.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		// MaxBytesReader failures land here too; a plain 400 avoids leaking limits
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}

// statusForError maps well-known service errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case manager.IsModelNotFound(err):
		return http.StatusNotFound
	case manager.IsTooBusy(err):
		return http.StatusTooManyRequests
	case genai.IsEngineUnavailable(err):
		return http.StatusServiceUnavailable
	}
	if he, ok := err.(HTTPError); ok {
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}

func logRequestEnd(r *http.Request, lvl LogLevel, msg string, status int, start time.Time, err error) {
	if lvl < LevelInfo {
		return
	}
	if zlog != nil {
		z := zlog.Info().Int("status", status).Dur("dur", time.Since(start))
		if rid := middleware.GetReqID(r.Context()); rid != "" {
			z = z.Str("request_id", rid)
		}
		if err != nil {
			z = z.Err(err)
		}
		z.Msg(msg)
		return
	}
	if err != nil {
		log.Printf("%s status=%d dur=%s err=%v", msg, status, time.Since(start), err)
		return
	}
	log.Printf("%s status=%d dur=%s", msg, status, time.Since(start))
}
