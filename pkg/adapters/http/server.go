package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/rapidfire"
	"github.com/aretw0/rapidfire/internal/logging"
	"github.com/aretw0/rapidfire/pkg/domain"
	"github.com/go-chi/chi/v5"
)

//go:generate go tool oapi-codegen -package http -generate types,chi-server,spec -o api.gen.go openapi.yaml

// maxBodyBytes caps patch request bodies.
const maxBodyBytes = 64 << 10

// Core is the command surface the HTTP adapter drives. *rapidfire.App satisfies it.
type Core interface {
	GetProject(ctx context.Context) (domain.Project, error)
	PatchSoundVolume(ctx context.Context, patch domain.PatchSoundVolume) (domain.PatchResult, error)
	PatchSoundLooped(ctx context.Context, patch domain.PatchSoundLooped) (domain.PatchResult, error)
	GetVolumeWarning(ctx context.Context) domain.VolumeWarning
	Subscribe(ctx context.Context) (<-chan domain.Event, error)
}

var _ Core = (*rapidfire.App)(nil)

// Server implements ServerInterface on top of a Core.
type Server struct {
	Core   Core
	Logger *slog.Logger
}

// Ensure Server implements ServerInterface
var _ ServerInterface = (*Server)(nil)

// Option configures NewHandler.
type Option func(*handlerConfig)

type handlerConfig struct {
	logger  *slog.Logger
	metrics http.Handler
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *handlerConfig) {
		c.logger = logger
	}
}

// WithMetricsHandler mounts h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(c *handlerConfig) {
		c.metrics = h
	}
}

// NewHandler creates the HTTP handler for core.
func NewHandler(core Core, opts ...Option) http.Handler {
	cfg := handlerConfig{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	server := &Server{Core: core, Logger: cfg.logger.With("component", "http")}
	r := chi.NewRouter()

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(openapiYAML)
	})
	if cfg.metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.metrics)
	}

	handler := HandlerWithOptions(server, ChiServerOptions{
		BaseRouter: r,
		ErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
			writeError(w, http.StatusBadRequest, err)
		},
	})
	return enableCORS(handler)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetProject handles the GET /project request.
func (s *Server) GetProject(w http.ResponseWriter, r *http.Request) {
	project, err := s.Core.GetProject(r.Context())
	if err != nil {
		s.fail(w, "GetProject", err)
		return
	}
	s.writeJSON(w, http.StatusOK, project)
}

// PatchSoundVolume handles the POST /project/sounds/volume request.
func (s *Server) PatchSoundVolume(w http.ResponseWriter, r *http.Request) {
	var body PatchSoundVolumeJSONRequestBody
	if err := s.readBody(r, "PatchSoundVolumeRequest", &body); err != nil {
		s.fail(w, "PatchSoundVolume", err)
		return
	}

	res, err := s.Core.PatchSoundVolume(r.Context(), domain.PatchSoundVolume{
		SceneID: body.SceneId,
		SoundID: body.SoundId,
		Volume:  body.Volume,
	})
	if err != nil {
		s.fail(w, "PatchSoundVolume", err)
		return
	}
	s.writeJSON(w, http.StatusOK, PatchResult{Matched: res.Matched})
}

// PatchSoundLooped handles the POST /project/sounds/looped request.
func (s *Server) PatchSoundLooped(w http.ResponseWriter, r *http.Request) {
	var body PatchSoundLoopedJSONRequestBody
	if err := s.readBody(r, "PatchSoundLoopedRequest", &body); err != nil {
		s.fail(w, "PatchSoundLooped", err)
		return
	}

	res, err := s.Core.PatchSoundLooped(r.Context(), domain.PatchSoundLooped{
		SceneID: body.SceneId,
		SoundID: body.SoundId,
		Looped:  body.Looped,
	})
	if err != nil {
		s.fail(w, "PatchSoundLooped", err)
		return
	}
	s.writeJSON(w, http.StatusOK, PatchResult{Matched: res.Matched})
}

// GetVolumeWarning handles the GET /volume-warning request.
func (s *Server) GetVolumeWarning(w http.ResponseWriter, r *http.Request) {
	warning := s.Core.GetVolumeWarning(r.Context())
	s.writeJSON(w, http.StatusOK, VolumeWarning{IsFull: warning.IsFull})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := loadSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "rapidfire-http",
		"version":     strings.TrimSpace(rapidfire.Version),
		"api_version": apiVersion,
	})
}

// SubscribeEvents handles the GET /events request (SSE).
// Only one stream may be open at a time; a second client gets 409.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request, params SubscribeEventsParams) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, errors.New("streaming not supported"))
		s.Logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	filter := map[domain.EventType]bool{}
	if params.Kinds != nil {
		for _, k := range *params.Kinds {
			switch k {
			case SubscribeEventsParamsKindsProject:
				filter[domain.EventProjectUpdated] = true
			case SubscribeEventsParamsKindsVolumeWarning:
				filter[domain.EventVolumeWarning] = true
			default:
				writeError(w, http.StatusBadRequest, fmt.Errorf("unknown event kind %q", k))
				return
			}
		}
	}

	events, err := s.Core.Subscribe(r.Context())
	if err != nil {
		s.fail(w, "SubscribeEvents", err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	s.Logger.Info("SSE: Subscriber connected", "kinds", params.Kinds)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Info("SSE: Client disconnected")
			return
		case ev, ok := <-events:
			if !ok {
				s.Logger.Info("SSE: Event stream closed")
				return
			}
			if len(filter) > 0 && !filter[ev.Type] {
				continue
			}
			data, err := json.Marshal(ev.Payload())
			if err != nil {
				s.Logger.Error("SSE: Event encode failed", "type", ev.Type, "err", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
			flusher.Flush()
		}
	}
}

func (s *Server) readBody(r *http.Request, schema string, dst any) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return &requestError{msg: "failed to read body", err: err}
	}
	if len(data) > maxBodyBytes {
		return &requestError{msg: "body too large", err: fmt.Errorf("limit is %d bytes", maxBodyBytes)}
	}
	return decodeBody(schema, data, dst)
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.Logger.Error(op+" failed", "err", err)
	} else {
		s.Logger.Warn(op+" rejected", "err", err)
	}
	writeError(w, status, err)
}

func statusFor(err error) int {
	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr), errors.Is(err, domain.ErrVolumeOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSubscriberAttached):
		return http.StatusConflict
	case errors.Is(err, domain.ErrActorStopped),
		errors.Is(err, domain.ErrPersistence),
		errors.Is(err, domain.ErrHubClosed),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("Response encode failed", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Error{Error: err.Error()})
}
