package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/handiism/ytdl-playlist/internal/config"
	"github.com/handiism/ytdl-playlist/internal/extractor"
	"github.com/handiism/ytdl-playlist/internal/model"
	"github.com/handiism/ytdl-playlist/internal/playlist"
	"github.com/handiism/ytdl-playlist/internal/resolve"
	"golang.org/x/time/rate"
)

// Resolver is the part of resolve.Manager the server depends on.
type Resolver interface {
	Probe(ctx context.Context, rawURL string) (bool, error)
	Resolve(ctx context.Context, rawURL string) ([]*model.Item, error)
}

// Server exposes probing and playlist resolution over HTTP.
//
// Routes:
//
//	GET /healthz                      liveness, always 200 "ok"
//	GET /probe?url=<page>             {"url": ..., "handled": true|false}
//	GET /playlist?url=<page>&format=  playlist in the requested format
//	GET /playlist.<ext>?url=<page>    same, format taken from the extension
//
// Probe and playlist requests share one token bucket; excess requests get
// 429 Too Many Requests.
type Server struct {
	resolver      Resolver
	limiter       *rate.Limiter
	logger        *slog.Logger
	defaultFormat model.PlaylistFormat
	extended      bool
}

// NewServer creates a Server. The request rate and default playlist format
// come from settings.
func NewServer(resolver Resolver, settings *config.Settings, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	perMinute := settings.ServerRequestsPerMinute
	if perMinute <= 0 {
		perMinute = 1
	}

	return &Server{
		resolver:      resolver,
		limiter:       rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
		logger:        logger,
		defaultFormat: settings.ToPlaylistFormat(),
		extended:      settings.M3UExtended,
	}
}

// Handler returns the router serving all routes.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet, http.MethodHead)

	r.Handle("/probe", s.rateLimit(http.HandlerFunc(s.handleProbe))).Methods(http.MethodGet)
	r.Handle("/playlist", s.rateLimit(http.HandlerFunc(s.handlePlaylist))).Methods(http.MethodGet)
	r.Handle("/playlist.{ext:m3u|pls|xspf|json}", s.rateLimit(http.HandlerFunc(s.handlePlaylist))).Methods(http.MethodGet)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}

func (s *Server) handleProbe(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	if target == "" {
		writeError(w, http.StatusBadRequest, "missing url parameter")
		return
	}

	handled, err := s.resolver.Probe(r.Context(), target)
	if err != nil {
		s.logger.Warn("probe failed", "url", target, "err", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"url":     target,
		"handled": handled,
	})
}

func (s *Server) handlePlaylist(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	if target == "" {
		writeError(w, http.StatusBadRequest, "missing url parameter")
		return
	}

	format := s.defaultFormat
	if ext := mux.Vars(r)["ext"]; ext != "" {
		format = model.ParsePlaylistFormat(ext)
	} else if name := r.URL.Query().Get("format"); name != "" {
		format = model.ParsePlaylistFormat(name)
	}

	items, err := s.resolver.Resolve(r.Context(), target)
	if err != nil {
		status := statusFor(err)
		s.logger.Warn("resolve failed", "url", target, "status", status, "err", err)
		writeError(w, status, err.Error())
		return
	}

	content, err := playlist.NewPlaylistCreator(format, s.extended).CreatePlaylist(items)
	if err != nil {
		s.logger.Error("rendering playlist failed", "url", target, "format", format, "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=\"playlist%s\"", format.Extension()))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(content))
}

// statusFor maps resolution errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, resolve.ErrNotHandled):
		return http.StatusUnprocessableEntity
	case errors.Is(err, extractor.ErrUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
