// Package api serves lookups, reports and batch runs over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/role-scout/internal/batch"
	"github.com/sells-group/role-scout/internal/cache"
	"github.com/sells-group/role-scout/internal/model"
)

// Lookuper resolves a single (company, role) pair.
type Lookuper interface {
	Run(ctx context.Context, company, role string) model.LookupResult
}

// Options configures a Server.
type Options struct {
	AllowedOrigins []string
	// DownloadTTL bounds how long batch downloads stay available.
	DownloadTTL time.Duration
	// MaxUploadBytes caps batch request bodies.
	MaxUploadBytes int64
}

// Server holds the HTTP handlers. Downloads is optional; without it batch
// responses carry no download tokens.
type Server struct {
	lookup    Lookuper
	batch     *batch.Runner
	downloads *Downloads
	opts      Options
}

// New creates a Server.
func New(l Lookuper, runner *batch.Runner, store cache.Store, opts Options) *Server {
	if opts.DownloadTTL <= 0 {
		opts.DownloadTTL = time.Hour
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	s := &Server{lookup: l, batch: runner, opts: opts}
	if store != nil {
		s.downloads = NewDownloads(store, opts.DownloadTTL)
	}
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Post("/lookup", s.handleLookup)
	r.Post("/report", s.handleReport)
	r.Post("/batch", s.handleBatch)
	r.Get("/downloads/{token}", s.handleDownload)
	return r
}

// requestLogger logs each request's method, path, status and duration.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Info("request",
			zap.String("method", r.Method),
			zap.String("uri", r.URL.RequestURI()),
			zap.Int("status", ww.Status()),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Debug("api: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
