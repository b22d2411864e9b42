// Package api exposes a buyer session over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/sourcing-cli/internal/monitoring"
	"github.com/sells-group/sourcing-cli/internal/session"
)

// Server serves one session.
type Server struct {
	session  *session.Session
	recorder *monitoring.Recorder
	origins  []string
}

// Option configures a Server.
type Option func(*Server)

// WithRecorder exposes rec on /metrics.
func WithRecorder(rec *monitoring.Recorder) Option {
	return func(s *Server) { s.recorder = rec }
}

// WithAllowedOrigins sets the CORS origins. The default allows any origin.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.origins = origins
		}
	}
}

// NewServer creates a Server for sess.
func NewServer(sess *session.Session, opts ...Option) *Server {
	s := &Server{session: sess, origins: []string{"*"}}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Router builds the route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization"},
		MaxAge:         300,
	}))
	r.Use(requestLogger)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.recorder != nil {
		r.Handle("/metrics", s.recorder.Handler())
	}

	r.Route("/api", func(api chi.Router) {
		api.Get("/profile", s.getProfile)
		api.Put("/profile", s.putProfile)

		api.Get("/suppliers", s.listSuppliers)
		api.Post("/suppliers/{id}/analyze", s.analyzeSupplier)
		api.Get("/overview", s.overview)

		api.Get("/selection", s.getSelection)
		api.Put("/selection", s.putSelection)

		api.Get("/recommendations", s.recommendations)
		api.Get("/compare", s.compare)
		api.Get("/compare/selection", s.getComparisonSelection)
		api.Post("/compare/selection/{country}", s.toggleCountry)

		api.Get("/history", s.listHistory)
		api.Delete("/history", s.clearHistory)
		api.Delete("/history/{id}", s.deleteHistory)

		api.Get("/materials/{material}", s.materials)
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Debug("api: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", chimw.GetReqID(r.Context())),
		)
	})
}
