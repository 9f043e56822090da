package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	apimw "github.com/hamed0406/apihealth/internal/httpapi/middleware"
	"github.com/hamed0406/apihealth/internal/monitor"
)

type Server struct {
	Logger  *zap.Logger
	Monitor *monitor.Service
}

// Options tune the router's outer layers.
type Options struct {
	AllowedOrigins []string // empty allows any origin
	RateLimitRPM   int      // applies to routes that trigger a probe; 0 disables
	RateLimitBurst int
	TrustProxy     bool // take the client address from X-Forwarded-For / X-Real-IP
}

func NewServer(l *zap.Logger, m *monitor.Service) *Server {
	return &Server{Logger: l, Monitor: m}
}

func (s *Server) Router(opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if opts.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(apimw.RequestLog(s.Logger))
	r.Use(chimw.Recoverer)
	r.Use(corsHandler(opts.AllowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// ?url= triggers an outbound probe, so these are rate limited
	r.Group(func(r chi.Router) {
		r.Use(apimw.RateLimit(opts.RateLimitRPM, opts.RateLimitBurst))
		r.Get("/", s.handleHome)
		r.Get("/api/checks", s.handleHome)
	})

	r.Get("/history", s.handleHistory)
	r.Get("/api/history", s.handleHistory)
	r.Get("/api/uptime", s.handleUptime)
	r.Get("/api/endpoints", s.handleEndpoints)

	return r
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		return cors.AllowAll().Handler
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	d, err := s.Monitor.Home(r.Context(), r.URL.Query().Get("url"))
	if err != nil {
		s.fail(w, r, "home_error", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	h, err := s.Monitor.History(r.Context(), r.URL.Query().Get("url"))
	if err != nil {
		s.fail(w, r, "history_error", err)
		return
	}
	writeJSON(w, http.StatusOK, h)
}

func (s *Server) handleUptime(w http.ResponseWriter, r *http.Request) {
	stats, err := s.Monitor.Uptime(r.Context())
	if err != nil {
		s.fail(w, r, "uptime_error", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleEndpoints(w http.ResponseWriter, r *http.Request) {
	eps, err := s.Monitor.Endpoints.ListEndpoints(r.Context())
	if err != nil {
		s.fail(w, r, "endpoints_error", err)
		return
	}
	writeJSON(w, http.StatusOK, eps)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, event string, err error) {
	s.Logger.Error(event,
		zap.String("request_id", chimw.GetReqID(r.Context())),
		zap.Error(err),
	)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
