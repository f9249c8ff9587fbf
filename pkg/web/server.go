package web

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/jakechorley/cup-volunteers/pkg/core/model"
	"github.com/jakechorley/cup-volunteers/pkg/core/signups"
	"github.com/jakechorley/cup-volunteers/pkg/metrics"
)

// Options configures the web surface
type Options struct {
	AdminPasscode      string
	AdminPasscodeHash  string // bcrypt; takes precedence over AdminPasscode
	BaseURL            string
	CSRFKey            []byte // CSRF protection is off when empty
	TrustedOrigins     []string
	RateLimitPerMinute int // 0 disables rate limiting
	FlowTTL            time.Duration
	Metrics            *metrics.Collector
	Gatherer           prometheus.Gatherer // /metrics is only mounted when set
}

// Server serves the sign-up page and its JSON endpoints
type Server struct {
	session *signups.Session
	event   model.Event
	opts    Options
	logger  *zap.Logger
	flows   *FlowStore
	limiter *RateLimiter
	tpl     *template.Template
	secure  bool
}

// NewServer builds the server. Call Close to stop its background sweeps.
func NewServer(session *signups.Session, event model.Event, opts Options, logger *zap.Logger) (*Server, error) {
	tpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	if opts.FlowTTL <= 0 {
		opts.FlowTTL = 2 * time.Hour
	}

	s := &Server{
		session: session,
		event:   event,
		opts:    opts,
		logger:  logger,
		flows:   NewFlowStore(opts.FlowTTL),
		tpl:     tpl,
		secure:  strings.HasPrefix(opts.BaseURL, "https://"),
	}
	if opts.RateLimitPerMinute > 0 {
		s.limiter = NewRateLimiter(opts.RateLimitPerMinute, logger)
	}
	if opts.BaseURL == "" {
		logger.Warn("server.baseURL is not set, share links will use the request Host header and scheme")
	}
	return s, nil
}

// Close stops the flow sweep and the rate limiter cleanup
func (s *Server) Close() {
	s.flows.Stop()
	if s.limiter != nil {
		s.limiter.Stop()
	}
}

// Handler returns the router with the full middleware stack
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(recovery(s.logger))
	r.Use(securityHeaders)
	if len(s.opts.CSRFKey) > 0 {
		r.Use(csrfProtection(s.opts.CSRFKey, s.secure, s.opts.TrustedOrigins, s.logger))
	}

	r.Get("/", s.handlePage)
	r.Get("/calendar/{day}.ics", s.handleCalendar)
	r.Get("/api/occupancy", s.handleOccupancy)
	r.Get("/healthz", handleHealth)
	if s.opts.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(s.opts.Gatherer))
	}

	r.Group(func(r chi.Router) {
		if s.limiter != nil {
			r.Use(s.limiter.Middleware)
		}
		r.Use(limitBody(maxFormBytes))

		r.Post("/days/{day}/toggle", s.handleToggleDay)
		r.Post("/signup", s.handleSignup)
		r.Post("/signup/another", s.handleSignUpAnother)
		r.Post("/admin", s.handleEnterAdmin)
		r.Post("/admin/back", s.handleAdminBack)
		r.Post("/admin/days/{day}/volunteers/{id}/remove", s.handleRemoveVolunteer)
		r.Post("/admin/clear", s.handleClearAll)
	})

	return r
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
