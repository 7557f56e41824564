package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dd0wney/linkscope/pkg/config"
	"github.com/dd0wney/linkscope/pkg/impact"
	"github.com/dd0wney/linkscope/pkg/logging"
	"github.com/dd0wney/linkscope/pkg/metrics"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// validate is a singleton validator for request bodies.
var validate = validator.New()

// Server is the HTTP surface over the path engine and impact analyzer.
type Server struct {
	cfg       config.Config
	logger    logging.Logger
	metrics   *metrics.Registry
	promReg   *prometheus.Registry
	analyzer  *impact.Analyzer
	startTime time.Time
}

// NewServer wires the engine components behind an HTTP API.
func NewServer(cfg config.Config, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	promReg := prometheus.NewRegistry()
	reg := metrics.NewRegistry(promReg)

	return &Server{
		cfg:     cfg,
		logger:  logger.With(logging.Component("api")),
		metrics: reg,
		promReg: promReg,
		analyzer: impact.NewAnalyzer(impact.Options{
			Workers: cfg.Analysis.Workers,
			Logger:  logger,
			Metrics: reg,
		}),
		startTime: time.Now(),
	}
}

// Routes builds the handler with the middleware chain applied.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(s.promReg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/paths", s.handlePaths)
	mux.HandleFunc("/impact", s.handleImpact)

	return s.loggingMiddleware(s.corsMiddleware(mux))
}

// Start runs the HTTP server until it fails or the listener closes.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	s.logger.Info("api server starting", logging.String("addr", addr))

	server := &http.Server{
		Addr:         addr,
		Handler:      s.Routes(),
		ReadTimeout:  s.cfg.Server.ReadTimeout.Std(),
		WriteTimeout: s.cfg.Server.WriteTimeout.Std(),
		IdleTimeout:  s.cfg.Server.IdleTimeout.Std(),
	}
	return server.ListenAndServe()
}
