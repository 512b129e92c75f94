package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/NebulaStudio/backend/internal/api/http"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/api/middleware"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/api/ws"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/domain/assistant"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/domain/catalog"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/domain/explorer"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/domain/workspace"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/functions"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/gateway"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/providers/completion"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/providers/http/client"
)

// Gateway modes reported by /health
const (
	ModeLocal  = "local"
	ModeRemote = "remote"
)

const streamPath = "/stream"

// Server wraps the HTTP server and dependencies
type Server struct {
	router  *gin.Engine
	handler http.Handler
	http    *http.Server
	store   *workspace.Store
	tracer  *tracing.Tracer
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
	mode    string
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	mode := ModeLocal
	if cfg.Gateway.Remote() {
		mode = ModeRemote
	}
	logger.Info("Initializing Nebula Studio backend",
		zap.String("addr", cfg.Server.Address()),
		zap.String("gateway_mode", mode),
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := monitoring.NewMetrics(registry)

	tracer := tracing.New("nebula-backend", logger.Component("tracing"))

	cat, err := catalog.Load()
	if err != nil {
		tracer.Close()
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	store := workspace.New().
		WithMetrics(metrics).
		WithLogger(logger.Component("workspace"))

	// The hosted functions always answer from the upstream model; the
	// assistant uses them directly unless a remote gateway is configured.
	upstreamOpts := client.DefaultOptions("upstream")
	upstreamOpts.Timeout = cfg.Upstream.Timeout
	upstreamOpts.Logger = logger.Component("upstream")
	upstream := completion.New(completion.Config{
		BaseURL: cfg.Upstream.URL,
		APIKey:  cfg.Upstream.APIKey,
		Model:   cfg.Upstream.Model,
		Options: upstreamOpts,
	})
	if cfg.Upstream.APIKey == "" {
		logger.Warn("UPSTREAM_API_KEY not set, hosted functions will fail")
	}
	fns := functions.NewService(upstream, logger.Component("functions")).WithMetrics(metrics)

	aggregator := apihttp.NewMetricsAggregator(metrics, store).
		WithBreaker("upstream", upstream.Client())

	var (
		assistGW   gateway.Assist   = fns
		generateGW gateway.Generate = fns
	)
	if mode == ModeRemote {
		gwOpts := client.DefaultOptions("gateway")
		gwOpts.BaseURL = cfg.Gateway.URL
		gwOpts.Token = cfg.Gateway.APIKey
		gwOpts.Timeout = cfg.Gateway.Timeout
		gwOpts.Logger = logger.Component("gateway")
		remote := gateway.NewHTTPClient(gwOpts).WithMetrics(metrics)

		assistGW, generateGW = remote, remote
		aggregator.WithBreaker("gateway", remote.Client())
		logger.Info("Using remote gateway", zap.String("url", cfg.Gateway.URL))
	}

	handlers := apihttp.NewHandlers(apihttp.Deps{
		Store:            store,
		Assistant:        assistant.New(store, assistGW).WithLogger(logger.Component("assistant")),
		Generator:        assistant.NewGenerator(store, generateGW).WithLogger(logger.Component("generator")),
		Catalog:          cat,
		Explorer:         explorer.New(cat, store),
		Staging:          catalog.NewStaging(),
		AssistFunction:   fns,
		GenerateFunction: fns,
		GatewayMode:      mode,
		Logger:           logger.Component("api"),
	})
	wsHandler := ws.NewHandler(store, logger.Component("ws")).WithMetrics(metrics)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(middleware.Recovery(logger.Component("http")))
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.Logger(logger.Component("http")))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		rl := middleware.FromConfig(cfg.RateLimit)
		logger.Info("Rate limiting enabled",
			zap.Int("rps", rl.RequestsPerSecond),
			zap.Int("burst", rl.Burst),
		)
		router.Use(middleware.RateLimit(rl))
	}

	handlers.Register(router)
	router.GET(streamPath, wsHandler.HandleConnection)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	router.GET("/metrics/json", aggregator.GetAggregatedMetrics)

	logger.Info("Server initialized successfully")

	handler := compress(router)
	return &Server{
		router:  router,
		handler: handler,
		http: &http.Server{
			Addr:              cfg.Server.Address(),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		store:   store,
		tracer:  tracer,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
		mode:    mode,
	}, nil
}

// compress gzips responses for clients that accept it. The websocket
// upgrade needs the raw connection and bypasses the gzip writer.
func compress(router http.Handler) http.Handler {
	gz := gzhttp.GzipHandler(router)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == streamPath {
			router.ServeHTTP(w, r)
			return
		}
		gz.ServeHTTP(w, r)
	})
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Store returns the workspace store the server serves
func (s *Server) Store() *workspace.Store {
	return s.store
}

// Mode reports whether assist and generation go to a remote gateway
func (s *Server) Mode() string {
	return s.mode
}

// Run serves HTTP until Shutdown is called
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones and flushes spans and logs
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	err := s.http.Shutdown(ctx)
	if err != nil {
		s.logger.Error("Graceful shutdown failed", zap.Error(err))
	}

	s.tracer.Close()
	_ = s.logger.Sync()

	return err
}
