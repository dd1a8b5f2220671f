package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"media-converter/internal/convert"
	"media-converter/internal/diskguard"
	"media-converter/internal/engine"
	"media-converter/internal/handlers"
	"media-converter/internal/logging"
	"media-converter/internal/metrics"
	"media-converter/internal/middleware"
	"media-converter/internal/profile"
	"media-converter/internal/startup"
	"media-converter/internal/tempfile"
	"media-converter/internal/upload"
	"media-converter/internal/workers"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// maxEngineThreads caps auto-sized encoder threads; codec throughput
// flattens well before this point.
const maxEngineThreads = 16

func main() {
	startTime := time.Now()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	// Working directory allocator
	alloc, err := tempfile.NewAllocator(config.WorkDir)
	if err != nil {
		startup.LogFatal("Failed to initialize working directory: %v", err)
	}

	// Conversion profiles
	registry := profile.Builtin()

	// Engine wiring: both execution paths and the prober share one config
	engineConfig := engine.Config{
		FFmpegPath:  config.ResolvedFFmpeg,
		FFprobePath: config.ResolvedFFprobe,
		Threads:     workers.EngineThreads(config.EngineThreads, maxEngineThreads),
	}
	procs := engine.NewProcessRegistry()
	binding := engine.NewBinding(engineConfig, procs)
	runner := engine.NewRunner(engineConfig, procs)
	prober := engine.NewProber(engineConfig)

	// Orchestrator
	orch := convert.New(convert.Config{
		Binding: convert.EngineBinding(binding),
		Runner:  runner,
		Prober:  prober,
		Alloc:   alloc,
		Timeout: config.ConvertTimeout,
	})

	ingestor := upload.NewIngestor(config.MaxUploadBytes)

	startup.LogPipelineInit(len(registry.Names()), config.MaxUploadBytes, config.ConvertTimeout)

	// Pre-populate metric label combinations and publish build info
	metrics.InitializeMetrics(registry.Names())
	build := startup.GetBuildInfo()
	metrics.SetAppInfo(build.Version, build.Commit, build.GoVersion)

	// Scratch space admission control
	guardConfig := diskguard.DefaultConfig()
	guardConfig.LimitBytes = config.WorkDirMaxBytes
	guard := diskguard.NewGuard(alloc, guardConfig)

	// Initialize handlers
	h := handlers.New(ingestor, registry, orch, alloc, procs, config)

	// Setup router
	router := setupRouter(h, config, guard)

	// Log routes dynamically
	startup.LogHTTPRoutes(router)

	// Apply CORS, then compression, metrics, and logging outside it
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: config.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Disposition", "Content-Length"},
	}).Handler(router)

	compressed := middleware.Compression(middleware.DefaultCompressionConfig())(corsHandler)
	measured := middleware.Metrics(middleware.DefaultMetricsConfig())(compressed)
	handler := middleware.Logger(middleware.DefaultLoggingConfig())(measured)

	// Metrics server runs on its own port
	metricsSrv := startMetricsServer(config)

	// Sample working-directory occupancy into gauges
	collector := metrics.NewCollector(workDirStats{alloc}, 30*time.Second)
	collector.Start()

	// Watch scratch space for the admission check on the convert route
	guard.Start()

	// Upload bodies and conversion streams rule out whole-request
	// deadlines; ReadHeaderTimeout still bounds the header exchange.
	srv := &http.Server{
		Addr:              ":" + config.Port,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       0,
		WriteTimeout:      0,
		IdleTimeout:       60 * time.Second,
	}

	// Start graceful shutdown handler
	go handleShutdown(srv, metricsSrv, procs, guard, collector)

	// Start server
	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers, config *startup.Config, guard *diskguard.Guard) *mux.Router {
	r := mux.NewRouter()

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	// Conversion submissions are rate limited per client and refused
	// outright while scratch space is over budget
	rateLimitConfig := middleware.DefaultRateLimitConfig()
	rateLimitConfig.RequestsPerSecond = config.RateLimitRPS
	rateLimitConfig.Burst = config.RateLimitBurst
	limited := middleware.RateLimit(rateLimitConfig)
	guarded := middleware.Capacity(guard)

	api := r.PathPrefix("/api").Subrouter()
	api.Handle("/convert/{format}", limited(guarded(http.HandlerFunc(h.Convert)))).Methods("POST")
	api.HandleFunc("/formats", h.ListFormats).Methods("GET")

	// Service index
	r.PathPrefix("/").HandlerFunc(h.Index).Methods("GET")

	return r
}

// workDirStats adapts the allocator's counters to the metrics collector
type workDirStats struct {
	alloc *tempfile.Allocator
}

func (s workDirStats) GetStats() metrics.Stats {
	files, bytes := s.alloc.Stats()
	return metrics.Stats{TempFiles: files, TempBytes: bytes}
}

func startMetricsServer(config *startup.Config) *http.Server {
	if !config.MetricsEnabled {
		return nil
	}

	m := http.NewServeMux()
	m.Handle("/metrics", promhttp.Handler())
	m.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              ":" + config.MetricsPort,
		Handler:           m,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Error("Metrics server error: %v", err)
		}
	}()

	return srv
}

func handleShutdown(srv, metricsSrv *http.Server, procs *engine.ProcessRegistry, guard *diskguard.Guard, collector *metrics.Collector) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdownStep("Stopping engine processes")
	procs.StopAll()
	startup.LogShutdownStepComplete("Engine processes stopped")

	startup.LogShutdownStep("Stopping capacity guard")
	guard.Stop()
	startup.LogShutdownStepComplete("Capacity guard stopped")

	startup.LogShutdownStep("Stopping metrics collector")
	collector.Stop()
	startup.LogShutdownStepComplete("Metrics collector stopped")

	if metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownComplete()
}
