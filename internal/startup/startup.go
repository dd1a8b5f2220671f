package startup

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"media-converter/internal/logging"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// Config holds all application configuration. It is captured exactly once
// at process start; nothing reads the environment after LoadConfig returns.
type Config struct {
	Port           string
	MetricsPort    string
	MetricsEnabled bool

	WorkDir         string
	WorkDirMaxBytes int64
	MaxUploadBytes  int64
	ConvertTimeout  time.Duration

	FFmpegPath    string
	FFprobePath   string
	EngineThreads int

	RateLimitRPS   float64
	RateLimitBurst int
	CORSOrigins    []string

	// Resolved binary paths after PATH lookup; empty when discovery failed.
	// The service still starts without the engine, but readiness degrades
	// and every conversion fails until the binary appears on a restart.
	ResolvedFFmpeg  string
	ResolvedFFprobe string
	EngineAvailable bool
	ProberAvailable bool
}

// LoadConfig loads and validates configuration from environment variables
func LoadConfig() (*Config, error) {
	// Optional .env for local development; absence is the normal case
	if err := godotenv.Load(); err == nil {
		logging.Debug("Loaded environment overrides from .env")
	}

	printBanner()
	logSystemInfo()
	configureMemoryLimit()
	logging.Info("")

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	port := getEnv("PORT", "8080")
	metricsPort := getEnv("METRICS_PORT", "9090")
	metricsEnabled := getEnvBool("METRICS_ENABLED", true)
	workDir := getEnv("WORK_DIR", "/work")
	workDirMaxBytes := getEnvInt64("WORK_DIR_MAX_BYTES", 0)
	maxUploadBytes := getEnvInt64("MAX_UPLOAD_BYTES", 512<<20)
	convertTimeoutStr := getEnv("CONVERT_TIMEOUT", "10m")
	ffmpegPath := getEnv("FFMPEG_PATH", "ffmpeg")
	ffprobePath := getEnv("FFPROBE_PATH", "ffprobe")
	engineThreads := getEnvInt("ENGINE_THREADS", 0)
	rateLimitRPS := getEnvFloat("RATE_LIMIT_RPS", 1)
	rateLimitBurst := getEnvInt("RATE_LIMIT_BURST", 5)
	corsOrigins := splitList(getEnv("CORS_ORIGINS", "*"))

	logging.Info("  PORT:              %s", port)
	logging.Info("  METRICS_PORT:      %s", metricsPort)
	logging.Info("  METRICS_ENABLED:   %v", metricsEnabled)
	logging.Info("  WORK_DIR:          %s", workDir)
	logging.Info("  WORK_DIR_MAX_BYTES: %s", workDirBudgetString(workDirMaxBytes))
	logging.Info("  MAX_UPLOAD_BYTES:  %d (%s)", maxUploadBytes, formatBytesStartup(maxUploadBytes))
	logging.Info("  CONVERT_TIMEOUT:   %s", convertTimeoutStr)
	logging.Info("  FFMPEG_PATH:       %s", ffmpegPath)
	logging.Info("  FFPROBE_PATH:      %s", ffprobePath)
	logging.Info("  ENGINE_THREADS:    %d", engineThreads)
	logging.Info("  RATE_LIMIT_RPS:    %g", rateLimitRPS)
	logging.Info("  RATE_LIMIT_BURST:  %d", rateLimitBurst)
	logging.Info("  CORS_ORIGINS:      %s", strings.Join(corsOrigins, ", "))
	logging.Info("  LOG_LEVEL:         %s", logging.GetLevel())

	convertTimeout, err := time.ParseDuration(convertTimeoutStr)
	if err != nil || convertTimeout <= 0 {
		logging.Warn("  Invalid CONVERT_TIMEOUT, using default: 10m")
		convertTimeout = 10 * time.Minute
	}

	if maxUploadBytes <= 0 {
		logging.Warn("  Invalid MAX_UPLOAD_BYTES, using default: 512 MiB")
		maxUploadBytes = 512 << 20
	}

	if workDirMaxBytes < 0 {
		logging.Warn("  Invalid WORK_DIR_MAX_BYTES, capacity guard disabled")
		workDirMaxBytes = 0
	}

	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("WORKING DIRECTORY SETUP")
	logging.Info("------------------------------------------------------------")

	workDir, err = filepath.Abs(workDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory path: %w", err)
	}
	logging.Info("  Working directory (absolute): %s", workDir)

	// Uploads and conversion outputs both land here; without it the
	// service cannot accept a single request
	if err := ensureDirectory(workDir, "working"); err != nil {
		return nil, fmt.Errorf("working directory error: %w", err)
	}

	logging.Debug("  Testing working directory write access...")
	if err := testWriteAccess(workDir); err != nil {
		return nil, fmt.Errorf("working directory is not writable: %w", err)
	}
	logging.Info("  [OK] Working directory is writable")

	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("ENGINE DISCOVERY")
	logging.Info("------------------------------------------------------------")

	resolvedFFmpeg, engineAvailable := discoverBinary(ffmpegPath, "ffmpeg")
	resolvedFFprobe, proberAvailable := discoverBinary(ffprobePath, "ffprobe")

	if !engineAvailable {
		logging.Warn("  Conversions will fail until ffmpeg is installed")
	}
	if !proberAvailable {
		logging.Warn("  Progress percentages and probing are unavailable without ffprobe")
	}

	config := &Config{
		Port:            port,
		MetricsPort:     metricsPort,
		MetricsEnabled:  metricsEnabled,
		WorkDir:         workDir,
		WorkDirMaxBytes: workDirMaxBytes,
		MaxUploadBytes:  maxUploadBytes,
		ConvertTimeout:  convertTimeout,
		FFmpegPath:      ffmpegPath,
		FFprobePath:     ffprobePath,
		EngineThreads:   engineThreads,
		RateLimitRPS:    rateLimitRPS,
		RateLimitBurst:  rateLimitBurst,
		CORSOrigins:     corsOrigins,
		ResolvedFFmpeg:  resolvedFFmpeg,
		ResolvedFFprobe: resolvedFFprobe,
		EngineAvailable: engineAvailable,
		ProberAvailable: proberAvailable,
	}

	logging.Info("")
	logging.Info("  Feature availability:")
	logging.Info("    Conversion engine: %s", enabledString(config.EngineAvailable))
	logging.Info("    Input probing:     %s", enabledString(config.ProberAvailable))
	logging.Info("    Metrics:           %s", enabledString(config.MetricsEnabled))
	logging.Info("    Capacity guard:    %s", enabledString(config.WorkDirMaxBytes > 0))

	return config, nil
}

func discoverBinary(configured, name string) (string, bool) {
	resolved, err := exec.LookPath(configured)
	if err != nil {
		logging.Warn("  %s not found (looked for %q): %v", name, configured, err)
		return "", false
	}
	logging.Info("  [OK] %s: %s", name, resolved)

	if logging.IsDebugEnabled() {
		logBinaryVersion(resolved, name)
	}
	return resolved, true
}

func logBinaryVersion(binary, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	output, err := exec.CommandContext(ctx, binary, "-version").Output()
	if err != nil {
		logging.Debug("  %s -version failed: %v", name, err)
		return
	}
	lines := strings.Split(string(output), "\n")
	if len(lines) > 0 {
		logging.Debug("  %s version: %s", name, strings.TrimSpace(lines[0]))
	}
}

func enabledString(enabled bool) string {
	if enabled {
		return "ENABLED"
	}
	return "DISABLED"
}

// LogPipelineInit logs the assembled conversion pipeline
func LogPipelineInit(formats int, maxUploadBytes int64, timeout time.Duration) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("CONVERSION PIPELINE")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Target formats:   %d", formats)
	logging.Info("  Upload limit:     %s", formatBytesStartup(maxUploadBytes))
	logging.Info("  Job timeout:      %v", timeout)
}

// GetRoutes extracts all registered routes from a mux.Router
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return err
		}

		methods, err := route.GetMethods()
		if err != nil {
			// Route might not have methods specified
			methods = []string{"*"}
		}

		name := route.GetName()

		for _, method := range methods {
			routes = append(routes, RouteInfo{
				Method: method,
				Path:   pathTemplate,
				Name:   name,
			})
		}

		return nil
	})

	return routes, err
}

// LogHTTPRoutes logs all registered HTTP routes dynamically
func LogHTTPRoutes(router *mux.Router) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("HTTP SERVER SETUP")
	logging.Info("------------------------------------------------------------")

	if logging.IsDebugEnabled() {
		routes, err := GetRoutes(router)
		if err != nil {
			logging.Warn("error walking routes: %v", err)
		}

		logging.Debug("  Registered routes (%d total):", len(routes))
		logging.Debug("")

		// Group routes by prefix for cleaner output
		groups := make(map[string][]RouteInfo)
		for _, route := range routes {
			prefix := getRouteGroup(route.Path)
			groups[prefix] = append(groups[prefix], route)
		}

		groupKeys := make([]string, 0, len(groups))
		for k := range groups {
			groupKeys = append(groupKeys, k)
		}
		sort.Strings(groupKeys)

		for _, group := range groupKeys {
			groupRoutes := groups[group]
			if group != "" {
				logging.Debug("  [%s]", group)
			} else {
				logging.Debug("  [root]")
			}

			for _, route := range groupRoutes {
				methodPadded := fmt.Sprintf("%-6s", route.Method)
				logging.Debug("    %s %s", methodPadded, route.Path)
			}
			logging.Debug("")
		}
	}

	logging.Info("  HTTP logging enabled")
}

// getRouteGroup extracts a group name from a route path
func getRouteGroup(path string) string {
	path = strings.TrimPrefix(path, "/")

	parts := strings.SplitN(path, "/", 2)
	if len(parts) == 0 {
		return ""
	}

	first := parts[0]

	if first == "api" && len(parts) > 1 {
		subParts := strings.SplitN(parts[1], "/", 2)
		return "api/" + subParts[0]
	}

	return first
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs successful server start with all endpoint information
func LogServerStarted(config ServerConfig) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SERVER STARTED")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Startup time:    %v", config.StartupDuration)
	logging.Info("")
	logging.Info("  Endpoints:")
	logging.Info("    Application:   http://0.0.0.0:%s", config.Port)
	logging.Info("    Convert:       POST http://0.0.0.0:%s/api/convert/{format}", config.Port)
	if config.MetricsEnabled {
		logging.Info("    Metrics:       http://0.0.0.0:%s/metrics", config.MetricsPort)
	} else {
		logging.Info("    Metrics:       DISABLED")
	}
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop the server")
	logging.Info("------------------------------------------------------------")
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (received %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

// Helper functions

func printBanner() {
	banner := `
------------------------------------------------------------
    __  ___         ___      ______
   /  |/  /__  ____/ (_)___ _/ ____/___  ____ _   __
  / /|_/ / _ \/ __  / / __ '/ /   / __ \/ __ \ | / /
 / /  / /  __/ /_/ / / /_/ / /___/ /_/ / / / / |/ /
/_/  /_/\___/\__,_/_/\__,_/\____/\____/_/ /_/|___/

------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Info("  (Container CPU limit detected)")
	}

	if logging.IsDebugEnabled() {
		logging.Debug("  Goroutines:      %d", runtime.NumGoroutine())

		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}

		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}
}

func ensureDirectory(path, name string) error {
	logging.Debug("  Checking %s directory: %s", name, path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		logging.Debug("    Directory does not exist, creating...")
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		logging.Debug("    [OK] Created directory: %s", path)
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}

	logging.Debug("    [OK] Directory exists")
	return nil
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write test file %s: %v", testFile, err)
		// Write access itself was confirmed
	}
	return nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func workDirBudgetString(b int64) string {
	if b <= 0 {
		return "unlimited"
	}
	return fmt.Sprintf("%d (%s)", b, formatBytesStartup(b))
}

func formatBytesStartup(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logging.Warn("Invalid integer value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		logging.Warn("Invalid integer value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		logging.Warn("Invalid numeric value for %s: %q, using default: %g", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
