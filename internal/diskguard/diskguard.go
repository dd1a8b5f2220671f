package diskguard

import (
	"sync"
	"time"

	"media-converter/internal/logging"
	"media-converter/internal/metrics"
)

// Config holds capacity guard configuration
type Config struct {
	// LimitBytes is the working directory budget (0 = guard disabled)
	LimitBytes int64

	// HighWaterMark is the fraction of the budget below which a paused
	// guard resumes admitting work (0.0-1.0)
	HighWaterMark float64

	// CriticalWaterMark is the fraction of the budget at which new work
	// is refused entirely (0.0-1.0)
	CriticalWaterMark float64

	// CheckInterval is how often usage is sampled
	CheckInterval time.Duration
}

// DefaultConfig returns sensible defaults for the capacity guard
func DefaultConfig() Config {
	return Config{
		LimitBytes:        0,
		HighWaterMark:     0.75,
		CriticalWaterMark: 0.9,
		CheckInterval:     5 * time.Second,
	}
}

// StatsSource reports current working directory usage. The tempfile
// allocator satisfies this.
type StatsSource interface {
	Stats() (files int, bytes int64)
}

// Guard samples working directory usage and refuses new conversions while
// the directory is over its critical watermark. A conversion can need
// several times its input size in scratch space, so admission stops well
// before the disk is actually full.
type Guard struct {
	config   Config
	limit    int64
	source   StatsSource
	stopChan chan struct{}

	mu       sync.RWMutex
	current  int64
	isPaused bool
}

// NewGuard creates a capacity guard over the given usage source
func NewGuard(source StatsSource, config Config) *Guard {
	if config.LimitBytes <= 0 {
		logging.Info("Capacity guard: no working directory limit configured, admission control disabled")
	}

	return &Guard{
		config:   config,
		limit:    config.LimitBytes,
		source:   source,
		stopChan: make(chan struct{}),
	}
}

// Start begins sampling working directory usage
func (g *Guard) Start() {
	if g.limit <= 0 {
		return // No budget configured, nothing to watch
	}

	go g.watchLoop()
}

// Stop stops the guard
func (g *Guard) Stop() {
	close(g.stopChan)
}

func (g *Guard) watchLoop() {
	ticker := time.NewTicker(g.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.checkUsage()
		case <-g.stopChan:
			return
		}
	}
}

func (g *Guard) checkUsage() {
	files, bytes := g.source.Stats()

	g.mu.Lock()
	g.current = bytes

	usage := float64(bytes) / float64(g.limit)
	metrics.WorkDirUsageRatio.Set(usage)

	if usage >= g.config.CriticalWaterMark {
		if !g.isPaused {
			logging.Warn("Working directory at %.1f%% of %d byte budget (%d files), refusing new conversions", usage*100, g.limit, files)
			g.isPaused = true
			metrics.WorkDirPaused.Set(1)
		}
	} else if usage < g.config.HighWaterMark {
		if g.isPaused {
			logging.Info("Working directory back to %.1f%% of budget, admitting conversions again", usage*100)
			g.isPaused = false
			metrics.WorkDirPaused.Set(0)
		}
	}
	g.mu.Unlock()
}

// Admit reports whether a new conversion may start. It never blocks;
// callers reject the request and let the client retry.
func (g *Guard) Admit() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return !g.isPaused
}

// IsPaused reports whether admission is currently suspended
func (g *Guard) IsPaused() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.isPaused
}

// Usage returns current working directory usage as a fraction of the
// budget (0.0-1.0). Returns 0 when no budget is configured.
func (g *Guard) Usage() float64 {
	if g.limit <= 0 {
		return 0
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	return float64(g.current) / float64(g.limit)
}

// RetryAfter returns how long a rejected client should wait before
// retrying. Usage is sampled once per interval, so sooner retries
// cannot observe a different answer.
func (g *Guard) RetryAfter() time.Duration {
	return g.config.CheckInterval
}
