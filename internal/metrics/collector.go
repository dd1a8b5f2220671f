package metrics

import (
	"time"

	"media-converter/internal/logging"
)

// StatsProvider interface for collecting working-directory stats
type StatsProvider interface {
	GetStats() Stats
}

// Stats holds a snapshot of the conversion working directory
type Stats struct {
	TempFiles int
	TempBytes int64
}

// Collector periodically samples working-directory occupancy into gauges.
// Conversion artifacts are short-lived, so a steadily growing sample means
// cleanup is falling behind.
type Collector struct {
	statsProvider StatsProvider
	interval      time.Duration
	stopChan      chan struct{}
}

// NewCollector creates a new metrics collector
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the metrics collection
func (c *Collector) Stop() {
	close(c.stopChan)
}

func (c *Collector) collectLoop() {
	// Collect immediately on start
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	if c.statsProvider == nil {
		return
	}

	stats := c.statsProvider.GetStats()

	WorkDirFiles.Set(float64(stats.TempFiles))
	WorkDirBytes.Set(float64(stats.TempBytes))

	logging.Debug("Metrics collected: temp_files=%d, temp_bytes=%d",
		stats.TempFiles, stats.TempBytes)
}
