package diskguard

import (
	"sync"
	"testing"
	"time"
)

// fakeSource is a StatsSource with settable usage
type fakeSource struct {
	mu    sync.Mutex
	files int
	bytes int64
}

func (f *fakeSource) Stats() (int, int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.files, f.bytes
}

func (f *fakeSource) set(files int, bytes int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files = files
	f.bytes = bytes
}

func TestNewGuard(t *testing.T) {
	t.Run("With explicit limit", func(t *testing.T) {
		config := Config{
			LimitBytes:        1000,
			HighWaterMark:     0.75,
			CriticalWaterMark: 0.9,
			CheckInterval:     5 * time.Second,
		}

		guard := NewGuard(&fakeSource{}, config)
		if guard == nil {
			t.Fatal("NewGuard returned nil")
		}

		if guard.limit != config.LimitBytes {
			t.Errorf("Expected limit %d, got %d", config.LimitBytes, guard.limit)
		}

		if !guard.Admit() {
			t.Error("Expected a fresh guard to admit work")
		}
	})

	t.Run("Without limit", func(t *testing.T) {
		guard := NewGuard(&fakeSource{bytes: 1 << 40}, DefaultConfig())
		if guard == nil {
			t.Fatal("NewGuard returned nil")
		}

		if !guard.Admit() {
			t.Error("Expected an unlimited guard to admit work")
		}

		if usage := guard.Usage(); usage != 0 {
			t.Errorf("Expected usage 0 without a limit, got %f", usage)
		}
	})
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.LimitBytes != 0 {
		t.Errorf("Expected guard disabled by default, got limit %d", config.LimitBytes)
	}

	if config.HighWaterMark >= config.CriticalWaterMark {
		t.Errorf("Expected high watermark %f below critical watermark %f",
			config.HighWaterMark, config.CriticalWaterMark)
	}

	if config.CheckInterval <= 0 {
		t.Errorf("Expected positive check interval, got %v", config.CheckInterval)
	}
}

func TestGuardStartStop(_ *testing.T) {
	source := &fakeSource{files: 1, bytes: 100}
	guard := NewGuard(source, Config{
		LimitBytes:        1000,
		HighWaterMark:     0.75,
		CriticalWaterMark: 0.9,
		CheckInterval:     10 * time.Millisecond,
	})

	guard.Start()

	// Let it sample a few times
	time.Sleep(50 * time.Millisecond)

	// Stop should not panic
	guard.Stop()

	// Give the goroutine time to exit
	time.Sleep(20 * time.Millisecond)
}

func TestGuardStopWithoutLimit(_ *testing.T) {
	guard := NewGuard(&fakeSource{}, DefaultConfig())

	// Start is a no-op without a budget; Stop must still be safe
	guard.Start()
	guard.Stop()
}

func TestGuardPausesAboveCritical(t *testing.T) {
	source := &fakeSource{}
	guard := NewGuard(source, Config{
		LimitBytes:        1000,
		HighWaterMark:     0.75,
		CriticalWaterMark: 0.9,
		CheckInterval:     time.Hour,
	})

	source.set(3, 950)
	guard.checkUsage()

	if !guard.IsPaused() {
		t.Error("Expected guard to pause at 95% of budget")
	}

	if guard.Admit() {
		t.Error("Expected Admit to refuse while paused")
	}

	if usage := guard.Usage(); usage != 0.95 {
		t.Errorf("Expected usage 0.95, got %f", usage)
	}
}

func TestGuardHysteresis(t *testing.T) {
	source := &fakeSource{}
	guard := NewGuard(source, Config{
		LimitBytes:        1000,
		HighWaterMark:     0.75,
		CriticalWaterMark: 0.9,
		CheckInterval:     time.Hour,
	})

	// Cross the critical watermark
	source.set(3, 950)
	guard.checkUsage()
	if !guard.IsPaused() {
		t.Fatal("Expected guard to pause at 95% of budget")
	}

	// Dropping into the hysteresis band must not resume
	source.set(2, 800)
	guard.checkUsage()
	if !guard.IsPaused() {
		t.Error("Expected guard to stay paused at 80%, inside the hysteresis band")
	}

	// Dropping below the high watermark resumes admission
	source.set(1, 700)
	guard.checkUsage()
	if guard.IsPaused() {
		t.Error("Expected guard to resume below the high watermark")
	}

	if !guard.Admit() {
		t.Error("Expected Admit to allow work after resuming")
	}
}

func TestGuardStaysResumedBelowCritical(t *testing.T) {
	source := &fakeSource{}
	guard := NewGuard(source, Config{
		LimitBytes:        1000,
		HighWaterMark:     0.75,
		CriticalWaterMark: 0.9,
		CheckInterval:     time.Hour,
	})

	// Usage inside the band on the way up must not pause
	source.set(2, 800)
	guard.checkUsage()

	if guard.IsPaused() {
		t.Error("Expected guard to stay admitting at 80%, below the critical watermark")
	}
}

func TestGuardRetryAfter(t *testing.T) {
	interval := 7 * time.Second
	guard := NewGuard(&fakeSource{}, Config{
		LimitBytes:        1000,
		HighWaterMark:     0.75,
		CriticalWaterMark: 0.9,
		CheckInterval:     interval,
	})

	if got := guard.RetryAfter(); got != interval {
		t.Errorf("Expected retry-after %v, got %v", interval, got)
	}
}

func TestGuardConcurrentAdmit(t *testing.T) {
	source := &fakeSource{}
	guard := NewGuard(source, Config{
		LimitBytes:        1000,
		HighWaterMark:     0.75,
		CriticalWaterMark: 0.9,
		CheckInterval:     time.Hour,
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			source.set(n, int64(n)*150)
			guard.checkUsage()
			guard.Admit()
		}(i)
	}
	wg.Wait()

	// 9*150 = 1350 bytes was the highest possible sample; whatever order the
	// goroutines ran in, the guard must hold a consistent final state
	if guard.IsPaused() != !guard.Admit() {
		t.Error("Expected IsPaused and Admit to agree")
	}
}
