package startup

import (
	"math"
	"os"
	"runtime/debug"
	"testing"
)

// withRestoredMemoryLimit snapshots the process memory limit and restores
// it when the test finishes. configureMemoryLimit mutates runtime state.
func withRestoredMemoryLimit(t *testing.T) {
	t.Helper()
	prior := debug.SetMemoryLimit(-1)
	t.Cleanup(func() {
		debug.SetMemoryLimit(prior)
	})
}

// unsetEnvForTest removes an environment variable for the duration of a
// test, restoring any prior value afterwards
func unsetEnvForTest(t *testing.T, key string) {
	t.Helper()
	if value, ok := os.LookupEnv(key); ok {
		os.Unsetenv(key)
		t.Cleanup(func() {
			os.Setenv(key, value)
		})
	}
}

func TestConfigureMemoryLimitUnset(t *testing.T) {
	withRestoredMemoryLimit(t)
	unsetEnvForTest(t, "GOMEMLIMIT")
	unsetEnvForTest(t, "MEMORY_LIMIT")
	unsetEnvForTest(t, "MEMORY_RATIO")

	result := configureMemoryLimit()

	if result.configured {
		t.Error("Expected no configuration without GOMEMLIMIT or MEMORY_LIMIT")
	}

	if result.source != "none" {
		t.Errorf("Expected source none, got %q", result.source)
	}
}

func TestConfigureMemoryLimitFromContainerLimit(t *testing.T) {
	withRestoredMemoryLimit(t)
	unsetEnvForTest(t, "GOMEMLIMIT")
	unsetEnvForTest(t, "MEMORY_RATIO")
	t.Setenv("MEMORY_LIMIT", "1073741824") // 1 GiB

	result := configureMemoryLimit()

	if !result.configured {
		t.Fatal("Expected GOMEMLIMIT to be configured from MEMORY_LIMIT")
	}

	if result.source != "MEMORY_LIMIT" {
		t.Errorf("Expected source MEMORY_LIMIT, got %q", result.source)
	}

	if result.containerLimit != 1073741824 {
		t.Errorf("Expected container limit 1073741824, got %d", result.containerLimit)
	}

	// Default ratio gives the heap half the container
	if result.heapLimit != 536870912 {
		t.Errorf("Expected heap limit 536870912, got %d", result.heapLimit)
	}

	if applied := debug.SetMemoryLimit(-1); applied != result.heapLimit {
		t.Errorf("Expected runtime limit %d, got %d", result.heapLimit, applied)
	}
}

func TestConfigureMemoryLimitCustomRatio(t *testing.T) {
	withRestoredMemoryLimit(t)
	unsetEnvForTest(t, "GOMEMLIMIT")
	t.Setenv("MEMORY_LIMIT", "1000000000")
	t.Setenv("MEMORY_RATIO", "0.75")

	result := configureMemoryLimit()

	if !result.configured {
		t.Fatal("Expected GOMEMLIMIT to be configured")
	}

	if result.ratio != 0.75 {
		t.Errorf("Expected ratio 0.75, got %f", result.ratio)
	}

	if result.heapLimit != 750000000 {
		t.Errorf("Expected heap limit 750000000, got %d", result.heapLimit)
	}
}

func TestConfigureMemoryLimitBadRatio(t *testing.T) {
	tests := []struct {
		name  string
		ratio string
	}{
		{"Above one", "1.5"},
		{"Negative", "-0.1"},
		{"Zero", "0"},
		{"Not a number", "half"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withRestoredMemoryLimit(t)
			unsetEnvForTest(t, "GOMEMLIMIT")
			t.Setenv("MEMORY_LIMIT", "1000000000")
			t.Setenv("MEMORY_RATIO", tt.ratio)

			result := configureMemoryLimit()

			if !result.configured {
				t.Fatal("Expected a bad ratio to fall back to the default, not disable the limit")
			}

			if result.ratio != defaultMemoryRatio {
				t.Errorf("Expected default ratio %f, got %f", defaultMemoryRatio, result.ratio)
			}

			if result.heapLimit != 500000000 {
				t.Errorf("Expected heap limit 500000000, got %d", result.heapLimit)
			}
		})
	}
}

func TestConfigureMemoryLimitInvalidContainerLimit(t *testing.T) {
	withRestoredMemoryLimit(t)
	unsetEnvForTest(t, "GOMEMLIMIT")
	unsetEnvForTest(t, "MEMORY_RATIO")
	t.Setenv("MEMORY_LIMIT", "not-a-number")

	before := debug.SetMemoryLimit(-1)
	result := configureMemoryLimit()

	if result.configured {
		t.Error("Expected an unparseable MEMORY_LIMIT to leave GOMEMLIMIT unconfigured")
	}

	if after := debug.SetMemoryLimit(-1); after != before {
		t.Errorf("Expected runtime limit unchanged at %d, got %d", before, after)
	}
}

func TestConfigureMemoryLimitExplicitGoMemLimit(t *testing.T) {
	withRestoredMemoryLimit(t)

	// Simulate a runtime-applied GOMEMLIMIT; the env var alone does not
	// change the limit mid-process
	debug.SetMemoryLimit(987654321)
	t.Setenv("GOMEMLIMIT", "987654321")
	t.Setenv("MEMORY_LIMIT", "1000000000")

	result := configureMemoryLimit()

	if !result.configured {
		t.Fatal("Expected an explicit GOMEMLIMIT to be reported as configured")
	}

	if result.source != "GOMEMLIMIT" {
		t.Errorf("Expected source GOMEMLIMIT, got %q", result.source)
	}

	if result.heapLimit != 987654321 {
		t.Errorf("Expected heap limit 987654321, got %d", result.heapLimit)
	}

	// MEMORY_LIMIT must not be consulted when GOMEMLIMIT wins
	if result.containerLimit != 0 {
		t.Errorf("Expected container limit 0, got %d", result.containerLimit)
	}
}

func TestConfigureMemoryLimitNoRuntimeLimit(t *testing.T) {
	withRestoredMemoryLimit(t)

	// GOMEMLIMIT set in the environment but no limit actually applied
	debug.SetMemoryLimit(math.MaxInt64)
	t.Setenv("GOMEMLIMIT", "1GiB")

	result := configureMemoryLimit()

	if result.configured {
		t.Error("Expected unconfigured result when the runtime reports no limit")
	}
}

func TestWorkDirBudgetString(t *testing.T) {
	tests := []struct {
		name     string
		bytes    int64
		expected string
	}{
		{"Zero is unlimited", 0, "unlimited"},
		{"Negative is unlimited", -1, "unlimited"},
		{"One KiB", 1024, "1024 (1.0 KiB)"},
		{"Eight GiB", 8 << 30, "8589934592 (8.0 GiB)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := workDirBudgetString(tt.bytes)
			if got != tt.expected {
				t.Errorf("workDirBudgetString(%d) = %q, want %q", tt.bytes, got, tt.expected)
			}
		})
	}
}
