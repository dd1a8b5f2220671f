package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"media-converter/internal/profile"
)

// captureStdout redirects os.Stdout until the returned function is called,
// which restores it and returns everything written in between.
func captureStdout(t *testing.T) func() string {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	return func() string {
		w.Close()
		os.Stdout = old
		return <-done
	}
}

// =============================================================================
// Unit Tests
// =============================================================================

// TestPrintUsage tests that printUsage doesn't panic
func TestPrintUsage(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("printUsage panicked: %v", r)
		}
	}()

	printUsage()
}

// TestShowFormats tests that the formats listing names every profile
func TestShowFormats(t *testing.T) {
	restore := captureStdout(t)
	showFormats()
	out := restore()

	for _, name := range profile.Builtin().Names() {
		if !strings.Contains(out, name) {
			t.Errorf("Expected formats listing to mention %q, got:\n%s", name, out)
		}
	}
}

func TestSanitizeCommand(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Plain command", "convert", "convert"},
		{"With hyphen and underscore", "do-thing_now", "do-thing_now"},
		{"Space replaced", "rm -rf", "rm_-rf"},
		{"Newline replaced", "a\nb", "a_b"},
		{"Shell metacharacters replaced", "x;$(id)", "x___id_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeCommand(tt.input)
			if got != tt.expected {
				t.Errorf("sanitizeCommand(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestResultPath(t *testing.T) {
	tests := []struct {
		name      string
		inputPath string
		ext       string
		expected  string
	}{
		{
			name:      "Different extension",
			inputPath: "/media/clip.mp4",
			ext:       ".mp3",
			expected:  "/media/clip.mp3",
		},
		{
			name:      "Same extension gets converted suffix",
			inputPath: "/media/track.mp3",
			ext:       ".mp3",
			expected:  "/media/track.converted.mp3",
		},
		{
			name:      "No input extension",
			inputPath: "/media/recording",
			ext:       ".wav",
			expected:  "/media/recording.wav",
		},
		{
			name:      "Dotted directory name untouched",
			inputPath: "/media/v1.2/clip.mkv",
			ext:       ".webm",
			expected:  "/media/v1.2/clip.webm",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resultPath(tt.inputPath, tt.ext)
			if got != tt.expected {
				t.Errorf("resultPath(%q, %q) = %q, want %q", tt.inputPath, tt.ext, got, tt.expected)
			}
		})
	}
}

func TestEngineConfigDefaults(t *testing.T) {
	t.Setenv("FFMPEG_PATH", "")
	t.Setenv("FFPROBE_PATH", "")

	config := engineConfig()

	if config.FFmpegPath != "ffmpeg" {
		t.Errorf("Expected default ffmpeg, got %q", config.FFmpegPath)
	}
	if config.FFprobePath != "ffprobe" {
		t.Errorf("Expected default ffprobe, got %q", config.FFprobePath)
	}
	if config.Threads != 0 {
		t.Errorf("Expected zero threads, got %d", config.Threads)
	}
}

func TestEngineConfigOverrides(t *testing.T) {
	t.Setenv("FFMPEG_PATH", "/opt/ffmpeg/bin/ffmpeg")
	t.Setenv("FFPROBE_PATH", "/opt/ffmpeg/bin/ffprobe")

	config := engineConfig()

	if config.FFmpegPath != "/opt/ffmpeg/bin/ffmpeg" {
		t.Errorf("Expected configured ffmpeg path, got %q", config.FFmpegPath)
	}
	if config.FFprobePath != "/opt/ffmpeg/bin/ffprobe" {
		t.Errorf("Expected configured ffprobe path, got %q", config.FFprobePath)
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")

	content := []byte("sample media bytes")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatalf("failed to write source: %v", err)
	}

	if err := copyFile(src, dst); err != nil {
		t.Fatalf("copyFile failed: %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("failed to read destination: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("Expected %q, got %q", content, got)
	}

	// Source must survive a copy
	if _, err := os.Stat(src); err != nil {
		t.Errorf("Expected source to remain, got %v", err)
	}
}

func TestCopyFileMissingSource(t *testing.T) {
	dir := t.TempDir()

	err := copyFile(filepath.Join(dir, "missing.bin"), filepath.Join(dir, "dst.bin"))
	if err == nil {
		t.Fatal("Expected error for missing source")
	}
}

func TestMoveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")

	content := []byte("converted output")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatalf("failed to write source: %v", err)
	}

	if err := moveFile(src, dst); err != nil {
		t.Fatalf("moveFile failed: %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("failed to read destination: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("Expected %q, got %q", content, got)
	}

	// Source must be gone after a move
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Errorf("Expected source to be removed, got %v", err)
	}
}

// =============================================================================
// Integration Tests
// =============================================================================

// TestConvertFileUnknownFormat tests that an unknown target fails before
// touching the filesystem
func TestConvertFileUnknownFormat(t *testing.T) {
	ok := convertFile(context.Background(), "/nonexistent/clip.mp4", "definitely-not-a-format")
	if ok {
		t.Error("Expected convertFile to fail for unknown format")
	}
}

// TestConvertFileMissingInput tests that a missing input fails during staging
func TestConvertFileMissingInput(t *testing.T) {
	t.Setenv("WORK_DIR", t.TempDir())

	ok := convertFile(context.Background(), "/nonexistent/clip.mp4", "mp3")
	if ok {
		t.Error("Expected convertFile to fail for missing input")
	}
}

// TestConvertFileRefusesExistingDestination tests the overwrite guard
func TestConvertFileRefusesExistingDestination(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("WORK_DIR", filepath.Join(dir, "work"))

	input := filepath.Join(dir, "clip.mp4")
	existing := filepath.Join(dir, "clip.mp3")
	for _, path := range []string{input, existing} {
		if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}

	ok := convertFile(context.Background(), input, "mp3")
	if ok {
		t.Error("Expected convertFile to refuse an existing destination")
	}
}

// TestProbeFileMissingBinary tests probe failure with an unavailable analyzer
func TestProbeFileMissingBinary(t *testing.T) {
	t.Setenv("FFPROBE_PATH", "/nonexistent/ffprobe")

	ok := probeFile(context.Background(), "/nonexistent/clip.mp4")
	if ok {
		t.Error("Expected probeFile to fail with a missing analyzer binary")
	}
}
