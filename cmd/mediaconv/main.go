package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"media-converter/internal/convert"
	"media-converter/internal/engine"
	"media-converter/internal/profile"
	"media-converter/internal/tempfile"
)

const (
	// Default timeout for a local conversion
	defaultTimeout = 30 * time.Minute
	// Default timeout for probing a file
	probeTimeout = 30 * time.Second
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	// Create a context that cancels on interrupt signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted, shutting down...")
		cancel()
	}()

	switch command {
	case "formats":
		showFormats()
	case "probe":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: mediaconv probe <file>")
			os.Exit(1)
		}
		if !probeFile(ctx, os.Args[2]) {
			os.Exit(1)
		}
	case "convert":
		if len(os.Args) < 4 {
			fmt.Fprintln(os.Stderr, "Usage: mediaconv convert <file> <format>")
			os.Exit(1)
		}
		if !convertFile(ctx, os.Args[2], os.Args[3]) {
			os.Exit(1)
		}
	default:
		// Sanitize command input using allowlist to break taint chain
		sanitized := sanitizeCommand(command)
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", sanitized) //nolint:gosec // G705 - input is sanitized via allowlist in sanitizeCommand; only [a-zA-Z0-9_-] characters pass through
		printUsage()
		os.Exit(1)
	}
}

// sanitizeCommand returns a safe representation of a command string for display.
// It uses an allowlist approach, replacing any character that is not alphanumeric,
// a hyphen, or an underscore with '_'.
func sanitizeCommand(cmd string) string {
	var b strings.Builder
	b.Grow(len(cmd))
	for _, r := range cmd {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

func printUsage() {
	fmt.Println("Media Converter CLI")
	fmt.Println("")
	fmt.Println("Usage: mediaconv <command> [arguments]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  formats                  - List supported conversion targets")
	fmt.Println("  probe <file>             - Analyze a media file")
	fmt.Println("  convert <file> <format>  - Convert a file, writing the result next to it")
	fmt.Println("")
	fmt.Println("Environment:")
	fmt.Println("  FFMPEG_PATH     - Conversion engine binary (default: ffmpeg)")
	fmt.Println("  FFPROBE_PATH    - Analyzer binary (default: ffprobe)")
	fmt.Println("  WORK_DIR        - Scratch directory (default: under the system temp dir)")
	fmt.Printf("  CONVERT_TIMEOUT - Conversion deadline (default: %s)\n", defaultTimeout)
}

// engineConfig builds the engine configuration from the environment.
// Threads stays zero: on an interactive host the engine's own sizing is fine.
func engineConfig() engine.Config {
	ffmpeg := os.Getenv("FFMPEG_PATH")
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	ffprobe := os.Getenv("FFPROBE_PATH")
	if ffprobe == "" {
		ffprobe = "ffprobe"
	}
	return engine.Config{FFmpegPath: ffmpeg, FFprobePath: ffprobe}
}

func showFormats() {
	reg := profile.Builtin()

	fmt.Println("Supported conversion targets:")
	fmt.Println("")
	for _, p := range reg.Profiles() {
		aliases := ""
		if len(p.Aliases) > 0 {
			aliases = "(also: " + strings.Join(p.Aliases, ", ") + ")"
		}
		fmt.Printf("  %-6s %-8s %-12s %-24s %s\n", p.Format, p.Extension, p.Kind, p.MIME, aliases)
	}
}

func probeFile(ctx context.Context, path string) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	prober := engine.NewProber(engineConfig())
	info, err := prober.Probe(ctx, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: probe failed: %v\n", err)
		return false
	}

	fmt.Printf("File:      %s\n", path)
	fmt.Printf("Container: %s\n", info.FormatName)
	if info.DurationSeconds > 0 {
		fmt.Printf("Duration:  %.2fs\n", info.DurationSeconds)
	} else {
		fmt.Println("Duration:  n/a")
	}
	fmt.Printf("Size:      %d bytes\n", info.SizeBytes)
	return true
}

func convertFile(ctx context.Context, inputPath, format string) bool {
	reg := profile.Builtin()
	prof, err := reg.Lookup(format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run \"mediaconv formats\" to list supported targets.")
		return false
	}

	destPath := resultPath(inputPath, prof.Extension)
	if _, err := os.Stat(destPath); err == nil {
		fmt.Fprintf(os.Stderr, "Error: %s already exists\n", destPath)
		return false
	}

	timeout := defaultTimeout
	if raw := os.Getenv("CONVERT_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			timeout = d
		}
	}

	workDir := os.Getenv("WORK_DIR")
	if workDir == "" {
		workDir = filepath.Join(os.TempDir(), "mediaconv")
	}
	alloc, err := tempfile.NewAllocator(workDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: working directory: %v\n", err)
		return false
	}

	// The pipeline owns and removes its input; stage a copy so the
	// original file survives the conversion.
	staged := alloc.Allocate(filepath.Ext(inputPath))
	if err := copyFile(inputPath, staged); err != nil {
		fmt.Fprintf(os.Stderr, "Error: staging input: %v\n", err)
		return false
	}

	config := engineConfig()
	procs := engine.NewProcessRegistry()
	orch := convert.New(convert.Config{
		Binding: convert.EngineBinding(engine.NewBinding(config, procs)),
		Runner:  engine.NewRunner(config, procs),
		Prober:  engine.NewProber(config),
		Alloc:   alloc,
		Timeout: timeout,
	})

	fmt.Printf("Converting %s to %s...\n", filepath.Base(inputPath), prof.Format)

	outcome, err := orch.Convert(ctx, convert.Request{
		InputPath:  staged,
		OutputPath: alloc.Allocate(prof.Extension),
		Profile:    prof,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: conversion failed: %v\n", err)
		return false
	}

	if err := moveFile(outcome.OutputPath, destPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: moving result: %v\n", err)
		return false
	}

	fmt.Printf("Wrote %s (method: %s, took %s)\n", destPath, outcome.Method, outcome.Duration.Round(time.Millisecond))
	return true
}

// resultPath places the converted file next to the input, never naming
// the input itself
func resultPath(inputPath, ext string) string {
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	dest := base + ext
	if dest == inputPath {
		dest = base + ".converted" + ext
	}
	return dest
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}

// moveFile renames, falling back to copy and remove when the source and
// destination are on different filesystems
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}
