package engine

import (
	"fmt"
	"strconv"
	"time"
)

// Config captures the engine binaries and sizing at process start. It is
// never mutated afterwards; components receive it by value.
type Config struct {
	FFmpegPath  string
	FFprobePath string
	// Threads is passed to the engine as its encoder thread count.
	// Zero lets the engine decide.
	Threads int
}

// Job describes one conversion run: where to read, where to write, and the
// opaque profile arguments that shape the output.
type Job struct {
	ID         string
	InputPath  string
	OutputPath string
	Args       []string
}

// Progress is one structured progress report parsed from the engine's
// machine-readable progress stream. Reports are informational; nothing in
// the pipeline branches on them.
type Progress struct {
	OutTime time.Duration // media time encoded so far
	Frame   int64
	FPS     float64
	Speed   string
	Done    bool // final report of the stream
}

// EngineError describes an engine run that terminated unsuccessfully.
type EngineError struct {
	ExitCode int
	Stderr   string
}

func (e *EngineError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("engine exited with code %d", e.ExitCode)
	}
	return fmt.Sprintf("engine exited with code %d: %s", e.ExitCode, e.Stderr)
}

// baseArgs returns the argument prefix shared by both execution paths:
// overwrite the (freshly allocated) output, read the input, and apply the
// configured thread count. Profile arguments follow these, the output path
// comes last.
func baseArgs(cfg Config, inputPath string) []string {
	args := []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-i", inputPath,
	}
	if cfg.Threads > 0 {
		args = append(args, "-threads", strconv.Itoa(cfg.Threads))
	}
	return args
}
