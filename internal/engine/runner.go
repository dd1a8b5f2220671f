package engine

import (
	"context"
	"fmt"
	"strings"

	execute "github.com/alexellis/go-execute/v2"
)

// Runner spawns the engine as a plain external process with a flattened
// argument list. It is the fallback execution path: no progress stream, no
// structured reporting, just the exit code and captured stderr. Being the
// most conservative way to drive the engine, it is used when the binding
// path fails for any reason.
type Runner struct {
	cfg      Config
	registry *ProcessRegistry
}

// NewRunner returns a Runner using the given engine configuration.
func NewRunner(cfg Config, registry *ProcessRegistry) *Runner {
	return &Runner{cfg: cfg, registry: registry}
}

// runnerArgs builds the raw argument list: shared prefix, flattened profile
// tokens in their original order, output path.
func (r *Runner) runnerArgs(inputPath string, flatArgs []string, outputPath string) []string {
	args := baseArgs(r.cfg, inputPath)
	args = append(args, "-nostats", "-v", "error")
	args = append(args, flatArgs...)
	args = append(args, outputPath)
	return args
}

// Run executes the engine to completion. Exit code 0 returns nil; an
// unsuccessful exit returns an *EngineError carrying the code and stderr;
// spawn failures are returned wrapped. Cancelling ctx kills the process.
func (r *Runner) Run(ctx context.Context, id, inputPath string, flatArgs []string, outputPath string) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	r.registry.Track(id, cancel)
	defer r.registry.Release(id)

	task := execute.ExecTask{
		Command: r.cfg.FFmpegPath,
		Args:    r.runnerArgs(inputPath, flatArgs, outputPath),
	}

	res, err := task.Execute(runCtx)
	if err != nil {
		return fmt.Errorf("engine: spawning %s: %w", r.cfg.FFmpegPath, err)
	}
	if res.ExitCode != 0 {
		return &EngineError{
			ExitCode: res.ExitCode,
			Stderr:   strings.TrimSpace(res.Stderr),
		}
	}
	return nil
}
