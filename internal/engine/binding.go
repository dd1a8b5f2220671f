package engine

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Binding drives the engine with structured progress reporting. It is the
// primary execution path: the process writes a machine-readable progress
// stream to stdout which is parsed into Progress values, and stderr is
// captured for error reporting.
type Binding struct {
	cfg      Config
	registry *ProcessRegistry
}

// NewBinding returns a Binding using the given engine configuration.
func NewBinding(cfg Config, registry *ProcessRegistry) *Binding {
	return &Binding{cfg: cfg, registry: registry}
}

// Invocation is one engine run started through the Binding. Progress events
// arrive on Progress() until the stream ends; exactly one terminal result is
// delivered on Done().
type Invocation struct {
	job      Job
	cancel   context.CancelFunc
	progress chan Progress
	done     chan error
	abandon  sync.Once
}

// Progress returns the progress event channel. It is closed when the
// engine's progress stream ends. Events may be dropped under load; they are
// informational only.
func (inv *Invocation) Progress() <-chan Progress {
	return inv.progress
}

// Done delivers the terminal result of the run: nil for exit code 0, an
// *EngineError for an unsuccessful exit, or the start failure. The channel
// is closed after the single send.
func (inv *Invocation) Done() <-chan error {
	return inv.done
}

// Abandon stops the underlying process. It is idempotent and safe to call
// after the run has already terminated; the eventual Done result of an
// abandoned run is expected to be ignored by the caller.
func (inv *Invocation) Abandon() {
	inv.abandon.Do(inv.cancel)
}

// bindingArgs builds the full structured argument list: shared prefix,
// progress stream selection, profile arguments, output path.
func (b *Binding) bindingArgs(job Job) []string {
	args := baseArgs(b.cfg, job.InputPath)
	args = append(args,
		"-progress", "pipe:1", // machine-readable progress on stdout
		"-nostats",
		"-v", "error",
	)
	args = append(args, job.Args...)
	args = append(args, job.OutputPath)
	return args
}

// Start launches the engine for the given job. Construction failures
// (missing binary, pipe setup, spawn errors) are returned directly; once
// Start returns nil the terminal result is delivered through Done.
func (b *Binding) Start(ctx context.Context, job Job) (*Invocation, error) {
	runCtx, cancel := context.WithCancel(ctx)

	cmd := exec.CommandContext(runCtx, b.cfg.FFmpegPath, b.bindingArgs(job)...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("engine: stdout pipe: %w", err)
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("engine: starting %s: %w", b.cfg.FFmpegPath, err)
	}

	inv := &Invocation{
		job:      job,
		cancel:   cancel,
		progress: make(chan Progress, 16),
		done:     make(chan error, 1),
	}

	b.registry.Track(job.ID, cancel)

	parsed := make(chan struct{})
	go func() {
		defer close(parsed)
		defer close(inv.progress)
		parseProgress(stdout, inv.progress)
	}()

	go func() {
		// The stdout pipe must be fully consumed before Wait
		<-parsed
		err := cmd.Wait()

		b.registry.Release(job.ID)
		cancel()

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			err = &EngineError{
				ExitCode: exitErr.ExitCode(),
				Stderr:   strings.TrimSpace(stderr.String()),
			}
		}
		inv.done <- err
		close(inv.done)
	}()

	return inv, nil
}

// parseProgress reads the engine's key=value progress stream and emits one
// Progress per record. Records are delimited by the "progress" key; a value
// of "end" marks the final record. Sends never block so a slow consumer
// cannot stall the engine.
func parseProgress(r io.Reader, out chan<- Progress) {
	scanner := bufio.NewScanner(r)
	var cur Progress

	for scanner.Scan() {
		key, value, ok := splitProgressLine(scanner.Text())
		if !ok {
			continue
		}

		switch key {
		case "out_time_us":
			if us, err := strconv.ParseInt(value, 10, 64); err == nil && us >= 0 {
				cur.OutTime = time.Duration(us) * time.Microsecond
			}
		case "frame":
			if n, err := strconv.ParseInt(value, 10, 64); err == nil {
				cur.Frame = n
			}
		case "fps":
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				cur.FPS = f
			}
		case "speed":
			cur.Speed = value
		case "progress":
			cur.Done = value == "end"
			select {
			case out <- cur:
			default: // informational; drop under load
			}
			if cur.Done {
				return
			}
		}
	}
}

func splitProgressLine(line string) (key, value string, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(line), "=", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true
}
