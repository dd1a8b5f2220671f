package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"media-converter/internal/engine"
	"media-converter/internal/logging"
	"media-converter/internal/metrics"
	"media-converter/internal/profile"
	"media-converter/internal/tempfile"
)

// Sentinel errors for terminal results that are not engine failures.
// Engine failures travel as *engine.EngineError.
var (
	// ErrInputUnavailable means the input file was missing or empty before
	// any engine process was spawned. Fatal; the fallback never runs.
	ErrInputUnavailable = errors.New("convert: input file unavailable")
	// ErrOutputMissing means the engine exited cleanly but left no output
	// file behind. Fatal; rerunning the same arguments would not help.
	ErrOutputMissing = errors.New("convert: engine produced no output file")
	// ErrOutputEmpty means the engine exited cleanly but the output file
	// has zero bytes. Fatal, same as ErrOutputMissing.
	ErrOutputEmpty = errors.New("convert: engine produced an empty output file")
	// ErrTimedOut means the deadline fired before either path finished.
	ErrTimedOut = errors.New("convert: conversion timed out")
)

const (
	// probeTimeout bounds the informational pre-conversion probe so a
	// wedged analyzer cannot stall the job itself.
	probeTimeout = 5 * time.Second

	// defaultTimeout applies when neither the Request nor the Orchestrator
	// carries a positive timeout.
	defaultTimeout = 2 * time.Minute
)

// Invocation is a running primary-path engine process: a stream of progress
// reports, a termination signal, and a kill switch.
type Invocation interface {
	Progress() <-chan engine.Progress
	Done() <-chan error
	Abandon()
}

// Binding starts the structured primary path.
type Binding interface {
	Start(ctx context.Context, job engine.Job) (Invocation, error)
}

// Runner drives the raw fallback path to completion.
type Runner interface {
	Run(ctx context.Context, id, inputPath string, flatArgs []string, outputPath string) error
}

// Prober analyzes the input so progress reports can carry a percentage.
type Prober interface {
	Probe(ctx context.Context, path string) (*engine.MediaInfo, error)
}

// EngineBinding adapts *engine.Binding to the Binding interface. The
// adapter exists because engine.Binding returns its concrete *Invocation
// type, which does not satisfy an interface-returning signature on its own.
func EngineBinding(b *engine.Binding) Binding {
	return bindingFunc(func(ctx context.Context, job engine.Job) (Invocation, error) {
		inv, err := b.Start(ctx, job)
		if err != nil {
			return nil, err
		}
		return inv, nil
	})
}

type bindingFunc func(context.Context, engine.Job) (Invocation, error)

func (f bindingFunc) Start(ctx context.Context, job engine.Job) (Invocation, error) {
	return f(ctx, job)
}

// Request describes one conversion. OutputPath is the primary attempt's
// target; a fallback attempt allocates its own fresh path. A zero Timeout
// means the Orchestrator's configured default.
type Request struct {
	InputPath  string
	OutputPath string
	Profile    profile.Profile
	Timeout    time.Duration
}

// Outcome is the single authoritative report of a finished job. OutputPath
// is set only when State is StateSucceeded, and names the file the winning
// path actually wrote, which is not necessarily the requested path.
type Outcome struct {
	JobID      string
	State      State
	Method     Method
	OutputPath string
	Duration   time.Duration
	Err        error
}

// Config wires an Orchestrator.
type Config struct {
	Binding Binding
	Runner  Runner
	Prober  Prober // optional; enables progress percentages
	Alloc   *tempfile.Allocator
	Timeout time.Duration
}

// Orchestrator drives a conversion through the structured primary path,
// falls back to the raw runner when the primary fails, and holds one
// deadline over both attempts. Every job gets its own record; the record's
// guarded transitions decide which participant reports the result.
type Orchestrator struct {
	binding Binding
	runner  Runner
	prober  Prober
	alloc   *tempfile.Allocator
	timeout time.Duration
}

// New returns an Orchestrator using the given collaborators.
func New(cfg Config) *Orchestrator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Orchestrator{
		binding: cfg.Binding,
		runner:  cfg.Runner,
		prober:  cfg.Prober,
		alloc:   cfg.Alloc,
		timeout: cfg.Timeout,
	}
}

// Convert runs req to a terminal state and returns exactly one Outcome.
// The input file is removed before return regardless of the result. On
// success the caller owns the file at Outcome.OutputPath; every other
// artifact the job touched is already gone.
func (o *Orchestrator) Convert(ctx context.Context, req Request) (Outcome, error) {
	start := time.Now()
	j := newJob(uuid.NewString())
	defer tempfile.Remove(req.InputPath)

	out := o.execute(ctx, j, req)
	out.Duration = time.Since(start)
	o.removeLosers(j, out)

	metrics.ConversionsTotal.WithLabelValues(req.Profile.Format, string(out.Method), string(out.State)).Inc()
	metrics.ConversionDuration.WithLabelValues(string(out.Method)).Observe(out.Duration.Seconds())

	return out, out.Err
}

// execute drives the job to a terminal state: it arms the timer, launches
// the path goroutine, and waits for whichever wins. The terminal channel is
// buffered and written at most once, by the participant that won the
// transition, so the losing side never blocks.
func (o *Orchestrator) execute(ctx context.Context, j *job, req Request) Outcome {
	if err := verifyInput(req.InputPath); err != nil {
		j.finish(StatePending, StateFailed)
		return Outcome{JobID: j.id, State: StateFailed, Method: MethodNone, Err: err}
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = o.timeout
	}

	metrics.ConversionsInFlight.Inc()
	defer metrics.ConversionsInFlight.Dec()

	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	info := o.probeInput(jobCtx, req.InputPath)

	logging.Event("conversion_started",
		"job_id", j.id,
		"format", req.Profile.Format,
		"input", req.InputPath,
		"timeout", timeout.String(),
	)

	terminal := make(chan Outcome, 1)
	go o.runPaths(jobCtx, j, req, info, terminal)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case out := <-terminal:
		return out
	case <-timer.C:
		method, won := j.timeoutNow()
		if !won {
			// A real terminal result beat the timer; take it.
			return <-terminal
		}
		cancel() // kills whichever engine process is still running
		logging.Event("conversion_timed_out",
			"job_id", j.id,
			"format", req.Profile.Format,
			"method", string(method),
			"timeout", timeout.String(),
		)
		return Outcome{JobID: j.id, State: StateTimedOut, Method: method, Err: ErrTimedOut}
	}
}

// runPaths runs the primary attempt and, when it dies before producing a
// verified output, hands the job to the fallback. Runs in its own goroutine;
// every report goes through the job's guarded transitions, so a path that
// lost to the timeout stays silent.
func (o *Orchestrator) runPaths(ctx context.Context, j *job, req Request, info *engine.MediaInfo, terminal chan<- Outcome) {
	if !j.enterPrimary() {
		return
	}
	j.addOutput(req.OutputPath)

	inv, err := o.binding.Start(ctx, engine.Job{
		ID:         j.id,
		InputPath:  req.InputPath,
		OutputPath: req.OutputPath,
		Args:       req.Profile.Flatten(),
	})
	if err != nil {
		// The primary could not even spawn; the raw path gets its turn.
		o.runFallback(ctx, j, req, terminal, err)
		return
	}
	// No invocation outlives its driver; harmless after a normal exit.
	defer inv.Abandon()

	for p := range inv.Progress() {
		o.logProgress(j.id, req.Profile.Format, p, info)
	}
	if err := <-inv.Done(); err != nil {
		o.runFallback(ctx, j, req, terminal, err)
		return
	}

	if err := verifyOutput(req.OutputPath); err != nil {
		// The engine exited cleanly without a usable output. The same
		// arguments would do the same again, so the fallback stays cold.
		o.report(j, terminal, StateRunningPrimary, req.Profile.Format, Outcome{
			JobID:  j.id,
			State:  StateFailed,
			Method: MethodPrimary,
			Err:    err,
		})
		return
	}

	o.report(j, terminal, StateRunningPrimary, req.Profile.Format, Outcome{
		JobID:      j.id,
		State:      StateSucceeded,
		Method:     MethodPrimary,
		OutputPath: req.OutputPath,
	})
}

// runFallback drives the raw path after a primary failure. The fallback
// targets a fresh output path so a partial artifact left by the abandoned
// primary can never masquerade as its result.
func (o *Orchestrator) runFallback(ctx context.Context, j *job, req Request, terminal chan<- Outcome, primaryErr error) {
	if !j.enterFallback() {
		state, _ := j.snapshot()
		logging.DebugEvent("conversion_result_discarded",
			"job_id", j.id, "late", "fallback", "settled", string(state))
		return
	}

	logging.Event("conversion_fallback",
		"job_id", j.id,
		"format", req.Profile.Format,
		"reason", primaryErr.Error(),
	)
	metrics.FallbacksTotal.Inc()

	outputPath := o.alloc.Allocate(req.Profile.Extension)
	j.addOutput(outputPath)

	err := o.runner.Run(ctx, j.id, req.InputPath, req.Profile.Flatten(), outputPath)
	if err == nil {
		err = verifyOutput(outputPath)
	}
	if err != nil {
		o.report(j, terminal, StateRunningFallback, req.Profile.Format, Outcome{
			JobID:  j.id,
			State:  StateFailed,
			Method: MethodFallback,
			Err:    err,
		})
		return
	}

	o.report(j, terminal, StateRunningFallback, req.Profile.Format, Outcome{
		JobID:      j.id,
		State:      StateSucceeded,
		Method:     MethodFallback,
		OutputPath: outputPath,
	})
}

// report publishes a terminal outcome if the transition from the given
// state still wins. A loser, typically a path the timeout already
// overruled, logs at debug and sends nothing.
func (o *Orchestrator) report(j *job, terminal chan<- Outcome, from State, format string, out Outcome) {
	if !j.finish(from, out.State) {
		state, _ := j.snapshot()
		logging.DebugEvent("conversion_result_discarded",
			"job_id", j.id, "late", string(out.State), "settled", string(state))
		return
	}

	if out.State == StateSucceeded {
		logging.Event("conversion_succeeded",
			"job_id", j.id,
			"format", format,
			"method", string(out.Method),
			"output", out.OutputPath,
		)
	} else {
		logging.Event("conversion_failed",
			"job_id", j.id,
			"format", format,
			"method", string(out.Method),
			"error", out.Err.Error(),
		)
	}
	terminal <- out
}

// removeLosers deletes every output path the job touched except a
// successful outcome's. Partial artifacts from an abandoned primary, a
// timed-out run, or a clean failure all end here.
func (o *Orchestrator) removeLosers(j *job, out Outcome) {
	for _, path := range j.outputPaths() {
		if out.State == StateSucceeded && path == out.OutputPath {
			continue
		}
		tempfile.Remove(path)
	}
}

// probeInput analyzes the input so progress events can carry a percentage.
// Best effort: a missing prober or a failed probe just means no percentages.
func (o *Orchestrator) probeInput(ctx context.Context, path string) *engine.MediaInfo {
	if o.prober == nil {
		return nil
	}
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	info, err := o.prober.Probe(probeCtx, path)
	if err != nil {
		logging.Debug("Probe of %s failed: %v", path, err)
		return nil
	}
	return info
}

func (o *Orchestrator) logProgress(id, format string, p engine.Progress, info *engine.MediaInfo) {
	if !logging.IsDebugEnabled() {
		return
	}
	kv := []interface{}{
		"job_id", id,
		"format", format,
		"out_time", p.OutTime.String(),
		"speed", p.Speed,
	}
	if p.Frame > 0 {
		kv = append(kv, "frame", p.Frame)
	}
	if info != nil && info.DurationSeconds > 0 {
		pct := p.OutTime.Seconds() / info.DurationSeconds * 100
		if pct > 100 {
			pct = 100
		}
		kv = append(kv, "percent", fmt.Sprintf("%.1f", pct))
	}
	logging.DebugEvent("conversion_progress", kv...)
}

// verifyInput confirms the input file exists and is non-empty before any
// engine process is spawned.
func verifyInput(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInputUnavailable, err)
	}
	if fi.Size() == 0 {
		return fmt.Errorf("%w: %s is empty", ErrInputUnavailable, path)
	}
	return nil
}

// verifyOutput guards the success transitions. An exit code of zero means
// nothing if no bytes landed on disk.
func verifyOutput(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrOutputMissing
		}
		return fmt.Errorf("convert: stat output: %w", err)
	}
	if fi.Size() == 0 {
		return ErrOutputEmpty
	}
	return nil
}
