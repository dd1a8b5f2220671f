package convert

import "sync"

// State is a conversion job's position in its lifecycle.
type State string

const (
	// StatePending is the initial state, before any path has started.
	StatePending State = "pending"
	// StateRunningPrimary means the structured binding path is driving the
	// engine.
	StateRunningPrimary State = "running-primary"
	// StateRunningFallback means the raw process path is driving the engine
	// after a primary failure.
	StateRunningFallback State = "running-fallback"
	// StateSucceeded is terminal: a verified output exists.
	StateSucceeded State = "succeeded"
	// StateFailed is terminal: no usable output was produced.
	StateFailed State = "failed"
	// StateTimedOut is terminal: the deadline fired before either path
	// finished.
	StateTimedOut State = "timed-out"
)

// Terminal reports whether no further transition can occur.
func (s State) Terminal() bool {
	switch s {
	case StateSucceeded, StateFailed, StateTimedOut:
		return true
	}
	return false
}

// Method identifies which execution path is (or was) driving the engine.
type Method string

const (
	MethodNone     Method = "none"
	MethodPrimary  Method = "primary"
	MethodFallback Method = "fallback"
)

// job is the owned record of one conversion. All transitions go through the
// mutex; a participant may perform a transition's side effects (reporting,
// cleanup) only when the transition methods return true. This is the guard
// that makes late events from a losing path harmless.
type job struct {
	id string

	mu      sync.Mutex
	state   State
	method  Method
	outputs []string // every output path any attempt has targeted
}

func newJob(id string) *job {
	return &job{id: id, state: StatePending, method: MethodNone}
}

// enterPrimary moves pending → running-primary and records the method.
func (j *job) enterPrimary() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state != StatePending {
		return false
	}
	j.state = StateRunningPrimary
	j.method = MethodPrimary
	return true
}

// enterFallback moves running-primary → running-fallback and records the
// method. It fails once the job is terminal (e.g. timed out), which is what
// stops an abandoned primary from resurrecting the job.
func (j *job) enterFallback() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state != StateRunningPrimary {
		return false
	}
	j.state = StateRunningFallback
	j.method = MethodFallback
	return true
}

// finish is the compare-and-set into a terminal state. Exactly one finish
// (or timeout) succeeds over the job's lifetime.
func (j *job) finish(from, to State) bool {
	if !to.Terminal() {
		return false
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state != from {
		return false
	}
	j.state = to
	return true
}

// timeoutNow forces the job into timed-out from any non-terminal state.
// Returns the method that was in use and whether the transition won.
func (j *job) timeoutNow() (Method, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state.Terminal() {
		return j.method, false
	}
	j.state = StateTimedOut
	return j.method, true
}

// snapshot returns the current state and method.
func (j *job) snapshot() (State, Method) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state, j.method
}

// addOutput records an output path targeted by an attempt so the terminal
// cleanup pass can remove whatever the winner does not claim.
func (j *job) addOutput(path string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.outputs = append(j.outputs, path)
}

// outputPaths returns a copy of every recorded output path.
func (j *job) outputPaths() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]string, len(j.outputs))
	copy(out, j.outputs)
	return out
}
