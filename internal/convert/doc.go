// Package convert orchestrates single media conversions across two ways of
// driving the engine: a structured binding that streams progress reports,
// and a raw process runner used as the fallback when the binding path dies.
//
// Convert owns the job from the moment it is called. It verifies the input,
// arms one deadline covering both attempts, runs the primary path, falls
// back when the primary fails without a verified output, and removes the
// input file plus every superseded artifact before returning. Exactly one
// Outcome is produced per job.
//
// The job record is a guarded state machine:
//
//	pending → running-primary → succeeded | failed
//	                          → running-fallback → succeeded | failed
//	        (any non-terminal) → timed-out
//
// Every transition is a compare-and-set under the record's mutex. A
// participant may report or perform side effects only after winning its
// transition; a loser (usually a path the timeout already overruled) stays
// silent. Terminal results travel over a buffered channel written at most
// once, so no participant ever blocks on a report.
//
// A fallback attempt never reuses the primary's output path: it allocates a
// fresh one, and the terminal cleanup pass deletes whichever recorded paths
// the winning outcome does not claim.
package convert
