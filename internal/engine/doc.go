// Package engine is the boundary to the external transcoding engine
// (FFmpeg). The engine is an opaque collaborator; this package knows how to
// start it, watch it, and stop it, but never interprets the profile
// arguments it passes through.
//
// Two execution paths drive the same binary:
//
//   - Binding (primary): structured invocation with a machine-readable
//     progress stream parsed into Progress events and a single terminal
//     result on Done. Richer reporting, more moving parts.
//   - Runner (fallback): a plain process spawn with the flattened argument
//     list, reporting only the exit code and captured stderr. Strictly more
//     conservative; used when the binding path fails for any reason.
//
// The Prober wraps the analyzer binary (ffprobe) for informational metadata
// such as duration.
//
// Every running process registers its cancel function in a ProcessRegistry
// so graceful shutdown can stop all in-flight engine work.
package engine
