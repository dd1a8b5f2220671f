// Package profile defines conversion parameter profiles: ordered engine
// argument sequences keyed by target output format.
//
// A Profile is pure data. The orchestrator passes profile arguments to the
// engine without interpreting them, and the fallback execution path flattens
// them into a raw token list with Flatten. The built-in catalog (Builtin)
// covers common audio, video, and image targets; adding a format means
// adding a catalog entry, not code.
package profile
