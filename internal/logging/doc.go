// Package logging provides a simple leveled logging interface for the
// media converter service.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information (engine progress, state changes)
//   - INFO: General operational messages and structured lifecycle events
//   - WARN: Warning conditions
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the application
//
// The log level is configured via the LOG_LEVEL environment variable, or
// DEBUG=1 as a shortcut for debug level with caller reporting. Structured
// lifecycle events (upload_received, conversion_started, cleanup, ...) are
// emitted through Event and DebugEvent as key-value pairs.
package logging
