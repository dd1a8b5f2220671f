// Package tempfile manages temporary file naming and cleanup for the
// conversion pipeline.
//
// It provides:
//   - Allocator: collision-resistant path generation inside the working
//     directory (UUID-based names, no file creation)
//   - Remove: idempotent best-effort deletion used by every stage that
//     owns a temp file (failed uploads, consumed inputs, delivered outputs)
//
// Remove never returns an error: a missing file counts as success and
// anything else is logged and swallowed, so cleanup can run unconditionally
// on every terminal path without masking the real outcome.
package tempfile
