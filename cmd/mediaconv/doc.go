// Command mediaconv provides a CLI for local media conversion using the
// same pipeline as the conversion server.
//
// It supports the following operations:
//   - formats: list supported conversion targets
//   - probe: analyze a media file
//   - convert: convert a file, writing the result next to it
//
// Usage:
//
//	mediaconv <command> [arguments]
//
// Commands:
//
//	formats                  List every supported target with its
//	                         extension, media kind, MIME type, and
//	                         accepted aliases.
//
//	probe <file>             Run the analyzer against a file and print
//	                         its container format, duration, and size.
//
//	convert <file> <format>  Convert a file to the given target. The
//	                         result is written next to the input with
//	                         the target extension. When that name would
//	                         collide with the input, a .converted
//	                         suffix is inserted. Existing files are
//	                         never overwritten.
//
// Environment:
//
//	FFMPEG_PATH     - Conversion engine binary (default: ffmpeg)
//	FFPROBE_PATH    - Analyzer binary (default: ffprobe)
//	WORK_DIR        - Scratch directory (default: under the system temp dir)
//	CONVERT_TIMEOUT - Conversion deadline (default: 30m)
//
// Notes:
//
// The conversion runs through the same two-path pipeline as the server:
// a structured primary attempt with progress reporting, then a raw
// fallback attempt if the primary fails. Scratch files are cleaned up
// regardless of the result; only the final output is kept.
package main
