// Package diskguard provides admission control for the conversion working
// directory.
//
// # Overview
//
// Every upload is staged on disk and every conversion writes its output next
// to it, so a busy instance can need several times the size of its in-flight
// inputs in scratch space. When the working directory backs onto a bounded
// volume (a Kubernetes emptyDir with a sizeLimit, a tmpfs mount), running it
// full does not fail gracefully: uploads abort mid-copy and the engine dies
// on a short write, taking already-running conversions with it.
//
// The guard samples working directory usage on an interval and stops
// admitting new conversions while usage is over a critical watermark.
// Requests already past admission keep running; only new work is refused,
// with a Retry-After hint. Admission resumes once usage falls back under a
// lower high watermark, so the guard does not flap at the boundary while
// files are being cleaned up.
//
// # Watermarks
//
// Two thresholds, expressed as fractions of the configured budget:
//
//   - CriticalWaterMark (default 0.9): at or above this, new conversions
//     are refused.
//   - HighWaterMark (default 0.75): a paused guard resumes only once usage
//     drops below this.
//
// The gap between the two is the hysteresis band. In-flight conversions
// finishing inside the band neither pause nor resume the guard.
//
// # Usage
//
// The guard reads usage from anything with a Stats() (files, bytes) method;
// in the server that is the tempfile allocator, which reports the actual
// on-disk state of the working directory:
//
//	guard := diskguard.NewGuard(alloc, diskguard.Config{
//	    LimitBytes:        8 << 30,
//	    HighWaterMark:     0.75,
//	    CriticalWaterMark: 0.9,
//	    CheckInterval:     5 * time.Second,
//	})
//	guard.Start()
//	defer guard.Stop()
//
//	if !guard.Admit() {
//	    // refuse the request, suggest guard.RetryAfter()
//	}
//
// A zero budget disables the guard entirely: Admit always reports true and
// no sampling goroutine runs. This is the default, for deployments where
// the working directory sits on effectively unbounded storage.
package diskguard
