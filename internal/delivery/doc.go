/*
Package delivery streams finished conversion results to clients as file
attachments, with timeout protection and unconditional cleanup.

# Overview

Slow or disconnected clients can hold server resources indefinitely when
streaming large responses. Deliver wraps the response writer with timeout
protection so stalled connections are detected and terminated, and removes
the result file once the stream ends, successfully or not. A conversion
artifact never outlives its one download.

# Usage

	err := delivery.Deliver(w, r, outcome.OutputPath,
		delivery.DownloadName(upload.OriginalFilename, prof.Extension),
		delivery.DefaultTimeoutWriterConfig())
	if errors.Is(err, delivery.ErrClientGone) {
		// Client disconnected, not a server error.
		return
	}

Deliver sets Content-Type (from the attachment extension), Content-Length,
Content-Disposition, and X-Content-Type-Options before the first byte, so
the caller must not have touched the response yet.

# Timeout protection

TimeoutWriter bounds each write with WriteTimeout, terminates streams with
no data flow for IdleTimeout, and splits large writes into ChunkSize pieces
so cancellation is noticed promptly. Errors are reported through sentinel
values (ErrWriteTimeout, ErrClientGone, ErrStreamCanceled), all wrapped in
ErrDeliveryFailed by Deliver and matchable with errors.Is.

# Thread safety

TimeoutWriter is safe for concurrent use; internal state is guarded by a
mutex and the idle checker runs in its own goroutine per stream.
*/
package delivery
