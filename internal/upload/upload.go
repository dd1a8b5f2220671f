package upload

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"os"

	"github.com/gabriel-vasile/mimetype"

	"media-converter/internal/logging"
	"media-converter/internal/tempfile"
)

// MaxFiles is the number of file parts accepted per request. The pipeline
// converts exactly one file per request; this is fixed, not configuration.
const MaxFiles = 1

var (
	// ErrTooManyFiles is reported when a request carries more than MaxFiles
	// file parts. Nothing is persisted.
	ErrTooManyFiles = errors.New("upload: more than one file part")
	// ErrFileTooLarge is reported when the accepted file exceeds the byte
	// limit. The body is still drained so the transport can finish.
	ErrFileTooLarge = errors.New("upload: file exceeds the size limit")
	// ErrEmptyUpload is reported when the accepted file contained no bytes.
	ErrEmptyUpload = errors.New("upload: uploaded file is empty")
	// ErrMalformedUpload is reported for parse-level failures of the
	// multipart body.
	ErrMalformedUpload = errors.New("upload: malformed multipart body")
	// ErrNoFile is reported when the body ended without any file part.
	ErrNoFile = errors.New("upload: request contains no file part")
)

// Result is the verified outcome of a successful ingestion.
type Result struct {
	OriginalFilename string
	SavedPath        string
	Size             int64
	DeclaredType     string // Content-Type header of the part, untrusted
	DetectedType     string // sniffed from the saved bytes, informational
}

// Ingestor streams multipart uploads to disk under a byte limit. The whole
// body is never buffered in memory; bytes go to the destination file as they
// arrive.
type Ingestor struct {
	maxBytes int64
}

// NewIngestor returns an Ingestor enforcing maxBytes per accepted file.
// A non-positive limit disables the size check.
func NewIngestor(maxBytes int64) *Ingestor {
	return &Ingestor{maxBytes: maxBytes}
}

// session owns the mutable state of one ingestion. It is created when the
// body begins streaming and is only touched from the request goroutine.
type session struct {
	destPath     string
	originalName string
	declaredType string
	received     int64 // every byte observed for the accepted file
	written      int64 // bytes actually persisted
	limitHit     bool
	filesSeen    int
	doomed       error // first fatal condition; set at most once
	file         *os.File
}

// doom records the first fatal condition and releases the partial file.
// The body keeps draining after this point so the transport is never left
// with unread bytes.
func (s *session) doom(err error) {
	if s.doomed == nil {
		s.doomed = err
	}
	_ = s.closeFile()
	s.removePartial()
}

// abort releases resources for a failure that cannot keep draining
// (parse-level errors, disk errors).
func (s *session) abort() {
	_ = s.closeFile()
	s.removePartial()
}

// closeFile closes the destination handle once; further calls are no-ops.
func (s *session) closeFile() error {
	if s.file == nil {
		return nil
	}
	f := s.file
	s.file = nil
	return f.Close()
}

func (s *session) removePartial() {
	if s.filesSeen > 0 {
		tempfile.Remove(s.destPath)
	}
}

// limitWriter persists and counts the same byte sequence until the limit is
// crossed. After that it discards input while the received counter keeps
// advancing, which lets io.Copy drain the rest of the part.
type limitWriter struct {
	sess *session
	max  int64 // <= 0 means unlimited
}

func (w *limitWriter) Write(p []byte) (int, error) {
	s := w.sess
	s.received += int64(len(p))
	if s.limitHit {
		return len(p), nil
	}
	if w.max > 0 && s.received > w.max {
		s.limitHit = true
		return len(p), nil
	}
	n, err := s.file.Write(p)
	s.written += int64(n)
	if err != nil {
		return n, err
	}
	return n, nil
}

// Ingest parses the request body as streaming multipart form data, persists
// the single accepted file part to destPath, and returns the verified result.
//
// Exactly one file part is accepted. A second file part dooms the session
// with ErrTooManyFiles; crossing the byte limit dooms it with
// ErrFileTooLarge. A doomed session deletes the partial file immediately but
// keeps consuming the remaining body, and the failure is reported only once
// the stream is fully drained. Ordinary form fields are skipped.
func (ing *Ingestor) Ingest(r *http.Request, destPath string) (*Result, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedUpload, err)
	}

	s := &session{destPath: destPath}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			if s.doomed != nil {
				break // already failing; report the original cause
			}
			s.abort()
			return nil, fmt.Errorf("%w: %v", ErrMalformedUpload, err)
		}

		if part.FileName() == "" {
			// Ordinary form field; consume it and move on
			if err := drain(part); err != nil {
				if s.doomed != nil {
					break
				}
				s.abort()
				return nil, fmt.Errorf("%w: %v", ErrMalformedUpload, err)
			}
			continue
		}

		s.filesSeen++
		if s.filesSeen > MaxFiles {
			s.doom(ErrTooManyFiles)
			if err := drain(part); err != nil {
				break
			}
			continue
		}

		s.originalName = part.FileName()
		s.declaredType = part.Header.Get("Content-Type")

		f, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if err != nil {
			return nil, fmt.Errorf("upload: creating %s: %w", destPath, err)
		}
		s.file = f

		lw := &limitWriter{sess: s, max: ing.maxBytes}
		if _, err := io.Copy(lw, part); err != nil {
			s.abort()
			var pathErr *fs.PathError
			if errors.As(err, &pathErr) {
				return nil, fmt.Errorf("upload: writing %s: %w", destPath, err)
			}
			return nil, fmt.Errorf("%w: %v", ErrMalformedUpload, err)
		}

		if err := s.closeFile(); err != nil {
			s.removePartial()
			return nil, fmt.Errorf("upload: closing %s: %w", destPath, err)
		}

		if s.limitHit {
			s.doom(ErrFileTooLarge)
		}
	}

	if s.doomed != nil {
		return nil, s.doomed
	}
	if s.filesSeen == 0 {
		return nil, ErrNoFile
	}

	info, err := os.Stat(destPath)
	if err != nil || info.Size() == 0 {
		tempfile.Remove(destPath)
		return nil, ErrEmptyUpload
	}

	res := &Result{
		OriginalFilename: s.originalName,
		SavedPath:        destPath,
		Size:             info.Size(),
		DeclaredType:     s.declaredType,
	}
	if mt, err := mimetype.DetectFile(destPath); err == nil {
		res.DetectedType = mt.String()
	}

	logging.Event("upload_received",
		"name", res.OriginalFilename,
		"size", res.Size,
		"declared_type", res.DeclaredType,
		"detected_type", res.DetectedType,
	)
	return res, nil
}

func drain(part *multipart.Part) error {
	_, err := io.Copy(io.Discard, part)
	return err
}
