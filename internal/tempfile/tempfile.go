package tempfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"media-converter/internal/logging"
)

// ErrNoDir is returned when an Allocator is created without a directory.
var ErrNoDir = errors.New("tempfile: working directory not set")

// Allocator produces collision-resistant file paths inside a working
// directory. It never creates files itself; callers own the file lifecycle.
type Allocator struct {
	dir string
}

// NewAllocator returns an Allocator rooted at dir. The directory does not
// need to exist yet; callers are responsible for creating it.
func NewAllocator(dir string) (*Allocator, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, ErrNoDir
	}
	return &Allocator{dir: dir}, nil
}

// Dir returns the working directory paths are allocated under.
func (a *Allocator) Dir() string {
	return a.dir
}

// Stats reports how many files currently live in the working directory and
// their combined size. Artifacts are short-lived, so a growing count means
// cleanup is falling behind somewhere.
func (a *Allocator) Stats() (files int, bytes int64) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		return 0, 0
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files++
		bytes += info.Size()
	}
	return files, bytes
}

// Allocate returns a fresh path under the working directory with the given
// extension. The name is a random UUID, so two calls never collide in
// practice. The extension may be given with or without a leading dot; an
// empty extension produces a bare token name.
func (a *Allocator) Allocate(ext string) string {
	name := uuid.NewString()
	if ext != "" {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		name += ext
	}
	return filepath.Join(a.dir, name)
}

// Remove deletes the file at path as a best-effort cleanup step. A missing
// file is success (cleanup is idempotent); any other error is logged and
// swallowed, never propagated.
func Remove(path string) {
	if path == "" {
		return
	}
	err := os.Remove(path)
	switch {
	case err == nil:
		logging.DebugEvent("cleanup", "path", path, "result", "removed")
	case os.IsNotExist(err):
		logging.DebugEvent("cleanup", "path", path, "result", "already_gone")
	default:
		logging.Warn("Cleanup of %s failed: %v", path, err)
	}
}
