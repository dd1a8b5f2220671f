package handlers

import (
	"time"

	"media-converter/internal/convert"
	"media-converter/internal/delivery"
	"media-converter/internal/engine"
	"media-converter/internal/profile"
	"media-converter/internal/startup"
	"media-converter/internal/tempfile"
	"media-converter/internal/upload"
)

// uploadExt is the suffix given to staged upload files. The engine sniffs
// the container format from content, so the original extension is never
// needed on disk.
const uploadExt = ".upload"

type Handlers struct {
	ingestor     *upload.Ingestor
	profiles     *profile.Registry
	orchestrator *convert.Orchestrator
	alloc        *tempfile.Allocator
	procs        *engine.ProcessRegistry
	stream       delivery.TimeoutWriterConfig
	engineOK     bool
	enginePath   string
	startTime    time.Time
}

func New(ing *upload.Ingestor, reg *profile.Registry, orch *convert.Orchestrator, alloc *tempfile.Allocator, procs *engine.ProcessRegistry, config *startup.Config) *Handlers {
	return &Handlers{
		ingestor:     ing,
		profiles:     reg,
		orchestrator: orch,
		alloc:        alloc,
		procs:        procs,
		stream:       delivery.DefaultTimeoutWriterConfig(),
		engineOK:     config.EngineAvailable,
		enginePath:   config.ResolvedFFmpeg,
		startTime:    time.Now(),
	}
}
