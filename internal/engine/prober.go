package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
)

// MediaInfo holds the analyzer's view of a media file. Duration may be zero
// for formats without one (single images).
type MediaInfo struct {
	DurationSeconds float64
	FormatName      string
	SizeBytes       int64
}

// Prober inspects media files with the engine's analyzer binary. Results
// are informational: used to turn progress timestamps into percentages and
// by the ops CLI, never for control flow.
type Prober struct {
	cfg Config
}

// NewProber returns a Prober using the given engine configuration.
func NewProber(cfg Config) *Prober {
	return &Prober{cfg: cfg}
}

// Probe analyzes the file at path.
func (p *Prober) Probe(ctx context.Context, path string) (*MediaInfo, error) {
	cmd := exec.CommandContext(ctx, p.cfg.FFprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("probe error: %w - %s", err, stderr.String())
	}

	return decodeProbeOutput(stdout.Bytes())
}

// probeOutput mirrors the analyzer's JSON shape. Numeric fields arrive as
// strings.
type probeOutput struct {
	Format struct {
		FormatName string `json:"format_name"`
		Duration   string `json:"duration"`
		Size       string `json:"size"`
	} `json:"format"`
}

func decodeProbeOutput(data []byte) (*MediaInfo, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("probe output: %w", err)
	}

	info := &MediaInfo{FormatName: out.Format.FormatName}
	if out.Format.Duration != "" {
		if d, err := strconv.ParseFloat(out.Format.Duration, 64); err == nil {
			info.DurationSeconds = d
		}
	}
	if out.Format.Size != "" {
		if n, err := strconv.ParseInt(out.Format.Size, 10, 64); err == nil {
			info.SizeBytes = n
		}
	}
	return info, nil
}
