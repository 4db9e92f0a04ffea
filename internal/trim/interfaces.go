package trim

import (
	"context"

	"github.com/ytget/yt-toolkit/internal/model"
)

// Trimmer defines the interface for the trim service.
type Trimmer interface {
	Run(ctx context.Context, job model.TrimJob) ([]*model.Artifact, error)
}

// Editor performs media operations. Implemented by FFmpegEditor.
type Editor interface {
	// Probe reads duration and stream layout of a media file
	Probe(ctx context.Context, path string) (*model.MediaInfo, error)

	// Extract re-encodes rng of src into dst, reporting milliseconds of
	// output written to obs
	Extract(ctx context.Context, src string, kind model.MediaKind, rng model.TimeRange, dst string, obs model.ProgressObserver) error

	// Concat joins parts, in order, into dst without re-encoding
	Concat(ctx context.Context, parts []string, dst string) error
}

// Reporter receives user-facing progress of a run. Implemented by ui.Console.
type Reporter interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	MediaProgress(label string) model.ProgressObserver
}
