package download

import (
	"context"

	"github.com/ytget/yt-toolkit/internal/model"
)

// Downloader defines the interface for the download service.
type Downloader interface {
	Run(ctx context.Context, req model.DownloadRequest) ([]*model.Artifact, error)
}

// Platform resolves videos and transfers streams. Implemented by
// platform.YouTubeClient.
type Platform interface {
	// Lookup returns metadata and every stream offered for the URL
	Lookup(ctx context.Context, url string) (*model.Video, error)

	// Fetch writes one stream to dst. Partial data may be left in dst+".tmp"
	// so a later call can resume.
	Fetch(ctx context.Context, url string, stream model.Stream, dst string, obs model.ProgressObserver) error
}

// Reporter receives user-facing progress of a run. Implemented by ui.Console.
type Reporter interface {
	Video(v *model.Video)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	ByteProgress(label string) model.ProgressObserver
}
