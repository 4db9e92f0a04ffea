package download

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ytget/yt-toolkit/internal/apperr"
	"github.com/ytget/yt-toolkit/internal/model"
	"github.com/ytget/yt-toolkit/internal/platform"
)

// Retry policy
const (
	DefaultMaxRetries = 1
	DefaultRetryDelay = 2 * time.Second
)

// Service handles download operations
type Service struct {
	platform   Platform
	reporter   Reporter
	logger     *zap.Logger
	maxRetries int
	retryDelay time.Duration
}

// NewService creates a new download service
func NewService(p Platform, reporter Reporter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		platform:   p,
		reporter:   reporter,
		logger:     logger,
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
	}
}

// SetRetryPolicy sets how many times a failed transfer is retried and the
// delay before each retry
func (s *Service) SetRetryPolicy(maxRetries int, delay time.Duration) {
	if maxRetries < 0 {
		maxRetries = 0
	}
	s.maxRetries = maxRetries
	s.retryDelay = delay
}

// ValidateRequest checks a request before any I/O happens
func ValidateRequest(req model.DownloadRequest) error {
	if strings.TrimSpace(req.URL) == "" {
		return apperr.Usage("falta la URL del video")
	}
	if !platform.IsVideoURL(req.URL) {
		return apperr.Usage("la URL %q no es una URL de video de YouTube", req.URL)
	}
	if _, err := model.ParseMediaFormat(string(req.Format)); err != nil || req.Format == "" {
		return apperr.Usage("formato no válido: %q", req.Format)
	}
	switch req.Quality.Preset {
	case model.QualityHigh, model.QualityLow:
	case model.QualityResolution:
		if req.Quality.Height <= 0 {
			return apperr.Usage("resolución no válida: %q", req.Quality.Label)
		}
	default:
		return apperr.Usage("calidad no válida: %q", req.Quality.Preset)
	}
	if strings.TrimSpace(req.OutputDir) == "" {
		return apperr.Usage("el directorio de salida no puede estar vacío")
	}
	return nil
}

// Run downloads the streams described by req. Either every requested file is
// written to req.OutputDir or none is.
func (s *Service) Run(ctx context.Context, req model.DownloadRequest) ([]*model.Artifact, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	if err := platform.CreateDirectoryIfNotExists(req.OutputDir); err != nil {
		return nil, apperr.Wrap(apperr.KindIO, err, "no se pudo crear el directorio %s", req.OutputDir)
	}
	if err := ctx.Err(); err != nil {
		return nil, apperr.Interrupted(err)
	}

	s.reporter.Info("Obteniendo información del video...")
	video, err := s.platform.Lookup(ctx, req.URL)
	if err != nil {
		return nil, s.classify(ctx, err, "no se pudo obtener la información del video")
	}
	s.reporter.Video(video)

	choices, err := SelectStreams(video.Streams, req.Format, req.Quality)
	if err != nil {
		return nil, err
	}

	staging := platform.NewStaging(req.OutputDir, req.Overwrite, s.logger)
	names := planNames(video.Title, choices)
	planned := make([]*model.Artifact, len(choices))
	for i, c := range choices {
		a, err := staging.Plan(artifactRole(c.Role), names[i])
		if err != nil {
			return nil, err
		}
		planned[i] = a
	}

	committed := false
	defer func() {
		if !committed {
			staging.Rollback()
		}
	}()

	for i, c := range choices {
		a := planned[i]
		name := filepath.Base(a.Path)
		if c.Role == model.RoleVideo && c.Stream.Kind == model.StreamVideoOnly {
			s.reporter.Warn("el stream de video elegido (%s) no incluye audio", c.Stream.Describe())
		}
		s.reporter.Info("Descargando %s [%s]", name, c.Stream.Describe())

		staging.MarkWriting(a)
		if err := s.fetchWithRetry(ctx, req.URL, c.Stream, a.StagingPath, s.reporter.ByteProgress(name)); err != nil {
			return nil, err
		}
		if err := staging.MarkStaged(a); err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, apperr.Interrupted(err)
	}
	if err := staging.Commit(); err != nil {
		return nil, err
	}
	committed = true

	s.logger.Debug("download committed", zap.Int("files", len(planned)), zap.String("dir", req.OutputDir))
	return staging.Artifacts(), nil
}

// fetchWithRetry attempts a transfer with retry logic. Only transient
// failures are retried; the partial file left by the client is resumed.
func (s *Service) fetchWithRetry(ctx context.Context, url string, stream model.Stream, dst string, obs model.ProgressObserver) error {
	var lastErr error

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			// Backoff delay
			select {
			case <-time.After(s.retryDelay):
			case <-ctx.Done():
				return apperr.Interrupted(ctx.Err())
			}

			s.logger.Info("retrying download", zap.Int("itag", stream.Itag), zap.Int("attempt", attempt+1))
		}

		err := s.platform.Fetch(ctx, url, stream, dst, obs)
		if err == nil {
			return nil
		}

		lastErr = s.classify(ctx, err, "falló la descarga")
		s.logger.Warn("download attempt failed",
			zap.Int("itag", stream.Itag),
			zap.Int("attempt", attempt+1),
			zap.Error(err))

		// Check if we should retry
		if !apperr.Is(lastErr, apperr.KindResourceUnavailable) {
			return lastErr
		}
	}

	return lastErr
}

// classify makes sure every error leaving the service carries a kind
func (s *Service) classify(ctx context.Context, err error, message string) error {
	if errors.Is(ctx.Err(), context.Canceled) || errors.Is(err, context.Canceled) {
		return apperr.Interrupted(err)
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperr.Wrap(apperr.KindResourceUnavailable, err, "%s", message)
}

func artifactRole(role model.StreamRole) model.ArtifactRole {
	if role == model.RoleAudio {
		return model.ArtifactAudio
	}
	return model.ArtifactVideo
}
