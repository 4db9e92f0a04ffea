package trim

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ytget/yt-toolkit/internal/apperr"
	"github.com/ytget/yt-toolkit/internal/model"
	"github.com/ytget/yt-toolkit/internal/platform"
)

// PartNameFormat names the intermediate clips of a merge
const PartNameFormat = "part_%03d%s"

// Service handles trim operations
type Service struct {
	editor   Editor
	reporter Reporter
	logger   *zap.Logger
}

// NewService creates a new trim service
func NewService(editor Editor, reporter Reporter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{editor: editor, reporter: reporter, logger: logger}
}

// Run cuts job.Ranges out of job.InputPath. Either every output is written to
// job.OutputDir or none is.
func (s *Service) Run(ctx context.Context, job model.TrimJob) ([]*model.Artifact, error) {
	if err := job.Validate(); err != nil {
		return nil, apperr.Wrap(apperr.KindUsage, err, "trabajo no válido")
	}

	if err := checkInput(job.InputPath); err != nil {
		return nil, err
	}
	if err := platform.CreateDirectoryIfNotExists(job.OutputDir); err != nil {
		return nil, apperr.Wrap(apperr.KindIO, err, "no se pudo crear el directorio %s", job.OutputDir)
	}
	if err := ctx.Err(); err != nil {
		return nil, apperr.Interrupted(err)
	}

	info, err := s.editor.Probe(ctx, job.InputPath)
	if err != nil {
		return nil, classify(ctx, err, apperr.KindResourceUnavailable, "no se pudo analizar el archivo")
	}
	if err := checkMedia(job, info); err != nil {
		return nil, err
	}

	staging := platform.NewStaging(job.OutputDir, job.Overwrite, s.logger)
	planned := make([]*model.Artifact, 0, len(job.Ranges))
	role := model.ArtifactClip
	if job.Merge {
		role = model.ArtifactMerged
	}
	for _, name := range job.OutputNames() {
		a, err := staging.Plan(role, name)
		if err != nil {
			return nil, err
		}
		planned = append(planned, a)
	}

	committed := false
	defer func() {
		if !committed {
			staging.Rollback()
		}
	}()

	if job.Merge {
		err = s.extractMerged(ctx, job, staging, planned[0])
	} else {
		err = s.extractClips(ctx, job, staging, planned)
	}
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, apperr.Interrupted(err)
	}
	if err := staging.Commit(); err != nil {
		return nil, err
	}
	committed = true

	s.logger.Debug("trim committed", zap.Int("files", len(planned)), zap.String("dir", job.OutputDir))
	return staging.Artifacts(), nil
}

func (s *Service) extractClips(ctx context.Context, job model.TrimJob, staging *platform.Staging, planned []*model.Artifact) error {
	for i, rng := range job.Ranges {
		a := planned[i]
		label := fmt.Sprintf("%s [%s]", filepath.Base(a.Path), rng)
		s.reporter.Info("Recortando %s", label)

		staging.MarkWriting(a)
		if err := s.extract(ctx, job, rng, a.StagingPath, label); err != nil {
			return err
		}
		if err := staging.MarkStaged(a); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) extractMerged(ctx context.Context, job model.TrimJob, staging *platform.Staging, merged *model.Artifact) error {
	staging.MarkWriting(merged)

	if len(job.Ranges) == 1 {
		rng := job.Ranges[0]
		s.reporter.Info("Recortando %s [%s]", filepath.Base(merged.Path), rng)
		if err := s.extract(ctx, job, rng, merged.StagingPath, filepath.Base(merged.Path)); err != nil {
			return err
		}
		return staging.MarkStaged(merged)
	}

	work, err := staging.TempDir()
	if err != nil {
		return err
	}
	defer os.RemoveAll(work)

	parts := make([]string, len(job.Ranges))
	for i, rng := range job.Ranges {
		parts[i] = filepath.Join(work, fmt.Sprintf(PartNameFormat, i+1, job.Ext()))
		label := fmt.Sprintf("parte %d/%d [%s]", i+1, len(job.Ranges), rng)
		s.reporter.Info("Recortando %s", label)
		if err := s.extract(ctx, job, rng, parts[i], label); err != nil {
			return err
		}
	}

	s.reporter.Info("Uniendo %d partes en %s", len(parts), filepath.Base(merged.Path))
	if err := s.editor.Concat(ctx, parts, merged.StagingPath); err != nil {
		return classify(ctx, err, apperr.KindIO, "no se pudieron unir los recortes")
	}
	return staging.MarkStaged(merged)
}

func (s *Service) extract(ctx context.Context, job model.TrimJob, rng model.TimeRange, dst, label string) error {
	err := s.editor.Extract(ctx, job.InputPath, job.Kind(), rng, dst, s.reporter.MediaProgress(label))
	if err != nil {
		s.logger.Warn("extract failed", zap.String("range", rng.String()), zap.Error(err))
		return classify(ctx, err, apperr.KindIO, "no se pudo recortar el rango "+rng.String())
	}
	return nil
}

// checkInput requires the input to be an existing regular file
func checkInput(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return apperr.Wrap(apperr.KindResourceUnavailable, err, "el archivo %s no existe", path)
		}
		return apperr.Wrap(apperr.KindResourceUnavailable, err, "no se pudo acceder a %s", path)
	}
	if !info.Mode().IsRegular() {
		return apperr.New(apperr.KindResourceUnavailable, "%s no es un archivo regular", path)
	}
	return nil
}

// checkMedia validates the ranges against what the probe found
func checkMedia(job model.TrimJob, info *model.MediaInfo) error {
	if job.Kind() == model.MediaAudio && !info.HasAudio {
		return apperr.New(apperr.KindResourceUnavailable, "%s no contiene audio", filepath.Base(job.InputPath))
	}
	if job.Kind() == model.MediaVideo && !info.HasVideo {
		return apperr.New(apperr.KindResourceUnavailable, "%s no contiene video", filepath.Base(job.InputPath))
	}
	if info.Duration <= 0 {
		return nil
	}
	for i, rng := range job.Ranges {
		if rng.End > info.Duration {
			return apperr.New(apperr.KindConstraintUnsatisfiable,
				"el rango %d (%s) excede la duración del archivo (%s)", i+1, rng, model.FormatTimestamp(info.Duration))
		}
	}
	return nil
}

// classify makes sure every error leaving the service carries a kind
func classify(ctx context.Context, err error, fallback apperr.Kind, message string) error {
	if errors.Is(ctx.Err(), context.Canceled) || errors.Is(err, context.Canceled) {
		return apperr.Interrupted(err)
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperr.Wrap(fallback, err, "%s", message)
}
