package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ytget/yt-toolkit/internal/apperr"
	"github.com/ytget/yt-toolkit/internal/model"
)

// Staging file naming
const (
	StagingPrefix = "."
	StagingMarker = ".part"
	// DownloadTempSuffix is appended by the client library while bytes arrive
	DownloadTempSuffix = ".tmp"
)

// Staging plans a set of output files and makes them visible all together.
// Every artifact is written to a hidden staging path next to its final path;
// Commit renames them, Rollback removes everything this run produced.
type Staging struct {
	dir       string
	id        string
	overwrite bool
	artifacts []*model.Artifact
	logger    *zap.Logger
}

// NewStaging creates a staging area in dir. When overwrite is false, planning
// or committing onto an existing file fails.
func NewStaging(dir string, overwrite bool, logger *zap.Logger) *Staging {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Staging{
		dir:       dir,
		id:        generateStagingID(),
		overwrite: overwrite,
		logger:    logger,
	}
}

// Dir returns the directory artifacts are written to
func (s *Staging) Dir() string {
	return s.dir
}

// Artifacts returns the planned artifacts in planning order
func (s *Staging) Artifacts() []*model.Artifact {
	return s.artifacts
}

// Plan reserves name inside the staging directory
func (s *Staging) Plan(role model.ArtifactRole, name string) (*model.Artifact, error) {
	finalPath := filepath.Join(s.dir, name)

	for _, a := range s.artifacts {
		if a.Path == finalPath {
			return nil, apperr.New(apperr.KindConstraintUnsatisfiable, "dos salidas comparten el nombre %s", name)
		}
	}
	if !s.overwrite && FileExists(finalPath) {
		return nil, apperr.New(apperr.KindConstraintUnsatisfiable,
			"el archivo %s ya existe (use --sobrescribir para reemplazarlo)", finalPath)
	}

	a := &model.Artifact{
		Role:        role,
		Path:        finalPath,
		StagingPath: s.stagingPath(name),
		Status:      model.ArtifactPending,
	}
	s.artifacts = append(s.artifacts, a)
	return a, nil
}

// MarkWriting records that bytes are going to the staging path
func (s *Staging) MarkWriting(a *model.Artifact) {
	a.Status = model.ArtifactWriting
}

// MarkStaged records that the staging file is complete
func (s *Staging) MarkStaged(a *model.Artifact) error {
	info, err := os.Stat(a.StagingPath)
	if err != nil {
		return apperr.Wrap(apperr.KindIO, err, "no se encontró la salida temporal de %s", filepath.Base(a.Path))
	}
	a.Size = info.Size()
	a.Status = model.ArtifactStaged
	return nil
}

// Commit renames every staged artifact to its final path. If any rename fails
// the artifacts already committed by this call are removed again.
func (s *Staging) Commit() error {
	for _, a := range s.artifacts {
		if a.Status != model.ArtifactStaged {
			return apperr.New(apperr.KindIO, "la salida %s no está completa (%s)", filepath.Base(a.Path), a.Status)
		}
		if !s.overwrite && FileExists(a.Path) {
			return apperr.New(apperr.KindConstraintUnsatisfiable,
				"el archivo %s apareció durante el proceso; no se sobrescribe", a.Path)
		}
	}

	for _, a := range s.artifacts {
		if err := os.Rename(a.StagingPath, a.Path); err != nil {
			return apperr.Wrap(apperr.KindIO, err, "no se pudo guardar %s", a.Path)
		}
		a.Status = model.ArtifactCommitted
	}
	return nil
}

// Rollback removes staging files, library temp files and anything committed
// by this staging area. It is safe to call more than once.
func (s *Staging) Rollback() {
	for _, a := range s.artifacts {
		if a.Status == model.ArtifactDiscarded {
			continue
		}
		s.removeIfExists(a.StagingPath)
		s.removeIfExists(a.StagingPath + DownloadTempSuffix)
		if a.Status == model.ArtifactCommitted {
			s.removeIfExists(a.Path)
		}
		a.Status = model.ArtifactDiscarded
	}
}

// TempDir creates a private scratch directory inside the staging directory
func (s *Staging) TempDir() (string, error) {
	dir, err := os.MkdirTemp(s.dir, StagingPrefix+"work-")
	if err != nil {
		return "", apperr.Wrap(apperr.KindIO, err, "no se pudo crear un directorio temporal en %s", s.dir)
	}
	return dir, nil
}

func (s *Staging) stagingPath(name string) string {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	// the extension stays last so muxers can infer the container
	return filepath.Join(s.dir, fmt.Sprintf("%s%s.%s%s%s", StagingPrefix, stem, s.id, StagingMarker, ext))
}

func (s *Staging) removeIfExists(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("failed to remove staged file", zap.String("path", path), zap.Error(err))
	}
}

// generateStagingID returns a unique id for staging names using UUID v7
func generateStagingID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to timestamp if UUID generation fails
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return id.String()
}
