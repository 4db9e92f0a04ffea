package model

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// MediaKind tells whether a source file is treated as video or audio
type MediaKind string

const (
	MediaVideo       MediaKind = "video"
	MediaAudio       MediaKind = "audio"
	MediaUnsupported MediaKind = ""
)

// Output name suffixes
const (
	ClipSuffixFormat = "%s_clip_%d%s"
	MergedSuffix     = "_unido"
)

// Supported source extensions
var (
	VideoExtensions = []string{".mp4", ".avi", ".mov", ".mkv", ".webm"}
	AudioExtensions = []string{".mp3", ".wav", ".ogg", ".aac", ".m4a"}
)

// MediaKindForPath classifies a file by its (case-insensitive) extension
func MediaKindForPath(path string) MediaKind {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range VideoExtensions {
		if ext == e {
			return MediaVideo
		}
	}
	for _, e := range AudioExtensions {
		if ext == e {
			return MediaAudio
		}
	}
	return MediaUnsupported
}

// MediaInfo is what the probe learned about a source file
type MediaInfo struct {
	Duration   time.Duration
	FormatName string
	HasVideo   bool
	HasAudio   bool
}

// TrimJob describes one trimmer invocation
type TrimJob struct {
	InputPath string
	// Ranges are processed and numbered in argument order
	Ranges         []TimeRange
	OutputBaseName string
	OutputDir      string
	Merge          bool
	Overwrite      bool
}

// Ext returns the lower-cased input extension including the dot; outputs reuse it
func (j TrimJob) Ext() string {
	return strings.ToLower(filepath.Ext(j.InputPath))
}

// Kind classifies the input file
func (j TrimJob) Kind() MediaKind {
	return MediaKindForPath(j.InputPath)
}

// ClipName returns the file name of the i-th clip (1-based)
func (j TrimJob) ClipName(i int) string {
	return fmt.Sprintf(ClipSuffixFormat, j.OutputBaseName, i, j.Ext())
}

// MergedName returns the file name of the concatenated output
func (j TrimJob) MergedName() string {
	return j.OutputBaseName + MergedSuffix + j.Ext()
}

// OutputNames returns every final file name the job produces, in order
func (j TrimJob) OutputNames() []string {
	if j.Merge {
		return []string{j.MergedName()}
	}
	names := make([]string, 0, len(j.Ranges))
	for i := range j.Ranges {
		names = append(names, j.ClipName(i+1))
	}
	return names
}

// Validate checks the job invariants that do not need the filesystem
func (j TrimJob) Validate() error {
	if strings.TrimSpace(j.InputPath) == "" {
		return fmt.Errorf("falta el archivo de entrada")
	}
	if len(j.Ranges) == 0 {
		return fmt.Errorf("se requiere al menos un rango")
	}
	if strings.TrimSpace(j.OutputBaseName) == "" {
		return fmt.Errorf("el nombre base de salida no puede estar vacío")
	}
	if strings.ContainsAny(j.OutputBaseName, `/\`) {
		return fmt.Errorf("el nombre base %q no puede contener separadores de ruta", j.OutputBaseName)
	}
	if j.Kind() == MediaUnsupported {
		return fmt.Errorf("formato de archivo no soportado: %q", j.Ext())
	}
	for i, r := range j.Ranges {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("rango %d: %w", i+1, err)
		}
	}
	return nil
}
