package model

// ArtifactRole names what an output file contains
type ArtifactRole string

const (
	ArtifactVideo  ArtifactRole = "video"
	ArtifactAudio  ArtifactRole = "audio"
	ArtifactClip   ArtifactRole = "clip"
	ArtifactMerged ArtifactRole = "merged"
)

// Artifact is one output file. Bytes are written to StagingPath and only
// renamed to Path once the whole job succeeded.
type Artifact struct {
	Role        ArtifactRole
	Path        string
	StagingPath string
	Status      ArtifactStatus
	Size        int64
}

// ProgressObserver receives progress of a long running write. Units are
// chosen by the producer: bytes for downloads, milliseconds of media for
// encodes. total is zero when unknown. Calls happen on the working goroutine
// and must return quickly.
type ProgressObserver interface {
	Progress(done, total int64)
}

// NopObserver discards progress updates
type NopObserver struct{}

// Progress implements ProgressObserver
func (NopObserver) Progress(done, total int64) {}
