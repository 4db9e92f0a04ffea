package model

// ArtifactStatus represents the lifecycle state of an output file
type ArtifactStatus string

const (
	// ArtifactPending means the artifact is planned but nothing was written yet
	ArtifactPending ArtifactStatus = "Pending"

	// ArtifactWriting means bytes are being written to the staging path
	ArtifactWriting ArtifactStatus = "Writing"

	// ArtifactStaged means the staging file is complete and awaits commit
	ArtifactStaged ArtifactStatus = "Staged"

	// ArtifactCommitted means the file was moved to its final path
	ArtifactCommitted ArtifactStatus = "Committed"

	// ArtifactDiscarded means the artifact was rolled back and removed
	ArtifactDiscarded ArtifactStatus = "Discarded"
)

// String returns the string representation of ArtifactStatus
func (s ArtifactStatus) String() string {
	return string(s)
}

// IsActive returns true if the artifact may still have bytes on disk that are
// not yet visible under the final name
func (s ArtifactStatus) IsActive() bool {
	return s == ArtifactWriting || s == ArtifactStaged
}

// IsFinished returns true if the artifact reached a terminal state
func (s ArtifactStatus) IsFinished() bool {
	return s == ArtifactCommitted || s == ArtifactDiscarded
}
