package platform

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ytget/yt-toolkit/internal/apperr"
	"github.com/ytget/yt-toolkit/internal/model"
)

func writeStaged(t *testing.T, s *Staging, a *model.Artifact, content string) {
	t.Helper()
	s.MarkWriting(a)
	if err := os.WriteFile(a.StagingPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write staging file: %v", err)
	}
	if err := s.MarkStaged(a); err != nil {
		t.Fatalf("MarkStaged failed: %v", err)
	}
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read dir: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestStaging_PlanPaths(t *testing.T) {
	dir := t.TempDir()
	s := NewStaging(dir, false, nil)

	a, err := s.Plan(model.ArtifactClip, "cut_clip_1.mp4")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if a.Path != filepath.Join(dir, "cut_clip_1.mp4") {
		t.Errorf("Unexpected final path: %s", a.Path)
	}
	base := filepath.Base(a.StagingPath)
	if !strings.HasPrefix(base, ".cut_clip_1.") || !strings.HasSuffix(base, ".part.mp4") {
		t.Errorf("Unexpected staging name: %s", base)
	}
	if a.Status != model.ArtifactPending {
		t.Errorf("Expected Pending, got %s", a.Status)
	}
}

func TestStaging_PlanCollision(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "taken.mp4"), []byte("old"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	s := NewStaging(dir, false, nil)
	_, err := s.Plan(model.ArtifactVideo, "taken.mp4")
	if !apperr.Is(err, apperr.KindConstraintUnsatisfiable) {
		t.Errorf("Expected constraint error, got %v", err)
	}

	if _, err := s.Plan(model.ArtifactVideo, "free.mp4"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := s.Plan(model.ArtifactAudio, "free.mp4"); err == nil {
		t.Error("Expected error for duplicate plan")
	}

	overwriting := NewStaging(dir, true, nil)
	if _, err := overwriting.Plan(model.ArtifactVideo, "taken.mp4"); err != nil {
		t.Errorf("Expected overwrite to allow existing file, got %v", err)
	}
}

func TestStaging_Commit(t *testing.T) {
	dir := t.TempDir()
	s := NewStaging(dir, false, nil)

	a1, _ := s.Plan(model.ArtifactClip, "cut_clip_1.mp4")
	a2, _ := s.Plan(model.ArtifactClip, "cut_clip_2.mp4")
	writeStaged(t, s, a1, "one")
	writeStaged(t, s, a2, "two!")

	if err := s.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	names := listDir(t, dir)
	if len(names) != 2 {
		t.Fatalf("Expected exactly 2 files, got %v", names)
	}
	data, err := os.ReadFile(filepath.Join(dir, "cut_clip_2.mp4"))
	if err != nil || string(data) != "two!" {
		t.Errorf("Unexpected content %q (err %v)", data, err)
	}
	if a1.Status != model.ArtifactCommitted || a2.Size != 4 {
		t.Errorf("Unexpected artifact state: %+v", a2)
	}
}

func TestStaging_CommitRequiresAllStaged(t *testing.T) {
	dir := t.TempDir()
	s := NewStaging(dir, false, nil)

	a1, _ := s.Plan(model.ArtifactVideo, "v.mp4")
	_, _ = s.Plan(model.ArtifactAudio, "a.m4a")
	writeStaged(t, s, a1, "video")

	if err := s.Commit(); err == nil {
		t.Fatal("Expected commit to fail with an incomplete artifact")
	}
	if FileExists(filepath.Join(dir, "v.mp4")) {
		t.Error("No file should be committed when one artifact is incomplete")
	}
}

func TestStaging_Rollback(t *testing.T) {
	dir := t.TempDir()
	s := NewStaging(dir, false, nil)

	a1, _ := s.Plan(model.ArtifactVideo, "v.mp4")
	a2, _ := s.Plan(model.ArtifactAudio, "a.m4a")
	writeStaged(t, s, a1, "video")

	// simulate the client library leaving a partial temp file
	if err := os.WriteFile(a2.StagingPath+DownloadTempSuffix, []byte("par"), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}

	s.Rollback()
	s.Rollback()

	if names := listDir(t, dir); len(names) != 0 {
		t.Errorf("Expected empty dir after rollback, got %v", names)
	}
	if a1.Status != model.ArtifactDiscarded || a2.Status != model.ArtifactDiscarded {
		t.Errorf("Expected discarded artifacts, got %s and %s", a1.Status, a2.Status)
	}
}

func TestStaging_RollbackAfterCommit(t *testing.T) {
	dir := t.TempDir()
	s := NewStaging(dir, false, nil)

	a, _ := s.Plan(model.ArtifactMerged, "edited_unido.mp3")
	writeStaged(t, s, a, "audio")
	if err := s.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	s.Rollback()
	if FileExists(a.Path) {
		t.Error("Expected committed file to be removed by rollback")
	}
}

func TestStaging_TempDir(t *testing.T) {
	dir := t.TempDir()
	s := NewStaging(dir, false, nil)

	work, err := s.TempDir()
	if err != nil {
		t.Fatalf("TempDir failed: %v", err)
	}
	if filepath.Dir(work) != dir {
		t.Errorf("Expected work dir inside %s, got %s", dir, work)
	}
	if !strings.HasPrefix(filepath.Base(work), ".") {
		t.Errorf("Expected hidden work dir, got %s", work)
	}
}

func TestStaging_RollbackLogsRemovalFailure(t *testing.T) {
	dir := t.TempDir()
	core, logs := observer.New(zapcore.DebugLevel)
	s := NewStaging(dir, false, zap.New(core))

	a, _ := s.Plan(model.ArtifactClip, "clip.mp4")
	// a non-empty directory at the staging path cannot be removed
	if err := os.MkdirAll(filepath.Join(a.StagingPath, "inner"), 0755); err != nil {
		t.Fatalf("Failed to create blocking dir: %v", err)
	}

	s.Rollback()

	entries := logs.FilterMessage("failed to remove staged file").All()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 removal warning, got %d", len(entries))
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Errorf("Expected warn level, got %s", entries[0].Level)
	}
	if got := entries[0].ContextMap()["path"]; got != a.StagingPath {
		t.Errorf("Expected path %s, got %v", a.StagingPath, got)
	}
	if a.Status != model.ArtifactDiscarded {
		t.Errorf("Expected discarded artifact, got %s", a.Status)
	}
}
