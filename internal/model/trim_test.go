package model

import (
	"testing"
	"time"
)

func TestMediaKindForPath(t *testing.T) {
	tests := []struct {
		path     string
		expected MediaKind
	}{
		{"video.mp4", MediaVideo},
		{"/a/b/Clip.MKV", MediaVideo},
		{"song.mp3", MediaAudio},
		{"voice.M4A", MediaAudio},
		{"doc.txt", MediaUnsupported},
		{"noext", MediaUnsupported},
	}

	for _, test := range tests {
		if got := MediaKindForPath(test.path); got != test.expected {
			t.Errorf("MediaKindForPath(%q) = %q, expected %q", test.path, got, test.expected)
		}
	}
}

func TestTrimJob_OutputNames(t *testing.T) {
	ranges := []TimeRange{
		{Start: 10 * time.Second, End: 25 * time.Second},
		{Start: 90 * time.Second, End: 105 * time.Second},
	}

	split := TrimJob{InputPath: "video.mp4", Ranges: ranges, OutputBaseName: "cut"}
	names := split.OutputNames()
	if len(names) != len(ranges) {
		t.Fatalf("Expected %d names, got %d", len(ranges), len(names))
	}
	if names[0] != "cut_clip_1.mp4" || names[1] != "cut_clip_2.mp4" {
		t.Errorf("Unexpected names: %v", names)
	}

	merged := TrimJob{InputPath: "audio.MP3", Ranges: ranges, OutputBaseName: "edited", Merge: true}
	names = merged.OutputNames()
	if len(names) != 1 || names[0] != "edited_unido.mp3" {
		t.Errorf("Unexpected merged names: %v", names)
	}
}

func TestTrimJob_Validate(t *testing.T) {
	good := []TimeRange{{Start: 0, End: time.Second}}

	tests := []struct {
		name    string
		job     TrimJob
		wantErr bool
	}{
		{"valid", TrimJob{InputPath: "a.mp4", Ranges: good, OutputBaseName: "x"}, false},
		{"no input", TrimJob{Ranges: good, OutputBaseName: "x"}, true},
		{"no ranges", TrimJob{InputPath: "a.mp4", OutputBaseName: "x"}, true},
		{"empty base", TrimJob{InputPath: "a.mp4", Ranges: good}, true},
		{"base with separator", TrimJob{InputPath: "a.mp4", Ranges: good, OutputBaseName: "../x"}, true},
		{"unsupported ext", TrimJob{InputPath: "a.txt", Ranges: good, OutputBaseName: "x"}, true},
		{"inverted range", TrimJob{InputPath: "a.mp4", Ranges: []TimeRange{{Start: 2 * time.Second, End: time.Second}}, OutputBaseName: "x"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.job.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
