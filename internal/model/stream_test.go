package model

import "testing"

func TestClassifyMime(t *testing.T) {
	tests := []struct {
		mime     string
		expected StreamKind
	}{
		{`video/mp4; codecs="avc1.42001E, mp4a.40.2"`, StreamProgressive},
		{`video/mp4; codecs="avc1.640028"`, StreamVideoOnly},
		{`video/webm; codecs="vp9"`, StreamVideoOnly},
		{`audio/mp4; codecs="mp4a.40.2"`, StreamAudioOnly},
		{`audio/webm; codecs="opus"`, StreamAudioOnly},
		{"video/mp4", StreamVideoOnly},
	}

	for _, test := range tests {
		if got := ClassifyMime(test.mime); got != test.expected {
			t.Errorf("ClassifyMime(%q) = %s, expected %s", test.mime, got, test.expected)
		}
	}
}

func TestParseQualityLabel(t *testing.T) {
	tests := []struct {
		label  string
		height int
		fps    int
	}{
		{"720p", 720, 0},
		{"1080p60", 1080, 60},
		{"144p", 144, 0},
		{"", 0, 0},
		{"hd720", 0, 0},
	}

	for _, test := range tests {
		h, fps := ParseQualityLabel(test.label)
		if h != test.height || fps != test.fps {
			t.Errorf("ParseQualityLabel(%q) = (%d, %d), expected (%d, %d)", test.label, h, fps, test.height, test.fps)
		}
	}
}

func TestStream_Ext(t *testing.T) {
	tests := []struct {
		mime     string
		expected string
	}{
		{"", "mp4"},
		{`video/mp4; codecs="avc1"`, "mp4"},
		{`audio/mp4; codecs="mp4a.40.2"`, "m4a"},
		{`audio/webm; codecs="opus"`, "webm"},
		{"video/3gpp", "3gpp"},
	}

	for _, test := range tests {
		s := Stream{MimeType: test.mime}
		if got := s.Ext(); got != test.expected {
			t.Errorf("Stream{MimeType: %q}.Ext() = %s, expected %s", test.mime, got, test.expected)
		}
	}
}

func TestNewStream(t *testing.T) {
	s := NewStream(22, `video/mp4; codecs="avc1.64001F, mp4a.40.2"`, "720p", 1500000, 1024)

	if s.Kind != StreamProgressive {
		t.Errorf("Expected progressive stream, got %s", s.Kind)
	}
	if s.Height != 720 {
		t.Errorf("Expected height 720, got %d", s.Height)
	}
	if !s.HasVideo() {
		t.Error("Expected progressive stream to have video")
	}
	if s.Describe() != "720p mp4" {
		t.Errorf("Expected '720p mp4', got '%s'", s.Describe())
	}
}
