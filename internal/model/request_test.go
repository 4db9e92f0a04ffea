package model

import "testing"

func TestParseMediaFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected MediaFormat
		wantErr  bool
	}{
		{"", FormatVideo, false},
		{"video", FormatVideo, false},
		{"AUDIO", FormatAudio, false},
		{" ambos ", FormatBoth, false},
		{"both", "", true},
		{"mp3", "", true},
	}

	for _, test := range tests {
		result, err := ParseMediaFormat(test.input)
		if test.wantErr {
			if err == nil {
				t.Errorf("ParseMediaFormat(%q) expected error, got %s", test.input, result)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMediaFormat(%q) unexpected error: %v", test.input, err)
			continue
		}
		if result != test.expected {
			t.Errorf("ParseMediaFormat(%q) = %s, expected %s", test.input, result, test.expected)
		}
	}
}

func TestMediaFormat_Wants(t *testing.T) {
	if !FormatBoth.WantsVideo() || !FormatBoth.WantsAudio() {
		t.Error("ambos should want video and audio")
	}
	if FormatVideo.WantsAudio() {
		t.Error("video should not want audio")
	}
	if FormatAudio.WantsVideo() {
		t.Error("audio should not want video")
	}
}

func TestParseQuality(t *testing.T) {
	tests := []struct {
		input   string
		preset  QualityPreset
		height  int
		fps     int
		wantErr bool
	}{
		{"", QualityHigh, 0, 0, false},
		{"alta", QualityHigh, 0, 0, false},
		{"Baja", QualityLow, 0, 0, false},
		{"720p", QualityResolution, 720, 0, false},
		{"1080p60", QualityResolution, 1080, 60, false},
		{"2160P", QualityResolution, 2160, 0, false},
		{"media", "", 0, 0, true},
		{"720", "", 0, 0, true},
		{"p720", "", 0, 0, true},
		{"72p", "", 0, 0, true},
	}

	for _, test := range tests {
		q, err := ParseQuality(test.input)
		if test.wantErr {
			if err == nil {
				t.Errorf("ParseQuality(%q) expected error, got %+v", test.input, q)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseQuality(%q) unexpected error: %v", test.input, err)
			continue
		}
		if q.Preset != test.preset || q.Height != test.height || q.FPS != test.fps {
			t.Errorf("ParseQuality(%q) = %+v, expected preset=%s height=%d fps=%d",
				test.input, q, test.preset, test.height, test.fps)
		}
	}
}

func TestQuality_String(t *testing.T) {
	q, err := ParseQuality("1080p60")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if q.String() != "1080p60" {
		t.Errorf("Expected '1080p60', got '%s'", q.String())
	}

	if (Quality{Preset: QualityLow}).String() != "baja" {
		t.Error("Expected 'baja' for low preset")
	}
}
