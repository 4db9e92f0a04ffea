package download

import (
	"testing"

	"github.com/ytget/yt-toolkit/internal/apperr"
	"github.com/ytget/yt-toolkit/internal/model"
)

const (
	mimeMuxed     = `video/mp4; codecs="avc1.42001E, mp4a.40.2"`
	mimeVideoMP4  = `video/mp4; codecs="avc1.640028"`
	mimeVideoWebm = `video/webm; codecs="vp9"`
	mimeAudioMP4  = `audio/mp4; codecs="mp4a.40.2"`
	mimeAudioWebm = `audio/webm; codecs="opus"`
)

func testStreams() []model.Stream {
	return []model.Stream{
		model.NewStream(18, mimeMuxed, "360p", 500000, 0),
		model.NewStream(22, mimeMuxed, "720p", 1500000, 0),
		model.NewStream(137, mimeVideoMP4, "1080p", 4000000, 0),
		model.NewStream(299, mimeVideoMP4, "1080p60", 6000000, 0),
		model.NewStream(248, mimeVideoWebm, "1080p", 3500000, 0),
		model.NewStream(136, mimeVideoMP4, "720p", 2000000, 0),
		model.NewStream(140, mimeAudioMP4, "", 128000, 0),
		model.NewStream(251, mimeAudioWebm, "", 160000, 0),
		model.NewStream(139, mimeAudioMP4, "", 48000, 0),
	}
}

func mustQuality(t *testing.T, token string) model.Quality {
	t.Helper()
	q, err := model.ParseQuality(token)
	if err != nil {
		t.Fatalf("ParseQuality(%q) failed: %v", token, err)
	}
	return q
}

func TestSelectStreams(t *testing.T) {
	tests := []struct {
		name     string
		streams  []model.Stream
		format   model.MediaFormat
		quality  string
		expected []int
	}{
		{"video alta prefers progressive", testStreams(), model.FormatVideo, "alta", []int{22}},
		{"video baja", testStreams(), model.FormatVideo, "baja", []int{18}},
		{"video default quality", testStreams(), model.FormatVideo, "", []int{22}},
		{"explicit progressive resolution", testStreams(), model.FormatVideo, "360p", []int{18}},
		{"resolution prefers progressive", testStreams(), model.FormatVideo, "720p", []int{22}},
		{"resolution falls back to video-only", testStreams(), model.FormatVideo, "1080p", []int{299}},
		{"resolution with fps", testStreams(), model.FormatVideo, "1080p60", []int{299}},
		{"resolution with default fps", testStreams(), model.FormatVideo, "1080p30", []int{137}},
		{"audio ignores quality", testStreams(), model.FormatAudio, "baja", []int{251}},
		{"both", testStreams(), model.FormatBoth, "alta", []int{22, 251}},
		{
			"alta without progressive",
			[]model.Stream{
				model.NewStream(136, mimeVideoMP4, "720p", 2000000, 0),
				model.NewStream(137, mimeVideoMP4, "1080p", 4000000, 0),
			},
			model.FormatVideo, "alta", []int{137},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			choices, err := SelectStreams(tt.streams, tt.format, mustQuality(t, tt.quality))
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(choices) != len(tt.expected) {
				t.Fatalf("Expected %d choices, got %d", len(tt.expected), len(choices))
			}
			for i, itag := range tt.expected {
				if choices[i].Stream.Itag != itag {
					t.Errorf("Choice %d: expected itag %d, got %d", i, itag, choices[i].Stream.Itag)
				}
			}
			if tt.format == model.FormatBoth {
				if choices[0].Role != model.RoleVideo || choices[1].Role != model.RoleAudio {
					t.Errorf("Expected video then audio, got %s then %s", choices[0].Role, choices[1].Role)
				}
			}
		})
	}
}

func TestSelectStreamsUnsatisfiable(t *testing.T) {
	audioOnly := []model.Stream{model.NewStream(140, mimeAudioMP4, "", 128000, 0)}
	videoOnly := []model.Stream{model.NewStream(22, mimeMuxed, "720p", 1500000, 0)}

	tests := []struct {
		name    string
		streams []model.Stream
		format  model.MediaFormat
		quality string
	}{
		{"missing resolution", testStreams(), model.FormatVideo, "480p"},
		{"missing fps", testStreams(), model.FormatVideo, "720p60"},
		{"no video streams", audioOnly, model.FormatVideo, "alta"},
		{"no audio streams", videoOnly, model.FormatAudio, "alta"},
		{"both with missing audio", videoOnly, model.FormatBoth, "alta"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SelectStreams(tt.streams, tt.format, mustQuality(t, tt.quality))
			if !apperr.Is(err, apperr.KindConstraintUnsatisfiable) {
				t.Errorf("Expected constraint error, got %v", err)
			}
		})
	}
}

func TestPlanNames(t *testing.T) {
	video := model.StreamChoice{Stream: model.NewStream(22, mimeMuxed, "720p", 0, 0), Role: model.RoleVideo}
	webmVideo := model.StreamChoice{Stream: model.NewStream(248, mimeVideoWebm, "1080p", 0, 0), Role: model.RoleVideo}
	audio := model.StreamChoice{Stream: model.NewStream(140, mimeAudioMP4, "", 0, 0), Role: model.RoleAudio}
	webmAudio := model.StreamChoice{Stream: model.NewStream(251, mimeAudioWebm, "", 0, 0), Role: model.RoleAudio}

	tests := []struct {
		name     string
		title    string
		choices  []model.StreamChoice
		expected []string
	}{
		{"video", "Mi Video: parte 1", []model.StreamChoice{video}, []string{"Mi Video parte 1.mp4"}},
		{"audio", "Tema", []model.StreamChoice{audio}, []string{"Tema.m4a"}},
		{"both distinct", "Tema", []model.StreamChoice{video, audio}, []string{"Tema.mp4", "Tema.m4a"}},
		{"both same ext", "Tema", []model.StreamChoice{webmVideo, webmAudio}, []string{"Tema.webm", "Tema_audio.webm"}},
		{"empty title", "???", []model.StreamChoice{video}, []string{"video.mp4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			names := planNames(tt.title, tt.choices)
			for i := range tt.expected {
				if names[i] != tt.expected[i] {
					t.Errorf("Name %d: expected %q, got %q", i, tt.expected[i], names[i])
				}
			}
		})
	}
}
