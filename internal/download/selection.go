package download

import (
	"sort"
	"strings"

	"github.com/ytget/yt-toolkit/internal/apperr"
	"github.com/ytget/yt-toolkit/internal/model"
	"github.com/ytget/yt-toolkit/internal/platform"
)

// Frame rate assumed for streams whose label does not carry one
const DefaultFPS = 30

// AudioSuffix disambiguates the audio file when it would share the video name
const AudioSuffix = "_audio"

// SelectStreams picks one stream per requested artifact. Video comes first.
func SelectStreams(streams []model.Stream, format model.MediaFormat, quality model.Quality) ([]model.StreamChoice, error) {
	var choices []model.StreamChoice

	if format.WantsVideo() {
		s, err := selectVideo(streams, quality)
		if err != nil {
			return nil, err
		}
		choices = append(choices, model.StreamChoice{Stream: s, Role: model.RoleVideo})
	}

	if format.WantsAudio() {
		s, err := selectAudio(streams)
		if err != nil {
			return nil, err
		}
		choices = append(choices, model.StreamChoice{Stream: s, Role: model.RoleAudio})
	}

	return choices, nil
}

func selectVideo(streams []model.Stream, quality model.Quality) (model.Stream, error) {
	progressive := filterKind(streams, model.StreamProgressive)
	videoOnly := filterKind(streams, model.StreamVideoOnly)

	switch quality.Preset {
	case model.QualityHigh, model.QualityLow:
		for _, candidates := range [][]model.Stream{progressive, videoOnly} {
			if len(candidates) == 0 {
				continue
			}
			sortByQuality(candidates)
			if quality.Preset == model.QualityHigh {
				return candidates[len(candidates)-1], nil
			}
			return candidates[0], nil
		}
		return model.Stream{}, apperr.New(apperr.KindConstraintUnsatisfiable, "el video no ofrece streams de video")

	case model.QualityResolution:
		for _, candidates := range [][]model.Stream{progressive, videoOnly} {
			matches := filterResolution(candidates, quality.Height, quality.FPS)
			if len(matches) == 0 {
				continue
			}
			sortByQuality(matches)
			return matches[len(matches)-1], nil
		}
		return model.Stream{}, apperr.New(apperr.KindConstraintUnsatisfiable,
			"no hay un stream de video en %s (disponibles: %s)", quality.Label, availableLabels(streams))
	}

	return model.Stream{}, apperr.Usage("calidad no soportada: %s", quality)
}

func selectAudio(streams []model.Stream) (model.Stream, error) {
	audio := filterKind(streams, model.StreamAudioOnly)
	if len(audio) == 0 {
		return model.Stream{}, apperr.New(apperr.KindConstraintUnsatisfiable, "el video no ofrece streams de audio")
	}
	sort.SliceStable(audio, func(i, j int) bool {
		return audio[i].Bitrate < audio[j].Bitrate
	})
	return audio[len(audio)-1], nil
}

// planNames returns the final file name for each choice
func planNames(title string, choices []model.StreamChoice) []string {
	base := platform.SanitizeFileName(title)
	names := make([]string, len(choices))
	for i, c := range choices {
		names[i] = base + "." + c.Stream.Ext()
	}
	for i, c := range choices {
		if c.Role != model.RoleAudio {
			continue
		}
		for j := range choices {
			if j != i && names[j] == names[i] {
				names[i] = base + AudioSuffix + "." + c.Stream.Ext()
				break
			}
		}
	}
	return names
}

func filterKind(streams []model.Stream, kind model.StreamKind) []model.Stream {
	var out []model.Stream
	for _, s := range streams {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

func filterResolution(streams []model.Stream, height, fps int) []model.Stream {
	var out []model.Stream
	for _, s := range streams {
		if s.Height != height {
			continue
		}
		if fps != 0 && effectiveFPS(s) != fps {
			continue
		}
		out = append(out, s)
	}
	return out
}

func effectiveFPS(s model.Stream) int {
	if s.FPS == 0 {
		return DefaultFPS
	}
	return s.FPS
}

// sortByQuality orders streams from lowest to highest height, then fps, then bitrate
func sortByQuality(streams []model.Stream) {
	sort.SliceStable(streams, func(i, j int) bool {
		a, b := streams[i], streams[j]
		if a.Height != b.Height {
			return a.Height < b.Height
		}
		if effectiveFPS(a) != effectiveFPS(b) {
			return effectiveFPS(a) < effectiveFPS(b)
		}
		return a.Bitrate < b.Bitrate
	})
}

func availableLabels(streams []model.Stream) string {
	seen := map[string]bool{}
	var labels []string
	video := append(filterKind(streams, model.StreamProgressive), filterKind(streams, model.StreamVideoOnly)...)
	sortByQuality(video)
	for _, s := range video {
		if s.Label == "" || seen[s.Label] {
			continue
		}
		seen[s.Label] = true
		labels = append(labels, s.Label)
	}
	if len(labels) == 0 {
		return "ninguno"
	}
	return strings.Join(labels, ", ")
}
