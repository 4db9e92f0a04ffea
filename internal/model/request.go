package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MediaFormat selects which streams the downloader writes
type MediaFormat string

const (
	FormatVideo MediaFormat = "video"
	FormatAudio MediaFormat = "audio"
	FormatBoth  MediaFormat = "ambos"
)

// QualityPreset is the policy used to pick a video stream
type QualityPreset string

const (
	QualityHigh       QualityPreset = "alta"
	QualityLow        QualityPreset = "baja"
	QualityResolution QualityPreset = "resolution"
)

// Default values
const (
	DefaultFormat  = FormatVideo
	DefaultQuality = QualityHigh
)

var resolutionRe = regexp.MustCompile(`^([0-9]{3,4})p([0-9]{2})?$`)

// ParseMediaFormat converts a CLI token into a MediaFormat
func ParseMediaFormat(s string) (MediaFormat, error) {
	switch MediaFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultFormat, nil
	case FormatVideo:
		return FormatVideo, nil
	case FormatAudio:
		return FormatAudio, nil
	case FormatBoth:
		return FormatBoth, nil
	}
	return "", fmt.Errorf("formato no reconocido %q (use video, audio o ambos)", s)
}

// WantsVideo reports whether a video artifact is requested
func (f MediaFormat) WantsVideo() bool {
	return f == FormatVideo || f == FormatBoth
}

// WantsAudio reports whether an audio artifact is requested
func (f MediaFormat) WantsAudio() bool {
	return f == FormatAudio || f == FormatBoth
}

// Quality is a parsed --calidad value
type Quality struct {
	Preset QualityPreset
	// Label is the resolution token as typed, e.g. "720p" or "1080p60"
	Label  string
	Height int
	// FPS is zero when the token did not pin a frame rate
	FPS int
}

// ParseQuality converts a CLI token into a Quality. An empty token selects the
// highest quality.
func ParseQuality(s string) (Quality, error) {
	token := strings.ToLower(strings.TrimSpace(s))
	switch QualityPreset(token) {
	case "":
		return Quality{Preset: DefaultQuality}, nil
	case QualityHigh:
		return Quality{Preset: QualityHigh}, nil
	case QualityLow:
		return Quality{Preset: QualityLow}, nil
	}

	m := resolutionRe.FindStringSubmatch(token)
	if m == nil {
		return Quality{}, fmt.Errorf("calidad no reconocida %q (use alta, baja o una resolución como 720p)", s)
	}
	height, _ := strconv.Atoi(m[1])
	fps := 0
	if m[2] != "" {
		fps, _ = strconv.Atoi(m[2])
	}
	return Quality{Preset: QualityResolution, Label: token, Height: height, FPS: fps}, nil
}

// String returns the token the quality was parsed from
func (q Quality) String() string {
	if q.Preset == QualityResolution {
		return q.Label
	}
	return string(q.Preset)
}

// DownloadRequest describes one downloader invocation
type DownloadRequest struct {
	URL       string
	Format    MediaFormat
	Quality   Quality
	OutputDir string
	// Overwrite allows replacing files that already exist at the final paths
	Overwrite bool
}
