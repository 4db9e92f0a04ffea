package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// StreamKind distinguishes muxed streams from adaptive ones
type StreamKind string

const (
	// StreamProgressive carries both audio and video
	StreamProgressive StreamKind = "progressive"
	StreamVideoOnly   StreamKind = "video-only"
	StreamAudioOnly   StreamKind = "audio-only"
)

// Default extension used when the MIME type is unknown
const DefaultStreamExt = "mp4"

var labelRe = regexp.MustCompile(`([0-9]{3,4})p([0-9]{2})?`)

// Stream is one downloadable rendition offered by the platform
type Stream struct {
	Itag     int
	MimeType string
	Label    string // quality label, e.g. "720p60"; empty for audio
	Height   int
	FPS      int
	Bitrate  int
	Size     int64 // bytes, zero when unknown
	Kind     StreamKind
}

// NewStream builds a Stream and derives kind, height and fps from the MIME type
// and quality label
func NewStream(itag int, mimeType, label string, bitrate int, size int64) Stream {
	height, fps := ParseQualityLabel(label)
	return Stream{
		Itag:     itag,
		MimeType: mimeType,
		Label:    label,
		Height:   height,
		FPS:      fps,
		Bitrate:  bitrate,
		Size:     size,
		Kind:     ClassifyMime(mimeType),
	}
}

// ClassifyMime derives the stream kind from a MIME type such as
// `video/mp4; codecs="avc1.42001E, mp4a.40.2"`. A video MIME type listing more
// than one codec is a progressive stream.
func ClassifyMime(mime string) StreamKind {
	base, params, _ := strings.Cut(strings.ToLower(strings.TrimSpace(mime)), ";")
	if strings.HasPrefix(base, "audio/") {
		return StreamAudioOnly
	}
	_, codecs, found := strings.Cut(params, "codecs=")
	if found && strings.Contains(codecs, ",") {
		return StreamProgressive
	}
	return StreamVideoOnly
}

// ParseQualityLabel extracts height and fps from a label like "1080p60"
func ParseQualityLabel(label string) (height, fps int) {
	m := labelRe.FindStringSubmatch(label)
	if m == nil {
		return 0, 0
	}
	height, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		fps, _ = strconv.Atoi(m[2])
	}
	return height, fps
}

// HasVideo reports whether the stream carries a video track
func (s Stream) HasVideo() bool {
	return s.Kind == StreamProgressive || s.Kind == StreamVideoOnly
}

// Ext returns the file extension (without dot) matching the stream container
func (s Stream) Ext() string {
	base, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(s.MimeType)), ";")
	switch strings.TrimSpace(base) {
	case "", "video/mp4":
		return DefaultStreamExt
	case "audio/mp4":
		return "m4a"
	case "video/webm", "audio/webm":
		return "webm"
	}
	if _, sub, ok := strings.Cut(base, "/"); ok && sub != "" {
		return sub
	}
	return DefaultStreamExt
}

// Describe returns a short human readable summary used in console output
func (s Stream) Describe() string {
	if s.Kind == StreamAudioOnly {
		return fmt.Sprintf("%d kbps %s", s.Bitrate/1000, s.Ext())
	}
	if s.Label != "" {
		return fmt.Sprintf("%s %s", s.Label, s.Ext())
	}
	return s.Ext()
}

// Video is the platform metadata for one URL
type Video struct {
	ID       string
	Title    string
	Author   string
	Duration time.Duration
	Streams  []Stream
}

// StreamRole tells which artifact a selected stream produces
type StreamRole string

const (
	RoleVideo StreamRole = "video"
	RoleAudio StreamRole = "audio"
)

// StreamChoice is a stream selected for one requested artifact
type StreamChoice struct {
	Stream Stream
	Role   StreamRole
}
