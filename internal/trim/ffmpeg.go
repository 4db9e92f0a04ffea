package trim

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
	"go.uber.org/zap"

	"github.com/ytget/yt-toolkit/internal/apperr"
	"github.com/ytget/yt-toolkit/internal/model"
)

// FFmpeg constants for encoding settings
const (
	// Video codec settings
	VideoCodec  = "libx264"
	VideoPreset = "medium"
	VideoCRF    = "23"

	// WebM codec settings
	WebMVideoCodec = "libvpx-vp9"
	WebMVideoCRF   = "32"
	WebMAudioCodec = "libopus"

	// Audio codec settings
	AudioCodec   = "aac"
	AudioBitrate = "128k"

	// Container flags
	FastStartFlag = "+faststart"

	// Executable and I/O constants
	FFmpegCommand      = "ffmpeg"
	FFprobeCommand     = "ffprobe"
	ProgressPipeTarget = "pipe:2"
	ProgressTimePrefix = "out_time_us="
	FirstAudioStream   = "0:a:0"
	ConcatListName     = "concat.txt"
	stderrTailLines    = 5
	probeWaitDelay     = time.Second
)

// probeArgs asks ffprobe for container and stream data as JSON
var probeArgs = ffmpeg.KwArgs{"show_format": "", "show_streams": "", "of": "json"}

// codecProfile is the encoder configuration used for one output container
type codecProfile struct {
	videoCodec string
	audioCodec string
	extra      ffmpeg.KwArgs
}

var (
	h264Profile = codecProfile{
		videoCodec: VideoCodec,
		audioCodec: AudioCodec,
		extra:      ffmpeg.KwArgs{"preset": VideoPreset, "crf": VideoCRF, "b:a": AudioBitrate},
	}

	codecProfiles = map[string]codecProfile{
		".mp4":  withExtra(h264Profile, ffmpeg.KwArgs{"movflags": FastStartFlag}),
		".mov":  withExtra(h264Profile, ffmpeg.KwArgs{"movflags": FastStartFlag}),
		".mkv":  h264Profile,
		".avi":  h264Profile,
		".webm": {videoCodec: WebMVideoCodec, audioCodec: WebMAudioCodec, extra: ffmpeg.KwArgs{"b:v": "0", "crf": WebMVideoCRF, "b:a": AudioBitrate}},
		".mp3":  {audioCodec: "libmp3lame", extra: ffmpeg.KwArgs{"q:a": "2"}},
		".wav":  {audioCodec: "pcm_s16le"},
		".ogg":  {audioCodec: "libvorbis", extra: ffmpeg.KwArgs{"q:a": "5"}},
		".aac":  {audioCodec: AudioCodec, extra: ffmpeg.KwArgs{"b:a": AudioBitrate}},
		".m4a":  {audioCodec: AudioCodec, extra: ffmpeg.KwArgs{"b:a": AudioBitrate}},
	}
)

func withExtra(p codecProfile, extra ffmpeg.KwArgs) codecProfile {
	merged := ffmpeg.KwArgs{}
	for k, v := range p.extra {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	p.extra = merged
	return p
}

// FFmpegEditor implements Editor by running ffmpeg and ffprobe
type FFmpegEditor struct {
	ffmpegPath string
	probePath  string
	logger     *zap.Logger
}

// NewFFmpegEditor creates an editor using the given ffmpeg binary
func NewFFmpegEditor(ffmpegPath string, logger *zap.Logger) *FFmpegEditor {
	if ffmpegPath == "" {
		ffmpegPath = FFmpegCommand
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FFmpegEditor{ffmpegPath: ffmpegPath, probePath: ProbePath(ffmpegPath), logger: logger}
}

// ProbePath returns the ffprobe binary that ships with ffmpegPath
func ProbePath(ffmpegPath string) string {
	dir, base := filepath.Split(ffmpegPath)
	if strings.Contains(base, FFmpegCommand) {
		return dir + strings.Replace(base, FFmpegCommand, FFprobeCommand, 1)
	}
	if dir == "" {
		return FFprobeCommand
	}
	return filepath.Join(dir, FFprobeCommand)
}

// Probe reads the container duration and stream layout with ffprobe
func (e *FFmpegEditor) Probe(ctx context.Context, path string) (*model.MediaInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperr.Interrupted(err)
	}

	args := append(ffmpeg.ConvertKwargsToCmdLineArgs(probeArgs), path)
	e.logger.Debug("running ffprobe", zap.String("bin", e.probePath), zap.Strings("args", args))

	cmd := exec.CommandContext(ctx, e.probePath, args...)
	cmd.WaitDelay = probeWaitDelay
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, apperr.Interrupted(ctx.Err())
		}
		if isNotFound(err) {
			return nil, apperr.Wrap(apperr.KindResourceUnavailable, err, "no se encontró ffprobe (%s)", e.probePath)
		}
		if detail := lastLine(stderr.String()); detail != "" {
			err = fmt.Errorf("%w: %s", err, detail)
		}
		return nil, apperr.Wrap(apperr.KindResourceUnavailable, err, "no se pudo leer %s", filepath.Base(path))
	}
	out := stdout.String()

	info, err := parseProbeOutput(out)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindResourceUnavailable, err, "formato no soportado: %s", filepath.Base(path))
	}
	e.logger.Debug("probed media",
		zap.String("path", path),
		zap.Duration("duration", info.Duration),
		zap.String("format", info.FormatName),
		zap.Bool("video", info.HasVideo),
		zap.Bool("audio", info.HasAudio))
	return info, nil
}

// Extract re-encodes one time range of src into dst
func (e *FFmpegEditor) Extract(ctx context.Context, src string, kind model.MediaKind, rng model.TimeRange, dst string, obs model.ProgressObserver) error {
	args := BuildExtractArgs(src, kind, rng, dst)
	return e.run(ctx, args, rng.Length().Milliseconds(), obs)
}

// Concat joins parts with the concat demuxer and stream copy
func (e *FFmpegEditor) Concat(ctx context.Context, parts []string, dst string) error {
	if len(parts) == 0 {
		return apperr.New(apperr.KindUsage, "no hay partes para unir")
	}
	listPath := filepath.Join(filepath.Dir(parts[0]), ConcatListName)
	if err := WriteConcatList(listPath, parts); err != nil {
		return apperr.Wrap(apperr.KindIO, err, "no se pudo preparar la lista de partes")
	}
	defer os.Remove(listPath)

	return e.run(ctx, BuildConcatArgs(listPath, dst), 0, nil)
}

// BuildExtractArgs builds the ffmpeg arguments for one clip. The input seek
// is placed before -i and the length is given with -t.
func BuildExtractArgs(src string, kind model.MediaKind, rng model.TimeRange, dst string) []string {
	in := ffmpeg.KwArgs{"ss": model.FormatSeconds(rng.Start)}
	out := outputKwArgs(kind, strings.ToLower(filepath.Ext(dst)))
	out["t"] = model.FormatSeconds(rng.Length())

	graph := ffmpeg.Input(src, in).Output(dst, out)
	return append(globalArgs(), graph.GetArgs()...)
}

// BuildConcatArgs builds the ffmpeg arguments to join the files in listPath
func BuildConcatArgs(listPath, dst string) []string {
	graph := ffmpeg.Input(listPath, ffmpeg.KwArgs{"f": "concat", "safe": "0"}).
		Output(dst, ffmpeg.KwArgs{"c": "copy"})
	return append(globalArgs(), graph.GetArgs()...)
}

// WriteConcatList writes a concat demuxer list referencing parts in order
func WriteConcatList(path string, parts []string) error {
	var b strings.Builder
	for _, p := range parts {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		// single quotes are closed, escaped and reopened
		fmt.Fprintf(&b, "file '%s'\n", strings.ReplaceAll(abs, "'", `'\''`))
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

func globalArgs() []string {
	return []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-progress", ProgressPipeTarget,
		"-nostats",
	}
}

func outputKwArgs(kind model.MediaKind, ext string) ffmpeg.KwArgs {
	profile, ok := codecProfiles[ext]
	if !ok {
		profile = h264Profile
	}

	out := ffmpeg.KwArgs{}
	for k, v := range profile.extra {
		out[k] = v
	}
	if kind == model.MediaAudio || profile.videoCodec == "" {
		// cover art and other video streams are dropped from audio outputs
		out["map"] = FirstAudioStream
	} else {
		out["c:v"] = profile.videoCodec
	}
	out["c:a"] = profile.audioCodec
	return out
}

// run executes ffmpeg, forwarding progress to obs. totalMs is the expected
// output length; zero disables progress.
func (e *FFmpegEditor) run(ctx context.Context, args []string, totalMs int64, obs model.ProgressObserver) error {
	if obs == nil {
		obs = model.NopObserver{}
	}
	if err := ctx.Err(); err != nil {
		return apperr.Interrupted(err)
	}

	e.logger.Debug("running ffmpeg", zap.String("bin", e.ffmpegPath), zap.Strings("args", args))
	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)

	// Setup progress monitoring
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return apperr.Wrap(apperr.KindIO, err, "failed to create stderr pipe")
	}

	started := time.Now()
	if err := cmd.Start(); err != nil {
		if isNotFound(err) {
			return apperr.Wrap(apperr.KindResourceUnavailable, err, "no se encontró ffmpeg (%s)", e.ffmpegPath)
		}
		return apperr.Wrap(apperr.KindIO, err, "no se pudo iniciar ffmpeg")
	}

	tail := monitorProgress(stderr, totalMs, obs)
	err = cmd.Wait()

	if ctx.Err() != nil {
		return apperr.Interrupted(ctx.Err())
	}
	if err != nil {
		detail := strings.Join(tail, "; ")
		if detail == "" {
			detail = err.Error()
		}
		return apperr.Wrap(apperr.KindIO, err, "ffmpeg falló: %s", detail)
	}

	if totalMs > 0 {
		obs.Progress(totalMs, totalMs)
	}
	e.logger.Debug("ffmpeg finished", zap.Duration("elapsed", time.Since(started)))
	return nil
}

// monitorProgress reads ffmpeg progress output until EOF and returns the
// last diagnostic lines
func monitorProgress(stderr io.Reader, totalMs int64, obs model.ProgressObserver) []string {
	scanner := bufio.NewScanner(stderr)
	var tail []string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Parse progress line: out_time_us=123456
		if strings.HasPrefix(line, ProgressTimePrefix) {
			us, err := strconv.ParseInt(strings.TrimPrefix(line, ProgressTimePrefix), 10, 64)
			if err != nil || us < 0 || totalMs <= 0 {
				continue
			}
			done := min(us/1000, totalMs)
			obs.Progress(done, totalMs)
			continue
		}

		if line == "" || strings.Contains(line, "=") {
			continue
		}
		tail = append(tail, line)
		if len(tail) > stderrTailLines {
			tail = tail[1:]
		}
	}
	return tail
}

// isNotFound reports whether a command failed to start because the binary is missing
func isNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist)
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

type probeResult struct {
	Format struct {
		Duration   string `json:"duration"`
		FormatName string `json:"format_name"`
	} `json:"format"`
	Streams []struct {
		CodecType   string `json:"codec_type"`
		Disposition struct {
			AttachedPic int `json:"attached_pic"`
		} `json:"disposition"`
	} `json:"streams"`
}

// parseProbeOutput converts ffprobe JSON into MediaInfo
func parseProbeOutput(out string) (*model.MediaInfo, error) {
	var res probeResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	info := &model.MediaInfo{FormatName: res.Format.FormatName}
	for _, s := range res.Streams {
		switch s.CodecType {
		case "video":
			if s.Disposition.AttachedPic == 0 {
				info.HasVideo = true
			}
		case "audio":
			info.HasAudio = true
		}
	}
	if !info.HasVideo && !info.HasAudio {
		return nil, errors.New("no audio or video streams")
	}

	if d := strings.TrimSpace(res.Format.Duration); d != "" && d != "N/A" {
		seconds, err := strconv.ParseFloat(d, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse duration: %w", err)
		}
		info.Duration = time.Duration(seconds * float64(time.Second)).Round(time.Millisecond)
	}
	return info, nil
}
