package platform

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ytget/ytdlp/errs"
	"github.com/ytget/ytdlp/types"
	"github.com/ytget/ytdlp/v2"
	"go.uber.org/zap"

	"github.com/ytget/yt-toolkit/internal/apperr"
	"github.com/ytget/yt-toolkit/internal/model"
)

// Timeout constants
const (
	DefaultHTTPTimeout   = 30 * time.Second
	DefaultLookupTimeout = 60 * time.Second
)

// Accepted hosts for video URLs
var youTubeHosts = map[string]bool{
	"youtube.com":     true,
	"www.youtube.com": true,
	"m.youtube.com":   true,
	"youtu.be":        true,
}

// YouTubeClient resolves and downloads YouTube streams using the ytdlp library
type YouTubeClient struct {
	httpClient    *http.Client
	rateLimit     int64
	lookupTimeout time.Duration
	logger        *zap.Logger
}

// NewYouTubeClient creates a client. rateLimit is in bytes per second; zero
// disables limiting.
func NewYouTubeClient(httpClient *http.Client, rateLimit int64, logger *zap.Logger) *YouTubeClient {
	if httpClient == nil {
		httpClient = NewHTTPClient(DefaultHTTPTimeout, nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &YouTubeClient{
		httpClient:    httpClient,
		rateLimit:     rateLimit,
		lookupTimeout: DefaultLookupTimeout,
		logger:        logger,
	}
}

// SetLookupTimeout sets the timeout for metadata lookups
func (y *YouTubeClient) SetLookupTimeout(timeout time.Duration) {
	y.lookupTimeout = timeout
}

// NewHTTPClient builds the HTTP client used for every platform call
func NewHTTPClient(timeout time.Duration, proxy *url.URL) *http.Client {
	transport := &http.Transport{
		ForceAttemptHTTP2: false,
		MaxIdleConns:      100,
		IdleConnTimeout:   90 * time.Second,
	}
	if proxy != nil {
		transport.Proxy = http.ProxyURL(proxy)
	} else {
		transport.Proxy = http.ProxyFromEnvironment
	}
	return &http.Client{Transport: transport, Timeout: timeout}
}

// ShortsPathPrefix is the path of YouTube Shorts video pages
const ShortsPathPrefix = "/shorts/"

// IsVideoURL checks if the URL looks like a YouTube video URL. Whether the
// video exists is left to the client library.
func IsVideoURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	if !youTubeHosts[strings.ToLower(u.Host)] {
		return false
	}
	if strings.EqualFold(u.Host, "youtu.be") {
		return strings.Trim(u.Path, "/") != ""
	}
	if strings.HasPrefix(u.Path, ShortsPathPrefix) {
		return strings.Trim(strings.TrimPrefix(u.Path, ShortsPathPrefix), "/") != ""
	}
	return strings.HasPrefix(u.Path, "/watch") && u.Query().Get("v") != ""
}

// Lookup fetches video metadata and the list of available streams
func (y *YouTubeClient) Lookup(ctx context.Context, videoURL string) (*model.Video, error) {
	ctx, cancel := context.WithTimeout(ctx, y.lookupTimeout)
	defer cancel()

	y.logger.Debug("resolving video", zap.String("url", videoURL))
	var info *ytdlp.VideoInfo
	err := detach(ctx, func() error {
		var err error
		_, info, err = ytdlp.New().WithHTTPClient(y.boundClient(ctx)).ResolveURL(ctx, videoURL)
		return err
	}, nil)
	if err != nil {
		return nil, classifyError(ctx, err, "no se pudo obtener la información del video")
	}

	video := convertVideoInfo(info)
	y.logger.Debug("video resolved",
		zap.String("id", video.ID),
		zap.String("title", video.Title),
		zap.Int("streams", len(video.Streams)))
	return video, nil
}

// Fetch downloads a single stream to dst, reporting bytes to obs
func (y *YouTubeClient) Fetch(ctx context.Context, videoURL string, stream model.Stream, dst string, obs model.ProgressObserver) error {
	if obs == nil {
		obs = model.NopObserver{}
	}

	y.logger.Debug("downloading stream",
		zap.Int("itag", stream.Itag),
		zap.String("mime", stream.MimeType),
		zap.String("dst", dst))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var stopped atomic.Bool
	defer stopped.Store(true)

	d := ytdlp.New().
		WithHTTPClient(y.boundClient(ctx)).
		WithFormat(fmt.Sprintf("itag=%d", stream.Itag), "").
		WithOutputPath(dst).
		WithRateLimit(y.rateLimit).
		WithProgress(func(p ytdlp.Progress) {
			if stopped.Load() {
				return
			}
			total := p.TotalSize
			if total <= 0 {
				total = stream.Size
			}
			obs.Progress(p.DownloadedSize, total)
		})

	err := detach(ctx, func() error {
		_, err := d.Download(ctx, videoURL)
		return err
	}, func() {
		// the abandoned transfer may have created its temp file after the caller cleaned up
		_ = os.Remove(dst + DownloadTempSuffix)
	})
	if err != nil {
		return classifyError(ctx, err, fmt.Sprintf("falló la descarga del stream %d", stream.Itag))
	}
	return nil
}

// boundClient returns a copy of the HTTP client whose requests are all
// cancelled with ctx. Metadata requests of the library are built without a
// context.
func (y *YouTubeClient) boundClient(ctx context.Context) *http.Client {
	c := *y.httpClient
	base := c.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c.Transport = &contextTransport{ctx: ctx, base: base}
	return &c
}

// contextTransport ties every request to a parent context
type contextTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

// RoundTrip implements http.RoundTripper
func (t *contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.ctx.Err(); err != nil {
		return nil, err
	}
	reqCtx, cancel := context.WithCancel(req.Context())
	context.AfterFunc(t.ctx, cancel)
	return t.base.RoundTrip(req.WithContext(reqCtx))
}

// detach runs call on its own goroutine and returns when it finishes or when
// ctx is done, whichever comes first. If ctx wins, abandon runs after call
// eventually returns.
func detach(ctx context.Context, call func() error, abandon func()) error {
	var (
		mu        sync.Mutex
		abandoned bool
	)
	done := make(chan error, 1)

	go func() {
		err := call()
		mu.Lock()
		defer mu.Unlock()
		if abandoned && abandon != nil {
			abandon()
		}
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		mu.Lock()
		abandoned = true
		mu.Unlock()
		return ctx.Err()
	}
}

// convertVideoInfo maps library metadata onto the model
func convertVideoInfo(info *ytdlp.VideoInfo) *model.Video {
	if info == nil {
		return &model.Video{}
	}
	video := &model.Video{
		ID:       info.ID,
		Title:    info.Title,
		Author:   info.Author,
		Duration: time.Duration(info.Duration) * time.Second,
		Streams:  convertFormats(info.Formats),
	}
	return video
}

// convertFormats maps library formats to streams, skipping entries without an itag
func convertFormats(formats []types.Format) []model.Stream {
	streams := make([]model.Stream, 0, len(formats))
	for _, f := range formats {
		if f.Itag == 0 || strings.TrimSpace(f.MimeType) == "" {
			continue
		}
		streams = append(streams, model.NewStream(f.Itag, f.MimeType, f.Quality, f.Bitrate, f.Size))
	}
	return streams
}

// classifyError turns a library error into an application error
func classifyError(ctx context.Context, err error, action string) error {
	if errors.Is(ctx.Err(), context.Canceled) || errors.Is(err, context.Canceled) {
		return apperr.Interrupted(err)
	}

	switch {
	case errors.Is(err, errs.ErrPrivate):
		return apperr.Wrap(apperr.KindResourceUnavailable, err, "el video es privado")
	case errors.Is(err, errs.ErrAgeRestricted):
		return apperr.Wrap(apperr.KindResourceUnavailable, err, "el video tiene restricción de edad")
	case errors.Is(err, errs.ErrGeoBlocked):
		return apperr.Wrap(apperr.KindResourceUnavailable, err, "el video no está disponible en esta región")
	case errors.Is(err, errs.ErrRateLimited):
		return apperr.Wrap(apperr.KindResourceUnavailable, err, "YouTube limitó las solicitudes; intente más tarde")
	case errors.Is(err, errs.ErrVideoUnavailable):
		return apperr.Wrap(apperr.KindResourceUnavailable, err, "el video no está disponible")
	case errors.Is(err, context.DeadlineExceeded):
		return apperr.Wrap(apperr.KindResourceUnavailable, err, "%s: tiempo de espera agotado", action)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "invalid youtube url"), strings.Contains(msg, "extract video id"):
		return apperr.Wrap(apperr.KindUsage, err, "la URL no corresponde a un video de YouTube")
	case strings.Contains(msg, "no suitable format"):
		return apperr.Wrap(apperr.KindConstraintUnsatisfiable, err, "%s: formato no disponible", action)
	case strings.Contains(msg, "no space left"), strings.Contains(msg, "permission denied"),
		strings.Contains(msg, "failed to create output file"):
		return apperr.Wrap(apperr.KindIO, err, "%s", action)
	}
	return apperr.Wrap(apperr.KindResourceUnavailable, err, "%s", action)
}
