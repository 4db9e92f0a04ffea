package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

// Environment keys
const (
	KeyDownloadDir  = "YTTOOLS_DOWNLOAD_DIR"
	KeyTrimDir      = "YTTOOLS_TRIM_DIR"
	KeyTrimBaseName = "YTTOOLS_TRIM_BASENAME"
	KeyLogLevel     = "YTTOOLS_LOG_LEVEL"
	KeyHTTPTimeout  = "YTTOOLS_HTTP_TIMEOUT"
	KeyProxy        = "YTTOOLS_PROXY"
	KeyRateLimit    = "YTTOOLS_RATE_LIMIT"
	KeyFFmpegPath   = "YTTOOLS_FFMPEG"
)

// DefaultEnvFile is read when Load is called without explicit files
const DefaultEnvFile = ".env"

// Default values
const (
	DefaultDownloadDir  = "descargas"
	DefaultTrimDir      = "recortes"
	DefaultTrimBaseName = "recorte"
	DefaultLogLevel     = "warn"
	DefaultHTTPTimeout  = 30 * time.Second
	DefaultFFmpegPath   = "ffmpeg"
)

// Settings holds the configuration shared by both tools
type Settings struct {
	DownloadDir  string
	TrimDir      string
	TrimBaseName string
	LogLevel     string
	HTTPTimeout  time.Duration
	Proxy        string
	RateLimit    string // human readable, e.g. "2MiB"; empty disables limiting
	FFmpegPath   string
}

// Defaults returns settings with every field at its default value
func Defaults() *Settings {
	return &Settings{
		DownloadDir:  DefaultDownloadDir,
		TrimDir:      DefaultTrimDir,
		TrimBaseName: DefaultTrimBaseName,
		LogLevel:     DefaultLogLevel,
		HTTPTimeout:  DefaultHTTPTimeout,
		FFmpegPath:   DefaultFFmpegPath,
	}
}

// Load reads the optional env files (".env" when none are given), then the
// process environment, and validates the result. Variables already set in the
// environment win over the files.
func Load(envFiles ...string) (*Settings, error) {
	if len(envFiles) == 0 {
		envFiles = []string{DefaultEnvFile}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	s := Defaults()
	s.DownloadDir = getString(KeyDownloadDir, s.DownloadDir)
	s.TrimDir = getString(KeyTrimDir, s.TrimDir)
	s.TrimBaseName = getString(KeyTrimBaseName, s.TrimBaseName)
	s.LogLevel = strings.ToLower(getString(KeyLogLevel, s.LogLevel))
	s.Proxy = getString(KeyProxy, "")
	s.RateLimit = getString(KeyRateLimit, "")
	s.FFmpegPath = getString(KeyFFmpegPath, s.FFmpegPath)

	if raw := getString(KeyHTTPTimeout, ""); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", KeyHTTPTimeout, raw, err)
		}
		s.HTTPTimeout = timeout
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks every field for a usable value
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.DownloadDir) == "" {
		return fmt.Errorf("%s cannot be empty", KeyDownloadDir)
	}
	if strings.TrimSpace(s.TrimDir) == "" {
		return fmt.Errorf("%s cannot be empty", KeyTrimDir)
	}
	if strings.TrimSpace(s.TrimBaseName) == "" {
		return fmt.Errorf("%s cannot be empty", KeyTrimBaseName)
	}
	if strings.ContainsAny(s.TrimBaseName, `/\`) {
		return fmt.Errorf("%s must be a file name, got %q", KeyTrimBaseName, s.TrimBaseName)
	}
	if _, err := zapcore.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %s. Valid levels are: debug, info, warn, error", s.LogLevel)
	}
	if s.HTTPTimeout <= 0 {
		return fmt.Errorf("%s must be positive, got %v", KeyHTTPTimeout, s.HTTPTimeout)
	}
	if _, err := s.ProxyURL(); err != nil {
		return err
	}
	if _, err := s.RateLimitBytes(); err != nil {
		return err
	}
	if strings.TrimSpace(s.FFmpegPath) == "" {
		return fmt.Errorf("%s cannot be empty", KeyFFmpegPath)
	}
	return nil
}

// ProxyURL returns the parsed proxy, or nil when none is configured
func (s *Settings) ProxyURL() (*url.URL, error) {
	if s.Proxy == "" {
		return nil, nil
	}
	u, err := url.Parse(s.Proxy)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid %s %q: expected scheme://host[:port]", KeyProxy, s.Proxy)
	}
	return u, nil
}

// RateLimitBytes returns the rate limit in bytes per second; zero means unlimited
func (s *Settings) RateLimitBytes() (int64, error) {
	if s.RateLimit == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s.RateLimit)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", KeyRateLimit, s.RateLimit, err)
	}
	if n > 1<<40 {
		return 0, fmt.Errorf("%s too large: %s", KeyRateLimit, s.RateLimit)
	}
	return int64(n), nil
}

func getString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}
