package cli

import (
	"io"

	"github.com/ytget/yt-toolkit/internal/apperr"
	"github.com/ytget/yt-toolkit/internal/config"
	"github.com/ytget/yt-toolkit/internal/model"
)

// DownloaderName is the program name shown in usage output
const DownloaderName = "yt-downloader"

// Downloader flag names
const (
	FlagFormat  = "formato"
	FlagQuality = "calidad"
)

// DownloadOptions is the parsed downloader command line
type DownloadOptions struct {
	Request model.DownloadRequest
	Verbose bool
	Version bool
}

// ParseDownloadArgs parses the downloader arguments. Defaults come from
// settings. Help output is written to out.
func ParseDownloadArgs(args []string, settings *config.Settings, out io.Writer) (*DownloadOptions, error) {
	fs := newFlagSet(DownloaderName, DownloaderName+" <url> [opciones]", out)
	format := fs.StringP(FlagFormat, "f", string(model.DefaultFormat), "qué descargar: video, audio o ambos")
	quality := fs.StringP(FlagQuality, "c", string(model.DefaultQuality), "calidad del video: alta, baja o una resolución como 720p o 1080p60")
	outputDir := fs.StringP(FlagOutput, "s", settings.DownloadDir, "directorio de salida")
	overwrite := fs.Bool(FlagOverwrite, false, "reemplazar archivos existentes")
	verbose := fs.BoolP(FlagVerbose, "v", false, "mostrar registros de depuración")
	version := fs.Bool(FlagVersion, false, "mostrar la versión")

	if err := parse(fs, args); err != nil {
		return nil, err
	}
	if *version {
		return &DownloadOptions{Version: true}, nil
	}

	if fs.NArg() != 1 {
		return nil, apperr.Usage("se esperaba exactamente una URL, se recibieron %d argumentos", fs.NArg())
	}

	mediaFormat, err := model.ParseMediaFormat(*format)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUsage, err, "--%s", FlagFormat)
	}
	q, err := model.ParseQuality(*quality)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUsage, err, "--%s", FlagQuality)
	}
	if *outputDir == "" {
		return nil, apperr.Usage("--%s no puede estar vacío", FlagOutput)
	}

	return &DownloadOptions{
		Request: model.DownloadRequest{
			URL:       fs.Arg(0),
			Format:    mediaFormat,
			Quality:   q,
			OutputDir: *outputDir,
			Overwrite: *overwrite,
		},
		Verbose: *verbose,
	}, nil
}
