package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ytget/yt-toolkit/internal/apperr"
	"github.com/ytget/yt-toolkit/internal/cli"
	"github.com/ytget/yt-toolkit/internal/config"
	"github.com/ytget/yt-toolkit/internal/download"
	"github.com/ytget/yt-toolkit/internal/logging"
	"github.com/ytget/yt-toolkit/internal/platform"
	"github.com/ytget/yt-toolkit/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	console := ui.NewConsole(stdout, stderr)
	defer console.Close()

	settings, err := config.Load()
	if err != nil {
		console.Error(apperr.Wrap(apperr.KindUsage, err, "configuración no válida"))
		return apperr.ExitUsage
	}

	opts, err := cli.ParseDownloadArgs(args, settings, stderr)
	if cli.IsHelp(err) {
		return apperr.ExitOK
	}
	if err != nil {
		console.Error(err)
		return apperr.ExitCode(err)
	}
	if opts.Version {
		fmt.Fprintf(stdout, "%s v%s\n", cli.DownloaderName, version)
		return apperr.ExitOK
	}

	logger, err := logging.New(logging.ForVerbosity(settings.LogLevel, opts.Verbose))
	if err != nil {
		console.Error(err)
		return apperr.ExitUsage
	}
	defer func() { _ = logger.Sync() }()

	restoreLog, err := logging.RedirectStdLog(logger)
	if err == nil {
		defer restoreLog()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// a second signal gets the default behaviour and ends the process
	context.AfterFunc(ctx, stop)

	// Validate already checked both values
	proxy, _ := settings.ProxyURL()
	rateLimit, _ := settings.RateLimitBytes()

	client := platform.NewYouTubeClient(
		platform.NewHTTPClient(settings.HTTPTimeout, proxy),
		rateLimit,
		logger.Named("platform"),
	)
	service := download.NewService(client, console, logger.Named("download"))

	artifacts, err := service.Run(ctx, opts.Request)
	if err != nil {
		console.Error(err)
		return apperr.ExitCode(err)
	}

	console.Success("Descarga completada")
	console.Summary(artifacts)
	return apperr.ExitOK
}
