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
	"github.com/ytget/yt-toolkit/internal/logging"
	"github.com/ytget/yt-toolkit/internal/trim"
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

	opts, err := cli.ParseTrimArgs(args, settings, stderr)
	if cli.IsHelp(err) {
		return apperr.ExitOK
	}
	if err != nil {
		console.Error(err)
		return apperr.ExitCode(err)
	}
	if opts.Version {
		fmt.Fprintf(stdout, "%s v%s\n", cli.TrimmerName, version)
		return apperr.ExitOK
	}

	logger, err := logging.New(logging.ForVerbosity(settings.LogLevel, opts.Verbose))
	if err != nil {
		console.Error(err)
		return apperr.ExitUsage
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// a second signal gets the default behaviour and ends the process
	context.AfterFunc(ctx, stop)

	editor := trim.NewFFmpegEditor(settings.FFmpegPath, logger.Named("ffmpeg"))
	service := trim.NewService(editor, console, logger.Named("trim"))

	artifacts, err := service.Run(ctx, opts.Job)
	if err != nil {
		console.Error(err)
		return apperr.ExitCode(err)
	}

	console.Success("Recorte completado")
	console.Summary(artifacts)
	return apperr.ExitOK
}
