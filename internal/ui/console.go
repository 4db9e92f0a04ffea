package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/ytget/yt-toolkit/internal/model"
)

// Time formatting constants
const (
	SecondsPerHour   = 3600
	SecondsPerMinute = 60
	TimeFormat       = "%02d"
)

// Console writes user-facing messages to out and progress and errors to errOut
type Console struct {
	out    io.Writer
	errOut io.Writer
	active *ProgressBar
}

// NewConsole creates a console
func NewConsole(out, errOut io.Writer) *Console {
	return &Console{out: out, errOut: errOut}
}

// Video prints the metadata of a resolved video
func (c *Console) Video(v *model.Video) {
	c.closeBar()
	fmt.Fprintln(c.out, TitleStyle.Render(IconVideo+" "+v.Title))

	// the client library does not always report author and duration
	var details []string
	if v.Author != "" {
		details = append(details, v.Author)
	}
	if v.Duration > 0 {
		details = append(details, formatDuration(v.Duration.Seconds()))
	}
	if len(v.Streams) > 0 {
		details = append(details, fmt.Sprintf("%d streams", len(v.Streams)))
	}
	if len(details) > 0 {
		fmt.Fprintln(c.out, InfoStyle.Render("  "+strings.Join(details, MiddleDotSeparator)))
	}
}

// Info prints a neutral status line
func (c *Console) Info(format string, args ...any) {
	c.closeBar()
	fmt.Fprintln(c.out, InfoStyle.Render(IconInfo+" "+fmt.Sprintf(format, args...)))
}

// Success prints a completion line
func (c *Console) Success(format string, args ...any) {
	c.closeBar()
	fmt.Fprintln(c.out, SuccessStyle.Render(IconSuccess+" "+fmt.Sprintf(format, args...)))
}

// Warn prints a warning line
func (c *Console) Warn(format string, args ...any) {
	c.closeBar()
	fmt.Fprintln(c.out, WarnStyle.Render(IconWarn+" "+fmt.Sprintf(format, args...)))
}

// Error prints a one-line error to errOut
func (c *Console) Error(err error) {
	c.closeBar()
	if err == nil {
		return
	}
	fmt.Fprintln(c.errOut, ErrorStyle.Render(IconError+" "+ErrorPrefix+err.Error()))
}

// ByteProgress starts a progress bar counting bytes
func (c *Console) ByteProgress(label string) model.ProgressObserver {
	return c.startBar(label, UnitBytes)
}

// MediaProgress starts a progress bar counting milliseconds of media
func (c *Console) MediaProgress(label string) model.ProgressObserver {
	return c.startBar(label, UnitMillis)
}

// Summary lists the files produced by a run
func (c *Console) Summary(artifacts []*model.Artifact) {
	c.closeBar()
	for _, a := range artifacts {
		icon := IconFile
		switch a.Role {
		case model.ArtifactVideo:
			icon = IconVideo
		case model.ArtifactAudio:
			icon = IconMusic
		}
		line := fmt.Sprintf("%s %s (%s)", icon, filepath.ToSlash(a.Path), humanize.IBytes(uint64(max(a.Size, 0))))
		fmt.Fprintln(c.out, SuccessStyle.Render(line))
	}
}

// Close finishes any progress bar still on screen
func (c *Console) Close() {
	c.closeBar()
}

func (c *Console) startBar(label string, unit Unit) *ProgressBar {
	c.closeBar()
	c.active = newProgressBar(c.errOut, label, unit)
	return c.active
}

func (c *Console) closeBar() {
	if c.active != nil {
		c.active.Close()
		c.active = nil
	}
}

// formatDuration formats seconds into HH:MM:SS format
func formatDuration(seconds float64) string {
	total := int(seconds)
	if total <= 0 {
		return DashPlaceholder
	}
	hours := total / SecondsPerHour
	minutes := (total % SecondsPerHour) / SecondsPerMinute
	secs := total % SecondsPerMinute
	if hours > 0 {
		return fmt.Sprintf(TimeFormat+":"+TimeFormat+":"+TimeFormat, hours, minutes, secs)
	}
	return fmt.Sprintf(TimeFormat+":"+TimeFormat, minutes, secs)
}
