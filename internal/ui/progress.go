package ui

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// Unit tells a progress bar how to render its counters
type Unit int

const (
	// UnitBytes renders transferred bytes
	UnitBytes Unit = iota
	// UnitMillis renders processed media time as a percentage
	UnitMillis
)

// ProgressBar is a model.ProgressObserver that draws a terminal bar. The bar
// is created on the first update so the total reported by the producer is
// used as its maximum.
type ProgressBar struct {
	w     io.Writer
	label string
	unit  Unit
	bar   *progressbar.ProgressBar
	max   int64
}

func newProgressBar(w io.Writer, label string, unit Unit) *ProgressBar {
	return &ProgressBar{w: w, label: truncate(label, MaxDescriptionWidth), unit: unit}
}

// Progress implements model.ProgressObserver
func (p *ProgressBar) Progress(done, total int64) {
	if p.bar == nil {
		p.bar = p.create(total)
	} else if total > 0 && total != p.max {
		p.bar.ChangeMax64(total)
		p.max = total
	}
	if done < 0 {
		done = 0
	}
	_ = p.bar.Set64(done)
}

// Close finishes and clears the bar if it was ever drawn
func (p *ProgressBar) Close() {
	if p.bar == nil || p.bar.IsFinished() {
		return
	}
	_ = p.bar.Finish()
}

func (p *ProgressBar) create(total int64) *progressbar.ProgressBar {
	limit := total
	if limit <= 0 {
		limit = -1
	}
	p.max = limit

	opts := []progressbar.Option{
		progressbar.OptionSetWriter(p.w),
		progressbar.OptionSetDescription(p.label),
		progressbar.OptionSetWidth(ProgressBarWidth),
		progressbar.OptionThrottle(ProgressThrottle),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetPredictTime(p.unit == UnitBytes),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionEnableColorCodes(false),
	}
	if p.unit == UnitBytes {
		opts = append(opts,
			progressbar.OptionShowCount(),
			progressbar.OptionShowBytes(true),
		)
	}
	return progressbar.NewOptions64(limit, opts...)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
