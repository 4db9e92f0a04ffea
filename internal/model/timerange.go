package model

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	wholeRe   = regexp.MustCompile(`^[0-9]+$`)
	secondsRe = regexp.MustCompile(`^([0-9]+(\.[0-9]*)?|\.[0-9]+)$`)
)

// TimeRange is a [Start, End) window within a media file
type TimeRange struct {
	Start time.Duration
	End   time.Duration
}

// Length returns End - Start
func (r TimeRange) Length() time.Duration {
	return r.End - r.Start
}

// Validate enforces Start < End
func (r TimeRange) Validate() error {
	if r.Start < 0 {
		return fmt.Errorf("el inicio %s es negativo", FormatTimestamp(r.Start))
	}
	if r.Start >= r.End {
		return fmt.Errorf("el inicio (%s) debe ser menor que el fin (%s)", FormatTimestamp(r.Start), FormatTimestamp(r.End))
	}
	return nil
}

// String renders the range as "start-end" in timestamp form
func (r TimeRange) String() string {
	return FormatTimestamp(r.Start) + "-" + FormatTimestamp(r.End)
}

// ParseDuration parses HH:MM:SS[.ms], MM:SS[.ms] or bare (fractional) seconds.
// The presence of ':' selects one of the colon shapes.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("tiempo vacío")
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, invalidDuration(s)
	}

	secPart := parts[len(parts)-1]
	if !secondsRe.MatchString(secPart) {
		return 0, invalidDuration(s)
	}
	seconds, err := strconv.ParseFloat(secPart, 64)
	if err != nil {
		return 0, invalidDuration(s)
	}
	if len(parts) > 1 && seconds >= 60 {
		return 0, fmt.Errorf("segundos fuera de rango en %q", s)
	}

	var whole []int
	for i, p := range parts[:len(parts)-1] {
		if !wholeRe.MatchString(p) {
			return 0, invalidDuration(s)
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return 0, invalidDuration(s)
		}
		// minutes are bounded only when hours precede them
		if len(parts) == 3 && i == 1 && v >= 60 {
			return 0, fmt.Errorf("minutos fuera de rango en %q", s)
		}
		whole = append(whole, v)
	}

	total := seconds
	multiplier := 60.0
	for i := len(whole) - 1; i >= 0; i-- {
		total += float64(whole[i]) * multiplier
		multiplier *= 60
	}
	return time.Duration(math.Round(total * float64(time.Second))), nil
}

func invalidDuration(s string) error {
	return fmt.Errorf("formato de tiempo inválido %q (use HH:MM:SS.ms, MM:SS.ms o SS.ms)", s)
}

// ParseRange parses "start-end" where each side is accepted by ParseDuration
func ParseRange(s string) (TimeRange, error) {
	startStr, endStr, found := strings.Cut(strings.TrimSpace(s), "-")
	if !found || strings.Contains(endStr, "-") {
		return TimeRange{}, fmt.Errorf("formato de rango inválido %q (use inicio-fin, p. ej. 0:10-0:25.5)", s)
	}
	start, err := ParseDuration(startStr)
	if err != nil {
		return TimeRange{}, fmt.Errorf("rango %q: %w", s, err)
	}
	end, err := ParseDuration(endStr)
	if err != nil {
		return TimeRange{}, fmt.Errorf("rango %q: %w", s, err)
	}
	r := TimeRange{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return TimeRange{}, fmt.Errorf("rango %q: %w", s, err)
	}
	return r, nil
}

// ParseRanges parses every token, preserving argument order
func ParseRanges(tokens []string) ([]TimeRange, error) {
	ranges := make([]TimeRange, 0, len(tokens))
	for _, tok := range tokens {
		r, err := ParseRange(tok)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}
	return ranges, nil
}

// FormatTimestamp renders d as HH:MM:SS.mmm, or MM:SS.mmm under one hour
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Round(time.Millisecond).Milliseconds()
	hours := ms / 3_600_000
	minutes := (ms % 3_600_000) / 60_000
	seconds := (ms % 60_000) / 1000
	millis := ms % 1000

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, millis)
	}
	return fmt.Sprintf("%02d:%02d.%03d", minutes, seconds, millis)
}

// FormatSeconds renders d as decimal seconds with millisecond precision, the
// form ffmpeg accepts for -ss and -t
func FormatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Round(time.Millisecond).Seconds(), 'f', 3, 64)
}
