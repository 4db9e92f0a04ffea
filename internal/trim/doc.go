package trim

// Package trim implements the trimmer pipeline: it validates the time ranges
// against the probed source, extracts each range with ffmpeg into staging
// files, optionally concatenates them, and commits the outputs only when every
// step succeeded.
