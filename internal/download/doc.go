package download

// Package download implements the downloader pipeline on top of the platform
// client: it resolves the video, selects the streams matching the requested
// format and quality, transfers them into staging files with retry, and
// commits the outputs only when every transfer succeeded.
