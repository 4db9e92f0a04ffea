// Package model defines the domain data structures shared by the downloader and
// the trimmer: requests, quality presets, platform streams, time ranges, trim
// jobs and the artifacts written to disk. Values are built once by the CLI layer
// and treated as immutable by the services.
package model
