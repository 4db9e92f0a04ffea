// Package platform contains OS integration and external tooling glue:
// filesystem helpers, staged writes with all-or-nothing commit, and the
// adapter over the YouTube client library.
package platform
