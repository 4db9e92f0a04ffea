// Package cli turns command-line arguments into validated option structs for
// the downloader and the trimmer. Parsing never touches the network or the
// filesystem.
package cli
