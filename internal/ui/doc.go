package ui

// Package ui contains the terminal output of the command-line tools: styled
// status messages on stdout and progress bars on stderr. Services talk to it
// through small reporter interfaces so they can be tested without a terminal.
