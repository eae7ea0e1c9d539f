// Package buildinfo provides version and build information for yapenv.
// It exposes variables that are set at link-time to identify the version and
// commit hash of the build.
package buildinfo

// Version is set at link-time with -ldflags.
// Default is "local" so tests and "go run ." still work.
var Version = "local"

// Commit is set at link-time with -ldflags.
var Commit = "unknown"
