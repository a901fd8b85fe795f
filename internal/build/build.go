// Package build carries build-time metadata injected via ldflags.
package build

// Version is the version of the binary, set at link time.
var Version = "dev"
