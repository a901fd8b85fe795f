package domain

import "go.trai.ch/zerr"

var (
	// ErrUnknownToolchain is returned for a toolchain name that is invalid
	// or not supported on the host platform.
	ErrUnknownToolchain = zerr.New("unknown toolchain")

	// ErrUnknownBuildMode is returned for a build mode other than debug or
	// release.
	ErrUnknownBuildMode = zerr.New("unknown build mode")

	// ErrUnknownLanguage is returned for a target language other than c or
	// c++.
	ErrUnknownLanguage = zerr.New("unknown language")

	// ErrPreprocessedInput is returned when a preprocess step is requested
	// for an already-preprocessed input.
	ErrPreprocessedInput = zerr.New("input is already preprocessed")

	// ErrNoSources is returned when a target's patterns resolve to zero
	// files in aggregate.
	ErrNoSources = zerr.New("target resolved no source files")

	// ErrObjectCollision is returned when two sources of one target map to
	// the same object path.
	ErrObjectCollision = zerr.New("object file name collision")

	// ErrBuildFailed is the terminal error when any target failed.
	ErrBuildFailed = zerr.New("build failed")
)
