package domain

import "go.trai.ch/zerr"

// Language is the source language variant of a target. It only affects the
// extension used for preprocessed intermediates.
type Language int

const (
	// LangC compiles C sources (preprocessed intermediates use .i).
	LangC Language = iota
	// LangCpp compiles C++ sources (preprocessed intermediates use .ii).
	LangCpp
)

// PreprocessedExt returns the intermediate file extension for the language.
func (l Language) PreprocessedExt() string {
	if l == LangCpp {
		return ".ii"
	}
	return ".i"
}

// ParseLanguage parses a language name from a target descriptor.
func ParseLanguage(name string) (Language, error) {
	switch name {
	case "", "c":
		return LangC, nil
	case "c++", "cpp":
		return LangCpp, nil
	default:
		return 0, zerr.With(ErrUnknownLanguage, "language", name)
	}
}

// Target describes one static library to build. It is external input,
// immutable once constructed: the engine never mutates a Target.
type Target struct {
	// Name is the unique target key, also used as the archive stem and the
	// object subdirectory name.
	Name string
	// Root is the directory the source patterns are resolved against.
	Root string
	// IncludeDir is the target's public include directory.
	IncludeDir string
	// Language selects the preprocessed-intermediate extension.
	Language Language
	// Flags is the compile flag string passed verbatim to the compiler.
	Flags string
	// Sources is the ordered list of glob patterns, relative to Root.
	Sources []string
}

// Manifest is the set of target descriptors for one invocation.
type Manifest struct {
	// Root is the directory build output directories are created under.
	Root string
	// Targets is sorted by name so runs are deterministic.
	Targets []Target
}

// Status is the lifecycle tag of a target during a run.
type Status int

const (
	// StatusNotStarted means the target's pipeline has not begun.
	StatusNotStarted Status = iota
	// StatusRunning means the target's pipeline is executing.
	StatusRunning
	// StatusSucceeded means the target's archive is up to date.
	StatusSucceeded
	// StatusFailed means a pipeline step failed; the build as a whole fails.
	StatusFailed
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "Running"
	case StatusSucceeded:
		return "Succeeded"
	case StatusFailed:
		return "Failed"
	default:
		return "NotStarted"
	}
}

// TargetBuild is the derived per-run state of one target, owned exclusively
// by the pipeline processing it.
type TargetBuild struct {
	Target      Target
	ObjDir      string
	ArchivePath string
	// Sources is the resolved, sorted, deduplicated source list.
	Sources []string
	// Objects is the derived object path per source, index-aligned with
	// Sources.
	Objects []string
}

// BuildContext carries the process-wide build configuration: one per
// invocation, shared read-only by every target pipeline.
type BuildContext struct {
	Toolchain Toolchain
	Mode      BuildMode
	// RootDir is the working root the output directory lives under.
	RootDir string
	// OutDir is the build output directory for this toolchain and mode.
	OutDir string
}

// BuildOutcome summarizes what a target pipeline actually did.
type BuildOutcome struct {
	// Recompiled is the number of objects rebuilt.
	Recompiled int
	// Archived reports whether the archive was recreated.
	Archived bool
}
