package ports

import "go.trai.ch/mason/internal/core/domain"

// CompileLog is the cross-run record store: the prior run's records are
// loaded once and read-only; the current run's records are accumulated
// concurrently by the target pipelines and flushed at the end of a fully
// successful run.
type CompileLog interface {
	// Load reads the prior-run log at path. A missing, unreadable, or
	// schema-mismatched log is treated as absent, never as a failure.
	Load(path string) error

	// Prev returns the prior-run record for an object path, if any.
	Prev(objectPath string) (domain.Record, bool)

	// Put records a current-run entry. Every planned object gets one,
	// whether or not it was rebuilt. Safe for concurrent use.
	Put(rec domain.Record)

	// Flush atomically replaces the log at path with the current-run
	// records.
	Flush(path string) error
}
