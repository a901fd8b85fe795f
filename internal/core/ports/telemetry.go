package ports

import "io"

// Telemetry records per-target build progress.
type Telemetry interface {
	// StartTarget opens a progress vertex for one target pipeline.
	StartTarget(name string) Vertex

	// Close flushes and closes the recording session.
	Close() error
}

// Vertex is one target's progress entry.
type Vertex interface {
	// Stdout returns a writer for the target's command trace.
	Stdout() io.Writer

	// Cached marks the target as fully up to date (nothing compiled,
	// archive kept).
	Cached()

	// Done marks the target finished, successfully when err is nil.
	Done(err error)
}
