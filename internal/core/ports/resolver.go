package ports

// SourceResolver expands source glob patterns into concrete file paths.
type SourceResolver interface {
	// ResolveSources matches each pattern as a filesystem glob rooted at
	// root and returns the sorted, deduplicated union. A pattern matching
	// zero files is not an error; the caller decides whether an empty
	// aggregate is fatal.
	ResolveSources(root string, patterns []string) ([]string, error)
}
