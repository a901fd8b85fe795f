package domain

// Record is one compile log entry, keyed by object file path. A record from
// a prior run is only trustworthy while the object it names still exists on
// disk; the planner verifies that before honoring a hit.
type Record struct {
	// ObjectPath is the unique key: the object file this record describes.
	ObjectPath string
	// CompileCmd is the exact compiler command last used to produce the
	// object. Any difference, even a reordered flag, forces a recompile.
	CompileCmd string
	// PreprocessedHash is the 64-bit content hash of the source's
	// preprocessed output at the time of that compile.
	PreprocessedHash uint64
}
