// Package fs provides filesystem-backed adapters: source resolution and
// content hashing.
package fs

import (
	"path/filepath"
	"sort"

	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SourceResolver = (*Resolver)(nil)

// Resolver implements the SourceResolver interface using filepath.Glob.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// ResolveSources expands each pattern as a glob rooted at root and returns
// the sorted, deduplicated union. A pattern matching nothing contributes
// nothing; only the caller knows whether an empty aggregate is fatal.
func (r *Resolver) ResolveSources(root string, patterns []string) ([]string, error) {
	unique := make(map[string]bool)

	for _, pattern := range patterns {
		path := filepath.Join(root, pattern)

		matches, err := filepath.Glob(path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "bad source pattern"), "pattern", pattern)
		}

		for _, match := range matches {
			unique[match] = true
		}
	}

	result := make([]string, 0, len(unique))
	for path := range unique {
		result = append(result, path)
	}
	sort.Strings(result)

	return result, nil
}
