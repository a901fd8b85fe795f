package ports

import "go.trai.ch/mason/internal/core/domain"

// TargetLoader loads the declarative target descriptors the engine consumes.
type TargetLoader interface {
	// Load reads the manifest at path and returns the validated targets.
	Load(path string) (*domain.Manifest, error)
}
