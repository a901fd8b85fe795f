// Package telemetry provides build-progress recording adapters.
package telemetry

import (
	"io"

	"go.trai.ch/mason/internal/core/ports"
)

var _ ports.Telemetry = (*Noop)(nil)

// Noop is a no-op implementation of ports.Telemetry, used when stderr is
// not a terminal.
type Noop struct{}

// NewNoop creates a new Noop.
func NewNoop() *Noop {
	return &Noop{}
}

// StartTarget returns a no-op vertex.
func (n *Noop) StartTarget(_ string) ports.Vertex {
	return noopVertex{}
}

// Close does nothing.
func (n *Noop) Close() error {
	return nil
}

type noopVertex struct{}

func (noopVertex) Stdout() io.Writer { return io.Discard }
func (noopVertex) Cached()           {}
func (noopVertex) Done(_ error)      {}
