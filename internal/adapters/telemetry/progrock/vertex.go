package progrock

import (
	"io"

	"github.com/vito/progrock"
)

// Vertex wraps *progrock.VertexRecorder for one target.
type Vertex struct {
	vertex *progrock.VertexRecorder
}

// Stdout returns a writer capturing the target's command trace.
func (v *Vertex) Stdout() io.Writer {
	return v.vertex.Stdout()
}

// Cached marks the target as fully up to date.
func (v *Vertex) Cached() {
	v.vertex.Cached()
}

// Done marks the target finished, successfully when err is nil.
func (v *Vertex) Done(err error) {
	v.vertex.Done(err)
}
