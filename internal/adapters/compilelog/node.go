package compilelog

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mason/internal/core/ports"
)

// NodeID is the unique identifier for the compile log store node.
const NodeID graft.ID = "adapter.compile_log"

func init() {
	graft.Register(graft.Node[ports.CompileLog]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.CompileLog, error) {
			return NewStore(), nil
		},
	})
}
