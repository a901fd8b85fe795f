package telemetry

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/mason/internal/adapters/telemetry/progrock"
	"go.trai.ch/mason/internal/core/ports"
	"golang.org/x/term"
)

// NodeID is the unique identifier for the telemetry node.
const NodeID graft.ID = "adapter.telemetry"

func init() {
	graft.Register(graft.Node[ports.Telemetry]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Telemetry, error) {
			if term.IsTerminal(int(os.Stderr.Fd())) {
				return progrock.New(os.Stderr), nil
			}
			return NewNoop(), nil
		},
	})
}
