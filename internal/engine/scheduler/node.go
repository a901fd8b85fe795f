package scheduler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mason/internal/adapters/telemetry"
	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/mason/internal/engine/builder"
)

// NodeID is the unique identifier for the scheduler node.
const NodeID graft.ID = "engine.scheduler"

func init() {
	graft.Register(graft.Node[*Scheduler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{builder.NodeID, telemetry.NodeID},
		Run: func(ctx context.Context) (*Scheduler, error) {
			b, err := graft.Dep[*builder.Builder](ctx)
			if err != nil {
				return nil, err
			}
			tel, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}
			return NewScheduler(b, tel), nil
		},
	})
}
