package planner

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/mason/internal/adapters/compilelog"
	"go.trai.ch/mason/internal/adapters/fs"
	"go.trai.ch/mason/internal/adapters/shell"
	"go.trai.ch/mason/internal/core/ports"
)

// NodeID is the unique identifier for the planner node.
const NodeID graft.ID = "engine.planner"

func init() {
	graft.Register(graft.Node[*Planner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, fs.HasherNodeID, compilelog.NodeID},
		Run: func(ctx context.Context) (*Planner, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.CompileLog](ctx)
			if err != nil {
				return nil, err
			}
			return New(executor, hasher, log), nil
		},
	})
}
