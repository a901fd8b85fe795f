// Package wiring pulls every graft node into the binary. Importing it for
// side effects is enough to make the full dependency graph resolvable.
package wiring

import (
	_ "go.trai.ch/mason/internal/adapters/compilelog"
	_ "go.trai.ch/mason/internal/adapters/config"
	_ "go.trai.ch/mason/internal/adapters/fs"
	_ "go.trai.ch/mason/internal/adapters/logger"
	_ "go.trai.ch/mason/internal/adapters/shell"
	_ "go.trai.ch/mason/internal/adapters/telemetry"
	_ "go.trai.ch/mason/internal/app"
	_ "go.trai.ch/mason/internal/engine/builder"
	_ "go.trai.ch/mason/internal/engine/planner"
	_ "go.trai.ch/mason/internal/engine/scheduler"
)
