// Package scheduler computes data-dependency-ordered parallel execution
// layers for registered systems and runs them each tick, grounded on the
// teacher's internal/core/ecs.SystemManager dependency bookkeeping but
// rebuilt around typed reads/writes sets and Kahn layering instead of a
// hand-declared dependency list.
package scheduler

import (
	"context"

	"forgecore/internal/ecs"
)

// System is one unit of per-tick ECS logic. Reads and Writes declare the
// component types it touches; the scheduler derives execution order from
// them, so a system must not touch a component type it did not declare.
type System interface {
	Name() string
	Reads() []ecs.ComponentType
	Writes() []ecs.ComponentType
	Run(ctx context.Context, dt float64, r *ecs.Registry) error
}

// BaseSystem is embeddable by concrete systems to satisfy Reads/Writes/Name
// without repeating the boilerplate, the same shape as
// totodo713-vamplite's systems.BaseSystem.
type BaseSystem struct {
	name   string
	reads  []ecs.ComponentType
	writes []ecs.ComponentType
}

// NewBaseSystem returns a BaseSystem reporting the given name and
// reads/writes sets.
func NewBaseSystem(name string, reads, writes []ecs.ComponentType) BaseSystem {
	return BaseSystem{name: name, reads: reads, writes: writes}
}

func (b BaseSystem) Name() string               { return b.name }
func (b BaseSystem) Reads() []ecs.ComponentType  { return b.reads }
func (b BaseSystem) Writes() []ecs.ComponentType { return b.writes }
