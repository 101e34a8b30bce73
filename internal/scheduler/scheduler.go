package scheduler

import (
	"context"

	"golang.org/x/sync/errgroup"

	"forgecore/internal/ecs"
)

// Scheduler holds a set of registered systems and the parallel execution
// layers derived from their declared reads/writes sets.
//
// Grounded on totodo713-vamplite's SystemManagerImpl (registration map,
// execution order slice) but replaces its always-sequential UpdateSystems loop with
// Kahn layering over a reads/writes conflict graph, and its dependency
// bookkeeping (SetSystemDependency / wouldCreateCycle) with cycle detection
// that falls naturally out of the layering itself.
type Scheduler struct {
	systems []System
	byName  map[string]struct{}
	layers  [][]System
}

// New returns an empty Scheduler.
func New() *Scheduler {
	return &Scheduler{byName: make(map[string]struct{})}
}

// Register adds a system. Order of registration has no effect on execution
// order, only on Build's determinism for systems with identical conflict
// relationships (ties broken by registration order).
func (s *Scheduler) Register(sys System) error {
	if _, exists := s.byName[sys.Name()]; exists {
		return ErrDuplicateSystem
	}
	s.byName[sys.Name()] = struct{}{}
	s.systems = append(s.systems, sys)
	s.layers = nil
	return nil
}

func conflicts(a, b System) bool {
	writesA := toSet(a.Writes())
	if intersects(writesA, toSet(b.Reads())) {
		return true
	}
	if intersects(writesA, toSet(b.Writes())) {
		return true
	}
	return false
}

func toSet(types []ecs.ComponentType) map[ecs.ComponentType]struct{} {
	set := make(map[ecs.ComponentType]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return set
}

func intersects(a, b map[ecs.ComponentType]struct{}) bool {
	for t := range a {
		if _, ok := b[t]; ok {
			return true
		}
	}
	return false
}

// Build computes the conflict graph over all registered systems and layers
// it via Kahn's algorithm: each layer is the set of systems with no
// remaining unresolved conflict against an earlier layer. Returns ErrCycle
// if the conflict graph is not acyclic — a configuration error, caught at
// startup rather than during a tick.
func (s *Scheduler) Build() error {
	n := len(s.systems)

	// edges[i] lists indices j such that i conflicts-with j (i must run
	// before j, i.e. an edge i->j for each "conflicts with" pair).
	edges := make([][]int, n)
	inDegree := make([]int, n)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if conflicts(s.systems[i], s.systems[j]) {
				edges[i] = append(edges[i], j)
				inDegree[j]++
			}
		}
	}

	remaining := n
	removed := make([]bool, n)
	var layers [][]System

	for remaining > 0 {
		var layerIdx []int
		for i := 0; i < n; i++ {
			if !removed[i] && inDegree[i] == 0 {
				layerIdx = append(layerIdx, i)
			}
		}
		if len(layerIdx) == 0 {
			return ErrCycle
		}

		layer := make([]System, 0, len(layerIdx))
		for _, i := range layerIdx {
			layer = append(layer, s.systems[i])
			removed[i] = true
			remaining--
		}
		for _, i := range layerIdx {
			for _, j := range edges[i] {
				if !removed[j] {
					inDegree[j]--
				}
			}
		}
		layers = append(layers, layer)
	}

	s.layers = layers
	return nil
}

// Layers returns the computed parallel execution layers. Build must have
// been called first; returns nil otherwise.
func (s *Scheduler) Layers() [][]System {
	return s.layers
}

// Run invokes every layer in order: within a layer, systems run
// concurrently on the worker pool via errgroup; a failing system does not
// cancel its siblings (errgroup's context cancellation is deliberately
// unused here), and the first error is reraised once the whole layer has
// finished: the barrier waits for every system regardless of failure, the
// first error wins. Errors after the first are dropped by errgroup: they
// are neither returned to the caller nor logged.
func (s *Scheduler) Run(ctx context.Context, dt float64, r *ecs.Registry) error {
	for _, layer := range s.layers {
		if err := runLayer(ctx, layer, dt, r); err != nil {
			return err
		}
	}
	return nil
}

func runLayer(ctx context.Context, layer []System, dt float64, r *ecs.Registry) error {
	var g errgroup.Group
	for _, sys := range layer {
		sys := sys
		g.Go(func() error {
			return sys.Run(ctx, dt, r)
		})
	}
	return g.Wait()
}
