package scheduler_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forgecore/internal/ecs"
	"forgecore/internal/ecs/components"
	"forgecore/internal/scheduler"
)

type recordingSystem struct {
	scheduler.BaseSystem
	run func(ctx context.Context, dt float64, r *ecs.Registry) error
}

func (s *recordingSystem) Run(ctx context.Context, dt float64, r *ecs.Registry) error {
	return s.run(ctx, dt, r)
}

func newSystem(name string, reads, writes []ecs.ComponentType, run func(context.Context, float64, *ecs.Registry) error) *recordingSystem {
	return &recordingSystem{BaseSystem: scheduler.NewBaseSystem(name, reads, writes), run: run}
}

func noop(context.Context, float64, *ecs.Registry) error { return nil }

func TestBuildLayersIndependentSystemsTogether(t *testing.T) {
	transformT := ecs.TypeOf[components.Transform]()
	visualT := ecs.TypeOf[components.Visual]()

	var mu sync.Mutex
	var order []string
	record := func(name string) func(context.Context, float64, *ecs.Registry) error {
		return func(context.Context, float64, *ecs.Registry) error {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return nil
		}
	}

	writesTransform := newSystem("writes-transform", nil, []ecs.ComponentType{transformT}, record("writes-transform"))
	writesVisual := newSystem("writes-visual", nil, []ecs.ComponentType{visualT}, record("writes-visual"))
	readsTransform := newSystem("reads-transform", []ecs.ComponentType{transformT}, nil, record("reads-transform"))

	s := scheduler.New()
	require.NoError(t, s.Register(writesTransform))
	require.NoError(t, s.Register(writesVisual))
	require.NoError(t, s.Register(readsTransform))

	require.NoError(t, s.Build())
	layers := s.Layers()
	require.Len(t, layers, 2)
	assert.Len(t, layers[0], 2) // writes-transform and writes-visual don't conflict
	assert.Len(t, layers[1], 1) // reads-transform depends on writes-transform

	r := ecs.NewRegistry()
	require.NoError(t, s.Run(context.Background(), 1.0/60.0, r))
	assert.Contains(t, order, "reads-transform")
	assert.Equal(t, "reads-transform", order[len(order)-1])
}

func TestBuildDetectsCycle(t *testing.T) {
	transformT := ecs.TypeOf[components.Transform]()
	visualT := ecs.TypeOf[components.Visual]()

	a := newSystem("a", []ecs.ComponentType{visualT}, []ecs.ComponentType{transformT}, noop)
	b := newSystem("b", []ecs.ComponentType{transformT}, []ecs.ComponentType{visualT}, noop)

	s := scheduler.New()
	require.NoError(t, s.Register(a))
	require.NoError(t, s.Register(b))

	err := s.Build()
	assert.ErrorIs(t, err, scheduler.ErrCycle)
}

func TestRegisterRejectsDuplicateName(t *testing.T) {
	s := scheduler.New()
	require.NoError(t, s.Register(newSystem("dup", nil, nil, noop)))
	err := s.Register(newSystem("dup", nil, nil, noop))
	assert.ErrorIs(t, err, scheduler.ErrDuplicateSystem)
}

func TestRunReraisesFirstErrorAfterBarrier(t *testing.T) {
	boom := errors.New("boom")
	failing := newSystem("failing", nil, nil, func(context.Context, float64, *ecs.Registry) error { return boom })
	other := newSystem("other", nil, nil, noop)

	s := scheduler.New()
	require.NoError(t, s.Register(failing))
	require.NoError(t, s.Register(other))
	require.NoError(t, s.Build())

	err := s.Run(context.Background(), 1.0/60.0, ecs.NewRegistry())
	assert.ErrorIs(t, err, boom)
}
