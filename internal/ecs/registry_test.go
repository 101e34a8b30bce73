package ecs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forgecore/internal/ecs"
	"forgecore/internal/ecs/components"
)

func TestCreateEntityRejectsDuplicateName(t *testing.T) {
	r := ecs.NewRegistry()

	first, err := r.CreateEntity("player")
	require.NoError(t, err)

	_, err = r.CreateEntity("player")
	assert.ErrorIs(t, err, ecs.ErrDuplicateName)

	// the rejected call must not have disturbed the existing binding
	again, ok := r.EntityByName("player")
	require.True(t, ok)
	assert.Equal(t, first, again)
}

func TestCreateEntityThenDestroyEntityRoundTrip(t *testing.T) {
	r := ecs.NewRegistry()

	id, err := r.CreateEntity("torch")
	require.NoError(t, err)
	ecs.AddComponent(r, id, components.NewHealth(10))

	name, ok := r.Name(id)
	require.True(t, ok)
	assert.Equal(t, "torch", name)
	assert.True(t, r.IsValid(id))

	r.DestroyEntity(id)

	assert.False(t, r.IsValid(id))
	_, ok = r.Name(id)
	assert.False(t, ok, "a destroyed entity has no name")
	_, ok = r.EntityByName("torch")
	assert.False(t, ok, "get_entity by the destroyed entity's former name resolves to none")
	assert.False(t, ecs.HasComponent[components.Health](r, id), "every component row is dropped on destroy")

	// the freed name is immediately reusable
	reborn, err := r.CreateEntity("torch")
	require.NoError(t, err)
	assert.NotEqual(t, id, reborn)
}

func TestDestroyEntityOnUnknownIDIsANoOp(t *testing.T) {
	r := ecs.NewRegistry()
	assert.NotPanics(t, func() { r.DestroyEntity(999) })
}

func TestHasComponentAgreesWithMaskAndStorage(t *testing.T) {
	r := ecs.NewRegistry()
	id, err := r.CreateEntity("crate")
	require.NoError(t, err)

	assert.False(t, ecs.HasComponent[components.Health](r, id))
	_, ok := ecs.GetComponent[components.Health](r, id)
	assert.False(t, ok)

	ecs.AddComponent(r, id, components.NewHealth(50))

	assert.True(t, ecs.HasComponent[components.Health](r, id))
	assert.True(t, r.Mask(id).Has(ecs.TypeOf[components.Health]()))
	h, ok := ecs.GetComponent[components.Health](r, id)
	require.True(t, ok)
	assert.Equal(t, 50.0, h.Current)

	ecs.RemoveComponent[components.Health](r, id)

	assert.False(t, ecs.HasComponent[components.Health](r, id))
	assert.False(t, r.Mask(id).Has(ecs.TypeOf[components.Health]()))
	_, ok = ecs.GetComponent[components.Health](r, id)
	assert.False(t, ok)
}

func TestAddComponentOnUnknownEntityPanics(t *testing.T) {
	r := ecs.NewRegistry()
	assert.Panics(t, func() {
		ecs.AddComponent(r, ecs.EntityID(12345), components.NewHealth(1))
	})
}

func TestForEach1VisitsOnlyMatchingEntitiesExactlyOnce(t *testing.T) {
	r := ecs.NewRegistry()

	withHealth1, err := r.CreateEntity("a")
	require.NoError(t, err)
	ecs.AddComponent(r, withHealth1, components.NewHealth(10))

	withHealth2, err := r.CreateEntity("b")
	require.NoError(t, err)
	ecs.AddComponent(r, withHealth2, components.NewHealth(20))

	withoutHealth, err := r.CreateEntity("c")
	require.NoError(t, err)
	ecs.AddComponent(r, withoutHealth, components.NewTransform())

	visits := make(map[ecs.EntityID]int)
	ecs.ForEach1(r, func(id ecs.EntityID, h *components.Health) {
		visits[id]++
	})

	assert.Equal(t, 1, visits[withHealth1])
	assert.Equal(t, 1, visits[withHealth2])
	assert.NotContains(t, visits, withoutHealth, "an entity missing the component must not be visited")
	assert.Len(t, visits, 2)
}

func TestForEach2VisitsOnlyEntitiesCarryingBothComponents(t *testing.T) {
	r := ecs.NewRegistry()

	both, err := r.CreateEntity("both")
	require.NoError(t, err)
	ecs.AddComponent(r, both, components.NewTransform())
	ecs.AddComponent(r, both, components.NewHealth(5))

	transformOnly, err := r.CreateEntity("transform-only")
	require.NoError(t, err)
	ecs.AddComponent(r, transformOnly, components.NewTransform())

	visited := make(map[ecs.EntityID]bool)
	ecs.ForEach2(r, func(id ecs.EntityID, tr *components.Transform, h *components.Health) {
		visited[id] = true
	})

	assert.True(t, visited[both])
	assert.False(t, visited[transformOnly])
	assert.Len(t, visited, 1)
}
