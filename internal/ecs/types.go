// Package ecs implements the entity/component registry: entity id
// allocation, bitmask-indexed component storage, and typed iteration over
// entities that carry a given set of component types. See
// internal/scheduler for the system layer that schedules concurrent
// access to this registry.
package ecs

import "fmt"

// EntityID is a 64-bit non-zero identifier. The value 0 is reserved as
// "invalid". Entities are allocated from a monotonically increasing
// counter; destroyed ids are never reused within one session.
type EntityID uint64

// InvalidEntity is the reserved "no entity" value.
const InvalidEntity EntityID = 0

// String renders the id for logging.
func (e EntityID) String() string {
	return fmt.Sprintf("entity#%d", uint64(e))
}

// ComponentType is a dense, small integer id assigned to a component Go
// type the first time it is used against a Registry, process-wide, and
// never reused. It indexes directly into a Mask and into per-type
// storage. Because the numeric value is an artifact of registration
// order, on-disk data (EntityDefinition) is keyed by the component's
// semantic Name(), never by this id — see component.go.
type ComponentType int

const maxComponentTypes = 256

// Mask is a fixed-width bitset recording, for one entity, which component
// types it currently carries. It is at least 256 bits wide, per the data
// model's invariant that a bitset of this width is enough for the
// lifetime of one process's component-type registrations.
type Mask [maxComponentTypes / 64]uint64

// Set returns a copy of m with bit t set.
func (m Mask) Set(t ComponentType) Mask {
	m[t/64] |= 1 << uint(t%64)
	return m
}

// Clear returns a copy of m with bit t cleared.
func (m Mask) Clear(t ComponentType) Mask {
	m[t/64] &^= 1 << uint(t%64)
	return m
}

// Has reports whether bit t is set.
func (m Mask) Has(t ComponentType) bool {
	return m[t/64]&(1<<uint(t%64)) != 0
}

// ContainsAll reports whether every bit set in other is also set in m,
// i.e. m's entity carries at least the component types other names.
func (m Mask) ContainsAll(other Mask) bool {
	for i := range m {
		if m[i]&other[i] != other[i] {
			return false
		}
	}
	return true
}

// IsEmpty reports whether no bits are set.
func (m Mask) IsEmpty() bool {
	for _, word := range m {
		if word != 0 {
			return false
		}
	}
	return true
}
