package ecs

import "fmt"

// Registry stores every live entity's component mask, the per-type
// component storages, and the name<->entity bijection for one world.
//
// Registry holds no lock and owns no strand: it does not serialize its
// own operations, and concurrent mutation from several goroutines is a
// data race. In cmd/engine every access is driven by the logic loop's
// goroutine: directly (internal/pipeline's stages), through a blocking
// call onto the world streamer's strand (internal/world.Streamer), or
// through the scheduler's parallel layers, which it waits on — systems
// cooperate via the scheduler's conflict graph, not via locking.
type Registry struct {
	nextID EntityID
	masks  map[EntityID]Mask
	stores map[ComponentType]any // ComponentType -> *store[T]

	nameToEntity map[string]EntityID
	entityToName map[EntityID]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		nextID:       InvalidEntity + 1,
		masks:        make(map[EntityID]Mask),
		stores:       make(map[ComponentType]any),
		nameToEntity: make(map[string]EntityID),
		entityToName: make(map[EntityID]string),
	}
}

// CreateEntity allocates a fresh id, inserts an empty mask, and
// registers the name<->id pair. Names must be unique among live
// entities.
func (r *Registry) CreateEntity(name string) (EntityID, error) {
	if _, exists := r.nameToEntity[name]; exists {
		return InvalidEntity, ErrDuplicateName
	}

	id := r.nextID
	r.nextID++

	r.masks[id] = Mask{}
	r.nameToEntity[name] = id
	r.entityToName[id] = name

	return id, nil
}

// DestroyEntity removes the mask, every component row across all
// storages, and the name mapping for id. Idempotent: destroying an
// unknown id is a no-op, not an error.
func (r *Registry) DestroyEntity(id EntityID) {
	mask, ok := r.masks[id]
	if !ok {
		return
	}

	for ct, raw := range r.stores {
		if !mask.Has(ct) {
			continue
		}
		if remover, ok := raw.(anyStore); ok {
			remover.remove(id)
		}
	}

	delete(r.masks, id)
	if name, ok := r.entityToName[id]; ok {
		delete(r.nameToEntity, name)
		delete(r.entityToName, id)
	}
}

// IsValid reports whether id is currently in the registry.
func (r *Registry) IsValid(id EntityID) bool {
	_, ok := r.masks[id]
	return ok
}

// EntityByName looks up a live entity by its unique name.
func (r *Registry) EntityByName(name string) (EntityID, bool) {
	id, ok := r.nameToEntity[name]
	return id, ok
}

// Name returns the entity's registered name, if it has one.
func (r *Registry) Name(id EntityID) (string, bool) {
	name, ok := r.entityToName[id]
	return name, ok
}

// Mask returns the component mask for id; the zero Mask for an unknown
// entity.
func (r *Registry) Mask(id EntityID) Mask {
	return r.masks[id]
}

// Count returns the number of live entities.
func (r *Registry) Count() int {
	return len(r.masks)
}

func storeFor[T Component](r *Registry) *store[T] {
	ct := typeOf[T]()
	raw, ok := r.stores[ct]
	if !ok {
		s := newStore[T]()
		r.stores[ct] = s
		return s
	}
	return raw.(*store[T])
}

// AddComponent inserts or overwrites the component in T's storage for id
// and sets the corresponding mask bit. Calling this against an entity id
// the registry has no mask entry for is a contract violation — a defect,
// not a recoverable runtime error: it panics rather than returning an
// error.
func AddComponent[T Component](r *Registry, id EntityID, value T) {
	mask, ok := r.masks[id]
	if !ok {
		panic(fmt.Sprintf("ecs: add_component on unknown entity %s: %v", id, ErrUnknownEntity))
	}

	s := storeFor[T](r)
	s.set(id, value)

	ct := typeOf[T]()
	r.masks[id] = mask.Set(ct)
}

// RemoveComponent clears T's bit and drops the stored value for id, if
// present. A no-op if id never had the component.
func RemoveComponent[T Component](r *Registry, id EntityID) {
	mask, ok := r.masks[id]
	if !ok {
		return
	}
	s := storeFor[T](r)
	s.remove(id)

	ct := typeOf[T]()
	r.masks[id] = mask.Clear(ct)
}

// HasComponent reports whether id currently carries a T.
func HasComponent[T Component](r *Registry, id EntityID) bool {
	mask, ok := r.masks[id]
	if !ok {
		return false
	}
	return mask.Has(typeOf[T]())
}

// GetComponent returns a pointer into T's storage for id, or (nil,
// false) if id has no T. The returned pointer points into the storage
// slice, so it must not be retained past the next mutation of T's
// storage; the registry itself does not serialize those mutations (see
// Registry).
func GetComponent[T Component](r *Registry, id EntityID) (*T, bool) {
	s := storeFor[T](r)
	return s.getPtr(id)
}

// ForEach1 invokes f(id, &value) for every entity whose mask contains T,
// each at most once. Iteration order is unspecified but stable within
// this call.
func ForEach1[T Component](r *Registry, f func(EntityID, *T)) {
	storeFor[T](r).forEach(f)
}

// ForOne1 invokes f(id, &value) iff id carries T, returning whether it
// did.
func ForOne1[T Component](r *Registry, id EntityID, f func(EntityID, *T)) bool {
	v, ok := GetComponent[T](r, id)
	if !ok {
		return false
	}
	f(id, v)
	return true
}

// ForEach2 invokes f for every entity whose mask contains both T1 and
// T2. It walks T1's store (assumed the narrower of the two in the common
// case of a required/optional pair) and filters by T2's presence.
func ForEach2[T1, T2 Component](r *Registry, f func(EntityID, *T1, *T2)) {
	s2 := storeFor[T2](r)
	storeFor[T1](r).forEach(func(id EntityID, v1 *T1) {
		if v2, ok := s2.getPtr(id); ok {
			f(id, v1, v2)
		}
	})
}

// ForOne2 invokes f(id, &v1, &v2) iff id carries both T1 and T2.
func ForOne2[T1, T2 Component](r *Registry, id EntityID, f func(EntityID, *T1, *T2)) bool {
	v1, ok := GetComponent[T1](r, id)
	if !ok {
		return false
	}
	v2, ok := GetComponent[T2](r, id)
	if !ok {
		return false
	}
	f(id, v1, v2)
	return true
}

// ForEach3 invokes f for every entity whose mask contains T1, T2 and T3.
func ForEach3[T1, T2, T3 Component](r *Registry, f func(EntityID, *T1, *T2, *T3)) {
	s2 := storeFor[T2](r)
	s3 := storeFor[T3](r)
	storeFor[T1](r).forEach(func(id EntityID, v1 *T1) {
		v2, ok := s2.getPtr(id)
		if !ok {
			return
		}
		v3, ok := s3.getPtr(id)
		if !ok {
			return
		}
		f(id, v1, v2, v3)
	})
}

// ForOne3 invokes f(id, &v1, &v2, &v3) iff id carries T1, T2 and T3.
func ForOne3[T1, T2, T3 Component](r *Registry, id EntityID, f func(EntityID, *T1, *T2, *T3)) bool {
	v1, ok := GetComponent[T1](r, id)
	if !ok {
		return false
	}
	v2, ok := GetComponent[T2](r, id)
	if !ok {
		return false
	}
	v3, ok := GetComponent[T3](r, id)
	if !ok {
		return false
	}
	f(id, v1, v2, v3)
	return true
}
