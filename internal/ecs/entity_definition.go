package ecs

import (
	"fmt"
	"reflect"

	"gopkg.in/yaml.v3"
)

// newComponentDecodeTarget returns a pointer to a fresh copy of c's
// concrete type, suitable as a yaml.Node.Decode target. Component values
// are plain structs (never pointers), so reflection is the only way to
// get an addressable target from an interface value whose concrete type
// is known only at runtime.
func newComponentDecodeTarget(c Component) any {
	rv := reflect.New(reflect.TypeOf(c))
	rv.Elem().Set(reflect.ValueOf(c))
	return rv.Interface()
}

// derefComponent reads back the decoded value behind a pointer produced
// by newComponentDecodeTarget.
func derefComponent(ptr any) (Component, bool) {
	c, ok := reflect.ValueOf(ptr).Elem().Interface().(Component)
	return c, ok
}

// EntityDefinition is the serializable shape of an entity: a stable
// name, an id, and an optional value per component type. It is the
// on-disk and cross-boundary representation used by the world archive
// (internal/world) and, via yaml.Node, is self-describing: a reader
// needs no compile-time knowledge of which component types a given
// definition carries, only that each carried type has been registered
// (imported) somewhere in the running process.
type EntityDefinition struct {
	Name       string               `yaml:"name"`
	ID         EntityID             `yaml:"id"`
	Components map[string]yaml.Node `yaml:"components,omitempty"`
}

// Serialize builds an EntityDefinition from the entity's current state in
// r. The returned value owns no references into the registry: each
// component is Clone()d before being staged for marshaling.
func Serialize(r *Registry, id EntityID) (EntityDefinition, error) {
	name, _ := r.Name(id)
	def := EntityDefinition{
		Name:       name,
		ID:         id,
		Components: make(map[string]yaml.Node, 4),
	}

	for compName, value := range componentsOf(r, id) {
		var node yaml.Node
		if err := node.Encode(value.Clone()); err != nil {
			return EntityDefinition{}, fmt.Errorf("ecs: encode component %q of %s: %w", compName, id, err)
		}
		def.Components[compName] = node
	}

	return def, nil
}

// Deserialize creates (or reuses, if def.Name already names a live
// entity) an entity in r and applies every component in def to it. An
// unknown component name is skipped rather than treated as an error: the
// wire form is meant to survive engines that know about a superset, or a
// subset, of component types.
func Deserialize(r *Registry, def EntityDefinition) (EntityID, error) {
	id, ok := r.EntityByName(def.Name)
	if !ok {
		var err error
		id, err = r.CreateEntity(def.Name)
		if err != nil {
			return InvalidEntity, err
		}
	}

	for name, node := range def.Components {
		_, factory, ok := componentFactoryByName(name)
		if !ok {
			continue // unknown component type in this process; skip it
		}
		c := factory()
		ptr := newComponentDecodeTarget(c)
		if err := node.Decode(ptr); err != nil {
			return InvalidEntity, fmt.Errorf("ecs: decode component %q of %s: %w", name, def.Name, err)
		}
		decoded, ok := derefComponent(ptr)
		if !ok {
			return InvalidEntity, fmt.Errorf("ecs: component %q did not decode to a Component", name)
		}
		if !applyByName(r, id, name, decoded) {
			return InvalidEntity, fmt.Errorf("ecs: no applier registered for component %q", name)
		}
	}

	return id, nil
}
