package platform

import "reflect"

// componentValue is an alias for the minimal surface registry_binding.go
// needs from ecs.Component, without internal/platform importing
// internal/ecs just for this one binding; callers construct a
// RegistryEntityBinding by supplying get/set closures instead, keeping
// the dependency one-directional.
type componentValue = interface{}

// RegistryEntityBinding adapts a single entity's component rows to the
// EntityBinding contract a ScriptingRuntime invokes against, using
// reflection to reach a named float64 field — the bridge between the
// compile-time generic component storage and a script's dynamic
// get/set calls.
type RegistryEntityBinding struct {
	get    func(component string) (componentValue, bool)
	set    func(component string, value componentValue) bool
	remove func(component string) bool
}

// NewRegistryEntityBinding returns a binding backed by get/set/remove
// closures; callers typically supply
// ecs.ComponentByName/ecs.SetComponentByName/ecs.RemoveComponentByName
// bound to one registry and entity id.
func NewRegistryEntityBinding(
	get func(component string) (componentValue, bool),
	set func(component string, value componentValue) bool,
	remove func(component string) bool,
) *RegistryEntityBinding {
	return &RegistryEntityBinding{get: get, set: set, remove: remove}
}

func (b *RegistryEntityBinding) Get(component, field string) (float64, bool) {
	value, ok := b.get(component)
	if !ok {
		return 0, false
	}
	return fieldFloat(value, field)
}

func (b *RegistryEntityBinding) Set(component, field string, value float64) bool {
	current, ok := b.get(component)
	if !ok {
		return false
	}
	updated, ok := withFieldFloat(current, field, value)
	if !ok {
		return false
	}
	return b.set(component, updated)
}

// Remove detaches component from the bound entity, e.g. a script
// dropping its own Script component to stop running on future ticks.
func (b *RegistryEntityBinding) Remove(component string) bool {
	return b.remove(component)
}

func fieldFloat(value componentValue, field string) (float64, bool) {
	v := reflect.ValueOf(value)
	f := findField(v, field)
	if !f.IsValid() || f.Kind() != reflect.Float64 {
		return 0, false
	}
	return f.Float(), true
}

// withFieldFloat returns a copy of value with its named field set to
// newValue. value is a struct passed by value (components have no
// reference fields), so reflect.ValueOf(value) is never addressable;
// this copies it into a fresh addressable value first, mutates that,
// and returns the result for the caller to write back through set.
func withFieldFloat(value componentValue, field string, newValue float64) (componentValue, bool) {
	orig := reflect.ValueOf(value)
	ptr := reflect.New(orig.Type())
	ptr.Elem().Set(orig)

	f := findField(ptr.Elem(), field)
	if !f.IsValid() || f.Kind() != reflect.Float64 || !f.CanSet() {
		return nil, false
	}
	f.SetFloat(newValue)
	return ptr.Elem().Interface(), true
}

func findField(v reflect.Value, name string) reflect.Value {
	if v.Kind() != reflect.Struct {
		return reflect.Value{}
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Name == name {
			return v.Field(i)
		}
		if tag, ok := sf.Tag.Lookup("yaml"); ok && tag == name {
			return v.Field(i)
		}
	}
	return reflect.Value{}
}
