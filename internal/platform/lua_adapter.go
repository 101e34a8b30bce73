package platform

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// LuaScriptingRuntime is a thin ScriptingRuntime over gopher-lua: one
// sandboxed *lua.LState per entity invocation, with bindings that only
// reach the current entity's component rows. Grounded on
// totodo713-vamplite's internal/core/ecs/lua bridge (CreateVM/LoadScript/
// ExecuteScript, applySandbox's global-blocking), scoped down to this
// package's load/invoke contract rather than that bridge's full
// mod-permission subsystem.
type LuaScriptingRuntime struct {
	mu      sync.Mutex
	sources map[string][]byte
}

// NewLuaScriptingRuntime returns a ScriptingRuntime proving the
// load/invoke contract is satisfiable over gopher-lua.
func NewLuaScriptingRuntime() *LuaScriptingRuntime {
	return &LuaScriptingRuntime{sources: make(map[string][]byte)}
}

func (r *LuaScriptingRuntime) Load(name string, source []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[name] = source
	return nil
}

func (r *LuaScriptingRuntime) Unload(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sources[name]; !ok {
		return fmt.Errorf("platform: unload: unknown script %q", name)
	}
	delete(r.sources, name)
	return nil
}

// Invoke runs the named script in a fresh sandboxed state, with an
// "entity" global table backed by entity's Get/Set. The state is closed
// before Invoke returns: scripts do not persist Lua-side state across
// invocations, matching the one-shot invoke contract.
func (r *LuaScriptingRuntime) Invoke(name string, entity EntityBinding) error {
	r.mu.Lock()
	source, ok := r.sources[name]
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("platform: invoke: unknown script %q", name)
	}

	state := lua.NewState()
	defer state.Close()
	sandbox(state)
	state.SetGlobal("entity", newEntityTable(state, entity))

	if err := state.DoString(string(source)); err != nil {
		return fmt.Errorf("platform: script %q failed: %w", name, err)
	}
	return nil
}

// sandbox blocks the globals a mod script has no business touching,
// the same set totodo713-vamplite's applySandbox disables.
func sandbox(state *lua.LState) {
	state.SetGlobal("io", lua.LNil)
	state.SetGlobal("os", lua.LNil)
	state.SetGlobal("dofile", lua.LNil)
	state.SetGlobal("loadfile", lua.LNil)
	state.SetGlobal("debug", lua.LNil)
	state.SetGlobal("package", lua.LNil)
	state.SetGlobal("require", lua.LNil)
}

// newEntityTable builds the `entity` global: entity.get(component,
// field), entity.set(component, field, value), and
// entity.remove(component), all delegating to the bound EntityBinding,
// never to any other entity.
func newEntityTable(state *lua.LState, entity EntityBinding) *lua.LTable {
	table := state.NewTable()

	table.RawSetString("get", state.NewFunction(func(L *lua.LState) int {
		component := L.CheckString(1)
		field := L.CheckString(2)
		value, ok := entity.Get(component, field)
		if !ok {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(lua.LNumber(value))
		return 1
	}))

	table.RawSetString("set", state.NewFunction(func(L *lua.LState) int {
		component := L.CheckString(1)
		field := L.CheckString(2)
		value := L.CheckNumber(3)
		L.Push(lua.LBool(entity.Set(component, field, float64(value))))
		return 1
	}))

	table.RawSetString("remove", state.NewFunction(func(L *lua.LState) int {
		component := L.CheckString(1)
		L.Push(lua.LBool(entity.Remove(component)))
		return 1
	}))

	return table
}

var _ ScriptingRuntime = (*LuaScriptingRuntime)(nil)
