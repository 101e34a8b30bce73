package components

import "forgecore/internal/ecs"

// Script names the Lua script (see internal/platform's ScriptingRuntime
// adapter) that should be invoked against this entity each tick, with
// its own sandbox state.
type Script struct {
	ScriptName string `yaml:"script_name"`
	Enabled    bool   `yaml:"enabled"`
}

// NewScript returns an enabled Script component naming the given script.
func NewScript(name string) Script {
	return Script{ScriptName: name, Enabled: true}
}

// Name is Script's stable wire identifier.
func (Script) Name() string { return "script" }

// Clone returns an independent copy.
func (s Script) Clone() ecs.Component { return s }
