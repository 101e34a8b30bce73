package components

import "forgecore/internal/ecs"

// Health is current/max hit points plus a passive regeneration rate,
// kept in the same shape totodo713-vamplite's components.Health used.
type Health struct {
	Current        float64 `yaml:"current"`
	Max            float64 `yaml:"max"`
	RegenPerSecond float64 `yaml:"regen_per_second"`
}

// NewHealth returns a full-health component with no regeneration.
func NewHealth(max float64) Health {
	return Health{Current: max, Max: max}
}

// Name is Health's stable wire identifier.
func (Health) Name() string { return "health" }

// Clone returns an independent copy.
func (h Health) Clone() ecs.Component { return h }
