package components

import "forgecore/internal/ecs"

// Audio names a sound to play from this entity's position, with a 3D
// falloff radius; no mixing or DSP is implemented here, this is a data
// shape consumed by whatever audio backend is wired against it.
type Audio struct {
	SoundID       string  `yaml:"sound_id"`
	Volume        float64 `yaml:"volume"`
	Loop          bool    `yaml:"loop"`
	FalloffRadius float64 `yaml:"falloff_radius"`
}

// NewAudio returns a non-looping, full-volume Audio component for the
// given sound id with the given falloff radius.
func NewAudio(soundID string, falloffRadius float64) Audio {
	return Audio{SoundID: soundID, Volume: 1, FalloffRadius: falloffRadius}
}

// Name is Audio's stable wire identifier.
func (Audio) Name() string { return "audio" }

// Clone returns an independent copy.
func (a Audio) Clone() ecs.Component { return a }
