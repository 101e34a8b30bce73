// Package world implements the streaming world archive: chunked storage
// of entity definitions on disk, and a streamer that loads/unloads chunks
// around a moving focus point. Grounded on the original C++'s world and
// file modules (original_source/engine/modules/World, .../File), adapted
// to Go's encoding/gob-free, struct-tag-driven serialization idiom used
// elsewhere in this repository.
package world

import (
	"fmt"
	"math"

	"forgecore/internal/ecs"
)

// ChunkID identifies a cubic region of world space of edge length S.
type ChunkID struct {
	X, Y, Z int32
}

// String renders the id as "(x,y,z)", used in log fields.
func (c ChunkID) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z)
}

// ChunkOf returns the chunk containing world position (px,py,pz) for chunk
// size s: floor(p/s) componentwise.
func ChunkOf(px, py, pz float64, s float64) ChunkID {
	return ChunkID{
		X: int32(math.Floor(px / s)),
		Y: int32(math.Floor(py / s)),
		Z: int32(math.Floor(pz / s)),
	}
}

// WorldChunk is the on-disk and in-memory unit of world content: an id and
// the entity definitions it contains.
type WorldChunk struct {
	ID       ChunkID                `yaml:"id"`
	Entities []ecs.EntityDefinition `yaml:"entities"`
}

// IndexEntityByID finds an entity definition in the chunk by entity id.
func (c *WorldChunk) IndexEntityByID(id ecs.EntityID) int {
	for i := range c.Entities {
		if c.Entities[i].ID == id {
			return i
		}
	}
	return -1
}

// IndexEntityByName finds an entity definition in the chunk by name.
func (c *WorldChunk) IndexEntityByName(name string) int {
	for i := range c.Entities {
		if c.Entities[i].Name == name {
			return i
		}
	}
	return -1
}
