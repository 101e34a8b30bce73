package world

import "forgecore/internal/ecs"

// SaveArchive is the on-disk container for every chunk of one world. Binary
// and text implementations expose the same logical operations; callers
// pick an encoding once, at construction.
type SaveArchive interface {
	// ReadChunk returns the chunk iff previously written and not removed.
	ReadChunk(id ChunkID) (WorldChunk, bool)
	// WriteChunk upserts by chunk.ID.
	WriteChunk(chunk WorldChunk) bool
	// RemoveChunk deletes the chunk if present, reporting whether it was.
	RemoveChunk(id ChunkID) bool
	// AllChunkIDs is the in-memory index of every chunk currently persisted.
	AllChunkIDs() map[ChunkID]struct{}
	// UpdateEntity reads the chunk, replaces the entity by id or appends
	// it, then writes the chunk back.
	UpdateEntity(chunkID ChunkID, def ecs.EntityDefinition) bool
	// RemoveEntity reads the chunk, drops the entity by id or name, then
	// writes the chunk back.
	RemoveEntity(chunkID ChunkID, def ecs.EntityDefinition) bool
}
