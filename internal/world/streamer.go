package world

import (
	"context"

	"forgecore/internal/async"
	"forgecore/internal/ecs"
)

// Streamer wraps one SaveArchive and keeps the subset of chunks currently
// loaded into a Registry in sync with a moving focus point, grounded on
// original_source/engine/modules/World/src/world.cpp's WorldStreamer
// (updateLoadPosition/loadChunk/unloadChunk). All mutating operations run
// on the streamer's own strand.
type Streamer struct {
	archive    SaveArchive
	registry   *ecs.Registry
	strand     *async.Strand
	chunkSize  float64
	loadRadius int32

	loaded   map[ChunkID]WorldChunk
	toReload map[ChunkID]struct{}

	// chunkEntities records which registry entity ids came from which
	// loaded chunk, so unloading can destroy exactly those entities.
	chunkEntities map[ChunkID][]ecs.EntityID
}

// NewStreamer returns a Streamer over archive, loading entities into
// registry, using the given strand for serialization, chunkSize for the
// toChunk projection, and loadRadius for update_load_position's
// Chebyshev-distance neighborhood.
func NewStreamer(archive SaveArchive, registry *ecs.Registry, strand *async.Strand, chunkSize float64, loadRadius int32) *Streamer {
	return &Streamer{
		archive:       archive,
		registry:      registry,
		strand:        strand,
		chunkSize:     chunkSize,
		loadRadius:    loadRadius,
		loaded:        make(map[ChunkID]WorldChunk),
		toReload:      make(map[ChunkID]struct{}),
		chunkEntities: make(map[ChunkID][]ecs.EntityID),
	}
}

// Loaded reports whether a chunk is currently loaded, for tests and
// diagnostics.
func (s *Streamer) Loaded(id ChunkID) bool {
	_, ok := s.loaded[id]
	return ok
}

// LoadedChunkIDs returns every chunk id currently loaded.
func (s *Streamer) LoadedChunkIDs() map[ChunkID]struct{} {
	out := make(map[ChunkID]struct{}, len(s.loaded))
	for id := range s.loaded {
		out[id] = struct{}{}
	}
	return out
}

// UpdateLoadPosition computes the required chunk set around p (Chebyshev
// distance ≤ loadRadius, intersected with the archive's known chunks),
// loads anything missing or marked to_reload, and unloads anything loaded
// that's no longer required.
func (s *Streamer) UpdateLoadPosition(ctx context.Context, px, py, pz float64) {
	s.strand.EnsureOnStrand(ctx, func(ctx context.Context) {
		center := ChunkOf(px, py, pz, s.chunkSize)
		all := s.archive.AllChunkIDs()

		required := make(map[ChunkID]struct{})
		r := s.loadRadius
		for dx := -r; dx <= r; dx++ {
			for dy := -r; dy <= r; dy++ {
				for dz := -r; dz <= r; dz++ {
					id := ChunkID{X: center.X + dx, Y: center.Y + dy, Z: center.Z + dz}
					if _, known := all[id]; known {
						required[id] = struct{}{}
					}
				}
			}
		}

		for id := range required {
			_, isLoaded := s.loaded[id]
			_, stale := s.toReload[id]
			if !isLoaded || stale {
				s.loadChunk(id)
				delete(s.toReload, id)
			}
		}

		for id := range s.loaded {
			if _, stillRequired := required[id]; !stillRequired {
				s.unloadChunk(id)
			}
		}
	})
}

func (s *Streamer) loadChunk(id ChunkID) {
	chunk, ok := s.archive.ReadChunk(id)
	if !ok {
		return
	}

	ids := make([]ecs.EntityID, 0, len(chunk.Entities))
	for _, def := range chunk.Entities {
		eid, err := ecs.Deserialize(s.registry, def)
		if err != nil {
			continue // the entity is skipped; the error is neither returned nor logged
		}
		ids = append(ids, eid)
	}

	s.loaded[id] = chunk
	s.chunkEntities[id] = ids
}

func (s *Streamer) unloadChunk(id ChunkID) {
	for _, eid := range s.chunkEntities[id] {
		s.registry.DestroyEntity(eid)
	}
	delete(s.chunkEntities, id)
	delete(s.loaded, id)
}

// Read returns the loaded chunk for id. A pointer into `loaded` would only
// be valid until the next streamer mutation; Go's maps don't support
// addressable values, so this returns a copy of the WorldChunk value
// instead, which stays valid past the next mutation (merely stale, not
// dangling). The copy is shallow: its Entities slice shares its backing
// array with the loaded entry.
func (s *Streamer) Read(ctx context.Context, id ChunkID) (chunk WorldChunk, ok bool) {
	s.strand.EnsureOnStrand(ctx, func(context.Context) {
		chunk, ok = s.loaded[id]
	})
	return
}

// Write writes chunk through to the archive; if it is currently loaded,
// marks it to_reload so the next UpdateLoadPosition picks up the change.
func (s *Streamer) Write(ctx context.Context, chunk WorldChunk) (ok bool) {
	s.strand.EnsureOnStrand(ctx, func(context.Context) {
		ok = s.archive.WriteChunk(chunk)
		if !ok {
			return
		}
		if _, isLoaded := s.loaded[chunk.ID]; isLoaded {
			s.toReload[chunk.ID] = struct{}{}
		}
	})
	return
}

// Remove unloads id if loaded, then removes it from the archive.
func (s *Streamer) Remove(ctx context.Context, id ChunkID) (ok bool) {
	s.strand.EnsureOnStrand(ctx, func(context.Context) {
		if _, isLoaded := s.loaded[id]; isLoaded {
			s.unloadChunk(id)
		}
		ok = s.archive.RemoveChunk(id)
	})
	return
}
