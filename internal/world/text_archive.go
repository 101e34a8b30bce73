package world

import (
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"forgecore/internal/ecs"
)

// textDocument is the whole archive's single structured shape:
// {chunks: [...]}, grounded on
// original_source/engine/modules/World/src/save_archive_json.cpp's
// one-document-per-archive layout, expressed in YAML instead of JSON.
type textDocument struct {
	Chunks []WorldChunk `yaml:"chunks"`
}

// TextArchive is the structured-text encoding: the whole archive is one
// document, rewritten atomically on every mutation.
type TextArchive struct {
	mu   sync.Mutex
	path string
	doc  textDocument
}

// OpenTextArchive opens (creating if absent) path and parses its document.
func OpenTextArchive(path string) (*TextArchive, error) {
	a := &TextArchive{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return a, a.rewrite()
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return a, nil
	}
	if err := yaml.Unmarshal(data, &a.doc); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *TextArchive) rewrite() error {
	data, err := yaml.Marshal(a.doc)
	if err != nil {
		return err
	}
	tmp := a.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, a.path)
}

func (a *TextArchive) indexOf(id ChunkID) int {
	for i := range a.doc.Chunks {
		if a.doc.Chunks[i].ID == id {
			return i
		}
	}
	return -1
}

// ReadChunk returns the chunk iff previously written and not removed.
func (a *TextArchive) ReadChunk(id ChunkID) (WorldChunk, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if i := a.indexOf(id); i >= 0 {
		return a.doc.Chunks[i], true
	}
	return WorldChunk{}, false
}

// WriteChunk finds-or-appends by id, then rewrites the document.
func (a *TextArchive) WriteChunk(chunk WorldChunk) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if i := a.indexOf(chunk.ID); i >= 0 {
		a.doc.Chunks[i] = chunk
	} else {
		a.doc.Chunks = append(a.doc.Chunks, chunk)
	}
	return a.rewrite() == nil
}

// RemoveChunk drops the chunk by id, then rewrites the document.
func (a *TextArchive) RemoveChunk(id ChunkID) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	i := a.indexOf(id)
	if i < 0 {
		return false
	}
	a.doc.Chunks = append(a.doc.Chunks[:i], a.doc.Chunks[i+1:]...)
	return a.rewrite() == nil
}

// AllChunkIDs is the in-memory index of every chunk currently persisted.
func (a *TextArchive) AllChunkIDs() map[ChunkID]struct{} {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make(map[ChunkID]struct{}, len(a.doc.Chunks))
	for _, c := range a.doc.Chunks {
		out[c.ID] = struct{}{}
	}
	return out
}

// UpdateEntity reads the chunk, replaces the entity by id or appends it,
// then writes the chunk back.
func (a *TextArchive) UpdateEntity(chunkID ChunkID, def ecs.EntityDefinition) bool {
	chunk, ok := a.ReadChunk(chunkID)
	if !ok {
		return false
	}
	if i := chunk.IndexEntityByID(def.ID); i >= 0 {
		chunk.Entities[i] = def
	} else {
		chunk.Entities = append(chunk.Entities, def)
	}
	return a.WriteChunk(chunk)
}

// RemoveEntity reads the chunk, drops the entity by id or name, then
// writes the chunk back.
func (a *TextArchive) RemoveEntity(chunkID ChunkID, def ecs.EntityDefinition) bool {
	chunk, ok := a.ReadChunk(chunkID)
	if !ok {
		return false
	}
	i := chunk.IndexEntityByID(def.ID)
	if i < 0 {
		i = chunk.IndexEntityByName(def.Name)
	}
	if i < 0 {
		return false
	}
	chunk.Entities = append(chunk.Entities[:i], chunk.Entities[i+1:]...)
	return a.WriteChunk(chunk)
}

var _ SaveArchive = (*TextArchive)(nil)
