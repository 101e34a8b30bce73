package world

import (
	"encoding/binary"
	"io"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"forgecore/internal/ecs"
)

// slot tracks where one chunk's record lives and how much room it has
// before an update must fall back to an append.
type slot struct {
	offset   int64
	capacity int64 // bytes reserved for varint(size)+payload at offset
}

// BinaryArchive is the length-prefixed binary encoding: each chunk is
// stored as varint32(size) || bytes(size), grounded on
// original_source/engine/modules/File/src/save_archive_binary.cpp. The
// index is rebuilt by a forward linear scan at open; runs of 0x00 bytes
// are treated as padding left behind by an earlier in-place shrink (a
// real record's leading size-varint byte is never zero, since an encoded
// chunk payload is never empty).
type BinaryArchive struct {
	mu    sync.Mutex
	file  *os.File
	size  int64
	index map[ChunkID]slot
}

// OpenBinaryArchive opens (creating if absent) path and rebuilds its index
// by scanning the existing records.
func OpenBinaryArchive(path string) (*BinaryArchive, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	a := &BinaryArchive{file: f, size: info.Size(), index: make(map[ChunkID]slot)}
	if err := a.rebuildIndex(); err != nil {
		f.Close()
		return nil, err
	}
	return a, nil
}

// Close releases the underlying file handle.
func (a *BinaryArchive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.file.Close()
}

func (a *BinaryArchive) rebuildIndex() error {
	buf := make([]byte, a.size)
	if _, err := a.file.ReadAt(buf, 0); err != nil && err != io.EOF {
		return err
	}

	pos := int64(0)
	for pos < int64(len(buf)) {
		if buf[pos] == 0x00 {
			pos++
			continue
		}

		payloadLen, n := binary.Uvarint(buf[pos:])
		if n <= 0 {
			break // truncated or corrupt record, stop scanning
		}
		recordStart := pos
		payloadStart := pos + int64(n)
		payloadEnd := payloadStart + int64(payloadLen)
		if payloadEnd > int64(len(buf)) {
			break // truncated payload
		}

		var chunk WorldChunk
		if err := yaml.Unmarshal(buf[payloadStart:payloadEnd], &chunk); err == nil {
			a.index[chunk.ID] = slot{offset: recordStart, capacity: payloadEnd - recordStart}
		}

		pos = payloadEnd
	}
	return nil
}

func encodeChunk(chunk WorldChunk) ([]byte, error) {
	payload, err := yaml.Marshal(chunk)
	if err != nil {
		return nil, err
	}
	var header [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(header[:], uint64(len(payload)))
	return append(header[:n], payload...), nil
}

// ReadChunk returns the chunk iff previously written and not removed.
func (a *BinaryArchive) ReadChunk(id ChunkID) (WorldChunk, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, ok := a.index[id]
	if !ok {
		return WorldChunk{}, false
	}

	buf := make([]byte, s.capacity)
	if _, err := a.file.ReadAt(buf, s.offset); err != nil {
		return WorldChunk{}, false
	}
	payloadLen, n := binary.Uvarint(buf)
	if n <= 0 || int64(n)+int64(payloadLen) > s.capacity {
		return WorldChunk{}, false
	}

	var chunk WorldChunk
	if err := yaml.Unmarshal(buf[n:n+int(payloadLen)], &chunk); err != nil {
		return WorldChunk{}, false
	}
	return chunk, true
}

// WriteChunk upserts by chunk.ID, overwriting in place when the new
// record fits in the existing slot, appending at EOF otherwise.
func (a *BinaryArchive) WriteChunk(chunk WorldChunk) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	record, err := encodeChunk(chunk)
	if err != nil {
		return false
	}
	newLen := int64(len(record))

	if s, ok := a.index[chunk.ID]; ok && newLen <= s.capacity {
		if _, err := a.file.WriteAt(record, s.offset); err != nil {
			return false
		}
		if pad := s.capacity - newLen; pad > 0 {
			zeros := make([]byte, pad)
			if _, err := a.file.WriteAt(zeros, s.offset+newLen); err != nil {
				return false
			}
		}
		return true
	}

	offset := a.size
	if _, err := a.file.WriteAt(record, offset); err != nil {
		return false
	}
	a.index[chunk.ID] = slot{offset: offset, capacity: newLen}
	a.size = offset + newLen
	return true
}

// RemoveChunk drops id from the in-memory index; the on-disk bytes are
// left untouched (no compaction) — a tombstone, not an erasure. A fresh
// OpenBinaryArchive against the same file would therefore resurrect the
// chunk from its still-present bytes; deletions are not persisted.
func (a *BinaryArchive) RemoveChunk(id ChunkID) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.index[id]; !ok {
		return false
	}
	delete(a.index, id)
	return true
}

// AllChunkIDs is the in-memory index of every chunk currently persisted.
func (a *BinaryArchive) AllChunkIDs() map[ChunkID]struct{} {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make(map[ChunkID]struct{}, len(a.index))
	for id := range a.index {
		out[id] = struct{}{}
	}
	return out
}

// UpdateEntity reads the chunk, replaces the entity by id or appends it,
// then writes the chunk back.
func (a *BinaryArchive) UpdateEntity(chunkID ChunkID, def ecs.EntityDefinition) bool {
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
func (a *BinaryArchive) RemoveEntity(chunkID ChunkID, def ecs.EntityDefinition) bool {
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

var _ SaveArchive = (*BinaryArchive)(nil)
