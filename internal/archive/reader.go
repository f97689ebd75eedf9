// Package archive serves resources out of a RES file.
//
// A Reader decodes the directory once and then materializes resources on
// demand, keeping each one cached for the lifetime of the Reader. Resource
// data is not addressed by stored offsets: the directory records lengths
// only and resources follow one another in directory order, so the offset of
// a resource is found by walking the directory from the data segment start.
//
// A Reader is not safe for concurrent use. Every load seeks and reads the
// shared source, so callers needing parallel access must synchronize or open
// one Reader per source.
package archive

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/jchantrell/lgres/internal/layout"
)

// Reader provides cached access to the resources of a RES file
type Reader struct {
	source     io.ReadSeeker
	header     layout.FileHeader
	directory  []layout.DirectoryEntry
	dataOffset int64
	cache      map[uint16]*Resource
}

// NewReader opens a RES archive over source. The source is rewound to its
// start before anything is read. Resources flagged load-on-open are loaded
// before NewReader returns; if any of them fails the archive is rejected.
func NewReader(source io.ReadSeeker) (*Reader, error) {
	if _, err := source.Seek(0, io.SeekStart); err != nil {
		return nil, &layout.IOError{Op: "seek to file header", Err: err}
	}

	header, err := layout.ReadFileHeader(source)
	if err != nil {
		return nil, fmt.Errorf("reading file header: %w", err)
	}

	if _, err := source.Seek(header.DirHeaderOffset(), io.SeekStart); err != nil {
		return nil, &layout.IOError{Op: "seek to directory header", Err: err}
	}

	dirHeader, err := layout.ReadDirectoryHeader(source)
	if err != nil {
		return nil, fmt.Errorf("reading directory header: %w", err)
	}

	directory := make([]layout.DirectoryEntry, 0, dirHeader.NumEntries)
	var preload []uint16
	for i := 0; i < int(dirHeader.NumEntries); i++ {
		entry, err := layout.ReadDirectoryEntry(source)
		if err != nil {
			return nil, fmt.Errorf("reading directory entry %d of %d: %w", i, dirHeader.NumEntries, err)
		}
		directory = append(directory, entry)
		if !entry.IsDeleted() && entry.LoadOnOpen() {
			preload = append(preload, entry.ID)
		}
	}

	slog.Debug("Directory loaded",
		"entries", len(directory),
		"dir_header_offset", header.DirHeaderOffset(),
		"data_offset", dirHeader.DataOffset,
		"preload", len(preload))

	r := &Reader{
		source:     source,
		header:     header,
		directory:  directory,
		dataOffset: int64(dirHeader.DataOffset),
		cache:      make(map[uint16]*Resource),
	}

	for _, id := range preload {
		if err := r.Load(id); err != nil {
			return nil, fmt.Errorf("preloading resource %d: %w", id, err)
		}
	}

	return r, nil
}

// Comment returns the raw 96-byte user comment from the file header
func (r *Reader) Comment() []byte {
	return r.header.Comment()
}

// CommentText returns the user comment as UTF-8 text
func (r *Reader) CommentText() (string, error) {
	return r.header.CommentText()
}

// CommentCP437 returns the user comment decoded from code page 437
func (r *Reader) CommentCP437() (string, error) {
	return r.header.CommentCP437()
}

// CommentSummary returns the comment for display: UTF-8 when valid, code
// page 437 otherwise, with trailing NULs and whitespace removed.
func (r *Reader) CommentSummary() string {
	text, err := r.CommentText()
	if err != nil {
		// CP437 maps every byte, so this cannot fail
		text, _ = r.CommentCP437()
	}
	return strings.TrimRight(text, "\x00 \t\r\n\x1a")
}

// Directory returns a copy of the directory in on-disk order
func (r *Reader) Directory() []layout.DirectoryEntry {
	return slices.Clone(r.directory)
}

// DataOffset returns the file offset of the data segment
func (r *Reader) DataOffset() int64 {
	return r.dataOffset
}

// Contains reports whether the directory has an entry with the given ID.
// ID 0 marks deleted entries and must not be passed; use HasDeletedEntries.
func (r *Reader) Contains(id uint16) bool {
	mustBeValidID(id)
	for _, entry := range r.directory {
		if entry.ID == id {
			return true
		}
	}
	return false
}

// HasDeletedEntries reports whether any directory entry is a deleted slot
func (r *Reader) HasDeletedEntries() bool {
	for _, entry := range r.directory {
		if entry.IsDeleted() {
			return true
		}
	}
	return false
}

// Loaded returns the resource with the given ID if it has already been
// loaded. It never reads from the source.
func (r *Reader) Loaded(id uint16) (*Resource, bool) {
	mustBeValidID(id)
	res, ok := r.cache[id]
	return res, ok
}

// Get returns the resource with the given ID, loading it first if needed.
func (r *Reader) Get(id uint16) (*Resource, error) {
	if err := r.Load(id); err != nil {
		return nil, err
	}
	return r.cache[id], nil
}

// Load materializes the resource with the given ID into the cache. Loading a
// cached resource is a no-op. On failure the cache is left unchanged and the
// source position is undefined.
func (r *Reader) Load(id uint16) error {
	mustBeValidID(id)
	if _, ok := r.cache[id]; ok {
		slog.Debug("Resource cache hit", "id", id)
		return nil
	}

	var (
		found  bool
		entry  layout.DirectoryEntry
		offset int64
	)
	r.walk(func(_ int, e layout.DirectoryEntry, off int64) bool {
		if e.ID != id {
			return true
		}
		found, entry, offset = true, e, off
		return false
	})
	if !found {
		return fmt.Errorf("resource %d: %w", id, ErrResourceNotFound)
	}

	_, err := r.loadEntry(entry, offset)
	return err
}

// loadEntry reads the resource described by entry at offset and caches it
// under its ID.
func (r *Reader) loadEntry(entry layout.DirectoryEntry, offset int64) (*Resource, error) {
	res, err := r.read(entry, offset)
	if err != nil {
		return nil, fmt.Errorf("loading resource %d: %w", entry.ID, err)
	}

	r.cache[entry.ID] = res
	slog.Debug("Resource loaded", "id", entry.ID, "type", entry.Type, "offset", offset, "size", entry.UncompressedLen)
	return res, nil
}

// Find returns the resource of the first non-deleted directory entry that
// matches. The matched entry is the one read, even when an earlier entry
// shares its ID. Only the first entry of an ID goes through the cache; a
// later entry with a repeated ID is read directly each time.
func (r *Reader) Find(match func(layout.DirectoryEntry) bool) (*Resource, error) {
	var (
		found  bool
		index  int
		entry  layout.DirectoryEntry
		offset int64
	)
	r.walk(func(i int, e layout.DirectoryEntry, off int64) bool {
		if e.IsDeleted() || !match(e) {
			return true
		}
		found, index, entry, offset = true, i, e, off
		return false
	})
	if !found {
		return nil, ErrResourceNotFound
	}

	if r.firstIndexOf(entry.ID) != index {
		res, err := r.read(entry, offset)
		if err != nil {
			return nil, fmt.Errorf("loading resource %d at position %d: %w", entry.ID, index, err)
		}
		return res, nil
	}

	if res, ok := r.cache[entry.ID]; ok {
		return res, nil
	}
	return r.loadEntry(entry, offset)
}

// firstIndexOf returns the directory position of the first entry with id
func (r *Reader) firstIndexOf(id uint16) int {
	return slices.IndexFunc(r.directory, func(e layout.DirectoryEntry) bool { return e.ID == id })
}

// Offset returns the absolute file offset of the resource with the given ID.
func (r *Reader) Offset(id uint16) (int64, error) {
	mustBeValidID(id)
	offset := int64(-1)
	r.walk(func(_ int, e layout.DirectoryEntry, off int64) bool {
		if e.ID != id {
			return true
		}
		offset = off
		return false
	})
	if offset < 0 {
		return 0, fmt.Errorf("resource %d: %w", id, ErrResourceNotFound)
	}
	return offset, nil
}

// Offsets returns the absolute file offset of every directory entry, deleted
// ones included, in directory order.
func (r *Reader) Offsets() []int64 {
	offsets := make([]int64, 0, len(r.directory))
	r.walk(func(_ int, _ layout.DirectoryEntry, off int64) bool {
		offsets = append(offsets, off)
		return true
	})
	return offsets
}

// walk visits the directory in order with the data offset of each entry.
// Every entry, deleted or not, advances the offset by its compressed length.
// Returning false from fn stops the walk.
func (r *Reader) walk(fn func(i int, entry layout.DirectoryEntry, offset int64) bool) {
	offset := r.dataOffset
	for i, entry := range r.directory {
		if !fn(i, entry, offset) {
			return
		}
		offset += int64(entry.CompressedLen)
	}
}

func (r *Reader) read(entry layout.DirectoryEntry, offset int64) (*Resource, error) {
	switch {
	case entry.IsCompressed():
		return nil, ErrCompressed
	case entry.IsCompound():
		return nil, ErrCompound
	}

	if _, err := r.source.Seek(offset, io.SeekStart); err != nil {
		return nil, &layout.IOError{Op: "seek to resource data", Err: err}
	}

	data := make([]byte, entry.UncompressedLen)
	if _, err := io.ReadFull(r.source, data); err != nil {
		return nil, &layout.IOError{Op: "read resource data", Err: err}
	}

	return &Resource{entry: entry, data: data}, nil
}

func mustBeValidID(id uint16) {
	if id == 0 {
		panic("archive: resource ID 0 denotes a deleted entry and cannot be looked up")
	}
}
