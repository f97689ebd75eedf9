package archive

import "github.com/jchantrell/lgres/internal/layout"

// Resource is a materialized resource. Its bytes are owned by the Reader's
// cache and must not be modified.
type Resource struct {
	entry layout.DirectoryEntry
	data  []byte
}

// ID returns the resource ID
func (r *Resource) ID() uint16 { return r.entry.ID }

// Type returns the resource type from the directory entry
func (r *Resource) Type() layout.Type { return r.entry.Type }

// Flags returns the resource flags from the directory entry
func (r *Resource) Flags() layout.Flags { return r.entry.Flags }

// Entry returns a copy of the directory entry the resource was loaded from
func (r *Resource) Entry() layout.DirectoryEntry { return r.entry }

// Bytes returns the resource data. The slice is shared with the cache.
func (r *Resource) Bytes() []byte { return r.data }

// Len returns the resource size in bytes
func (r *Resource) Len() int { return len(r.data) }
