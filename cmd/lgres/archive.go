package main

import (
	"fmt"
	"slices"

	"github.com/jchantrell/lgres/internal/layout"
)

// entryFilter selects directory entries for listing and extraction
type entryFilter struct {
	ids            []uint
	types          map[layout.Type]bool
	includeDeleted bool
}

// apply returns the entries of directory matching the filter in directory
// order. Every requested ID must be present in the directory.
func (f entryFilter) apply(directory []layout.DirectoryEntry) ([]layout.DirectoryEntry, error) {
	wanted := make(map[uint16]bool, len(f.ids))
	for _, id := range f.ids {
		if id == 0 || id > 0xFFFF {
			return nil, fmt.Errorf("invalid resource id %d", id)
		}
		wanted[uint16(id)] = true
	}

	for id := range wanted {
		if !slices.ContainsFunc(directory, func(e layout.DirectoryEntry) bool { return e.ID == id }) {
			return nil, fmt.Errorf("resource %d not found in directory", id)
		}
	}

	var selected []layout.DirectoryEntry
	for _, entry := range directory {
		if f.matches(entry, wanted) {
			selected = append(selected, entry)
		}
	}

	return selected, nil
}

// matches reports whether entry passes the deleted and type filters and,
// when wanted is non-empty, is one of the wanted IDs
func (f entryFilter) matches(entry layout.DirectoryEntry, wanted map[uint16]bool) bool {
	if entry.IsDeleted() && !f.includeDeleted {
		return false
	}
	if len(wanted) > 0 && !wanted[entry.ID] {
		return false
	}
	if f.types != nil && !f.types[entry.Type] {
		return false
	}
	return true
}
