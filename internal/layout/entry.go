package layout

import (
	"encoding/binary"
	"io"
)

// DirectoryEntry describes one resource. Entries with ID 0 are deleted slots:
// they can't be looked up but their data still occupies the data segment.
type DirectoryEntry struct {
	ID              uint16
	UncompressedLen uint32 // 24-bit on disk
	Flags           Flags
	CompressedLen   uint32 // 24-bit on disk
	Type            Type
}

// ReadDirectoryEntry reads a directory entry from r, which must be positioned
// at the first byte of the entry.
func ReadDirectoryEntry(r io.Reader) (DirectoryEntry, error) {
	var buf [DirectoryEntrySize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return DirectoryEntry{}, &IOError{Op: "read directory entry", Err: err}
	}
	return parseDirectoryEntry(buf), nil
}

func parseDirectoryEntry(buf [DirectoryEntrySize]byte) DirectoryEntry {
	return DirectoryEntry{
		ID:              binary.LittleEndian.Uint16(buf[0:]),
		UncompressedLen: Uint24(buf[2:5]),
		Flags:           FlagsFromByte(buf[5]),
		CompressedLen:   Uint24(buf[6:9]),
		Type:            TypeFromCode(buf[9]),
	}
}

// Uint24 decodes three little-endian bytes into a zero-extended uint32.
func Uint24(b []byte) uint32 {
	_ = b[2] // bounds check hint
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}

// IsDeleted reports whether the entry is a deleted slot
func (e DirectoryEntry) IsDeleted() bool {
	return e.ID == 0
}

// IsCompressed reports whether the resource is stored LZW-compressed
func (e DirectoryEntry) IsCompressed() bool {
	return e.Flags.Has(FlagLZW)
}

// IsCompound reports whether the resource is itself a nested container
func (e DirectoryEntry) IsCompound() bool {
	return e.Flags.Has(FlagCompound)
}

// LoadOnOpen reports whether the resource must be loaded when the archive is opened
func (e DirectoryEntry) LoadOnOpen() bool {
	return e.Flags.Has(FlagLoadOnOpen)
}
