package layout

import "strings"

// Flags is the per-resource flag byte of a directory entry.
type Flags uint8

const (
	// FlagLZW marks a resource stored with LZW compression.
	FlagLZW Flags = 0x01
	// FlagCompound marks a resource that is itself a nested container.
	FlagCompound Flags = 0x02
	// FlagReserved has no documented meaning.
	FlagReserved Flags = 0x04
	// FlagLoadOnOpen marks a resource to be loaded as soon as the archive is opened.
	FlagLoadOnOpen Flags = 0x08
	// FlagCDSpoof is informational only.
	FlagCDSpoof Flags = 0x10

	flagsMask = FlagLZW | FlagCompound | FlagReserved | FlagLoadOnOpen | FlagCDSpoof
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagLZW, "LZW"},
	{FlagCompound, "COMPOUND"},
	{FlagReserved, "RESERVED"},
	{FlagLoadOnOpen, "LOAD_ON_OPEN"},
	{FlagCDSpoof, "CD_SPOOF"},
}

// FlagsFromByte converts a raw flag byte, silently dropping undefined bits.
func FlagsFromByte(b byte) Flags {
	return Flags(b) & flagsMask
}

// Has reports whether all bits of flag are set.
func (f Flags) Has(flag Flags) bool {
	return f&flag == flag
}

func (f Flags) String() string {
	if f == 0 {
		return "-"
	}
	var names []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	return strings.Join(names, "|")
}
