package layout

import (
	"fmt"
	"strings"
)

// Type is the resource type recorded in a directory entry. It is descriptive
// only; payloads are never interpreted by this module.
type Type uint8

const (
	TypeUnknown         Type = 0
	TypeString          Type = 1
	TypeImage           Type = 2
	TypeFont            Type = 3
	TypeAnimationScript Type = 4
	TypePalette         Type = 5
	TypeShadingTable    Type = 6
	TypeVoc             Type = 7
	TypeShape           Type = 8
	TypePicture         Type = 9
	TypeBabl2Extern     Type = 10
	TypeBabl2Reloc      Type = 11
	TypeBabl2Code       Type = 12
	TypeBabl2Header     Type = 13
	TypeBabl2Reserved   Type = 14
	TypeObject3d        Type = 15
	TypeStencil         Type = 16
	TypeMovie           Type = 17
	TypeRectangle       Type = 18

	// Application-defined slots occupy codes 48..63
	TypeAppDefined0  Type = 48
	TypeAppDefined1  Type = 49
	TypeAppDefined2  Type = 50
	TypeAppDefined3  Type = 51
	TypeAppDefined4  Type = 52
	TypeAppDefined5  Type = 53
	TypeAppDefined6  Type = 54
	TypeAppDefined7  Type = 55
	TypeAppDefined8  Type = 56
	TypeAppDefined9  Type = 57
	TypeAppDefined10 Type = 58
	TypeAppDefined11 Type = 59
	TypeAppDefined12 Type = 60
	TypeAppDefined13 Type = 61
	TypeAppDefined14 Type = 62
	TypeAppDefined15 Type = 63
)

var typeNames = map[Type]string{
	TypeUnknown:         "Unknown",
	TypeString:          "String",
	TypeImage:           "Image",
	TypeFont:            "Font",
	TypeAnimationScript: "AnimationScript",
	TypePalette:         "Palette",
	TypeShadingTable:    "ShadingTable",
	TypeVoc:             "Voc",
	TypeShape:           "Shape",
	TypePicture:         "Picture",
	TypeBabl2Extern:     "Babl2Extern",
	TypeBabl2Reloc:      "Babl2Reloc",
	TypeBabl2Code:       "Babl2Code",
	TypeBabl2Header:     "Babl2Header",
	TypeBabl2Reserved:   "Babl2Reserved",
	TypeObject3d:        "Object3d",
	TypeStencil:         "Stencil",
	TypeMovie:           "Movie",
	TypeRectangle:       "Rectangle",
	TypeAppDefined0:     "AppDefined0",
	TypeAppDefined1:     "AppDefined1",
	TypeAppDefined2:     "AppDefined2",
	TypeAppDefined3:     "AppDefined3",
	TypeAppDefined4:     "AppDefined4",
	TypeAppDefined5:     "AppDefined5",
	TypeAppDefined6:     "AppDefined6",
	TypeAppDefined7:     "AppDefined7",
	TypeAppDefined8:     "AppDefined8",
	TypeAppDefined9:     "AppDefined9",
	TypeAppDefined10:    "AppDefined10",
	TypeAppDefined11:    "AppDefined11",
	TypeAppDefined12:    "AppDefined12",
	TypeAppDefined13:    "AppDefined13",
	TypeAppDefined14:    "AppDefined14",
	TypeAppDefined15:    "AppDefined15",
}

// TypeFromCode maps a raw type byte to its Type. Codes without a defined
// type become TypeUnknown.
func TypeFromCode(code byte) Type {
	t := Type(code)
	if _, ok := typeNames[t]; ok {
		return t
	}
	return TypeUnknown
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// ParseType looks up a type by name. Matching ignores case and underscores,
// so "animation_script" and "AnimationScript" are the same type.
func ParseType(name string) (Type, error) {
	key := normalizeTypeName(name)
	for t, n := range typeNames {
		if normalizeTypeName(n) == key {
			return t, nil
		}
	}
	return TypeUnknown, fmt.Errorf("unknown resource type %q", name)
}

func normalizeTypeName(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "_", ""))
}
