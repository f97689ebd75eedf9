package utils

import (
	"strings"
	"unicode"
)

// ToSnakeCase converts a CamelCase identifier to snake_case. A run of capitals
// is kept together, so "LZWFlags" becomes "lzw_flags" and "Object3d" becomes
// "object3d".
func ToSnakeCase(s string) string {
	if s == "" {
		return s
	}

	runes := []rune(s)

	var result strings.Builder
	result.Grow(len(s) + 10) // Pre-allocate some extra space for underscores

	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				result.WriteByte('_')
			}
		}
		result.WriteRune(unicode.ToLower(r))
	}

	return result.String()
}
