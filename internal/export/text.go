package export

import (
	"bytes"

	"golang.org/x/text/encoding/charmap"
)

// DecodeCP437 decodes code page 437 text to UTF-8, dropping a trailing NUL
// terminator if present
func DecodeCP437(data []byte) (string, error) {
	data = bytes.TrimRight(data, "\x00")
	decoded, err := charmap.CodePage437.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
