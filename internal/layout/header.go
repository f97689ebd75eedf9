// Package layout decodes the fixed-size records of a Looking Glass RES file:
// the file header, the directory header and the directory entries.
//
// A RES file never stores resource offsets. The directory lists resource
// lengths and resources are laid out in directory order starting at the
// data offset, so placement is left to the archive package.
package layout

import (
	"bytes"
	"encoding/binary"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Record sizes in bytes
const (
	FileHeaderSize      = 128
	DirectoryHeaderSize = 6
	DirectoryEntrySize  = 10

	signatureLen = 16
	commentLen   = 96
	reservedLen  = 12
)

// Signature is the literal every RES file starts with.
var Signature = [signatureLen]byte{'L', 'G', ' ', 'R', 'e', 's', ' ', 'F', 'i', 'l', 'e', ' ', 'v', '2', '\r', '\n'}

// FileHeader is the 128-byte record at offset 0 of a RES file
type FileHeader struct {
	signature       [signatureLen]byte
	comment         [commentLen]byte
	dirHeaderOffset uint32
}

// ReadFileHeader reads a file header from r, which must be positioned at the
// first byte of the header.
func ReadFileHeader(r io.Reader) (FileHeader, error) {
	var buf [FileHeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return FileHeader{}, &IOError{Op: "read file header", Err: err}
	}
	return parseFileHeader(buf)
}

func parseFileHeader(buf [FileHeaderSize]byte) (FileHeader, error) {
	var h FileHeader
	copy(h.signature[:], buf[:signatureLen])
	if !bytes.Equal(h.signature[:], Signature[:]) {
		return FileHeader{}, ErrBadSignature
	}
	copy(h.comment[:], buf[signatureLen:signatureLen+commentLen])
	// reserved bytes are ignored
	h.dirHeaderOffset = binary.LittleEndian.Uint32(buf[signatureLen+commentLen+reservedLen:])
	return h, nil
}

// Comment returns the raw 96-byte user comment, including any trailing NULs.
func (h FileHeader) Comment() []byte {
	c := h.comment
	return c[:]
}

// CommentText returns the user comment interpreted as UTF-8.
func (h FileHeader) CommentText() (string, error) {
	if !utf8.Valid(h.comment[:]) {
		return "", &UTF8Error{Offset: firstInvalidUTF8(h.comment[:])}
	}
	return string(h.comment[:]), nil
}

// CommentCP437 returns the user comment decoded from code page 437, the
// character set of the DOS tools that wrote most RES files. Every byte maps
// to a character so this only fails if the decoder itself does.
func (h FileHeader) CommentCP437() (string, error) {
	decoded, err := charmap.CodePage437.NewDecoder().Bytes(h.comment[:])
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// DirHeaderOffset returns the file offset of the directory header.
func (h FileHeader) DirHeaderOffset() int64 {
	return int64(h.dirHeaderOffset)
}

func firstInvalidUTF8(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(b)
}

// DirectoryHeader precedes the directory entries
type DirectoryHeader struct {
	NumEntries uint16
	DataOffset uint32
}

// ReadDirectoryHeader reads a directory header from r, which must be
// positioned at the first byte of the header.
func ReadDirectoryHeader(r io.Reader) (DirectoryHeader, error) {
	var buf [DirectoryHeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return DirectoryHeader{}, &IOError{Op: "read directory header", Err: err}
	}
	return DirectoryHeader{
		NumEntries: binary.LittleEndian.Uint16(buf[0:]),
		DataOffset: binary.LittleEndian.Uint32(buf[2:]),
	}, nil
}
