// Package testutil builds RES archives in memory for tests.
package testutil

import (
	"bytes"
	"encoding/binary"
	"io"
)

// Entry is one resource to place in a test archive. Data is written to the
// data segment as-is and its length becomes the compressed length. When
// UncompressedLen is zero the length of Data is used.
type Entry struct {
	ID              uint16
	Flags           byte
	Type            byte
	Data            []byte
	UncompressedLen uint32
}

// Archive describes a test archive.
type Archive struct {
	Comment []byte
	Entries []Entry
	// DataPadding inserts unused bytes between the file header and the data segment.
	DataPadding int
}

var signature = []byte("LG Res File v2\r\n")

// Build lays the archive out as header, data segment, directory header and
// directory entries.
func Build(a Archive) []byte {
	var buf bytes.Buffer

	var comment [96]byte
	copy(comment[:], a.Comment)

	dataOffset := 128 + a.DataPadding
	dataLen := 0
	for _, e := range a.Entries {
		dataLen += len(e.Data)
	}
	dirOffset := dataOffset + dataLen

	buf.Write(signature)
	buf.Write(comment[:])
	buf.Write(make([]byte, 12))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(dirOffset))

	buf.Write(make([]byte, a.DataPadding))
	for _, e := range a.Entries {
		buf.Write(e.Data)
	}

	_ = binary.Write(&buf, binary.LittleEndian, uint16(len(a.Entries)))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(dataOffset))
	for _, e := range a.Entries {
		ulen := e.UncompressedLen
		if ulen == 0 {
			ulen = uint32(len(e.Data))
		}
		_ = binary.Write(&buf, binary.LittleEndian, e.ID)
		buf.Write(PutUint24(ulen))
		buf.WriteByte(e.Flags)
		buf.Write(PutUint24(uint32(len(e.Data))))
		buf.WriteByte(e.Type)
	}

	return buf.Bytes()
}

// PutUint24 encodes the low 24 bits of v little-endian.
func PutUint24(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16)}
}

// Source is an io.ReadSeeker over a byte slice that records how it was used.
type Source struct {
	r     *bytes.Reader
	Reads int
	Seeks []int64
}

// NewSource wraps data in a recording Source.
func NewSource(data []byte) *Source {
	return &Source{r: bytes.NewReader(data)}
}

func (s *Source) Read(p []byte) (int, error) {
	s.Reads++
	return s.r.Read(p)
}

func (s *Source) Seek(offset int64, whence int) (int64, error) {
	pos, err := s.r.Seek(offset, whence)
	if err == nil {
		s.Seeks = append(s.Seeks, pos)
	}
	return pos, err
}

// Reset clears the recorded reads and seeks.
func (s *Source) Reset() {
	s.Reads = 0
	s.Seeks = nil
}

var _ io.ReadSeeker = (*Source)(nil)
