package archive

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/jchantrell/lgres/internal/layout"
	"github.com/jchantrell/lgres/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	flagLZW        = byte(layout.FlagLZW)
	flagCompound   = byte(layout.FlagCompound)
	flagLoadOnOpen = byte(layout.FlagLoadOnOpen)
	flagCDSpoof    = byte(layout.FlagCDSpoof)
)

// openTestArchive builds an archive and opens a Reader over a recording source.
func openTestArchive(t *testing.T, a testutil.Archive) (*Reader, *testutil.Source) {
	t.Helper()

	src := testutil.NewSource(testutil.Build(a))
	r, err := NewReader(src)
	require.NoError(t, err)
	return r, src
}

func fiveResources() testutil.Archive {
	return testutil.Archive{
		Comment: []byte("test archive"),
		Entries: []testutil.Entry{
			{ID: 1, Type: byte(layout.TypeString), Data: []byte("hello\x00world\x00")},
			{ID: 2, Type: byte(layout.TypeImage), Data: bytes.Repeat([]byte{0xAB}, 64)},
			{ID: 3, Type: byte(layout.TypePalette), Data: bytes.Repeat([]byte{1, 2, 3}, 256)},
			{ID: 4, Type: byte(layout.TypeVoc), Data: []byte("Creative Voice File\x1a")},
			{ID: 5, Type: 0x7F, Data: []byte{}},
		},
	}
}

func TestNewReaderDirectory(t *testing.T) {
	t.Parallel()

	r, _ := openTestArchive(t, fiveResources())

	dir := r.Directory()
	require.Len(t, dir, 5)
	for i, entry := range dir {
		assert.Equal(t, uint16(i+1), entry.ID)
	}
	assert.Equal(t, layout.TypeString, dir[0].Type)
	assert.Equal(t, layout.TypeUnknown, dir[4].Type)
	assert.Equal(t, int64(128), r.DataOffset())
	assert.False(t, r.HasDeletedEntries())
}

func TestDirectoryReturnsCopy(t *testing.T) {
	t.Parallel()

	r, _ := openTestArchive(t, fiveResources())

	dir := r.Directory()
	dir[0].ID = 99
	assert.Equal(t, uint16(1), r.Directory()[0].ID)
}

func TestComment(t *testing.T) {
	t.Parallel()

	r, _ := openTestArchive(t, fiveResources())

	assert.Len(t, r.Comment(), 96)
	text, err := r.CommentText()
	require.NoError(t, err)
	assert.Equal(t, "test archive", text[:12])

	cp437, err := r.CommentCP437()
	require.NoError(t, err)
	assert.Equal(t, "test archive", cp437[:12])
	assert.Equal(t, "test archive", r.CommentSummary())
}

func TestCommentSummaryFallsBackToCP437(t *testing.T) {
	t.Parallel()

	r, _ := openTestArchive(t, testutil.Archive{
		Comment: []byte("Level 1\xb0\x1a"),
		Entries: []testutil.Entry{{ID: 1, Data: []byte("x")}},
	})

	_, err := r.CommentText()
	require.Error(t, err)
	assert.Equal(t, "Level 1░", r.CommentSummary())
}

func TestLoadRoundTrip(t *testing.T) {
	t.Parallel()

	a := fiveResources()
	r, _ := openTestArchive(t, a)

	for _, want := range a.Entries {
		res, err := r.Get(want.ID)
		require.NoError(t, err, "id %d", want.ID)
		assert.Equal(t, want.ID, res.ID())
		assert.Equal(t, len(want.Data), res.Len())
		assert.Equal(t, want.Data, res.Bytes())
		assert.Equal(t, layout.TypeFromCode(want.Type), res.Type())
	}
}

func TestLoadReadsUncompressedLength(t *testing.T) {
	t.Parallel()

	r, _ := openTestArchive(t, testutil.Archive{
		Entries: []testutil.Entry{
			{ID: 7, Data: []byte("abcdefgh"), UncompressedLen: 4},
			{ID: 8, Data: []byte("ijkl")},
		},
	})

	res, err := r.Get(7)
	require.NoError(t, err)
	assert.Equal(t, []byte("abcd"), res.Bytes())

	// the next resource still starts after the full compressed length
	res, err = r.Get(8)
	require.NoError(t, err)
	assert.Equal(t, []byte("ijkl"), res.Bytes())
}

func TestLoadIsIdempotent(t *testing.T) {
	t.Parallel()

	r, src := openTestArchive(t, fiveResources())

	require.NoError(t, r.Load(3))
	first, ok := r.Loaded(3)
	require.True(t, ok)
	snapshot := bytes.Clone(first.Bytes())

	src.Reset()
	require.NoError(t, r.Load(3))
	assert.Zero(t, src.Reads)
	assert.Empty(t, src.Seeks)

	second, err := r.Get(3)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, snapshot, second.Bytes())
	assert.Zero(t, src.Reads)
}

func TestLoadedDoesNotLoad(t *testing.T) {
	t.Parallel()

	r, src := openTestArchive(t, fiveResources())
	src.Reset()

	res, ok := r.Loaded(2)
	assert.False(t, ok)
	assert.Nil(t, res)
	assert.Zero(t, src.Reads)
	assert.Empty(t, src.Seeks)
}

func TestPreloadOnOpen(t *testing.T) {
	t.Parallel()

	r, src := openTestArchive(t, testutil.Archive{
		Entries: []testutil.Entry{
			{ID: 10, Data: []byte("lazy")},
			{ID: 11, Flags: flagLoadOnOpen, Data: []byte("eager one")},
			{ID: 0, Flags: flagLoadOnOpen, Data: []byte("deleted")},
			{ID: 12, Flags: flagLoadOnOpen | flagCDSpoof, Data: []byte("eager two")},
		},
	})
	src.Reset()

	res, ok := r.Loaded(11)
	require.True(t, ok)
	assert.Equal(t, []byte("eager one"), res.Bytes())

	res, ok = r.Loaded(12)
	require.True(t, ok)
	assert.Equal(t, []byte("eager two"), res.Bytes())
	assert.True(t, res.Flags().Has(layout.FlagCDSpoof))

	_, ok = r.Loaded(10)
	assert.False(t, ok)

	assert.Zero(t, src.Reads)
	assert.Len(t, r.cache, 2)
}

func TestPreloadFailureAbortsOpen(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		entry testutil.Entry
		check func(t *testing.T, err error)
	}{
		{
			name:  "compressed",
			entry: testutil.Entry{ID: 2, Flags: flagLoadOnOpen | flagLZW, Data: []byte("zz")},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrCompressed)
			},
		},
		{
			name:  "truncated",
			entry: testutil.Entry{ID: 2, Flags: flagLoadOnOpen, Data: []byte("zz"), UncompressedLen: 0xFFFFFF},
			check: func(t *testing.T, err error) {
				var ioErr *layout.IOError
				assert.ErrorAs(t, err, &ioErr)
				assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data := testutil.Build(testutil.Archive{
				Entries: []testutil.Entry{{ID: 1, Data: []byte("ok")}, tt.entry},
			})
			r, err := NewReader(bytes.NewReader(data))
			require.Error(t, err)
			assert.Nil(t, r)
			tt.check(t, err)
		})
	}
}

func TestOffsetWalk(t *testing.T) {
	t.Parallel()

	r, _ := openTestArchive(t, testutil.Archive{
		DataPadding: 72, // data segment at 200
		Entries: []testutil.Entry{
			{ID: 1, Data: bytes.Repeat([]byte{'a'}, 10)},
			{ID: 2, Data: nil},
			{ID: 3, Data: bytes.Repeat([]byte{'c'}, 25)},
			{ID: 4, Data: []byte("after")},
		},
	})
	require.Equal(t, int64(200), r.DataOffset())

	assert.Equal(t, []int64{200, 210, 210, 235}, r.Offsets())

	off, err := r.Offset(3)
	require.NoError(t, err)
	assert.Equal(t, int64(210), off)

	off, err = r.Offset(4)
	require.NoError(t, err)
	assert.Equal(t, int64(235), off)

	res, err := r.Get(4)
	require.NoError(t, err)
	assert.Equal(t, []byte("after"), res.Bytes())
}

func TestDeletedEntriesConsumeSpace(t *testing.T) {
	t.Parallel()

	r, src := openTestArchive(t, testutil.Archive{
		Entries: []testutil.Entry{
			{ID: 1, Data: []byte("first")},
			{ID: 0, Data: []byte("reclaimed slot")},
			{ID: 2, Data: []byte("second")},
		},
	})

	assert.True(t, r.HasDeletedEntries())
	assert.True(t, r.Contains(1))
	assert.True(t, r.Contains(2))
	assert.False(t, r.Contains(3))

	src.Reset()
	res, err := r.Get(2)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), res.Bytes())
	assert.Equal(t, []int64{128 + 19}, src.Seeks)
}

func TestZeroIDPanics(t *testing.T) {
	t.Parallel()

	r, _ := openTestArchive(t, testutil.Archive{
		Entries: []testutil.Entry{{ID: 0, Data: []byte("deleted")}},
	})

	assert.Panics(t, func() { r.Contains(0) })
	assert.Panics(t, func() { r.Loaded(0) })
	assert.Panics(t, func() { _, _ = r.Get(0) })
	assert.Panics(t, func() { _ = r.Load(0) })
	assert.Panics(t, func() { _, _ = r.Offset(0) })
}

func TestBadSignatureReadsNoDirectory(t *testing.T) {
	t.Parallel()

	data := testutil.Build(fiveResources())
	copy(data, "LG Res File v3\r\n")
	src := testutil.NewSource(data)

	r, err := NewReader(src)
	assert.Nil(t, r)
	assert.ErrorIs(t, err, ErrBadSignature)
	assert.ErrorIs(t, err, layout.ErrBadSignature)
	assert.Equal(t, []int64{0}, src.Seeks)
}

func TestNewReaderRewindsSource(t *testing.T) {
	t.Parallel()

	src := testutil.NewSource(testutil.Build(fiveResources()))
	_, err := src.Seek(300, io.SeekStart)
	require.NoError(t, err)
	src.Reset()

	_, err = NewReader(src)
	require.NoError(t, err)
	require.NotEmpty(t, src.Seeks)
	assert.Equal(t, int64(0), src.Seeks[0])
}

func TestNewReaderTruncatedDirectory(t *testing.T) {
	t.Parallel()

	data := testutil.Build(fiveResources())
	data = data[:len(data)-3]

	_, err := NewReader(bytes.NewReader(data))
	var ioErr *layout.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "read directory entry", ioErr.Op)
}

func TestNewReaderEmptySource(t *testing.T) {
	t.Parallel()

	_, err := NewReader(bytes.NewReader(nil))
	var ioErr *layout.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.ErrorIs(t, err, io.EOF)
}

func TestLoadUnknownID(t *testing.T) {
	t.Parallel()

	r, src := openTestArchive(t, fiveResources())
	src.Reset()

	err := r.Load(9999)
	assert.ErrorIs(t, err, ErrResourceNotFound)
	assert.Empty(t, src.Seeks)

	_, err = r.Get(9999)
	assert.ErrorIs(t, err, ErrResourceNotFound)

	_, err = r.Offset(9999)
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestLoadUnsupported(t *testing.T) {
	t.Parallel()

	r, src := openTestArchive(t, testutil.Archive{
		Entries: []testutil.Entry{
			{ID: 1, Flags: flagLZW, Data: []byte("packed"), UncompressedLen: 100},
			{ID: 2, Flags: flagCompound, Data: []byte("nested")},
		},
	})
	src.Reset()

	err := r.Load(1)
	assert.ErrorIs(t, err, ErrCompressed)
	assert.ErrorIs(t, err, errors.ErrUnsupported)
	assert.NotErrorIs(t, err, ErrResourceNotFound)
	var ioErr *layout.IOError
	assert.False(t, errors.As(err, &ioErr))

	err = r.Load(2)
	assert.ErrorIs(t, err, ErrCompound)
	assert.ErrorIs(t, err, errors.ErrUnsupported)

	_, ok := r.Loaded(1)
	assert.False(t, ok)
	_, ok = r.Loaded(2)
	assert.False(t, ok)
	assert.Zero(t, src.Reads)
}

func TestFailedLoadLeavesCacheUnchanged(t *testing.T) {
	t.Parallel()

	r, _ := openTestArchive(t, testutil.Archive{
		Entries: []testutil.Entry{
			{ID: 1, Data: []byte("fine")},
			{ID: 2, Data: []byte("short"), UncompressedLen: 0xFFFFFF},
		},
	})
	require.NoError(t, r.Load(1))

	err := r.Load(2)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	_, ok := r.Loaded(2)
	assert.False(t, ok)
	assert.Len(t, r.cache, 1)

	// the reader stays usable after a failed load
	res, err := r.Get(1)
	require.NoError(t, err)
	assert.Equal(t, []byte("fine"), res.Bytes())
}

func TestFind(t *testing.T) {
	t.Parallel()

	r, _ := openTestArchive(t, testutil.Archive{
		Entries: []testutil.Entry{
			{ID: 0, Type: byte(layout.TypeFont), Data: []byte("gone")},
			{ID: 1, Type: byte(layout.TypeImage), Data: []byte("img")},
			{ID: 2, Type: byte(layout.TypeFont), Data: []byte("font")},
		},
	})

	res, err := r.Find(func(e layout.DirectoryEntry) bool { return e.Type == layout.TypeFont })
	require.NoError(t, err)
	assert.Equal(t, uint16(2), res.ID())
	assert.Equal(t, []byte("font"), res.Bytes())

	cached, ok := r.Loaded(2)
	require.True(t, ok)
	assert.Same(t, res, cached)

	_, err = r.Find(func(e layout.DirectoryEntry) bool { return e.Type == layout.TypeMovie })
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestFindReadsMatchedEntryWithRepeatedID(t *testing.T) {
	t.Parallel()

	r, src := openTestArchive(t, testutil.Archive{
		Entries: []testutil.Entry{
			{ID: 7, Type: byte(layout.TypeImage), Data: []byte("img")},
			{ID: 7, Type: byte(layout.TypeFont), Data: []byte("font")},
		},
	})

	res, err := r.Find(func(e layout.DirectoryEntry) bool { return e.Type == layout.TypeFont })
	require.NoError(t, err)
	assert.Equal(t, layout.TypeFont, res.Type())
	assert.Equal(t, []byte("font"), res.Bytes())
	assert.Equal(t, []int64{128 + 3}, src.Seeks[len(src.Seeks)-1:])

	// the shadowed entry does not replace what Get serves for the ID
	_, ok := r.Loaded(7)
	assert.False(t, ok)

	first, err := r.Get(7)
	require.NoError(t, err)
	assert.Equal(t, []byte("img"), first.Bytes())

	again, err := r.Find(func(e layout.DirectoryEntry) bool { return e.Type == layout.TypeImage })
	require.NoError(t, err)
	assert.Same(t, first, again)
}

func TestOpenFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "GAMESCR.RES")
	require.NoError(t, os.WriteFile(path, testutil.Build(fiveResources()), 0o644))

	f, err := OpenFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, f.Path())

	res, err := f.Get(4)
	require.NoError(t, err)
	assert.Equal(t, []byte("Creative Voice File\x1a"), res.Bytes())

	require.NoError(t, f.Close())
	require.NoError(t, f.Close())

	// cached resources outlive the file handle
	res, ok := f.Loaded(4)
	require.True(t, ok)
	assert.Equal(t, 20, res.Len())
}

func TestOpenFileErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := OpenFile(filepath.Join(dir, "missing.res"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.res")
	require.NoError(t, os.WriteFile(bad, []byte("definitely not a resource file"), 0o644))
	_, err = OpenFile(bad)
	var ioErr *layout.IOError
	assert.ErrorAs(t, err, &ioErr)
}
