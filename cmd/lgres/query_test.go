package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jchantrell/lgres/internal/database"
	"github.com/jchantrell/lgres/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indexedDatabase(t *testing.T) (*database.Database, *database.Cataloger, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "OBJART.RES")
	require.NoError(t, os.WriteFile(path, testutil.Build(testutil.Archive{
		Comment: []byte("objects"),
		Entries: []testutil.Entry{
			{ID: 1350, Type: 2, Data: []byte("bitmap")},
			{ID: 0, Data: []byte("xx")},
			{ID: 1351, Type: 5, Data: []byte("pal")},
		},
	}), 0644))

	db, err := database.NewDatabase(database.DefaultDatabaseOptions(filepath.Join(dir, "catalog.db")))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.EnsureSchema(context.Background()))

	cataloger := database.NewCataloger(db, nil)
	n, err := indexArchive(context.Background(), cataloger, path)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	return db, cataloger, path
}

func TestIndexArchiveMissingFile(t *testing.T) {
	t.Parallel()

	_, cataloger, _ := indexedDatabase(t)
	_, err := indexArchive(context.Background(), cataloger, filepath.Join(t.TempDir(), "NOPE.RES"))
	assert.Error(t, err)
}

func TestPrintArchives(t *testing.T) {
	t.Parallel()

	_, cataloger, path := indexedDatabase(t)

	var buf strings.Builder
	require.NoError(t, printArchives(context.Background(), &buf, cataloger))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	fields := strings.Fields(lines[1])
	assert.Equal(t, []string{"1", "3", "1"}, fields[:3])
	assert.Equal(t, path, fields[len(fields)-1])
}

func TestPrintQuery(t *testing.T) {
	t.Parallel()

	db, _, _ := indexedDatabase(t)

	var buf strings.Builder
	require.NoError(t, printQuery(context.Background(), &buf, db,
		`SELECT resource_id, type, data_offset FROM resources WHERE deleted = 0 ORDER BY position`))

	assert.Equal(t, "resource_id\ttype\tdata_offset\n"+
		"-----------\t----\t-----------\n"+
		"1350\tImage\t128\n"+
		"1351\tPalette\t136\n", buf.String())

	err := printQuery(context.Background(), &buf, db, `SELECT nope FROM resources`)
	assert.Error(t, err)
}

func TestPrintSchema(t *testing.T) {
	t.Parallel()

	db, _, _ := indexedDatabase(t)

	var buf strings.Builder
	require.NoError(t, printSchema(context.Background(), &buf, db, "archives"))
	assert.Contains(t, buf.String(), "Schema for table 'archives':")
	assert.Regexp(t, `(?m)^path\s+TEXT\s+YES\s+NO`, buf.String())
	assert.Regexp(t, `(?m)^id\s+INTEGER\s+NO\s+YES`, buf.String())

	assert.Error(t, printSchema(context.Background(), &buf, db, "missing"))
}
