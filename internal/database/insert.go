package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jchantrell/lgres/internal/archive"
	"github.com/jchantrell/lgres/internal/layout"
)

// Cataloger writes archive directories into the catalog tables
type Cataloger struct {
	db        *Database
	batchSize int
	now       func() time.Time
}

// CatalogOptions configures catalog insertion behavior
type CatalogOptions struct {
	// BatchSize determines how many resource rows go into one INSERT statement
	BatchSize int
}

// DefaultCatalogOptions returns sensible defaults for catalog insertion
func DefaultCatalogOptions() *CatalogOptions {
	return &CatalogOptions{
		BatchSize: 500,
	}
}

// NewCataloger creates a new cataloger with the given database and options
func NewCataloger(db *Database, options *CatalogOptions) *Cataloger {
	if options == nil {
		options = DefaultCatalogOptions()
	}

	batchSize := options.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultCatalogOptions().BatchSize
	}
	if limit := maxBatchSize(); batchSize > limit {
		slog.Debug("Clamping catalog batch size", "requested", batchSize, "limit", limit)
		batchSize = limit
	}

	return &Cataloger{
		db:        db,
		batchSize: batchSize,
		now:       time.Now,
	}
}

// ArchiveData is the catalog view of one opened archive
type ArchiveData struct {
	Path       string
	Comment    string
	DataOffset int64
	Entries    []EntryData
}

// EntryData is one directory entry with its computed data offset
type EntryData struct {
	Position int
	Entry    layout.DirectoryEntry
	Offset   int64
}

// DeletedCount returns the number of deleted directory slots
func (a *ArchiveData) DeletedCount() int {
	n := 0
	for _, e := range a.Entries {
		if e.Entry.IsDeleted() {
			n++
		}
	}
	return n
}

// NewArchiveData captures the directory of r for cataloging under path
func NewArchiveData(path string, r *archive.Reader) *ArchiveData {
	directory := r.Directory()
	offsets := r.Offsets()

	entries := make([]EntryData, len(directory))
	for i, entry := range directory {
		entries[i] = EntryData{Position: i, Entry: entry, Offset: offsets[i]}
	}

	return &ArchiveData{
		Path:       path,
		Comment:    r.CommentSummary(),
		DataOffset: r.DataOffset(),
		Entries:    entries,
	}
}

// maxSQLVariables is SQLite's default limit on bind parameters per statement
const maxSQLVariables = 32766

// maxBatchSize returns the most resource rows one INSERT can bind
func maxBatchSize() int {
	return maxSQLVariables / len(resourceColumns)
}

var resourceColumns = []string{
	"archive_id", "position", "resource_id", "type_code", "type", "flags",
	"flag_names", "uncompressed_len", "compressed_len", "data_offset", "deleted",
}

// InsertArchive writes data into the catalog and returns the archive row ID.
// Any previous catalog of the same path is replaced. The whole archive is
// written in one transaction, resources in multi-row batches.
func (c *Cataloger) InsertArchive(ctx context.Context, data *ArchiveData) (int64, error) {
	if data == nil {
		return 0, fmt.Errorf("archive data cannot be nil")
	}

	if data.Path == "" {
		return 0, fmt.Errorf("archive path cannot be empty")
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM "resources" WHERE archive_id IN (SELECT id FROM "archives" WHERE path = ?)`, data.Path); err != nil {
		return 0, fmt.Errorf("removing previous resources of %s: %w", data.Path, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM "archives" WHERE path = ?`, data.Path); err != nil {
		return 0, fmt.Errorf("removing previous catalog of %s: %w", data.Path, err)
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO "archives" (path, comment, entry_count, deleted_count, data_offset, indexed_at) VALUES (?, ?, ?, ?, ?, ?)`,
		data.Path, data.Comment, len(data.Entries), data.DeletedCount(), data.DataOffset,
		c.now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("inserting archive %s: %w", data.Path, err)
	}

	archiveID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading archive row id: %w", err)
	}

	for i := 0; i < len(data.Entries); i += c.batchSize {
		end := min(i+c.batchSize, len(data.Entries))
		batch := data.Entries[i:end]

		query, args := buildResourceInsert(archiveID, batch)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("inserting resources %d-%d of %s: %w", i, end-1, data.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing catalog of %s: %w", data.Path, err)
	}

	slog.Debug("Archive cataloged",
		"path", data.Path,
		"archive_id", archiveID,
		"entries", len(data.Entries),
		"batches", (len(data.Entries)+c.batchSize-1)/c.batchSize)

	return archiveID, nil
}

// buildResourceInsert creates one multi-row INSERT for a batch of entries
func buildResourceInsert(archiveID int64, batch []EntryData) (string, []any) {
	quoted := make([]string, len(resourceColumns))
	for i, name := range resourceColumns {
		quoted[i] = quoteSQLIdentifier(name)
	}

	row := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(resourceColumns)), ", ") + ")"
	rows := make([]string, len(batch))
	args := make([]any, 0, len(batch)*len(resourceColumns))

	for i, e := range batch {
		rows[i] = row
		args = append(args,
			archiveID,
			e.Position,
			e.Entry.ID,
			uint8(e.Entry.Type),
			e.Entry.Type.String(),
			uint8(e.Entry.Flags),
			e.Entry.Flags.String(),
			e.Entry.UncompressedLen,
			e.Entry.CompressedLen,
			e.Offset,
			e.Entry.IsDeleted(),
		)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		quoteSQLIdentifier(ResourcesTable.Name),
		strings.Join(quoted, ", "),
		strings.Join(rows, ", "))

	return query, args
}

// ArchiveSummary is one row of the archives table
type ArchiveSummary struct {
	ID           int64
	Path         string
	Comment      string
	EntryCount   int
	DeletedCount int
	DataOffset   int64
	IndexedAt    string
}

// ListArchives returns every cataloged archive ordered by path
func (c *Cataloger) ListArchives(ctx context.Context) ([]ArchiveSummary, error) {
	rows, err := c.db.Query(ctx,
		`SELECT id, path, comment, entry_count, deleted_count, data_offset, indexed_at FROM "archives" ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("listing archives: %w", err)
	}
	defer rows.Close()

	var archives []ArchiveSummary
	for rows.Next() {
		var a ArchiveSummary
		if err := rows.Scan(&a.ID, &a.Path, &a.Comment, &a.EntryCount, &a.DeletedCount, &a.DataOffset, &a.IndexedAt); err != nil {
			return nil, fmt.Errorf("scanning archive row: %w", err)
		}
		archives = append(archives, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating archive rows: %w", err)
	}

	return archives, nil
}
