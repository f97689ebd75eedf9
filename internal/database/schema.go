package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Column describes one column of a catalog table
type Column struct {
	Name       string
	Definition string
}

// TableSchema describes a catalog table
type TableSchema struct {
	Name        string
	Columns     []Column
	Constraints []string
}

// ArchivesTable holds one row per indexed resource file
var ArchivesTable = TableSchema{
	Name: "archives",
	Columns: []Column{
		{"id", "INTEGER PRIMARY KEY AUTOINCREMENT"},
		{"path", "TEXT NOT NULL UNIQUE"},
		{"comment", "TEXT NOT NULL"},
		{"entry_count", "INTEGER NOT NULL"},
		{"deleted_count", "INTEGER NOT NULL"},
		{"data_offset", "INTEGER NOT NULL"},
		{"indexed_at", "TEXT NOT NULL"},
	},
}

// ResourcesTable holds one row per directory entry, in directory order
var ResourcesTable = TableSchema{
	Name: "resources",
	Columns: []Column{
		{"archive_id", "INTEGER NOT NULL"},
		{"position", "INTEGER NOT NULL"},
		{"resource_id", "INTEGER NOT NULL"},
		{"type_code", "INTEGER NOT NULL"},
		{"type", "TEXT NOT NULL"},
		{"flags", "INTEGER NOT NULL"},
		{"flag_names", "TEXT NOT NULL"},
		{"uncompressed_len", "INTEGER NOT NULL"},
		{"compressed_len", "INTEGER NOT NULL"},
		{"data_offset", "INTEGER NOT NULL"},
		{"deleted", "INTEGER NOT NULL"},
	},
	Constraints: []string{
		"PRIMARY KEY (archive_id, position)",
		`FOREIGN KEY (archive_id) REFERENCES "archives"(id) ON DELETE CASCADE`,
	},
}

// CatalogTables lists the catalog tables in creation order
var CatalogTables = []TableSchema{ArchivesTable, ResourcesTable}

var catalogIndexes = []string{
	`CREATE INDEX IF NOT EXISTS "resources_resource_id" ON "resources"(resource_id)`,
	`CREATE INDEX IF NOT EXISTS "resources_type" ON "resources"(type)`,
}

// GenerateTableDDL generates CREATE TABLE SQL for a given table schema
func GenerateTableDDL(table *TableSchema) (string, error) {
	if table == nil {
		return "", fmt.Errorf("table schema cannot be nil")
	}

	if table.Name == "" {
		return "", fmt.Errorf("table name cannot be empty")
	}

	if len(table.Columns) == 0 {
		return "", fmt.Errorf("table %s has no columns", table.Name)
	}

	var lines []string
	for _, column := range table.Columns {
		lines = append(lines, fmt.Sprintf("%s %s", quoteSQLIdentifier(column.Name), column.Definition))
	}
	lines = append(lines, table.Constraints...)

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n    %s\n)",
		quoteSQLIdentifier(table.Name),
		strings.Join(lines, ",\n    ")), nil
}

// EnsureSchema creates the catalog tables and indexes if they are missing
func (d *Database) EnsureSchema(ctx context.Context) error {
	var statements []string
	for i := range CatalogTables {
		ddl, err := GenerateTableDDL(&CatalogTables[i])
		if err != nil {
			return fmt.Errorf("generating DDL for %s: %w", CatalogTables[i].Name, err)
		}
		statements = append(statements, ddl)
	}
	statements = append(statements, catalogIndexes...)

	if err := d.executeDDLTransaction(ctx, statements); err != nil {
		return err
	}

	slog.Debug("Catalog schema ready", "tables", len(CatalogTables), "indexes", len(catalogIndexes))
	return nil
}

// executeDDLTransaction executes DDL statements in a single transaction
func (d *Database) executeDDLTransaction(ctx context.Context, statements []string) error {
	if len(statements) == 0 {
		return nil
	}

	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning schema transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	for _, ddl := range statements {
		if _, err := tx.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("executing DDL %q: %w", firstLine(ddl), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema transaction: %w", err)
	}

	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// quoteSQLIdentifier quotes SQL identifiers to prevent conflicts with reserved words
func quoteSQLIdentifier(identifier string) string {
	return `"` + strings.ReplaceAll(identifier, `"`, `""`) + `"`
}
