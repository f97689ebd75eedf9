package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jchantrell/lgres/internal/database"
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query [SQL]",
	Short: "Query the catalog database directly from command line",
	Long: `Query executes SQL against the catalog built by index, lists the
cataloged archives or shows the columns of a catalog table.

Example:
  lgres query "SELECT type, COUNT(*) FROM resources GROUP BY type"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		listArchives, err := cmd.Flags().GetBool("archives")
		if err != nil {
			return fmt.Errorf("failed to get archives flag: %w", err)
		}
		schemaTable, err := cmd.Flags().GetString("schema")
		if err != nil {
			return fmt.Errorf("failed to get schema flag: %w", err)
		}

		slog.Debug("Query parameters",
			"database", cfg.Database,
			"archives", listArchives,
			"schema", schemaTable)

		db, err := database.NewDatabase(database.ReadOnlyDatabaseOptions(cfg.Database))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		hasCatalog, err := db.HasCatalog(ctx)
		if err != nil {
			return err
		}
		if !hasCatalog {
			return fmt.Errorf("database %s has no catalog, run lgres index first", cfg.Database)
		}

		switch {
		case listArchives:
			return printArchives(ctx, os.Stdout, database.NewCataloger(db, nil))
		case schemaTable != "":
			return printSchema(ctx, os.Stdout, db, schemaTable)
		case len(args) > 0:
			return printQuery(ctx, os.Stdout, db, args[0])
		}

		return fmt.Errorf("no query provided, use --archives to list archives or --schema <table> to show schema")
	},
}

func printArchives(ctx context.Context, w io.Writer, cataloger *database.Cataloger) error {
	archives, err := cataloger.ListArchives(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%-4s %-8s %-8s %-21s %s\n", "ID", "Entries", "Deleted", "Indexed", "Path")
	for _, a := range archives {
		fmt.Fprintf(w, "%-4d %-8d %-8d %-21s %s\n", a.ID, a.EntryCount, a.DeletedCount, a.IndexedAt, a.Path)
	}

	return nil
}

func printSchema(ctx context.Context, w io.Writer, db *database.Database, table string) error {
	slog.Debug("Getting table schema", "table", table)

	rows, err := db.Query(ctx, `SELECT name, type, "notnull", pk FROM pragma_table_info(?)`, table)
	if err != nil {
		return fmt.Errorf("getting schema for table %s: %w", table, err)
	}
	defer rows.Close()

	fmt.Fprintf(w, "Schema for table '%s':\n", table)
	fmt.Fprintf(w, "%-20s %-10s %-10s %-10s\n", "Column", "Type", "NotNull", "Primary")
	fmt.Fprintln(w, strings.Repeat("-", 53))

	found := false
	for rows.Next() {
		var name, dataType string
		var notNull, primaryKey int
		if err := rows.Scan(&name, &dataType, &notNull, &primaryKey); err != nil {
			return fmt.Errorf("scanning schema row: %w", err)
		}
		found = true
		fmt.Fprintf(w, "%-20s %-10s %-10s %-10s\n", name, dataType, yesNo(notNull != 0), yesNo(primaryKey != 0))
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating schema: %w", err)
	}

	if !found {
		return fmt.Errorf("table %s does not exist", table)
	}

	return nil
}

func printQuery(ctx context.Context, w io.Writer, db *database.Database, query string) error {
	slog.Debug("Executing SQL query", "query", query)

	rows, err := db.Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("getting column names: %w", err)
	}

	fmt.Fprintln(w, strings.Join(columns, "\t"))
	separators := make([]string, len(columns))
	for i, col := range columns {
		separators[i] = strings.Repeat("-", len(col))
	}
	fmt.Fprintln(w, strings.Join(separators, "\t"))

	values := make([]any, len(columns))
	valuePtrs := make([]any, len(columns))
	for i := range values {
		valuePtrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(valuePtrs...); err != nil {
			return fmt.Errorf("scanning row: %w", err)
		}

		cells := make([]string, len(values))
		for i, val := range values {
			switch v := val.(type) {
			case nil:
				cells[i] = "NULL"
			case []byte:
				cells[i] = string(v)
			default:
				cells[i] = fmt.Sprint(v)
			}
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating rows: %w", err)
	}

	return nil
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().Bool("archives", false, "List cataloged archives")
	queryCmd.Flags().String("schema", "", "Show schema for specified table")
}
