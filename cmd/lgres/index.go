package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/jchantrell/lgres/internal/archive"
	"github.com/jchantrell/lgres/internal/database"
	"github.com/jchantrell/lgres/internal/utils"
	"github.com/spf13/cobra"
)

var indexBatchSize int

var indexCmd = &cobra.Command{
	Use:   "index <archive>...",
	Short: "Catalog resource file directories into the SQLite database",
	Long: `Index records the directory of each archive in the catalog database: one
row per archive and one row per directory entry with its type, flags,
lengths and computed data offset. Indexing an archive again replaces its
previous catalog.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		startTime := time.Now()

		db, err := database.NewDatabase(database.DefaultDatabaseOptions(cfg.Database))
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		if err := db.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("creating catalog schema: %w", err)
		}

		cataloger := database.NewCataloger(db, &database.CatalogOptions{BatchSize: indexBatchSize})

		progress := utils.NewProgress(len(args), progressEnabled(cfg))
		var entries int64
		for _, path := range args {
			n, err := indexArchive(ctx, cataloger, path)
			if err != nil {
				progress.Finish()
				return err
			}
			entries += int64(n)
			progress.Increment(filepath.Base(path))
		}
		progress.Finish()

		fmt.Printf("Archives indexed: %s\n", utils.Number(int64(len(args))))
		fmt.Printf("Entries cataloged: %s\n", utils.Number(entries))
		fmt.Printf("Duration: %s\n", utils.Duration(time.Since(startTime)))
		fmt.Printf("Database: %s\n", db.Path())
		fmt.Println("Try running: lgres query --archives")

		return nil
	},
}

// indexArchive catalogs one archive and returns its number of directory entries
func indexArchive(ctx context.Context, cataloger *database.Cataloger, path string) (int, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return 0, fmt.Errorf("resolving %s: %w", path, err)
	}

	f, err := archive.OpenFile(absPath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	data := database.NewArchiveData(absPath, f.Reader)
	id, err := cataloger.InsertArchive(ctx, data)
	if err != nil {
		return 0, fmt.Errorf("cataloging %s: %w", path, err)
	}

	slog.Info("Indexed archive", "path", absPath, "archive_id", id, "entries", len(data.Entries), "deleted", data.DeletedCount())
	return len(data.Entries), nil
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().IntVar(&indexBatchSize, "batch-size", database.DefaultCatalogOptions().BatchSize, "directory entries per INSERT statement")
}
