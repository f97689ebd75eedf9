package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jchantrell/lgres/internal/archive"
	"github.com/jchantrell/lgres/internal/cache"
	"github.com/jchantrell/lgres/internal/config"
	"github.com/jchantrell/lgres/internal/export"
	"github.com/jchantrell/lgres/internal/utils"
	"github.com/spf13/cobra"
)

var (
	extractIDs   []uint
	compress     bool
	forceExtract bool
	decodeText   bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <archive>",
	Short: "Extract resources from a resource file to disk",
	Long: `Extract writes the resources of an archive to the output directory, one
file per resource named by ID and type. Resources can be selected by ID with
--ids and by type with --types.

Files left by an earlier extraction are kept unless --force is given. LZW
compressed and compound resources are reported and skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		startTime := time.Now()

		if cmd.Flags().Changed("compress") {
			cfg.Compress = compress
		}

		typeFilter, err := cfg.ResourceTypes()
		if err != nil {
			return err
		}

		f, err := archive.OpenFile(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		entries, err := entryFilter{ids: extractIDs, types: typeFilter}.apply(f.Directory())
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			slog.Info("No resources match the current selection", "archive", f.Path())
			return nil
		}

		outputDir := cache.CacheManager().GetArchiveDir(cfg.Output, f.Path())
		slog.Info("Extracting resources", "archive", f.Path(), "count", len(entries), "output", outputDir)

		exporter := export.NewExporter(f, outputDir,
			export.WithCompression(cfg.Compress),
			export.WithForce(forceExtract),
			export.WithTextDecoding(decodeText),
		)

		progress := utils.NewProgress(len(entries), progressEnabled(cfg))
		stats, err := exporter.ExportEntries(entries, func(current, total int, description string) {
			progress.Update(current, description)
		})
		progress.Finish()
		if err != nil {
			return fmt.Errorf("extracting %s: %w", f.Path(), err)
		}

		duration := time.Since(startTime)
		var rate float64
		if seconds := duration.Seconds(); seconds > 0 {
			rate = float64(stats.Exported) / seconds
		}

		fmt.Printf("Resources exported: %s\n", utils.Number(int64(stats.Exported)))
		fmt.Printf("Already present: %s\n", utils.Number(int64(stats.Skipped)))
		fmt.Printf("Unsupported: %s\n", utils.Number(int64(stats.Unsupported)))
		fmt.Printf("Bytes written: %s\n", utils.Bytes(stats.Bytes))
		fmt.Printf("Bytes on disk: %s\n", utils.Bytes(stats.DiskBytes))
		fmt.Printf("Duration: %s\n", utils.Duration(duration))
		fmt.Printf("Export rate: %s resources/sec\n", utils.Rate(rate))
		fmt.Printf("Output: %s\n", outputDir)

		return nil
	},
}

// progressEnabled reports whether a progress bar should be drawn. Bars would
// interleave with JSON or debug log lines on stderr.
func progressEnabled(cfg *config.Config) bool {
	return !(noProgress || cfg.LogFormat == config.LogFormatJSON || cfg.LogLevel == config.LogLevelDebug)
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().UintSliceVar(&extractIDs, "ids", []uint{}, "comma-separated list of resource IDs to extract")
	extractCmd.Flags().BoolVar(&compress, "compress", false, "write resources as zstd streams")
	extractCmd.Flags().BoolVar(&forceExtract, "force", false, "overwrite previously extracted files")
	extractCmd.Flags().BoolVar(&decodeText, "text", false, "write string resources as UTF-8 text decoded from code page 437")
}
