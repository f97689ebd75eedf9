package main

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/jchantrell/lgres/internal/archive"
	"github.com/jchantrell/lgres/internal/layout"
	"github.com/jchantrell/lgres/internal/utils"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <archive>",
	Short: "Describe a resource file",
	Long: `Info prints the header comment of a resource file along with a summary
of its directory: entry counts, deleted slots, resources loaded on open,
the data segment offset and the per-type breakdown.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := archive.OpenFile(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		summary := summarize(f.Directory())
		slog.Debug("Archive summarized", "path", f.Path(), "entries", summary.entries)

		fmt.Printf("File:          %s\n", f.Path())
		fmt.Printf("Comment:       %s\n", f.CommentSummary())
		fmt.Printf("Entries:       %s\n", utils.Number(int64(summary.entries)))
		fmt.Printf("Deleted:       %s\n", utils.Number(int64(summary.deleted)))
		fmt.Printf("Load on open:  %s\n", utils.Number(int64(summary.preload)))
		fmt.Printf("Compressed:    %s\n", utils.Number(int64(summary.compressed)))
		fmt.Printf("Compound:      %s\n", utils.Number(int64(summary.compound)))
		fmt.Printf("Data offset:   %d\n", f.DataOffset())
		fmt.Printf("Stored size:   %s\n", utils.Bytes(summary.storedBytes))
		fmt.Printf("Resource size: %s\n", utils.Bytes(summary.resourceBytes))

		if len(summary.types) > 0 {
			fmt.Println("Types:")
			for _, tc := range summary.sortedTypes() {
				fmt.Printf("  %-18s %s\n", tc.typ, utils.Number(int64(tc.count)))
			}
		}

		return nil
	},
}

// directorySummary aggregates a directory for display
type directorySummary struct {
	entries       int
	deleted       int
	preload       int
	compressed    int
	compound      int
	storedBytes   int64
	resourceBytes int64
	types         map[layout.Type]int
}

type typeCount struct {
	typ   layout.Type
	count int
}

func summarize(directory []layout.DirectoryEntry) directorySummary {
	s := directorySummary{
		entries: len(directory),
		types:   make(map[layout.Type]int),
	}

	for _, entry := range directory {
		// Deleted slots still occupy the data segment
		s.storedBytes += int64(entry.CompressedLen)
		if entry.IsDeleted() {
			s.deleted++
			continue
		}

		s.resourceBytes += int64(entry.UncompressedLen)
		s.types[entry.Type]++
		if entry.LoadOnOpen() {
			s.preload++
		}
		if entry.IsCompressed() {
			s.compressed++
		}
		if entry.IsCompound() {
			s.compound++
		}
	}

	return s
}

// sortedTypes returns type counts by descending count, then type code
func (s directorySummary) sortedTypes() []typeCount {
	counts := make([]typeCount, 0, len(s.types))
	for typ, count := range s.types {
		counts = append(counts, typeCount{typ, count})
	}
	slices.SortFunc(counts, func(a, b typeCount) int {
		if a.count != b.count {
			return b.count - a.count
		}
		return int(a.typ) - int(b.typ)
	})
	return counts
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
