package main

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/jchantrell/lgres/internal/archive"
	"github.com/spf13/cobra"
)

var (
	listJSON    bool
	listDeleted bool
)

var listCmd = &cobra.Command{
	Use:   "list <archive>",
	Short: "List the directory of a resource file",
	Long: `List prints every directory entry with its type, flags, stored and
resource lengths and the absolute file offset of its data, computed by
walking the directory from the start of the data segment.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		typeFilter, err := cfg.ResourceTypes()
		if err != nil {
			return err
		}

		f, err := archive.OpenFile(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		rows := listRows(f.Reader, entryFilter{types: typeFilter, includeDeleted: listDeleted})

		if listJSON {
			return writeListJSON(os.Stdout, rows)
		}
		writeListTable(os.Stdout, rows)
		return nil
	},
}

// listRow is one directory entry as printed by list
type listRow struct {
	Position        int    `json:"position"`
	ID              uint16 `json:"id"`
	Type            string `json:"type"`
	TypeCode        uint8  `json:"type_code"`
	Flags           string `json:"flags"`
	UncompressedLen uint32 `json:"uncompressed_len"`
	CompressedLen   uint32 `json:"compressed_len"`
	Offset          int64  `json:"offset"`
	Deleted         bool   `json:"deleted,omitempty"`
}

// listRows pairs each selected entry with its position and data offset
func listRows(r *archive.Reader, filter entryFilter) []listRow {
	directory := r.Directory()
	offsets := r.Offsets()

	rows := make([]listRow, 0, len(directory))
	for i, entry := range directory {
		if !filter.matches(entry, nil) {
			continue
		}
		rows = append(rows, listRow{
			Position:        i,
			ID:              entry.ID,
			Type:            entry.Type.String(),
			TypeCode:        uint8(entry.Type),
			Flags:           entry.Flags.String(),
			UncompressedLen: entry.UncompressedLen,
			CompressedLen:   entry.CompressedLen,
			Offset:          offsets[i],
			Deleted:         entry.IsDeleted(),
		})
	}
	return rows
}

func writeListJSON(w io.Writer, rows []listRow) error {
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding directory: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeListTable(w io.Writer, rows []listRow) {
	fmt.Fprintf(w, "%-5s %-6s %-16s %-20s %10s %10s %10s\n",
		"Pos", "ID", "Type", "Flags", "Size", "Stored", "Offset")
	for _, row := range rows {
		id := fmt.Sprintf("%d", row.ID)
		if row.Deleted {
			id = "-"
		}
		fmt.Fprintf(w, "%-5d %-6s %-16s %-20s %10d %10d %10d\n",
			row.Position, id, row.Type, row.Flags, row.UncompressedLen, row.CompressedLen, row.Offset)
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print the directory as JSON")
	listCmd.Flags().BoolVar(&listDeleted, "deleted", false, "include deleted directory slots")
}
