package export

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jchantrell/lgres/internal/archive"
	"github.com/jchantrell/lgres/internal/cache"
	"github.com/jchantrell/lgres/internal/layout"
	"github.com/klauspost/compress/zstd"
)

// ResourceLoader defines the interface for loading resources from an archive
type ResourceLoader interface {
	Get(id uint16) (*archive.Resource, error)
}

// Exporter handles exporting resources from an archive to disk
type Exporter struct {
	loader     ResourceLoader
	outputDir  string
	compress   bool
	force      bool
	decodeText bool
	paths      *cache.Cache
}

// Option configures an Exporter
type Option func(*Exporter)

// WithCompression writes every exported resource as a zstd stream
func WithCompression(enabled bool) Option {
	return func(e *Exporter) { e.compress = enabled }
}

// WithForce overwrites files left by an earlier export
func WithForce(enabled bool) Option {
	return func(e *Exporter) { e.force = enabled }
}

// WithTextDecoding writes string resources as UTF-8 text decoded from code page 437
func WithTextDecoding(enabled bool) Option {
	return func(e *Exporter) { e.decodeText = enabled }
}

// NewExporter creates a new resource exporter writing below outputDir
func NewExporter(loader ResourceLoader, outputDir string, opts ...Option) *Exporter {
	e := &Exporter{
		loader:    loader,
		outputDir: outputDir,
		paths:     cache.CacheManager(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ProgressCallback is called to report export progress
type ProgressCallback func(current int, total int, description string)

// Stats summarizes an export run
type Stats struct {
	Exported    int
	Skipped     int
	Unsupported int
	Deleted     int
	Bytes       int64

	// DiskBytes is the size of the written files, after any compression
	DiskBytes int64
}

// ExportEntries exports the resources named by entries to the output
// directory. Deleted slots are counted and passed over. Resources whose
// encoding cannot be read are logged and counted as unsupported; any other
// load or write failure stops the export.
func (e *Exporter) ExportEntries(entries []layout.DirectoryEntry, progressCallback ProgressCallback) (Stats, error) {
	var stats Stats
	if len(entries) == 0 {
		return stats, nil
	}

	if err := e.paths.EnsureDir(e.outputDir); err != nil {
		return stats, fmt.Errorf("creating output directory: %w", err)
	}

	for i, entry := range entries {
		description := fmt.Sprintf("%05d %s", entry.ID, entry.Type)

		if err := e.exportEntry(entry, &stats); err != nil {
			return stats, err
		}

		if progressCallback != nil {
			progressCallback(i+1, len(entries), description)
		}
	}

	return stats, nil
}

// exportEntry exports a single directory entry and records the outcome in stats
func (e *Exporter) exportEntry(entry layout.DirectoryEntry, stats *Stats) error {
	if entry.IsDeleted() {
		stats.Deleted++
		return nil
	}

	text := e.decodeText && entry.Type == layout.TypeString
	outputPath := e.paths.GetResourcePath(e.outputDir, entry.ID, entry.Type, e.compress)
	if text {
		outputPath = e.paths.GetTextPath(e.outputDir, entry.ID, e.compress)
	}

	if !e.force && e.paths.FileExists(outputPath) {
		slog.Debug("Skipping existing file", "id", entry.ID, "output", outputPath)
		stats.Skipped++
		return nil
	}

	res, err := e.loader.Get(entry.ID)
	if errors.Is(err, errors.ErrUnsupported) {
		slog.Warn("Skipping unsupported resource", "id", entry.ID, "type", entry.Type, "flags", entry.Flags, "error", err)
		stats.Unsupported++
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading resource %d: %w", entry.ID, err)
	}

	data := res.Bytes()
	if text {
		decoded, err := DecodeCP437(data)
		if err != nil {
			return fmt.Errorf("decoding string resource %d: %w", entry.ID, err)
		}
		data = []byte(decoded)
	}

	if err := e.writeFile(outputPath, data); err != nil {
		return fmt.Errorf("writing resource %d: %w", entry.ID, err)
	}

	stats.Exported++
	stats.Bytes += int64(len(data))
	written := e.paths.GetFileSize(outputPath)
	stats.DiskBytes += written
	slog.Debug("Exported resource", "id", entry.ID, "type", entry.Type, "size", len(data), "written", written, "output", outputPath)
	return nil
}

// writeFile writes data to path, through a zstd encoder when compressing
func (e *Exporter) writeFile(path string, data []byte) error {
	if !e.compress {
		return os.WriteFile(path, data, 0644)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := writeCompressed(f, data); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}

	return f.Close()
}

func writeCompressed(w io.Writer, data []byte) error {
	enc, err := zstd.NewWriter(w,
		zstd.WithEncoderConcurrency(1),
		zstd.WithLowerEncoderMem(true),
	)
	if err != nil {
		return fmt.Errorf("creating zstd encoder: %w", err)
	}

	if _, err := enc.Write(data); err != nil {
		enc.Close()
		return fmt.Errorf("compressing: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("finishing zstd stream: %w", err)
	}

	return nil
}
