package archive

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// File is a Reader over a RES file on disk
type File struct {
	*Reader
	path string
	file *os.File
}

// OpenFile opens the RES file at path
func OpenFile(path string) (*File, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("archive file not found: %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive file: %w", err)
	}

	reader, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("opening archive %s: %w", filepath.Base(path), err)
	}

	slog.Debug("Archive opened", "path", path, "entries", len(reader.directory))

	return &File{
		Reader: reader,
		path:   path,
		file:   f,
	}, nil
}

// Path returns the path the archive was opened from
func (f *File) Path() string {
	return f.path
}

// Close closes the underlying file. Cached resources stay readable.
func (f *File) Close() error {
	if f.file == nil {
		return nil
	}

	err := f.file.Close()
	f.file = nil

	if err != nil {
		return fmt.Errorf("closing archive file: %w", err)
	}

	return nil
}
