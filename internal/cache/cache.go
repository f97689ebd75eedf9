package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jchantrell/lgres/internal/layout"
	"github.com/jchantrell/lgres/internal/utils"
)

// Cache handles the on-disk layout of extracted resources and lgres data files
type Cache struct{}

// CacheManager creates a new cache manager
func CacheManager() *Cache {
	return &Cache{}
}

// GetDataDir returns the directory lgres keeps its own files in
func (m *Cache) GetDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".lgres")
	}
	return filepath.Join(homeDir, ".lgres")
}

// GetDatabasePath returns the default catalog database path
func (m *Cache) GetDatabasePath() string {
	return filepath.Join(m.GetDataDir(), "catalog.db")
}

// GetArchiveDir returns the extraction directory for one archive below outputDir
func (m *Cache) GetArchiveDir(outputDir, archivePath string) string {
	base := filepath.Base(archivePath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	name = strings.ReplaceAll(name, " ", "_")
	return filepath.Join(outputDir, strings.ToLower(name))
}

// GetResourcePath returns the file an extracted resource is written to
func (m *Cache) GetResourcePath(dir string, id uint16, typ layout.Type, compressed bool) string {
	name := fmt.Sprintf("%05d_%s.bin", id, utils.ToSnakeCase(typ.String()))
	if compressed {
		name += ".zst"
	}
	return filepath.Join(dir, name)
}

// GetTextPath returns the file a string resource decoded to UTF-8 text is written to
func (m *Cache) GetTextPath(dir string, id uint16, compressed bool) string {
	name := fmt.Sprintf("%05d_%s.txt", id, utils.ToSnakeCase(layout.TypeString.String()))
	if compressed {
		name += ".zst"
	}
	return filepath.Join(dir, name)
}

// EnsureDir creates a directory and all parent directories
func (m *Cache) EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// FileExists checks if a file exists
func (m *Cache) FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

// GetFileSize returns the size of a file, or 0 if it doesn't exist
func (m *Cache) GetFileSize(filename string) int64 {
	info, err := os.Stat(filename)
	if err != nil {
		return 0
	}
	return info.Size()
}
