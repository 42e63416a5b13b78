// Package storage provides file-based JSON persistence for the server's
// datasets: portfolios, the net-worth tracker, and settings.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/finsuite/allocator/internal/common"
	"github.com/finsuite/allocator/internal/interfaces"
	"github.com/finsuite/allocator/internal/models"
)

// Compile-time interface check
var _ interfaces.StorageManager = (*FileStore)(nil)

// FileStore provides file-based JSON storage with optional versioning.
type FileStore struct {
	basePath string
	versions int
	logger   *common.Logger
}

// subdirectories defines the directory layout under basePath.
var subdirectories = []string{"portfolios", "networth", "settings"}

const (
	networthKey = "networth"
	settingsKey = "settings"
)

// NewFileStore creates a new FileStore and ensures all subdirectories exist.
func NewFileStore(logger *common.Logger, config *common.StorageConfig) (*FileStore, error) {
	versions := config.Versions
	if versions < 0 {
		versions = 0
	}

	fs := &FileStore{
		basePath: config.Path,
		versions: versions,
		logger:   logger,
	}

	for _, sub := range subdirectories {
		dir := filepath.Join(fs.basePath, sub)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	logger.Debug().Str("path", config.Path).Int("versions", versions).Msg("FileStore opened")
	return fs, nil
}

// sanitizeKey makes a key safe for use as a filename.
// Replaces /, \, : with _ and collapses ".." to "_" to prevent path traversal.
func (fs *FileStore) sanitizeKey(key string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_")
	return r.Replace(key)
}

func (fs *FileStore) filePath(sub, key string) string {
	return filepath.Join(fs.basePath, sub, fs.sanitizeKey(key)+".json")
}

// readJSON reads and unmarshals a JSON file.
func (fs *FileStore) readJSON(sub, key string, dest interface{}) error {
	path := fs.filePath(sub, key)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("'%s' not found", key)
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(data) == 0 {
		return fmt.Errorf("'%s' is empty", key)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// writeJSON marshals data to indented JSON and writes it atomically,
// rotating previous versions first when versioning is enabled. Everything
// stored here is user-authored, so every write is versioned.
func (fs *FileStore) writeJSON(sub, key string, data interface{}) error {
	target := fs.filePath(sub, key)

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	jsonData = append(jsonData, '\n')

	if fs.versions > 0 {
		fs.rotateVersions(target)
	}

	// Atomic write: temp file in the same directory, then rename
	dir := filepath.Join(fs.basePath, sub)
	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(jsonData); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// rotateVersions shifts existing versions up and moves current to v1.
func (fs *FileStore) rotateVersions(target string) {
	os.Remove(fmt.Sprintf("%s.v%d", target, fs.versions))

	for i := fs.versions; i > 1; i-- {
		src := fmt.Sprintf("%s.v%d", target, i-1)
		dst := fmt.Sprintf("%s.v%d", target, i)
		os.Rename(src, dst) // file may not exist yet
	}

	if _, err := os.Stat(target); err == nil {
		os.Rename(target, fmt.Sprintf("%s.v1", target))
	}
}

// deleteJSON removes a file and all its version backups.
func (fs *FileStore) deleteJSON(sub, key string) error {
	target := fs.filePath(sub, key)
	os.Remove(target)
	for i := 1; i <= fs.versions; i++ {
		os.Remove(fmt.Sprintf("%s.v%d", target, i))
	}
	return nil
}

// listKeys returns all keys in a subdirectory (excluding versions and temp files).
func (fs *FileStore) listKeys(sub string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(fs.basePath, sub))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", sub, err)
	}

	var keys []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, ".json") && !strings.HasPrefix(name, ".tmp-") {
			keys = append(keys, strings.TrimSuffix(name, ".json"))
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// --- Portfolios ---

// GetPortfolio retrieves a portfolio by name.
func (fs *FileStore) GetPortfolio(ctx context.Context, name string) (*models.Portfolio, error) {
	var p models.Portfolio
	if err := fs.readJSON("portfolios", name, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SavePortfolio persists a portfolio.
func (fs *FileStore) SavePortfolio(ctx context.Context, portfolio *models.Portfolio) error {
	if portfolio.Name == "" {
		return fmt.Errorf("portfolio name is required")
	}
	if portfolio.CreatedAt.IsZero() {
		portfolio.CreatedAt = time.Now()
	}
	portfolio.UpdatedAt = time.Now()
	return fs.writeJSON("portfolios", portfolio.Name, portfolio)
}

// DeletePortfolio removes a portfolio and its version history.
func (fs *FileStore) DeletePortfolio(ctx context.Context, name string) error {
	return fs.deleteJSON("portfolios", name)
}

// ListPortfolios returns the stored portfolio names.
func (fs *FileStore) ListPortfolios(ctx context.Context) ([]string, error) {
	return fs.listKeys("portfolios")
}

// --- Net-worth tracker ---

// GetNetWorth retrieves the net-worth dataset, or an empty one if none is stored.
func (fs *FileStore) GetNetWorth(ctx context.Context) (*models.NetWorthData, error) {
	var d models.NetWorthData
	if err := fs.readJSON("networth", networthKey, &d); err != nil {
		if strings.Contains(err.Error(), "not found") {
			return &models.NetWorthData{}, nil
		}
		return nil, err
	}
	return &d, nil
}

// SaveNetWorth persists the net-worth dataset.
func (fs *FileStore) SaveNetWorth(ctx context.Context, data *models.NetWorthData) error {
	return fs.writeJSON("networth", networthKey, data)
}

// --- Settings ---

// GetSettings retrieves the persisted settings, or defaults if none are stored.
func (fs *FileStore) GetSettings(ctx context.Context) (*models.Settings, error) {
	var s models.Settings
	if err := fs.readJSON("settings", settingsKey, &s); err != nil {
		if strings.Contains(err.Error(), "not found") {
			return &models.Settings{
				DefaultCurrency: "EUR",
				Rates:           models.DefaultFallbackRates.Clone(),
			}, nil
		}
		return nil, err
	}
	return &s, nil
}

// SaveSettings persists the settings.
func (fs *FileStore) SaveSettings(ctx context.Context, settings *models.Settings) error {
	settings.UpdatedAt = time.Now()
	return fs.writeJSON("settings", settingsKey, settings)
}

// DataPath returns the base data directory path.
func (fs *FileStore) DataPath() string {
	return fs.basePath
}

// Close is a no-op for the file store.
func (fs *FileStore) Close() error {
	return nil
}
