// Package app wires configuration, logging, storage, and services into the
// shared core used by cmd/allocator-server.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/finsuite/allocator/internal/common"
	"github.com/finsuite/allocator/internal/interfaces"
	"github.com/finsuite/allocator/internal/services/allocation"
	"github.com/finsuite/allocator/internal/services/currency"
	"github.com/finsuite/allocator/internal/services/syncbridge"
	"github.com/finsuite/allocator/internal/storage"
)

// App holds all initialized services and storage.
type App struct {
	Config            *common.Config
	Logger            *common.Logger
	Storage           interfaces.StorageManager
	CurrencyService   interfaces.CurrencyService
	AllocationService interfaces.AllocationService
	SyncService       interfaces.SyncService
	StartupTime       time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, logging, storage, and all services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	// Config resolution: provided path, ALLOCATOR_CONFIG, binary dir, dev fallback
	if configPath == "" {
		configPath = os.Getenv("ALLOCATOR_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "allocator.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/allocator.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage path to binary directory
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	store, err := storage.NewFileStore(logger, &config.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	currencyService := currency.NewService(logger)
	allocationService := allocation.NewService(logger)
	syncService := syncbridge.NewService(currencyService, logger)

	logger.Info().
		Str("environment", config.Environment).
		Str("currency", config.DefaultCurrency).
		Str("storage", config.Storage.Path).
		Msg("Application initialized")

	return &App{
		Config:            config,
		Logger:            logger,
		Storage:           store,
		CurrencyService:   currencyService,
		AllocationService: allocationService,
		SyncService:       syncService,
		StartupTime:       time.Now(),
	}, nil
}

// Close releases all resources.
func (a *App) Close() {
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			a.Logger.Error().Err(err).Msg("Failed to close storage")
		}
	}
}
