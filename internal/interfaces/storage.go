// Package interfaces defines service contracts for Allocator
package interfaces

import (
	"context"

	"github.com/finsuite/allocator/internal/models"
)

// StorageManager persists the server's datasets. The engine itself holds no
// state — everything here exists for the REST surface.
type StorageManager interface {
	// Portfolios (allocation tracker)
	GetPortfolio(ctx context.Context, name string) (*models.Portfolio, error)
	SavePortfolio(ctx context.Context, portfolio *models.Portfolio) error
	DeletePortfolio(ctx context.Context, name string) error
	ListPortfolios(ctx context.Context) ([]string, error)

	// Net-worth tracker
	GetNetWorth(ctx context.Context) (*models.NetWorthData, error)
	SaveNetWorth(ctx context.Context, data *models.NetWorthData) error

	// Settings (default currency, rate table, sync toggle)
	GetSettings(ctx context.Context) (*models.Settings, error)
	SaveSettings(ctx context.Context, settings *models.Settings) error

	// DataPath returns the base data directory path.
	DataPath() string

	Close() error
}
