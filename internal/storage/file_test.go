package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsuite/allocator/internal/common"
	"github.com/finsuite/allocator/internal/models"
)

func newTestStore(t *testing.T, versions int) *FileStore {
	t.Helper()
	fs, err := NewFileStore(common.NewSilentLogger(), &common.StorageConfig{
		Path:     t.TempDir(),
		Versions: versions,
	})
	require.NoError(t, err)
	return fs
}

func TestPortfolioRoundTrip(t *testing.T) {
	fs := newTestStore(t, 0)
	ctx := context.Background()

	p := &models.Portfolio{
		Name:     "main",
		Currency: "EUR",
		Assets: []models.Asset{
			{ID: "a1", Name: "World ETF", Class: models.AssetClassStocks, CurrentValue: 1000, TargetMode: models.TargetModePercentage, TargetPercent: 100},
		},
	}
	require.NoError(t, fs.SavePortfolio(ctx, p))
	assert.False(t, p.CreatedAt.IsZero())
	assert.False(t, p.UpdatedAt.IsZero())

	got, err := fs.GetPortfolio(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, "main", got.Name)
	require.Len(t, got.Assets, 1)
	assert.Equal(t, models.AssetClassStocks, got.Assets[0].Class)
	assert.Equal(t, 1000.0, got.Assets[0].CurrentValue)
}

func TestGetPortfolio_NotFound(t *testing.T) {
	fs := newTestStore(t, 0)

	_, err := fs.GetPortfolio(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSavePortfolio_RequiresName(t *testing.T) {
	fs := newTestStore(t, 0)
	err := fs.SavePortfolio(context.Background(), &models.Portfolio{})
	require.Error(t, err)
}

func TestListAndDeletePortfolios(t *testing.T) {
	fs := newTestStore(t, 0)
	ctx := context.Background()

	for _, name := range []string{"zeta", "alpha"} {
		require.NoError(t, fs.SavePortfolio(ctx, &models.Portfolio{Name: name}))
	}

	names, err := fs.ListPortfolios(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, names)

	require.NoError(t, fs.DeletePortfolio(ctx, "alpha"))
	names, err = fs.ListPortfolios(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta"}, names)
}

func TestKeySanitization(t *testing.T) {
	fs := newTestStore(t, 0)
	ctx := context.Background()

	require.NoError(t, fs.SavePortfolio(ctx, &models.Portfolio{Name: "../escape"}))

	// The write lands inside the portfolios directory, not above it.
	entries, err := os.ReadDir(filepath.Join(fs.DataPath(), "portfolios"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].Name(), "..")

	got, err := fs.GetPortfolio(ctx, "../escape")
	require.NoError(t, err)
	assert.Equal(t, "../escape", got.Name)
}

func TestVersionRotation(t *testing.T) {
	fs := newTestStore(t, 2)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NoError(t, fs.SavePortfolio(ctx, &models.Portfolio{Name: "main"}))
	}

	dir := filepath.Join(fs.DataPath(), "portfolios")
	for _, name := range []string{"main.json", "main.json.v1", "main.json.v2"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
	_, err := os.Stat(filepath.Join(dir, "main.json.v3"))
	assert.True(t, os.IsNotExist(err), "v3 must not exist with versions=2")

	// Versioned copies never show up as keys.
	names, err := fs.ListPortfolios(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"main"}, names)
}

func TestDeleteRemovesVersions(t *testing.T) {
	fs := newTestStore(t, 2)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, fs.SavePortfolio(ctx, &models.Portfolio{Name: "main"}))
	}
	require.NoError(t, fs.DeletePortfolio(ctx, "main"))

	entries, err := os.ReadDir(filepath.Join(fs.DataPath(), "portfolios"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNetWorthRoundTrip(t *testing.T) {
	fs := newTestStore(t, 0)
	ctx := context.Background()

	// Empty dataset when nothing is stored yet.
	empty, err := fs.GetNetWorth(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty.Months)

	data := &models.NetWorthData{
		Currency: "EUR",
		Months: []*models.MonthSnapshot{
			{Year: 2025, Month: 6, Cash: []models.CashEntry{{ID: "c1", AccountName: "Savings", Balance: 5000}}},
		},
	}
	require.NoError(t, fs.SaveNetWorth(ctx, data))

	got, err := fs.GetNetWorth(ctx)
	require.NoError(t, err)
	require.Len(t, got.Months, 1)
	assert.Equal(t, 5000.0, got.Months[0].Cash[0].Balance)
}

func TestSettingsDefaults(t *testing.T) {
	fs := newTestStore(t, 0)
	ctx := context.Background()

	s, err := fs.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "EUR", s.DefaultCurrency)
	assert.Equal(t, 1.0, s.Rates["EUR"])
	assert.InDelta(t, 0.85, s.Rates["USD"], 0.0001)

	// The defaults are a copy of the fallback table.
	s.Rates["USD"] = 99
	assert.InDelta(t, 0.85, models.DefaultFallbackRates["USD"], 0.0001)

	s.DefaultCurrency = "USD"
	s.Rates = models.ExchangeRates{"USD": 1}
	require.NoError(t, fs.SaveSettings(ctx, s))

	got, err := fs.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "USD", got.DefaultCurrency)
	assert.Equal(t, 1.0, got.Rates["USD"])
	assert.False(t, got.UpdatedAt.IsZero())
}
