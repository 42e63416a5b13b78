package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsuite/allocator/internal/app"
	"github.com/finsuite/allocator/internal/common"
	"github.com/finsuite/allocator/internal/models"
	"github.com/finsuite/allocator/internal/services/allocation"
	"github.com/finsuite/allocator/internal/services/currency"
	"github.com/finsuite/allocator/internal/services/syncbridge"
	"github.com/finsuite/allocator/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	logger := common.NewSilentLogger()
	config := common.NewDefaultConfig()
	config.Storage.Path = t.TempDir()

	store, err := storage.NewFileStore(logger, &config.Storage)
	require.NoError(t, err)

	currencyService := currency.NewService(logger)

	a := &app.App{
		Config:            config,
		Logger:            logger,
		Storage:           store,
		CurrencyService:   currencyService,
		AllocationService: allocation.NewService(logger),
		SyncService:       syncbridge.NewService(currencyService, logger),
		StartupTime:       time.Now(),
	}
	return NewServer(a)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest))
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	decodeBody(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestPortfolioLifecycle(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/portfolios", models.Portfolio{
		Name: "main",
		Assets: []models.Asset{
			{Name: "World ETF", Class: models.AssetClassStocks, CurrentValue: 6000, TargetMode: models.TargetModePercentage, TargetPercent: 100},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Portfolio
	decodeBody(t, rec, &created)
	assert.Equal(t, "EUR", created.Currency, "default currency filled in")
	require.Len(t, created.Assets, 1)
	assert.NotEmpty(t, created.Assets[0].ID, "asset ID generated")

	rec = doJSON(t, h, http.MethodGet, "/api/portfolios", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list map[string][]string
	decodeBody(t, rec, &list)
	assert.Equal(t, []string{"main"}, list["portfolios"])

	rec = doJSON(t, h, http.MethodGet, "/api/portfolios/main", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodDelete, "/api/portfolios/main", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/portfolios/main", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAllocationEndpoint(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/portfolios", models.Portfolio{
		Name: "main",
		Assets: []models.Asset{
			{ID: "s", Name: "Stocks", Class: models.AssetClassStocks, CurrentValue: 6000, TargetMode: models.TargetModePercentage, TargetPercent: 100},
			{ID: "off", Name: "House", Class: models.AssetClassRealEstate, CurrentValue: 4000, TargetMode: models.TargetModeOff},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/portfolios/main/allocation", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out models.PortfolioAllocation
	decodeBody(t, rec, &out)
	assert.Equal(t, 6000.0, out.TotalValue)
	assert.Equal(t, 10000.0, out.TotalHoldings)
	assert.True(t, out.IsValid)

	// POST with an overridden portfolio value.
	rec = doJSON(t, h, http.MethodPost, "/api/portfolios/main/allocation", map[string]interface{}{
		"portfolio_value": 12000,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &out)
	assert.Equal(t, 12000.0, out.TotalValue)
}

func TestClassTargetEditEndpoint(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/portfolios", models.Portfolio{
		Name: "main",
		ClassTargets: models.ClassTargets{
			models.AssetClassStocks: {Mode: models.TargetModePercentage, Percent: 40},
			models.AssetClassBonds:  {Mode: models.TargetModePercentage, Percent: 60},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/portfolios/main/targets", map[string]interface{}{
		"class":   "STOCKS",
		"percent": 70,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var p models.Portfolio
	decodeBody(t, rec, &p)
	assert.InDelta(t, 70, p.ClassTargets[models.AssetClassStocks].Percent, 0.0001)
	assert.InDelta(t, 30, p.ClassTargets[models.AssetClassBonds].Percent, 0.0001)
}

func TestAssetEndpoints(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/portfolios", models.Portfolio{
		Name: "main",
		Assets: []models.Asset{
			{ID: "a", Name: "A", Class: models.AssetClassStocks, TargetMode: models.TargetModePercentage, TargetPercent: 50},
			{ID: "b", Name: "B", Class: models.AssetClassStocks, TargetMode: models.TargetModePercentage, TargetPercent: 50},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Edit one asset's percent; the sibling rescales.
	rec = doJSON(t, h, http.MethodPut, "/api/portfolios/main/assets/a", map[string]interface{}{"percent": 80})
	require.Equal(t, http.StatusOK, rec.Code)
	var p models.Portfolio
	decodeBody(t, rec, &p)
	assert.InDelta(t, 80, p.Assets[0].TargetPercent, 0.0001)
	assert.InDelta(t, 20, p.Assets[1].TargetPercent, 0.0001)

	// Remove it; the survivor takes the full 100.
	rec = doJSON(t, h, http.MethodDelete, "/api/portfolios/main/assets/a", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &p)
	require.Len(t, p.Assets, 1)
	assert.InDelta(t, 100, p.Assets[0].TargetPercent, 0.0001)

	// Add a new one.
	rec = doJSON(t, h, http.MethodPost, "/api/portfolios/main/assets", map[string]interface{}{
		"asset": models.Asset{Name: "C", Class: models.AssetClassBonds, TargetMode: models.TargetModePercentage, TargetPercent: 100},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &p)
	require.Len(t, p.Assets, 2)
	assert.NotEmpty(t, p.Assets[1].ID)
}

func TestCurrencyConvertEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/currency/convert", map[string]interface{}{
		"amount": 100, "from": "usd", "to": "gbp",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	decodeBody(t, rec, &body)
	assert.Equal(t, "USD", body["from"])
	assert.InDelta(t, 73.91, body["result"].(float64), 0.01)
}

func TestDefaultCurrencySwitchEndpoint(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/portfolios", models.Portfolio{
		Name: "main",
		Assets: []models.Asset{
			{ID: "a", Name: "A", Class: models.AssetClassStocks, CurrentValue: 1000, TargetMode: models.TargetModePercentage, TargetPercent: 100},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodPut, "/api/currency/default", map[string]interface{}{"currency": "USD"})
	require.Equal(t, http.StatusOK, rec.Code)

	var settings models.Settings
	decodeBody(t, rec, &settings)
	assert.Equal(t, "USD", settings.DefaultCurrency)
	assert.Equal(t, 1.0, settings.Rates["USD"])
	assert.InDelta(t, 1/0.85, settings.Rates["EUR"], 0.0001)

	// Portfolio values were converted with the pre-rebase table.
	rec = doJSON(t, h, http.MethodGet, "/api/portfolios/main", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var p models.Portfolio
	decodeBody(t, rec, &p)
	assert.Equal(t, "USD", p.Currency)
	assert.InDelta(t, 1000/0.85, p.Assets[0].CurrentValue, 0.01)
	assert.Equal(t, "EUR", p.Assets[0].OriginalCurrency)

	// Switching to the same currency is a no-op.
	rec = doJSON(t, h, http.MethodPut, "/api/currency/default", map[string]interface{}{"currency": "USD"})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSyncEndpoints(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/portfolios", models.Portfolio{
		Name: "main",
		Assets: []models.Asset{
			{ID: "s", Name: "SPY", Ticker: "SPY", Class: models.AssetClassStocks, Shares: 10, PricePerShare: 100, CurrentValue: 1000, TargetMode: models.TargetModePercentage, TargetPercent: 100},
			{ID: "c", Name: "Savings", Class: models.AssetClassCash, SubType: models.SubTypeSavings, CurrentValue: 5000, TargetMode: models.TargetModeOff},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/sync/to-networth", map[string]interface{}{"portfolio": "main"})
	require.Equal(t, http.StatusOK, rec.Code)

	var data models.NetWorthData
	decodeBody(t, rec, &data)
	now := time.Now()
	m := data.FindMonth(now.Year(), int(now.Month()))
	require.NotNil(t, m)
	require.Len(t, m.Holdings, 1)
	require.Len(t, m.Cash, 1)

	rec = doJSON(t, h, http.MethodPost, "/api/sync/from-networth", map[string]interface{}{"portfolio": "main"})
	require.Equal(t, http.StatusOK, rec.Code)

	var p models.Portfolio
	decodeBody(t, rec, &p)
	require.Len(t, p.Assets, 2)
	byID := map[string]models.Asset{}
	for _, a := range p.Assets {
		byID[a.ID] = a
	}
	assert.Equal(t, models.TargetModePercentage, byID["s"].TargetMode)
	assert.Equal(t, 100.0, byID["s"].TargetPercent)
	assert.Equal(t, models.TargetModeOff, byID["c"].TargetMode)
	assert.Equal(t, models.SubTypeSavings, byID["c"].SubType)
}

func TestSettingsEndpointAndAutoSync(t *testing.T) {
	srv := newTestServer(t)
	h := srv.Handler()

	// Partial update: only the toggle, rates survive.
	rec := doJSON(t, h, http.MethodPut, "/api/settings", map[string]interface{}{"sync_trackers": true})
	require.Equal(t, http.StatusOK, rec.Code)
	var settings models.Settings
	decodeBody(t, rec, &settings)
	assert.True(t, settings.SyncTrackers)
	assert.InDelta(t, 0.85, settings.Rates["USD"], 0.0001)

	// With the toggle on, saving a portfolio mirrors it automatically.
	rec = doJSON(t, h, http.MethodPut, "/api/portfolios/main", models.Portfolio{
		Assets: []models.Asset{
			{ID: "s", Name: "SPY", Class: models.AssetClassStocks, Shares: 2, PricePerShare: 50, CurrentValue: 100, TargetMode: models.TargetModePercentage, TargetPercent: 100},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/networth", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var data models.NetWorthData
	decodeBody(t, rec, &data)
	now := time.Now()
	m := data.FindMonth(now.Year(), int(now.Month()))
	require.NotNil(t, m)
	require.Len(t, m.Holdings, 1)
	assert.Equal(t, "SPY", m.Holdings[0].Name)
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv.Handler(), http.MethodDelete, "/api/currency/convert", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Allow"))
}

func TestBadJSONRejected(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/portfolios", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
