// Package syncbridge translates portfolio state between the allocation
// tracker (target model) and the net-worth tracker (shares×price model)
// without losing user-configured targets.
package syncbridge

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finsuite/allocator/internal/common"
	"github.com/finsuite/allocator/internal/interfaces"
	"github.com/finsuite/allocator/internal/models"
)

// Compile-time interface check
var _ interfaces.SyncService = (*Service)(nil)

// Service implements SyncService
type Service struct {
	currency interfaces.CurrencyService
	logger   *common.Logger
	nowFn    func() time.Time
}

// NewService creates a new sync bridge
func NewService(currency interfaces.CurrencyService, logger *common.Logger) *Service {
	return &Service{
		currency: currency,
		logger:   logger,
		nowFn:    time.Now,
	}
}

// WithClock overrides the clock used to resolve the current month.
func (s *Service) WithClock(nowFn func() time.Time) *Service {
	s.nowFn = nowFn
	return s
}

// accountTypeFor maps an asset sub-type to a cash account type.
func accountTypeFor(subType string) string {
	switch strings.ToUpper(subType) {
	case models.SubTypeSavings, models.SubTypeChecking, models.SubTypeMoneyMarket,
		models.SubTypeCallMoney, models.SubTypeTimeDeposit:
		return strings.ToUpper(subType)
	default:
		return "OTHER"
	}
}

// SyncAssetsToNetWorth mirrors the assets into the current month of the
// net-worth dataset. The returned dataset is a fresh top-level structure:
// untouched months, pensions, and operations are carried by reference, only
// the current month's holdings and cash arrays are rebuilt.
func (s *Service) SyncAssetsToNetWorth(assets []models.Asset, data *models.NetWorthData, assetCurrency string, rates models.ExchangeRates) *models.NetWorthData {
	now := s.nowFn()
	year, month := now.Year(), int(now.Month())

	targetCurrency := data.Currency
	if targetCurrency == "" {
		targetCurrency = assetCurrency
	}

	current := &models.MonthSnapshot{Year: year, Month: month}
	out := &models.NetWorthData{
		Currency: targetCurrency,
		Months:   make([]*models.MonthSnapshot, 0, len(data.Months)+1),
	}

	replaced := false
	for _, m := range data.Months {
		if m.Year == year && m.Month == month {
			// Pensions and operations survive the sync untouched.
			current.Pensions = m.Pensions
			current.Operations = m.Operations
			out.Months = append(out.Months, current)
			replaced = true
			continue
		}
		out.Months = append(out.Months, m)
	}
	if !replaced {
		out.Months = append(out.Months, current)
	}

	for _, a := range assets {
		// The envelope keeps the allocation tracker's configuration in its
		// own terms so the inverse mapping is lossless.
		meta := &models.SyncMetadata{
			TargetMode:    a.TargetMode,
			TargetPercent: a.TargetPercent,
			TargetValue:   a.TargetValue,
			OriginClass:   a.Class,
			OriginSubType: a.SubType,
			ISIN:          a.ISIN,
		}

		if a.IsCashLike() {
			current.Cash = append(current.Cash, models.CashEntry{
				ID:           a.ID,
				AccountName:  a.Name,
				AccountType:  accountTypeFor(a.SubType),
				Balance:      s.currency.ConvertAmount(a.CurrentValue, assetCurrency, targetCurrency, rates),
				Currency:     targetCurrency,
				SyncMetadata: meta,
			})
			continue
		}

		shares, price := a.Shares, a.PricePerShare
		if shares <= 0 || price <= 0 {
			shares, price = 1, a.CurrentValue
		}
		current.Holdings = append(current.Holdings, models.AssetHolding{
			ID:            a.ID,
			Ticker:        a.Ticker,
			Name:          a.Name,
			Shares:        shares,
			PricePerShare: s.currency.ConvertAmount(price, assetCurrency, targetCurrency, rates),
			Currency:      targetCurrency,
			Class:         a.Class,
			SyncMetadata:  meta,
		})
	}

	s.logger.Debug().
		Int("year", year).
		Int("month", month).
		Int("holdings", len(current.Holdings)).
		Int("cash", len(current.Cash)).
		Msg("Assets mirrored into net-worth tracker")

	return out
}

// SyncNetWorthToAssets derives allocation-tracker assets from the current
// month's entries. Current value is recomputed from shares×price, so a
// holdings-side edit wins after a round trip. Entries without a metadata
// envelope — created natively in the net-worth tracker — come back with
// TargetMode OFF: foreign positions never auto-acquire a rebalance target.
func (s *Service) SyncNetWorthToAssets(data *models.NetWorthData, assetCurrency string, rates models.ExchangeRates) []models.Asset {
	now := s.nowFn()
	current := data.FindMonth(now.Year(), int(now.Month()))
	if current == nil {
		return []models.Asset{}
	}

	out := make([]models.Asset, 0, len(current.Holdings)+len(current.Cash))

	for _, h := range current.Holdings {
		a := models.Asset{
			ID:            h.ID,
			Name:          h.Name,
			Ticker:        h.Ticker,
			Class:         h.Class,
			Shares:        h.Shares,
			PricePerShare: s.currency.ConvertAmount(h.PricePerShare, h.Currency, assetCurrency, rates),
			CurrentValue:  s.currency.ConvertAmount(h.Shares*h.PricePerShare, h.Currency, assetCurrency, rates),
			TargetMode:    models.TargetModeOff,
		}
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		if a.Class == "" {
			a.Class = models.AssetClassStocks
		}
		applyMetadata(&a, h.SyncMetadata)
		out = append(out, a)
	}

	for _, c := range current.Cash {
		a := models.Asset{
			ID:           c.ID,
			Name:         c.AccountName,
			Class:        models.AssetClassCash,
			CurrentValue: s.currency.ConvertAmount(c.Balance, c.Currency, assetCurrency, rates),
			TargetMode:   models.TargetModeOff,
		}
		if t := strings.ToUpper(c.AccountType); t != "" && t != "OTHER" {
			a.SubType = t
		}
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		applyMetadata(&a, c.SyncMetadata)
		out = append(out, a)
	}

	return out
}

// applyMetadata restores allocation-tracker configuration from the envelope.
func applyMetadata(a *models.Asset, meta *models.SyncMetadata) {
	if meta == nil {
		return
	}
	if meta.TargetMode != "" {
		a.TargetMode = meta.TargetMode
	}
	a.TargetPercent = meta.TargetPercent
	a.TargetValue = meta.TargetValue
	if meta.OriginClass != "" {
		a.Class = meta.OriginClass
	}
	if meta.OriginSubType != "" {
		a.SubType = meta.OriginSubType
	}
	if meta.ISIN != "" {
		a.ISIN = meta.ISIN
	}
}
