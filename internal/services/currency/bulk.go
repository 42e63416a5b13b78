package currency

import (
	"strings"

	"github.com/finsuite/allocator/internal/models"
)

// Bulk converters. Each one passes every monetary field of a structure
// through ConvertAmount and returns a fresh copy. Percentages, counts,
// shares, dates, and enum fields are never touched.

// ConvertAsset converts an asset's monetary fields. First-conversion
// provenance (OriginalCurrency/OriginalValue) is set once and never
// clobbered by later currency switches.
func (s *Service) ConvertAsset(asset models.Asset, from, to string, rates models.ExchangeRates) models.Asset {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == to {
		return asset
	}

	out := asset
	out.CurrentValue = s.ConvertAmount(asset.CurrentValue, from, to, rates)
	if asset.PricePerShare != 0 {
		out.PricePerShare = s.ConvertAmount(asset.PricePerShare, from, to, rates)
	}
	if asset.TargetValue != 0 {
		out.TargetValue = s.ConvertAmount(asset.TargetValue, from, to, rates)
	}
	if out.OriginalCurrency == "" {
		out.OriginalCurrency = from
		out.OriginalValue = asset.CurrentValue
	}
	return out
}

// ConvertAssets converts a whole asset list.
func (s *Service) ConvertAssets(assets []models.Asset, from, to string, rates models.ExchangeRates) []models.Asset {
	out := make([]models.Asset, len(assets))
	for i, a := range assets {
		out[i] = s.ConvertAsset(a, from, to, rates)
	}
	return out
}

// ConvertNetWorthData converts every monetary field of the net-worth
// dataset to the target currency. Entries carrying their own currency are
// converted from that; entries without one are assumed to be in the
// dataset's currency.
func (s *Service) ConvertNetWorthData(data *models.NetWorthData, to string, rates models.ExchangeRates) *models.NetWorthData {
	to = strings.ToUpper(strings.TrimSpace(to))
	base := data.Currency
	if base == "" {
		base = to
	}

	out := &models.NetWorthData{
		Currency: to,
		Months:   make([]*models.MonthSnapshot, len(data.Months)),
	}

	for i, month := range data.Months {
		m := &models.MonthSnapshot{
			Year:       month.Year,
			Month:      month.Month,
			Holdings:   make([]models.AssetHolding, len(month.Holdings)),
			Cash:       make([]models.CashEntry, len(month.Cash)),
			Pensions:   make([]models.PensionEntry, len(month.Pensions)),
			Operations: make([]models.Operation, len(month.Operations)),
		}

		for j, h := range month.Holdings {
			from := h.Currency
			if from == "" {
				from = base
			}
			h.PricePerShare = s.ConvertAmount(h.PricePerShare, from, to, rates)
			h.Currency = to
			m.Holdings[j] = h
		}
		for j, c := range month.Cash {
			from := c.Currency
			if from == "" {
				from = base
			}
			c.Balance = s.ConvertAmount(c.Balance, from, to, rates)
			c.Currency = to
			m.Cash[j] = c
		}
		for j, p := range month.Pensions {
			from := p.Currency
			if from == "" {
				from = base
			}
			p.Value = s.ConvertAmount(p.Value, from, to, rates)
			p.Currency = to
			m.Pensions[j] = p
		}
		for j, op := range month.Operations {
			from := op.Currency
			if from == "" {
				from = base
			}
			op.Amount = s.ConvertAmount(op.Amount, from, to, rates)
			op.Currency = to
			m.Operations[j] = op
		}

		out.Months[i] = m
	}

	return out
}

// ConvertForecastInput converts the monetary fields of a forecast input.
// Return and withdrawal percentages survive as-is.
func (s *Service) ConvertForecastInput(input models.ForecastInput, from, to string, rates models.ExchangeRates) models.ForecastInput {
	out := input
	out.CurrentNetWorth = s.ConvertAmount(input.CurrentNetWorth, from, to, rates)
	out.MonthlyIncome = s.ConvertAmount(input.MonthlyIncome, from, to, rates)
	out.MonthlyExpenses = s.ConvertAmount(input.MonthlyExpenses, from, to, rates)
	out.MonthlySavings = s.ConvertAmount(input.MonthlySavings, from, to, rates)
	if input.TargetNetWorth != 0 {
		out.TargetNetWorth = s.ConvertAmount(input.TargetNetWorth, from, to, rates)
	}
	return out
}

// ConvertMonthlyVariations converts a month-variation series. Year/month
// keys are untouched.
func (s *Service) ConvertMonthlyVariations(series []models.MonthlyVariation, from, to string, rates models.ExchangeRates) []models.MonthlyVariation {
	out := make([]models.MonthlyVariation, len(series))
	for i, v := range series {
		v.Income = s.ConvertAmount(v.Income, from, to, rates)
		v.Expenses = s.ConvertAmount(v.Expenses, from, to, rates)
		v.Delta = s.ConvertAmount(v.Delta, from, to, rates)
		out[i] = v
	}
	return out
}
