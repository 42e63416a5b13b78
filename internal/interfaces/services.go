// Package interfaces defines service contracts for Allocator
package interfaces

import (
	"github.com/finsuite/allocator/internal/models"
)

// CurrencyService converts monetary values and maintains the rate table.
type CurrencyService interface {
	// ConvertAmount converts an amount between currencies using the given
	// rate table, falling back per-code to the default table. Unknown or
	// invalid rates degrade to 1:1, never an error.
	ConvertAmount(amount float64, from, to string, rates models.ExchangeRates) float64

	// RecalculateFallbackRates rebases the rate table so newDefault becomes
	// the implicit rate=1 reference.
	RecalculateFallbackRates(current models.ExchangeRates, oldDefault, newDefault string) models.ExchangeRates

	// Bulk converters: every monetary field passes through ConvertAmount;
	// percentages, counts, dates, and enums are untouched.
	ConvertAsset(asset models.Asset, from, to string, rates models.ExchangeRates) models.Asset
	ConvertAssets(assets []models.Asset, from, to string, rates models.ExchangeRates) []models.Asset
	ConvertNetWorthData(data *models.NetWorthData, to string, rates models.ExchangeRates) *models.NetWorthData
	ConvertForecastInput(input models.ForecastInput, from, to string, rates models.ExchangeRates) models.ForecastInput
	ConvertMonthlyVariations(series []models.MonthlyVariation, from, to string, rates models.ExchangeRates) []models.MonthlyVariation
}

// CalcOptions configures an allocation computation. Pointer fields
// distinguish "supplied" from "defaulted" (spec'd optional cascades made
// explicit).
type CalcOptions struct {
	Targets        models.ClassTargets
	PortfolioValue *float64 // overrides Σ non-OFF current values
	CashDelta      *float64 // cash class delta to spread across non-cash classes
}

// SummaryOptions configures a per-class summary computation.
type SummaryOptions struct {
	Targets       models.ClassTargets
	TotalValue    float64
	TotalHoldings *float64 // display denominator; defaults to TotalValue
}

// AllocationService computes allocation snapshots and redistributes targets.
type AllocationService interface {
	// CalculatePortfolioAllocation derives the full allocation snapshot.
	CalculatePortfolioAllocation(assets []models.Asset, opts CalcOptions) models.PortfolioAllocation

	// RedistributeClassTargets rewrites the class-target map after one
	// class's percentage is edited, preserving the 100% group sum.
	RedistributeClassTargets(targets models.ClassTargets, edited models.AssetClass, newPercent float64) models.ClassTargets

	// RedistributeAssetTargets rewrites sibling targets within the edited
	// asset's class, preserving the pre-edit class total.
	RedistributeAssetTargets(assets []models.Asset, editedAssetID string, newPercent float64) []models.Asset

	// DistributeDelta splits a class-level rebalance amount across the
	// class's PERCENTAGE-mode assets, weighted by target percent.
	DistributeDelta(assets []models.Asset, class models.AssetClass, delta float64) map[string]float64

	// HandleAssetRemoval drops an asset and redistributes its vacated
	// percentage to its class siblings.
	HandleAssetRemoval(assets []models.Asset, removed models.Asset) []models.Asset
}

// SyncService mirrors the allocation tracker and the net-worth tracker.
type SyncService interface {
	// SyncAssetsToNetWorth replaces the current month's holdings and cash
	// arrays with entries derived from the assets. All other branches of
	// the dataset are carried over untouched.
	SyncAssetsToNetWorth(assets []models.Asset, data *models.NetWorthData, assetCurrency string, rates models.ExchangeRates) *models.NetWorthData

	// SyncNetWorthToAssets derives assets from the current month's entries.
	// Holdings-side shares×price is the source of truth for current value.
	SyncNetWorthToAssets(data *models.NetWorthData, assetCurrency string, rates models.ExchangeRates) []models.Asset
}
