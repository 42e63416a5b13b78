package allocation

import (
	"github.com/finsuite/allocator/internal/interfaces"
	"github.com/finsuite/allocator/internal/models"
)

// CalculateAllocationDeltas computes the per-asset target, delta, and
// action. Class targets resolve with the same priority order as the class
// summaries; an asset's PERCENTAGE target is class-relative, so it scales
// against the class's resolved target, never the portfolio total directly.
func CalculateAllocationDeltas(assets []models.Asset, totalValue float64, opts interfaces.CalcOptions, displayBase float64) []models.AllocationDelta {
	groups := GroupAssetsByClass(assets)

	resolutions := make(map[models.AssetClass]classResolution, len(groups))
	for class, members := range groups {
		resolutions[class] = resolveClassTarget(class, members, opts.Targets, totalValue)
	}

	// A cash surplus or deficit shifts the other classes' targets: a cash
	// deficit (negative delta, INVEST) adds money to them, a surplus
	// (positive delta, SAVE) subtracts. Spread proportionally over the
	// non-cash classes holding positive PERCENTAGE targets.
	if opts.CashDelta != nil {
		var pctSum float64
		for class, res := range resolutions {
			if class == models.AssetClassCash || res.mode != models.TargetModePercentage || res.percent <= 0 {
				continue
			}
			pctSum += res.percent
		}
		if pctSum > 0 {
			for class, res := range resolutions {
				if class == models.AssetClassCash || res.mode != models.TargetModePercentage || res.percent <= 0 {
					continue
				}
				res.total += -*opts.CashDelta * res.percent / pctSum
				resolutions[class] = res
			}
		}
	}

	classTotals := make(map[models.AssetClass]float64, len(groups))
	for class, members := range groups {
		classTotals[class] = classCurrentTotal(members)
	}

	out := make([]models.AllocationDelta, 0, len(assets))
	for _, a := range assets {
		res := resolutions[a.Class]

		var targetValue float64
		switch a.TargetMode {
		case models.TargetModeSet:
			targetValue = a.TargetValue
		case models.TargetModePercentage:
			targetValue = a.TargetPercent / 100 * res.total
		}

		var delta float64
		if a.TargetMode != models.TargetModeOff {
			delta = targetValue - a.CurrentValue
		}

		var currentPercent, classPercent, deltaPercent float64
		if displayBase != 0 {
			currentPercent = a.CurrentValue / displayBase * 100
		}
		if ct := classTotals[a.Class]; ct != 0 {
			classPercent = a.CurrentValue / ct * 100
		}
		if a.CurrentValue != 0 {
			deltaPercent = delta / a.CurrentValue * 100
		}

		out = append(out, models.AllocationDelta{
			AssetID:        a.ID,
			Name:           a.Name,
			Class:          a.Class,
			CurrentValue:   a.CurrentValue,
			CurrentPercent: currentPercent,
			ClassPercent:   classPercent,
			TargetValue:    targetValue,
			TargetPercent:  a.TargetPercent,
			Delta:          delta,
			DeltaPercent:   deltaPercent,
			Action:         determineAction(a.Class, delta, a.TargetMode),
		})
	}
	return out
}

// CalculatePortfolioAllocation derives the full allocation snapshot.
// TotalValue defaults to the sum of non-OFF assets; TotalHoldings always
// counts every asset, OFF included, and serves only as the display
// denominator.
func CalculatePortfolioAllocation(assets []models.Asset, opts interfaces.CalcOptions) models.PortfolioAllocation {
	var totalValue, totalHoldings float64
	for _, a := range assets {
		totalHoldings += a.CurrentValue
		if a.TargetMode != models.TargetModeOff {
			totalValue += a.CurrentValue
		}
	}
	if opts.PortfolioValue != nil {
		totalValue = *opts.PortfolioValue
	}

	summaries := CalculateClassSummaries(assets, interfaces.SummaryOptions{
		Targets:       opts.Targets,
		TotalValue:    totalValue,
		TotalHoldings: &totalHoldings,
	})
	deltas := CalculateAllocationDeltas(assets, totalValue, opts, totalHoldings)
	findings := ValidateAllocation(assets)

	return models.PortfolioAllocation{
		Assets:        assets,
		Classes:       summaries,
		TotalValue:    totalValue,
		TotalHoldings: totalHoldings,
		Deltas:        deltas,
		IsValid:       len(findings) == 0,
		Errors:        findings,
	}
}
