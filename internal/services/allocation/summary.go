package allocation

import (
	"math"
	"sort"

	"github.com/finsuite/allocator/internal/interfaces"
	"github.com/finsuite/allocator/internal/models"
)

// actionThreshold is the absolute delta (in currency units) below which no
// action is recommended.
const actionThreshold = 100.0

// GroupAssetsByClass partitions assets into class buckets. Buckets are
// computed independently — iteration order never affects results.
func GroupAssetsByClass(assets []models.Asset) map[models.AssetClass][]models.Asset {
	out := make(map[models.AssetClass][]models.Asset)
	for _, a := range assets {
		out[a.Class] = append(out[a.Class], a)
	}
	return out
}

// determineAction maps a delta to the recommended move. Cash classes save
// or get invested; everything else is bought or sold.
func determineAction(class models.AssetClass, delta float64, mode models.TargetMode) models.Action {
	if mode == models.TargetModeOff {
		return models.ActionExcluded
	}
	if math.Abs(delta) < actionThreshold {
		return models.ActionHold
	}
	if class == models.AssetClassCash {
		if delta > 0 {
			return models.ActionSave
		}
		return models.ActionInvest
	}
	if delta > 0 {
		return models.ActionBuy
	}
	return models.ActionSell
}

// classResolution is the resolved target for one class.
type classResolution struct {
	mode    models.TargetMode
	percent float64
	total   float64
}

// resolveClassTarget resolves a class's target with the fixed priority
// order: all assets OFF → OFF; any SET asset → SET (sum of their target
// values); an external class-target entry → its mode/percent; otherwise the
// assets' own class-relative percentages summed as the class-level percent.
func resolveClassTarget(class models.AssetClass, members []models.Asset, targets models.ClassTargets, totalValue float64) classResolution {
	allOff := true
	anySet := false
	var setTotal, pctSum float64
	for _, a := range members {
		switch a.TargetMode {
		case models.TargetModeSet:
			allOff = false
			anySet = true
			setTotal += a.TargetValue
		case models.TargetModePercentage:
			allOff = false
			pctSum += a.TargetPercent
		}
	}

	if allOff {
		return classResolution{mode: models.TargetModeOff}
	}
	if anySet {
		return classResolution{mode: models.TargetModeSet, total: setTotal}
	}
	if t, ok := targets[class]; ok {
		switch t.Mode {
		case models.TargetModeOff:
			return classResolution{mode: models.TargetModeOff}
		case models.TargetModeSet:
			return classResolution{mode: models.TargetModeSet, total: t.Value}
		default:
			return classResolution{
				mode:    models.TargetModePercentage,
				percent: t.Percent,
				total:   t.Percent / 100 * totalValue,
			}
		}
	}
	return classResolution{
		mode:    models.TargetModePercentage,
		percent: pctSum,
		total:   pctSum / 100 * totalValue,
	}
}

// classCurrentTotal sums the current value of a class's non-OFF assets.
func classCurrentTotal(members []models.Asset) float64 {
	var total float64
	for _, a := range members {
		if a.TargetMode == models.TargetModeOff {
			continue
		}
		total += a.CurrentValue
	}
	return total
}

// CalculateClassSummaries computes the per-class aggregates. The display
// percentage uses TotalHoldings when supplied and TotalValue otherwise —
// the two denominators differ deliberately (TotalHoldings counts OFF
// assets, class math never does).
func CalculateClassSummaries(assets []models.Asset, opts interfaces.SummaryOptions) []models.AssetClassSummary {
	base := opts.TotalValue
	if opts.TotalHoldings != nil {
		base = *opts.TotalHoldings
	}

	groups := GroupAssetsByClass(assets)
	out := make([]models.AssetClassSummary, 0, len(groups))
	for class, members := range groups {
		currentTotal := classCurrentTotal(members)

		var currentPercent float64
		if base != 0 {
			currentPercent = currentTotal / base * 100
		}

		res := resolveClassTarget(class, members, opts.Targets, opts.TotalValue)
		delta := res.total - currentTotal

		out = append(out, models.AssetClassSummary{
			Class:          class,
			CurrentTotal:   currentTotal,
			CurrentPercent: currentPercent,
			TargetMode:     res.mode,
			TargetPercent:  res.percent,
			TargetTotal:    res.total,
			Delta:          delta,
			Action:         determineAction(class, delta, res.mode),
		})
	}

	// Stable output for API consumers; the computation itself is order-free.
	sort.Slice(out, func(i, j int) bool { return out[i].Class < out[j].Class })
	return out
}
