// Package allocation computes target deviations and keeps percentage
// groups consistent under edits and removals.
package allocation

import (
	"github.com/finsuite/allocator/internal/models"
)

// groupTotal is the percentage sum every PERCENTAGE group is kept at.
const groupTotal = 100.0

func clampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > groupTotal {
		return groupTotal
	}
	return p
}

// RedistributeClassTargets sets the edited class's percentage and rescales
// every other PERCENTAGE-mode class so the map still sums to 100. The
// untouched classes keep their relative proportions; when they all sit at
// zero the remainder is split equally. SET and OFF classes are never
// modified. Inputs are not mutated.
func RedistributeClassTargets(targets models.ClassTargets, edited models.AssetClass, newPercent float64) models.ClassTargets {
	out := make(models.ClassTargets, len(targets))
	for class, t := range targets {
		out[class] = t
	}

	newPercent = clampPercent(newPercent)
	t := out[edited]
	if t.Mode == "" {
		t.Mode = models.TargetModePercentage
	}
	t.Percent = newPercent
	out[edited] = t

	var others []models.AssetClass
	var sum float64
	for class, ct := range out {
		if class == edited || ct.Mode != models.TargetModePercentage {
			continue
		}
		others = append(others, class)
		sum += ct.Percent
	}
	if len(others) == 0 {
		return out
	}

	remaining := groupTotal - newPercent
	for _, class := range others {
		ct := out[class]
		if sum == 0 {
			ct.Percent = remaining / float64(len(others))
		} else {
			ct.Percent = ct.Percent * remaining / sum
		}
		out[class] = ct
	}
	return out
}

// RedistributeAssetTargets applies the same proportional rule within the
// edited asset's class. The fixed point is the class's total percentage
// before the edit, so a class balanced at 100 stays at 100. Inputs are not
// mutated.
func RedistributeAssetTargets(assets []models.Asset, editedAssetID string, newPercent float64) []models.Asset {
	out := make([]models.Asset, len(assets))
	copy(out, assets)

	var edited *models.Asset
	for i := range out {
		if out[i].ID == editedAssetID {
			edited = &out[i]
			break
		}
	}
	if edited == nil || edited.TargetMode != models.TargetModePercentage {
		return out
	}

	var preTotal float64
	var peers []int
	for i := range out {
		a := &out[i]
		if a.Class != edited.Class || a.TargetMode != models.TargetModePercentage {
			continue
		}
		preTotal += a.TargetPercent
		if a.ID != editedAssetID {
			peers = append(peers, i)
		}
	}

	newPercent = clampPercent(newPercent)
	edited.TargetPercent = newPercent
	if len(peers) == 0 {
		return out
	}

	remaining := preTotal - newPercent
	if remaining < 0 {
		remaining = 0
	}

	var sum float64
	for _, i := range peers {
		sum += out[i].TargetPercent
	}
	for _, i := range peers {
		if sum == 0 {
			out[i].TargetPercent = remaining / float64(len(peers))
		} else {
			out[i].TargetPercent = out[i].TargetPercent * remaining / sum
		}
	}
	return out
}

// DistributeDelta splits a class-level rebalance amount across that class's
// PERCENTAGE-mode assets, weighted by target percent (equal split when every
// weight is zero). Returns asset ID → share of the delta.
func DistributeDelta(assets []models.Asset, class models.AssetClass, delta float64) map[string]float64 {
	var members []models.Asset
	var sum float64
	for _, a := range assets {
		if a.Class != class || a.TargetMode != models.TargetModePercentage {
			continue
		}
		members = append(members, a)
		sum += clampPercent(a.TargetPercent)
	}

	out := make(map[string]float64, len(members))
	for _, a := range members {
		if sum == 0 {
			out[a.ID] = delta / float64(len(members))
		} else {
			out[a.ID] = delta * clampPercent(a.TargetPercent) / sum
		}
	}
	return out
}

// HandleAssetRemoval drops the asset and hands its vacated percentage to the
// remaining PERCENTAGE-mode assets of the same class, proportionally to
// their current targets (equal split when they all sit at zero). The class
// sum is unchanged by the removal, so the 100% invariant holds without a
// separate normalization pass.
func HandleAssetRemoval(assets []models.Asset, removed models.Asset) []models.Asset {
	out := make([]models.Asset, 0, len(assets))
	for _, a := range assets {
		if a.ID == removed.ID {
			continue
		}
		out = append(out, a)
	}

	if removed.TargetMode != models.TargetModePercentage {
		return out
	}
	freed := clampPercent(removed.TargetPercent)

	var peers []int
	var sum float64
	for i := range out {
		if out[i].Class != removed.Class || out[i].TargetMode != models.TargetModePercentage {
			continue
		}
		peers = append(peers, i)
		sum += out[i].TargetPercent
	}
	if len(peers) == 0 || freed == 0 {
		return out
	}

	for _, i := range peers {
		if sum == 0 {
			out[i].TargetPercent += freed / float64(len(peers))
		} else {
			out[i].TargetPercent += freed * out[i].TargetPercent / sum
		}
	}
	return out
}
