package allocation

import (
	"fmt"
	"math"
	"sort"

	"github.com/finsuite/allocator/internal/models"
)

// sumTolerance is the slack allowed on a class's percentage sum.
const sumTolerance = 0.1

// ValidateAllocation reports allocation inconsistencies as human-readable
// findings. Nothing here is fatal — callers display the findings and the
// rest of the computation proceeds regardless.
func ValidateAllocation(assets []models.Asset) []string {
	var findings []string

	for _, a := range assets {
		if a.CurrentValue < 0 {
			findings = append(findings, fmt.Sprintf("asset %q has a negative current value (%.2f)", a.Name, a.CurrentValue))
		}
		if a.TargetPercent < 0 {
			findings = append(findings, fmt.Sprintf("asset %q has a negative target percent (%.2f)", a.Name, a.TargetPercent))
		}
		if a.TargetValue < 0 {
			findings = append(findings, fmt.Sprintf("asset %q has a negative target value (%.2f)", a.Name, a.TargetValue))
		}
	}

	groups := GroupAssetsByClass(assets)
	classes := make([]models.AssetClass, 0, len(groups))
	for class := range groups {
		classes = append(classes, class)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })

	for _, class := range classes {
		var pctSum float64
		hasPercentage := false
		for _, a := range groups[class] {
			if a.TargetMode != models.TargetModePercentage {
				continue
			}
			hasPercentage = true
			pctSum += a.TargetPercent
		}
		if hasPercentage && math.Abs(pctSum-groupTotal) > sumTolerance {
			findings = append(findings, fmt.Sprintf("%s targets sum to %.2f%%, expected 100%%", class, pctSum))
		}
	}

	return findings
}
