package models

// ClassTarget is an externally supplied allocation target for a whole class.
type ClassTarget struct {
	Mode    TargetMode `json:"mode"`
	Percent float64    `json:"percent,omitempty"` // PERCENTAGE mode, share of portfolio value
	Value   float64    `json:"value,omitempty"`   // SET mode, absolute amount
}

// ClassTargets maps asset classes to their externally configured targets.
type ClassTargets map[AssetClass]ClassTarget

// AssetClassSummary is the per-class aggregate of an allocation computation.
type AssetClassSummary struct {
	Class          AssetClass `json:"class"`
	CurrentTotal   float64    `json:"current_total"`   // sum of non-OFF assets' current value
	CurrentPercent float64    `json:"current_percent"` // of the display denominator (total holdings)
	TargetMode     TargetMode `json:"target_mode"`
	TargetPercent  float64    `json:"target_percent,omitempty"`
	TargetTotal    float64    `json:"target_total"`
	Delta          float64    `json:"delta"`
	Action         Action     `json:"action"`
}

// AllocationDelta is the per-asset result of a delta computation.
type AllocationDelta struct {
	AssetID        string     `json:"asset_id"`
	Name           string     `json:"name"`
	Class          AssetClass `json:"class"`
	CurrentValue   float64    `json:"current_value"`
	CurrentPercent float64    `json:"current_percent"` // of the display denominator
	ClassPercent   float64    `json:"class_percent"`   // within the asset's class
	TargetValue    float64    `json:"target_value"`
	TargetPercent  float64    `json:"target_percent,omitempty"`
	Delta          float64    `json:"delta"`
	DeltaPercent   float64    `json:"delta_percent"`
	Action         Action     `json:"action"`
}

// PortfolioAllocation is the full derived snapshot of a portfolio's
// deviation from its target allocation.
type PortfolioAllocation struct {
	Assets  []Asset             `json:"assets"`
	Classes []AssetClassSummary `json:"classes"`

	// TotalValue is the investable base: portfolio value excluding OFF
	// assets unless the caller supplied an explicit value.
	TotalValue float64 `json:"total_value"`

	// TotalHoldings sums every asset's current value, OFF included. Used
	// only as the percentage-display denominator.
	TotalHoldings float64 `json:"total_holdings"`

	Deltas  []AllocationDelta `json:"deltas"`
	IsValid bool              `json:"is_valid"`
	Errors  []string          `json:"errors,omitempty"`
}
