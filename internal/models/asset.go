// Package models defines data structures for Allocator
package models

import "strings"

// AssetClass categorizes an asset for allocation purposes
type AssetClass string

const (
	AssetClassStocks     AssetClass = "STOCKS"
	AssetClassBonds      AssetClass = "BONDS"
	AssetClassCash       AssetClass = "CASH"
	AssetClassCrypto     AssetClass = "CRYPTO"
	AssetClassRealEstate AssetClass = "REAL_ESTATE"
)

// AllAssetClasses lists every known asset class.
var AllAssetClasses = []AssetClass{
	AssetClassStocks,
	AssetClassBonds,
	AssetClassCash,
	AssetClassCrypto,
	AssetClassRealEstate,
}

// TargetMode selects how a rebalance target is expressed
type TargetMode string

const (
	TargetModePercentage TargetMode = "PERCENTAGE" // share of the class target, not of the whole portfolio
	TargetModeSet        TargetMode = "SET"        // fixed absolute amount
	TargetModeOff        TargetMode = "OFF"        // excluded from rebalancing
)

// Action is the recommended rebalancing move for a class or asset
type Action string

const (
	ActionBuy      Action = "BUY"
	ActionSell     Action = "SELL"
	ActionHold     Action = "HOLD"
	ActionSave     Action = "SAVE"   // cash classes only
	ActionInvest   Action = "INVEST" // cash classes only
	ActionExcluded Action = "EXCLUDED"
)

// Cash-like sub-types. An asset with one of these sub-types is treated as a
// cash account when mirrored into the net-worth tracker, regardless of class.
const (
	SubTypeSavings     = "SAVINGS"
	SubTypeChecking    = "CHECKING"
	SubTypeMoneyMarket = "MONEY_MARKET"
	SubTypeCallMoney   = "CALL_MONEY"
	SubTypeTimeDeposit = "TIME_DEPOSIT"
)

// Asset represents a single position in the allocation tracker
type Asset struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Ticker        string     `json:"ticker,omitempty"`
	ISIN          string     `json:"isin,omitempty"`
	Class         AssetClass `json:"class"`
	SubType       string     `json:"sub_type,omitempty"` // drives cash classification on sync
	CurrentValue  float64    `json:"current_value"`      // in the reporting currency
	Shares        float64    `json:"shares,omitempty"`
	PricePerShare float64    `json:"price_per_share,omitempty"`
	TargetMode    TargetMode `json:"target_mode"`
	TargetPercent float64    `json:"target_percent,omitempty"` // PERCENTAGE mode, relative to the class
	TargetValue   float64    `json:"target_value,omitempty"`   // SET mode

	// First-conversion provenance — set once, never overwritten by later
	// currency switches.
	OriginalCurrency string  `json:"original_currency,omitempty"`
	OriginalValue    float64 `json:"original_value,omitempty"`
}

// IsCashLike reports whether the asset maps to a cash account in the
// net-worth tracker (CASH class or a cash sub-type).
func (a Asset) IsCashLike() bool {
	if a.Class == AssetClassCash {
		return true
	}
	switch strings.ToUpper(a.SubType) {
	case SubTypeSavings, SubTypeChecking, SubTypeMoneyMarket, SubTypeCallMoney, SubTypeTimeDeposit:
		return true
	}
	return false
}
