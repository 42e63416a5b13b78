package models

// SyncMetadata is the envelope carried by net-worth entries purely so the
// inverse sync can restore allocation-tracker configuration. It is opaque to
// the net-worth model itself; values stay in the allocation tracker's terms.
type SyncMetadata struct {
	TargetMode    TargetMode `json:"target_mode"`
	TargetPercent float64    `json:"target_percent,omitempty"`
	TargetValue   float64    `json:"target_value,omitempty"`
	OriginClass   AssetClass `json:"origin_class,omitempty"`
	OriginSubType string     `json:"origin_sub_type,omitempty"`
	ISIN          string     `json:"isin,omitempty"`
}

// AssetHolding is a shares×price position in the net-worth tracker.
type AssetHolding struct {
	ID            string        `json:"id"`
	Ticker        string        `json:"ticker,omitempty"`
	Name          string        `json:"name"`
	Shares        float64       `json:"shares"`
	PricePerShare float64       `json:"price_per_share"`
	Currency      string        `json:"currency,omitempty"`
	Class         AssetClass    `json:"class,omitempty"`
	SyncMetadata  *SyncMetadata `json:"sync_metadata,omitempty"`
}

// CashEntry is a cash account balance in the net-worth tracker.
type CashEntry struct {
	ID           string        `json:"id"`
	AccountName  string        `json:"account_name"`
	AccountType  string        `json:"account_type,omitempty"` // SAVINGS, CHECKING, ...
	Balance      float64       `json:"balance"`
	Currency     string        `json:"currency,omitempty"`
	SyncMetadata *SyncMetadata `json:"sync_metadata,omitempty"`
}

// PensionEntry is a retirement account balance. Never touched by the sync
// bridge.
type PensionEntry struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	Currency string  `json:"currency,omitempty"`
}

// Operation is a recorded deposit/withdrawal within a month. Never touched
// by the sync bridge.
type Operation struct {
	ID          string  `json:"id"`
	Description string  `json:"description,omitempty"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency,omitempty"`
}

// MonthSnapshot holds one month's net-worth entries.
type MonthSnapshot struct {
	Year       int            `json:"year"`
	Month      int            `json:"month"` // 1-12
	Holdings   []AssetHolding `json:"holdings,omitempty"`
	Cash       []CashEntry    `json:"cash,omitempty"`
	Pensions   []PensionEntry `json:"pensions,omitempty"`
	Operations []Operation    `json:"operations,omitempty"`
}

// NetWorthData is the net-worth tracker's dataset: a month-by-month history
// of holdings, cash accounts, pensions, and operations.
type NetWorthData struct {
	Currency string           `json:"currency,omitempty"`
	Months   []*MonthSnapshot `json:"months"`
}

// FindMonth returns the snapshot for the given year/month, or nil.
func (d *NetWorthData) FindMonth(year, month int) *MonthSnapshot {
	for _, m := range d.Months {
		if m.Year == year && m.Month == month {
			return m
		}
	}
	return nil
}
