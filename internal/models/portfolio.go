package models

import "time"

// Portfolio is the persisted allocation-tracker state: the asset list plus
// the optional per-class target map.
type Portfolio struct {
	Name         string       `json:"name"`
	Currency     string       `json:"currency"` // reporting currency of all asset values
	Assets       []Asset      `json:"assets"`
	ClassTargets ClassTargets `json:"class_targets,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Settings holds user-level engine settings persisted by the server.
type Settings struct {
	DefaultCurrency string        `json:"default_currency"`
	Rates           ExchangeRates `json:"rates,omitempty"` // rebased whenever DefaultCurrency changes
	SyncTrackers    bool          `json:"sync_trackers"`   // mirror allocation ⇄ net-worth on save
	UpdatedAt       time.Time     `json:"updated_at"`
}
