package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateSnapshot is one entry of a currency's update journal.
type RateSnapshot struct {
	BuyRate   decimal.Decimal `json:"buyRate"`
	SellRate  decimal.Decimal `json:"sellRate"`
	UpdatedAt time.Time       `json:"updatedAt"`
	UpdatedBy string          `json:"updatedBy"` // UserID reference
}

// CurrencyRate is the published buy/sell quote for one currency code.
// Code is immutable once created; records are never hard-deleted, a
// "delete" is the IsActive=false transition.
type CurrencyRate struct {
	Code          string          `json:"code"` // Primary key (e.g. "USD")
	DisplayName   string          `json:"displayName"`
	BuyRate       decimal.Decimal `json:"buyRate"`
	SellRate      decimal.Decimal `json:"sellRate"`
	IsActive      bool            `json:"isActive"`
	IsVisible     bool            `json:"isVisible"` // Hidden from the public read path when false
	UpdateHistory []RateSnapshot  `json:"updateHistory"`
	AuditFields
}

// HasQuote reports whether the record has ever received an accepted rate
// update. Seeded placeholder records carry zero rates until their first
// update and stay off the canonical map.
func (r *CurrencyRate) HasQuote() bool {
	return r.BuyRate.IsPositive() && r.SellRate.IsPositive()
}

// Spread is the store's margin on the currency (sell minus buy). Derived,
// never stored.
func (r *CurrencyRate) Spread() decimal.Decimal {
	return r.SellRate.Sub(r.BuyRate)
}

// SpreadPercentage is spread/buy*100 rendered with two decimal places for
// display.
func (r *CurrencyRate) SpreadPercentage() string {
	if !r.BuyRate.IsPositive() {
		return "0.00"
	}
	return r.Spread().Div(r.BuyRate).Mul(decimal.NewFromInt(100)).StringFixed(2)
}

// RecordChange applies new rates to the record and appends a snapshot to the
// update journal, evicting the oldest entries beyond historyCap (FIFO).
func (r *CurrencyRate) RecordChange(snap RateSnapshot, historyCap int) {
	r.BuyRate = snap.BuyRate
	r.SellRate = snap.SellRate
	r.LastUpdatedAt = snap.UpdatedAt
	r.LastUpdatedBy = snap.UpdatedBy
	r.UpdateHistory = append(r.UpdateHistory, snap)
	if historyCap > 0 && len(r.UpdateHistory) > historyCap {
		r.UpdateHistory = r.UpdateHistory[len(r.UpdateHistory)-historyCap:]
	}
}
