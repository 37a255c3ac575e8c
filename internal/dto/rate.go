package dto

import (
	"encoding/json"
	"time"

	"github.com/kursboard/kursboard/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RatePairInput is one proposed buy/sell pair inside a batch update. The
// fields deliberately carry no binding tags: the rate validator reports a
// per-code violation for missing or non-numeric values so the caller gets
// the whole problem list at once instead of a generic bind error.
type RatePairInput struct {
	BuyRate  json.Number `json:"buyRate"`
	SellRate json.Number `json:"sellRate"`
}

// BatchUpdateRequest maps currency codes to their proposed rate pairs.
type BatchUpdateRequest map[string]RatePairInput

// CreateCurrencyRequest defines the data needed to register a new currency.
type CreateCurrencyRequest struct {
	Code        string `json:"code" binding:"required,currencycode"`
	DisplayName string `json:"displayName" binding:"required"`
}

// ToggleRequest is the body for visibility / active-state PATCH endpoints.
type ToggleRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// RateView is the canonical formatted state of one rate. IsVisible is only
// populated on the admin projection.
type RateView struct {
	Code             string          `json:"code"`
	DisplayName      string          `json:"displayName"`
	BuyRate          decimal.Decimal `json:"buyRate"`
	SellRate         decimal.Decimal `json:"sellRate"`
	Spread           decimal.Decimal `json:"spread"`
	SpreadPercentage string          `json:"spreadPercentage"`
	LastUpdatedAt    time.Time       `json:"lastUpdatedAt"`
	IsVisible        *bool           `json:"isVisible,omitempty"`
}

// RateSnapshotResponse is one journal entry of a rate's update history.
type RateSnapshotResponse struct {
	BuyRate   decimal.Decimal `json:"buyRate"`
	SellRate  decimal.Decimal `json:"sellRate"`
	UpdatedAt time.Time       `json:"updatedAt"`
	UpdatedBy string          `json:"updatedBy"`
}

// ToRateView converts a domain.CurrencyRate to its canonical formatted view.
func ToRateView(rate *domain.CurrencyRate, includeVisibility bool) RateView {
	view := RateView{
		Code:             rate.Code,
		DisplayName:      rate.DisplayName,
		BuyRate:          rate.BuyRate,
		SellRate:         rate.SellRate,
		Spread:           rate.Spread(),
		SpreadPercentage: rate.SpreadPercentage(),
		LastUpdatedAt:    rate.LastUpdatedAt,
	}
	if includeVisibility {
		visible := rate.IsVisible
		view.IsVisible = &visible
	}
	return view
}

// ToRateViewMap builds the canonical map keyed by currency code.
func ToRateViewMap(rates []domain.CurrencyRate, includeVisibility bool) map[string]RateView {
	views := make(map[string]RateView, len(rates))
	for i := range rates {
		views[rates[i].Code] = ToRateView(&rates[i], includeVisibility)
	}
	return views
}

// ToRateSnapshotResponses converts a rate's journal for API responses.
func ToRateSnapshotResponses(snaps []domain.RateSnapshot) []RateSnapshotResponse {
	res := make([]RateSnapshotResponse, len(snaps))
	for i, s := range snaps {
		res[i] = RateSnapshotResponse{
			BuyRate:   s.BuyRate,
			SellRate:  s.SellRate,
			UpdatedAt: s.UpdatedAt,
			UpdatedBy: s.UpdatedBy,
		}
	}
	return res
}
