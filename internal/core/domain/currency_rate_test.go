package domain_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/kursboard/kursboard/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRate(buy, sell string) domain.CurrencyRate {
	return domain.CurrencyRate{
		Code:        "USD",
		DisplayName: "US Dollar",
		BuyRate:     decimal.RequireFromString(buy),
		SellRate:    decimal.RequireFromString(sell),
		IsActive:    true,
		IsVisible:   true,
	}
}

func TestHasQuote(t *testing.T) {
	rate := newRate("15000", "15100")
	assert.True(t, rate.HasQuote())

	seeded := domain.CurrencyRate{Code: "SGD", IsActive: true, IsVisible: true}
	assert.False(t, seeded.HasQuote(), "seeded records carry zero rates and have no quote")
}

func TestSpread(t *testing.T) {
	rate := newRate("15000", "15100")
	assert.True(t, rate.Spread().Equal(decimal.NewFromInt(100)))
}

func TestSpreadPercentage(t *testing.T) {
	tests := []struct {
		buy, sell string
		want      string
	}{
		{"15000", "15100", "0.67"},
		{"100", "101", "1.00"},
		{"3.75", "3.80", "1.33"},
		{"0", "0", "0.00"}, // no quote yet
	}
	for _, tt := range tests {
		rate := newRate(tt.buy, tt.sell)
		assert.Equal(t, tt.want, rate.SpreadPercentage(), "buy=%s sell=%s", tt.buy, tt.sell)
	}
}

func TestRecordChangeAppendsSnapshot(t *testing.T) {
	rate := newRate("15000", "15100")
	at := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	rate.RecordChange(domain.RateSnapshot{
		BuyRate:   decimal.NewFromInt(15200),
		SellRate:  decimal.NewFromInt(15300),
		UpdatedAt: at,
		UpdatedBy: "user-1",
	}, 10)

	require.Len(t, rate.UpdateHistory, 1)
	assert.True(t, rate.BuyRate.Equal(decimal.NewFromInt(15200)))
	assert.True(t, rate.SellRate.Equal(decimal.NewFromInt(15300)))
	assert.Equal(t, at, rate.LastUpdatedAt)
	assert.Equal(t, "user-1", rate.LastUpdatedBy)
}

func TestRecordChangeEvictsOldestBeyondCap(t *testing.T) {
	const historyCap = 10
	rate := newRate("100", "101")

	for i := 0; i < historyCap+5; i++ {
		rate.RecordChange(domain.RateSnapshot{
			BuyRate:   decimal.NewFromInt(int64(100 + i)),
			SellRate:  decimal.NewFromInt(int64(200 + i)),
			UpdatedAt: time.Now().UTC(),
			UpdatedBy: fmt.Sprintf("user-%d", i),
		}, historyCap)
	}

	require.Len(t, rate.UpdateHistory, historyCap)
	// Oldest five were evicted; the journal starts at the sixth update.
	assert.Equal(t, "user-5", rate.UpdateHistory[0].UpdatedBy)
	assert.Equal(t, "user-14", rate.UpdateHistory[historyCap-1].UpdatedBy)
}

func TestRecordChangeUnboundedWhenCapZero(t *testing.T) {
	rate := newRate("100", "101")
	for i := 0; i < 25; i++ {
		rate.RecordChange(domain.RateSnapshot{
			BuyRate:  decimal.NewFromInt(int64(100 + i)),
			SellRate: decimal.NewFromInt(int64(200 + i)),
		}, 0)
	}
	assert.Len(t, rate.UpdateHistory, 25)
}
