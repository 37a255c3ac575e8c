package services_test

import (
	"encoding/json"
	"testing"

	"github.com/kursboard/kursboard/internal/apperrors"
	"github.com/kursboard/kursboard/internal/core/services"
	"github.com/kursboard/kursboard/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func knownCodes(codes ...string) map[string]struct{} {
	known := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		known[c] = struct{}{}
	}
	return known
}

func pair(buy, sell string) dto.RatePairInput {
	return dto.RatePairInput{BuyRate: json.Number(buy), SellRate: json.Number(sell)}
}

func TestValidateBatch_CleanBatch(t *testing.T) {
	batch := dto.BatchUpdateRequest{
		"USD": pair("15000", "15100"),
		"EUR": pair("16500.50", "16600.75"),
	}

	changes, violations := services.ValidateBatch(batch, knownCodes("USD", "EUR"))

	require.Empty(t, violations)
	require.Len(t, changes, 2)
	assert.Equal(t, "15000", changes["USD"].BuyRate.String())
	assert.Equal(t, "16600.75", changes["EUR"].SellRate.String())
}

func TestValidateBatch_UnknownCode(t *testing.T) {
	batch := dto.BatchUpdateRequest{
		"XYZ": pair("100", "101"),
	}

	changes, violations := services.ValidateBatch(batch, knownCodes("USD"))

	assert.Nil(t, changes)
	require.Len(t, violations, 1)
	assert.Equal(t, "XYZ", violations[0].Code)
	assert.Equal(t, apperrors.RuleUnknownCode, violations[0].Rule)
}

func TestValidateBatch_NotANumber(t *testing.T) {
	batch := dto.BatchUpdateRequest{
		"USD": pair("abc", "15100"),
		"EUR": pair("16500", ""), // missing value binds to an empty string
	}

	changes, violations := services.ValidateBatch(batch, knownCodes("USD", "EUR"))

	assert.Nil(t, changes)
	require.Len(t, violations, 2)
	for _, v := range violations {
		assert.Equal(t, apperrors.RuleNotANumber, v.Rule)
	}
}

func TestValidateBatch_NonPositive(t *testing.T) {
	batch := dto.BatchUpdateRequest{
		"USD": pair("0", "15100"),
		"EUR": pair("-1", "100"),
	}

	_, violations := services.ValidateBatch(batch, knownCodes("USD", "EUR"))

	require.Len(t, violations, 2)
	for _, v := range violations {
		assert.Equal(t, apperrors.RuleNonPositive, v.Rule)
	}
}

func TestValidateBatch_InvertedSpread(t *testing.T) {
	batch := dto.BatchUpdateRequest{
		"EUR": pair("16600", "16500"),
		"JPY": pair("100", "100"), // equal is also inverted
	}

	_, violations := services.ValidateBatch(batch, knownCodes("EUR", "JPY"))

	require.Len(t, violations, 2)
	for _, v := range violations {
		assert.Equal(t, apperrors.RuleInvertedSpread, v.Rule)
	}
}

// One bad pair poisons the whole batch: valid codes report no changes.
func TestValidateBatch_WholeBatchRejected(t *testing.T) {
	batch := dto.BatchUpdateRequest{
		"USD": pair("15000", "15100"),
		"EUR": pair("16600", "16500"),
	}

	changes, violations := services.ValidateBatch(batch, knownCodes("USD", "EUR"))

	assert.Nil(t, changes)
	require.Len(t, violations, 1)
	assert.Equal(t, "EUR", violations[0].Code)
}

// Violation order follows code order so repeated submissions produce
// identical reports.
func TestValidateBatch_DeterministicOrder(t *testing.T) {
	batch := dto.BatchUpdateRequest{
		"GBP": pair("x", "1"),
		"AUD": pair("y", "1"),
		"SGD": pair("z", "1"),
	}

	_, violations := services.ValidateBatch(batch, knownCodes("AUD", "GBP", "SGD"))

	require.Len(t, violations, 3)
	assert.Equal(t, "AUD", violations[0].Code)
	assert.Equal(t, "GBP", violations[1].Code)
	assert.Equal(t, "SGD", violations[2].Code)
}
