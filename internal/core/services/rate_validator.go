package services

import (
	"fmt"
	"sort"

	"github.com/kursboard/kursboard/internal/apperrors"
	portsrepo "github.com/kursboard/kursboard/internal/core/ports/repositories"
	"github.com/kursboard/kursboard/internal/dto"
	"github.com/shopspring/decimal"
)

// ValidateBatch checks a whole proposed batch against the numeric and
// relational invariants and returns every violation found, never
// short-circuiting on the first, so the caller can report all problems at
// once. On a clean batch the parsed changes are returned keyed by code.
//
// knownCodes is the set of codes the batch may address: the configured
// allow-list plus every code already stored (update path tolerates any
// existing code). The function is pure over its inputs.
func ValidateBatch(batch dto.BatchUpdateRequest, knownCodes map[string]struct{}) (map[string]portsrepo.RateChange, []apperrors.Violation) {
	changes := make(map[string]portsrepo.RateChange, len(batch))
	var violations []apperrors.Violation

	// Deterministic order keeps violation lists stable.
	codes := make([]string, 0, len(batch))
	for code := range batch {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		pair := batch[code]

		if _, ok := knownCodes[code]; !ok {
			violations = append(violations, apperrors.Violation{
				Code:   code,
				Rule:   apperrors.RuleUnknownCode,
				Detail: fmt.Sprintf("currency code %q is not in the configured set", code),
			})
			continue
		}

		buy, errBuy := decimal.NewFromString(pair.BuyRate.String())
		sell, errSell := decimal.NewFromString(pair.SellRate.String())
		if errBuy != nil || errSell != nil {
			violations = append(violations, apperrors.Violation{
				Code:   code,
				Rule:   apperrors.RuleNotANumber,
				Detail: "buyRate and sellRate must be finite numbers",
			})
			continue
		}

		if !buy.IsPositive() || !sell.IsPositive() {
			violations = append(violations, apperrors.Violation{
				Code:   code,
				Rule:   apperrors.RuleNonPositive,
				Detail: "buyRate and sellRate must be greater than zero",
			})
			continue
		}

		if sell.LessThanOrEqual(buy) {
			violations = append(violations, apperrors.Violation{
				Code:   code,
				Rule:   apperrors.RuleInvertedSpread,
				Detail: fmt.Sprintf("sellRate %s must exceed buyRate %s", sell, buy),
			})
			continue
		}

		changes[code] = portsrepo.RateChange{BuyRate: buy, SellRate: sell}
	}

	if len(violations) > 0 {
		return nil, violations
	}
	return changes, nil
}
