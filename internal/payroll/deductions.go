package payroll

import (
	"encoding/json"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	DeductionTax         = "tax"
	DeductionNHIF        = "nhif"
	DeductionNSSF        = "nssf"
	DeductionLoan        = "loan"
	DeductionCooperative = "cooperative"
	DeductionAdditional  = "additional"
	DeductionTotal       = "total"
)

var canonicalOrder = map[string]int{
	DeductionTax:         0,
	DeductionNHIF:        1,
	DeductionNSSF:        2,
	DeductionLoan:        3,
	DeductionCooperative: 4,
	DeductionAdditional:  5,
}

type DeductionLine struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// DeductionBreakdown is the itemized view of a payslip's deductions.
type DeductionBreakdown struct {
	Lines []DeductionLine `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

// EncodeDeductions stores components as a JSON object.
func EncodeDeductions(components map[string]decimal.Decimal) (string, error) {
	raw, err := json.Marshal(components)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// ResolveDeductions reads a stored record's deductions. A flat total wins over
// the breakdown sum. A bare number in the deductions column is a legacy flat
// total; anything else unparsable is logged and treated as empty.
func ResolveDeductions(raw *string, flat decimal.NullDecimal, logger *zap.Logger) DeductionBreakdown {
	components := map[string]decimal.Decimal{}
	if raw != nil && *raw != "" {
		if err := json.Unmarshal([]byte(*raw), &components); err != nil {
			var legacy decimal.Decimal
			if legacyErr := legacy.UnmarshalJSON([]byte(*raw)); legacyErr == nil {
				if !flat.Valid {
					flat = decimal.NewNullDecimal(legacy)
				}
			} else if logger != nil {
				logger.Warn("malformed deductions breakdown, treating as empty", zap.Error(err))
			}
			components = map[string]decimal.Decimal{}
		}
	}

	lines := make([]DeductionLine, 0, len(components))
	sum := decimal.Zero
	for name, amount := range components {
		lines = append(lines, DeductionLine{Name: name, Amount: amount})
		sum = sum.Add(amount)
	}
	sort.Slice(lines, func(i, j int) bool {
		oi, iKnown := canonicalOrder[lines[i].Name]
		oj, jKnown := canonicalOrder[lines[j].Name]
		switch {
		case iKnown && jKnown:
			return oi < oj
		case iKnown != jKnown:
			return iKnown
		default:
			return lines[i].Name < lines[j].Name
		}
	})

	if flat.Valid {
		if len(lines) == 0 {
			lines = append(lines, DeductionLine{Name: DeductionTotal, Amount: flat.Decimal})
		}
		return DeductionBreakdown{Lines: lines, Total: flat.Decimal}
	}

	return DeductionBreakdown{Lines: lines, Total: sum}
}
