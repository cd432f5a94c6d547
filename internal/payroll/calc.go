package payroll

import (
	payrollerrors "uni-hris/internal/payroll/errors"

	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the flat income tax applied to base salary.
var DefaultTaxRate = decimal.RequireFromString("0.30")

const moneyPlaces = 2

type CalculationInput struct {
	BaseSalary           decimal.Decimal
	NHIFRate             decimal.Decimal
	NSSFRate             decimal.Decimal
	AdditionalEarnings   decimal.Decimal
	AdditionalDeductions decimal.Decimal
}

type Breakdown struct {
	GrossSalary          decimal.Decimal
	TaxAmount            decimal.Decimal
	NHIFAmount           decimal.Decimal
	NSSFAmount           decimal.Decimal
	AdditionalDeductions decimal.Decimal
	TotalDeductions      decimal.Decimal
	NetPay               decimal.Decimal
}

// Calculate is pure: the same input always yields the same breakdown.
// Each figure is rounded to cents after the exact arithmetic; NetPay is
// taken from the rounded figures so NetPay == GrossSalary - TotalDeductions
// always holds on the stored values.
func Calculate(in CalculationInput) (Breakdown, error) {
	if in.BaseSalary.IsNegative() || in.AdditionalEarnings.IsNegative() || in.AdditionalDeductions.IsNegative() {
		return Breakdown{}, payrollerrors.ErrNegativeAmount
	}
	if !validRate(in.NHIFRate) || !validRate(in.NSSFRate) {
		return Breakdown{}, payrollerrors.ErrInvalidRate
	}

	nhif := in.BaseSalary.Mul(in.NHIFRate)
	nssf := in.BaseSalary.Mul(in.NSSFRate)
	tax := in.BaseSalary.Mul(DefaultTaxRate)
	gross := in.BaseSalary.Add(in.AdditionalEarnings)
	total := nhif.Add(nssf).Add(tax).Add(in.AdditionalDeductions)

	grossR := gross.Round(moneyPlaces)
	totalR := total.Round(moneyPlaces)

	return Breakdown{
		GrossSalary:          grossR,
		TaxAmount:            tax.Round(moneyPlaces),
		NHIFAmount:           nhif.Round(moneyPlaces),
		NSSFAmount:           nssf.Round(moneyPlaces),
		AdditionalDeductions: in.AdditionalDeductions.Round(moneyPlaces),
		TotalDeductions:      totalR,
		NetPay:               grossR.Sub(totalR),
	}, nil
}

func validRate(r decimal.Decimal) bool {
	return !r.IsNegative() && r.LessThanOrEqual(decimal.NewFromInt(1))
}
