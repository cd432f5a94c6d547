package payroll_test

import (
	"testing"

	"uni-hris/internal/payroll"
	payrollerrors "uni-hris/internal/payroll/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculate(t *testing.T) {
	t.Run("reference scenario", func(t *testing.T) {
		got, err := payroll.Calculate(payroll.CalculationInput{
			BaseSalary:           dec("50000"),
			NHIFRate:             dec("0.02"),
			NSSFRate:             dec("0.03"),
			AdditionalEarnings:   dec("2000"),
			AdditionalDeductions: dec("500"),
		})

		assert.NoError(t, err)
		assert.True(t, dec("1000").Equal(got.NHIFAmount), got.NHIFAmount.String())
		assert.True(t, dec("1500").Equal(got.NSSFAmount), got.NSSFAmount.String())
		assert.True(t, dec("15000").Equal(got.TaxAmount), got.TaxAmount.String())
		assert.True(t, dec("52000").Equal(got.GrossSalary), got.GrossSalary.String())
		assert.True(t, dec("18000").Equal(got.TotalDeductions), got.TotalDeductions.String())
		assert.True(t, dec("34000").Equal(got.NetPay), got.NetPay.String())
	})

	t.Run("net pay identity holds after rounding", func(t *testing.T) {
		inputs := []payroll.CalculationInput{
			{BaseSalary: dec("33333.33"), NHIFRate: dec("0.0275"), NSSFRate: dec("0.0333"), AdditionalEarnings: dec("0.01"), AdditionalDeductions: dec("0.01")},
			{BaseSalary: dec("12345.67"), NHIFRate: dec("0.017"), NSSFRate: dec("0.06"), AdditionalEarnings: dec("999.99")},
			{BaseSalary: dec("1"), NHIFRate: dec("0.005"), NSSFRate: dec("0.005")},
		}
		for _, in := range inputs {
			got, err := payroll.Calculate(in)
			assert.NoError(t, err)
			assert.True(t, got.NetPay.Equal(got.GrossSalary.Sub(got.TotalDeductions)))
			assert.True(t, got.TotalDeductions.Equal(got.TotalDeductions.Round(2)))
		}
	})

	t.Run("net pay may be negative", func(t *testing.T) {
		got, err := payroll.Calculate(payroll.CalculationInput{
			BaseSalary:           dec("1000"),
			NHIFRate:             dec("0.5"),
			NSSFRate:             dec("0.5"),
			AdditionalDeductions: dec("100"),
		})
		assert.NoError(t, err)
		assert.True(t, got.NetPay.IsNegative())
	})

	t.Run("is deterministic", func(t *testing.T) {
		in := payroll.CalculationInput{BaseSalary: dec("41000.50"), NHIFRate: dec("0.025"), NSSFRate: dec("0.06")}
		a, _ := payroll.Calculate(in)
		b, _ := payroll.Calculate(in)
		assert.Equal(t, a, b)
	})

	t.Run("rejects negative amounts", func(t *testing.T) {
		_, err := payroll.Calculate(payroll.CalculationInput{BaseSalary: dec("-1")})
		assert.ErrorIs(t, err, payrollerrors.ErrNegativeAmount)

		_, err = payroll.Calculate(payroll.CalculationInput{BaseSalary: dec("100"), AdditionalDeductions: dec("-5")})
		assert.ErrorIs(t, err, payrollerrors.ErrNegativeAmount)
	})

	t.Run("rejects rates outside zero to one", func(t *testing.T) {
		_, err := payroll.Calculate(payroll.CalculationInput{BaseSalary: dec("100"), NHIFRate: dec("1.5")})
		assert.ErrorIs(t, err, payrollerrors.ErrInvalidRate)

		_, err = payroll.Calculate(payroll.CalculationInput{BaseSalary: dec("100"), NSSFRate: dec("-0.1")})
		assert.ErrorIs(t, err, payrollerrors.ErrInvalidRate)
	})
}
