package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const xlsxSheet = "Payslips"

var xlsxHeaders = []string{"Month", "Gross Salary", "Deductions", "Net Pay", "Status"}

// XLSXRenderer writes a single sheet with one row per payslip.
type XLSXRenderer struct{}

func (XLSXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
func (XLSXRenderer) Extension() string { return "xlsx" }

func (XLSXRenderer) Render(slips []Slip, meta Meta) ([]byte, error) {
	if len(slips) == 0 {
		return nil, errNoSlips
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDDDDD"}},
	})
	if err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	moneyFmt := "#,##0.00"
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt})
	if err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}

	for i, h := range xlsxHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(xlsxSheet, cell, h); err != nil {
			return nil, fmt.Errorf("render xlsx: %w", err)
		}
	}
	if err := f.SetCellStyle(xlsxSheet, "A1", "E1", headerStyle); err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}

	for idx, s := range slips {
		row := idx + 2
		values := []any{
			s.Period(),
			s.GrossSalary.InexactFloat64(),
			s.TotalDeductions.InexactFloat64(),
			s.NetPay.InexactFloat64(),
			s.Status(),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(xlsxSheet, cell, v); err != nil {
				return nil, fmt.Errorf("render xlsx: %w", err)
			}
		}
		if err := f.SetCellStyle(xlsxSheet, fmt.Sprintf("B%d", row), fmt.Sprintf("D%d", row), moneyStyle); err != nil {
			return nil, fmt.Errorf("render xlsx: %w", err)
		}
	}

	for _, w := range []struct {
		from, to string
		width    float64
	}{{"A", "A", 18}, {"B", "D", 16}, {"E", "E", 10}} {
		if err := f.SetColWidth(xlsxSheet, w.from, w.to, w.width); err != nil {
			return nil, fmt.Errorf("render xlsx: %w", err)
		}
	}

	if meta.Organization != "" {
		if err := f.SetDocProps(&excelize.DocProperties{Creator: meta.Organization, Title: "Payslips"}); err != nil {
			return nil, fmt.Errorf("render xlsx: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
