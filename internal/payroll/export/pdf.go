package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfLabelWidth  = 120.0
	pdfAmountWidth = 60.0
	pdfRowHeight   = 7.0
)

// PDFRenderer lays out one A4 page per payslip.
type PDFRenderer struct{}

func (PDFRenderer) ContentType() string { return "application/pdf" }
func (PDFRenderer) Extension() string   { return "pdf" }

func (PDFRenderer) Render(slips []Slip, meta Meta) ([]byte, error) {
	if len(slips) == 0 {
		return nil, errNoSlips
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payslip", true)
	pdf.SetCreator(meta.Organization, true)
	pdf.SetCreationDate(meta.GeneratedAt)
	pdf.SetAutoPageBreak(false, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, s := range slips {
		pdf.AddPage()

		pdf.SetFont("Helvetica", "B", 16)
		pdf.CellFormat(0, 10, tr(meta.Organization), "", 1, "C", false, 0, "")
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(0, 8, tr("Payslip for "+s.Period()), "", 1, "C", false, 0, "")
		pdf.Ln(4)

		pdf.SetFont("Helvetica", "", 10)
		for _, kv := range [][2]string{
			{"Employee", s.FullName},
			{"Staff Number", s.StaffNumber},
			{"Department", s.Department},
			{"Position", s.Position},
			{"Bank", bankLine(s)},
		} {
			pdf.CellFormat(40, 6, kv[0]+":", "", 0, "L", false, 0, "")
			pdf.CellFormat(0, 6, tr(kv[1]), "", 1, "L", false, 0, "")
		}
		pdf.Ln(4)

		pdfTable(pdf, tr, "Earnings", []Line{
			{Name: "Basic Salary", Amount: s.BaseSalary},
			{Name: "Additional Earnings", Amount: s.AdditionalEarnings},
		}, Line{Name: "Gross Salary", Amount: s.GrossSalary}, meta.Currency)
		pdf.Ln(4)

		deductions := make([]Line, 0, len(s.Deductions))
		for _, d := range s.Deductions {
			deductions = append(deductions, Line{Name: LineLabel(d.Name), Amount: d.Amount})
		}
		pdfTable(pdf, tr, "Deductions", deductions,
			Line{Name: "Total Deductions", Amount: s.TotalDeductions}, meta.Currency)
		pdf.Ln(6)

		pdf.SetFont("Helvetica", "B", 13)
		pdf.SetFillColor(230, 240, 230)
		pdf.CellFormat(pdfLabelWidth, 10, "Net Pay", "1", 0, "L", true, 0, "")
		pdf.CellFormat(pdfAmountWidth, 10, Money(s.NetPay, meta.Currency), "1", 1, "R", true, 0, "")
		pdf.Ln(4)

		pdf.SetFont("Helvetica", "", 10)
		status := "Status: " + s.Status()
		if s.PayoutReference != "" {
			status += "  (ref " + s.PayoutReference + ")"
		}
		pdf.CellFormat(0, 6, tr(status), "", 1, "L", false, 0, "")

		pdf.SetY(-20)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 5, tr(meta.footer()), "T", 0, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func pdfTable(pdf *gofpdf.Fpdf, tr func(string) string, title string, rows []Line, total Line, currency string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(220, 220, 220)
	pdf.CellFormat(pdfLabelWidth, pdfRowHeight, title, "1", 0, "L", true, 0, "")
	pdf.CellFormat(pdfAmountWidth, pdfRowHeight, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, r := range rows {
		pdf.CellFormat(pdfLabelWidth, pdfRowHeight, tr(r.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(pdfAmountWidth, pdfRowHeight, Money(r.Amount, currency), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(pdfLabelWidth, pdfRowHeight, total.Name, "1", 0, "L", false, 0, "")
	pdf.CellFormat(pdfAmountWidth, pdfRowHeight, Money(total.Amount, currency), "1", 1, "R", false, 0, "")
}

func bankLine(s Slip) string {
	switch {
	case s.BankName == "" && s.BankAccount == "":
		return "-"
	case s.BankAccount == "":
		return s.BankName
	default:
		return s.BankName + " " + s.BankAccount
	}
}
