package export

import (
	"bytes"
	"fmt"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

// DOCXRenderer writes a Word document, one page per payslip.
type DOCXRenderer struct{}

func (DOCXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}
func (DOCXRenderer) Extension() string { return "docx" }

func (DOCXRenderer) Render(slips []Slip, meta Meta) ([]byte, error) {
	if len(slips) == 0 {
		return nil, errNoSlips
	}

	doc, err := godocx.NewDocument()
	if err != nil {
		return nil, fmt.Errorf("render docx: %w", err)
	}

	for i, s := range slips {
		if i > 0 {
			doc.AddPageBreak()
		}
		if err := writeDocxSlip(doc, s, meta); err != nil {
			return nil, fmt.Errorf("render docx: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		return nil, fmt.Errorf("render docx: %w", err)
	}
	return buf.Bytes(), nil
}

func writeDocxSlip(doc *docx.RootDoc, s Slip, meta Meta) error {
	if _, err := doc.AddHeading(meta.Organization, 0); err != nil {
		return err
	}
	if _, err := doc.AddHeading("Payslip for "+s.Period(), 1); err != nil {
		return err
	}

	doc.AddParagraph("Employee: " + s.FullName)
	doc.AddParagraph("Staff Number: " + s.StaffNumber)
	if s.Department != "" {
		doc.AddParagraph("Department: " + s.Department)
	}
	if s.Position != "" {
		doc.AddParagraph("Position: " + s.Position)
	}
	doc.AddParagraph("Bank: " + bankLine(s))

	earnings := [][2]string{
		{"Basic Salary", Money(s.BaseSalary, meta.Currency)},
		{"Additional Earnings", Money(s.AdditionalEarnings, meta.Currency)},
	}
	deductions := make([][2]string, 0, len(s.Deductions))
	for _, d := range s.Deductions {
		deductions = append(deductions, [2]string{LineLabel(d.Name), Money(d.Amount, meta.Currency)})
	}
	rows := max(len(earnings), len(deductions))

	table := doc.AddTable()
	table.Style("TableGrid")
	docxRow(table, true, "Earnings", "", "Deductions", "")
	for i := 0; i < rows; i++ {
		var e, d [2]string
		if i < len(earnings) {
			e = earnings[i]
		}
		if i < len(deductions) {
			d = deductions[i]
		}
		docxRow(table, false, e[0], e[1], d[0], d[1])
	}
	docxRow(table, true,
		"Gross Salary", Money(s.GrossSalary, meta.Currency),
		"Total Deductions", Money(s.TotalDeductions, meta.Currency),
	)

	doc.AddParagraph("").AddText("Net Pay: " + Money(s.NetPay, meta.Currency)).Bold(true)

	status := "Status: " + s.Status()
	if s.PayoutReference != "" {
		status += " (ref " + s.PayoutReference + ")"
	}
	doc.AddParagraph(status)
	doc.AddParagraph("").AddText(meta.footer()).Size(8)
	return nil
}

func docxRow(table *docx.Table, bold bool, cells ...string) {
	row := table.AddRow()
	for _, c := range cells {
		p := row.AddCell().AddParagraph("")
		if c == "" {
			continue
		}
		p.AddText(c).Bold(bold)
	}
}
