// Package export renders stored payslips to downloadable documents.
// Renderers only format the values they are given; nothing is recomputed.
package export

import (
	"errors"
	"fmt"
	"strings"
	"time"

	payrollerrors "uni-hris/internal/payroll/errors"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Format string

const (
	FormatPDF   Format = "pdf"
	FormatDOC   Format = "doc"
	FormatExcel Format = "excel"
)

var errNoSlips = errors.New("export: no payslips to render")

// ParseFormat accepts pdf, doc and excel, plus the docx and xlsx aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pdf":
		return FormatPDF, nil
	case "doc", "docx":
		return FormatDOC, nil
	case "excel", "xlsx":
		return FormatExcel, nil
	}
	return "", payrollerrors.ErrUnsupportedFormat
}

// Renderer turns one or more payslips into a single document.
type Renderer interface {
	Render(slips []Slip, meta Meta) ([]byte, error)
	ContentType() string
	Extension() string
}

func RendererFor(f Format) (Renderer, error) {
	switch f {
	case FormatPDF:
		return PDFRenderer{}, nil
	case FormatDOC:
		return DOCXRenderer{}, nil
	case FormatExcel:
		return XLSXRenderer{}, nil
	}
	return nil, payrollerrors.ErrUnsupportedFormat
}

type Line struct {
	Name   string
	Amount decimal.Decimal
}

// Slip is the display view of one stored payslip.
type Slip struct {
	StaffNumber string
	FullName    string
	Department  string
	Position    string
	BankName    string
	BankAccount string

	Month int
	Year  int

	BaseSalary         decimal.Decimal
	AdditionalEarnings decimal.Decimal
	GrossSalary        decimal.Decimal
	Deductions         []Line
	TotalDeductions    decimal.Decimal
	NetPay             decimal.Decimal

	Paid            bool
	PaidAt          *time.Time
	PayoutReference string
}

func (s Slip) Period() string {
	if s.Month < 1 || s.Month > 12 {
		return fmt.Sprintf("%02d/%d", s.Month, s.Year)
	}
	return fmt.Sprintf("%s %d", time.Month(s.Month), s.Year)
}

func (s Slip) Status() string {
	if s.Paid {
		return "Paid"
	}
	return "Unpaid"
}

type Meta struct {
	Organization string
	Currency     string
	GeneratedBy  string
	GeneratedAt  time.Time
}

func (m Meta) footer() string {
	by := m.GeneratedBy
	if by == "" {
		by = "system"
	}
	return fmt.Sprintf("Generated %s by %s", m.GeneratedAt.UTC().Format("2006-01-02 15:04 MST"), by)
}

var lineLabels = map[string]string{
	"tax":         "Income Tax",
	"nhif":        "NHIF",
	"nssf":        "NSSF",
	"loan":        "Loan Repayment",
	"cooperative": "Cooperative",
	"additional":  "Other Deductions",
	"total":       "Total Deductions",
}

// LineLabel is the display name of a deduction component.
func LineLabel(name string) string {
	if l, ok := lineLabels[name]; ok {
		return l
	}
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}

// Money formats an amount with thousands separators and two decimals.
func Money(d decimal.Decimal, currency string) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String() + "." + frac
	if neg {
		out = "-" + out
	}
	if currency != "" {
		out = currency + " " + out
	}
	return out
}
