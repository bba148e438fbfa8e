package payroll

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

type payslipLine struct {
	label  string
	amount int64
}

func renderPayslipPDF(s PayslipSubject, currency string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Payslip %s %02d/%d", s.EmployeeCode, s.PeriodMonth, s.PeriodYear), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Employee: %s %s (%s)", s.FirstName, s.LastName, s.EmployeeCode))
	pdf.Ln(6)
	if s.Designation != "" {
		pdf.Cell(0, 7, fmt.Sprintf("Designation: %s", s.Designation))
		pdf.Ln(6)
	}
	pdf.Cell(0, 7, fmt.Sprintf("Email: %s", s.Email))
	pdf.Ln(6)
	period := time.Date(s.PeriodYear, time.Month(s.PeriodMonth), 1, 0, 0, 0, 0, time.UTC)
	pdf.Cell(0, 7, fmt.Sprintf("Period: %s", period.Format("January 2006")))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Working days: %d   Present: %d   Absent: %d", s.WorkingDays, s.PresentDays, s.AbsentDays))
	pdf.Ln(10)

	writeSection(pdf, "Earnings", currency, []payslipLine{
		{"Basic salary", s.BasicSalary},
		{"HRA", s.HRA},
		{"Transport", s.Transport},
		{"Medical", s.Medical},
		{"Food", s.Food},
		{"Bonus", s.Bonus},
		{"Overtime", s.Overtime},
		{"Other", s.OtherAllowance},
	}, payslipLine{"Gross salary", s.GrossSalary})

	writeSection(pdf, "Deductions", currency, []payslipLine{
		{"Tax", s.Tax},
		{"Provident fund", s.ProvidentFund},
		{"Insurance", s.Insurance},
		{"Loan", s.Loan},
		{"Advance", s.Advance},
		{"Other", s.OtherDeduction},
	}, payslipLine{"Total deductions", s.TotalDeductions})

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(120, 9, "Net salary", "T", 0, "L", false, 0, "")
	pdf.CellFormat(60, 9, formatMoney(s.NetSalary, currency), "T", 1, "R", false, 0, "")

	if s.PaymentDate != nil {
		pdf.SetFont("Helvetica", "", 10)
		pdf.Ln(4)
		pdf.Cell(0, 6, fmt.Sprintf("Paid on %s via %s", s.PaymentDate.Format(time.DateOnly), s.PaymentMethod))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render payslip: %w", err)
	}
	return buf.Bytes(), nil
}

// writeSection prints non-zero lines followed by the section total.
func writeSection(pdf *gofpdf.Fpdf, title, currency string, lines []payslipLine, total payslipLine) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	for _, l := range lines {
		if l.amount == 0 {
			continue
		}
		pdf.CellFormat(120, 7, l.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(60, 7, formatMoney(l.amount, currency), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(120, 7, total.label, "T", 0, "L", false, 0, "")
	pdf.CellFormat(60, 7, formatMoney(total.amount, currency), "T", 1, "R", false, 0, "")
	pdf.Ln(4)
}

// formatMoney renders minor units as "USD 1,234.50".
func formatMoney(minor int64, currency string) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	major := minor / 100
	cents := minor % 100

	digits := fmt.Sprintf("%d", major)
	var grouped []byte
	for i := range len(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped = append(grouped, ',')
		}
		grouped = append(grouped, digits[i])
	}
	return fmt.Sprintf("%s %s%s.%02d", currency, sign, grouped, cents)
}
