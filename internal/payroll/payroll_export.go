package payroll

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

var registerHeader = []any{
	"Employee ID", "Month", "Year", "Basic", "Allowances", "Gross",
	"Deductions", "Net", "Working days", "Present days", "Absent days",
	"Status", "Payment method", "Payment date",
}

// writeRegister streams a monthly payroll register as an XLSX workbook.
// Money columns are written in major units.
func writeRegister(w io.Writer, month, year int, rows []Record) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := fmt.Sprintf("Payroll %04d-%02d", year, month)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := sw.SetRow("A1", registerHeader, excelize.RowOpts{StyleID: style}); err != nil {
		return err
	}

	var totalNet int64
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		paidOn := ""
		if r.PaymentDate != nil {
			paidOn = r.PaymentDate.Format("2006-01-02")
		}
		row := []any{
			r.EmployeeID.String(), r.PeriodMonth, r.PeriodYear,
			toMajor(r.BasicSalary), toMajor(r.allowances()), toMajor(r.GrossSalary),
			toMajor(r.TotalDeductions), toMajor(r.NetSalary),
			r.WorkingDays, r.PresentDays, r.AbsentDays,
			r.PaymentStatus, r.PaymentMethod, paidOn,
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
		totalNet += r.NetSalary
	}

	cell, _ := excelize.CoordinatesToCellName(7, len(rows)+3)
	if err := sw.SetRow(cell, []any{"Total net", toMajor(totalNet)}, excelize.RowOpts{StyleID: style}); err != nil {
		return err
	}
	if err := sw.Flush(); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}

func toMajor(minor int64) float64 {
	return float64(minor) / 100
}
