package payroll

import (
	"fmt"

	"github.com/alimalikali/payrollx-server/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	payslipSheet    = "Payslips"
	summarySheet    = "Summary"
)

var payslipHeaders = []interface{}{
	"Employee Code", "Employee Name", "Working Days", "Present Days", "Absent Days", "Leave Days",
	"Overtime Hours", "Basic Salary", "Allowances", "Overtime Pay", "Gross Salary", "Income Tax",
	"Tax Bracket", "Filer", "EOBI Employee", "EOBI Employer", "Social Security Employer",
	"Loan Deduction", "Other Deductions", "Total Deductions", "Net Salary", "Status",
}

// renderWorkbook writes one row per payslip followed by a totals row, and a
// second sheet with the run summary.
func renderWorkbook(run payroll.PayrollRun, slips []payroll.Payslip) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", payslipSheet); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	headers := payslipHeaders
	if err := f.SetSheetRow(payslipSheet, "A1", &headers); err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(payslipSheet, 1, 1, bold); err != nil {
		return nil, err
	}

	var (
		basic, allowances, overtime, gross, incomeTax  decimal.Decimal
		eobiEmp, eobiEr, social, loan, other, deducted decimal.Decimal
		net                                            decimal.Decimal
	)

	for i, p := range slips {
		slipAllowances := p.HouseRentAllowance.Add(p.MedicalAllowance).Add(p.TransportAllowance).
			Add(p.UtilityAllowance).Add(p.OtherAllowances)

		row := []interface{}{
			deref(p.EmployeeCode), deref(p.EmployeeName),
			p.WorkingDays, p.PresentDays, p.AbsentDays, p.LeaveDays,
			p.OvertimeHours.InexactFloat64(),
			p.BasicSalary.IntPart(), slipAllowances.IntPart(), p.OvertimePay.IntPart(),
			p.GrossSalary.IntPart(), p.IncomeTax.IntPart(), p.TaxBracket, yesNo(p.IsFiler),
			p.EOBIEmployee.IntPart(), p.EOBIEmployer.IntPart(), p.SocialSecurityEmployer.IntPart(),
			p.LoanDeduction.IntPart(), p.OtherDeductions.IntPart(), p.TotalDeductions.IntPart(),
			p.NetSalary.IntPart(), string(p.Status),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(payslipSheet, cell, &row); err != nil {
			return nil, err
		}

		basic = basic.Add(p.BasicSalary)
		allowances = allowances.Add(slipAllowances)
		overtime = overtime.Add(p.OvertimePay)
		gross = gross.Add(p.GrossSalary)
		incomeTax = incomeTax.Add(p.IncomeTax)
		eobiEmp = eobiEmp.Add(p.EOBIEmployee)
		eobiEr = eobiEr.Add(p.EOBIEmployer)
		social = social.Add(p.SocialSecurityEmployer)
		loan = loan.Add(p.LoanDeduction)
		other = other.Add(p.OtherDeductions)
		deducted = deducted.Add(p.TotalDeductions)
		net = net.Add(p.NetSalary)
	}

	totalRow := len(slips) + 2
	totals := []interface{}{
		"TOTAL", fmt.Sprintf("%d employees", len(slips)), "", "", "", "", "",
		basic.IntPart(), allowances.IntPart(), overtime.IntPart(), gross.IntPart(), incomeTax.IntPart(),
		"", "", eobiEmp.IntPart(), eobiEr.IntPart(), social.IntPart(),
		loan.IntPart(), other.IntPart(), deducted.IntPart(), net.IntPart(), "",
	}
	cell, err := excelize.CoordinatesToCellName(1, totalRow)
	if err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(payslipSheet, cell, &totals); err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(payslipSheet, totalRow, totalRow, bold); err != nil {
		return nil, err
	}

	if err := writeSummary(f, run, bold); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, run payroll.PayrollRun, bold int) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"Period", fmt.Sprintf("%04d-%02d", run.Year, run.Month)},
		{"Start Date", run.StartDate.Format(dateLayout)},
		{"End Date", run.EndDate.Format(dateLayout)},
		{"Status", string(run.Status)},
		{"Employees", run.TotalEmployees},
		{"Total Gross", run.TotalGross.IntPart()},
		{"Total Deductions", run.TotalDeductions.IntPart()},
		{"Total Tax", run.TotalTax.IntPart()},
		{"Total Net", run.TotalNet.IntPart()},
		{"Total Employer Contributions", run.TotalEmployerContributions.IntPart()},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SetColStyle(summarySheet, "A", bold)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
