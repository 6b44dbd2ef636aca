package payroll

import (
	"github.com/alimalikali/payrollx-server/internal/domain/attendance"
	"github.com/alimalikali/payrollx-server/internal/domain/employee"
	"github.com/alimalikali/payrollx-server/internal/domain/payroll"
	"github.com/alimalikali/payrollx-server/internal/domain/tax"
	"github.com/shopspring/decimal"
)

var zero = decimal.Zero

// OvertimePay prices overtime at the hourly rate implied by the structure
// gross over the month's working hours, times the overtime multiplier.
// It is zero when the month has no working days.
func OvertimePay(structureGross, overtimeHours decimal.Decimal, workingDays int, rules payroll.Rules) decimal.Decimal {
	if workingDays <= 0 || rules.HoursPerDay <= 0 || !overtimeHours.IsPositive() {
		return zero
	}

	monthlyHours := decimal.NewFromInt(int64(workingDays * rules.HoursPerDay))
	return overtimeHours.
		Mul(structureGross).
		Mul(rules.OvertimeMultiplier).
		Div(monthlyHours).
		Round(0)
}

func (s *PayrollServiceImpl) buildPayslip(run payroll.PayrollRun, emp employee.PayableEmployee, workingDays int, att attendance.Summary) (payroll.Payslip, error) {
	salary := emp.Salary
	overtime := OvertimePay(salary.Gross(), att.OvertimeHours, workingDays, s.rules)
	gross := salary.Gross().Add(overtime)

	b, err := s.calculator.AllDeductions(gross, emp.IsTaxFiler, tax.DeductionInput{
		LoanDeduction:   salary.LoanDeduction,
		OtherDeductions: salary.OtherDeductions,
	})
	if err != nil {
		return payroll.Payslip{}, err
	}

	return payroll.Payslip{
		PayrollRunID:           run.ID,
		EmployeeID:             emp.ID,
		Month:                  run.Month,
		Year:                   run.Year,
		WorkingDays:            workingDays,
		PresentDays:            att.PresentDays,
		AbsentDays:             att.AbsentDays,
		LeaveDays:              att.LeaveDays,
		OvertimeHours:          att.OvertimeHours,
		BasicSalary:            salary.BasicSalary,
		HouseRentAllowance:     salary.HouseRentAllowance,
		MedicalAllowance:       salary.MedicalAllowance,
		TransportAllowance:     salary.TransportAllowance,
		UtilityAllowance:       salary.UtilityAllowance,
		OtherAllowances:        salary.OtherAllowances,
		OvertimePay:            overtime,
		GrossSalary:            b.GrossSalary,
		IncomeTax:              b.IncomeTax,
		TaxBracket:             b.TaxBracket,
		IsFiler:                emp.IsTaxFiler,
		EOBIEmployee:           b.PensionEmployee,
		EOBIEmployer:           b.PensionEmployer,
		SocialSecurityEmployer: b.SocialSecurityEmployer,
		LoanDeduction:          b.LoanDeduction,
		OtherDeductions:        b.OtherDeductions,
		TotalDeductions:        b.TotalDeductions,
		NetSalary:              b.NetSalary,
		Status:                 payroll.PayslipStatusDraft,
	}, nil
}
