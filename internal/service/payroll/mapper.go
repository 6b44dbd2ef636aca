package payroll

import (
	"time"

	"github.com/alimalikali/payrollx-server/internal/domain/payroll"
)

// ========== HELPERS ==========

const dateLayout = "2006-01-02"

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func mapToRunResponse(r payroll.PayrollRun) payroll.RunResponse {
	return payroll.RunResponse{
		ID:        r.ID,
		Month:     r.Month,
		Year:      r.Year,
		StartDate: r.StartDate.Format(dateLayout),
		EndDate:   r.EndDate.Format(dateLayout),
		Status:    string(r.Status),
		Totals: payroll.RunTotalsResponse{
			Employees:             r.TotalEmployees,
			Gross:                 r.TotalGross,
			Deductions:            r.TotalDeductions,
			Tax:                   r.TotalTax,
			Net:                   r.TotalNet,
			EmployerContributions: r.TotalEmployerContributions,
		},
		PaymentDate: formatDate(r.PaymentDate),
		Notes:       r.Notes,
		CreatedBy:   r.CreatedBy,
		ProcessedBy: r.ProcessedBy,
		ProcessedAt: formatTime(r.ProcessedAt),
		ApprovedBy:  r.ApprovedBy,
		ApprovedAt:  formatTime(r.ApprovedAt),
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   r.UpdatedAt.Format(time.RFC3339),
	}
}

func mapToRunResponses(runs []payroll.PayrollRun) []payroll.RunResponse {
	result := make([]payroll.RunResponse, 0, len(runs))
	for _, r := range runs {
		result = append(result, mapToRunResponse(r))
	}
	return result
}

func mapToPayslipResponse(p payroll.Payslip) payroll.PayslipResponse {
	return payroll.PayslipResponse{
		ID:                     p.ID,
		PayrollRunID:           p.PayrollRunID,
		EmployeeID:             p.EmployeeID,
		EmployeeCode:           p.EmployeeCode,
		EmployeeName:           p.EmployeeName,
		Month:                  p.Month,
		Year:                   p.Year,
		WorkingDays:            p.WorkingDays,
		PresentDays:            p.PresentDays,
		AbsentDays:             p.AbsentDays,
		LeaveDays:              p.LeaveDays,
		OvertimeHours:          p.OvertimeHours,
		BasicSalary:            p.BasicSalary,
		HouseRentAllowance:     p.HouseRentAllowance,
		MedicalAllowance:       p.MedicalAllowance,
		TransportAllowance:     p.TransportAllowance,
		UtilityAllowance:       p.UtilityAllowance,
		OtherAllowances:        p.OtherAllowances,
		OvertimePay:            p.OvertimePay,
		GrossSalary:            p.GrossSalary,
		IncomeTax:              p.IncomeTax,
		TaxBracket:             p.TaxBracket,
		IsFiler:                p.IsFiler,
		EOBIEmployee:           p.EOBIEmployee,
		EOBIEmployer:           p.EOBIEmployer,
		SocialSecurityEmployer: p.SocialSecurityEmployer,
		LoanDeduction:          p.LoanDeduction,
		OtherDeductions:        p.OtherDeductions,
		TotalDeductions:        p.TotalDeductions,
		NetSalary:              p.NetSalary,
		Status:                 string(p.Status),
		CreatedAt:              p.CreatedAt.Format(time.RFC3339),
	}
}

func mapToPayslipResponses(slips []payroll.Payslip) []payroll.PayslipResponse {
	result := make([]payroll.PayslipResponse, 0, len(slips))
	for _, p := range slips {
		result = append(result, mapToPayslipResponse(p))
	}
	return result
}
