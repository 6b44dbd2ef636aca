package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/alimalikali/payrollx-server/internal/domain/payroll"
	"github.com/alimalikali/payrollx-server/internal/pkg/database"
	"github.com/alimalikali/payrollx-server/internal/pkg/validator"
	"github.com/jackc/pgx/v5"
)

const payslipColumns = `
	ps.id, ps.payroll_run_id, ps.employee_id, ps.month, ps.year,
	ps.working_days, ps.present_days, ps.absent_days, ps.leave_days, ps.overtime_hours,
	ps.basic_salary, ps.house_rent_allowance, ps.medical_allowance, ps.transport_allowance,
	ps.utility_allowance, ps.other_allowances, ps.overtime_pay, ps.gross_salary,
	ps.income_tax, ps.tax_bracket, ps.is_filer,
	ps.eobi_employee, ps.eobi_employer, ps.social_security_employer,
	ps.loan_deduction, ps.other_deductions, ps.total_deductions, ps.net_salary,
	ps.status, ps.created_at,
	e.employee_code, e.full_name
`

const payslipFrom = ` FROM payslips ps JOIN employees e ON ps.employee_id = e.id`

type payslipRepository struct {
	db *database.DB
}

func NewPayslipRepository(db *database.DB) payroll.PayslipRepository {
	return &payslipRepository{db: db}
}

func scanPayslip(row pgx.Row) (payroll.Payslip, error) {
	var p payroll.Payslip
	err := row.Scan(
		&p.ID, &p.PayrollRunID, &p.EmployeeID, &p.Month, &p.Year,
		&p.WorkingDays, &p.PresentDays, &p.AbsentDays, &p.LeaveDays, &p.OvertimeHours,
		&p.BasicSalary, &p.HouseRentAllowance, &p.MedicalAllowance, &p.TransportAllowance,
		&p.UtilityAllowance, &p.OtherAllowances, &p.OvertimePay, &p.GrossSalary,
		&p.IncomeTax, &p.TaxBracket, &p.IsFiler,
		&p.EOBIEmployee, &p.EOBIEmployer, &p.SocialSecurityEmployer,
		&p.LoanDeduction, &p.OtherDeductions, &p.TotalDeductions, &p.NetSalary,
		&p.Status, &p.CreatedAt,
		&p.EmployeeCode, &p.EmployeeName,
	)
	return p, err
}

func (r *payslipRepository) Create(ctx context.Context, p payroll.Payslip) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH ps AS (
			INSERT INTO payslips (
				payroll_run_id, employee_id, month, year,
				working_days, present_days, absent_days, leave_days, overtime_hours,
				basic_salary, house_rent_allowance, medical_allowance, transport_allowance,
				utility_allowance, other_allowances, overtime_pay, gross_salary,
				income_tax, tax_bracket, is_filer,
				eobi_employee, eobi_employer, social_security_employer,
				loan_deduction, other_deductions, total_deductions, net_salary, status
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
				$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28
			)
			RETURNING *
		)
		SELECT ` + payslipColumns + ` FROM ps JOIN employees e ON ps.employee_id = e.id
	`

	created, err := scanPayslip(q.QueryRow(ctx, query,
		p.PayrollRunID, p.EmployeeID, p.Month, p.Year,
		p.WorkingDays, p.PresentDays, p.AbsentDays, p.LeaveDays, p.OvertimeHours,
		p.BasicSalary, p.HouseRentAllowance, p.MedicalAllowance, p.TransportAllowance,
		p.UtilityAllowance, p.OtherAllowances, p.OvertimePay, p.GrossSalary,
		p.IncomeTax, p.TaxBracket, p.IsFiler,
		p.EOBIEmployee, p.EOBIEmployer, p.SocialSecurityEmployer,
		p.LoanDeduction, p.OtherDeductions, p.TotalDeductions, p.NetSalary, p.Status,
	))
	if err != nil {
		if isUniqueViolation(err, "uk_payslips_run_employee") {
			return payroll.Payslip{}, payroll.ErrPayslipExists
		}
		return payroll.Payslip{}, fmt.Errorf("failed to create payslip: %w", err)
	}

	return created, nil
}

func (r *payslipRepository) GetByID(ctx context.Context, id string) (payroll.Payslip, error) {
	if !validator.IsValidUUID(id) {
		return payroll.Payslip{}, payroll.ErrPayslipNotFound
	}
	q := GetQuerier(ctx, r.db)

	p, err := scanPayslip(q.QueryRow(ctx, `SELECT `+payslipColumns+payslipFrom+` WHERE ps.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payslip{}, payroll.ErrPayslipNotFound
		}
		return payroll.Payslip{}, fmt.Errorf("failed to get payslip: %w", err)
	}

	return p, nil
}

func (r *payslipRepository) ListByRun(ctx context.Context, runID string) ([]payroll.Payslip, error) {
	if !validator.IsValidUUID(runID) {
		return []payroll.Payslip{}, nil
	}
	return r.list(ctx, ` WHERE ps.payroll_run_id = $1 ORDER BY e.employee_code`, runID)
}

func (r *payslipRepository) ListByEmployee(ctx context.Context, employeeID string) ([]payroll.Payslip, error) {
	if !validator.IsValidUUID(employeeID) {
		return []payroll.Payslip{}, nil
	}
	return r.list(ctx, ` WHERE ps.employee_id = $1 ORDER BY ps.year DESC, ps.month DESC`, employeeID)
}

func (r *payslipRepository) list(ctx context.Context, where string, args ...interface{}) ([]payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+payslipColumns+payslipFrom+where, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslips: %w", err)
	}
	defer rows.Close()

	slips := []payroll.Payslip{}
	for rows.Next() {
		p, err := scanPayslip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payslip: %w", err)
		}
		slips = append(slips, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payslips: %w", err)
	}

	return slips, nil
}

func (r *payslipRepository) DeleteByRun(ctx context.Context, runID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM payslips WHERE payroll_run_id = $1`, runID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete payslips: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *payslipRepository) ApproveByRun(ctx context.Context, runID string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE payslips SET status = $2 WHERE payroll_run_id = $1 AND status <> $2`,
		runID, payroll.PayslipStatusApproved)
	if err != nil {
		return 0, fmt.Errorf("failed to approve payslips: %w", err)
	}
	return tag.RowsAffected(), nil
}
