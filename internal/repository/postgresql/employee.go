package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/alimalikali/payrollx-server/internal/domain/employee"
	"github.com/alimalikali/payrollx-server/internal/pkg/database"
	"github.com/alimalikali/payrollx-server/internal/pkg/validator"
	"github.com/jackc/pgx/v5"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	if !validator.IsValidUUID(id) {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_code, full_name, employment_status, is_tax_filer, created_at, updated_at
		FROM employees
		WHERE id = $1
	`

	var e employee.Employee
	err := q.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.EmployeeCode, &e.FullName, &e.EmploymentStatus, &e.IsTaxFiler, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return e, nil
}

// ExistsByID implements employee.EmployeeRepository.
func (r *employeeRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	if !validator.IsValidUUID(id) {
		return false, nil
	}
	q := GetQuerier(ctx, r.db)

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM employees WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check employee existence: %w", err)
	}
	return exists, nil
}

// ListPayable implements employee.EmployeeRepository.
func (r *employeeRepository) ListPayable(ctx context.Context) ([]employee.PayableEmployee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT e.id, e.employee_code, e.full_name, e.employment_status, e.is_tax_filer, e.created_at, e.updated_at,
			   s.id, s.employee_id, s.basic_salary, s.house_rent_allowance, s.medical_allowance,
			   s.transport_allowance, s.utility_allowance, s.other_allowances,
			   s.loan_deduction, s.other_deductions, s.effective_from, s.effective_to, s.is_current
		FROM employees e
		JOIN salary_structures s ON s.employee_id = e.id AND s.is_current
		WHERE e.employment_status = $1
		ORDER BY e.employee_code
	`

	rows, err := q.Query(ctx, query, employee.EmploymentStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list payable employees: %w", err)
	}
	defer rows.Close()

	result := []employee.PayableEmployee{}
	for rows.Next() {
		var pe employee.PayableEmployee
		e, s := &pe.Employee, &pe.Salary
		if err := rows.Scan(
			&e.ID, &e.EmployeeCode, &e.FullName, &e.EmploymentStatus, &e.IsTaxFiler, &e.CreatedAt, &e.UpdatedAt,
			&s.ID, &s.EmployeeID, &s.BasicSalary, &s.HouseRentAllowance, &s.MedicalAllowance,
			&s.TransportAllowance, &s.UtilityAllowance, &s.OtherAllowances,
			&s.LoanDeduction, &s.OtherDeductions, &s.EffectiveFrom, &s.EffectiveTo, &s.IsCurrent,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payable employee: %w", err)
		}
		result = append(result, pe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payable employees: %w", err)
	}

	return result, nil
}
