package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID               string
	EmployeeCode     string
	FullName         string
	EmploymentStatus EmploymentStatus
	IsTaxFiler       bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusInactive   EmploymentStatus = "inactive"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
	EmploymentStatusOnLeave    EmploymentStatus = "on_leave"
)

// SalaryStructure is one dated version of an employee's pay components.
type SalaryStructure struct {
	ID                 string
	EmployeeID         string
	BasicSalary        decimal.Decimal
	HouseRentAllowance decimal.Decimal
	MedicalAllowance   decimal.Decimal
	TransportAllowance decimal.Decimal
	UtilityAllowance   decimal.Decimal
	OtherAllowances    decimal.Decimal
	LoanDeduction      decimal.Decimal
	OtherDeductions    decimal.Decimal
	EffectiveFrom      time.Time
	EffectiveTo        *time.Time
	IsCurrent          bool
}

// Allowances returns the sum of the five allowance components.
func (s SalaryStructure) Allowances() decimal.Decimal {
	return s.HouseRentAllowance.
		Add(s.MedicalAllowance).
		Add(s.TransportAllowance).
		Add(s.UtilityAllowance).
		Add(s.OtherAllowances)
}

// Gross returns basic salary plus all allowances.
func (s SalaryStructure) Gross() decimal.Decimal {
	return s.BasicSalary.Add(s.Allowances())
}

// PayableEmployee is an active employee joined with their current salary structure.
type PayableEmployee struct {
	Employee
	Salary SalaryStructure
}
