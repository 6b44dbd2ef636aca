package payroll

import (
	"time"

	"github.com/alimalikali/payrollx-server/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== RUN DTOs ==========

type CreateRunRequest struct {
	Month int `json:"month" validate:"gte=1,lte=12"`
	Year  int `json:"year" validate:"gte=2000,lte=2100"`
}

func (r *CreateRunRequest) Validate() error {
	return validator.Struct(r)
}

// UpdateRunRequest is the typed update command for a run. Nil fields are
// left unchanged.
type UpdateRunRequest struct {
	ID          string  `json:"-"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
	PaymentDate *string `json:"payment_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func (r *UpdateRunRequest) Validate() error {
	if err := validator.Struct(r); err != nil {
		return err
	}
	if r.Notes == nil && r.PaymentDate == nil {
		return validator.ValidationErrors{{Field: "body", Message: "at least one of notes, payment_date is required"}}
	}
	return nil
}

// RunUpdate is UpdateRunRequest after parsing, as handed to the repository.
type RunUpdate struct {
	ID          string
	Notes       *string
	PaymentDate *time.Time
}

type RunFilter struct {
	Year   *int    `json:"year,omitempty" validate:"omitempty,gte=2000,lte=2100"`
	Status *string `json:"status,omitempty" validate:"omitempty,oneof=draft processing completed approved cancelled"`
	Page   int     `json:"page" validate:"gte=0"`
	Limit  int     `json:"limit" validate:"gte=0,lte=100"`
}

const (
	DefaultPage  = 1
	DefaultLimit = 20
)

// Validate checks the filter and fills in paging defaults.
func (f *RunFilter) Validate() error {
	if err := validator.Struct(f); err != nil {
		return err
	}
	if f.Page == 0 {
		f.Page = DefaultPage
	}
	if f.Limit == 0 {
		f.Limit = DefaultLimit
	}
	return nil
}

// Offset returns the row offset for the current page.
func (f RunFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type RunTotalsResponse struct {
	Employees             int             `json:"employees"`
	Gross                 decimal.Decimal `json:"gross"`
	Deductions            decimal.Decimal `json:"deductions"`
	Tax                   decimal.Decimal `json:"tax"`
	Net                   decimal.Decimal `json:"net"`
	EmployerContributions decimal.Decimal `json:"employer_contributions"`
}

type RunResponse struct {
	ID          string            `json:"id"`
	Month       int               `json:"month"`
	Year        int               `json:"year"`
	StartDate   string            `json:"start_date"`
	EndDate     string            `json:"end_date"`
	Status      string            `json:"status"`
	Totals      RunTotalsResponse `json:"totals"`
	PaymentDate *string           `json:"payment_date,omitempty"`
	Notes       *string           `json:"notes,omitempty"`
	CreatedBy   *string           `json:"created_by,omitempty"`
	ProcessedBy *string           `json:"processed_by,omitempty"`
	ProcessedAt *string           `json:"processed_at,omitempty"`
	ApprovedBy  *string           `json:"approved_by,omitempty"`
	ApprovedAt  *string           `json:"approved_at,omitempty"`
	CreatedAt   string            `json:"created_at"`
	UpdatedAt   string            `json:"updated_at"`
}

type ListRunResponse struct {
	Data       []RunResponse `json:"data"`
	TotalCount int64         `json:"total_count"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
}

// ========== PAYSLIP DTOs ==========

type PayslipResponse struct {
	ID                     string          `json:"id"`
	PayrollRunID           string          `json:"payroll_run_id"`
	EmployeeID             string          `json:"employee_id"`
	EmployeeCode           *string         `json:"employee_code,omitempty"`
	EmployeeName           *string         `json:"employee_name,omitempty"`
	Month                  int             `json:"month"`
	Year                   int             `json:"year"`
	WorkingDays            int             `json:"working_days"`
	PresentDays            int             `json:"present_days"`
	AbsentDays             int             `json:"absent_days"`
	LeaveDays              int             `json:"leave_days"`
	OvertimeHours          decimal.Decimal `json:"overtime_hours"`
	BasicSalary            decimal.Decimal `json:"basic_salary"`
	HouseRentAllowance     decimal.Decimal `json:"house_rent_allowance"`
	MedicalAllowance       decimal.Decimal `json:"medical_allowance"`
	TransportAllowance     decimal.Decimal `json:"transport_allowance"`
	UtilityAllowance       decimal.Decimal `json:"utility_allowance"`
	OtherAllowances        decimal.Decimal `json:"other_allowances"`
	OvertimePay            decimal.Decimal `json:"overtime_pay"`
	GrossSalary            decimal.Decimal `json:"gross_salary"`
	IncomeTax              decimal.Decimal `json:"income_tax"`
	TaxBracket             string          `json:"tax_bracket"`
	IsFiler                bool            `json:"is_filer"`
	EOBIEmployee           decimal.Decimal `json:"eobi_employee"`
	EOBIEmployer           decimal.Decimal `json:"eobi_employer"`
	SocialSecurityEmployer decimal.Decimal `json:"social_security_employer"`
	LoanDeduction          decimal.Decimal `json:"loan_deduction"`
	OtherDeductions        decimal.Decimal `json:"other_deductions"`
	TotalDeductions        decimal.Decimal `json:"total_deductions"`
	NetSalary              decimal.Decimal `json:"net_salary"`
	Status                 string          `json:"status"`
	CreatedAt              string          `json:"created_at"`
}

// ========== EXPORT ==========

type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
