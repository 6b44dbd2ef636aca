package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RunStatus enum
type RunStatus string

const (
	RunStatusDraft      RunStatus = "draft"
	RunStatusProcessing RunStatus = "processing"
	RunStatusCompleted  RunStatus = "completed"
	RunStatusApproved   RunStatus = "approved"
	RunStatusCancelled  RunStatus = "cancelled"
)

var runTransitions = map[RunStatus][]RunStatus{
	RunStatusDraft:      {RunStatusProcessing, RunStatusCancelled},
	RunStatusProcessing: {RunStatusCompleted, RunStatusDraft},
	RunStatusCompleted:  {RunStatusApproved, RunStatusDraft},
}

// Valid reports whether s is one of the known run statuses.
func (s RunStatus) Valid() bool {
	switch s {
	case RunStatusDraft, RunStatusProcessing, RunStatusCompleted, RunStatusApproved, RunStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s RunStatus) Terminal() bool {
	return len(runTransitions[s]) == 0
}

// CanTransition reports whether a run may move from one status to another.
func CanTransition(from, to RunStatus) bool {
	for _, next := range runTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// PayrollRun - One processing of payroll for a calendar month
type PayrollRun struct {
	ID                         string
	Month                      int
	Year                       int
	StartDate                  time.Time
	EndDate                    time.Time
	Status                     RunStatus
	TotalEmployees             int
	TotalGross                 decimal.Decimal
	TotalDeductions            decimal.Decimal
	TotalTax                   decimal.Decimal
	TotalNet                   decimal.Decimal
	TotalEmployerContributions decimal.Decimal
	PaymentDate                *time.Time
	Notes                      *string
	CreatedBy                  *string
	ProcessedBy                *string
	ProcessedAt                *time.Time
	ApprovedBy                 *string
	ApprovedAt                 *time.Time
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}

// Totals returns the run-level aggregates as a RunTotals value.
func (r PayrollRun) Totals() RunTotals {
	return RunTotals{
		Employees:             r.TotalEmployees,
		Gross:                 r.TotalGross,
		Deductions:            r.TotalDeductions,
		Tax:                   r.TotalTax,
		Net:                   r.TotalNet,
		EmployerContributions: r.TotalEmployerContributions,
	}
}

// RunTotals accumulates payslip amounts while a run is processed.
type RunTotals struct {
	Employees             int
	Gross                 decimal.Decimal
	Deductions            decimal.Decimal
	Tax                   decimal.Decimal
	Net                   decimal.Decimal
	EmployerContributions decimal.Decimal
}

// Add folds one payslip into the totals.
func (t *RunTotals) Add(p Payslip) {
	t.Employees++
	t.Gross = t.Gross.Add(p.GrossSalary)
	t.Deductions = t.Deductions.Add(p.TotalDeductions)
	t.Tax = t.Tax.Add(p.IncomeTax)
	t.Net = t.Net.Add(p.NetSalary)
	t.EmployerContributions = t.EmployerContributions.Add(p.EOBIEmployer).Add(p.SocialSecurityEmployer)
}

// PayslipStatus enum
type PayslipStatus string

const (
	PayslipStatusDraft    PayslipStatus = "draft"
	PayslipStatusApproved PayslipStatus = "approved"
)

// Payslip - Frozen per-employee result of a run
type Payslip struct {
	ID                     string
	PayrollRunID           string
	EmployeeID             string
	Month                  int
	Year                   int
	WorkingDays            int
	PresentDays            int
	AbsentDays             int
	LeaveDays              int
	OvertimeHours          decimal.Decimal
	BasicSalary            decimal.Decimal
	HouseRentAllowance     decimal.Decimal
	MedicalAllowance       decimal.Decimal
	TransportAllowance     decimal.Decimal
	UtilityAllowance       decimal.Decimal
	OtherAllowances        decimal.Decimal
	OvertimePay            decimal.Decimal
	GrossSalary            decimal.Decimal
	IncomeTax              decimal.Decimal
	TaxBracket             string
	IsFiler                bool
	EOBIEmployee           decimal.Decimal
	EOBIEmployer           decimal.Decimal
	SocialSecurityEmployer decimal.Decimal
	LoanDeduction          decimal.Decimal
	OtherDeductions        decimal.Decimal
	TotalDeductions        decimal.Decimal
	NetSalary              decimal.Decimal
	Status                 PayslipStatus
	CreatedAt              time.Time

	// Joined fields
	EmployeeCode *string
	EmployeeName *string
}

// Rules holds the non-tax parameters of a run.
type Rules struct {
	OvertimeMultiplier decimal.Decimal
	HoursPerDay        int
	RestDays           []time.Weekday
}

// DefaultRules returns time-and-a-half overtime on an 8 hour day with
// Saturday and Sunday as rest days.
func DefaultRules() Rules {
	return Rules{
		OvertimeMultiplier: decimal.RequireFromString("1.5"),
		HoursPerDay:        8,
		RestDays:           []time.Weekday{time.Saturday, time.Sunday},
	}
}

func (r Rules) Validate() error {
	if !r.OvertimeMultiplier.IsPositive() {
		return fmt.Errorf("%w: overtime multiplier must be positive", ErrInvalidRules)
	}
	if r.HoursPerDay <= 0 || r.HoursPerDay > 24 {
		return fmt.Errorf("%w: hours per day must be between 1 and 24", ErrInvalidRules)
	}
	if len(r.RestDays) >= 7 {
		return fmt.Errorf("%w: at least one working weekday is required", ErrInvalidRules)
	}
	return nil
}

// IsRestDay reports whether d is a weekly rest day.
func (r Rules) IsRestDay(d time.Weekday) bool {
	for _, rest := range r.RestDays {
		if rest == d {
			return true
		}
	}
	return false
}

// Period returns the first and last calendar day of a month in UTC.
func Period(month, year int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, -1)
}
