package payroll

import (
	"context"
	"time"
)

// StatusChange is a compare-and-swap on a run's status. The repository
// applies it only when the stored status equals From, and returns
// ErrRunNotFound or an *InvalidStateError otherwise.
type StatusChange struct {
	RunID     string
	Operation string
	From      RunStatus
	To        RunStatus
	Actor     *string
	At        time.Time

	// Totals is persisted with the change when set.
	Totals *RunTotals
}

// Apply returns run as it looks after the change. Completing records the
// totals and processor, approving records the approver, and resetting to
// draft clears both.
func (c StatusChange) Apply(run PayrollRun) PayrollRun {
	run.Status = c.To
	run.UpdatedAt = c.At

	switch c.To {
	case RunStatusCompleted:
		run.ProcessedBy = c.Actor
		at := c.At
		run.ProcessedAt = &at
	case RunStatusApproved:
		run.ApprovedBy = c.Actor
		at := c.At
		run.ApprovedAt = &at
	case RunStatusDraft:
		run.ProcessedBy = nil
		run.ProcessedAt = nil
		c.Totals = &RunTotals{}
	}

	if c.Totals != nil {
		run.TotalEmployees = c.Totals.Employees
		run.TotalGross = c.Totals.Gross
		run.TotalDeductions = c.Totals.Deductions
		run.TotalTax = c.Totals.Tax
		run.TotalNet = c.Totals.Net
		run.TotalEmployerContributions = c.Totals.EmployerContributions
	}
	return run
}

// RunRepository defines data access for payroll runs.
type RunRepository interface {
	// Create inserts a draft run. A second run for the same period yields ErrRunAlreadyExists.
	Create(ctx context.Context, run PayrollRun) (PayrollRun, error)
	GetByID(ctx context.Context, id string) (PayrollRun, error)
	GetByPeriod(ctx context.Context, month, year int) (PayrollRun, error)
	List(ctx context.Context, filter RunFilter) ([]PayrollRun, int64, error)
	TransitionStatus(ctx context.Context, change StatusChange) (PayrollRun, error)
	// Update writes the non-nil fields of upd if the run is in one of the allowed statuses.
	Update(ctx context.Context, upd RunUpdate, allowed []RunStatus) (PayrollRun, error)
}

// PayslipRepository defines data access for payslips.
type PayslipRepository interface {
	Create(ctx context.Context, payslip Payslip) (Payslip, error)
	GetByID(ctx context.Context, id string) (Payslip, error)
	ListByRun(ctx context.Context, runID string) ([]Payslip, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Payslip, error)
	DeleteByRun(ctx context.Context, runID string) (int64, error)
	ApproveByRun(ctx context.Context, runID string) (int64, error)
}

// Transactor runs fn in a single unit of work. Repositories called with the
// context passed to fn take part in it. A non-nil error from fn undoes every
// write made inside it.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
