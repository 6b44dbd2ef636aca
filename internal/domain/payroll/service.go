package payroll

import "context"

// PayrollService defines the payroll run lifecycle. The acting user is read
// from the JWT claims in ctx.
type PayrollService interface {
	// CreateRun returns the run for the period, creating a draft when none exists.
	CreateRun(ctx context.Context, req CreateRunRequest) (RunResponse, error)

	// ProcessRun generates payslips for every active employee and completes the run.
	ProcessRun(ctx context.Context, id string) (RunResponse, error)

	// ApproveRun approves a completed run and all of its payslips.
	ApproveRun(ctx context.Context, id string) (RunResponse, error)

	CancelRun(ctx context.Context, id string) (RunResponse, error)

	// ResetRun moves a processing or completed run back to draft.
	ResetRun(ctx context.Context, id string) (RunResponse, error)

	UpdateRun(ctx context.Context, req UpdateRunRequest) (RunResponse, error)
	GetRun(ctx context.Context, id string) (RunResponse, error)
	ListRuns(ctx context.Context, filter RunFilter) (ListRunResponse, error)

	ListPayslips(ctx context.Context, runID string) ([]PayslipResponse, error)
	GetPayslip(ctx context.Context, id string) (PayslipResponse, error)
	ListEmployeePayslips(ctx context.Context, employeeID string) ([]PayslipResponse, error)

	// ExportRun renders a completed or approved run as an XLSX workbook.
	ExportRun(ctx context.Context, id string) (ExportFile, error)
}
