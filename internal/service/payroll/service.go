package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alimalikali/payrollx-server/internal/domain/attendance"
	"github.com/alimalikali/payrollx-server/internal/domain/employee"
	"github.com/alimalikali/payrollx-server/internal/domain/payroll"
	"github.com/alimalikali/payrollx-server/internal/domain/tax"
	"github.com/alimalikali/payrollx-server/internal/pkg/metrics"
	"github.com/go-chi/jwtauth/v5"
)

// WorkingCalendar resolves the number of payable days in a month.
type WorkingCalendar interface {
	WorkingDays(ctx context.Context, month, year int) (int, error)
}

type Dependencies struct {
	Transactor   payroll.Transactor
	RunRepo      payroll.RunRepository
	PayslipRepo  payroll.PayslipRepository
	EmployeeRepo employee.EmployeeRepository
	Calendar     WorkingCalendar
	Aggregator   attendance.Aggregator
	Calculator   tax.Calculator
	Rules        payroll.Rules
	Logger       *slog.Logger
	Metrics      *metrics.Metrics
}

var _ payroll.PayrollService = (*PayrollServiceImpl)(nil)

type PayrollServiceImpl struct {
	tx           payroll.Transactor
	runRepo      payroll.RunRepository
	payslipRepo  payroll.PayslipRepository
	employeeRepo employee.EmployeeRepository
	calendar     WorkingCalendar
	aggregator   attendance.Aggregator
	calculator   tax.Calculator
	rules        payroll.Rules
	logger       *slog.Logger
	metrics      *metrics.Metrics
	now          func() time.Time
}

func NewPayrollService(deps Dependencies) *PayrollServiceImpl {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PayrollServiceImpl{
		tx:           deps.Transactor,
		runRepo:      deps.RunRepo,
		payslipRepo:  deps.PayslipRepo,
		employeeRepo: deps.EmployeeRepo,
		calendar:     deps.Calendar,
		aggregator:   deps.Aggregator,
		calculator:   deps.Calculator,
		rules:        deps.Rules,
		logger:       logger,
		metrics:      deps.Metrics,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// WithNow overrides the clock used for audit timestamps.
func (s *PayrollServiceImpl) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Helper to get the acting user from JWT context
func actorFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", payroll.ErrMissingActor, err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", payroll.ErrMissingActor
	}
	return userID, nil
}

// transition applies a status CAS after checking the edge is part of the
// run lifecycle.
func (s *PayrollServiceImpl) transition(ctx context.Context, change payroll.StatusChange) (payroll.PayrollRun, error) {
	if !payroll.CanTransition(change.From, change.To) {
		return payroll.PayrollRun{}, fmt.Errorf("illegal payroll run transition %s -> %s", change.From, change.To)
	}
	if change.At.IsZero() {
		change.At = s.now()
	}
	return s.runRepo.TransitionStatus(ctx, change)
}

// ========== CREATE ==========

func (s *PayrollServiceImpl) CreateRun(ctx context.Context, req payroll.CreateRunRequest) (payroll.RunResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RunResponse{}, err
	}

	actor, err := actorFromContext(ctx)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	tracker := s.metrics.Track("create")
	run, err := s.createRun(ctx, req.Month, req.Year, actor)
	if err = tracker.End(err); err != nil {
		return payroll.RunResponse{}, err
	}

	return mapToRunResponse(run), nil
}

func (s *PayrollServiceImpl) createRun(ctx context.Context, month, year int, actor string) (payroll.PayrollRun, error) {
	existing, err := s.existingRun(ctx, month, year)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, payroll.ErrRunNotFound) {
		return payroll.PayrollRun{}, err
	}

	start, end := payroll.Period(month, year)
	created, err := s.runRepo.Create(ctx, payroll.PayrollRun{
		Month:                      month,
		Year:                       year,
		StartDate:                  start,
		EndDate:                    end,
		Status:                     payroll.RunStatusDraft,
		TotalGross:                 zero,
		TotalDeductions:            zero,
		TotalTax:                   zero,
		TotalNet:                   zero,
		TotalEmployerContributions: zero,
		CreatedBy:                  &actor,
	})
	if errors.Is(err, payroll.ErrRunAlreadyExists) {
		// Lost a concurrent create for the same period.
		return s.existingRun(ctx, month, year)
	}
	if err != nil {
		return payroll.PayrollRun{}, fmt.Errorf("failed to create payroll run: %w", err)
	}

	s.logger.InfoContext(ctx, "payroll run created", "run_id", created.ID, "month", month, "year", year, "actor", actor)
	return created, nil
}

func (s *PayrollServiceImpl) existingRun(ctx context.Context, month, year int) (payroll.PayrollRun, error) {
	run, err := s.runRepo.GetByPeriod(ctx, month, year)
	if err != nil {
		return payroll.PayrollRun{}, err
	}
	if run.Status == payroll.RunStatusCancelled {
		return payroll.PayrollRun{}, payroll.ErrRunCancelled
	}
	return run, nil
}

// ========== PROCESS ==========

func (s *PayrollServiceImpl) ProcessRun(ctx context.Context, id string) (payroll.RunResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	tracker := s.metrics.Track("process")
	var (
		completed payroll.PayrollRun
		replaced  int64
	)
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		completed, replaced, err = s.processRun(ctx, id, actor)
		return err
	})
	if err = tracker.End(err); err != nil {
		s.logger.ErrorContext(ctx, "payroll run processing failed", "run_id", id, "error", err)
		return payroll.RunResponse{}, err
	}

	s.metrics.AddPayslips(completed.TotalEmployees)
	s.logger.InfoContext(ctx, "payroll run processed",
		"run_id", completed.ID,
		"employees", completed.TotalEmployees,
		"replaced_payslips", replaced,
		"total_gross", completed.TotalGross.String(),
		"total_net", completed.TotalNet.String(),
		"actor", actor,
	)
	return mapToRunResponse(completed), nil
}

// processRun runs inside the caller's transaction.
func (s *PayrollServiceImpl) processRun(ctx context.Context, id, actor string) (payroll.PayrollRun, int64, error) {
	run, err := s.transition(ctx, payroll.StatusChange{
		RunID:     id,
		Operation: "process",
		From:      payroll.RunStatusDraft,
		To:        payroll.RunStatusProcessing,
		Actor:     &actor,
	})
	if err != nil {
		return payroll.PayrollRun{}, 0, err
	}

	workingDays, err := s.calendar.WorkingDays(ctx, run.Month, run.Year)
	if err != nil {
		return payroll.PayrollRun{}, 0, fmt.Errorf("failed to resolve working days: %w", err)
	}

	employees, err := s.employeeRepo.ListPayable(ctx)
	if err != nil {
		return payroll.PayrollRun{}, 0, fmt.Errorf("failed to list payable employees: %w", err)
	}

	replaced, err := s.payslipRepo.DeleteByRun(ctx, run.ID)
	if err != nil {
		return payroll.PayrollRun{}, 0, fmt.Errorf("failed to discard previous payslips: %w", err)
	}

	totals := payroll.RunTotals{}
	for _, emp := range employees {
		summary, err := s.aggregator.Aggregate(ctx, emp.ID, run.StartDate, run.EndDate)
		if err != nil {
			return payroll.PayrollRun{}, 0, err
		}

		slip, err := s.buildPayslip(run, emp, workingDays, summary)
		if err != nil {
			return payroll.PayrollRun{}, 0, fmt.Errorf("failed to compute payslip for employee %s: %w", emp.ID, err)
		}

		created, err := s.payslipRepo.Create(ctx, slip)
		if err != nil {
			return payroll.PayrollRun{}, 0, fmt.Errorf("failed to create payslip for employee %s: %w", emp.ID, err)
		}
		totals.Add(created)
	}

	completed, err := s.transition(ctx, payroll.StatusChange{
		RunID:     run.ID,
		Operation: "complete",
		From:      payroll.RunStatusProcessing,
		To:        payroll.RunStatusCompleted,
		Actor:     &actor,
		Totals:    &totals,
	})
	if err != nil {
		return payroll.PayrollRun{}, 0, err
	}
	return completed, replaced, nil
}

// ========== APPROVE / CANCEL / RESET ==========

func (s *PayrollServiceImpl) ApproveRun(ctx context.Context, id string) (payroll.RunResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	tracker := s.metrics.Track("approve")
	var (
		approved payroll.PayrollRun
		slips    int64
	)
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		approved, err = s.transition(ctx, payroll.StatusChange{
			RunID:     id,
			Operation: "approve",
			From:      payroll.RunStatusCompleted,
			To:        payroll.RunStatusApproved,
			Actor:     &actor,
		})
		if err != nil {
			return err
		}

		slips, err = s.payslipRepo.ApproveByRun(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to approve payslips: %w", err)
		}
		return nil
	})
	if err = tracker.End(err); err != nil {
		return payroll.RunResponse{}, err
	}

	s.logger.InfoContext(ctx, "payroll run approved", "run_id", id, "payslips", slips, "actor", actor)
	return mapToRunResponse(approved), nil
}

func (s *PayrollServiceImpl) CancelRun(ctx context.Context, id string) (payroll.RunResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	tracker := s.metrics.Track("cancel")
	cancelled, err := s.transition(ctx, payroll.StatusChange{
		RunID:     id,
		Operation: "cancel",
		From:      payroll.RunStatusDraft,
		To:        payroll.RunStatusCancelled,
		Actor:     &actor,
	})
	if err = tracker.End(err); err != nil {
		return payroll.RunResponse{}, err
	}

	s.logger.InfoContext(ctx, "payroll run cancelled", "run_id", id, "actor", actor)
	return mapToRunResponse(cancelled), nil
}

func (s *PayrollServiceImpl) ResetRun(ctx context.Context, id string) (payroll.RunResponse, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return payroll.RunResponse{}, err
	}

	run, err := s.runRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	if !payroll.CanTransition(run.Status, payroll.RunStatusDraft) {
		return payroll.RunResponse{}, &payroll.InvalidStateError{
			Operation: "reset",
			Expected:  []payroll.RunStatus{payroll.RunStatusProcessing, payroll.RunStatusCompleted},
			Actual:    run.Status,
		}
	}

	tracker := s.metrics.Track("reset")
	reset, err := s.transition(ctx, payroll.StatusChange{
		RunID:     id,
		Operation: "reset",
		From:      run.Status,
		To:        payroll.RunStatusDraft,
		Actor:     &actor,
	})
	if err = tracker.End(err); err != nil {
		return payroll.RunResponse{}, err
	}

	s.logger.WarnContext(ctx, "payroll run reset to draft", "run_id", id, "from", run.Status, "actor", actor)
	return mapToRunResponse(reset), nil
}

// ========== UPDATE ==========

var updatableStatuses = []payroll.RunStatus{payroll.RunStatusDraft, payroll.RunStatusCompleted}

func (s *PayrollServiceImpl) UpdateRun(ctx context.Context, req payroll.UpdateRunRequest) (payroll.RunResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RunResponse{}, err
	}

	upd := payroll.RunUpdate{ID: req.ID, Notes: req.Notes}
	if req.PaymentDate != nil {
		date, err := time.Parse("2006-01-02", *req.PaymentDate)
		if err != nil {
			return payroll.RunResponse{}, fmt.Errorf("failed to parse payment_date: %w", err)
		}
		upd.PaymentDate = &date
	}

	run, err := s.runRepo.Update(ctx, upd, updatableStatuses)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	return mapToRunResponse(run), nil
}

// ========== QUERIES ==========

func (s *PayrollServiceImpl) GetRun(ctx context.Context, id string) (payroll.RunResponse, error) {
	run, err := s.runRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	return mapToRunResponse(run), nil
}

func (s *PayrollServiceImpl) ListRuns(ctx context.Context, filter payroll.RunFilter) (payroll.ListRunResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListRunResponse{}, err
	}

	runs, totalCount, err := s.runRepo.List(ctx, filter)
	if err != nil {
		return payroll.ListRunResponse{}, err
	}

	return payroll.ListRunResponse{
		Data:       mapToRunResponses(runs),
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

func (s *PayrollServiceImpl) ListPayslips(ctx context.Context, runID string) ([]payroll.PayslipResponse, error) {
	if _, err := s.runRepo.GetByID(ctx, runID); err != nil {
		return nil, err
	}

	slips, err := s.payslipRepo.ListByRun(ctx, runID)
	if err != nil {
		return nil, err
	}
	return mapToPayslipResponses(slips), nil
}

func (s *PayrollServiceImpl) GetPayslip(ctx context.Context, id string) (payroll.PayslipResponse, error) {
	slip, err := s.payslipRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}
	return mapToPayslipResponse(slip), nil
}

func (s *PayrollServiceImpl) ListEmployeePayslips(ctx context.Context, employeeID string) ([]payroll.PayslipResponse, error) {
	exists, err := s.employeeRepo.ExistsByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, payroll.ErrEmployeeNotFound
	}

	slips, err := s.payslipRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToPayslipResponses(slips), nil
}

// ========== EXPORT ==========

var exportableStatuses = []payroll.RunStatus{payroll.RunStatusCompleted, payroll.RunStatusApproved}

func (s *PayrollServiceImpl) ExportRun(ctx context.Context, id string) (payroll.ExportFile, error) {
	run, err := s.runRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.ExportFile{}, err
	}
	if run.Status != payroll.RunStatusCompleted && run.Status != payroll.RunStatusApproved {
		return payroll.ExportFile{}, &payroll.InvalidStateError{
			Operation: "export",
			Expected:  exportableStatuses,
			Actual:    run.Status,
		}
	}

	slips, err := s.payslipRepo.ListByRun(ctx, id)
	if err != nil {
		return payroll.ExportFile{}, err
	}

	data, err := renderWorkbook(run, slips)
	if err != nil {
		return payroll.ExportFile{}, fmt.Errorf("failed to render payroll workbook: %w", err)
	}

	return payroll.ExportFile{
		Filename:    fmt.Sprintf("payroll-%04d-%02d.xlsx", run.Year, run.Month),
		ContentType: xlsxContentType,
		Data:        data,
	}, nil
}
