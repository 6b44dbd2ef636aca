package memory

import (
	"context"
	"slices"
	"sort"

	"github.com/alimalikali/payrollx-server/internal/domain/payroll"
)

// =============================================================================
// PAYROLL RUNS
// =============================================================================

type runRepository struct {
	s *Store
}

func NewRunRepository(s *Store) payroll.RunRepository {
	return &runRepository{s: s}
}

func (r *runRepository) Create(ctx context.Context, run payroll.PayrollRun) (payroll.PayrollRun, error) {
	defer r.s.lockWrite(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.runs {
		if existing.Month == run.Month && existing.Year == run.Year {
			return payroll.PayrollRun{}, payroll.ErrRunAlreadyExists
		}
	}

	if run.ID == "" {
		run.ID = newID()
	}
	now := r.s.now()
	run.CreatedAt, run.UpdatedAt = now, now
	r.s.runs[run.ID] = run
	return run, nil
}

func (r *runRepository) GetByID(_ context.Context, id string) (payroll.PayrollRun, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	run, ok := r.s.runs[id]
	if !ok {
		return payroll.PayrollRun{}, payroll.ErrRunNotFound
	}
	return run, nil
}

func (r *runRepository) GetByPeriod(_ context.Context, month, year int) (payroll.PayrollRun, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, run := range r.s.runs {
		if run.Month == month && run.Year == year {
			return run, nil
		}
	}
	return payroll.PayrollRun{}, payroll.ErrRunNotFound
}

func (r *runRepository) List(_ context.Context, filter payroll.RunFilter) ([]payroll.PayrollRun, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []payroll.PayrollRun
	for _, run := range r.s.runs {
		if filter.Year != nil && run.Year != *filter.Year {
			continue
		}
		if filter.Status != nil && string(run.Status) != *filter.Status {
			continue
		}
		matched = append(matched, run)
	}

	// Newest period first.
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Year != matched[j].Year {
			return matched[i].Year > matched[j].Year
		}
		return matched[i].Month > matched[j].Month
	})

	total := int64(len(matched))
	if filter.Limit <= 0 {
		return matched, total, nil
	}

	offset := filter.Offset()
	if offset >= len(matched) {
		return []payroll.PayrollRun{}, total, nil
	}
	end := min(offset+filter.Limit, len(matched))
	return matched[offset:end], total, nil
}

func (r *runRepository) TransitionStatus(ctx context.Context, change payroll.StatusChange) (payroll.PayrollRun, error) {
	defer r.s.lockWrite(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	run, ok := r.s.runs[change.RunID]
	if !ok {
		return payroll.PayrollRun{}, payroll.ErrRunNotFound
	}
	if run.Status != change.From {
		return payroll.PayrollRun{}, &payroll.InvalidStateError{
			Operation: change.Operation,
			Expected:  []payroll.RunStatus{change.From},
			Actual:    run.Status,
		}
	}

	run = change.Apply(run)
	r.s.runs[run.ID] = run
	return run, nil
}

func (r *runRepository) Update(ctx context.Context, upd payroll.RunUpdate, allowed []payroll.RunStatus) (payroll.PayrollRun, error) {
	defer r.s.lockWrite(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	run, ok := r.s.runs[upd.ID]
	if !ok {
		return payroll.PayrollRun{}, payroll.ErrRunNotFound
	}
	if !slices.Contains(allowed, run.Status) {
		return payroll.PayrollRun{}, &payroll.InvalidStateError{
			Operation: "update",
			Expected:  allowed,
			Actual:    run.Status,
		}
	}

	if upd.Notes != nil {
		notes := *upd.Notes
		run.Notes = &notes
	}
	if upd.PaymentDate != nil {
		date := *upd.PaymentDate
		run.PaymentDate = &date
	}
	run.UpdatedAt = r.s.now()
	r.s.runs[run.ID] = run
	return run, nil
}

// =============================================================================
// PAYSLIPS
// =============================================================================

type payslipRepository struct {
	s *Store
}

func NewPayslipRepository(s *Store) payroll.PayslipRepository {
	return &payslipRepository{s: s}
}

func (r *payslipRepository) Create(ctx context.Context, p payroll.Payslip) (payroll.Payslip, error) {
	defer r.s.lockWrite(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.payslips {
		if existing.PayrollRunID == p.PayrollRunID && existing.EmployeeID == p.EmployeeID {
			return payroll.Payslip{}, payroll.ErrPayslipExists
		}
	}

	if p.ID == "" {
		p.ID = newID()
	}
	p.CreatedAt = r.s.now()
	r.s.payslips[p.ID] = p
	return r.withEmployee(p), nil
}

func (r *payslipRepository) GetByID(_ context.Context, id string) (payroll.Payslip, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.payslips[id]
	if !ok {
		return payroll.Payslip{}, payroll.ErrPayslipNotFound
	}
	return r.withEmployee(p), nil
}

func (r *payslipRepository) ListByRun(_ context.Context, runID string) ([]payroll.Payslip, error) {
	return r.list(func(p payroll.Payslip) bool { return p.PayrollRunID == runID }), nil
}

func (r *payslipRepository) ListByEmployee(_ context.Context, employeeID string) ([]payroll.Payslip, error) {
	result := r.list(func(p payroll.Payslip) bool { return p.EmployeeID == employeeID })
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Year != result[j].Year {
			return result[i].Year > result[j].Year
		}
		return result[i].Month > result[j].Month
	})
	return result, nil
}

func (r *payslipRepository) DeleteByRun(ctx context.Context, runID string) (int64, error) {
	defer r.s.lockWrite(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, p := range r.s.payslips {
		if p.PayrollRunID == runID {
			delete(r.s.payslips, id)
			n++
		}
	}
	return n, nil
}

func (r *payslipRepository) ApproveByRun(ctx context.Context, runID string) (int64, error) {
	defer r.s.lockWrite(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, p := range r.s.payslips {
		if p.PayrollRunID == runID && p.Status != payroll.PayslipStatusApproved {
			p.Status = payroll.PayslipStatusApproved
			r.s.payslips[id] = p
			n++
		}
	}
	return n, nil
}

// list returns matching payslips ordered by employee code, then employee ID.
func (r *payslipRepository) list(match func(payroll.Payslip) bool) []payroll.Payslip {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := []payroll.Payslip{}
	for _, p := range r.s.payslips {
		if match(p) {
			result = append(result, r.withEmployee(p))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		ci, cj := deref(result[i].EmployeeCode), deref(result[j].EmployeeCode)
		if ci != cj {
			return ci < cj
		}
		return result[i].EmployeeID < result[j].EmployeeID
	})
	return result
}

// withEmployee fills the joined employee fields. Callers hold s.mu.
func (r *payslipRepository) withEmployee(p payroll.Payslip) payroll.Payslip {
	if e, ok := r.s.employees[p.EmployeeID]; ok {
		code, name := e.EmployeeCode, e.FullName
		p.EmployeeCode = &code
		p.EmployeeName = &name
	}
	return p
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
