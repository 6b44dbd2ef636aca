package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alimalikali/payrollx-server/internal/domain/payroll"
	"github.com/alimalikali/payrollx-server/internal/pkg/database"
	"github.com/alimalikali/payrollx-server/internal/pkg/validator"
	"github.com/jackc/pgx/v5"
)

const runColumns = `
	id, month, year, start_date, end_date, status,
	total_employees, total_gross, total_deductions, total_tax, total_net, total_employer_contributions,
	payment_date, notes, created_by, processed_by, processed_at, approved_by, approved_at,
	created_at, updated_at
`

type runRepository struct {
	db *database.DB
}

func NewRunRepository(db *database.DB) payroll.RunRepository {
	return &runRepository{db: db}
}

func scanRun(row pgx.Row) (payroll.PayrollRun, error) {
	var r payroll.PayrollRun
	err := row.Scan(
		&r.ID, &r.Month, &r.Year, &r.StartDate, &r.EndDate, &r.Status,
		&r.TotalEmployees, &r.TotalGross, &r.TotalDeductions, &r.TotalTax, &r.TotalNet, &r.TotalEmployerContributions,
		&r.PaymentDate, &r.Notes, &r.CreatedBy, &r.ProcessedBy, &r.ProcessedAt, &r.ApprovedBy, &r.ApprovedAt,
		&r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

func (r *runRepository) Create(ctx context.Context, run payroll.PayrollRun) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_runs (
			month, year, start_date, end_date, status,
			total_employees, total_gross, total_deductions, total_tax, total_net, total_employer_contributions,
			payment_date, notes, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + runColumns

	created, err := scanRun(q.QueryRow(ctx, query,
		run.Month, run.Year, run.StartDate, run.EndDate, run.Status,
		run.TotalEmployees, run.TotalGross, run.TotalDeductions, run.TotalTax, run.TotalNet, run.TotalEmployerContributions,
		run.PaymentDate, run.Notes, run.CreatedBy,
	))
	if err != nil {
		if isUniqueViolation(err, "uk_payroll_runs_period") {
			return payroll.PayrollRun{}, payroll.ErrRunAlreadyExists
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to create payroll run: %w", err)
	}

	return created, nil
}

func (r *runRepository) GetByID(ctx context.Context, id string) (payroll.PayrollRun, error) {
	if !validator.IsValidUUID(id) {
		return payroll.PayrollRun{}, payroll.ErrRunNotFound
	}
	q := GetQuerier(ctx, r.db)

	run, err := scanRun(q.QueryRow(ctx, `SELECT `+runColumns+` FROM payroll_runs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRun{}, payroll.ErrRunNotFound
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to get payroll run: %w", err)
	}

	return run, nil
}

func (r *runRepository) GetByPeriod(ctx context.Context, month, year int) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	run, err := scanRun(q.QueryRow(ctx, `SELECT `+runColumns+` FROM payroll_runs WHERE month = $1 AND year = $2`, month, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRun{}, payroll.ErrRunNotFound
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to get payroll run by period: %w", err)
	}

	return run, nil
}

func (r *runRepository) List(ctx context.Context, filter payroll.RunFilter) ([]payroll.PayrollRun, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := ` FROM payroll_runs WHERE 1 = 1`
	args := []interface{}{}
	argIdx := 1

	if filter.Year != nil {
		baseQuery += fmt.Sprintf(" AND year = $%d", argIdx)
		args = append(args, *filter.Year)
		argIdx++
	}
	if filter.Status != nil {
		baseQuery += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	// Count query
	var totalCount int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*)"+baseQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll runs: %w", err)
	}

	// Pagination
	if filter.Limit <= 0 {
		filter.Limit = payroll.DefaultLimit
	}
	if filter.Page <= 0 {
		filter.Page = payroll.DefaultPage
	}

	selectQuery := fmt.Sprintf(`SELECT %s %s ORDER BY year DESC, month DESC LIMIT $%d OFFSET $%d`,
		runColumns, baseQuery, argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll runs: %w", err)
	}
	defer rows.Close()

	runs := []payroll.PayrollRun{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate payroll runs: %w", err)
	}

	return runs, totalCount, nil
}

// TransitionStatus updates the run only while its status still equals
// change.From, so two callers racing on the same edge cannot both win.
func (r *runRepository) TransitionStatus(ctx context.Context, change payroll.StatusChange) (payroll.PayrollRun, error) {
	if !validator.IsValidUUID(change.RunID) {
		return payroll.PayrollRun{}, payroll.ErrRunNotFound
	}
	q := GetQuerier(ctx, r.db)

	setParts := []string{"status = $3", "updated_at = $4"}
	args := []interface{}{change.RunID, change.From, change.To, change.At}
	argIdx := 5

	set := func(column string, value interface{}) {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	totals := change.Totals
	switch change.To {
	case payroll.RunStatusCompleted:
		set("processed_by", change.Actor)
		set("processed_at", change.At)
	case payroll.RunStatusApproved:
		set("approved_by", change.Actor)
		set("approved_at", change.At)
	case payroll.RunStatusDraft:
		setParts = append(setParts, "processed_by = NULL", "processed_at = NULL")
		totals = &payroll.RunTotals{}
	}
	if totals != nil {
		set("total_employees", totals.Employees)
		set("total_gross", totals.Gross)
		set("total_deductions", totals.Deductions)
		set("total_tax", totals.Tax)
		set("total_net", totals.Net)
		set("total_employer_contributions", totals.EmployerContributions)
	}

	query := fmt.Sprintf(`UPDATE payroll_runs SET %s WHERE id = $1 AND status = $2 RETURNING %s`,
		strings.Join(setParts, ", "), runColumns)

	run, err := scanRun(q.QueryRow(ctx, query, args...))
	if err == nil {
		return run, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return payroll.PayrollRun{}, fmt.Errorf("failed to %s payroll run: %w", change.Operation, err)
	}

	current, err := r.GetByID(ctx, change.RunID)
	if err != nil {
		return payroll.PayrollRun{}, err
	}
	return payroll.PayrollRun{}, &payroll.InvalidStateError{
		Operation: change.Operation,
		Expected:  []payroll.RunStatus{change.From},
		Actual:    current.Status,
	}
}

func (r *runRepository) Update(ctx context.Context, upd payroll.RunUpdate, allowed []payroll.RunStatus) (payroll.PayrollRun, error) {
	if !validator.IsValidUUID(upd.ID) {
		return payroll.PayrollRun{}, payroll.ErrRunNotFound
	}
	q := GetQuerier(ctx, r.db)

	statuses := make([]string, 0, len(allowed))
	for _, s := range allowed {
		statuses = append(statuses, string(s))
	}

	setParts := []string{"updated_at = NOW()"}
	args := []interface{}{upd.ID, statuses}
	argIdx := 3

	if upd.Notes != nil {
		setParts = append(setParts, fmt.Sprintf("notes = $%d", argIdx))
		args = append(args, *upd.Notes)
		argIdx++
	}
	if upd.PaymentDate != nil {
		setParts = append(setParts, fmt.Sprintf("payment_date = $%d", argIdx))
		args = append(args, *upd.PaymentDate)
		argIdx++
	}
	if len(setParts) == 1 {
		return payroll.PayrollRun{}, payroll.ErrNothingToUpdate
	}

	query := fmt.Sprintf(`UPDATE payroll_runs SET %s WHERE id = $1 AND status = ANY($2) RETURNING %s`,
		strings.Join(setParts, ", "), runColumns)

	run, err := scanRun(q.QueryRow(ctx, query, args...))
	if err == nil {
		return run, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return payroll.PayrollRun{}, fmt.Errorf("failed to update payroll run: %w", err)
	}

	current, err := r.GetByID(ctx, upd.ID)
	if err != nil {
		return payroll.PayrollRun{}, err
	}
	return payroll.PayrollRun{}, &payroll.InvalidStateError{
		Operation: "update",
		Expected:  allowed,
		Actual:    current.Status,
	}
}
