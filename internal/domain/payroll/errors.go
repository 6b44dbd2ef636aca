package payroll

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRunNotFound      = errors.New("payroll run not found")
	ErrPayslipNotFound  = errors.New("payslip not found")
	ErrPayslipExists    = errors.New("payslip already exists for this employee in the run")
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrRunAlreadyExists = errors.New("payroll run already exists for this period")
	ErrRunCancelled     = errors.New("payroll run for this period is cancelled")
	ErrInvalidState     = errors.New("payroll run is not in a valid state for this operation")
	ErrInvalidRules     = errors.New("invalid payroll rules")
	ErrMissingActor     = errors.New("acting user is missing from the request")
	ErrNothingToUpdate  = errors.New("no fields to update")
)

// InvalidStateError names the status an operation expected and the status
// the run actually had.
type InvalidStateError struct {
	Operation string
	Expected  []RunStatus
	Actual    RunStatus
}

func (e *InvalidStateError) Error() string {
	expected := make([]string, 0, len(e.Expected))
	for _, s := range e.Expected {
		expected = append(expected, string(s))
	}
	op := e.Operation
	if op == "" {
		op = "change"
	}
	return fmt.Sprintf("cannot %s payroll run: expected status %s, got %s", op, strings.Join(expected, " or "), e.Actual)
}

func (e *InvalidStateError) Unwrap() error {
	return ErrInvalidState
}
