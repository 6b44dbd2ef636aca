package response

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/alimalikali/payrollx-server/internal/domain/auth"
	"github.com/alimalikali/payrollx-server/internal/domain/payroll"
	"github.com/alimalikali/payrollx-server/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var stateErr *payroll.InvalidStateError
	if errors.As(err, &stateErr) {
		expected := make([]string, 0, len(stateErr.Expected))
		for _, status := range stateErr.Expected {
			expected = append(expected, string(status))
		}
		InvalidState(w, stateErr.Error(), map[string]string{
			"expected": strings.Join(expected, ","),
			"actual":   string(stateErr.Actual),
		})
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or missing access token")
	case errors.Is(err, payroll.ErrMissingActor):
		Unauthorized(w, "Acting user could not be identified")
	case errors.Is(err, auth.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrRunNotFound):
		NotFound(w, "Payroll run not found")
	case errors.Is(err, payroll.ErrPayslipNotFound):
		NotFound(w, "Payslip not found")
	case errors.Is(err, payroll.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, payroll.ErrRunCancelled):
		Conflict(w, "Payroll run for this period was cancelled")
	case errors.Is(err, payroll.ErrRunAlreadyExists):
		Conflict(w, "Payroll run already exists for this period")
	case errors.Is(err, payroll.ErrPayslipExists):
		Conflict(w, "Payslip already exists for this employee")
	case errors.Is(err, payroll.ErrNothingToUpdate):
		BadRequest(w, "Nothing to update", nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
