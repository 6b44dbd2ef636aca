package employee

import "context"

// EmployeeRepository is read-only; employee records are maintained elsewhere.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	// ListPayable returns active employees that have a current salary structure, ordered by employee code.
	ListPayable(ctx context.Context) ([]PayableEmployee, error)
}
