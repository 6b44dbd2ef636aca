package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/alimalikali/payrollx-server/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSetup wraps the integration database.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the schema. The
// test is skipped when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolConfig{MaxConns: 5, MinConns: 1})
	require.NoError(t, err, "failed to connect to test database")

	schema, err := os.ReadFile(filepath.Join("..", "..", "..", "..", "migrations", "001_payroll_engine.sql"))
	require.NoError(t, err)
	_, err = db.Exec(ctx, string(schema))
	require.NoError(t, err, "failed to apply schema")

	setup := &TestDatabaseSetup{DB: db}
	require.NoError(t, setup.TruncateAllTables(ctx))
	t.Cleanup(setup.Close)
	return setup
}

// TruncateAllTables removes all rows from the payroll tables.
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"payslips",
		"payroll_runs",
		"attendances",
		"holidays",
		"salary_structures",
		"employees",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// Close closes the pool.
func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}

// createEmployee inserts an employee with a current salary structure and
// returns its id.
func (t *TestDatabaseSetup) createEmployee(tb testing.TB, code string, status string, basic int64) string {
	tb.Helper()
	ctx := context.Background()

	var id string
	err := t.DB.QueryRow(ctx, `
		INSERT INTO employees (employee_code, full_name, employment_status, is_tax_filer)
		VALUES ($1, $2, $3, TRUE)
		RETURNING id
	`, code, "Employee "+code, status).Scan(&id)
	require.NoError(tb, err)

	_, err = t.DB.Exec(ctx, `
		INSERT INTO salary_structures (employee_id, basic_salary, effective_from, is_current)
		VALUES ($1, $2, DATE '2023-01-01', TRUE)
	`, id, basic)
	require.NoError(tb, err)

	return id
}
