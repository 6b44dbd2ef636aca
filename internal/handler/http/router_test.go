package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alimalikali/payrollx-server/internal/domain/employee"
	"github.com/alimalikali/payrollx-server/internal/domain/payroll"
	"github.com/alimalikali/payrollx-server/internal/domain/tax"
	"github.com/alimalikali/payrollx-server/internal/pkg/jwt"
	"github.com/alimalikali/payrollx-server/internal/pkg/metrics"
	"github.com/alimalikali/payrollx-server/internal/repository/memory"
	attendanceService "github.com/alimalikali/payrollx-server/internal/service/attendance"
	"github.com/alimalikali/payrollx-server/internal/service/calendar"
	payrollService "github.com/alimalikali/payrollx-server/internal/service/payroll"
	taxService "github.com/alimalikali/payrollx-server/internal/service/tax"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

type testServer struct {
	router http.Handler
	jwt    jwt.Service
	store  *memory.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := memory.NewStore()
	calc, err := taxService.NewCalculator(tax.DefaultConfig())
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New()
	rules := payroll.DefaultRules()

	svc := payrollService.NewPayrollService(payrollService.Dependencies{
		Transactor:   store,
		RunRepo:      memory.NewRunRepository(store),
		PayslipRepo:  memory.NewPayslipRepository(store),
		EmployeeRepo: memory.NewEmployeeRepository(store),
		Calendar:     calendar.NewResolver(memory.NewHolidayRepository(store), rules),
		Aggregator:   attendanceService.NewAggregator(memory.NewAttendanceRepository(store)),
		Calculator:   calc,
		Rules:        rules,
		Logger:       logger,
		Metrics:      m,
	})

	jwtSvc := jwt.NewJWTService(handlerTestSecret, time.Hour)
	router := NewRouter(RouterConfig{
		Logger:           logger,
		Metrics:          m,
		AllowedOrigins:   []string{"http://localhost:3000"},
		ProcessRateLimit: 100,
		IsDevelopment:    true,
	}, jwtSvc, NewPayrollHandler(svc), NewTaxHandler(calc))

	return &testServer{router: router, jwt: jwtSvc, store: store}
}

func (s *testServer) token(t *testing.T, isAdmin bool) string {
	t.Helper()
	token, _, err := s.jwt.GenerateAccessToken("user-1", isAdmin)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader).WithContext(context.Background())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
	Meta *struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		TotalItems int64 `json:"total_items"`
		TotalPages int   `json:"total_pages"`
	} `json:"meta"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func TestRouter_RequiresToken(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/payroll-runs", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/payroll-runs", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_MutationsRequireAdmin(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/payroll-runs", s.token(t, false), map[string]int{"month": 4, "year": 2024})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", decode(t, rec).Error.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/payroll-runs", s.token(t, false), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RunLifecycle(t *testing.T) {
	s := newTestServer(t)
	admin := s.token(t, true)

	s.store.AddEmployee(employee.Employee{EmployeeCode: "EMP-001", FullName: "Ayesha Khan", IsTaxFiler: true},
		&employee.SalaryStructure{BasicSalary: decimal.NewFromInt(150000)})

	rec := s.do(t, http.MethodPost, "/api/v1/payroll-runs", admin, map[string]int{"month": 4, "year": 2024})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var run payroll.RunResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &run))
	assert.Equal(t, "draft", run.Status)

	// Approving a draft is a state conflict.
	rec = s.do(t, http.MethodPost, "/api/v1/payroll-runs/"+run.ID+"/approve", admin, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	conflict := decode(t, rec)
	assert.Equal(t, "INVALID_STATE", conflict.Error.Code)
	assert.Contains(t, conflict.Error.Message, "expected status completed, got draft")
	assert.Equal(t, "draft", conflict.Error.Details["actual"])

	rec = s.do(t, http.MethodPost, "/api/v1/payroll-runs/"+run.ID+"/process", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &run))
	assert.Equal(t, "completed", run.Status)
	assert.Equal(t, 1, run.Totals.Employees)

	rec = s.do(t, http.MethodGet, "/api/v1/payroll-runs/"+run.ID+"/payslips", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var slips []payroll.PayslipResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &slips))
	require.Len(t, slips, 1)
	assert.Equal(t, "1,200,001 - 2,400,000", slips[0].TaxBracket)

	rec = s.do(t, http.MethodGet, "/api/v1/payroll-runs/"+run.ID+"/export", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "payroll-2024-04.xlsx")
	assert.NotEmpty(t, rec.Body.Bytes())

	rec = s.do(t, http.MethodPost, "/api/v1/payroll-runs/"+run.ID+"/approve", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/payroll-runs?year=2024", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(1), env.Meta.TotalItems)
	assert.Equal(t, 1, env.Meta.TotalPages)
}

func TestRouter_ErrorMapping(t *testing.T) {
	s := newTestServer(t)
	admin := s.token(t, true)

	rec := s.do(t, http.MethodPost, "/api/v1/payroll-runs", admin, map[string]int{"month": 13, "year": 2024})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode(t, rec).Error.Details, "month")

	rec = s.do(t, http.MethodGet, "/api/v1/payroll-runs/missing", admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/payroll-runs?year=abc", admin, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/employees/unknown/payslips", admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_TaxEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, false)

	rec := s.do(t, http.MethodPost, "/api/v1/tax/preview", token, map[string]interface{}{
		"gross_salary": 163393,
		"is_filer":     true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var preview tax.TaxPreviewResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &preview))
	assert.True(t, preview.IncomeTax.Equal(decimal.NewFromInt(9174)))
	assert.True(t, preview.NetSalary.Equal(decimal.NewFromInt(153974)))

	rec = s.do(t, http.MethodPost, "/api/v1/tax/preview", token, map[string]interface{}{"gross_salary": -1})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/tax/brackets?filer=false", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var table tax.BracketTableResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &table))
	assert.False(t, table.IsFiler)
	assert.Len(t, table.Brackets, 6)

	rec = s.do(t, http.MethodGet, "/api/v1/tax/brackets?filer=maybe", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_MetricsAndHeartbeat(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	s.do(t, http.MethodGet, "/api/v1/tax/brackets", s.token(t, false), nil)

	rec = s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "payrollx_http_requests_total")
}
