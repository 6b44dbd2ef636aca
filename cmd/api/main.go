package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alimalikali/payrollx-server/internal/config"
	"github.com/alimalikali/payrollx-server/internal/domain/attendance"
	"github.com/alimalikali/payrollx-server/internal/domain/employee"
	"github.com/alimalikali/payrollx-server/internal/domain/holiday"
	"github.com/alimalikali/payrollx-server/internal/domain/payroll"
	"github.com/alimalikali/payrollx-server/internal/domain/tax"
	"github.com/alimalikali/payrollx-server/internal/fixtures"
	appHTTP "github.com/alimalikali/payrollx-server/internal/handler/http"
	"github.com/alimalikali/payrollx-server/internal/pkg/cache"
	"github.com/alimalikali/payrollx-server/internal/pkg/database"
	"github.com/alimalikali/payrollx-server/internal/pkg/jwt"
	"github.com/alimalikali/payrollx-server/internal/pkg/metrics"
	"github.com/alimalikali/payrollx-server/internal/repository/memory"
	"github.com/alimalikali/payrollx-server/internal/repository/postgresql"
	"github.com/alimalikali/payrollx-server/internal/repository/rediscache"
	attendanceService "github.com/alimalikali/payrollx-server/internal/service/attendance"
	"github.com/alimalikali/payrollx-server/internal/service/calendar"
	payrollService "github.com/alimalikali/payrollx-server/internal/service/payroll"
	taxService "github.com/alimalikali/payrollx-server/internal/service/tax"
	"github.com/go-chi/httplog/v3"
	"golang.org/x/sync/errgroup"
)

const version = "v1.0.0"

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rules, err := cfg.Payroll.Rules()
	if err != nil {
		return err
	}
	calculator, err := taxService.NewCalculator(tax.DefaultConfig())
	if err != nil {
		return fmt.Errorf("tax schedule: %w", err)
	}
	m := metrics.New()

	var (
		transactor   payroll.Transactor
		runRepo      payroll.RunRepository
		payslipRepo  payroll.PayslipRepository
		employeeRepo employee.EmployeeRepository
		attRepo      attendance.AttendanceRepository
		holidayRepo  holiday.HolidayRepository
	)

	switch cfg.App.Store {
	case config.StoreMemory:
		logger.Warn("using in-memory store; data is lost on restart")
		store := memory.NewStore()
		transactor = store
		runRepo = memory.NewRunRepository(store)
		payslipRepo = memory.NewPayslipRepository(store)
		employeeRepo = memory.NewEmployeeRepository(store)
		attRepo = memory.NewAttendanceRepository(store)
		holidayRepo = memory.NewHolidayRepository(store)

		if cfg.App.SeedDemo {
			now := time.Now().UTC()
			prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
			seeded := fixtures.SeedDemo(store, int(prev.Month()), prev.Year(), rules)
			logger.Info("demo data seeded",
				"month", seeded.Month,
				"year", seeded.Year,
				"employees", len(seeded.EmployeeIDs),
				"working_days", seeded.WorkingDays,
			)
		}
	default:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer db.Close()

		transactor = postgresql.NewTransactor(db)
		runRepo = postgresql.NewRunRepository(db)
		payslipRepo = postgresql.NewPayslipRepository(db)
		employeeRepo = postgresql.NewEmployeeRepository(db)
		attRepo = postgresql.NewAttendanceRepository(db)
		holidayRepo = postgresql.NewHolidayRepository(db)
	}

	if cfg.Redis.Addr != "" {
		client, err := cache.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			// Holidays are still read from the store without the cache.
			logger.Warn("redis unavailable, holiday cache disabled", "addr", cfg.Redis.Addr, "error", err)
		} else {
			defer func() {
				if err := client.Close(); err != nil {
					logger.Warn("redis close", "error", err)
				}
			}()
			holidayRepo = rediscache.NewHolidayRepository(holidayRepo, cache.NewCache(client, "payrollx:holidays", cfg.Redis.TTL, m))
		}
	}

	payrollSvc := payrollService.NewPayrollService(payrollService.Dependencies{
		Transactor:   transactor,
		RunRepo:      runRepo,
		PayslipRepo:  payslipRepo,
		EmployeeRepo: employeeRepo,
		Calendar:     calendar.NewResolver(holidayRepo, rules),
		Aggregator:   attendanceService.NewAggregator(attRepo),
		Calculator:   calculator,
		Rules:        rules,
		Logger:       logger,
		Metrics:      m,
	})

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		Logger:           logger,
		Metrics:          m,
		AllowedOrigins:   cfg.App.AllowedOrigins,
		ProcessRateLimit: cfg.App.ProcessRateLimit,
		IsDevelopment:    cfg.IsDevelopment(),
	}, JWTService, appHTTP.NewPayrollHandler(payrollSvc), appHTTP.NewTaxHandler(calculator))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server running", "addr", server.Addr, "store", cfg.App.Store, "version", version)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down server")
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.App.LogLevel))); err != nil {
		level = slog.LevelInfo
	}

	logFormat := httplog.SchemaECS.Concise(false)
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payrollx-server"),
		slog.String("version", version),
		slog.String("env", cfg.App.Env),
	)
}
