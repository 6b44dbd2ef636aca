package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/alimalikali/payrollx-server/internal/handler/http/middleware"
	"github.com/alimalikali/payrollx-server/internal/pkg/jwt"
	"github.com/alimalikali/payrollx-server/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/httprate"
	"github.com/go-chi/jwtauth/v5"
	"github.com/unrolled/secure"
)

type RouterConfig struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	AllowedOrigins []string
	// ProcessRateLimit is the number of process calls allowed per client per minute.
	ProcessRateLimit int
	IsDevelopment    bool
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, payrollHandler PayrollHandler, taxHandler TaxHandler) *chi.Mux {
	r := chi.NewRouter()

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		IsDevelopment:      cfg.IsDevelopment,
	}).Handler)

	r.Use(chiMiddleware.RequestID)
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))
	r.Use(cfg.Metrics.Middleware)

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())

	processLimit := cfg.ProcessRateLimit
	if processLimit <= 0 {
		processLimit = 10
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chiMiddleware.AllowContentType("application/json"))

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/payroll-runs", func(r chi.Router) {
				r.Get("/", payrollHandler.ListRuns)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", payrollHandler.GetRun)
					r.Get("/payslips", payrollHandler.ListRunPayslips)
					r.Get("/export", payrollHandler.ExportRun)

					// Admin only
					r.Group(func(r chi.Router) {
						r.Use(middleware.AdminOnly)
						r.Patch("/", payrollHandler.UpdateRun)
						r.With(httprate.LimitByIP(processLimit, time.Minute)).Post("/process", payrollHandler.ProcessRun)
						r.Post("/approve", payrollHandler.ApproveRun)
						r.Post("/cancel", payrollHandler.CancelRun)
						r.Post("/reset", payrollHandler.ResetRun)
					})
				})

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", payrollHandler.CreateRun)
				})
			})

			r.Get("/payslips/{id}", payrollHandler.GetPayslip)
			r.Get("/employees/{employeeId}/payslips", payrollHandler.ListEmployeePayslips)

			r.Route("/tax", func(r chi.Router) {
				r.Post("/preview", taxHandler.Preview)
				r.Get("/brackets", taxHandler.Brackets)
			})
		})
	})
	return r
}
