package http

import (
	"log/slog"
	"os"

	"github.com/arka-hr/payroll-backend-go/internal/handler/http/middleware"
	"github.com/arka-hr/payroll-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	JWTService jwt.Service,
	env string,
	attendanceHandler AttendanceHandler,
	overtimeHandler OvertimeHandler,
	payrollHandler PayrollHandler,
	notificationHandler NotificationHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "arka-payroll"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Route("/attendances", func(r chi.Router) {
				r.Post("/check-in", attendanceHandler.CheckIn)
				r.Post("/check-out", attendanceHandler.CheckOut)
				r.Get("/my", attendanceHandler.GetMyAttendance)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", attendanceHandler.List)
					r.Post("/backfill", attendanceHandler.Backfill)
					r.Get("/{id}", attendanceHandler.Get)
					r.Post("/{id}/approve", attendanceHandler.Approve)
					r.Post("/{id}/reject", attendanceHandler.Reject)
				})
			})

			r.Route("/overtime-requests", func(r chi.Router) {
				r.Post("/", overtimeHandler.Submit)
				r.Get("/my", overtimeHandler.ListMine)
				r.Post("/estimate", overtimeHandler.Estimate)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", overtimeHandler.List)
					r.Get("/{id}", overtimeHandler.Get)
					r.Post("/{id}/approve", overtimeHandler.Approve)
					r.Post("/{id}/reject", overtimeHandler.Reject)
				})
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/my", notificationHandler.ListMine)
			})

			r.Route("/payrolls", func(r chi.Router) {
				r.Get("/my", payrollHandler.ListMine)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/generate", payrollHandler.Generate)
					r.Post("/generate-all", payrollHandler.GenerateAll)
					r.Get("/", payrollHandler.List)
					r.Get("/deductions", payrollHandler.ListDeductions)
					r.Get("/{id}", payrollHandler.Get)
					r.Post("/{id}/mark-paid", payrollHandler.MarkPaid)
				})
			})
		})
	})
	return r
}
