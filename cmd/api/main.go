package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/arka-hr/payroll-backend-go/internal/config"
	appHTTP "github.com/arka-hr/payroll-backend-go/internal/handler/http"
	"github.com/arka-hr/payroll-backend-go/internal/pkg/cron"
	"github.com/arka-hr/payroll-backend-go/internal/pkg/database"
	"github.com/arka-hr/payroll-backend-go/internal/pkg/jwt"
	"github.com/arka-hr/payroll-backend-go/internal/pkg/workcal"
	"github.com/arka-hr/payroll-backend-go/internal/repository/postgresql"
	attendanceService "github.com/arka-hr/payroll-backend-go/internal/service/attendance"
	notificationService "github.com/arka-hr/payroll-backend-go/internal/service/notification"
	overtimeService "github.com/arka-hr/payroll-backend-go/internal/service/overtime"
	payrollService "github.com/arka-hr/payroll-backend-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn, database.PoolOptions{
		MaxConns: int32(cfg.Database.MaxConns),
		MinConns: int32(cfg.Database.MinConns),
	})
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	overtimeRepo := postgresql.NewOvertimeRequestRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	leaveRepo := postgresql.NewLeaveRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	rules := workcal.DefaultRules(cfg.App.Location)
	calculator := overtimeService.NewCalculator(rules)

	attendanceSvc := attendanceService.NewAttendanceService(rules, calculator, attendanceRepo, employeeRepo, leaveRepo)
	overtimeSvc := overtimeService.NewOvertimeService(rules, calculator, overtimeRepo, employeeRepo)
	payrollSvc := payrollService.NewPayrollService(db, rules, calculator, payrollRepo, employeeRepo, attendanceRepo, overtimeRepo, notificationRepo)
	notificationSvc := notificationService.NewNotificationService(notificationRepo)

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	overtimeHandler := appHTTP.NewOvertimeHandler(overtimeSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	notificationHandler := appHTTP.NewNotificationHandler(notificationSvc)

	router := appHTTP.NewRouter(
		JWTService,
		cfg.App.Env,
		attendanceHandler,
		overtimeHandler,
		payrollHandler,
		notificationHandler,
	)

	scheduler := cron.NewScheduler()
	if cfg.Payroll.AutoGenerate {
		payrollJobs := cron.NewPayrollJobs(payrollSvc, cfg.App.Location, cfg.Payroll.CheckInterval)
		payrollJobs.RegisterJobs(scheduler)
		scheduler.Start()
		defer scheduler.Stop()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	go func() {
		fmt.Printf("Server running at http://localhost%s\n", port)
		if err := http.ListenAndServe(port, router); err != nil {
			fmt.Println("Server error:", err)
			stop <- syscall.SIGTERM
		}
	}()

	<-stop
}
