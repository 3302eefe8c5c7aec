package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"timeclock-system/config"
	"timeclock-system/internal/gateway/clients"
	"timeclock-system/internal/gateway/handlers"
	"timeclock-system/internal/gateway/middleware"
)

func main() {
	cfg := config.LoadConfig()
	if err := cfg.RequireAuth(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	grpcClients, err := clients.NewGRPCClientsWithFallback(cfg.Services)
	if err != nil {
		log.Printf("Warning: Some gRPC services may be unavailable: %v", err)
	}
	defer grpcClients.Close()

	r, err := newRouter(cfg, grpcClients)
	if err != nil {
		log.Fatalf("Failed to build router: %v", err)
	}

	port := ":" + cfg.Gateway.Port
	log.Printf("Starting server on port %s", port)
	if err := r.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func newRouter(cfg config.Config, grpcClients *clients.GRPCClients) (*gin.Engine, error) {
	rateLimit, err := middleware.RateLimit(cfg.Gateway.RateLimit)
	if err != nil {
		return nil, err
	}

	r := gin.New()

	r.Use(middleware.CORS())
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(rateLimit)
	r.Use(serviceHealthMiddleware(grpcClients))

	secret := []byte(cfg.Auth.JWTSecret)
	authHandler := handlers.NewAuthHTTPHandler(cfg.Auth.AdminPIN, secret, cfg.Auth.TokenTTL)

	var staffHandler *handlers.StaffHTTPHandler
	if grpcClients.Staff != nil {
		staffHandler = handlers.NewStaffHTTPHandler(grpcClients.Staff)
	}

	var attendanceHandler *handlers.AttendanceHTTPHandler
	if grpcClients.Attendance != nil {
		attendanceHandler = handlers.NewAttendanceHTTPHandler(grpcClients.Attendance)
	}

	var payrollHandler *handlers.PayrollHTTPHandler
	if grpcClients.Payroll != nil {
		payrollHandler = handlers.NewPayrollHTTPHandler(grpcClients.Payroll)
	}

	// --- Public API Group ---
	public := r.Group("/api/v1")
	{
		public.POST("/auth/admin", authHandler.AdminLogin)

		clock := public.Group("/clock")
		cash := public.Group("/cash")
		if attendanceHandler != nil {
			clock.GET("/:employee_id/next", attendanceHandler.NextPunch)
			clock.POST("/punch", attendanceHandler.Punch)
			cash.POST("/advances", attendanceHandler.RecordAdvance)
		} else {
			clock.GET("/:employee_id/next", serviceUnavailableHandler("Attendance service"))
			clock.POST("/punch", serviceUnavailableHandler("Attendance service"))
			cash.POST("/advances", serviceUnavailableHandler("Attendance service"))
		}
	}

	// --- Admin API Group ---
	admin := r.Group("/api/v1")
	admin.Use(middleware.JWTAuth(secret))
	{
		branches := admin.Group("/branches")
		employees := admin.Group("/employees")
		if staffHandler != nil {
			branches.POST("", staffHandler.CreateBranch)
			branches.GET("", staffHandler.ListBranches)
			branches.PUT("/:id", staffHandler.UpdateBranch)

			employees.POST("", staffHandler.CreateEmployee)
			employees.GET("", staffHandler.ListEmployees)
			employees.GET("/:id", staffHandler.GetEmployee)
			employees.PUT("/:id", staffHandler.UpdateEmployee)
			employees.DELETE("/:id", staffHandler.DeactivateEmployee)
		} else {
			unavailable := serviceUnavailableHandler("Staff service")
			branches.Any("", unavailable)
			branches.Any("/:id", unavailable)
			employees.Any("", unavailable)
			employees.Any("/:id", unavailable)
		}

		attendance := admin.Group("/attendance")
		advances := admin.Group("/advances")
		if attendanceHandler != nil {
			attendance.GET("", attendanceHandler.ListAttendance)
			attendance.GET("/summary/:employee_id", attendanceHandler.AttendanceSummary)
			advances.GET("", attendanceHandler.ListAdvances)
		} else {
			attendance.GET("", serviceUnavailableHandler("Attendance service"))
			attendance.GET("/summary/:employee_id", serviceUnavailableHandler("Attendance service"))
			advances.GET("", serviceUnavailableHandler("Attendance service"))
		}

		drafts := admin.Group("/payroll/drafts")
		payrolls := admin.Group("/payrolls")
		if payrollHandler != nil {
			admin.POST("/payroll/calculate", payrollHandler.CalculatePayroll)
			drafts.GET("/:draft_id", payrollHandler.GetPayrollDraft)
			drafts.PUT("/:draft_id/deductions/:employee_id", payrollHandler.UpdateDeduction)
			drafts.POST("/:draft_id/confirm", payrollHandler.ConfirmPayroll)

			payrolls.GET("", payrollHandler.ListPayrolls)
			payrolls.GET("/:id", payrollHandler.GetPayroll)
			payrolls.POST("/:id/pay", payrollHandler.MarkPayrollPaid)
		} else {
			unavailable := serviceUnavailableHandler("Payroll service")
			admin.POST("/payroll/calculate", unavailable)
			drafts.Any("/:draft_id", unavailable)
			drafts.Any("/:draft_id/*action", unavailable)
			payrolls.Any("", unavailable)
			payrolls.Any("/:id", unavailable)
			payrolls.Any("/:id/pay", unavailable)
		}
	}

	r.GET("/health", healthCheckHandler(grpcClients))
	r.GET("/health/detailed", detailedHealthCheckHandler(grpcClients))

	return r, nil
}

func serviceUnavailableHandler(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"message": serviceName + " is currently unavailable",
			"error":   "SERVICE_UNAVAILABLE",
		})
	}
}

func availability(ok bool) string {
	if ok {
		return "available"
	}
	return "unavailable"
}

func serviceHealthMiddleware(clients *clients.GRPCClients) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Attendance-Service", availability(clients.Attendance != nil))
		c.Header("X-Payroll-Service", availability(clients.Payroll != nil))
		c.Next()
	}
}

func healthCheckHandler(clients *clients.GRPCClients) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "healthy"
		httpStatus := http.StatusOK

		unavailableServices := []string{}
		if clients.Attendance == nil {
			unavailableServices = append(unavailableServices, "attendance")
		}
		if clients.Payroll == nil {
			unavailableServices = append(unavailableServices, "payroll")
		}

		if len(unavailableServices) > 0 {
			status = "degraded"
			httpStatus = http.StatusPartialContent
		}

		c.JSON(httpStatus, gin.H{
			"status":               status,
			"message":              "Server is running",
			"unavailable_services": unavailableServices,
			"timestamp":            time.Now(),
		})
	}
}

func detailedHealthCheckHandler(clients *clients.GRPCClients) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		services := map[string]map[string]interface{}{
			"attendance": checkServiceHealth(clients.IsAttendanceServiceHealthy(ctx)),
			"payroll":    checkServiceHealth(clients.IsPayrollServiceHealthy(ctx)),
		}

		overallStatus := "healthy"
		for _, service := range services {
			if service["status"] != "healthy" {
				overallStatus = "degraded"
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"overall_status": overallStatus,
			"services":       services,
			"timestamp":      time.Now(),
		})
	}
}

func checkServiceHealth(isHealthy bool) map[string]interface{} {
	if !isHealthy {
		return map[string]interface{}{
			"status":  "unavailable",
			"message": "Service client not initialized or not serving",
		}
	}
	return map[string]interface{}{
		"status":  "healthy",
		"message": "Service is responding",
	}
}
