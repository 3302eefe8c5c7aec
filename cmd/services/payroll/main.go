package main

import (
	"log"
	"os"
	"time"

	"timeclock-system/config"
	"timeclock-system/internal/database"
	"timeclock-system/internal/repos"
	"timeclock-system/internal/rpc"
	"timeclock-system/internal/services/payroll/handler"
	"timeclock-system/internal/services/server"
)

const payrollCacheTTL = 10 * time.Minute

func main() {
	cfg := config.LoadConfig()
	lg := log.New(os.Stdout, "[payroll] ", log.LstdFlags)

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("Failed to load timezone: %v", err)
	}

	redisClient := config.NewRedisClient(cfg.Redis)
	defer redisClient.Close()

	db, err := database.NewConnection(cfg.DB.DSN)
	if err != nil {
		log.Fatalf("Failed to connect to db: %v", err)
	}

	if err := database.MigrateTimeclockDB(db); err != nil {
		log.Fatalf("Failed to migrate timeclock database: %v", err)
	}

	payrollHandler := handler.NewPayrollHandler(handler.Deps{
		Employees: repos.NewStaffRepo(db, lg),
		Records:   repos.NewAttendanceRepo(db, lg),
		Advances:  repos.NewAdvanceRepo(db, lg),
		Payrolls:  repos.NewPayrollRepo(db, lg),
		Drafts:    handler.NewRedisDraftStore(redisClient),
		Cache:     handler.NewRedisPayrollCache(redisClient, payrollCacheTTL),
		Audit:     repos.NewAuditRepo(db, lg),
	}, loc, cfg.Payroll.DraftTTL, lg)

	lis, err := server.Listen(cfg.Services.PayrollPort)
	if err != nil {
		log.Fatalf("Failed to listen: %v", err)
	}

	s, _ := server.New(lg, rpc.PayrollServiceName)
	rpc.RegisterPayrollServiceServer(s, payrollHandler)

	log.Printf(" 💰 Payroll service listening on :%s (drafts kept %s)", cfg.Services.PayrollPort, cfg.Payroll.DraftTTL)
	if err := s.Serve(lis); err != nil {
		log.Fatalf("Failed to serve: %v", err)
	}
}
