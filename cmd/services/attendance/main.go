package main

import (
	"log"
	"os"

	"timeclock-system/config"
	"timeclock-system/internal/database"
	"timeclock-system/internal/repos"
	"timeclock-system/internal/rpc"
	attendance "timeclock-system/internal/services/attendance/handler"
	"timeclock-system/internal/services/server"
	staff "timeclock-system/internal/services/staff/handler"
)

func main() {
	cfg := config.LoadConfig()
	lg := log.New(os.Stdout, "[attendance] ", log.LstdFlags)

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("Failed to load timezone: %v", err)
	}

	db, err := database.NewConnection(cfg.DB.DSN)
	if err != nil {
		log.Fatalf("Failed to connect to db: %v", err)
	}

	if err := database.MigrateTimeclockDB(db); err != nil {
		log.Fatalf("Failed to migrate timeclock database: %v", err)
	}

	staffRepo := repos.NewStaffRepo(db, lg)
	attendanceRepo := repos.NewAttendanceRepo(db, lg)
	advanceRepo := repos.NewAdvanceRepo(db, lg)
	auditRepo := repos.NewAuditRepo(db, lg)

	lis, err := server.Listen(cfg.Services.AttendancePort)
	if err != nil {
		log.Fatalf("Failed to listen: %v", err)
	}

	s, _ := server.New(lg, rpc.StaffServiceName, rpc.AttendanceServiceName)

	rpc.RegisterStaffServiceServer(s, staff.NewStaffHandler(staffRepo, auditRepo, lg))
	rpc.RegisterAttendanceServiceServer(s, attendance.NewAttendanceHandler(attendanceRepo, advanceRepo, staffRepo, loc, lg))

	log.Printf(" ⏱️ Attendance service listening on :%s (day boundaries in %s)", cfg.Services.AttendancePort, loc)
	if err := s.Serve(lis); err != nil {
		log.Fatalf("Failed to serve: %v", err)
	}
}
