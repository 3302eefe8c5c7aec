package clients

import (
	"context"
	"testing"
	"time"

	"timeclock-system/config"
)

func TestClientsReportUnreachableServices(t *testing.T) {
	clients, err := NewGRPCClientsWithFallback(config.ServicesConfig{
		AttendanceAddr: "127.0.0.1:1",
		PayrollAddr:    "127.0.0.1:1",
	})
	if err != nil {
		t.Fatalf("dial is lazy and must not fail: %v", err)
	}
	defer clients.Close()

	if clients.Staff == nil || clients.Attendance == nil || clients.Payroll == nil {
		t.Fatalf("expected every client to be constructed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if clients.IsAttendanceServiceHealthy(ctx) || clients.IsPayrollServiceHealthy(ctx) {
		t.Fatalf("expected unreachable services to be unhealthy")
	}

	var empty GRPCClients
	if empty.IsPayrollServiceHealthy(ctx) {
		t.Fatalf("expected a nil health client to be unhealthy")
	}
	empty.Close()
}
