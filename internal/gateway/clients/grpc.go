package clients

import (
	"context"
	"fmt"
	"log"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"timeclock-system/config"
	"timeclock-system/internal/rpc"
)

// GRPCClients bundles the service clients used by the gateway. A nil client
// means its service could not be dialed and its routes answer 503.
type GRPCClients struct {
	Staff      rpc.StaffServiceClient
	Attendance rpc.AttendanceServiceClient
	Payroll    rpc.PayrollServiceClient

	attendanceConn   *grpc.ClientConn
	payrollConn      *grpc.ClientConn
	attendanceHealth healthpb.HealthClient
	payrollHealth    healthpb.HealthClient
}

func dial(addr string) (*grpc.ClientConn, error) {
	return grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
}

// NewGRPCClientsWithFallback dials every service. A service that cannot be
// dialed is left nil and reported in the returned error; the rest stay usable.
func NewGRPCClientsWithFallback(cfg config.ServicesConfig) (*GRPCClients, error) {
	clients := &GRPCClients{}
	var failed []string

	if conn, err := dial(cfg.AttendanceAddr); err != nil {
		log.Printf("⚠️ Attendance service connection failed: %v", err)
		failed = append(failed, "attendance")
	} else {
		clients.attendanceConn = conn
		clients.Staff = rpc.NewStaffServiceClient(conn)
		clients.Attendance = rpc.NewAttendanceServiceClient(conn)
		clients.attendanceHealth = healthpb.NewHealthClient(conn)
	}

	if conn, err := dial(cfg.PayrollAddr); err != nil {
		log.Printf("⚠️ Payroll service connection failed: %v", err)
		failed = append(failed, "payroll")
	} else {
		clients.payrollConn = conn
		clients.Payroll = rpc.NewPayrollServiceClient(conn)
		clients.payrollHealth = healthpb.NewHealthClient(conn)
	}

	if len(failed) > 0 {
		return clients, fmt.Errorf("unavailable services: %v", failed)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if !clients.IsAttendanceServiceHealthy(ctx) || !clients.IsPayrollServiceHealthy(ctx) {
		log.Println("⚠️ Some gRPC services are not serving yet")
	} else {
		log.Println("✅ Connected to all gRPC services")
	}
	return clients, nil
}

func serving(ctx context.Context, hc healthpb.HealthClient) bool {
	if hc == nil {
		return false
	}
	resp, err := hc.Check(ctx, &healthpb.HealthCheckRequest{})
	return err == nil && resp.GetStatus() == healthpb.HealthCheckResponse_SERVING
}

func (c *GRPCClients) IsAttendanceServiceHealthy(ctx context.Context) bool {
	return serving(ctx, c.attendanceHealth)
}

func (c *GRPCClients) IsPayrollServiceHealthy(ctx context.Context) bool {
	return serving(ctx, c.payrollHealth)
}

func (c *GRPCClients) Close() {
	if c.attendanceConn != nil {
		c.attendanceConn.Close()
	}
	if c.payrollConn != nil {
		c.payrollConn.Close()
	}
}
