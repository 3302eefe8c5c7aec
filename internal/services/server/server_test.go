package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"timeclock-system/internal/repos"
	"timeclock-system/internal/rpc"
	"timeclock-system/internal/timeclock"
)

func TestToStatus(t *testing.T) {
	cases := []struct {
		err  error
		code codes.Code
	}{
		{&timeclock.ValidationError{Field: "amount", Message: "must be positive"}, codes.InvalidArgument},
		{fmt.Errorf("wrapped: %w", timeclock.ErrUnknownEmployee), codes.NotFound},
		{repos.ErrNotFound, codes.NotFound},
		{fmt.Errorf("%w: paid to confirmed", repos.ErrInvalidTransition), codes.FailedPrecondition},
		{timeclock.NewWriteError("insert payroll batch", errors.New("boom")), codes.Internal},
		{context.DeadlineExceeded, codes.DeadlineExceeded},
		{status.Error(codes.Aborted, "locked"), codes.Aborted},
	}
	for _, tc := range cases {
		if got := status.Code(ToStatus(tc.err, "do thing")); got != tc.code {
			t.Fatalf("%v: expected %s, got %s", tc.err, tc.code, got)
		}
	}
	if ToStatus(nil, "x") != nil {
		t.Fatalf("expected nil for nil error")
	}
}

func TestParseDateRange(t *testing.T) {
	start, end, err := ParseDateRange(&rpc.DateRange{StartDate: "2024-03-04", EndDate: "2024-03-10"}, true)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	f := RangeFilter(start, end, time.UTC)
	if f.To.Sub(f.From) != 7*24*time.Hour {
		t.Fatalf("expected a 7 day window, got %s", f.To.Sub(f.From))
	}

	if _, _, err := ParseDateRange(nil, true); !timeclock.IsValidation(err) {
		t.Fatalf("expected validation error for missing range, got %v", err)
	}
	if _, _, err := ParseDateRange(&rpc.DateRange{StartDate: "2024-03-10", EndDate: "2024-03-04"}, false); !timeclock.IsValidation(err) {
		t.Fatalf("expected validation error for reversed range, got %v", err)
	}
	if _, _, err := ParseDateRange(&rpc.DateRange{StartDate: "03/04/2024"}, false); !timeclock.IsValidation(err) {
		t.Fatalf("expected validation error for bad format, got %v", err)
	}
	if f := RangeFilter(timeclock.Date{}, timeclock.Date{}, time.UTC); !f.From.IsZero() || !f.To.IsZero() {
		t.Fatalf("expected open filter, got %+v", f)
	}
}

type branchOnlyStaff struct {
	rpc.StaffServiceServer
}

func (branchOnlyStaff) ListBranches(ctx context.Context, _ *rpc.ListBranchesRequest) (*rpc.ListBranchesResponse, error) {
	return &rpc.ListBranchesResponse{Branches: []*rpc.Branch{{Id: 1, Name: "Centro"}}}, nil
}

func (branchOnlyStaff) GetEmployee(ctx context.Context, req *rpc.GetEmployeeRequest) (*rpc.EmployeeResponse, error) {
	return nil, ToStatus(timeclock.ErrUnknownEmployee, "get employee")
}

func TestServerRoundTrip(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	s, _ := New(log.New(io.Discard, "", 0), rpc.StaffServiceName)
	rpc.RegisterStaffServiceServer(s, branchOnlyStaff{})
	go s.Serve(lis)
	defer s.Stop()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := rpc.NewStaffServiceClient(conn)
	resp, err := client.ListBranches(ctx, &rpc.ListBranchesRequest{})
	if err != nil {
		t.Fatalf("list branches: %v", err)
	}
	if len(resp.Branches) != 1 || resp.Branches[0].Name != "Centro" {
		t.Fatalf("unexpected branches %+v", resp.Branches)
	}

	if _, err := client.GetEmployee(ctx, &rpc.GetEmployeeRequest{Id: 9}); status.Code(err) != codes.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}

	hc, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: rpc.StaffServiceName})
	if err != nil || hc.Status != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("expected SERVING, got %v (%v)", hc, err)
	}
}
