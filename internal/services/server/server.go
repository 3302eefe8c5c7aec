// Package server holds the gRPC plumbing shared by the attendance and payroll
// services: error mapping, call logging and health reporting.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"timeclock-system/internal/repos"
	"timeclock-system/internal/rpc"
	"timeclock-system/internal/timeclock"
)

// ToStatus converts a domain or storage error into a gRPC status. what names
// the failed operation in Internal messages.
func ToStatus(err error, what string) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var v *timeclock.ValidationError
	switch {
	case errors.As(err, &v):
		return status.Error(codes.InvalidArgument, v.Error())
	case errors.Is(err, timeclock.ErrUnknownEmployee):
		return status.Error(codes.NotFound, "Employee not found")
	case errors.Is(err, repos.ErrNotFound):
		return status.Errorf(codes.NotFound, "%s: not found", what)
	case errors.Is(err, repos.ErrInvalidTransition):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Errorf(codes.DeadlineExceeded, "%s: timed out", what)
	case errors.Is(err, context.Canceled):
		return status.Errorf(codes.Canceled, "%s: canceled", what)
	}
	return status.Errorf(codes.Internal, "Failed to %s: %v", what, err)
}

// UnaryLogger logs every call with its duration and resulting code.
func UnaryLogger(lg *log.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		lg.Printf("%s %s %s", info.FullMethod, status.Code(err), time.Since(start).Round(time.Microsecond))
		return resp, err
	}
}

// New builds a server with logging, health and reflection registered. The
// returned health server starts with every service SERVING.
func New(lg *log.Logger, services ...string) (*grpc.Server, *health.Server) {
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(UnaryLogger(lg)))

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	for _, name := range services {
		hs.SetServingStatus(name, healthpb.HealthCheckResponse_SERVING)
	}
	healthpb.RegisterHealthServer(s, hs)
	reflection.Register(s)

	return s, hs
}

func Listen(port string) (net.Listener, error) {
	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return nil, fmt.Errorf("listen on :%s: %w", port, err)
	}
	return lis, nil
}

// ParseDateRange reads an inclusive date range. Missing bounds are errors only
// when required is set.
func ParseDateRange(r *rpc.DateRange, required bool) (timeclock.Date, timeclock.Date, error) {
	var start, end timeclock.Date
	if r == nil {
		r = &rpc.DateRange{}
	}
	if r.StartDate != "" {
		d, err := timeclock.ParseDate(r.StartDate)
		if err != nil {
			return start, end, &timeclock.ValidationError{Field: "start_date", Message: err.Error()}
		}
		start = d
	}
	if r.EndDate != "" {
		d, err := timeclock.ParseDate(r.EndDate)
		if err != nil {
			return start, end, &timeclock.ValidationError{Field: "end_date", Message: err.Error()}
		}
		end = d
	}
	if required && start.IsZero() {
		return start, end, &timeclock.ValidationError{Field: "start_date", Message: "is required"}
	}
	if required && end.IsZero() {
		return start, end, &timeclock.ValidationError{Field: "end_date", Message: "is required"}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return start, end, &timeclock.ValidationError{Field: "end_date", Message: fmt.Sprintf("%s is before start date %s", end, start)}
	}
	return start, end, nil
}

// RangeFilter turns an inclusive date range into a half-open instant filter in loc.
func RangeFilter(start, end timeclock.Date, loc *time.Location) repos.Filter {
	var f repos.Filter
	if !start.IsZero() {
		f.From = start.Start(loc)
	}
	if !end.IsZero() {
		f.To = end.AddDays(1).Start(loc)
	}
	return f
}
