package handler

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"timeclock-system/internal/database/models"
	"timeclock-system/internal/repos"
	"timeclock-system/internal/rpc"
	"timeclock-system/internal/services/server"
	staff "timeclock-system/internal/services/staff/handler"
	"timeclock-system/internal/timeclock"
)

var errInactiveEmployee = errors.New("employee is inactive")

type RecordStore interface {
	AppendPunch(ctx context.Context, employeeID int64, at time.Time, decide repos.PunchDecider) (*models.AttendanceRecord, error)
	LastRecord(ctx context.Context, employeeID int64) (*timeclock.Record, error)
	List(ctx context.Context, f repos.Filter) ([]models.AttendanceRecord, int64, error)
	ForEmployees(ctx context.Context, employeeIDs []int64, from, to time.Time) (map[int64][]timeclock.Record, error)
}

type AdvanceStore interface {
	Create(ctx context.Context, a *models.SalaryAdvance) error
	List(ctx context.Context, f repos.Filter) ([]models.SalaryAdvance, int64, decimal.Decimal, error)
}

type EmployeeLookup interface {
	GetEmployee(ctx context.Context, id int64) (*models.Employee, error)
}

type AttendanceHandler struct {
	records   RecordStore
	advances  AdvanceStore
	employees EmployeeLookup
	loc       *time.Location
	now       func() time.Time
	lg        *log.Logger
}

// NewAttendanceHandler evaluates day boundaries in loc.
func NewAttendanceHandler(records RecordStore, advances AdvanceStore, employees EmployeeLookup, loc *time.Location, lg *log.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		records:   records,
		advances:  advances,
		employees: employees,
		loc:       loc,
		now:       time.Now,
		lg:        lg,
	}
}

func (h *AttendanceHandler) activeEmployee(ctx context.Context, id int64) (*models.Employee, error) {
	if id <= 0 {
		return nil, status.Error(codes.InvalidArgument, "Employee ID is required")
	}
	emp, err := h.employees.GetEmployee(ctx, id)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return nil, server.ToStatus(timeclock.ErrUnknownEmployee, "get employee")
		}
		return nil, server.ToStatus(err, "get employee")
	}
	if !emp.IsActive {
		return nil, status.Errorf(codes.FailedPrecondition, "Employee %d is inactive", id)
	}
	return emp, nil
}

// --- Punches ---

func (h *AttendanceHandler) GetNextPunch(ctx context.Context, req *rpc.GetNextPunchRequest) (*rpc.GetNextPunchResponse, error) {
	emp, err := h.activeEmployee(ctx, req.EmployeeId)
	if err != nil {
		return nil, err
	}
	last, err := h.records.LastRecord(ctx, emp.ID)
	if err != nil {
		return nil, server.ToStatus(err, "get last punch")
	}

	state := timeclock.EvaluatePunch(last, h.now(), h.loc)
	if state.Anomaly != nil {
		h.lg.Printf("employee %d: %s on %s", emp.ID, state.Anomaly.Description, state.Anomaly.Date)
	}

	resp := &rpc.GetNextPunchResponse{Employee: staff.EmployeeToRPC(*emp), State: &state}
	if last != nil {
		resp.LastRecord = recordToRPC(*last, emp.Name)
	}
	return resp, nil
}

// RecordPunch appends the next punch. An empty record type takes the default
// successor; an explicit one must be legal right now.
func (h *AttendanceHandler) RecordPunch(ctx context.Context, req *rpc.RecordPunchRequest) (*rpc.RecordPunchResponse, error) {
	if req.EmployeeId <= 0 {
		return nil, status.Error(codes.InvalidArgument, "Employee ID is required")
	}
	chosen := timeclock.RecordType(strings.TrimSpace(req.RecordType))
	now := h.now()

	row, err := h.records.AppendPunch(ctx, req.EmployeeId, now, func(emp timeclock.Employee, last *timeclock.Record) (timeclock.RecordType, error) {
		if !emp.IsActive {
			return "", errInactiveEmployee
		}
		return timeclock.ResolvePunch(last, chosen, now, h.loc)
	})
	if err != nil {
		if errors.Is(err, errInactiveEmployee) {
			return nil, status.Errorf(codes.FailedPrecondition, "Employee %d is inactive", req.EmployeeId)
		}
		return nil, server.ToStatus(err, "record punch")
	}

	emp, err := h.employees.GetEmployee(ctx, req.EmployeeId)
	if err != nil {
		return nil, server.ToStatus(err, "get employee")
	}
	h.lg.Printf("punch %s recorded for employee %d at %s", row.RecordType, emp.ID, row.RecordedAt.In(h.loc).Format(time.RFC3339))

	return &rpc.RecordPunchResponse{
		Record:   recordToRPC(row.ToCore(), emp.Name),
		Employee: staff.EmployeeToRPC(*emp),
	}, nil
}

func (h *AttendanceHandler) ListAttendance(ctx context.Context, req *rpc.ListAttendanceRequest) (*rpc.ListAttendanceResponse, error) {
	start, end, err := server.ParseDateRange(req.DateRange, false)
	if err != nil {
		return nil, server.ToStatus(err, "list attendance")
	}
	page, limit, offset := req.Pagination.Page()

	f := server.RangeFilter(start, end, h.loc)
	f.BranchID, f.EmployeeID, f.Limit, f.Offset = req.BranchId, req.EmployeeId, limit, offset

	rows, total, err := h.records.List(ctx, f)
	if err != nil {
		return nil, server.ToStatus(err, "list attendance")
	}
	out := make([]*rpc.AttendanceRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, recordToRPC(r.ToCore(), r.Employee.Name))
	}
	return &rpc.ListAttendanceResponse{
		Records:    out,
		Pagination: rpc.NewPaginationResponse(page, limit, total),
	}, nil
}

func (h *AttendanceHandler) GetAttendanceSummary(ctx context.Context, req *rpc.GetAttendanceSummaryRequest) (*rpc.GetAttendanceSummaryResponse, error) {
	if req.EmployeeId <= 0 {
		return nil, status.Error(codes.InvalidArgument, "Employee ID is required")
	}
	start, end, err := server.ParseDateRange(req.DateRange, true)
	if err != nil {
		return nil, server.ToStatus(err, "get attendance summary")
	}
	if _, err := h.employees.GetEmployee(ctx, req.EmployeeId); err != nil {
		return nil, server.ToStatus(err, "get employee")
	}

	f := server.RangeFilter(start, end, h.loc)
	byEmployee, err := h.records.ForEmployees(ctx, []int64{req.EmployeeId}, f.From, f.To)
	if err != nil {
		return nil, server.ToStatus(err, "load attendance")
	}
	records := byEmployee[req.EmployeeId]

	worked := timeclock.WorkedDays(records, start, end, h.loc)
	days := make([]timeclock.Date, 0, len(worked))
	for d := start; !d.After(end); d = d.AddDays(1) {
		if _, ok := worked[d]; ok {
			days = append(days, d)
		}
	}

	return &rpc.GetAttendanceSummaryResponse{
		EmployeeId:       req.EmployeeId,
		StartDate:        start,
		EndDate:          end,
		WorkedDays:       days,
		Absences:         timeclock.Absences(records, start, end, h.loc),
		IncompleteShifts: timeclock.IncompleteShifts(records, h.loc),
		Irregularities:   timeclock.Irregularities(records, h.loc),
	}, nil
}

// --- Advances ---

func (h *AttendanceHandler) RecordAdvance(ctx context.Context, req *rpc.RecordAdvanceRequest) (*rpc.RecordAdvanceResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, server.ToStatus(&timeclock.ValidationError{Field: "amount", Message: "must be greater than zero"}, "record advance")
	}
	emp, err := h.activeEmployee(ctx, req.EmployeeId)
	if err != nil {
		return nil, err
	}

	advance := models.SalaryAdvance{
		EmployeeID: emp.ID,
		BranchID:   emp.BranchID,
		Amount:     req.Amount.Round(2),
		RecordedAt: h.now(),
	}
	if reason := strings.TrimSpace(req.Reason); reason != "" {
		advance.Reason = &reason
	}
	if err := h.advances.Create(ctx, &advance); err != nil {
		return nil, server.ToStatus(err, "record advance")
	}
	h.lg.Printf("advance of %s recorded for employee %d", advance.Amount.StringFixed(2), emp.ID)

	return &rpc.RecordAdvanceResponse{Advance: advanceToRPC(advance.ToCore(), emp.Name)}, nil
}

func (h *AttendanceHandler) ListAdvances(ctx context.Context, req *rpc.ListAdvancesRequest) (*rpc.ListAdvancesResponse, error) {
	start, end, err := server.ParseDateRange(req.DateRange, false)
	if err != nil {
		return nil, server.ToStatus(err, "list advances")
	}
	page, limit, offset := req.Pagination.Page()

	f := server.RangeFilter(start, end, h.loc)
	f.BranchID, f.EmployeeID, f.Limit, f.Offset = req.BranchId, req.EmployeeId, limit, offset

	rows, total, sum, err := h.advances.List(ctx, f)
	if err != nil {
		return nil, server.ToStatus(err, "list advances")
	}
	out := make([]*rpc.SalaryAdvance, 0, len(rows))
	for _, a := range rows {
		out = append(out, advanceToRPC(a.ToCore(), a.Employee.Name))
	}
	return &rpc.ListAdvancesResponse{
		Advances:   out,
		Total:      sum.Round(2),
		Pagination: rpc.NewPaginationResponse(page, limit, total),
	}, nil
}

func recordToRPC(r timeclock.Record, employeeName string) *rpc.AttendanceRecord {
	return &rpc.AttendanceRecord{
		Id:           r.ID,
		EmployeeId:   r.EmployeeID,
		EmployeeName: employeeName,
		BranchId:     r.BranchID,
		RecordType:   string(r.Type),
		RecordedAt:   r.RecordedAt,
	}
}

func advanceToRPC(a timeclock.Advance, employeeName string) *rpc.SalaryAdvance {
	return &rpc.SalaryAdvance{
		Id:           a.ID,
		EmployeeId:   a.EmployeeID,
		EmployeeName: employeeName,
		BranchId:     a.BranchID,
		Amount:       a.Amount,
		Reason:       a.Reason,
		RecordedAt:   a.RecordedAt,
	}
}

var _ rpc.AttendanceServiceServer = (*AttendanceHandler)(nil)
