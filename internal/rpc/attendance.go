package rpc

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc"

	"timeclock-system/internal/timeclock"
)

type AttendanceRecord struct {
	Id           int64     `json:"id"`
	EmployeeId   int64     `json:"employee_id"`
	EmployeeName string    `json:"employee_name,omitempty"`
	BranchId     int64     `json:"branch_id"`
	RecordType   string    `json:"record_type"`
	RecordedAt   time.Time `json:"recorded_at"`
}

type SalaryAdvance struct {
	Id           int64           `json:"id"`
	EmployeeId   int64           `json:"employee_id"`
	EmployeeName string          `json:"employee_name,omitempty"`
	BranchId     int64           `json:"branch_id"`
	Amount       decimal.Decimal `json:"amount"`
	Reason       string          `json:"reason"`
	RecordedAt   time.Time       `json:"recorded_at"`
}

type GetNextPunchRequest struct {
	EmployeeId int64 `json:"employee_id"`
}

type GetNextPunchResponse struct {
	Employee   *Employee             `json:"employee"`
	LastRecord *AttendanceRecord     `json:"last_record,omitempty"`
	State      *timeclock.PunchState `json:"state"`
}

type RecordPunchRequest struct {
	EmployeeId int64  `json:"employee_id"`
	RecordType string `json:"record_type"`
}

type RecordPunchResponse struct {
	Record   *AttendanceRecord `json:"record"`
	Employee *Employee         `json:"employee"`
}

type ListAttendanceRequest struct {
	BranchId   int64              `json:"branch_id"`
	EmployeeId int64              `json:"employee_id"`
	DateRange  *DateRange         `json:"date_range"`
	Pagination *PaginationRequest `json:"pagination,omitempty"`
}

type ListAttendanceResponse struct {
	Records    []*AttendanceRecord `json:"records"`
	Pagination *PaginationResponse `json:"pagination"`
}

type GetAttendanceSummaryRequest struct {
	EmployeeId int64      `json:"employee_id"`
	DateRange  *DateRange `json:"date_range"`
}

type GetAttendanceSummaryResponse struct {
	EmployeeId       int64               `json:"employee_id"`
	StartDate        timeclock.Date      `json:"start_date"`
	EndDate          timeclock.Date      `json:"end_date"`
	WorkedDays       []timeclock.Date    `json:"worked_days"`
	Absences         []timeclock.Date    `json:"absences"`
	IncompleteShifts []timeclock.Anomaly `json:"incomplete_shifts"`
	Irregularities   []timeclock.Anomaly `json:"irregularities"`
}

type RecordAdvanceRequest struct {
	EmployeeId int64           `json:"employee_id"`
	Amount     decimal.Decimal `json:"amount"`
	Reason     string          `json:"reason"`
}

type RecordAdvanceResponse struct {
	Advance *SalaryAdvance `json:"advance"`
}

type ListAdvancesRequest struct {
	BranchId   int64              `json:"branch_id"`
	EmployeeId int64              `json:"employee_id"`
	DateRange  *DateRange         `json:"date_range"`
	Pagination *PaginationRequest `json:"pagination,omitempty"`
}

type ListAdvancesResponse struct {
	Advances   []*SalaryAdvance    `json:"advances"`
	Total      decimal.Decimal     `json:"total"`
	Pagination *PaginationResponse `json:"pagination"`
}

type AttendanceServiceServer interface {
	GetNextPunch(context.Context, *GetNextPunchRequest) (*GetNextPunchResponse, error)
	RecordPunch(context.Context, *RecordPunchRequest) (*RecordPunchResponse, error)
	ListAttendance(context.Context, *ListAttendanceRequest) (*ListAttendanceResponse, error)
	GetAttendanceSummary(context.Context, *GetAttendanceSummaryRequest) (*GetAttendanceSummaryResponse, error)
	RecordAdvance(context.Context, *RecordAdvanceRequest) (*RecordAdvanceResponse, error)
	ListAdvances(context.Context, *ListAdvancesRequest) (*ListAdvancesResponse, error)
}

const AttendanceServiceName = "timeclock.v1.AttendanceService"

var AttendanceService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: AttendanceServiceName,
	HandlerType: (*AttendanceServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetNextPunch", Handler: unary("/"+AttendanceServiceName+"/GetNextPunch", AttendanceServiceServer.GetNextPunch)},
		{MethodName: "RecordPunch", Handler: unary("/"+AttendanceServiceName+"/RecordPunch", AttendanceServiceServer.RecordPunch)},
		{MethodName: "ListAttendance", Handler: unary("/"+AttendanceServiceName+"/ListAttendance", AttendanceServiceServer.ListAttendance)},
		{MethodName: "GetAttendanceSummary", Handler: unary("/"+AttendanceServiceName+"/GetAttendanceSummary", AttendanceServiceServer.GetAttendanceSummary)},
		{MethodName: "RecordAdvance", Handler: unary("/"+AttendanceServiceName+"/RecordAdvance", AttendanceServiceServer.RecordAdvance)},
		{MethodName: "ListAdvances", Handler: unary("/"+AttendanceServiceName+"/ListAdvances", AttendanceServiceServer.ListAdvances)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "internal/rpc/attendance.go",
}

func RegisterAttendanceServiceServer(s grpc.ServiceRegistrar, srv AttendanceServiceServer) {
	s.RegisterService(&AttendanceService_ServiceDesc, srv)
}

type AttendanceServiceClient interface {
	GetNextPunch(ctx context.Context, in *GetNextPunchRequest, opts ...grpc.CallOption) (*GetNextPunchResponse, error)
	RecordPunch(ctx context.Context, in *RecordPunchRequest, opts ...grpc.CallOption) (*RecordPunchResponse, error)
	ListAttendance(ctx context.Context, in *ListAttendanceRequest, opts ...grpc.CallOption) (*ListAttendanceResponse, error)
	GetAttendanceSummary(ctx context.Context, in *GetAttendanceSummaryRequest, opts ...grpc.CallOption) (*GetAttendanceSummaryResponse, error)
	RecordAdvance(ctx context.Context, in *RecordAdvanceRequest, opts ...grpc.CallOption) (*RecordAdvanceResponse, error)
	ListAdvances(ctx context.Context, in *ListAdvancesRequest, opts ...grpc.CallOption) (*ListAdvancesResponse, error)
}

type attendanceServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAttendanceServiceClient(cc grpc.ClientConnInterface) AttendanceServiceClient {
	return &attendanceServiceClient{cc: cc}
}

func (c *attendanceServiceClient) GetNextPunch(ctx context.Context, in *GetNextPunchRequest, opts ...grpc.CallOption) (*GetNextPunchResponse, error) {
	return invoke[GetNextPunchResponse](ctx, c.cc, "/"+AttendanceServiceName+"/GetNextPunch", in, opts...)
}

func (c *attendanceServiceClient) RecordPunch(ctx context.Context, in *RecordPunchRequest, opts ...grpc.CallOption) (*RecordPunchResponse, error) {
	return invoke[RecordPunchResponse](ctx, c.cc, "/"+AttendanceServiceName+"/RecordPunch", in, opts...)
}

func (c *attendanceServiceClient) ListAttendance(ctx context.Context, in *ListAttendanceRequest, opts ...grpc.CallOption) (*ListAttendanceResponse, error) {
	return invoke[ListAttendanceResponse](ctx, c.cc, "/"+AttendanceServiceName+"/ListAttendance", in, opts...)
}

func (c *attendanceServiceClient) GetAttendanceSummary(ctx context.Context, in *GetAttendanceSummaryRequest, opts ...grpc.CallOption) (*GetAttendanceSummaryResponse, error) {
	return invoke[GetAttendanceSummaryResponse](ctx, c.cc, "/"+AttendanceServiceName+"/GetAttendanceSummary", in, opts...)
}

func (c *attendanceServiceClient) RecordAdvance(ctx context.Context, in *RecordAdvanceRequest, opts ...grpc.CallOption) (*RecordAdvanceResponse, error) {
	return invoke[RecordAdvanceResponse](ctx, c.cc, "/"+AttendanceServiceName+"/RecordAdvance", in, opts...)
}

func (c *attendanceServiceClient) ListAdvances(ctx context.Context, in *ListAdvancesRequest, opts ...grpc.CallOption) (*ListAdvancesResponse, error) {
	return invoke[ListAdvancesResponse](ctx, c.cc, "/"+AttendanceServiceName+"/ListAdvances", in, opts...)
}
