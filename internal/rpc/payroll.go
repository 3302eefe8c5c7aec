package rpc

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc"

	"timeclock-system/internal/timeclock"
)

type Payroll struct {
	Id               int64           `json:"id"`
	EmployeeId       int64           `json:"employee_id"`
	EmployeeName     string          `json:"employee_name,omitempty"`
	BranchId         int64           `json:"branch_id"`
	PeriodStart      timeclock.Date  `json:"period_start"`
	PeriodEnd        timeclock.Date  `json:"period_end"`
	BaseSalary       decimal.Decimal `json:"base_salary"`
	DaysWorked       int32           `json:"days_worked"`
	TotalAdvances    decimal.Decimal `json:"total_advances"`
	ManualDeductions decimal.Decimal `json:"manual_deductions"`
	DeductionReason  string          `json:"deduction_reason"`
	TotalToPay       decimal.Decimal `json:"total_to_pay"`
	Status           string          `json:"status"`
	GeneratedBy      string          `json:"generated_by"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// PayrollDraft is a computed batch awaiting confirmation.
type PayrollDraft struct {
	Id           string                      `json:"id"`
	BranchId     int64                       `json:"branch_id"`
	Period       timeclock.Period            `json:"period"`
	Calculations []*timeclock.Calculation    `json:"calculations"`
	Failures     []timeclock.EmployeeFailure `json:"failures"`
	TotalToPay   decimal.Decimal             `json:"total_to_pay"`
	CreatedBy    string                      `json:"created_by"`
	CreatedAt    time.Time                   `json:"created_at"`
	ExpiresAt    time.Time                   `json:"expires_at"`
}

type CalculatePayrollRequest struct {
	BranchId     int64  `json:"branch_id"`
	PeriodStart  string `json:"period_start"`
	PeriodEnd    string `json:"period_end"`
	PeriodKind   string `json:"period_kind"`
	CalculatedBy string `json:"calculated_by"`
}

type PayrollDraftResponse struct {
	Draft *PayrollDraft `json:"draft"`
}

type GetPayrollDraftRequest struct {
	DraftId string `json:"draft_id"`
}

type UpdateDeductionRequest struct {
	DraftId    string          `json:"draft_id"`
	EmployeeId int64           `json:"employee_id"`
	Amount     decimal.Decimal `json:"amount"`
	Reason     string          `json:"reason"`
}

type ConfirmPayrollRequest struct {
	DraftId     string `json:"draft_id"`
	GeneratedBy string `json:"generated_by"`
}

type ConfirmPayrollResponse struct {
	Payrolls   []*Payroll      `json:"payrolls"`
	SavedCount int32           `json:"saved_count"`
	TotalToPay decimal.Decimal `json:"total_to_pay"`
}

type GetPayrollRequest struct {
	Id int64 `json:"id"`
}

type PayrollResponse struct {
	Payroll *Payroll `json:"payroll"`
}

type ListPayrollsRequest struct {
	BranchId   int64              `json:"branch_id"`
	EmployeeId int64              `json:"employee_id"`
	Status     string             `json:"status"`
	DateRange  *DateRange         `json:"date_range"`
	Pagination *PaginationRequest `json:"pagination,omitempty"`
}

type ListPayrollsResponse struct {
	Payrolls   []*Payroll          `json:"payrolls"`
	TotalToPay decimal.Decimal     `json:"total_to_pay"`
	Pagination *PaginationResponse `json:"pagination"`
}

type MarkPayrollPaidRequest struct {
	Id     int64  `json:"id"`
	PaidBy string `json:"paid_by"`
}

type PayrollServiceServer interface {
	CalculatePayroll(context.Context, *CalculatePayrollRequest) (*PayrollDraftResponse, error)
	GetPayrollDraft(context.Context, *GetPayrollDraftRequest) (*PayrollDraftResponse, error)
	UpdateDeduction(context.Context, *UpdateDeductionRequest) (*PayrollDraftResponse, error)
	ConfirmPayroll(context.Context, *ConfirmPayrollRequest) (*ConfirmPayrollResponse, error)
	GetPayroll(context.Context, *GetPayrollRequest) (*PayrollResponse, error)
	ListPayrolls(context.Context, *ListPayrollsRequest) (*ListPayrollsResponse, error)
	MarkPayrollPaid(context.Context, *MarkPayrollPaidRequest) (*PayrollResponse, error)
}

const PayrollServiceName = "timeclock.v1.PayrollService"

var PayrollService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: PayrollServiceName,
	HandlerType: (*PayrollServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CalculatePayroll", Handler: unary("/"+PayrollServiceName+"/CalculatePayroll", PayrollServiceServer.CalculatePayroll)},
		{MethodName: "GetPayrollDraft", Handler: unary("/"+PayrollServiceName+"/GetPayrollDraft", PayrollServiceServer.GetPayrollDraft)},
		{MethodName: "UpdateDeduction", Handler: unary("/"+PayrollServiceName+"/UpdateDeduction", PayrollServiceServer.UpdateDeduction)},
		{MethodName: "ConfirmPayroll", Handler: unary("/"+PayrollServiceName+"/ConfirmPayroll", PayrollServiceServer.ConfirmPayroll)},
		{MethodName: "GetPayroll", Handler: unary("/"+PayrollServiceName+"/GetPayroll", PayrollServiceServer.GetPayroll)},
		{MethodName: "ListPayrolls", Handler: unary("/"+PayrollServiceName+"/ListPayrolls", PayrollServiceServer.ListPayrolls)},
		{MethodName: "MarkPayrollPaid", Handler: unary("/"+PayrollServiceName+"/MarkPayrollPaid", PayrollServiceServer.MarkPayrollPaid)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "internal/rpc/payroll.go",
}

func RegisterPayrollServiceServer(s grpc.ServiceRegistrar, srv PayrollServiceServer) {
	s.RegisterService(&PayrollService_ServiceDesc, srv)
}

type PayrollServiceClient interface {
	CalculatePayroll(ctx context.Context, in *CalculatePayrollRequest, opts ...grpc.CallOption) (*PayrollDraftResponse, error)
	GetPayrollDraft(ctx context.Context, in *GetPayrollDraftRequest, opts ...grpc.CallOption) (*PayrollDraftResponse, error)
	UpdateDeduction(ctx context.Context, in *UpdateDeductionRequest, opts ...grpc.CallOption) (*PayrollDraftResponse, error)
	ConfirmPayroll(ctx context.Context, in *ConfirmPayrollRequest, opts ...grpc.CallOption) (*ConfirmPayrollResponse, error)
	GetPayroll(ctx context.Context, in *GetPayrollRequest, opts ...grpc.CallOption) (*PayrollResponse, error)
	ListPayrolls(ctx context.Context, in *ListPayrollsRequest, opts ...grpc.CallOption) (*ListPayrollsResponse, error)
	MarkPayrollPaid(ctx context.Context, in *MarkPayrollPaidRequest, opts ...grpc.CallOption) (*PayrollResponse, error)
}

type payrollServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewPayrollServiceClient(cc grpc.ClientConnInterface) PayrollServiceClient {
	return &payrollServiceClient{cc: cc}
}

func (c *payrollServiceClient) CalculatePayroll(ctx context.Context, in *CalculatePayrollRequest, opts ...grpc.CallOption) (*PayrollDraftResponse, error) {
	return invoke[PayrollDraftResponse](ctx, c.cc, "/"+PayrollServiceName+"/CalculatePayroll", in, opts...)
}

func (c *payrollServiceClient) GetPayrollDraft(ctx context.Context, in *GetPayrollDraftRequest, opts ...grpc.CallOption) (*PayrollDraftResponse, error) {
	return invoke[PayrollDraftResponse](ctx, c.cc, "/"+PayrollServiceName+"/GetPayrollDraft", in, opts...)
}

func (c *payrollServiceClient) UpdateDeduction(ctx context.Context, in *UpdateDeductionRequest, opts ...grpc.CallOption) (*PayrollDraftResponse, error) {
	return invoke[PayrollDraftResponse](ctx, c.cc, "/"+PayrollServiceName+"/UpdateDeduction", in, opts...)
}

func (c *payrollServiceClient) ConfirmPayroll(ctx context.Context, in *ConfirmPayrollRequest, opts ...grpc.CallOption) (*ConfirmPayrollResponse, error) {
	return invoke[ConfirmPayrollResponse](ctx, c.cc, "/"+PayrollServiceName+"/ConfirmPayroll", in, opts...)
}

func (c *payrollServiceClient) GetPayroll(ctx context.Context, in *GetPayrollRequest, opts ...grpc.CallOption) (*PayrollResponse, error) {
	return invoke[PayrollResponse](ctx, c.cc, "/"+PayrollServiceName+"/GetPayroll", in, opts...)
}

func (c *payrollServiceClient) ListPayrolls(ctx context.Context, in *ListPayrollsRequest, opts ...grpc.CallOption) (*ListPayrollsResponse, error) {
	return invoke[ListPayrollsResponse](ctx, c.cc, "/"+PayrollServiceName+"/ListPayrolls", in, opts...)
}

func (c *payrollServiceClient) MarkPayrollPaid(ctx context.Context, in *MarkPayrollPaidRequest, opts ...grpc.CallOption) (*PayrollResponse, error) {
	return invoke[PayrollResponse](ctx, c.cc, "/"+PayrollServiceName+"/MarkPayrollPaid", in, opts...)
}
