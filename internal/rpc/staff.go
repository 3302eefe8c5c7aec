package rpc

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
)

type Branch struct {
	Id        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Employee struct {
	Id          int64           `json:"id"`
	BranchId    int64           `json:"branch_id"`
	BranchName  string          `json:"branch_name,omitempty"`
	Name        string          `json:"name"`
	Position    string          `json:"position"`
	PaymentType string          `json:"payment_type"`
	BaseSalary  decimal.Decimal `json:"base_salary"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type CreateBranchRequest struct {
	Name      string `json:"name"`
	RequestBy string `json:"request_by"`
}

type UpdateBranchRequest struct {
	Id        int64   `json:"id"`
	Name      *string `json:"name,omitempty"`
	RequestBy string  `json:"request_by"`
}

type BranchResponse struct {
	Branch *Branch `json:"branch"`
}

type ListBranchesRequest struct{}

type ListBranchesResponse struct {
	Branches []*Branch `json:"branches"`
}

type CreateEmployeeRequest struct {
	BranchId    int64           `json:"branch_id"`
	Name        string          `json:"name"`
	Position    string          `json:"position"`
	PaymentType string          `json:"payment_type"`
	BaseSalary  decimal.Decimal `json:"base_salary"`
	RequestBy   string          `json:"request_by"`
}

type UpdateEmployeeRequest struct {
	Id          int64            `json:"id"`
	BranchId    *int64           `json:"branch_id,omitempty"`
	Name        *string          `json:"name,omitempty"`
	Position    *string          `json:"position,omitempty"`
	PaymentType *string          `json:"payment_type,omitempty"`
	BaseSalary  *decimal.Decimal `json:"base_salary,omitempty"`
	IsActive    *bool            `json:"is_active,omitempty"`
	RequestBy   string           `json:"request_by"`
}

type GetEmployeeRequest struct {
	Id int64 `json:"id"`
}

type DeactivateEmployeeRequest struct {
	Id        int64  `json:"id"`
	RequestBy string `json:"request_by"`
}

type EmployeeResponse struct {
	Employee *Employee `json:"employee"`
}

type ListEmployeesRequest struct {
	BranchId   int64              `json:"branch_id"`
	ActiveOnly bool               `json:"active_only"`
	Search     string             `json:"search"`
	Pagination *PaginationRequest `json:"pagination,omitempty"`
}

type ListEmployeesResponse struct {
	Employees  []*Employee         `json:"employees"`
	Pagination *PaginationResponse `json:"pagination"`
}

type StaffServiceServer interface {
	CreateBranch(context.Context, *CreateBranchRequest) (*BranchResponse, error)
	UpdateBranch(context.Context, *UpdateBranchRequest) (*BranchResponse, error)
	ListBranches(context.Context, *ListBranchesRequest) (*ListBranchesResponse, error)
	CreateEmployee(context.Context, *CreateEmployeeRequest) (*EmployeeResponse, error)
	UpdateEmployee(context.Context, *UpdateEmployeeRequest) (*EmployeeResponse, error)
	GetEmployee(context.Context, *GetEmployeeRequest) (*EmployeeResponse, error)
	ListEmployees(context.Context, *ListEmployeesRequest) (*ListEmployeesResponse, error)
	DeactivateEmployee(context.Context, *DeactivateEmployeeRequest) (*EmployeeResponse, error)
}

const StaffServiceName = "timeclock.v1.StaffService"

var StaffService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: StaffServiceName,
	HandlerType: (*StaffServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateBranch", Handler: unary("/"+StaffServiceName+"/CreateBranch", StaffServiceServer.CreateBranch)},
		{MethodName: "UpdateBranch", Handler: unary("/"+StaffServiceName+"/UpdateBranch", StaffServiceServer.UpdateBranch)},
		{MethodName: "ListBranches", Handler: unary("/"+StaffServiceName+"/ListBranches", StaffServiceServer.ListBranches)},
		{MethodName: "CreateEmployee", Handler: unary("/"+StaffServiceName+"/CreateEmployee", StaffServiceServer.CreateEmployee)},
		{MethodName: "UpdateEmployee", Handler: unary("/"+StaffServiceName+"/UpdateEmployee", StaffServiceServer.UpdateEmployee)},
		{MethodName: "GetEmployee", Handler: unary("/"+StaffServiceName+"/GetEmployee", StaffServiceServer.GetEmployee)},
		{MethodName: "ListEmployees", Handler: unary("/"+StaffServiceName+"/ListEmployees", StaffServiceServer.ListEmployees)},
		{MethodName: "DeactivateEmployee", Handler: unary("/"+StaffServiceName+"/DeactivateEmployee", StaffServiceServer.DeactivateEmployee)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "internal/rpc/staff.go",
}

func RegisterStaffServiceServer(s grpc.ServiceRegistrar, srv StaffServiceServer) {
	s.RegisterService(&StaffService_ServiceDesc, srv)
}

type StaffServiceClient interface {
	CreateBranch(ctx context.Context, in *CreateBranchRequest, opts ...grpc.CallOption) (*BranchResponse, error)
	UpdateBranch(ctx context.Context, in *UpdateBranchRequest, opts ...grpc.CallOption) (*BranchResponse, error)
	ListBranches(ctx context.Context, in *ListBranchesRequest, opts ...grpc.CallOption) (*ListBranchesResponse, error)
	CreateEmployee(ctx context.Context, in *CreateEmployeeRequest, opts ...grpc.CallOption) (*EmployeeResponse, error)
	UpdateEmployee(ctx context.Context, in *UpdateEmployeeRequest, opts ...grpc.CallOption) (*EmployeeResponse, error)
	GetEmployee(ctx context.Context, in *GetEmployeeRequest, opts ...grpc.CallOption) (*EmployeeResponse, error)
	ListEmployees(ctx context.Context, in *ListEmployeesRequest, opts ...grpc.CallOption) (*ListEmployeesResponse, error)
	DeactivateEmployee(ctx context.Context, in *DeactivateEmployeeRequest, opts ...grpc.CallOption) (*EmployeeResponse, error)
}

type staffServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewStaffServiceClient(cc grpc.ClientConnInterface) StaffServiceClient {
	return &staffServiceClient{cc: cc}
}

func (c *staffServiceClient) CreateBranch(ctx context.Context, in *CreateBranchRequest, opts ...grpc.CallOption) (*BranchResponse, error) {
	return invoke[BranchResponse](ctx, c.cc, "/"+StaffServiceName+"/CreateBranch", in, opts...)
}

func (c *staffServiceClient) UpdateBranch(ctx context.Context, in *UpdateBranchRequest, opts ...grpc.CallOption) (*BranchResponse, error) {
	return invoke[BranchResponse](ctx, c.cc, "/"+StaffServiceName+"/UpdateBranch", in, opts...)
}

func (c *staffServiceClient) ListBranches(ctx context.Context, in *ListBranchesRequest, opts ...grpc.CallOption) (*ListBranchesResponse, error) {
	return invoke[ListBranchesResponse](ctx, c.cc, "/"+StaffServiceName+"/ListBranches", in, opts...)
}

func (c *staffServiceClient) CreateEmployee(ctx context.Context, in *CreateEmployeeRequest, opts ...grpc.CallOption) (*EmployeeResponse, error) {
	return invoke[EmployeeResponse](ctx, c.cc, "/"+StaffServiceName+"/CreateEmployee", in, opts...)
}

func (c *staffServiceClient) UpdateEmployee(ctx context.Context, in *UpdateEmployeeRequest, opts ...grpc.CallOption) (*EmployeeResponse, error) {
	return invoke[EmployeeResponse](ctx, c.cc, "/"+StaffServiceName+"/UpdateEmployee", in, opts...)
}

func (c *staffServiceClient) GetEmployee(ctx context.Context, in *GetEmployeeRequest, opts ...grpc.CallOption) (*EmployeeResponse, error) {
	return invoke[EmployeeResponse](ctx, c.cc, "/"+StaffServiceName+"/GetEmployee", in, opts...)
}

func (c *staffServiceClient) ListEmployees(ctx context.Context, in *ListEmployeesRequest, opts ...grpc.CallOption) (*ListEmployeesResponse, error) {
	return invoke[ListEmployeesResponse](ctx, c.cc, "/"+StaffServiceName+"/ListEmployees", in, opts...)
}

func (c *staffServiceClient) DeactivateEmployee(ctx context.Context, in *DeactivateEmployeeRequest, opts ...grpc.CallOption) (*EmployeeResponse, error) {
	return invoke[EmployeeResponse](ctx, c.cc, "/"+StaffServiceName+"/DeactivateEmployee", in, opts...)
}
