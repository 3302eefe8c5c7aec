package handler

import (
	"context"
	"errors"
	"log"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"timeclock-system/internal/database/models"
	"timeclock-system/internal/repos"
	"timeclock-system/internal/rpc"
	"timeclock-system/internal/services/server"
	"timeclock-system/internal/timeclock"
)

type Store interface {
	CreateBranch(ctx context.Context, b *models.Branch) error
	GetBranch(ctx context.Context, id int64) (*models.Branch, error)
	SaveBranch(ctx context.Context, b *models.Branch) error
	ListBranches(ctx context.Context) ([]models.Branch, error)
	CreateEmployee(ctx context.Context, e *models.Employee) error
	GetEmployee(ctx context.Context, id int64) (*models.Employee, error)
	SaveEmployee(ctx context.Context, e *models.Employee) error
	ListEmployees(ctx context.Context, q repos.EmployeeQuery) ([]models.Employee, int64, error)
}

type AuditLogger interface {
	Record(ctx context.Context, action string, details models.AuditDetails) error
}

type StaffHandler struct {
	store Store
	audit AuditLogger
	lg    *log.Logger
}

func NewStaffHandler(store Store, audit AuditLogger, lg *log.Logger) *StaffHandler {
	return &StaffHandler{store: store, audit: audit, lg: lg}
}

// record writes an audit entry. A failed audit write is logged and does not
// undo the change it describes.
func (h *StaffHandler) record(ctx context.Context, action string, details models.AuditDetails) {
	if err := h.audit.Record(ctx, action, details); err != nil {
		h.lg.Printf("audit %s failed: %v", action, err)
	}
}

// --- Branches ---

func (h *StaffHandler) CreateBranch(ctx context.Context, req *rpc.CreateBranchRequest) (*rpc.BranchResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, status.Error(codes.InvalidArgument, "Branch name is required")
	}

	branch := models.Branch{Name: name}
	if err := h.store.CreateBranch(ctx, &branch); err != nil {
		return nil, server.ToStatus(err, "create branch")
	}
	h.record(ctx, repos.AuditBranchCreated, models.AuditDetails{"branch_id": branch.ID, "name": branch.Name, "by": req.RequestBy})

	return &rpc.BranchResponse{Branch: BranchToRPC(branch)}, nil
}

func (h *StaffHandler) UpdateBranch(ctx context.Context, req *rpc.UpdateBranchRequest) (*rpc.BranchResponse, error) {
	if req.Id <= 0 {
		return nil, status.Error(codes.InvalidArgument, "Branch ID is required")
	}
	branch, err := h.store.GetBranch(ctx, req.Id)
	if err != nil {
		return nil, server.ToStatus(err, "get branch")
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, status.Error(codes.InvalidArgument, "Branch name must not be empty")
		}
		branch.Name = name
	}
	if err := h.store.SaveBranch(ctx, branch); err != nil {
		return nil, server.ToStatus(err, "update branch")
	}
	h.record(ctx, repos.AuditBranchUpdated, models.AuditDetails{"branch_id": branch.ID, "name": branch.Name, "by": req.RequestBy})

	return &rpc.BranchResponse{Branch: BranchToRPC(*branch)}, nil
}

func (h *StaffHandler) ListBranches(ctx context.Context, _ *rpc.ListBranchesRequest) (*rpc.ListBranchesResponse, error) {
	branches, err := h.store.ListBranches(ctx)
	if err != nil {
		return nil, server.ToStatus(err, "list branches")
	}
	out := make([]*rpc.Branch, 0, len(branches))
	for _, b := range branches {
		out = append(out, BranchToRPC(b))
	}
	return &rpc.ListBranchesResponse{Branches: out}, nil
}

// --- Employees ---

func validateEmployee(e *models.Employee) error {
	if strings.TrimSpace(e.Name) == "" {
		return &timeclock.ValidationError{Field: "name", Message: "is required"}
	}
	if !timeclock.PaymentType(e.PaymentType).Valid() {
		return &timeclock.ValidationError{Field: "payment_type", Message: "must be daily or weekly"}
	}
	if !e.BaseSalary.IsPositive() {
		return &timeclock.ValidationError{Field: "base_salary", Message: "must be greater than zero"}
	}
	if e.BranchID <= 0 {
		return &timeclock.ValidationError{Field: "branch_id", Message: "is required"}
	}
	return nil
}

func (h *StaffHandler) ensureBranch(ctx context.Context, id int64) error {
	if _, err := h.store.GetBranch(ctx, id); err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return &timeclock.ValidationError{Field: "branch_id", Message: "branch does not exist"}
		}
		return err
	}
	return nil
}

func (h *StaffHandler) CreateEmployee(ctx context.Context, req *rpc.CreateEmployeeRequest) (*rpc.EmployeeResponse, error) {
	emp := models.Employee{
		BranchID:    req.BranchId,
		Name:        strings.TrimSpace(req.Name),
		Position:    strings.TrimSpace(req.Position),
		PaymentType: req.PaymentType,
		BaseSalary:  req.BaseSalary,
		IsActive:    true,
	}
	if err := validateEmployee(&emp); err != nil {
		return nil, server.ToStatus(err, "create employee")
	}
	if err := h.ensureBranch(ctx, emp.BranchID); err != nil {
		return nil, server.ToStatus(err, "create employee")
	}
	if err := h.store.CreateEmployee(ctx, &emp); err != nil {
		return nil, server.ToStatus(err, "create employee")
	}
	h.record(ctx, repos.AuditEmployeeCreated, models.AuditDetails{
		"employee_id":  emp.ID,
		"name":         emp.Name,
		"payment_type": emp.PaymentType,
		"base_salary":  emp.BaseSalary.StringFixed(2),
		"by":           req.RequestBy,
	})

	return h.employeeResponse(ctx, emp.ID)
}

func (h *StaffHandler) UpdateEmployee(ctx context.Context, req *rpc.UpdateEmployeeRequest) (*rpc.EmployeeResponse, error) {
	if req.Id <= 0 {
		return nil, status.Error(codes.InvalidArgument, "Employee ID is required")
	}
	emp, err := h.store.GetEmployee(ctx, req.Id)
	if err != nil {
		return nil, server.ToStatus(err, "get employee")
	}

	changes := models.AuditDetails{"employee_id": emp.ID, "by": req.RequestBy}
	if req.BranchId != nil && *req.BranchId != emp.BranchID {
		if err := h.ensureBranch(ctx, *req.BranchId); err != nil {
			return nil, server.ToStatus(err, "update employee")
		}
		emp.BranchID = *req.BranchId
		changes["branch_id"] = emp.BranchID
	}
	if req.Name != nil {
		emp.Name = strings.TrimSpace(*req.Name)
		changes["name"] = emp.Name
	}
	if req.Position != nil {
		emp.Position = strings.TrimSpace(*req.Position)
		changes["position"] = emp.Position
	}
	if req.PaymentType != nil {
		emp.PaymentType = *req.PaymentType
		changes["payment_type"] = emp.PaymentType
	}
	if req.BaseSalary != nil {
		emp.BaseSalary = *req.BaseSalary
		changes["base_salary"] = emp.BaseSalary.StringFixed(2)
	}
	if req.IsActive != nil {
		emp.IsActive = *req.IsActive
		changes["is_active"] = emp.IsActive
	}
	if err := validateEmployee(emp); err != nil {
		return nil, server.ToStatus(err, "update employee")
	}

	if err := h.store.SaveEmployee(ctx, emp); err != nil {
		return nil, server.ToStatus(err, "update employee")
	}
	h.record(ctx, repos.AuditEmployeeUpdated, changes)

	return h.employeeResponse(ctx, emp.ID)
}

func (h *StaffHandler) GetEmployee(ctx context.Context, req *rpc.GetEmployeeRequest) (*rpc.EmployeeResponse, error) {
	if req.Id <= 0 {
		return nil, status.Error(codes.InvalidArgument, "Employee ID is required")
	}
	return h.employeeResponse(ctx, req.Id)
}

// DeactivateEmployee is a soft delete; employees are never removed so their
// payroll history stays intact.
func (h *StaffHandler) DeactivateEmployee(ctx context.Context, req *rpc.DeactivateEmployeeRequest) (*rpc.EmployeeResponse, error) {
	if req.Id <= 0 {
		return nil, status.Error(codes.InvalidArgument, "Employee ID is required")
	}
	emp, err := h.store.GetEmployee(ctx, req.Id)
	if err != nil {
		return nil, server.ToStatus(err, "get employee")
	}
	if emp.IsActive {
		emp.IsActive = false
		if err := h.store.SaveEmployee(ctx, emp); err != nil {
			return nil, server.ToStatus(err, "deactivate employee")
		}
		h.record(ctx, repos.AuditEmployeeDisabled, models.AuditDetails{"employee_id": emp.ID, "name": emp.Name, "by": req.RequestBy})
	}
	return &rpc.EmployeeResponse{Employee: EmployeeToRPC(*emp)}, nil
}

func (h *StaffHandler) ListEmployees(ctx context.Context, req *rpc.ListEmployeesRequest) (*rpc.ListEmployeesResponse, error) {
	page, limit, offset := req.Pagination.Page()
	employees, total, err := h.store.ListEmployees(ctx, repos.EmployeeQuery{
		BranchID:   req.BranchId,
		ActiveOnly: req.ActiveOnly,
		Search:     req.Search,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, server.ToStatus(err, "list employees")
	}

	out := make([]*rpc.Employee, 0, len(employees))
	for _, e := range employees {
		out = append(out, EmployeeToRPC(e))
	}
	return &rpc.ListEmployeesResponse{
		Employees:  out,
		Pagination: rpc.NewPaginationResponse(page, limit, total),
	}, nil
}

func (h *StaffHandler) employeeResponse(ctx context.Context, id int64) (*rpc.EmployeeResponse, error) {
	emp, err := h.store.GetEmployee(ctx, id)
	if err != nil {
		return nil, server.ToStatus(err, "get employee")
	}
	return &rpc.EmployeeResponse{Employee: EmployeeToRPC(*emp)}, nil
}

func BranchToRPC(b models.Branch) *rpc.Branch {
	out := &rpc.Branch{Id: b.ID, Name: b.Name}
	if b.CreatedAt != nil {
		out.CreatedAt = *b.CreatedAt
	}
	if b.UpdatedAt != nil {
		out.UpdatedAt = *b.UpdatedAt
	}
	return out
}

func EmployeeToRPC(e models.Employee) *rpc.Employee {
	out := &rpc.Employee{
		Id:          e.ID,
		BranchId:    e.BranchID,
		BranchName:  e.Branch.Name,
		Name:        e.Name,
		Position:    e.Position,
		PaymentType: e.PaymentType,
		BaseSalary:  e.BaseSalary.Round(2),
		IsActive:    e.IsActive,
	}
	if e.CreatedAt != nil {
		out.CreatedAt = *e.CreatedAt
	}
	if e.UpdatedAt != nil {
		out.UpdatedAt = *e.UpdatedAt
	}
	return out
}

var _ rpc.StaffServiceServer = (*StaffHandler)(nil)
