package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"timeclock-system/internal/rpc"
	"timeclock-system/internal/utils"
)

type StaffHTTPHandler struct {
	staffClient rpc.StaffServiceClient
}

func NewStaffHTTPHandler(staffClient rpc.StaffServiceClient) *StaffHTTPHandler {
	return &StaffHTTPHandler{
		staffClient: staffClient,
	}
}

type BranchRequest struct {
	Name string `json:"name" binding:"required"`
}

type CreateEmployeeRequest struct {
	BranchID    int64  `json:"branch_id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Position    string `json:"position"`
	PaymentType string `json:"payment_type" binding:"required"`
	BaseSalary  string `json:"base_salary" binding:"required"`
}

type UpdateEmployeeRequest struct {
	BranchID    *int64  `json:"branch_id,omitempty"`
	Name        *string `json:"name,omitempty"`
	Position    *string `json:"position,omitempty"`
	PaymentType *string `json:"payment_type,omitempty"`
	BaseSalary  *string `json:"base_salary,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

type ListEmployeesQuery struct {
	PageQuery
	BranchID   int64  `form:"branch_id"`
	ActiveOnly bool   `form:"active_only"`
	Search     string `form:"search"`
}

func actor(c *gin.Context) string {
	if s := c.GetString(utils.ContextSubject); s != "" {
		return s
	}
	return utils.RoleAdmin
}

// --- Branches ---

func (h *StaffHTTPHandler) CreateBranch(c *gin.Context) {
	var req BranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format: "+err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := h.staffClient.CreateBranch(ctx, &rpc.CreateBranchRequest{Name: req.Name, RequestBy: actor(c)})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusCreated, successResponse("Branch created successfully", resp.Branch))
}

func (h *StaffHTTPHandler) ListBranches(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := h.staffClient.ListBranches(ctx, &rpc.ListBranchesRequest{})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusOK, successResponse("Branches retrieved successfully", resp.Branches))
}

func (h *StaffHTTPHandler) UpdateBranch(c *gin.Context) {
	branchID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req BranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format: "+err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := h.staffClient.UpdateBranch(ctx, &rpc.UpdateBranchRequest{Id: branchID, Name: &req.Name, RequestBy: actor(c)})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusOK, successResponse("Branch updated successfully", resp.Branch))
}

// --- Employees ---

func (h *StaffHTTPHandler) CreateEmployee(c *gin.Context) {
	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format: "+err.Error()))
		return
	}
	salary, err := decimal.NewFromString(req.BaseSalary)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid base salary"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := h.staffClient.CreateEmployee(ctx, &rpc.CreateEmployeeRequest{
		BranchId:    req.BranchID,
		Name:        req.Name,
		Position:    req.Position,
		PaymentType: req.PaymentType,
		BaseSalary:  salary,
		RequestBy:   actor(c),
	})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusCreated, successResponse("Employee created successfully", resp.Employee))
}

func (h *StaffHTTPHandler) GetEmployee(c *gin.Context) {
	employeeID, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := h.staffClient.GetEmployee(ctx, &rpc.GetEmployeeRequest{Id: employeeID})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusOK, successResponse("Employee retrieved successfully", resp.Employee))
}

func (h *StaffHTTPHandler) UpdateEmployee(c *gin.Context) {
	employeeID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	var salary *decimal.Decimal
	if req.BaseSalary != nil {
		d, err := decimal.NewFromString(*req.BaseSalary)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("Invalid base salary"))
			return
		}
		salary = &d
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := h.staffClient.UpdateEmployee(ctx, &rpc.UpdateEmployeeRequest{
		Id:          employeeID,
		BranchId:    req.BranchID,
		Name:        req.Name,
		Position:    req.Position,
		PaymentType: req.PaymentType,
		BaseSalary:  salary,
		IsActive:    req.IsActive,
		RequestBy:   actor(c),
	})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusOK, successResponse("Employee updated successfully", resp.Employee))
}

func (h *StaffHTTPHandler) DeactivateEmployee(c *gin.Context) {
	employeeID, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := h.staffClient.DeactivateEmployee(ctx, &rpc.DeactivateEmployeeRequest{Id: employeeID, RequestBy: actor(c)})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusOK, successResponse("Employee deactivated successfully", resp.Employee))
}

func (h *StaffHTTPHandler) ListEmployees(c *gin.Context) {
	var query ListEmployeesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid query parameters"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := h.staffClient.ListEmployees(ctx, &rpc.ListEmployeesRequest{
		BranchId:   query.BranchID,
		ActiveOnly: query.ActiveOnly,
		Search:     query.Search,
		Pagination: query.PageQuery.toRPC(),
	})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Employees retrieved successfully", resp.Employees, resp.Pagination))
}
