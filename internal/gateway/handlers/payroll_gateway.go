package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"timeclock-system/internal/rpc"
)

type PayrollHTTPHandler struct {
	payrollClient rpc.PayrollServiceClient
}

func NewPayrollHTTPHandler(payrollClient rpc.PayrollServiceClient) *PayrollHTTPHandler {
	return &PayrollHTTPHandler{
		payrollClient: payrollClient,
	}
}

type CalculatePayrollRequest struct {
	BranchID    int64  `json:"branch_id" binding:"required"`
	PeriodStart string `json:"period_start" binding:"required"`
	PeriodEnd   string `json:"period_end"`
	PeriodKind  string `json:"period_kind" binding:"required"`
}

type UpdateDeductionRequest struct {
	Amount string `json:"amount" binding:"required"`
	Reason string `json:"reason"`
}

type ListPayrollsQuery struct {
	PageQuery
	RangeQuery
	BranchID   int64  `form:"branch_id"`
	EmployeeID int64  `form:"employee_id"`
	Status     string `form:"status"`
}

// --- Drafts ---

func (h *PayrollHTTPHandler) CalculatePayroll(c *gin.Context) {
	var req CalculatePayrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format: "+err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := h.payrollClient.CalculatePayroll(ctx, &rpc.CalculatePayrollRequest{
		BranchId:     req.BranchID,
		PeriodStart:  req.PeriodStart,
		PeriodEnd:    req.PeriodEnd,
		PeriodKind:   req.PeriodKind,
		CalculatedBy: actor(c),
	})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusOK, successResponse("Payroll calculated successfully", resp.Draft))
}

func (h *PayrollHTTPHandler) GetPayrollDraft(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := h.payrollClient.GetPayrollDraft(ctx, &rpc.GetPayrollDraftRequest{DraftId: c.Param("draft_id")})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusOK, successResponse("Payroll draft retrieved successfully", resp.Draft))
}

func (h *PayrollHTTPHandler) UpdateDeduction(c *gin.Context) {
	employeeID, ok := paramID(c, "employee_id")
	if !ok {
		return
	}
	var req UpdateDeductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format: "+err.Error()))
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid amount"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := h.payrollClient.UpdateDeduction(ctx, &rpc.UpdateDeductionRequest{
		DraftId:    c.Param("draft_id"),
		EmployeeId: employeeID,
		Amount:     amount,
		Reason:     req.Reason,
	})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusOK, successResponse("Deduction updated successfully", resp.Draft))
}

func (h *PayrollHTTPHandler) ConfirmPayroll(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := h.payrollClient.ConfirmPayroll(ctx, &rpc.ConfirmPayrollRequest{
		DraftId:     c.Param("draft_id"),
		GeneratedBy: actor(c),
	})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusCreated, successWithMetaResponse("Payroll confirmed successfully", resp.Payrolls, map[string]interface{}{
		"saved_count":  resp.SavedCount,
		"total_to_pay": resp.TotalToPay,
	}))
}

// --- Confirmed payrolls ---

func (h *PayrollHTTPHandler) GetPayroll(c *gin.Context) {
	payrollID, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := h.payrollClient.GetPayroll(ctx, &rpc.GetPayrollRequest{Id: payrollID})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusOK, successResponse("Payroll retrieved successfully", resp.Payroll))
}

func (h *PayrollHTTPHandler) ListPayrolls(c *gin.Context) {
	var query ListPayrollsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid query parameters"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	resp, err := h.payrollClient.ListPayrolls(ctx, &rpc.ListPayrollsRequest{
		BranchId:   query.BranchID,
		EmployeeId: query.EmployeeID,
		Status:     query.Status,
		DateRange:  query.RangeQuery.toRPC(),
		Pagination: query.PageQuery.toRPC(),
	})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Payrolls retrieved successfully", resp.Payrolls, map[string]interface{}{
		"pagination":   resp.Pagination,
		"total_to_pay": resp.TotalToPay,
	}))
}

func (h *PayrollHTTPHandler) MarkPayrollPaid(c *gin.Context) {
	payrollID, ok := paramID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := h.payrollClient.MarkPayrollPaid(ctx, &rpc.MarkPayrollPaidRequest{Id: payrollID, PaidBy: actor(c)})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusOK, successResponse("Payroll "+strconv.FormatInt(payrollID, 10)+" marked as paid", resp.Payroll))
}
