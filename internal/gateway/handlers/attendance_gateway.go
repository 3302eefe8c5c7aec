package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"timeclock-system/internal/rpc"
)

type AttendanceHTTPHandler struct {
	attendanceClient rpc.AttendanceServiceClient
}

func NewAttendanceHTTPHandler(attendanceClient rpc.AttendanceServiceClient) *AttendanceHTTPHandler {
	return &AttendanceHTTPHandler{
		attendanceClient: attendanceClient,
	}
}

type PunchRequest struct {
	EmployeeID int64  `json:"employee_id" binding:"required"`
	RecordType string `json:"record_type"`
}

type RecordAdvanceRequest struct {
	EmployeeID int64  `json:"employee_id" binding:"required"`
	Amount     string `json:"amount" binding:"required"`
	Reason     string `json:"reason"`
}

type ListAttendanceQuery struct {
	PageQuery
	RangeQuery
	BranchID   int64 `form:"branch_id"`
	EmployeeID int64 `form:"employee_id"`
}

// --- Clock terminal ---

func (h *AttendanceHTTPHandler) NextPunch(c *gin.Context) {
	employeeID, ok := paramID(c, "employee_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := h.attendanceClient.GetNextPunch(ctx, &rpc.GetNextPunchRequest{EmployeeId: employeeID})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusOK, successResponse("Next punch retrieved successfully", resp))
}

func (h *AttendanceHTTPHandler) Punch(c *gin.Context) {
	var req PunchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format: "+err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := h.attendanceClient.RecordPunch(ctx, &rpc.RecordPunchRequest{
		EmployeeId: req.EmployeeID,
		RecordType: req.RecordType,
	})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusCreated, successResponse("Punch recorded successfully", resp))
}

func (h *AttendanceHTTPHandler) RecordAdvance(c *gin.Context) {
	var req RecordAdvanceRequest
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

	resp, err := h.attendanceClient.RecordAdvance(ctx, &rpc.RecordAdvanceRequest{
		EmployeeId: req.EmployeeID,
		Amount:     amount,
		Reason:     req.Reason,
	})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusCreated, successResponse("Advance recorded successfully", resp.Advance))
}

// --- Admin ---

func (h *AttendanceHTTPHandler) ListAttendance(c *gin.Context) {
	var query ListAttendanceQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid query parameters"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	resp, err := h.attendanceClient.ListAttendance(ctx, &rpc.ListAttendanceRequest{
		BranchId:   query.BranchID,
		EmployeeId: query.EmployeeID,
		DateRange:  query.RangeQuery.toRPC(),
		Pagination: query.PageQuery.toRPC(),
	})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Attendance retrieved successfully", resp.Records, resp.Pagination))
}

func (h *AttendanceHTTPHandler) AttendanceSummary(c *gin.Context) {
	employeeID, ok := paramID(c, "employee_id")
	if !ok {
		return
	}
	var query RangeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid query parameters"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	resp, err := h.attendanceClient.GetAttendanceSummary(ctx, &rpc.GetAttendanceSummaryRequest{
		EmployeeId: employeeID,
		DateRange:  query.toRPC(),
	})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusOK, successResponse("Attendance summary retrieved successfully", resp))
}

func (h *AttendanceHTTPHandler) ListAdvances(c *gin.Context) {
	var query ListAttendanceQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid query parameters"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	resp, err := h.attendanceClient.ListAdvances(ctx, &rpc.ListAdvancesRequest{
		BranchId:   query.BranchID,
		EmployeeId: query.EmployeeID,
		DateRange:  query.RangeQuery.toRPC(),
		Pagination: query.PageQuery.toRPC(),
	})
	if handleGRPCError(c, err) {
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Advances retrieved successfully", resp.Advances, map[string]interface{}{
		"pagination": resp.Pagination,
		"total":      resp.Total,
	}))
}
