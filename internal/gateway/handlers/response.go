package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"timeclock-system/internal/rpc"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

func successResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func errorResponse(message string) APIResponse {
	return APIResponse{
		Success: false,
		Message: message,
	}
}

func successWithMetaResponse(message string, data interface{}, meta interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	}
}

// handleGRPCError writes the HTTP error for err and reports whether it did.
func handleGRPCError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}
	if s, ok := status.FromError(err); ok {
		switch s.Code() {
		case codes.InvalidArgument:
			c.JSON(http.StatusBadRequest, errorResponse(s.Message()))
		case codes.NotFound:
			c.JSON(http.StatusNotFound, errorResponse(s.Message()))
		case codes.FailedPrecondition:
			c.JSON(http.StatusPreconditionFailed, errorResponse(s.Message()))
		case codes.AlreadyExists, codes.Aborted:
			c.JSON(http.StatusConflict, errorResponse(s.Message()))
		case codes.Unavailable:
			c.JSON(http.StatusServiceUnavailable, errorResponse("Service unavailable: "+s.Message()))
		case codes.DeadlineExceeded:
			c.JSON(http.StatusGatewayTimeout, errorResponse("Service timed out"))
		default:
			c.JSON(http.StatusInternalServerError, errorResponse("Service error: "+s.Message()))
		}
	} else {
		c.JSON(http.StatusInternalServerError, errorResponse("Unknown service error"))
	}
	c.Abort()
	return true
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid "+strings.ReplaceAll(name, "_", " ")))
		return 0, false
	}
	return id, true
}

// PageQuery is the page/page_size pair every list route accepts.
type PageQuery struct {
	Page     int `form:"page,default=1"`
	PageSize int `form:"page_size,default=20"`
}

func (q PageQuery) toRPC() *rpc.PaginationRequest {
	return &rpc.PaginationRequest{
		PageSize:  int32(q.PageSize),
		PageToken: strconv.Itoa(q.Page),
	}
}

// RangeQuery is an optional inclusive date range in YYYY-MM-DD.
type RangeQuery struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

func (q RangeQuery) toRPC() *rpc.DateRange {
	if q.StartDate == "" && q.EndDate == "" {
		return nil
	}
	return &rpc.DateRange{StartDate: q.StartDate, EndDate: q.EndDate}
}
