package handler

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"timeclock-system/internal/database/models"
	"timeclock-system/internal/repos"
	"timeclock-system/internal/rpc"
	"timeclock-system/internal/services/server"
	"timeclock-system/internal/timeclock"
)

const confirmLockTTL = time.Minute

type EmployeeSource interface {
	GetBranch(ctx context.Context, id int64) (*models.Branch, error)
	ListEmployees(ctx context.Context, q repos.EmployeeQuery) ([]models.Employee, int64, error)
}

type RecordSource interface {
	ForEmployees(ctx context.Context, employeeIDs []int64, from, to time.Time) (map[int64][]timeclock.Record, error)
}

type AdvanceSource interface {
	ForEmployees(ctx context.Context, employeeIDs []int64, from, to time.Time) (map[int64][]timeclock.Advance, error)
}

type PayrollStore interface {
	InsertBatch(ctx context.Context, rows []timeclock.Payroll, audit models.AuditLog) ([]models.Payroll, error)
	Get(ctx context.Context, id int64) (*models.Payroll, error)
	List(ctx context.Context, q repos.PayrollQuery) ([]models.Payroll, int64, decimal.Decimal, error)
	Transition(ctx context.Context, id int64, to timeclock.PayrollStatus, at time.Time) (*models.Payroll, error)
}

type AuditLogger interface {
	Record(ctx context.Context, action string, details models.AuditDetails) error
}

// Deps are the collaborators of the payroll service.
type Deps struct {
	Employees EmployeeSource
	Records   RecordSource
	Advances  AdvanceSource
	Payrolls  PayrollStore
	Drafts    DraftStore
	Cache     PayrollCache
	Audit     AuditLogger
}

type PayrollHandler struct {
	Deps
	loc      *time.Location
	draftTTL time.Duration
	now      func() time.Time
	newID    func() string
	lg       *log.Logger
}

func NewPayrollHandler(deps Deps, loc *time.Location, draftTTL time.Duration, lg *log.Logger) *PayrollHandler {
	return &PayrollHandler{
		Deps:     deps,
		loc:      loc,
		draftTTL: draftTTL,
		now:      time.Now,
		newID:    uuid.NewString,
		lg:       lg,
	}
}

func draftStatus(err error, what string) error {
	if errors.Is(err, ErrDraftNotFound) {
		return status.Error(codes.NotFound, "Payroll draft not found or expired")
	}
	return server.ToStatus(err, what)
}

func draftTotal(calcs []*timeclock.Calculation) decimal.Decimal {
	return timeclock.BatchResult{Calculations: calcs}.Total()
}

// --- Calculation ---

func parseOptionalDate(field, raw string) (timeclock.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return timeclock.Date{}, nil
	}
	d, err := timeclock.ParseDate(raw)
	if err != nil {
		return d, &timeclock.ValidationError{Field: field, Message: err.Error()}
	}
	return d, nil
}

// CalculatePayroll computes every active employee of a branch and stores the
// result as a draft. Employees whose data fails validation are reported in
// the draft's failures; the rest are still computed.
func (h *PayrollHandler) CalculatePayroll(ctx context.Context, req *rpc.CalculatePayrollRequest) (*rpc.PayrollDraftResponse, error) {
	if req.BranchId <= 0 {
		return nil, status.Error(codes.InvalidArgument, "Branch ID is required")
	}
	start, err := parseOptionalDate("period_start", req.PeriodStart)
	if err != nil {
		return nil, server.ToStatus(err, "calculate payroll")
	}
	end, err := parseOptionalDate("period_end", req.PeriodEnd)
	if err != nil {
		return nil, server.ToStatus(err, "calculate payroll")
	}
	period, err := timeclock.ResolvePeriod(start, end, timeclock.PeriodKind(req.PeriodKind))
	if err != nil {
		return nil, server.ToStatus(err, "calculate payroll")
	}

	if _, err := h.Employees.GetBranch(ctx, req.BranchId); err != nil {
		return nil, server.ToStatus(err, "get branch")
	}
	employees, _, err := h.Employees.ListEmployees(ctx, repos.EmployeeQuery{BranchID: req.BranchId, ActiveOnly: true})
	if err != nil {
		return nil, server.ToStatus(err, "list employees")
	}
	if len(employees) == 0 {
		return nil, status.Errorf(codes.FailedPrecondition, "Branch %d has no active employees", req.BranchId)
	}

	ids := make([]int64, 0, len(employees))
	for _, e := range employees {
		ids = append(ids, e.ID)
	}
	from, to := period.Bounds(h.loc)
	records, err := h.Records.ForEmployees(ctx, ids, from, to)
	if err != nil {
		return nil, server.ToStatus(err, "load attendance")
	}
	advances, err := h.Advances.ForEmployees(ctx, ids, from, to)
	if err != nil {
		return nil, server.ToStatus(err, "load advances")
	}

	inputs := make([]timeclock.EmployeeInput, 0, len(employees))
	for _, e := range employees {
		inputs = append(inputs, timeclock.EmployeeInput{
			Employee: e.ToCore(),
			Records:  records[e.ID],
			Advances: advances[e.ID],
		})
	}
	result := timeclock.ComputeBatch(inputs, period, h.loc)

	now := h.now()
	draft := &rpc.PayrollDraft{
		Id:           h.newID(),
		BranchId:     req.BranchId,
		Period:       period,
		Calculations: result.Calculations,
		Failures:     result.Failures,
		TotalToPay:   result.Total(),
		CreatedBy:    req.CalculatedBy,
		CreatedAt:    now,
		ExpiresAt:    now.Add(h.draftTTL),
	}
	if err := h.Drafts.Save(ctx, draft, h.draftTTL); err != nil {
		return nil, server.ToStatus(err, "save payroll draft")
	}

	h.lg.Printf("payroll draft %s: branch %d, %s..%s, %d computed, %d failed, total %s",
		draft.Id, draft.BranchId, period.Start, period.End, len(result.Calculations), len(result.Failures), draft.TotalToPay.StringFixed(2))
	return &rpc.PayrollDraftResponse{Draft: draft}, nil
}

func (h *PayrollHandler) GetPayrollDraft(ctx context.Context, req *rpc.GetPayrollDraftRequest) (*rpc.PayrollDraftResponse, error) {
	if req.DraftId == "" {
		return nil, status.Error(codes.InvalidArgument, "Draft ID is required")
	}
	draft, err := h.Drafts.Load(ctx, req.DraftId)
	if err != nil {
		return nil, draftStatus(err, "load payroll draft")
	}
	return &rpc.PayrollDraftResponse{Draft: draft}, nil
}

// UpdateDeduction replaces the manual deduction of one employee in a draft.
// The total is recomputed from base and advances each time.
func (h *PayrollHandler) UpdateDeduction(ctx context.Context, req *rpc.UpdateDeductionRequest) (*rpc.PayrollDraftResponse, error) {
	if req.DraftId == "" {
		return nil, status.Error(codes.InvalidArgument, "Draft ID is required")
	}
	if req.EmployeeId <= 0 {
		return nil, status.Error(codes.InvalidArgument, "Employee ID is required")
	}

	unlock, err := h.lock(ctx, req.DraftId)
	if err != nil {
		return nil, err
	}
	defer unlock()

	draft, err := h.Drafts.Load(ctx, req.DraftId)
	if err != nil {
		return nil, draftStatus(err, "load payroll draft")
	}

	var calc *timeclock.Calculation
	for _, c := range draft.Calculations {
		if c.EmployeeID == req.EmployeeId {
			calc = c
			break
		}
	}
	if calc == nil {
		return nil, status.Errorf(codes.NotFound, "Employee %d is not part of draft %s", req.EmployeeId, req.DraftId)
	}
	if err := calc.ApplyDeduction(req.Amount, strings.TrimSpace(req.Reason)); err != nil {
		return nil, server.ToStatus(err, "update deduction")
	}
	draft.TotalToPay = draftTotal(draft.Calculations)

	if err := h.Drafts.Update(ctx, draft); err != nil {
		return nil, draftStatus(err, "save payroll draft")
	}
	return &rpc.PayrollDraftResponse{Draft: draft}, nil
}

func (h *PayrollHandler) lock(ctx context.Context, draftID string) (func(), error) {
	ok, err := h.Drafts.Lock(ctx, draftID, confirmLockTTL)
	if err != nil {
		return nil, server.ToStatus(err, "lock payroll draft")
	}
	if !ok {
		return nil, status.Errorf(codes.Aborted, "Payroll draft %s is busy, try again", draftID)
	}
	return func() {
		if err := h.Drafts.Unlock(context.Background(), draftID); err != nil {
			h.lg.Printf("unlock draft %s: %v", draftID, err)
		}
	}, nil
}

// --- Confirmation ---

// ConfirmPayroll persists every calculation of a draft in one transaction.
// On failure nothing is saved and the draft stays available for a retry.
func (h *PayrollHandler) ConfirmPayroll(ctx context.Context, req *rpc.ConfirmPayrollRequest) (*rpc.ConfirmPayrollResponse, error) {
	if req.DraftId == "" {
		return nil, status.Error(codes.InvalidArgument, "Draft ID is required")
	}
	generatedBy := strings.TrimSpace(req.GeneratedBy)
	if generatedBy == "" {
		return nil, status.Error(codes.InvalidArgument, "Generated by is required")
	}

	unlock, err := h.lock(ctx, req.DraftId)
	if err != nil {
		return nil, err
	}
	defer unlock()

	draft, err := h.Drafts.Load(ctx, req.DraftId)
	if err != nil {
		return nil, draftStatus(err, "load payroll draft")
	}
	rows, err := timeclock.ConfirmBatch(draft.Calculations, generatedBy)
	if err != nil {
		return nil, server.ToStatus(err, "confirm payroll")
	}

	total := draftTotal(draft.Calculations)
	audit := models.AuditLog{
		Action: repos.AuditPayrollGenerated,
		Details: models.AuditDetails{
			"draft_id":     draft.Id,
			"branch_id":    draft.BranchId,
			"period_start": draft.Period.Start.String(),
			"period_end":   draft.Period.End.String(),
			"period_kind":  string(draft.Period.Kind),
			"employees":    len(rows),
			"total_to_pay": total.StringFixed(2),
			"generated_by": generatedBy,
		},
	}
	saved, err := h.Payrolls.InsertBatch(ctx, rows, audit)
	if err != nil {
		h.lg.Printf("confirm draft %s failed, draft kept: %v", draft.Id, err)
		return nil, server.ToStatus(err, "save payroll")
	}

	if err := h.Drafts.Delete(ctx, draft.Id); err != nil {
		h.lg.Printf("delete confirmed draft %s: %v", draft.Id, err)
	}

	out := make([]*rpc.Payroll, 0, len(saved))
	names := make(map[int64]string, len(draft.Calculations))
	for _, c := range draft.Calculations {
		names[c.EmployeeID] = c.EmployeeName
	}
	for _, p := range saved {
		rp := PayrollToRPC(p)
		rp.EmployeeName = names[p.EmployeeID]
		out = append(out, rp)
	}

	h.lg.Printf("payroll draft %s confirmed by %s: %d rows, total %s", draft.Id, generatedBy, len(saved), total.StringFixed(2))
	return &rpc.ConfirmPayrollResponse{
		Payrolls:   out,
		SavedCount: int32(len(saved)),
		TotalToPay: total,
	}, nil
}

// --- Confirmed payrolls ---

func (h *PayrollHandler) GetPayroll(ctx context.Context, req *rpc.GetPayrollRequest) (*rpc.PayrollResponse, error) {
	if req.Id <= 0 {
		return nil, status.Error(codes.InvalidArgument, "Payroll ID is required")
	}
	if cached, ok := h.Cache.Get(ctx, req.Id); ok {
		return &rpc.PayrollResponse{Payroll: cached}, nil
	}

	p, err := h.Payrolls.Get(ctx, req.Id)
	if err != nil {
		return nil, server.ToStatus(err, "get payroll")
	}
	out := PayrollToRPC(*p)
	h.Cache.Set(ctx, out)
	return &rpc.PayrollResponse{Payroll: out}, nil
}

func (h *PayrollHandler) ListPayrolls(ctx context.Context, req *rpc.ListPayrollsRequest) (*rpc.ListPayrollsResponse, error) {
	st := timeclock.PayrollStatus(req.Status)
	if st != "" && !st.Valid() {
		return nil, status.Errorf(codes.InvalidArgument, "Unknown payroll status %q", req.Status)
	}
	start, end, err := server.ParseDateRange(req.DateRange, false)
	if err != nil {
		return nil, server.ToStatus(err, "list payrolls")
	}
	page, limit, offset := req.Pagination.Page()

	payrolls, total, sum, err := h.Payrolls.List(ctx, repos.PayrollQuery{
		BranchID:   req.BranchId,
		EmployeeID: req.EmployeeId,
		Status:     st,
		PeriodFrom: start,
		PeriodTo:   end,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, server.ToStatus(err, "list payrolls")
	}

	out := make([]*rpc.Payroll, 0, len(payrolls))
	for _, p := range payrolls {
		out = append(out, PayrollToRPC(p))
	}
	return &rpc.ListPayrollsResponse{
		Payrolls:   out,
		TotalToPay: sum.Round(2),
		Pagination: rpc.NewPaginationResponse(page, limit, total),
	}, nil
}

// MarkPayrollPaid moves a confirmed payroll to paid. Any other starting
// status is refused.
func (h *PayrollHandler) MarkPayrollPaid(ctx context.Context, req *rpc.MarkPayrollPaidRequest) (*rpc.PayrollResponse, error) {
	if req.Id <= 0 {
		return nil, status.Error(codes.InvalidArgument, "Payroll ID is required")
	}
	p, err := h.Payrolls.Transition(ctx, req.Id, timeclock.PayrollPaid, h.now())
	if err != nil {
		return nil, server.ToStatus(err, "mark payroll paid")
	}
	h.Cache.Invalidate(ctx, req.Id)

	if err := h.Audit.Record(ctx, repos.AuditPayrollPaid, models.AuditDetails{
		"payroll_id":   p.ID,
		"employee_id":  p.EmployeeID,
		"total_to_pay": p.TotalToPay.StringFixed(2),
		"paid_by":      req.PaidBy,
	}); err != nil {
		h.lg.Printf("audit payroll %d paid: %v", p.ID, err)
	}
	return &rpc.PayrollResponse{Payroll: PayrollToRPC(*p)}, nil
}

func PayrollToRPC(p models.Payroll) *rpc.Payroll {
	out := &rpc.Payroll{
		Id:               p.ID,
		EmployeeId:       p.EmployeeID,
		EmployeeName:     p.Employee.Name,
		BranchId:         p.BranchID,
		PeriodStart:      p.PeriodStart,
		PeriodEnd:        p.PeriodEnd,
		BaseSalary:       p.BaseSalary,
		DaysWorked:       p.DaysWorked,
		TotalAdvances:    p.TotalAdvances,
		ManualDeductions: p.ManualDeductions,
		TotalToPay:       p.TotalToPay,
		Status:           p.Status,
		GeneratedBy:      p.GeneratedBy,
	}
	if p.DeductionReason != nil {
		out.DeductionReason = *p.DeductionReason
	}
	if p.CreatedAt != nil {
		out.CreatedAt = *p.CreatedAt
	}
	if p.UpdatedAt != nil {
		out.UpdatedAt = *p.UpdatedAt
	}
	return out
}

var _ rpc.PayrollServiceServer = (*PayrollHandler)(nil)
