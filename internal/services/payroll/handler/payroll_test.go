package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"timeclock-system/internal/database/models"
	"timeclock-system/internal/repos"
	"timeclock-system/internal/rpc"
	"timeclock-system/internal/timeclock"
)

var testLoc = time.FixedZone("CST", -6*60*60)

type memStaff struct {
	employees []models.Employee
}

func (m *memStaff) GetBranch(_ context.Context, id int64) (*models.Branch, error) {
	if id != 1 {
		return nil, repos.ErrNotFound
	}
	return &models.Branch{ID: 1, Name: "Centro"}, nil
}

func (m *memStaff) ListEmployees(_ context.Context, q repos.EmployeeQuery) ([]models.Employee, int64, error) {
	var out []models.Employee
	for _, e := range m.employees {
		if e.BranchID == q.BranchID && (!q.ActiveOnly || e.IsActive) {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

type memSources struct {
	records  map[int64][]timeclock.Record
	advances map[int64][]timeclock.Advance
}

type recordSource struct{ *memSources }

func (s recordSource) ForEmployees(_ context.Context, ids []int64, _, _ time.Time) (map[int64][]timeclock.Record, error) {
	return s.records, nil
}

type advanceSource struct{ *memSources }

func (s advanceSource) ForEmployees(_ context.Context, ids []int64, _, _ time.Time) (map[int64][]timeclock.Advance, error) {
	return s.advances, nil
}

type memPayrolls struct {
	rows       []models.Payroll
	audits     []models.AuditLog
	failInsert bool
	gets       int
}

func (m *memPayrolls) InsertBatch(_ context.Context, rows []timeclock.Payroll, audit models.AuditLog) ([]models.Payroll, error) {
	staged := make([]models.Payroll, 0, len(rows))
	for i, r := range rows {
		if m.failInsert && i == len(rows)-1 {
			return nil, timeclock.NewWriteError("insert payroll batch", errors.New("connection reset"))
		}
		p := models.PayrollFromCore(r)
		p.ID = int64(len(m.rows) + i + 1)
		staged = append(staged, p)
	}
	m.rows = append(m.rows, staged...)
	m.audits = append(m.audits, audit)
	return staged, nil
}

func (m *memPayrolls) Get(_ context.Context, id int64) (*models.Payroll, error) {
	m.gets++
	for _, p := range m.rows {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, repos.ErrNotFound
}

func (m *memPayrolls) List(_ context.Context, q repos.PayrollQuery) ([]models.Payroll, int64, decimal.Decimal, error) {
	sum := decimal.Zero
	var out []models.Payroll
	for _, p := range m.rows {
		if q.Status != "" && p.Status != string(q.Status) {
			continue
		}
		sum = sum.Add(p.TotalToPay)
		out = append(out, p)
	}
	return out, int64(len(out)), sum, nil
}

func (m *memPayrolls) Transition(_ context.Context, id int64, to timeclock.PayrollStatus, at time.Time) (*models.Payroll, error) {
	for i := range m.rows {
		if m.rows[i].ID != id {
			continue
		}
		from := timeclock.PayrollStatus(m.rows[i].Status)
		if !from.CanAdvanceTo(to) {
			return nil, fmt.Errorf("%w: %s to %s", repos.ErrInvalidTransition, from, to)
		}
		m.rows[i].Status = string(to)
		m.rows[i].PaidAt = &at
		cp := m.rows[i]
		return &cp, nil
	}
	return nil, repos.ErrNotFound
}

type memDrafts struct {
	drafts map[string][]byte
	locks  map[string]bool
}

func newMemDrafts() *memDrafts {
	return &memDrafts{drafts: map[string][]byte{}, locks: map[string]bool{}}
}

func (m *memDrafts) Save(_ context.Context, d *rpc.PayrollDraft, _ time.Duration) error {
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	m.drafts[d.Id] = data
	return nil
}

func (m *memDrafts) Update(ctx context.Context, d *rpc.PayrollDraft) error {
	if _, ok := m.drafts[d.Id]; !ok {
		return ErrDraftNotFound
	}
	return m.Save(ctx, d, 0)
}

func (m *memDrafts) Load(_ context.Context, id string) (*rpc.PayrollDraft, error) {
	data, ok := m.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	var d rpc.PayrollDraft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (m *memDrafts) Delete(_ context.Context, id string) error {
	delete(m.drafts, id)
	return nil
}

func (m *memDrafts) Lock(_ context.Context, id string, _ time.Duration) (bool, error) {
	if m.locks[id] {
		return false, nil
	}
	m.locks[id] = true
	return true, nil
}

func (m *memDrafts) Unlock(_ context.Context, id string) error {
	delete(m.locks, id)
	return nil
}

type memCache struct {
	items map[int64]*rpc.Payroll
}

func (c *memCache) Get(_ context.Context, id int64) (*rpc.Payroll, bool) {
	p, ok := c.items[id]
	return p, ok
}

func (c *memCache) Set(_ context.Context, p *rpc.Payroll) {
	c.items[p.Id] = p
}

func (c *memCache) Invalidate(_ context.Context, ids ...int64) {
	for _, id := range ids {
		delete(c.items, id)
	}
}

type memAudit struct {
	actions []string
}

func (a *memAudit) Record(_ context.Context, action string, _ models.AuditDetails) error {
	a.actions = append(a.actions, action)
	return nil
}

type fixture struct {
	h        *PayrollHandler
	payrolls *memPayrolls
	drafts   *memDrafts
	cache    *memCache
	audit    *memAudit
}

func newFixture() *fixture {
	staff := &memStaff{employees: []models.Employee{
		{ID: 7, BranchID: 1, Name: "Ana", PaymentType: "daily", BaseSalary: decimal.NewFromInt(100), IsActive: true},
		{ID: 8, BranchID: 1, Name: "Luis", PaymentType: "weekly", BaseSalary: decimal.NewFromInt(1000), IsActive: true},
		{ID: 9, BranchID: 1, Name: "Eva", PaymentType: "monthly", BaseSalary: decimal.NewFromInt(500), IsActive: true},
		{ID: 10, BranchID: 1, Name: "Old", PaymentType: "daily", BaseSalary: decimal.NewFromInt(100), IsActive: false},
	}}
	src := &memSources{
		records: map[int64][]timeclock.Record{
			7: {{ID: 1, EmployeeID: 7, Type: timeclock.RecordEntry, RecordedAt: time.Date(2024, 3, 4, 8, 0, 0, 0, testLoc)}},
		},
		advances: map[int64][]timeclock.Advance{
			8: {{ID: 1, EmployeeID: 8, Amount: decimal.NewFromInt(200), RecordedAt: time.Date(2024, 3, 6, 12, 0, 0, 0, testLoc)}},
		},
	}
	f := &fixture{
		payrolls: &memPayrolls{},
		drafts:   newMemDrafts(),
		cache:    &memCache{items: map[int64]*rpc.Payroll{}},
		audit:    &memAudit{},
	}
	f.h = NewPayrollHandler(Deps{
		Employees: staff,
		Records:   recordSource{src},
		Advances:  advanceSource{src},
		Payrolls:  f.payrolls,
		Drafts:    f.drafts,
		Cache:     f.cache,
		Audit:     f.audit,
	}, testLoc, time.Hour, log.New(io.Discard, "", 0))
	f.h.now = func() time.Time { return time.Date(2024, 3, 11, 9, 0, 0, 0, testLoc) }
	f.h.newID = func() string { return "draft-1" }
	return f
}

func (f *fixture) calculate(t *testing.T) *rpc.PayrollDraft {
	t.Helper()
	resp, err := f.h.CalculatePayroll(context.Background(), &rpc.CalculatePayrollRequest{
		BranchId:     1,
		PeriodStart:  "2024-03-04",
		PeriodKind:   "weekly",
		CalculatedBy: "admin",
	})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	return resp.Draft
}

func TestCalculatePayrollReportsFailuresPerEmployee(t *testing.T) {
	f := newFixture()
	draft := f.calculate(t)

	if draft.Period.End.String() != "2024-03-10" {
		t.Fatalf("expected derived end 2024-03-10, got %s", draft.Period.End)
	}
	if len(draft.Calculations) != 2 || len(draft.Failures) != 1 {
		t.Fatalf("expected 2 calculations and 1 failure, got %d and %d", len(draft.Calculations), len(draft.Failures))
	}
	if draft.Failures[0].EmployeeID != 9 || draft.Failures[0].Field != "payment_type" {
		t.Fatalf("unexpected failure %+v", draft.Failures[0])
	}
	// 100 x 7 days + (1000 - 200)
	if !draft.TotalToPay.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("expected 1500, got %s", draft.TotalToPay)
	}
	if _, ok := f.drafts.drafts["draft-1"]; !ok {
		t.Fatalf("expected draft to be stored")
	}
}

func TestCalculatePayrollValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	cases := []struct {
		req  rpc.CalculatePayrollRequest
		code codes.Code
	}{
		{rpc.CalculatePayrollRequest{PeriodStart: "2024-03-04", PeriodKind: "weekly"}, codes.InvalidArgument},
		{rpc.CalculatePayrollRequest{BranchId: 1, PeriodKind: "weekly"}, codes.InvalidArgument},
		{rpc.CalculatePayrollRequest{BranchId: 1, PeriodStart: "2024-03-04", PeriodKind: "monthly"}, codes.InvalidArgument},
		{rpc.CalculatePayrollRequest{BranchId: 1, PeriodStart: "2024-03-04", PeriodEnd: "2024-03-01", PeriodKind: "weekly"}, codes.InvalidArgument},
		{rpc.CalculatePayrollRequest{BranchId: 2, PeriodStart: "2024-03-04", PeriodKind: "weekly"}, codes.NotFound},
	}
	for i, tc := range cases {
		req := tc.req
		if _, err := f.h.CalculatePayroll(ctx, &req); status.Code(err) != tc.code {
			t.Fatalf("case %d: expected %s, got %v", i, tc.code, err)
		}
	}
}

func TestUpdateDeductionIsIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.calculate(t)

	for i := 0; i < 3; i++ {
		resp, err := f.h.UpdateDeduction(ctx, &rpc.UpdateDeductionRequest{DraftId: "draft-1", EmployeeId: 7, Amount: decimal.NewFromInt(50), Reason: "absent"})
		if err != nil {
			t.Fatalf("update deduction: %v", err)
		}
		if !resp.Draft.TotalToPay.Equal(decimal.NewFromInt(1450)) {
			t.Fatalf("expected 1450, got %s", resp.Draft.TotalToPay)
		}
	}

	resp, err := f.h.UpdateDeduction(ctx, &rpc.UpdateDeductionRequest{DraftId: "draft-1", EmployeeId: 7, Amount: decimal.Zero})
	if err != nil {
		t.Fatalf("reset deduction: %v", err)
	}
	if !resp.Draft.TotalToPay.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("expected 1500 after reset, got %s", resp.Draft.TotalToPay)
	}

	if _, err := f.h.UpdateDeduction(ctx, &rpc.UpdateDeductionRequest{DraftId: "draft-1", EmployeeId: 7, Amount: decimal.NewFromInt(-1)}); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
	if _, err := f.h.UpdateDeduction(ctx, &rpc.UpdateDeductionRequest{DraftId: "draft-1", EmployeeId: 9, Amount: decimal.NewFromInt(1)}); status.Code(err) != codes.NotFound {
		t.Fatalf("expected NotFound for failed employee, got %v", err)
	}
	if _, err := f.h.UpdateDeduction(ctx, &rpc.UpdateDeductionRequest{DraftId: "missing", EmployeeId: 7}); status.Code(err) != codes.NotFound {
		t.Fatalf("expected NotFound for missing draft, got %v", err)
	}
	if len(f.drafts.locks) != 0 {
		t.Fatalf("expected every lock to be released, got %v", f.drafts.locks)
	}
}

func TestConfirmPayrollIsAllOrNothing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.calculate(t)

	f.payrolls.failInsert = true
	if _, err := f.h.ConfirmPayroll(ctx, &rpc.ConfirmPayrollRequest{DraftId: "draft-1", GeneratedBy: "admin"}); status.Code(err) != codes.Internal {
		t.Fatalf("expected Internal, got %v", err)
	}
	if len(f.payrolls.rows) != 0 || len(f.payrolls.audits) != 0 {
		t.Fatalf("failed batch must save nothing, got %d rows", len(f.payrolls.rows))
	}
	if _, err := f.h.GetPayrollDraft(ctx, &rpc.GetPayrollDraftRequest{DraftId: "draft-1"}); err != nil {
		t.Fatalf("draft must survive a failed confirm: %v", err)
	}

	f.payrolls.failInsert = false
	resp, err := f.h.ConfirmPayroll(ctx, &rpc.ConfirmPayrollRequest{DraftId: "draft-1", GeneratedBy: "admin"})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if resp.SavedCount != 2 || !resp.TotalToPay.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("unexpected confirm response %+v", resp)
	}
	for _, p := range resp.Payrolls {
		if p.Status != string(timeclock.PayrollConfirmed) || p.GeneratedBy != "admin" || p.EmployeeName == "" {
			t.Fatalf("unexpected payroll %+v", p)
		}
	}
	if len(f.payrolls.audits) != 1 || f.payrolls.audits[0].Action != repos.AuditPayrollGenerated {
		t.Fatalf("expected one audit entry written with the batch, got %+v", f.payrolls.audits)
	}
	if _, err := f.h.GetPayrollDraft(ctx, &rpc.GetPayrollDraftRequest{DraftId: "draft-1"}); status.Code(err) != codes.NotFound {
		t.Fatalf("expected draft to be removed after confirm, got %v", err)
	}
	if _, err := f.h.ConfirmPayroll(ctx, &rpc.ConfirmPayrollRequest{DraftId: "draft-1", GeneratedBy: "admin"}); status.Code(err) != codes.NotFound {
		t.Fatalf("expected NotFound on second confirm, got %v", err)
	}
}

func TestConfirmPayrollRefusesConcurrentConfirm(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.calculate(t)

	f.drafts.locks["draft-1"] = true
	if _, err := f.h.ConfirmPayroll(ctx, &rpc.ConfirmPayrollRequest{DraftId: "draft-1", GeneratedBy: "admin"}); status.Code(err) != codes.Aborted {
		t.Fatalf("expected Aborted, got %v", err)
	}
	if len(f.payrolls.rows) != 0 {
		t.Fatalf("expected nothing saved")
	}
	if _, err := f.h.ConfirmPayroll(ctx, &rpc.ConfirmPayrollRequest{DraftId: "draft-1"}); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument without generated_by, got %v", err)
	}
}

func TestMarkPayrollPaid(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.calculate(t)
	confirmed, err := f.h.ConfirmPayroll(ctx, &rpc.ConfirmPayrollRequest{DraftId: "draft-1", GeneratedBy: "admin"})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	id := confirmed.Payrolls[0].Id

	if _, err := f.h.GetPayroll(ctx, &rpc.GetPayrollRequest{Id: id}); err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, err := f.h.GetPayroll(ctx, &rpc.GetPayrollRequest{Id: id}); err != nil {
		t.Fatalf("get: %v", err)
	}
	if f.payrolls.gets != 1 {
		t.Fatalf("expected second read to hit the cache, store was read %d times", f.payrolls.gets)
	}

	paid, err := f.h.MarkPayrollPaid(ctx, &rpc.MarkPayrollPaidRequest{Id: id, PaidBy: "admin"})
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if paid.Payroll.Status != string(timeclock.PayrollPaid) {
		t.Fatalf("expected paid, got %s", paid.Payroll.Status)
	}
	if _, ok := f.cache.items[id]; ok {
		t.Fatalf("expected cache entry to be invalidated")
	}
	if _, err := f.h.MarkPayrollPaid(ctx, &rpc.MarkPayrollPaidRequest{Id: id}); status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("expected FailedPrecondition for paid -> paid, got %v", err)
	}
	if _, err := f.h.MarkPayrollPaid(ctx, &rpc.MarkPayrollPaidRequest{Id: 404}); status.Code(err) != codes.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}

	list, err := f.h.ListPayrolls(ctx, &rpc.ListPayrollsRequest{Status: "confirmed"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.Payrolls) != 1 {
		t.Fatalf("expected 1 confirmed payroll left, got %d", len(list.Payrolls))
	}
	if _, err := f.h.ListPayrolls(ctx, &rpc.ListPayrollsRequest{Status: "void"}); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument for unknown status, got %v", err)
	}
}
