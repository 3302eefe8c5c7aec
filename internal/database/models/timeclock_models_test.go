package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"timeclock-system/internal/timeclock"
)

func TestAuditDetailsRoundTrip(t *testing.T) {
	details := AuditDetails{"draft_id": "d1", "employees": 3}
	v, err := details.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var back AuditDetails
	if err := back.Scan([]byte(v.(string))); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if back["draft_id"] != "d1" || back["employees"] != float64(3) {
		t.Fatalf("unexpected details %v", back)
	}

	if err := back.Scan(nil); err != nil || len(back) != 0 {
		t.Fatalf("expected empty details from NULL, got %v (%v)", back, err)
	}
	if err := back.Scan(42); err == nil {
		t.Fatalf("expected an error for an unsupported type")
	}
	if v, _ := AuditDetails(nil).Value(); v != "{}" {
		t.Fatalf("expected {} for nil details, got %v", v)
	}
}

func TestPayrollFromCore(t *testing.T) {
	start, _ := timeclock.ParseDate("2024-03-04")
	p := PayrollFromCore(timeclock.Payroll{
		EmployeeID:       7,
		BranchID:         1,
		PeriodStart:      start,
		PeriodEnd:        start.AddDays(6),
		BaseSalary:       decimal.NewFromInt(700),
		DaysWorked:       5,
		TotalAdvances:    decimal.NewFromInt(100),
		ManualDeductions: decimal.Zero,
		TotalToPay:       decimal.NewFromInt(600),
		Status:           timeclock.PayrollConfirmed,
		GeneratedBy:      "admin",
	})
	if p.DeductionReason != nil {
		t.Fatalf("expected no deduction reason for an empty string")
	}
	if p.Status != "confirmed" || p.DaysWorked != 5 || p.PeriodEnd.String() != "2024-03-10" {
		t.Fatalf("unexpected row %+v", p)
	}
}

func TestRecordToCoreKeepsInsertionOrder(t *testing.T) {
	at := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	r := AttendanceRecord{ID: 42, EmployeeID: 7, BranchID: 1, RecordType: "entry", RecordedAt: at}.ToCore()
	if r.Seq != 42 || r.Type != timeclock.RecordEntry || !r.RecordedAt.Equal(at) {
		t.Fatalf("unexpected record %+v", r)
	}

	reason := "gas"
	a := SalaryAdvance{ID: 3, Amount: decimal.NewFromInt(50), Reason: &reason}.ToCore()
	if a.Reason != "gas" {
		t.Fatalf("unexpected advance %+v", a)
	}
}
