package timeclock

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dailyEmployee(rate int64) *Employee {
	return &Employee{ID: 7, BranchID: 1, Name: "Ana", PaymentType: PaymentDaily, BaseSalary: decimal.NewFromInt(rate), IsActive: true}
}

func weeklyEmployee(rate int64) *Employee {
	return &Employee{ID: 8, BranchID: 1, Name: "Luis", PaymentType: PaymentWeekly, BaseSalary: decimal.NewFromInt(rate), IsActive: true}
}

func weeklyPeriod(t *testing.T) Period {
	t.Helper()
	p, err := ResolvePeriod(mustDate(t, "2024-03-04"), Date{}, PeriodWeekly)
	if err != nil {
		t.Fatalf("resolve period: %v", err)
	}
	return p
}

func TestResolvePeriod(t *testing.T) {
	start := mustDate(t, "2024-03-04")
	p, err := ResolvePeriod(start, Date{}, PeriodBiweekly)
	if err != nil {
		t.Fatalf("resolve period: %v", err)
	}
	if p.End.String() != "2024-03-17" || p.Days() != 14 {
		t.Fatalf("unexpected biweekly period %s..%s (%d days)", p.Start, p.End, p.Days())
	}

	if _, err := ResolvePeriod(Date{}, Date{}, PeriodWeekly); !IsValidation(err) {
		t.Fatalf("expected validation error for missing start, got %v", err)
	}
	if _, err := ResolvePeriod(start, mustDate(t, "2024-03-01"), PeriodWeekly); !IsValidation(err) {
		t.Fatalf("expected validation error for end before start, got %v", err)
	}
	if _, err := ResolvePeriod(start, Date{}, PeriodKind("monthly")); !IsValidation(err) {
		t.Fatalf("expected validation error for unknown kind, got %v", err)
	}
}

func TestComputePayrollDailyPaysEveryCalendarDay(t *testing.T) {
	calc, err := ComputePayroll(dailyEmployee(100), nil, nil, weeklyPeriod(t), testLoc)
	if err != nil {
		t.Fatalf("compute payroll: %v", err)
	}
	if !calc.TotalToPay.Equal(decimal.NewFromInt(700)) {
		t.Fatalf("expected 700, got %s", calc.TotalToPay)
	}
	if calc.DaysWorked != 0 || len(calc.Absences) != 6 {
		t.Fatalf("expected 0 worked days and 6 absences, got %d and %v", calc.DaysWorked, calc.Absences)
	}
}

func TestComputePayrollWeeklyBiweekly(t *testing.T) {
	period, err := ResolvePeriod(mustDate(t, "2024-03-04"), Date{}, PeriodBiweekly)
	if err != nil {
		t.Fatalf("resolve period: %v", err)
	}
	advances := []Advance{
		{ID: 1, EmployeeID: 8, Amount: decimal.NewFromInt(150), RecordedAt: at("2024-03-06", "10:00")},
		{ID: 2, EmployeeID: 8, Amount: decimal.NewFromInt(50), RecordedAt: at("2024-03-17", "23:00")},
		{ID: 3, EmployeeID: 8, Amount: decimal.NewFromInt(999), RecordedAt: at("2024-03-18", "00:10")},
	}
	calc, err := ComputePayroll(weeklyEmployee(1000), nil, advances, period, testLoc)
	if err != nil {
		t.Fatalf("compute payroll: %v", err)
	}
	if !calc.BaseSalary.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("expected base 2000, got %s", calc.BaseSalary)
	}
	if !calc.TotalAdvances.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected advances 200, got %s", calc.TotalAdvances)
	}
	if err := calc.ApplyDeduction(decimal.NewFromInt(25), "broken glass"); err != nil {
		t.Fatalf("apply deduction: %v", err)
	}
	if !calc.TotalToPay.Equal(decimal.NewFromInt(1775)) {
		t.Fatalf("expected 1775, got %s", calc.TotalToPay)
	}
}

func TestApplyDeductionIsIdempotent(t *testing.T) {
	advances := []Advance{{ID: 1, EmployeeID: 7, Amount: decimal.NewFromInt(120), RecordedAt: at("2024-03-05", "12:00")}}
	calc, err := ComputePayroll(dailyEmployee(100), nil, advances, weeklyPeriod(t), testLoc)
	if err != nil {
		t.Fatalf("compute payroll: %v", err)
	}
	expected := calc.BaseSalary.Sub(calc.TotalAdvances)

	for i := 0; i < 3; i++ {
		if err := calc.ApplyDeduction(decimal.NewFromInt(50), "late"); err != nil {
			t.Fatalf("apply deduction: %v", err)
		}
	}
	if !calc.TotalToPay.Equal(expected.Sub(decimal.NewFromInt(50))) {
		t.Fatalf("deduction accumulated: %s", calc.TotalToPay)
	}

	if err := calc.ApplyDeduction(decimal.Zero, ""); err != nil {
		t.Fatalf("apply deduction: %v", err)
	}
	if !calc.TotalToPay.Equal(expected) {
		t.Fatalf("expected %s after reset, got %s", expected, calc.TotalToPay)
	}

	if err := calc.ApplyDeduction(decimal.NewFromInt(-1), ""); !IsValidation(err) {
		t.Fatalf("expected validation error for negative deduction, got %v", err)
	}
}

func TestComputePayrollCarriesAnomalies(t *testing.T) {
	records := []Record{
		punch(1, RecordEntry, "2024-03-04", "08:00"),
		punch(2, RecordExit, "2024-03-04", "17:00"),
		punch(3, RecordEntry, "2024-03-05", "08:00"),
		punch(4, RecordLunchStart, "2024-03-05", "13:00"),
	}
	calc, err := ComputePayroll(dailyEmployee(100), records, nil, weeklyPeriod(t), testLoc)
	if err != nil {
		t.Fatalf("compute payroll: %v", err)
	}
	if calc.DaysWorked != 2 {
		t.Fatalf("expected 2 worked days, got %d", calc.DaysWorked)
	}
	if len(calc.IncompleteShifts) != 2 {
		t.Fatalf("expected missing exit and lunch_end, got %v", calc.IncompleteShifts)
	}
	if !calc.TotalToPay.Equal(decimal.NewFromInt(700)) {
		t.Fatalf("anomalies must not change pay, got %s", calc.TotalToPay)
	}
	if got := calc.AbsenceAnomalies(); len(got) != len(calc.Absences) {
		t.Fatalf("expected one anomaly per absence")
	}
}

func TestComputePayrollValidation(t *testing.T) {
	if _, err := ComputePayroll(nil, nil, nil, weeklyPeriod(t), testLoc); err != ErrUnknownEmployee {
		t.Fatalf("expected unknown employee, got %v", err)
	}

	bad := dailyEmployee(100)
	bad.PaymentType = "hourly"
	if _, err := ComputePayroll(bad, nil, nil, weeklyPeriod(t), testLoc); !IsValidation(err) {
		t.Fatalf("expected validation error for payment type, got %v", err)
	}

	advances := []Advance{{ID: 9, Amount: decimal.Zero, RecordedAt: at("2024-03-05", "12:00")}}
	if _, err := ComputePayroll(dailyEmployee(100), nil, advances, weeklyPeriod(t), testLoc); !IsValidation(err) {
		t.Fatalf("expected validation error for zero advance, got %v", err)
	}

	if _, err := ComputePayroll(dailyEmployee(100), nil, nil, Period{}, testLoc); !IsValidation(err) {
		t.Fatalf("expected validation error for missing period, got %v", err)
	}
}

func TestComputeBatchIsolatesFailures(t *testing.T) {
	bad := *dailyEmployee(100)
	bad.ID = 9
	bad.PaymentType = ""
	inputs := []EmployeeInput{
		{Employee: *dailyEmployee(100)},
		{Employee: bad},
		{Employee: *weeklyEmployee(1000)},
	}
	res := ComputeBatch(inputs, weeklyPeriod(t), testLoc)
	if len(res.Calculations) != 2 || len(res.Failures) != 1 {
		t.Fatalf("expected 2 calculations and 1 failure, got %d and %d", len(res.Calculations), len(res.Failures))
	}
	if res.Failures[0].EmployeeID != 9 || res.Failures[0].Field != "payment_type" {
		t.Fatalf("unexpected failure %+v", res.Failures[0])
	}
	if !res.Total().Equal(decimal.NewFromInt(1700)) {
		t.Fatalf("expected total 1700, got %s", res.Total())
	}
}

func TestConfirmBatch(t *testing.T) {
	calc, err := ComputePayroll(dailyEmployee(100), nil, nil, weeklyPeriod(t), testLoc)
	if err != nil {
		t.Fatalf("compute payroll: %v", err)
	}
	rows, err := ConfirmBatch([]*Calculation{calc}, "admin")
	if err != nil {
		t.Fatalf("confirm batch: %v", err)
	}
	if rows[0].Status != PayrollConfirmed || rows[0].PeriodEnd.String() != "2024-03-10" {
		t.Fatalf("unexpected row %+v", rows[0])
	}
	if _, err := ConfirmBatch(nil, "admin"); !IsValidation(err) {
		t.Fatalf("expected validation error for empty batch, got %v", err)
	}
}

func TestPayrollStatusOnlyMovesForward(t *testing.T) {
	if !PayrollDraft.CanAdvanceTo(PayrollConfirmed) || !PayrollConfirmed.CanAdvanceTo(PayrollPaid) {
		t.Fatalf("expected forward transitions to be allowed")
	}
	if PayrollPaid.CanAdvanceTo(PayrollConfirmed) || PayrollConfirmed.CanAdvanceTo(PayrollDraft) || PayrollDraft.CanAdvanceTo(PayrollPaid) {
		t.Fatalf("expected backwards and skipping transitions to be refused")
	}
}
