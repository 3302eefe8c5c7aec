package timeclock

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Period is an inclusive range of calendar days paid together.
type Period struct {
	Start Date       `json:"start"`
	End   Date       `json:"end"`
	Kind  PeriodKind `json:"kind"`
}

// ResolvePeriod builds a period starting at start. When end is zero it is
// derived from kind: weekly spans 7 days, biweekly 14.
func ResolvePeriod(start, end Date, kind PeriodKind) (Period, error) {
	if start.IsZero() {
		return Period{}, invalid("period_start", "is required")
	}
	if !kind.Valid() {
		return Period{}, invalid("period_kind", "must be weekly or biweekly, got %q", kind)
	}
	if end.IsZero() {
		end = start.AddDays(kind.Length() - 1)
	}
	p := Period{Start: start, End: end, Kind: kind}
	return p, p.Validate()
}

func (p Period) Validate() error {
	if p.Start.IsZero() {
		return invalid("period_start", "is required")
	}
	if p.End.IsZero() {
		return invalid("period_end", "is required")
	}
	if p.End.Before(p.Start) {
		return invalid("period_end", "%s is before period start %s", p.End, p.Start)
	}
	if !p.Kind.Valid() {
		return invalid("period_kind", "must be weekly or biweekly, got %q", p.Kind)
	}
	return nil
}

// Days is the inclusive number of calendar days in the period.
func (p Period) Days() int {
	return DaysInPeriod(p.Start, p.End)
}

// Bounds returns the half-open instant range [from, to) covering the period in loc.
func (p Period) Bounds(loc *time.Location) (time.Time, time.Time) {
	return p.Start.Start(loc), p.End.AddDays(1).Start(loc)
}

// Calculation is the payroll of one employee for one period before it is confirmed.
type Calculation struct {
	EmployeeID       int64           `json:"employee_id"`
	BranchID         int64           `json:"branch_id"`
	EmployeeName     string          `json:"employee_name"`
	PaymentType      PaymentType     `json:"payment_type"`
	Rate             decimal.Decimal `json:"rate"`
	Period           Period          `json:"period"`
	DaysInPeriod     int             `json:"days_in_period"`
	DaysWorked       int             `json:"days_worked"`
	BaseSalary       decimal.Decimal `json:"base_salary"`
	TotalAdvances    decimal.Decimal `json:"total_advances"`
	ManualDeduction  decimal.Decimal `json:"manual_deduction"`
	DeductionReason  string          `json:"deduction_reason"`
	TotalToPay       decimal.Decimal `json:"total_to_pay"`
	Absences         []Date          `json:"absences"`
	IncompleteShifts []Anomaly       `json:"incomplete_shifts"`
	Irregularities   []Anomaly       `json:"irregularities"`
}

// ComputePayroll derives the payroll of emp over period. Absences and
// incomplete shifts are reported for a human to act on; they never change the
// arithmetic by themselves.
func ComputePayroll(emp *Employee, records []Record, advances []Advance, period Period, loc *time.Location) (*Calculation, error) {
	if emp == nil || emp.ID <= 0 {
		return nil, ErrUnknownEmployee
	}
	if err := period.Validate(); err != nil {
		return nil, err
	}
	if !emp.PaymentType.Valid() {
		return nil, invalid("payment_type", "must be daily or weekly, got %q", emp.PaymentType)
	}
	if emp.BaseSalary.IsNegative() {
		return nil, invalid("base_salary", "must not be negative")
	}

	var inPeriod []Record
	for _, r := range records {
		if DateOf(r.RecordedAt, loc).Within(period.Start, period.End) {
			inPeriod = append(inPeriod, r)
		}
	}

	totalAdvances := decimal.Zero
	for _, a := range advances {
		if !a.Amount.IsPositive() {
			return nil, invalid("advance.amount", "advance %d has non-positive amount %s", a.ID, a.Amount.StringFixed(2))
		}
		if DateOf(a.RecordedAt, loc).Within(period.Start, period.End) {
			totalAdvances = totalAdvances.Add(a.Amount)
		}
	}

	var base decimal.Decimal
	switch emp.PaymentType {
	case PaymentDaily:
		base = emp.BaseSalary.Mul(decimal.NewFromInt(int64(period.Days())))
	case PaymentWeekly:
		base = emp.BaseSalary.Mul(decimal.NewFromInt(period.Kind.WeeklyMultiplier()))
	}

	calc := &Calculation{
		EmployeeID:       emp.ID,
		BranchID:         emp.BranchID,
		EmployeeName:     emp.Name,
		PaymentType:      emp.PaymentType,
		Rate:             emp.BaseSalary,
		Period:           period,
		DaysInPeriod:     period.Days(),
		DaysWorked:       len(WorkedDays(inPeriod, period.Start, period.End, loc)),
		BaseSalary:       base,
		TotalAdvances:    totalAdvances,
		ManualDeduction:  decimal.Zero,
		Absences:         Absences(inPeriod, period.Start, period.End, loc),
		IncompleteShifts: IncompleteShifts(inPeriod, loc),
		Irregularities:   Irregularities(inPeriod, loc),
	}
	calc.recompute()
	return calc, nil
}

func (c *Calculation) recompute() {
	c.TotalToPay = c.BaseSalary.Sub(c.TotalAdvances).Sub(c.ManualDeduction)
}

// ApplyDeduction replaces the manual deduction and recomputes the total from
// base and advances. Applying the same values twice yields the same total.
func (c *Calculation) ApplyDeduction(amount decimal.Decimal, reason string) error {
	if amount.IsNegative() {
		return invalid("manual_deduction", "must not be negative")
	}
	c.ManualDeduction = amount
	c.DeductionReason = reason
	c.recompute()
	return nil
}

// AbsenceAnomalies renders the absence list as anomalies for display next to
// the incomplete shifts.
func (c *Calculation) AbsenceAnomalies() []Anomaly {
	out := make([]Anomaly, 0, len(c.Absences))
	for _, d := range c.Absences {
		out = append(out, Anomaly{Date: d, Kind: AnomalyAbsence, Description: "absent"})
	}
	return out
}

// Payroll is a confirmed, persisted calculation.
type Payroll struct {
	ID               int64
	EmployeeID       int64
	BranchID         int64
	PeriodStart      Date
	PeriodEnd        Date
	BaseSalary       decimal.Decimal
	DaysWorked       int
	TotalAdvances    decimal.Decimal
	ManualDeductions decimal.Decimal
	DeductionReason  string
	TotalToPay       decimal.Decimal
	Status           PayrollStatus
	GeneratedBy      string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ConfirmBatch turns calculations into payroll rows with status confirmed.
// The rows must be written by the store in a single transaction.
func ConfirmBatch(calcs []*Calculation, generatedBy string) ([]Payroll, error) {
	if len(calcs) == 0 {
		return nil, invalid("calculations", "batch is empty")
	}
	if generatedBy == "" {
		return nil, invalid("generated_by", "is required")
	}
	rows := make([]Payroll, 0, len(calcs))
	for _, c := range calcs {
		rows = append(rows, Payroll{
			EmployeeID:       c.EmployeeID,
			BranchID:         c.BranchID,
			PeriodStart:      c.Period.Start,
			PeriodEnd:        c.Period.End,
			BaseSalary:       c.BaseSalary,
			DaysWorked:       c.DaysWorked,
			TotalAdvances:    c.TotalAdvances,
			ManualDeductions: c.ManualDeduction,
			DeductionReason:  c.DeductionReason,
			TotalToPay:       c.TotalToPay,
			Status:           PayrollConfirmed,
			GeneratedBy:      generatedBy,
		})
	}
	return rows, nil
}

// EmployeeInput is the materialized data needed to compute one employee.
type EmployeeInput struct {
	Employee Employee
	Records  []Record
	Advances []Advance
}

type EmployeeFailure struct {
	EmployeeID   int64  `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Field        string `json:"field,omitempty"`
	Reason       string `json:"reason"`
}

// FailureFor describes why emp could not be computed.
func FailureFor(emp Employee, err error) EmployeeFailure {
	f := EmployeeFailure{EmployeeID: emp.ID, EmployeeName: emp.Name, Reason: err.Error()}
	var v *ValidationError
	if errors.As(err, &v) {
		f.Field = v.Field
	}
	return f
}

type BatchResult struct {
	Calculations []*Calculation    `json:"calculations"`
	Failures     []EmployeeFailure `json:"failures"`
}

// ComputeBatch computes every input independently. An employee whose data
// fails validation lands in Failures and the rest are still computed.
func ComputeBatch(inputs []EmployeeInput, period Period, loc *time.Location) BatchResult {
	var res BatchResult
	for i := range inputs {
		in := inputs[i]
		calc, err := ComputePayroll(&in.Employee, in.Records, in.Advances, period, loc)
		if err != nil {
			res.Failures = append(res.Failures, FailureFor(in.Employee, err))
			continue
		}
		res.Calculations = append(res.Calculations, calc)
	}
	return res
}

// Total sums what the batch pays out.
func (r BatchResult) Total() decimal.Decimal {
	total := decimal.Zero
	for _, c := range r.Calculations {
		total = total.Add(c.TotalToPay)
	}
	return total
}
