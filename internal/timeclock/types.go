package timeclock

import (
	"time"

	"github.com/shopspring/decimal"
)

type RecordType string

const (
	RecordEntry      RecordType = "entry"
	RecordLunchStart RecordType = "lunch_start"
	RecordLunchEnd   RecordType = "lunch_end"
	RecordExit       RecordType = "exit"
)

func (t RecordType) Valid() bool {
	switch t {
	case RecordEntry, RecordLunchStart, RecordLunchEnd, RecordExit:
		return true
	}
	return false
}

type PaymentType string

const (
	PaymentDaily  PaymentType = "daily"
	PaymentWeekly PaymentType = "weekly"
)

func (p PaymentType) Valid() bool {
	return p == PaymentDaily || p == PaymentWeekly
}

type PeriodKind string

const (
	PeriodWeekly   PeriodKind = "weekly"
	PeriodBiweekly PeriodKind = "biweekly"
)

func (k PeriodKind) Valid() bool {
	return k == PeriodWeekly || k == PeriodBiweekly
}

// Length is the number of calendar days a period of this kind spans.
func (k PeriodKind) Length() int {
	if k == PeriodBiweekly {
		return 14
	}
	return 7
}

// WeeklyMultiplier is how many weekly salaries a period of this kind pays.
func (k PeriodKind) WeeklyMultiplier() int64 {
	if k == PeriodBiweekly {
		return 2
	}
	return 1
}

type PayrollStatus string

const (
	PayrollDraft     PayrollStatus = "draft"
	PayrollConfirmed PayrollStatus = "confirmed"
	PayrollPaid      PayrollStatus = "paid"
)

func (s PayrollStatus) rank() int {
	switch s {
	case PayrollDraft:
		return 1
	case PayrollConfirmed:
		return 2
	case PayrollPaid:
		return 3
	}
	return 0
}

func (s PayrollStatus) Valid() bool {
	return s.rank() > 0
}

// CanAdvanceTo reports whether a payroll may move from s to next. Status only
// moves forward, one step at a time.
func (s PayrollStatus) CanAdvanceTo(next PayrollStatus) bool {
	return s.Valid() && next.rank() == s.rank()+1
}

type Employee struct {
	ID          int64
	BranchID    int64
	Name        string
	Position    string
	PaymentType PaymentType
	BaseSalary  decimal.Decimal
	IsActive    bool
}

// Record is a single punch. Seq breaks ties between punches with the same
// timestamp and follows insertion order.
type Record struct {
	ID         int64
	EmployeeID int64
	BranchID   int64
	Type       RecordType
	RecordedAt time.Time
	Seq        int64
}

type Advance struct {
	ID         int64
	EmployeeID int64
	BranchID   int64
	Amount     decimal.Decimal
	Reason     string
	RecordedAt time.Time
}

type AnomalyKind string

const (
	AnomalyMissingExit     AnomalyKind = "missing_exit"
	AnomalyMissingLunchEnd AnomalyKind = "missing_lunch_end"
	AnomalyAbsence         AnomalyKind = "absence"
	AnomalyOutOfSequence   AnomalyKind = "out_of_sequence"
	AnomalyUnknownType     AnomalyKind = "unknown_record_type"
)

// Anomaly is an advisory finding about attendance data. It never blocks a computation.
type Anomaly struct {
	Date        Date        `json:"date"`
	Kind        AnomalyKind `json:"kind"`
	Description string      `json:"description"`
}
