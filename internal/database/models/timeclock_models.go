package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"timeclock-system/internal/timeclock"
)

type Branch struct {
	ID        int64      `gorm:"primaryKey;autoIncrement"`
	Name      string     `gorm:"uniqueIndex;not null"`
	CreatedAt *time.Time `gorm:"autoCreateTime"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime"`
}

type Employee struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	BranchID    int64           `gorm:"index;not null"`
	Branch      Branch          `gorm:"foreignKey:BranchID"`
	Name        string          `gorm:"not null"`
	Position    string          `gorm:"column:position"`
	PaymentType string          `gorm:"type:varchar(16);not null"`
	BaseSalary  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	IsActive    bool            `gorm:"index;default:true"`
	CreatedAt   *time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   *time.Time      `gorm:"autoUpdateTime"`
}

func (e Employee) ToCore() timeclock.Employee {
	return timeclock.Employee{
		ID:          e.ID,
		BranchID:    e.BranchID,
		Name:        e.Name,
		Position:    e.Position,
		PaymentType: timeclock.PaymentType(e.PaymentType),
		BaseSalary:  e.BaseSalary,
		IsActive:    e.IsActive,
	}
}

// AttendanceRecord rows are append-only. ID doubles as the insertion sequence.
type AttendanceRecord struct {
	ID         int64      `gorm:"primaryKey;autoIncrement"`
	EmployeeID int64      `gorm:"index:idx_attendance_employee_time,priority:1;not null"`
	Employee   Employee   `gorm:"foreignKey:EmployeeID"`
	BranchID   int64      `gorm:"index;not null"`
	RecordType string     `gorm:"type:varchar(16);not null"`
	RecordedAt time.Time  `gorm:"index:idx_attendance_employee_time,priority:2;not null"`
	CreatedAt  *time.Time `gorm:"autoCreateTime"`
}

func (r AttendanceRecord) ToCore() timeclock.Record {
	return timeclock.Record{
		ID:         r.ID,
		EmployeeID: r.EmployeeID,
		BranchID:   r.BranchID,
		Type:       timeclock.RecordType(r.RecordType),
		RecordedAt: r.RecordedAt,
		Seq:        r.ID,
	}
}

type SalaryAdvance struct {
	ID         int64           `gorm:"primaryKey;autoIncrement"`
	EmployeeID int64           `gorm:"index:idx_advance_employee_time,priority:1;not null"`
	Employee   Employee        `gorm:"foreignKey:EmployeeID"`
	BranchID   int64           `gorm:"index;not null"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Reason     *string         `gorm:"type:text"`
	RecordedAt time.Time       `gorm:"index:idx_advance_employee_time,priority:2;not null"`
	CreatedAt  *time.Time      `gorm:"autoCreateTime"`
}

func (a SalaryAdvance) ToCore() timeclock.Advance {
	reason := ""
	if a.Reason != nil {
		reason = *a.Reason
	}
	return timeclock.Advance{
		ID:         a.ID,
		EmployeeID: a.EmployeeID,
		BranchID:   a.BranchID,
		Amount:     a.Amount,
		Reason:     reason,
		RecordedAt: a.RecordedAt,
	}
}

type Payroll struct {
	ID               int64           `gorm:"primaryKey;autoIncrement"`
	EmployeeID       int64           `gorm:"index;not null"`
	Employee         Employee        `gorm:"foreignKey:EmployeeID"`
	BranchID         int64           `gorm:"index;not null"`
	PeriodStart      timeclock.Date  `gorm:"type:date;index;not null"`
	PeriodEnd        timeclock.Date  `gorm:"type:date;not null"`
	BaseSalary       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DaysWorked       int32           `gorm:"not null"`
	TotalAdvances    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ManualDeductions decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DeductionReason  *string         `gorm:"type:text"`
	TotalToPay       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status           string          `gorm:"type:varchar(16);index;not null"`
	GeneratedBy      string          `gorm:"not null"`
	PaidAt           *time.Time
	CreatedAt        *time.Time `gorm:"autoCreateTime"`
	UpdatedAt        *time.Time `gorm:"autoUpdateTime"`
}

func PayrollFromCore(p timeclock.Payroll) Payroll {
	var reason *string
	if p.DeductionReason != "" {
		r := p.DeductionReason
		reason = &r
	}
	return Payroll{
		EmployeeID:       p.EmployeeID,
		BranchID:         p.BranchID,
		PeriodStart:      p.PeriodStart,
		PeriodEnd:        p.PeriodEnd,
		BaseSalary:       p.BaseSalary,
		DaysWorked:       int32(p.DaysWorked),
		TotalAdvances:    p.TotalAdvances,
		ManualDeductions: p.ManualDeductions,
		DeductionReason:  reason,
		TotalToPay:       p.TotalToPay,
		Status:           string(p.Status),
		GeneratedBy:      p.GeneratedBy,
	}
}

// AuditDetails is stored as a JSON document.
type AuditDetails map[string]interface{}

func (a *AuditDetails) Scan(value interface{}) error {
	if value == nil {
		*a = AuditDetails{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("failed to scan AuditDetails: %v", value)
	}
	return json.Unmarshal(bytes, a)
}

func (a AuditDetails) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

type AuditLog struct {
	ID        int64        `gorm:"primaryKey;autoIncrement"`
	Action    string       `gorm:"index;not null"`
	Details   AuditDetails `gorm:"type:jsonb"`
	CreatedAt *time.Time   `gorm:"autoCreateTime"`
}
