// Package repos implements the record store on top of gorm.
package repos

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

// ErrInvalidTransition is returned when a payroll status change would move
// backwards or skip a step.
var ErrInvalidTransition = errors.New("invalid payroll status transition")

// Filter narrows list queries. Zero values mean "any".
type Filter struct {
	BranchID   int64
	EmployeeID int64
	From       time.Time
	To         time.Time
	Limit      int
	Offset     int
}

func (f Filter) apply(q *gorm.DB, timeColumn string) *gorm.DB {
	if f.BranchID > 0 {
		q = q.Where("branch_id = ?", f.BranchID)
	}
	if f.EmployeeID > 0 {
		q = q.Where("employee_id = ?", f.EmployeeID)
	}
	if !f.From.IsZero() {
		q = q.Where(timeColumn+" >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where(timeColumn+" < ?", f.To)
	}
	return q
}

func (f Filter) page(q *gorm.DB) *gorm.DB {
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	return q
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
