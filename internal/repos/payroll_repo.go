package repos

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"timeclock-system/internal/database/models"
	"timeclock-system/internal/timeclock"
)

type PayrollRepo struct {
	db *gorm.DB
	lg *log.Logger
}

func NewPayrollRepo(db *gorm.DB, lg *log.Logger) *PayrollRepo {
	return &PayrollRepo{db: db, lg: lg}
}

// InsertBatch writes every payroll row and the audit entry in one transaction.
// On error nothing from the batch is saved.
func (r *PayrollRepo) InsertBatch(ctx context.Context, rows []timeclock.Payroll, audit models.AuditLog) ([]models.Payroll, error) {
	batch := make([]models.Payroll, 0, len(rows))
	for _, row := range rows {
		batch = append(batch, models.PayrollFromCore(row))
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Employee").Create(&batch).Error; err != nil {
			return err
		}
		return tx.Create(&audit).Error
	})
	if err != nil {
		r.lg.Printf("payroll batch of %d rows rolled back: %v", len(rows), err)
		return nil, timeclock.NewWriteError("insert payroll batch", err)
	}
	return batch, nil
}

func (r *PayrollRepo) Get(ctx context.Context, id int64) (*models.Payroll, error) {
	var p models.Payroll
	if err := r.db.WithContext(ctx).Preload("Employee").First(&p, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// PayrollQuery filters List. Dates select payrolls whose period starts in
// [PeriodFrom, PeriodTo].
type PayrollQuery struct {
	BranchID   int64
	EmployeeID int64
	Status     timeclock.PayrollStatus
	PeriodFrom timeclock.Date
	PeriodTo   timeclock.Date
	Limit      int
	Offset     int
}

func (q PayrollQuery) apply(db *gorm.DB) *gorm.DB {
	db = Filter{BranchID: q.BranchID, EmployeeID: q.EmployeeID}.apply(db, "")
	if q.Status != "" {
		db = db.Where("status = ?", string(q.Status))
	}
	if !q.PeriodFrom.IsZero() {
		db = db.Where("period_start >= ?", q.PeriodFrom)
	}
	if !q.PeriodTo.IsZero() {
		db = db.Where("period_start <= ?", q.PeriodTo)
	}
	return db
}

// List returns one page of payrolls and the amount to pay over every matching row.
func (r *PayrollRepo) List(ctx context.Context, q PayrollQuery) ([]models.Payroll, int64, decimal.Decimal, error) {
	query := q.apply(r.db.WithContext(ctx).Model(&models.Payroll{}))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, decimal.Zero, err
	}

	sum := decimal.Zero
	err := q.apply(r.db.WithContext(ctx).Model(&models.Payroll{})).
		Select("COALESCE(SUM(total_to_pay), 0)").
		Row().
		Scan(&sum)
	if err != nil {
		return nil, 0, decimal.Zero, err
	}

	var payrolls []models.Payroll
	err = Filter{Limit: q.Limit, Offset: q.Offset}.page(query).
		Preload("Employee").
		Order("period_start desc, id desc").
		Find(&payrolls).Error
	return payrolls, total, sum, err
}

// Transition moves a payroll one status forward under a row lock.
func (r *PayrollRepo) Transition(ctx context.Context, id int64, to timeclock.PayrollStatus, at time.Time) (*models.Payroll, error) {
	var p models.Payroll
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error; err != nil {
			return notFound(err)
		}
		from := timeclock.PayrollStatus(p.Status)
		if !from.CanAdvanceTo(to) {
			return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, from, to)
		}
		updates := map[string]interface{}{"status": string(to)}
		if to == timeclock.PayrollPaid {
			updates["paid_at"] = at
		}
		if err := tx.Model(&p).Updates(updates).Error; err != nil {
			return timeclock.NewWriteError("update payroll status", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}
