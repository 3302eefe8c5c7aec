package repos

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"timeclock-system/internal/database/models"
	"timeclock-system/internal/timeclock"
)

type AdvanceRepo struct {
	db *gorm.DB
	lg *log.Logger
}

func NewAdvanceRepo(db *gorm.DB, lg *log.Logger) *AdvanceRepo {
	return &AdvanceRepo{db: db, lg: lg}
}

func (r *AdvanceRepo) Create(ctx context.Context, a *models.SalaryAdvance) error {
	return timeclock.NewWriteError("record advance", r.db.WithContext(ctx).Omit("Employee").Create(a).Error)
}

// List returns one page of advances and the sum over every matching row.
func (r *AdvanceRepo) List(ctx context.Context, f Filter) ([]models.SalaryAdvance, int64, decimal.Decimal, error) {
	query := f.apply(r.db.WithContext(ctx).Model(&models.SalaryAdvance{}), "recorded_at")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, decimal.Zero, err
	}

	sum := decimal.Zero
	err := f.apply(r.db.WithContext(ctx).Model(&models.SalaryAdvance{}), "recorded_at").
		Select("COALESCE(SUM(amount), 0)").
		Row().
		Scan(&sum)
	if err != nil {
		return nil, 0, decimal.Zero, err
	}

	var advances []models.SalaryAdvance
	err = f.page(query).
		Preload("Employee").
		Order("recorded_at desc, id desc").
		Find(&advances).Error
	return advances, total, sum, err
}

// ForEmployees loads the advances in [from, to) grouped by employee.
func (r *AdvanceRepo) ForEmployees(ctx context.Context, employeeIDs []int64, from, to time.Time) (map[int64][]timeclock.Advance, error) {
	out := make(map[int64][]timeclock.Advance, len(employeeIDs))
	if len(employeeIDs) == 0 {
		return out, nil
	}
	var rows []models.SalaryAdvance
	err := r.db.WithContext(ctx).
		Where("employee_id IN ? AND recorded_at >= ? AND recorded_at < ?", employeeIDs, from, to).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.EmployeeID] = append(out[row.EmployeeID], row.ToCore())
	}
	return out, nil
}
