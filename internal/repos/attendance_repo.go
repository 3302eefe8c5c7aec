package repos

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"timeclock-system/internal/database/models"
	"timeclock-system/internal/timeclock"
)

type AttendanceRepo struct {
	db *gorm.DB
	lg *log.Logger
}

func NewAttendanceRepo(db *gorm.DB, lg *log.Logger) *AttendanceRepo {
	return &AttendanceRepo{db: db, lg: lg}
}

// PunchDecider picks the type of the punch to append given the employee and
// their most recent record, which is nil when they have none.
type PunchDecider func(emp timeclock.Employee, last *timeclock.Record) (timeclock.RecordType, error)

// AppendPunch reads the latest record and appends the next one while holding
// a lock on the employee row, so concurrent terminals serialize per employee.
func (r *AttendanceRepo) AppendPunch(ctx context.Context, employeeID int64, at time.Time, decide PunchDecider) (*models.AttendanceRecord, error) {
	var record models.AttendanceRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var emp models.Employee
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&emp, employeeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return timeclock.ErrUnknownEmployee
			}
			return err
		}

		var last *timeclock.Record
		var latest models.AttendanceRecord
		err := tx.Where("employee_id = ?", employeeID).
			Order("recorded_at desc, id desc").
			Take(&latest).Error
		switch {
		case err == nil:
			core := latest.ToCore()
			last = &core
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		typ, err := decide(emp.ToCore(), last)
		if err != nil {
			return err
		}

		record = models.AttendanceRecord{
			EmployeeID: emp.ID,
			BranchID:   emp.BranchID,
			RecordType: string(typ),
			RecordedAt: at,
		}
		if err := tx.Omit("Employee").Create(&record).Error; err != nil {
			return timeclock.NewWriteError("append attendance", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// LastRecord returns nil without error when the employee has no records.
func (r *AttendanceRepo) LastRecord(ctx context.Context, employeeID int64) (*timeclock.Record, error) {
	var latest models.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("recorded_at desc, id desc").
		Take(&latest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	core := latest.ToCore()
	return &core, nil
}

func (r *AttendanceRepo) List(ctx context.Context, f Filter) ([]models.AttendanceRecord, int64, error) {
	query := f.apply(r.db.WithContext(ctx).Model(&models.AttendanceRecord{}), "recorded_at")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.AttendanceRecord
	err := f.page(query).
		Preload("Employee").
		Order("recorded_at desc, id desc").
		Find(&records).Error
	return records, total, err
}

// ForEmployees loads the records in [from, to) grouped by employee.
func (r *AttendanceRepo) ForEmployees(ctx context.Context, employeeIDs []int64, from, to time.Time) (map[int64][]timeclock.Record, error) {
	out := make(map[int64][]timeclock.Record, len(employeeIDs))
	if len(employeeIDs) == 0 {
		return out, nil
	}
	var rows []models.AttendanceRecord
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
