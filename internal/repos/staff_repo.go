package repos

import (
	"context"
	"log"
	"strings"

	"gorm.io/gorm"

	"timeclock-system/internal/database/models"
	"timeclock-system/internal/timeclock"
)

type StaffRepo struct {
	db *gorm.DB
	lg *log.Logger
}

func NewStaffRepo(db *gorm.DB, lg *log.Logger) *StaffRepo {
	return &StaffRepo{db: db, lg: lg}
}

func (r *StaffRepo) CreateBranch(ctx context.Context, b *models.Branch) error {
	return timeclock.NewWriteError("create branch", r.db.WithContext(ctx).Create(b).Error)
}

func (r *StaffRepo) GetBranch(ctx context.Context, id int64) (*models.Branch, error) {
	var b models.Branch
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (r *StaffRepo) SaveBranch(ctx context.Context, b *models.Branch) error {
	return timeclock.NewWriteError("update branch", r.db.WithContext(ctx).Save(b).Error)
}

func (r *StaffRepo) ListBranches(ctx context.Context) ([]models.Branch, error) {
	var branches []models.Branch
	err := r.db.WithContext(ctx).Order("name asc").Find(&branches).Error
	return branches, err
}

func (r *StaffRepo) CreateEmployee(ctx context.Context, e *models.Employee) error {
	return timeclock.NewWriteError("create employee", r.db.WithContext(ctx).Omit("Branch").Create(e).Error)
}

func (r *StaffRepo) GetEmployee(ctx context.Context, id int64) (*models.Employee, error) {
	var e models.Employee
	if err := r.db.WithContext(ctx).Preload("Branch").First(&e, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

func (r *StaffRepo) SaveEmployee(ctx context.Context, e *models.Employee) error {
	return timeclock.NewWriteError("update employee", r.db.WithContext(ctx).Omit("Branch").Save(e).Error)
}

// EmployeeQuery filters ListEmployees.
type EmployeeQuery struct {
	BranchID   int64
	ActiveOnly bool
	Search     string
	Limit      int
	Offset     int
}

func (r *StaffRepo) ListEmployees(ctx context.Context, q EmployeeQuery) ([]models.Employee, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Employee{})
	if q.BranchID > 0 {
		query = query.Where("branch_id = ?", q.BranchID)
	}
	if q.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		query = query.Where("name ILIKE ?", "%"+s+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var employees []models.Employee
	err := Filter{Limit: q.Limit, Offset: q.Offset}.page(query).
		Preload("Branch").
		Order("name asc").
		Find(&employees).Error
	return employees, total, err
}
