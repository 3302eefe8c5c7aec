package repos

import (
	"context"
	"log"

	"gorm.io/gorm"

	"timeclock-system/internal/database/models"
	"timeclock-system/internal/timeclock"
)

const (
	AuditPayrollGenerated = "payroll_generated"
	AuditPayrollPaid      = "payroll_paid"
	AuditBranchCreated    = "branch_created"
	AuditBranchUpdated    = "branch_updated"
	AuditEmployeeCreated  = "employee_created"
	AuditEmployeeUpdated  = "employee_updated"
	AuditEmployeeDisabled = "employee_deactivated"
)

type AuditRepo struct {
	db *gorm.DB
	lg *log.Logger
}

func NewAuditRepo(db *gorm.DB, lg *log.Logger) *AuditRepo {
	return &AuditRepo{db: db, lg: lg}
}

func (r *AuditRepo) Record(ctx context.Context, action string, details models.AuditDetails) error {
	entry := models.AuditLog{Action: action, Details: details}
	return timeclock.NewWriteError("write audit log", r.db.WithContext(ctx).Create(&entry).Error)
}
