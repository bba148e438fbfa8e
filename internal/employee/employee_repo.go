package employee

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, empl *Employee) error
	FindByID(ctx context.Context, id uuid.UUID) (*Employee, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Employee, error)
	FindAll(ctx context.Context, filter ListFilter) ([]Employee, error)
	FindByManager(ctx context.Context, managerID uuid.UUID) ([]Employee, error)
	DepartmentIsActive(ctx context.Context, departmentID uuid.UUID) (bool, error)
	Update(ctx context.Context, empl *Employee) error
	DashboardStats(ctx context.Context, id uuid.UUID, from, to time.Time) (DashboardStats, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, empl *Employee) error {
	return r.db.WithContext(ctx).Create(empl).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Employee, error) {
	var empl Employee
	err := r.db.WithContext(ctx).First(&empl, "id = ?", id).Error
	return &empl, err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Employee, error) {
	var empl Employee
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&empl, "id = ?", id).Error
	return &empl, err
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]Employee, error) {
	q := r.db.WithContext(ctx).Model(&Employee{})

	if !filter.IncludeTerminated && filter.Status != StatusTerminated {
		q = q.Where("status <> ?", StatusTerminated)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.DepartmentID != "" {
		q = q.Where("department_id = ?", filter.DepartmentID)
	}
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}
	if term := filter.normalizedQuery(); term != "" {
		like := "%" + term + "%"
		q = q.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(employee_code) LIKE ?",
			like, like, like, like,
		)
	}

	var empls []Employee
	err := q.Order("first_name ASC, last_name ASC").Find(&empls).Error
	return empls, err
}

func (r *repository) FindByManager(ctx context.Context, managerID uuid.UUID) ([]Employee, error) {
	var empls []Employee
	err := r.db.WithContext(ctx).
		Where("manager_id = ?", managerID).
		Where("status <> ?", StatusTerminated).
		Order("first_name ASC").
		Find(&empls).Error
	return empls, err
}

func (r *repository) DepartmentIsActive(ctx context.Context, departmentID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("departments").
		Where("id = ? AND is_active = ?", departmentID, true).
		Count(&count).Error
	return count > 0, err
}

// Update writes every column except the credentials and audit timestamps.
func (r *repository) Update(ctx context.Context, empl *Employee) error {
	return r.db.WithContext(ctx).
		Omit("password_hash", "last_login_at", "created_at").
		Save(empl).Error
}

func (r *repository) DashboardStats(ctx context.Context, id uuid.UUID, from, to time.Time) (DashboardStats, error) {
	var stats DashboardStats
	db := r.db.WithContext(ctx)

	var att struct {
		Days  int64
		Late  int64
		Hours float64
	}
	err := db.Table("attendance_records").
		Select("COUNT(*) AS days, COUNT(*) FILTER (WHERE status = 'late') AS late, COALESCE(SUM(total_hours), 0) AS hours").
		Where("employee_id = ? AND attendance_date BETWEEN ? AND ?", id, from, to).
		Scan(&att).Error
	if err != nil {
		return stats, err
	}
	stats.AttendanceDays = att.Days
	stats.LateDays = att.Late
	stats.HoursWorked = att.Hours

	err = db.Table("leave_requests").
		Where("employee_id = ? AND status = ?", id, "pending").
		Count(&stats.PendingLeaves).Error
	if err != nil {
		return stats, err
	}

	yearStart := time.Date(from.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	err = db.Table("leave_requests").
		Select("COALESCE(SUM(total_days), 0)").
		Where("employee_id = ? AND status = ? AND start_date >= ?", id, "approved", yearStart).
		Scan(&stats.LeaveTakenYTD).Error
	if err != nil {
		return stats, err
	}

	var payroll []PayrollSnapshot
	err = db.Table("payroll_records").
		Select("period_month, period_year, net_salary, payment_status").
		Where("employee_id = ?", id).
		Order("period_year DESC, period_month DESC").
		Limit(1).
		Scan(&payroll).Error
	if err != nil {
		return stats, err
	}
	if len(payroll) > 0 {
		stats.LatestPayroll = &payroll[0]
	}

	return stats, nil
}
