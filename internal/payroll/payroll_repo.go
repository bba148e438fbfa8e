package payroll

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, rec *Record) error
	Update(ctx context.Context, rec *Record) error
	FindByID(ctx context.Context, id uuid.UUID) (*Record, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Record, error)
	FindAll(ctx context.Context, filter ListFilter, employeeIDs []uuid.UUID) ([]Record, error)
	ExistsForPeriod(ctx context.Context, employeeID uuid.UUID, month, year int) (bool, error)
	EmployeeBasicSalary(ctx context.Context, employeeID uuid.UUID) (int64, error)
	PresentDays(ctx context.Context, employeeID uuid.UUID, month, year int) (int, error)
	MarkPaid(ctx context.Context, id uuid.UUID, changes map[string]any) (bool, error)
	SetPayslip(ctx context.Context, id uuid.UUID, url string, generatedAt time.Time) error
	FindPayslipSubject(ctx context.Context, id uuid.UUID) (*PayslipSubject, error)
	TeamMemberIDs(ctx context.Context, managerID uuid.UUID) ([]uuid.UUID, error)
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

func (r *repository) Create(ctx context.Context, rec *Record) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

// Update never touches payment or payslip columns; those have their own
// conditional writes.
func (r *repository) Update(ctx context.Context, rec *Record) error {
	return r.db.WithContext(ctx).
		Omit("created_at", "created_by", "payment_date", "transaction_id", "approved_by", "approved_at", "payslip_url", "payslip_generated_at").
		Save(rec).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Record, error) {
	var rec Record
	err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	return &rec, err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Record, error) {
	var rec Record
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&rec, "id = ?", id).Error
	return &rec, err
}

// FindAll applies the filter; a nil employeeIDs slice means no scoping.
func (r *repository) FindAll(ctx context.Context, filter ListFilter, employeeIDs []uuid.UUID) ([]Record, error) {
	q := r.db.WithContext(ctx).Model(&Record{})
	if employeeIDs != nil {
		q = q.Where("employee_id IN ?", employeeIDs)
	}
	if filter.EmployeeID != "" {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Month > 0 {
		q = q.Where("period_month = ?", filter.Month)
	}
	if filter.Year > 0 {
		q = q.Where("period_year = ?", filter.Year)
	}
	if filter.Status != "" {
		q = q.Where("payment_status = ?", filter.Status)
	}

	var rows []Record
	err := q.Order("period_year DESC, period_month DESC, created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) ExistsForPeriod(ctx context.Context, employeeID uuid.UUID, month, year int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Record{}).
		Where("employee_id = ? AND period_month = ? AND period_year = ?", employeeID, month, year).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) EmployeeBasicSalary(ctx context.Context, employeeID uuid.UUID) (int64, error) {
	var salaries []int64
	err := r.db.WithContext(ctx).
		Table("employees").
		Where("id = ?", employeeID).
		Pluck("basic_salary", &salaries).Error
	if err != nil {
		return 0, err
	}
	if len(salaries) == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return salaries[0], nil
}

// PresentDays counts attended days in the month; late, half-day and remote
// days count as present.
func (r *repository) PresentDays(ctx context.Context, employeeID uuid.UUID, month, year int) (int, error) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	var count int64
	err := r.db.WithContext(ctx).
		Table("attendance_records").
		Where("employee_id = ? AND attendance_date BETWEEN ? AND ?", employeeID, from, to).
		Where("status <> ?", "absent").
		Count(&count).Error
	return int(count), err
}

// MarkPaid applies changes only while the record is not paid yet.
func (r *repository) MarkPaid(ctx context.Context, id uuid.UUID, changes map[string]any) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Record{}).
		Where("id = ? AND payment_status <> ?", id, StatusPaid).
		Updates(changes)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) SetPayslip(ctx context.Context, id uuid.UUID, url string, generatedAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&Record{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"payslip_url":          url,
			"payslip_generated_at": generatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) FindPayslipSubject(ctx context.Context, id uuid.UUID) (*PayslipSubject, error) {
	var subject PayslipSubject
	err := r.db.WithContext(ctx).
		Table("payroll_records AS p").
		Select("p.*, e.employee_code, e.first_name, e.last_name, e.email, e.designation").
		Joins("JOIN employees e ON e.id = p.employee_id").
		Where("p.id = ?", id).
		Take(&subject).Error
	return &subject, err
}

func (r *repository) TeamMemberIDs(ctx context.Context, managerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Table("employees").
		Where("manager_id = ? AND status <> ?", managerID, "terminated").
		Pluck("id", &ids).Error
	return ids, err
}
