package attendance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, rec *Record) error
	Update(ctx context.Context, rec *Record) error
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Record, error)
	FindByEmployeeAndDate(ctx context.Context, employeeID uuid.UUID, date time.Time) (*Record, error)
	FindAll(ctx context.Context, filter ListFilter, employeeIDs []uuid.UUID) ([]Record, error)
	TeamMemberIDs(ctx context.Context, managerID uuid.UUID) ([]uuid.UUID, error)
	CountByStatus(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]StatusCount, error)
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

func (r *repository) Update(ctx context.Context, rec *Record) error {
	return r.db.WithContext(ctx).Omit("created_at").Save(rec).Error
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Record, error) {
	var rec Record
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&rec, "id = ?", id).Error
	return &rec, err
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, employeeID uuid.UUID, date time.Time) (*Record, error) {
	var rec Record
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("employee_id = ? AND attendance_date = ?", employeeID, date.Format(time.DateOnly)).
		First(&rec).Error
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
	if filter.From != "" {
		q = q.Where("attendance_date >= ?", filter.From)
	}
	if filter.To != "" {
		q = q.Where("attendance_date <= ?", filter.To)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var rows []Record
	err := q.Order("attendance_date DESC, clock_in DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) TeamMemberIDs(ctx context.Context, managerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Table("employees").
		Where("manager_id = ? AND status <> ?", managerID, "terminated").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *repository) CountByStatus(ctx context.Context, employeeID uuid.UUID, from, to time.Time) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).
		Model(&Record{}).
		Select("status, COUNT(*) AS days, COALESCE(SUM(total_hours), 0) AS hours").
		Where("employee_id = ? AND attendance_date BETWEEN ? AND ?",
			employeeID, from.Format(time.DateOnly), to.Format(time.DateOnly)).
		Group("status").
		Scan(&rows).Error
	return rows, err
}
