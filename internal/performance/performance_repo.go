package performance

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=performance_repo.go -destination=mock/performance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, r *Review) error
	Update(ctx context.Context, r *Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*Review, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Review, error)
	FindAll(ctx context.Context, filter ListFilter, employeeIDs []uuid.UUID) ([]Review, error)
	ExistsForPeriod(ctx context.Context, employeeID uuid.UUID, quarter string, year int) (bool, error)
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

func (r *repository) Create(ctx context.Context, review *Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *repository) Update(ctx context.Context, review *Review) error {
	return r.db.WithContext(ctx).Omit("created_at").Save(review).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Review, error) {
	var review Review
	err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error
	return &review, err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Review, error) {
	var review Review
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&review, "id = ?", id).Error
	return &review, err
}

// FindAll applies the filter; a nil employeeIDs slice means no scoping.
func (r *repository) FindAll(ctx context.Context, filter ListFilter, employeeIDs []uuid.UUID) ([]Review, error) {
	q := r.db.WithContext(ctx).Model(&Review{})
	if employeeIDs != nil {
		q = q.Where("employee_id IN ?", employeeIDs)
	}
	if filter.EmployeeID != "" {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Quarter != "" {
		q = q.Where("quarter = ?", filter.Quarter)
	}
	if filter.Year != 0 {
		q = q.Where("year = ?", filter.Year)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var rows []Review
	err := q.Order("year DESC, period_start DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) ExistsForPeriod(ctx context.Context, employeeID uuid.UUID, quarter string, year int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Review{}).
		Where("employee_id = ? AND quarter = ? AND year = ?", employeeID, quarter, year).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) TeamMemberIDs(ctx context.Context, managerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Table("employees").
		Where("manager_id = ? AND status <> ?", managerID, "terminated").
		Pluck("id", &ids).Error
	return ids, err
}
