package authz

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// subjectRow reads only the columns the rule chain needs from employees.
type subjectRow struct {
	ID        uuid.UUID  `gorm:"column:id"`
	Role      string     `gorm:"column:role"`
	ManagerID *uuid.UUID `gorm:"column:manager_id"`
	Status    string     `gorm:"column:status"`
}

func (subjectRow) TableName() string {
	return "employees"
}

//go:generate mockgen -source=authz_repo.go -destination=mock/authz_repo_mock.go -package=mock
type Repository interface {
	// FindSubject returns gorm.ErrRecordNotFound when the employee is absent.
	FindSubject(ctx context.Context, id uuid.UUID) (*Subject, error)
	FindManagerID(ctx context.Context, id uuid.UUID) (*uuid.UUID, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindSubject(ctx context.Context, id uuid.UUID) (*Subject, error) {
	var row subjectRow
	err := r.db.WithContext(ctx).
		Select("id", "role", "manager_id", "status").
		First(&row, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &Subject{
		ID:        row.ID,
		Role:      normalizeRole(row.Role),
		ManagerID: row.ManagerID,
		Status:    row.Status,
	}, nil
}

func (r *repository) FindManagerID(ctx context.Context, id uuid.UUID) (*uuid.UUID, error) {
	var row subjectRow
	err := r.db.WithContext(ctx).
		Select("id", "manager_id").
		First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.ManagerID, nil
}
