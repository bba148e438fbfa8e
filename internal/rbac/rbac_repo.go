package rbac

import (
	"context"

	"gorm.io/gorm"
)

// RolePermission holds grants added on top of the built-in policy set.
type RolePermission struct {
	ID       uint   `gorm:"primaryKey"`
	Role     string `gorm:"type:varchar(30);not null;uniqueIndex:uq_role_permission"`
	Resource string `gorm:"type:varchar(50);not null;uniqueIndex:uq_role_permission"`
	Action   string `gorm:"type:varchar(50);not null;uniqueIndex:uq_role_permission"`
}

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	ListRolePermissions(ctx context.Context) ([]RolePermission, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListRolePermissions(ctx context.Context) ([]RolePermission, error) {
	var rows []RolePermission
	err := r.db.WithContext(ctx).
		Order("role, resource, action").
		Find(&rows).Error
	return rows, err
}
