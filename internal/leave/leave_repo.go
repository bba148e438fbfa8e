package leave

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	Update(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*LeaveRequest, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*LeaveRequest, error)
	FindAll(ctx context.Context, filter ListFilter, employeeIDs []uuid.UUID) ([]LeaveRequest, error)
	HasOverlappingPeriod(ctx context.Context, employeeID uuid.UUID, startDate, endDate time.Time, excludeID *uuid.UUID) (bool, error)
	Balance(ctx context.Context, employeeID uuid.UUID, leaveType string, forUpdate bool) (float64, error)
	DecrementBalance(ctx context.Context, employeeID uuid.UUID, leaveType string, days float64) (bool, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from string, changes map[string]any) (bool, error)
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

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) Update(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Omit("created_at", "applied_at").Save(l).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&l, "id = ?", id).Error
	return &l, err
}

// FindAll applies the filter; a nil employeeIDs slice means no scoping.
func (r *repository) FindAll(ctx context.Context, filter ListFilter, employeeIDs []uuid.UUID) ([]LeaveRequest, error) {
	q := r.db.WithContext(ctx).Model(&LeaveRequest{})
	if employeeIDs != nil {
		q = q.Where("employee_id IN ?", employeeIDs)
	}
	if filter.EmployeeID != "" {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.LeaveType != "" {
		q = q.Where("leave_type = ?", filter.LeaveType)
	}

	var rows []LeaveRequest
	err := q.Order("start_date DESC, applied_at DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) HasOverlappingPeriod(
	ctx context.Context,
	employeeID uuid.UUID,
	startDate, endDate time.Time,
	excludeID *uuid.UUID,
) (bool, error) {
	q := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("employee_id = ?", employeeID).
		Where("status NOT IN ?", []string{StatusCancelled, StatusRejected}).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Balance reads the remaining days for a balance-tracked type straight from
// the employee row, optionally holding the row lock until the transaction
// ends.
func (r *repository) Balance(ctx context.Context, employeeID uuid.UUID, leaveType string, forUpdate bool) (float64, error) {
	col, ok := balanceColumns[leaveType]
	if !ok {
		return 0, nil
	}

	q := r.db.WithContext(ctx).Table("employees").Where("id = ?", employeeID)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var balances []float64
	if err := q.Pluck(col, &balances).Error; err != nil {
		return 0, err
	}
	if len(balances) == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return balances[0], nil
}

// DecrementBalance only succeeds while the balance still covers the days.
func (r *repository) DecrementBalance(ctx context.Context, employeeID uuid.UUID, leaveType string, days float64) (bool, error) {
	col, ok := balanceColumns[leaveType]
	if !ok {
		return true, nil
	}

	res := r.db.WithContext(ctx).
		Table("employees").
		Where("id = ? AND "+col+" >= ?", employeeID, days).
		Updates(map[string]any{
			col:          gorm.Expr(col+" - ?", days),
			"updated_at": gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// TransitionStatus applies changes only when the row is still in status from.
func (r *repository) TransitionStatus(ctx context.Context, id uuid.UUID, from string, changes map[string]any) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(changes)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) TeamMemberIDs(ctx context.Context, managerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Table("employees").
		Where("manager_id = ? AND status <> ?", managerID, "terminated").
		Pluck("id", &ids).Error
	return ids, err
}
