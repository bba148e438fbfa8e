package department

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	departmenterrors "go-hrms/internal/department/errors"
	"go-hrms/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	DepartmentAllKey = "departments:all"
	cacheTTL         = 30 * time.Minute
)

//go:generate mockgen -source=department_service.go -destination=mock/department_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateDepartmentRequest) (DepartmentResponse, error)
	List(ctx context.Context) ([]DepartmentResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (DepartmentResponse, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateDepartmentRequest) (DepartmentResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	db     *gorm.DB
	repo   Repository
	rdb    redis.Cmdable
	sf     *singleflight.Group
	logger *zap.Logger
}

// NewService wires the department service. rdb may be nil, in which case the
// list is always read from the database.
func NewService(db *gorm.DB, repo Repository, rdb redis.Cmdable, logger ...*zap.Logger) Service {
	l := zap.L().Named("department.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("department.service")
	}
	return &service{db: db, repo: repo, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateDepartmentRequest) (DepartmentResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create department requested",
		zap.String("request_id", rid),
		zap.String("name", req.Name),
	)

	dept := &Department{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Budget:      req.Budget,
		HeadID:      parseOptionalUUID(req.HeadID),
		Location:    req.Location,
		IsActive:    true,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)
		if err := s.checkHead(ctx, qtx, dept.HeadID); err != nil {
			return err
		}
		if err := qtx.Create(ctx, dept); err != nil {
			s.logger.Error("create department persist failed", zap.String("request_id", rid), zap.Error(err))
			return mapRepositoryError(err)
		}
		return nil
	})
	if err != nil {
		return DepartmentResponse{}, err
	}

	s.invalidateCache(ctx)
	s.logger.Info("create department success",
		zap.String("request_id", rid),
		zap.String("department_id", dept.ID.String()),
	)
	return mapToResponse(*dept), nil
}

func (s *service) List(ctx context.Context) ([]DepartmentResponse, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, DepartmentAllKey).Result()
		if err == nil {
			var resp []DepartmentResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("department cache read failed", zap.Error(err))
		}
	}

	// satu query ke DB untuk banyak request yang miss bersamaan
	v, err, _ := s.sf.Do(DepartmentAllKey, func() (interface{}, error) {
		depts, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		resp := mapToListResponse(depts)

		if s.rdb != nil {
			if data, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, DepartmentAllKey, data, cacheTTL).Err(); err != nil {
					s.logger.Warn("department cache write failed", zap.Error(err))
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		s.logger.Error("list departments failed", zap.Error(err))
		return nil, err
	}
	return v.([]DepartmentResponse), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (DepartmentResponse, error) {
	dept, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return DepartmentResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*dept), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateDepartmentRequest) (DepartmentResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("update department requested",
		zap.String("request_id", rid),
		zap.String("department_id", id.String()),
	)
	if req.isEmpty() {
		return DepartmentResponse{}, departmenterrors.ErrNoFieldsToUpdate
	}

	var updated Department
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		dept, err := qtx.FindByIDForUpdate(ctx, id)
		if err != nil {
			return mapRepositoryError(err)
		}

		if req.IsActive != nil && !*req.IsActive && dept.IsActive {
			if err := s.ensureNoActiveEmployees(ctx, qtx, id); err != nil {
				return err
			}
		}

		applyUpdate(dept, req)
		if req.HeadID != nil {
			if err := s.checkHead(ctx, qtx, dept.HeadID); err != nil {
				return err
			}
		}

		if err := qtx.Update(ctx, dept); err != nil {
			s.logger.Error("update department persist failed", zap.String("request_id", rid), zap.Error(err))
			return mapRepositoryError(err)
		}
		updated = *dept
		return nil
	})
	if err != nil {
		return DepartmentResponse{}, err
	}

	s.invalidateCache(ctx)
	s.logger.Info("update department success", zap.String("department_id", id.String()))
	return mapToResponse(updated), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("delete department requested",
		zap.String("request_id", rid),
		zap.String("department_id", id.String()),
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)
		if _, err := qtx.FindByIDForUpdate(ctx, id); err != nil {
			return mapRepositoryError(err)
		}
		if err := s.ensureNoActiveEmployees(ctx, qtx, id); err != nil {
			return err
		}
		return mapRepositoryError(qtx.Delete(ctx, id))
	})
	if err != nil {
		s.logger.Warn("delete department failed", zap.String("department_id", id.String()), zap.Error(err))
		return err
	}

	s.invalidateCache(ctx)
	s.logger.Info("delete department success", zap.String("department_id", id.String()))
	return nil
}

func (s *service) ensureNoActiveEmployees(ctx context.Context, qtx Repository, id uuid.UUID) error {
	n, err := qtx.CountActiveEmployees(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		s.logger.Warn("department still referenced",
			zap.String("department_id", id.String()),
			zap.Int64("active_employees", n),
		)
		return departmenterrors.ErrDepartmentHasEmployees.WithDetails(map[string]any{"active_employees": n})
	}
	return nil
}

func (s *service) checkHead(ctx context.Context, qtx Repository, headID *uuid.UUID) error {
	if headID == nil {
		return nil
	}
	ok, err := qtx.HeadIsActive(ctx, *headID)
	if err != nil {
		return err
	}
	if !ok {
		return departmenterrors.ErrHeadNotFound
	}
	return nil
}

// Invalidasi cache setelah data di DB resmi berubah
func (s *service) invalidateCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, DepartmentAllKey).Err(); err != nil {
		s.logger.Error("department cache invalidation failed",
			zap.String("key", DepartmentAllKey),
			zap.Error(err),
		)
	}
}

func applyUpdate(dept *Department, req UpdateDepartmentRequest) {
	if req.Name != nil {
		dept.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		dept.Description = *req.Description
	}
	if req.Budget != nil {
		dept.Budget = *req.Budget
	}
	if req.HeadID != nil {
		dept.HeadID = parseOptionalUUID(*req.HeadID)
	}
	if req.Location != nil {
		dept.Location = *req.Location
	}
	if req.IsActive != nil {
		dept.IsActive = *req.IsActive
	}
}

func parseOptionalUUID(v string) *uuid.UUID {
	id, err := uuid.Parse(v)
	if err != nil {
		return nil
	}
	return &id
}

func mapToResponse(dept Department) DepartmentResponse {
	resp := DepartmentResponse{
		ID:            dept.ID.String(),
		Name:          dept.Name,
		Description:   dept.Description,
		Budget:        dept.Budget,
		Location:      dept.Location,
		IsActive:      dept.IsActive,
		EmployeeCount: dept.EmployeeCount,
	}
	if dept.HeadID != nil {
		resp.HeadID = dept.HeadID.String()
	}
	if !dept.CreatedAt.IsZero() {
		resp.CreatedAt = dept.CreatedAt.Format(time.RFC3339)
	}
	if !dept.UpdatedAt.IsZero() {
		resp.UpdatedAt = dept.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}

func mapToListResponse(depts []Department) []DepartmentResponse {
	res := make([]DepartmentResponse, len(depts))
	for i, d := range depts {
		res[i] = mapToResponse(d)
	}
	return res
}
