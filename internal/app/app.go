package app

import (
	"context"

	"go-hrms/internal/attendance"
	"go-hrms/internal/department"
	"go-hrms/internal/employee"
	"go-hrms/internal/leave"
	"go-hrms/internal/messaging/kafka"
	"go-hrms/internal/middleware"
	"go-hrms/internal/payroll"
	"go-hrms/internal/performance"
	"go-hrms/internal/rbac"
	"go-hrms/internal/shared/config"
	"go-hrms/internal/shared/connection"
	"go-hrms/internal/shared/counter"
	"go-hrms/internal/shared/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BuildApp connects the infrastructure and mounts every module on router.
// The returned func releases the connections.
func BuildApp(ctx context.Context, router *gin.Engine, cfg config.Config) (func(), error) {
	logger := zap.L().Named("app")

	if cfg.JWT.Secret == "" && cfg.IsProduction() {
		return nil, errMissingJWTSecret
	}

	db, err := connection.ConnectGORMWithRetry(cfg.DB)
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	if cfg.DB.AutoMigrate {
		if err := migrate(db); err != nil {
			return nil, err
		}
		logger.Info("schema migrated")
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis)
	if err != nil {
		return nil, err
	}
	logger.Info("redis connection established")

	store, err := storage.NewS3Store(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	router.Use(middleware.RequestID())

	if err := registerModules(ctx, router, cfg, db, rdb, store, logger); err != nil {
		return nil, err
	}

	cleanup := func() {
		_ = rdb.Close()
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return cleanup, nil
}

// migrate is a development convenience; production schemas are managed
// outside the service.
func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&department.Department{},
		&employee.Employee{},
		&counter.SequenceCounter{},
		&attendance.Record{},
		&leave.LeaveRequest{},
		&payroll.Record{},
		&performance.Review{},
		&kafka.OutboxEvent{},
		&rbac.RolePermission{},
	)
}
