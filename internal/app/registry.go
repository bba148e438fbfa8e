package app

import (
	"context"
	"errors"

	"go-hrms/internal/attendance"
	"go-hrms/internal/auth"
	"go-hrms/internal/authz"
	"go-hrms/internal/department"
	"go-hrms/internal/employee"
	"go-hrms/internal/leave"
	"go-hrms/internal/messaging/kafka"
	"go-hrms/internal/middleware"
	"go-hrms/internal/payroll"
	"go-hrms/internal/performance"
	"go-hrms/internal/rbac"
	"go-hrms/internal/rbac/infra"
	"go-hrms/internal/shared/config"
	"go-hrms/internal/shared/counter"
	"go-hrms/internal/shared/storage"
	"go-hrms/internal/shared/token"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var errMissingJWTSecret = errors.New("JWT_SECRET is required in production")

func registerModules(
	ctx context.Context,
	router *gin.Engine,
	cfg config.Config,
	db *gorm.DB,
	rdb *redis.Client,
	store storage.Store,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(db)
	authRepo := auth.NewRepository(db)
	authzRepo := authz.NewRepository(db)
	attendanceRepo := attendance.NewRepository(db)
	departmentRepo := department.NewRepository(db)
	employeeRepo := employee.NewRepository(db)
	counterRepo := counter.NewRepository(db)
	leaveRepo := leave.NewRepository(db)
	outboxRepo := kafka.NewOutboxRepository(db, cfg.Kafka.MaxRetries)
	payrollRepo := payroll.NewRepository(db)
	performanceRepo := performance.NewRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer, logger)
	if err := rbacService.LoadPolicy(ctx); err != nil {
		return err
	}

	tokens := token.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	authMW := middleware.AuthMiddleware(tokens)
	engine := authz.NewEngine(authzRepo, logger)

	// --- Services ---
	authService := auth.NewService(authRepo, tokens, logger)
	attendanceService := attendance.NewService(db, attendanceRepo, engine, cfg.Attendance, logger)
	departmentService := department.NewService(db, departmentRepo, rdb, logger)
	employeeService := employee.NewService(db, employeeRepo, counterRepo, outboxRepo, engine, employee.ServiceConfig{
		DefaultPassword: cfg.Seed.DefaultPassword,
		BcryptCost:      bcrypt.DefaultCost,
	}, logger)
	leaveService := leave.NewService(db, leaveRepo, outboxRepo, engine, logger)
	payrollService := payroll.NewService(db, payrollRepo, outboxRepo, engine, store, cfg.Payroll, logger)
	performanceService := performance.NewService(db, performanceRepo, engine, logger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, auth.CookieOptions{
		Secure:     cfg.IsProduction(),
		AccessTTL:  cfg.JWT.AccessTTL,
		RefreshTTL: cfg.JWT.RefreshTTL,
	}, logger)
	attendanceHandler := attendance.NewHandler(attendanceService, logger)
	departmentHandler := department.NewHandler(departmentService, logger)
	employeeHandler := employee.NewHandler(employeeService, logger)
	leaveHandler := leave.NewHandler(leaveService, logger)
	payrollHandler := payroll.NewHandler(payrollService, logger)
	performanceHandler := performance.NewHandler(performanceService, logger)
	rbacHandler := rbac.NewHandler(rbacService, logger)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, authMW, logger)
		attendance.RegisterRoutes(api, attendanceHandler, rbacService, authMW, logger)
		department.RegisterRoutes(api, departmentHandler, rbacService, authMW, logger)
		employee.RegisterRoutes(api, employeeHandler, rbacService, authMW, logger)
		leave.RegisterRoutes(api, leaveHandler, rbacService, authMW, logger)
		payroll.RegisterRoutes(api, payrollHandler, rbacService, authMW, rdb, logger)
		performance.RegisterRoutes(api, performanceHandler, rbacService, authMW, logger)
		rbac.RegisterRoutes(api, rbacHandler, rbacService, authMW)
	}

	return nil
}
