package app

import (
	"context"
	"errors"
	"time"

	"uni-hris/internal/auth"
	"uni-hris/internal/auth/token"
	"uni-hris/internal/bootstrap"
	"uni-hris/internal/employee"
	"uni-hris/internal/leave"
	"uni-hris/internal/messaging/kafka"
	"uni-hris/internal/middleware"
	"uni-hris/internal/notification"
	"uni-hris/internal/payroll"
	"uni-hris/internal/rbac"
	"uni-hris/internal/rbac/infra"
	"uni-hris/internal/shared/counter"
	"uni-hris/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const refreshTTL = 7 * 24 * time.Hour

// NewTokenManager builds the JWT manager from config.
func NewTokenManager(in *Infra) *token.Manager {
	return token.NewManager(
		in.Config.JWT.Secret,
		time.Duration(in.Config.JWT.ExpireHours)*time.Hour,
		refreshTTL,
	)
}

// NewStore returns nil when no bucket is configured; payslips then stay unarchived.
func NewStore(ctx context.Context, in *Infra) (storage.Store, error) {
	s3Store, err := storage.NewS3Store(ctx, in.Config.Storage, in.Logger)
	if errors.Is(err, storage.ErrNotConfigured) {
		in.Logger.Warn("object storage not configured, payslip archiving disabled")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s3Store, nil
}

func PayrollOptions(in *Infra) payroll.Options {
	return payroll.Options{
		Organization: in.Config.Payroll.Organization,
		Currency:     in.Config.Payroll.Currency,
	}
}

func registerModules(ctx context.Context, router *gin.Engine, in *Infra) error {
	logger := in.Logger
	db, gormDB, rdb := in.DB, in.GormDB, in.Redis

	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	notificationRepo := notification.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(gormDB)
	payrollRepo := payroll.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(enforcer, logger)
	if err := rbacService.LoadPolicy(rbac.DefaultPolicy()); err != nil {
		return err
	}

	store, err := NewStore(ctx, in)
	if err != nil {
		return err
	}
	tokens := NewTokenManager(in)
	auditLogger := bootstrap.NewStdoutAuditLogger(logger)

	// --- Services ---
	authService := auth.NewService(db, authRepo, employeeRepo, tokens, logger)
	employeeService := employee.NewServiceWithOutbox(db, employeeRepo, counterRepo, outboxRepo, rdb, logger)
	leaveService := leave.NewService(db, leaveRepo, logger)
	notificationService := notification.NewService(notificationRepo, logger)
	payrollService := payroll.NewService(db, payrollRepo, employeeRepo, outboxRepo, store, auditLogger, PayrollOptions(in), logger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, auth.CookieConfig{
		Secure:     in.Config.IsProduction(),
		AccessTTL:  tokens.AccessTTL(),
		RefreshTTL: tokens.RefreshTTL(),
	}, logger)
	employeeHandler := employee.NewHandler(employeeService, logger)
	leaveHandler := leave.NewHandler(leaveService, logger)
	notificationHandler := notification.NewHandler(notificationService, logger)
	payrollHandler := payroll.NewHandler(payrollService, rdb, logger)

	authMiddleware := middleware.AuthMiddleware(tokens)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, authMiddleware)
		employee.RegisterRoutes(api, employeeHandler, rbacService, authMiddleware)
		leave.RegisterRoutes(api, leaveHandler, rbacService, authMiddleware)
		notification.RegisterRoutes(api, notificationHandler, rbacService, authMiddleware)
		payroll.RegisterRoutes(api, payrollHandler, rbacService, authMiddleware, rdb)
	}

	logger.Info("modules registered", zap.Bool("archive_storage", store != nil))
	return nil
}
