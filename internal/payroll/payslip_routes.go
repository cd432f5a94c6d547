package payroll

import (
	"uni-hris/internal/domain"
	"uni-hris/internal/middleware"
	"uni-hris/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	authMiddleware gin.HandlerFunc,
	rdb *redis.Client,
) {
	r.POST("/employees/:id/generate-payslip",
		authMiddleware,
		middleware.RateLimitByUser(0.5, 3),
		middleware.RBACAuthorize(rbacService, domain.ResourcePayslips, domain.ActionGenerate),
		middleware.Idempotency(rdb),
		handler.Generate,
	)

	payslips := r.Group("/payslips")
	payslips.Use(authMiddleware)
	{
		payslips.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, domain.ResourcePayslips, domain.ActionRead),
			handler.GetAll,
		)

		payslips.GET("/export",
			middleware.RateLimitByUser(0.5, 3),
			middleware.RBACAuthorize(rbacService, domain.ResourcePayslips, domain.ActionExport),
			handler.ExportBatch,
		)

		payslips.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, domain.ResourcePayslips, domain.ActionRead),
			handler.GetById,
		)

		payslips.GET("/:id/export",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, domain.ResourcePayslips, domain.ActionExport),
			handler.ExportOne,
		)

		payslips.GET("/:id/download",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, domain.ResourcePayslips, domain.ActionRead),
			handler.Download,
		)

		payslips.POST("/:id/mark-paid",
			middleware.RateLimitByUser(0.5, 3),
			middleware.RBACAuthorize(rbacService, domain.ResourcePayslips, domain.ActionPay),
			handler.MarkPaid,
		)

		payslips.POST("/:id/payout-reference",
			middleware.RateLimitByUser(0.5, 3),
			middleware.RBACAuthorize(rbacService, domain.ResourcePayslips, domain.ActionPay),
			handler.AttachPayoutReference,
		)
	}
}
