package leave

import (
	"uni-hris/internal/domain"
	"uni-hris/internal/middleware"
	"uni-hris/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	authMiddleware gin.HandlerFunc,
) {
	leaves := r.Group("/leaves")
	leaves.Use(authMiddleware, middleware.RateLimitByUser(2, 10))
	{
		leaves.GET("", middleware.RBACAuthorize(rbacService, domain.ResourceLeaves, domain.ActionRead), handler.GetAll)
		leaves.GET("/:id", middleware.RBACAuthorize(rbacService, domain.ResourceLeaves, domain.ActionRead), handler.GetById)
		leaves.POST("", middleware.RBACAuthorize(rbacService, domain.ResourceLeaves, domain.ActionCreate), handler.Create)
		leaves.POST("/:id/approve", middleware.RBACAuthorize(rbacService, domain.ResourceLeaves, domain.ActionApprove), handler.Approve)
		leaves.POST("/:id/reject", middleware.RBACAuthorize(rbacService, domain.ResourceLeaves, domain.ActionApprove), handler.Reject)
		leaves.POST("/:id/cancel", middleware.RBACAuthorize(rbacService, domain.ResourceLeaves, domain.ActionUpdate), handler.Cancel)
	}
}
