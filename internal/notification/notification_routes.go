package notification

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
	notifications := r.Group("/notifications")
	notifications.Use(authMiddleware)
	{
		notifications.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, domain.ResourceNotifications, domain.ActionRead),
			handler.List,
		)

		notifications.POST("/:id/read",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, domain.ResourceNotifications, domain.ActionUpdate),
			handler.MarkRead,
		)
	}
}
