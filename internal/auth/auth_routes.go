package auth

import (
	"uni-hris/internal/domain"
	"uni-hris/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authMiddleware gin.HandlerFunc) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimitByIP(0.08, 5), handler.Login)
		auth.POST("/refresh", middleware.RateLimitByIP(0.2, 5), handler.RefreshToken)
		auth.POST("/logout", handler.Logout)
		auth.GET("/me", authMiddleware, middleware.RateLimitByUser(2, 5), handler.Me)
		auth.POST("/register",
			authMiddleware,
			middleware.RoleMiddleware(domain.RoleAdmin),
			middleware.RateLimitByUser(0.5, 3),
			handler.Register,
		)
	}
}
