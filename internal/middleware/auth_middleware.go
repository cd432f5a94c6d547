package middleware

import (
	"net/http"
	"strings"

	autherrors "uni-hris/internal/auth/errors"
	"uni-hris/internal/auth/token"
	"uni-hris/internal/domain"
	"uni-hris/internal/shared/contextutil"
	"uni-hris/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const principalKey = "principal"

// AuthMiddleware accepts a bearer token or the access_token cookie and
// stores the caller's principal on the gin context.
func AuthMiddleware(tokens *token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.FromError(c, autherrors.ErrTokenNotFound)
			c.Abort()
			return
		}

		claims, err := tokens.Parse(tokenString, token.KindAccess)
		if err != nil {
			response.FromError(c, err)
			c.Abort()
			return
		}

		p := claims.Principal()
		c.Set(principalKey, p)
		c.Set("user_id", p.UserID)
		c.Set("employee_id", p.EmployeeID)
		c.Set("role", string(p.Role))

		ctx := contextutil.WithActor(c.Request.Context(), p.UserID, string(p.Role))
		reqLogger := contextutil.GetLogger(ctx, zap.L())
		ctx = contextutil.WithLogger(ctx, reqLogger.With(zap.String("user_id", p.UserID)))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// PrincipalFrom returns the principal stored by AuthMiddleware.
func PrincipalFrom(c *gin.Context) (domain.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return domain.Principal{}, false
	}
	p, ok := v.(domain.Principal)
	return p, ok
}

// SetPrincipal is used by handler tests that bypass AuthMiddleware.
func SetPrincipal(c *gin.Context, p domain.Principal) {
	c.Set(principalKey, p)
	c.Set("user_id", p.UserID)
	c.Set("employee_id", p.EmployeeID)
	c.Set("role", string(p.Role))
}

func RoleMiddleware(allowedRoles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok || !p.HasRole(allowedRoles...) {
			response.Error(c, http.StatusForbidden, autherrors.ErrForbidden.Code, autherrors.ErrForbidden.Message, nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
