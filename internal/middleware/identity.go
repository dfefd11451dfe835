package middleware

import (
	"strings"
	"studynova_backend/internal/config"
	"studynova_backend/internal/model"
	"studynova_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// IdentityMiddleware 解析调用方身份但不强制登录。
// 身份认证是外部关注点：网关透传 X-User-Id / X-User-Role，
// 也兼容直接携带 Bearer JWT 的调用方。
func IdentityMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString != "" && cfg.JWT.Secret != "" {
			if claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret); err == nil {
				c.Set("user", claims)
				c.Next()
				return
			}
		}

		if userID := c.GetHeader("X-User-Id"); userID != "" {
			role := model.UserRole(c.GetHeader("X-User-Role"))
			if role == "" {
				role = model.Student
			}
			c.Set("user", &util.Claims{UserID: userID, Role: role})
		}

		c.Next()
	}
}

// RequireUser 拒绝匿名访问
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if util.GetUserFromContext(c) == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		hasRole := false
		for _, role := range roles {
			// 管理员直接放行
			if string(user.Role) == string(model.Admin) {
				hasRole = true
				break
			}
			if string(user.Role) == string(role) {
				hasRole = true
				break
			}
		}

		if !hasRole {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
