package middleware

import (
	"context"
	"net/http"
	"strings"

	"casthub_backend/internal/auth"
	"casthub_backend/internal/logger"
	"casthub_backend/internal/models"
	"casthub_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware - middleware проверки JWT
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing or invalid"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := auth.ParseToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		// Сохраняем claims в контекст
		c.Set("userID", claims.UserID)
		c.Set("role", claims.Role)

		// Типизированная идентичность для кода, работающего с context.Context,
		// user_id попадает во все логи этого запроса
		ctx := context.WithValue(c.Request.Context(), contextkeys.IdentityContextKey, auth.Identity{
			ID:   claims.UserID,
			Role: claims.Role,
		})
		ctx = logger.WithUserID(ctx, claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RoleMiddleware - middleware ограничения по типу аккаунта
func RoleMiddleware(requiredRole models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get("role")
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: no role"})
			return
		}

		role, ok := roleVal.(models.UserRole)
		if !ok {
			// Попытка преобразовать из string, если роль сохранена как строка
			roleStr, isString := roleVal.(string)
			if !isString {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: invalid role type"})
				return
			}
			role = models.UserRole(roleStr)
		}

		if role != requiredRole {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: insufficient permissions"})
			return
		}

		c.Next()
	}
}

// IdentityFromContext собирает auth.Identity, положенную AuthMiddleware.
// Пустая идентичность не проходит ни одну проверку guard (fails closed).
func IdentityFromContext(c *gin.Context) auth.Identity {
	if identity, ok := c.Request.Context().Value(contextkeys.IdentityContextKey).(auth.Identity); ok {
		return identity
	}

	// Fallback на gin-ключи (тесты, кастомные хэндлеры)
	identity := auth.Identity{}
	if userID, ok := c.Get("userID"); ok {
		if id, ok := userID.(string); ok {
			identity.ID = id
		}
	}
	if roleVal, ok := c.Get("role"); ok {
		switch role := roleVal.(type) {
		case models.UserRole:
			identity.Role = role
		case string:
			identity.Role = models.UserRole(role)
		}
	}
	return identity
}
