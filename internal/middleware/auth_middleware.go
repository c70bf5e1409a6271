package middleware

import (
	"net/http"
	"strings"

	"taxiconfianza-backend/internal/models"
	"taxiconfianza-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

// JWTAuth проверяет токен и кладёт user_id и role в контекст запроса
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Отсутствует токен авторизации"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Неверный формат токена"})
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Недействительный токен"})
			c.Abort()
			return
		}

		// Админ существует только в токене, user_id у него нулевой
		if claims.Role == models.RoleAdmin {
			c.Set("user_id", uint(0))
			c.Set("role", models.RoleAdmin)
			c.Next()
			return
		}

		if claims.UserID == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Недействительный ID пользователя"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// RequireRole пропускает только акторов с указанной ролью.
// Роль — закрытое множество {owner, driver, admin}, проверяется один раз на входе.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actual, _ := c.Get("role")
		if actual != role {
			c.JSON(http.StatusForbidden, gin.H{"error": "Недостаточно прав для этой операции"})
			c.Abort()
			return
		}
		c.Next()
	}
}
