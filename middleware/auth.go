package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/sam0786-xyz/technova-backend/config"
	"github.com/sam0786-xyz/technova-backend/internal/auth"
)

// AccessContext is what handlers pull out of gin to know who is calling.
type AccessContext struct {
	UserID   uint
	RoleName string
}

func (a AccessContext) IsOrganizer() bool {
	return a.RoleName == auth.RoleOrganizer || a.RoleName == auth.RoleAdmin
}

func (a AccessContext) IsAdmin() bool {
	return a.RoleName == auth.RoleAdmin
}

// AuthMiddleware handles JWT authentication and sets up access context
func AuthMiddleware(cfg *config.Config, authSvc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
			return
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.JWTAccessSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			return
		}

		userIDFloat, ok := claims["user_id"].(float64)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user_id missing in token"})
			return
		}

		user, err := authSvc.GetUserByID(uint(userIDFloat))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}

		c.Set("user", user)
		c.Set("user_id", user.ID)
		c.Set("access_context", AccessContext{UserID: user.ID, RoleName: user.RoleName})

		c.Next()
	}
}

// RequireOrganizer gates administrative operations: roster queries, event
// mutation, exports, scanning.
func RequireOrganizer() gin.HandlerFunc {
	return func(c *gin.Context) {
		ac, ok := GetAccessContext(c)
		if !ok || !ac.IsOrganizer() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "organizer access required"})
			return
		}
		c.Next()
	}
}

// RequireAdmin gates audit-log access.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		ac, ok := GetAccessContext(c)
		if !ok || !ac.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

// GetAccessContext pulls the AccessContext set by AuthMiddleware.
func GetAccessContext(c *gin.Context) (AccessContext, bool) {
	raw, exists := c.Get("access_context")
	if !exists {
		return AccessContext{}, false
	}
	ac, ok := raw.(AccessContext)
	return ac, ok
}
