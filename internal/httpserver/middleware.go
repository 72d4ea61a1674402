package httpserver

import (
	"net/http"

	"storefront/internal/domain"
	"github.com/gin-gonic/gin"
)

const userCtxKey = "currentUser"

// sessionMiddleware resolves the session cookie to a user and stores it in
// the gin context, or short-circuits with 401.
func sessionMiddleware(auth authService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookie)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized. Please log in."})
			return
		}
		u, err := auth.LookupBySession(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized. Please log in."})
			return
		}
		c.Set(userCtxKey, u)
		c.Next()
	}
}

// adminMiddleware requires the session user to have the admin role. It must
// run after sessionMiddleware.
func adminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := currentUser(c)
		if u == nil || !u.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(userCtxKey)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}
