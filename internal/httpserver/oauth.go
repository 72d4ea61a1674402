package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func googleAuthURLHandler(oauth oauthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "authURL": oauth.AuthURL()})
	}
}

func googleCallbackHandler(oauth oauthService, auth authService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Code string `json:"code"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Authorization code is required"})
			return
		}
		u, err := oauth.Login(c.Request.Context(), req.Code)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Google login failed"})
			return
		}
		token, err := auth.IssueSession(c.Request.Context(), u.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Google login failed"})
			return
		}
		setSessionCookie(c, token, auth.SessionTTLSeconds())
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Google login successful", "user": u})
	}
}
