package httpserver

import (
	"errors"
	"net/http"

	"storefront/internal/domain"
	authsvc "storefront/internal/service/auth"
	"github.com/gin-gonic/gin"
)

type signupRequest struct {
	FullName string `json:"fullname"`
	Username string `json:"uname"`
	Email    string `json:"email"`
	PhoneNo  string `json:"number"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"uname" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func signupHandler(auth authService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		u, err := auth.Signup(c.Request.Context(), authsvc.SignupInput{
			FullName: req.FullName,
			Username: req.Username,
			Email:    req.Email,
			PhoneNo:  req.PhoneNo,
			Password: req.Password,
		})
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "username or email already registered"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "successfully registered", "user": u})
	}
}

func loginHandler(auth authService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username and password required"})
			return
		}
		u, token, err := auth.Login(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			if errors.Is(err, authsvc.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
			return
		}
		setSessionCookie(c, token, auth.SessionTTLSeconds())
		c.JSON(http.StatusOK, gin.H{"message": "login successful", "user": u})
	}
}

func logoutHandler(auth authService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(sessionCookie); err == nil && token != "" {
			_ = auth.Logout(c.Request.Context(), token)
		}
		clearSessionCookie(c)
		c.JSON(http.StatusOK, gin.H{"message": "logged out"})
	}
}

func meHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": currentUser(c)})
	}
}

func setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, token, maxAge, "/", "", false, true)
}

func clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
}
