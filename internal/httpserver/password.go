package httpserver

import (
	"errors"
	"net/http"

	passwordsvc "storefront/internal/service/password"
	"github.com/gin-gonic/gin"
)

func forgotPasswordHandler(passwords passwordService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email string `json:"email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email is required"})
			return
		}
		if err := passwords.Forgot(c.Request.Context(), req.Email); err != nil {
			if errors.Is(err, passwordsvc.ErrUnknownEmail) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "User not found with this email"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to send OTP"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "OTP sent to your email"})
	}
}

func verifyOTPHandler(passwords passwordService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email string `json:"email"`
			OTP   string `json:"otp"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.OTP == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email and OTP required"})
			return
		}
		token, err := passwords.VerifyOTP(c.Request.Context(), req.Email, req.OTP)
		if err != nil {
			switch {
			case errors.Is(err, passwordsvc.ErrNoResetRequest):
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No reset request found"})
			case errors.Is(err, passwordsvc.ErrOTPExpired):
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "OTP has expired"})
			case errors.Is(err, passwordsvc.ErrTooManyAttempts):
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Too many attempts. Request new OTP"})
			case errors.Is(err, passwordsvc.ErrInvalidOTP):
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid OTP"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to verify OTP"})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "OTP verified successfully", "token": token})
	}
}

func resetPasswordHandler(passwords passwordService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email       string `json:"email"`
			Token       string `json:"token"`
			NewPassword string `json:"newPassword"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Token == "" || req.NewPassword == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "All fields required"})
			return
		}
		if err := passwords.Reset(c.Request.Context(), req.Email, req.Token, req.NewPassword); err != nil {
			if errors.Is(err, passwordsvc.ErrInvalidResetToken) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid or expired token"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password reset successfully"})
	}
}

func changePasswordHandler(passwords passwordService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			OldPassword string `json:"oldPassword"`
			NewPassword string `json:"newPassword"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.OldPassword == "" || req.NewPassword == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "All fields required"})
			return
		}
		if err := passwords.Change(c.Request.Context(), currentUser(c).ID, req.OldPassword, req.NewPassword); err != nil {
			if errors.Is(err, passwordsvc.ErrWrongPassword) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Old password is incorrect"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password changed successfully"})
	}
}
