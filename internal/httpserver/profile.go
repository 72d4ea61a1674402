package httpserver

import (
	"errors"
	"io"
	"net/http"

	profilesvc "storefront/internal/service/profile"
	"github.com/gin-gonic/gin"
)

func getProfileHandler(profiles profileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := profiles.Get(c.Request.Context(), currentUser(c).ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch profile"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "user": u})
	}
}

func updatePhoneHandler(profiles profileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Phone string `json:"phone"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Phone == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Phone number is required"})
			return
		}
		u, err := profiles.UpdatePhone(c.Request.Context(), currentUser(c).ID, req.Phone)
		if err != nil {
			if errors.Is(err, profilesvc.ErrInvalidPhone) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Please enter a valid 10-digit phone number"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update phone number"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Phone number updated successfully", "user": u})
	}
}

func updateEmailHandler(profiles profileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email string `json:"email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email is required"})
			return
		}
		u, err := profiles.UpdateEmail(c.Request.Context(), currentUser(c).ID, req.Email)
		if err != nil {
			switch {
			case errors.Is(err, profilesvc.ErrInvalidEmail):
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Please enter a valid email"})
			case errors.Is(err, profilesvc.ErrEmailTaken):
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email already in use"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update email"})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Email updated successfully", "user": u})
	}
}

func updateAddressHandler(profiles profileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Address string `json:"address"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Address is required"})
			return
		}
		u, err := profiles.UpdateAddress(c.Request.Context(), currentUser(c).ID, req.Address)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update address"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Address updated successfully", "user": u})
	}
}

func updateProfileImageHandler(profiles profileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Image is required"})
			return
		}
		f, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Could not read image"})
			return
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Could not read image"})
			return
		}

		u, err := profiles.UpdateImage(c.Request.Context(), currentUser(c).ID, data, file.Header.Get("Content-Type"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update profile picture"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Profile picture updated successfully", "user": u})
	}
}
