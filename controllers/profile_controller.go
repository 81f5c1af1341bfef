package controllers

import (
	"net/http"

	"epinera-marketplace/models"
	"epinera-marketplace/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProfileController handles profile endpoints.
type ProfileController struct {
	profiles services.ProfileService
	logger   *zap.Logger
}

// NewProfileController creates a new ProfileController.
func NewProfileController(profiles services.ProfileService, logger *zap.Logger) *ProfileController {
	return &ProfileController{profiles: profiles, logger: logger}
}

// GetProfile handles GET /profile.
func (ctrl *ProfileController) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	email := c.GetString("email")
	if email != "" {
		if serr := ctrl.profiles.EnsureProfile(c.Request.Context(), userID, email); serr != nil {
			respondError(c, serr)
			return
		}
	}
	profile, serr := ctrl.profiles.GetProfile(c.Request.Context(), userID)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateAvatar handles PATCH /profile/avatar.
func (ctrl *ProfileController) UpdateAvatar(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		AvatarURL string `json:"avatar_url" binding:"required,url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if serr := ctrl.profiles.UpdateAvatar(c.Request.Context(), userID, req.AvatarURL); serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Avatar updated"})
}

// ConnectSocial handles POST /profile/social.
func (ctrl *ProfileController) ConnectSocial(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		Provider string `json:"provider" binding:"required"`
		Handle   string `json:"handle" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if serr := ctrl.profiles.ConnectSocial(c.Request.Context(), userID, req.Provider, req.Handle); serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Social account connected"})
}

// UpdatePreferences handles PUT /profile/notification-preferences.
func (ctrl *ProfileController) UpdatePreferences(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req models.NotificationPreferences
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if serr := ctrl.profiles.UpdateNotificationPreferences(c.Request.Context(), userID, req); serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Preferences updated"})
}

// UpdateGenres handles PUT /profile/genres.
func (ctrl *ProfileController) UpdateGenres(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		Genres []string `json:"genres" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if serr := ctrl.profiles.UpdateFavoriteGenres(c.Request.Context(), userID, req.Genres); serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Genres updated"})
}

// GetCompletion handles GET /profile/completion.
func (ctrl *ProfileController) GetCompletion(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	completion, serr := ctrl.profiles.GetCompletion(c.Request.Context(), userID)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, completion)
}
