package controllers

import (
	"net/http"

	"epinera-marketplace/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReferralController handles referral code endpoints.
type ReferralController struct {
	referrals services.ReferralService
	logger    *zap.Logger
}

// NewReferralController creates a new ReferralController.
func NewReferralController(referrals services.ReferralService, logger *zap.Logger) *ReferralController {
	return &ReferralController{referrals: referrals, logger: logger}
}

// GetCode handles GET /referrals/code.
func (ctrl *ReferralController) GetCode(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	code, serr := ctrl.referrals.GetOrCreateCode(c.Request.Context(), userID)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": code})
}

// GetStats handles GET /referrals/stats.
func (ctrl *ReferralController) GetStats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	stats, serr := ctrl.referrals.GetStats(c.Request.Context(), userID)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ApplyCode handles POST /referrals/apply.
func (ctrl *ReferralController) ApplyCode(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if serr := ctrl.referrals.ApplyCode(c.Request.Context(), userID, req.Code); serr != nil {
		respondError(c, serr)
		return
	}
	ctrl.logger.Info("referral code applied",
		zap.String("user_id", userID.String()))
	c.JSON(http.StatusOK, gin.H{"message": "Referral code applied"})
}
