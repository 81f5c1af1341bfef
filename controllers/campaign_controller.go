package controllers

import (
	"net/http"

	"epinera-marketplace/models"
	"epinera-marketplace/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CampaignController handles discount campaign endpoints.
type CampaignController struct {
	campaigns services.CampaignService
	logger    *zap.Logger
}

// NewCampaignController creates a new CampaignController.
func NewCampaignController(campaigns services.CampaignService, logger *zap.Logger) *CampaignController {
	return &CampaignController{campaigns: campaigns, logger: logger}
}

// CreateCampaign handles POST /campaigns.
func (ctrl *CampaignController) CreateCampaign(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req models.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	campaign, serr := ctrl.campaigns.CreateCampaign(c.Request.Context(), userID, &req)
	if serr != nil {
		respondError(c, serr)
		return
	}
	ctrl.logger.Info("campaign created",
		zap.String("creator_id", userID.String()),
		zap.String("code", campaign.Code))
	c.JSON(http.StatusCreated, campaign)
}

// ListCampaigns handles GET /campaigns.
func (ctrl *CampaignController) ListCampaigns(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, limit := pageParams(c, 20)
	campaigns, total, serr := ctrl.campaigns.ListCampaigns(c.Request.Context(), userID, page, limit)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"campaigns": campaigns,
		"total":     total,
		"page":      page,
		"limit":     limit,
	})
}

// UpdateCampaign handles PATCH /campaigns/:id.
func (ctrl *CampaignController) UpdateCampaign(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	campaignID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req models.UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	campaign, serr := ctrl.campaigns.UpdateCampaign(c.Request.Context(), userID, campaignID, &req)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, campaign)
}

// DeactivateCampaign handles DELETE /campaigns/:id.
func (ctrl *CampaignController) DeactivateCampaign(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	campaignID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if serr := ctrl.campaigns.DeactivateCampaign(c.Request.Context(), userID, campaignID); serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Campaign deactivated"})
}

// ValidateCode handles POST /campaigns/validate.
func (ctrl *CampaignController) ValidateCode(c *gin.Context) {
	var req models.ValidateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	result, serr := ctrl.campaigns.ValidateCode(c.Request.Context(), &req)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, result)
}
