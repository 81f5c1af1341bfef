package controllers

import (
	"net/http"

	"epinera-marketplace/models"
	"epinera-marketplace/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DisputeController handles dispute endpoints.
type DisputeController struct {
	disputes services.DisputeService
	logger   *zap.Logger
}

// NewDisputeController creates a new DisputeController.
func NewDisputeController(disputes services.DisputeService, logger *zap.Logger) *DisputeController {
	return &DisputeController{disputes: disputes, logger: logger}
}

// OpenDispute handles POST /disputes.
func (ctrl *DisputeController) OpenDispute(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req models.OpenDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	dispute, serr := ctrl.disputes.OpenDispute(c.Request.Context(), userID, &req)
	if serr != nil {
		respondError(c, serr)
		return
	}
	ctrl.logger.Info("dispute opened",
		zap.String("buyer_id", userID.String()),
		zap.String("dispute_id", dispute.ID.String()))
	c.JSON(http.StatusCreated, dispute)
}

// AddMessage handles POST /disputes/:id/messages.
func (ctrl *DisputeController) AddMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	disputeID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req models.DisputeMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	dispute, serr := ctrl.disputes.AddMessage(c.Request.Context(), userID, disputeID, &req)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, dispute)
}

// ListMyDisputes handles GET /disputes.
func (ctrl *DisputeController) ListMyDisputes(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	disputes, serr := ctrl.disputes.ListMyDisputes(c.Request.Context(), userID)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"disputes": disputes})
}

// ListOpenDisputes handles GET /admin/disputes.
func (ctrl *DisputeController) ListOpenDisputes(c *gin.Context) {
	page, limit := pageParams(c, 20)
	disputes, total, serr := ctrl.disputes.ListOpenDisputes(c.Request.Context(), page, limit)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"disputes": disputes,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// ResolveDispute handles POST /admin/disputes/:id/resolve.
func (ctrl *DisputeController) ResolveDispute(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	disputeID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req models.ResolveDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	dispute, serr := ctrl.disputes.ResolveDispute(c.Request.Context(), adminID, disputeID, &req)
	if serr != nil {
		respondError(c, serr)
		return
	}
	ctrl.logger.Info("dispute resolved",
		zap.String("admin_id", adminID.String()),
		zap.String("dispute_id", disputeID.String()),
		zap.String("status", req.Status))
	c.JSON(http.StatusOK, dispute)
}
