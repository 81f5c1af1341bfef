package controllers

import (
	"net/http"
	"strconv"

	"epinera-marketplace/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminController handles admin dashboard endpoints.
type AdminController struct {
	admin  services.AdminService
	logger *zap.Logger
}

// NewAdminController creates a new AdminController.
func NewAdminController(admin services.AdminService, logger *zap.Logger) *AdminController {
	return &AdminController{admin: admin, logger: logger}
}

// GetStats handles GET /admin/stats.
func (ctrl *AdminController) GetStats(c *gin.Context) {
	stats, serr := ctrl.admin.GetStats(c.Request.Context())
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListTransactions handles GET /admin/transactions.
func (ctrl *AdminController) ListTransactions(c *gin.Context) {
	page, limit := pageParams(c, 50)
	result, serr := ctrl.admin.GetAllTransactions(c.Request.Context(), page, limit)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListAuditLogs handles GET /admin/audit-logs.
func (ctrl *AdminController) ListAuditLogs(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "100"), 10, 64)
	entries, serr := ctrl.admin.GetAuditLogs(c.Request.Context(), c.Query("action"), limit)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"audit_logs": entries})
}
