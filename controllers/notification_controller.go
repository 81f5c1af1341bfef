package controllers

import (
	"net/http"
	"strconv"

	"epinera-marketplace/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NotificationController handles the in-app notification feed.
type NotificationController struct {
	notifications services.NotificationService
	logger        *zap.Logger
}

// NewNotificationController creates a new NotificationController.
func NewNotificationController(notifications services.NotificationService, logger *zap.Logger) *NotificationController {
	return &NotificationController{notifications: notifications, logger: logger}
}

// List handles GET /notifications.
func (ctrl *NotificationController) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	unreadOnly := c.Query("unread") == "true"

	notifications, serr := ctrl.notifications.List(c.Request.Context(), userID, limit, unreadOnly)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// UnreadCount handles GET /notifications/unread-count.
func (ctrl *NotificationController) UnreadCount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	count, serr := ctrl.notifications.UnreadCount(c.Request.Context(), userID)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// MarkRead handles POST /notifications/:id/read.
func (ctrl *NotificationController) MarkRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	notificationID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if serr := ctrl.notifications.MarkRead(c.Request.Context(), userID, notificationID); serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked read"})
}

// MarkAllRead handles POST /notifications/read-all.
func (ctrl *NotificationController) MarkAllRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if serr := ctrl.notifications.MarkAllRead(c.Request.Context(), userID); serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked read"})
}
