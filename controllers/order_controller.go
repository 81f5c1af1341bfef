package controllers

import (
	"net/http"

	"epinera-marketplace/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OrderController handles buyer order history and seller sales endpoints.
type OrderController struct {
	orders services.OrderService
	logger *zap.Logger
}

// NewOrderController creates a new OrderController.
func NewOrderController(orders services.OrderService, logger *zap.Logger) *OrderController {
	return &OrderController{orders: orders, logger: logger}
}

// ListOrders handles GET /orders.
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, limit := pageParams(c, 20)
	result, serr := ctrl.orders.GetOrders(c.Request.Context(), userID, page, limit)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetOrder handles GET /orders/:id.
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	orderID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	order, stage, serr := ctrl.orders.GetOrder(c.Request.Context(), orderID, userID)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order, "delivery_stage": stage})
}

// ListSales handles GET /seller/orders.
func (ctrl *OrderController) ListSales(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, limit := pageParams(c, 20)
	result, serr := ctrl.orders.GetSellerSales(c.Request.Context(), userID, page, limit)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DeliverItem handles POST /seller/orders/items/:id/deliver.
func (ctrl *OrderController) DeliverItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	itemID, ok := uuidParam(c, "id")
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
	if serr := ctrl.orders.DeliverItem(c.Request.Context(), userID, itemID, req.Code); serr != nil {
		respondError(c, serr)
		return
	}
	ctrl.logger.Info("item delivered",
		zap.String("seller_id", userID.String()),
		zap.String("item_id", itemID.String()))
	c.JSON(http.StatusOK, gin.H{"message": "Item delivered"})
}
