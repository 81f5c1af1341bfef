package controllers

import (
	"net/http"

	"epinera-marketplace/models"
	"epinera-marketplace/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CartController handles cart endpoints.
type CartController struct {
	cart   services.CartService
	logger *zap.Logger
}

// NewCartController creates a new CartController.
func NewCartController(cart services.CartService, logger *zap.Logger) *CartController {
	return &CartController{cart: cart, logger: logger}
}

// GetCart handles GET /cart.
func (ctrl *CartController) GetCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	view, serr := ctrl.cart.GetCart(c.Request.Context(), userID)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, view)
}

// AddItem handles POST /cart/items.
func (ctrl *CartController) AddItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req models.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if serr := ctrl.cart.AddItem(c.Request.Context(), userID, &req); serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Item added to cart"})
}

// UpdateItem handles PATCH /cart/items/:id.
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	itemID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req models.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if serr := ctrl.cart.UpdateItem(c.Request.Context(), userID, itemID, &req); serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart item updated"})
}

// RemoveItem handles DELETE /cart/items/:id.
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	itemID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if serr := ctrl.cart.RemoveItem(c.Request.Context(), userID, itemID); serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart item removed"})
}

// ClearCart handles DELETE /cart.
func (ctrl *CartController) ClearCart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if serr := ctrl.cart.ClearCart(c.Request.Context(), userID); serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}
