package controllers

import (
	"errors"
	"io"
	"net/http"

	"epinera-marketplace/models"
	"epinera-marketplace/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CheckoutController handles checkout submissions.
type CheckoutController struct {
	checkout services.CheckoutService
	logger   *zap.Logger
}

// NewCheckoutController creates a new CheckoutController.
func NewCheckoutController(checkout services.CheckoutService, logger *zap.Logger) *CheckoutController {
	return &CheckoutController{checkout: checkout, logger: logger}
}

// Checkout handles POST /checkout.
func (ctrl *CheckoutController) Checkout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	// Both fields are optional, so a bare POST with no body is a valid
	// checkout of the whole cart.
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, serr := ctrl.checkout.ProcessCheckout(c.Request.Context(), userID, &req)
	if serr != nil {
		respondError(c, serr)
		return
	}

	ctrl.logger.Info("checkout completed",
		zap.String("user_id", userID.String()),
		zap.String("order_id", result.OrderID.String()),
		zap.Float64("total", result.Total))
	c.JSON(http.StatusCreated, result)
}
