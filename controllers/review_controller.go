package controllers

import (
	"net/http"
	"strconv"

	"epinera-marketplace/models"
	"epinera-marketplace/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReviewController handles product review endpoints.
type ReviewController struct {
	reviews services.ReviewService
	logger  *zap.Logger
}

// NewReviewController creates a new ReviewController.
func NewReviewController(reviews services.ReviewService, logger *zap.Logger) *ReviewController {
	return &ReviewController{reviews: reviews, logger: logger}
}

// CreateReview handles POST /reviews.
func (ctrl *ReviewController) CreateReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req models.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	review, serr := ctrl.reviews.CreateReview(c.Request.Context(), userID, &req)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusCreated, review)
}

// GetProductReviews handles GET /products/:id/reviews.
func (ctrl *ReviewController) GetProductReviews(c *gin.Context) {
	productID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	summary, serr := ctrl.reviews.GetProductReviews(c.Request.Context(), productID, limit)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, summary)
}
