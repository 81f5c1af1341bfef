package services

import (
	"context"
	"errors"

	"epinera-marketplace/models"
	"epinera-marketplace/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReviewService covers product reviews.
type ReviewService interface {
	CreateReview(ctx context.Context, userID uuid.UUID, req *models.CreateReviewRequest) (*models.Review, *ServiceError)
	GetProductReviews(ctx context.Context, productID uuid.UUID, limit int) (*models.ReviewSummary, *ServiceError)
}

type reviewServiceImpl struct {
	reviews repository.ReviewRepository
	orders  repository.OrderRepository
	logger  *zap.Logger
}

// NewReviewService creates a new ReviewService.
func NewReviewService(reviews repository.ReviewRepository, orders repository.OrderRepository, logger *zap.Logger) ReviewService {
	return &reviewServiceImpl{reviews: reviews, orders: orders, logger: logger}
}

// CreateReview accepts a rating from a buyer who has purchased the product.
// One review per buyer per product.
func (s *reviewServiceImpl) CreateReview(ctx context.Context, userID uuid.UUID, req *models.CreateReviewRequest) (*models.Review, *ServiceError) {
	purchased, err := s.orders.HasCompletedPurchase(ctx, userID, req.ProductID)
	if err != nil {
		s.logger.Error("failed to verify purchase", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, errInternal("failed to create review")
	}
	if !purchased {
		return nil, errValidation("only buyers of this product can review it")
	}

	if _, err := s.reviews.FindByProductAndUser(ctx, req.ProductID, userID); err == nil {
		return nil, errConflict("you have already reviewed this product")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("failed to check existing review", zap.Error(err))
		return nil, errInternal("failed to create review")
	}

	review := &models.Review{
		ProductID: req.ProductID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		s.logger.Error("failed to create review", zap.Error(err))
		return nil, errInternal("failed to create review")
	}
	return review, nil
}

func (s *reviewServiceImpl) GetProductReviews(ctx context.Context, productID uuid.UUID, limit int) (*models.ReviewSummary, *ServiceError) {
	summary, err := s.reviews.ListByProduct(ctx, productID, limit)
	if err != nil {
		s.logger.Error("failed to list reviews", zap.String("product_id", productID.String()), zap.Error(err))
		return nil, errInternal("failed to list reviews")
	}
	return summary, nil
}
