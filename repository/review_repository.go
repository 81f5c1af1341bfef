package repository

import (
	"context"

	"epinera-marketplace/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReviewRepository defines the interface for review data access.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	FindByProductAndUser(ctx context.Context, productID, userID uuid.UUID) (*models.Review, error)
	ListByProduct(ctx context.Context, productID uuid.UUID, limit int) (*models.ReviewSummary, error)
}

// GormReviewRepository implements ReviewRepository using GORM.
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository.
func NewGormReviewRepository(db *gorm.DB) ReviewRepository {
	return &GormReviewRepository{db: db}
}

func (r *GormReviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *GormReviewRepository) FindByProductAndUser(ctx context.Context, productID, userID uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND user_id = ?", productID, userID).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// ListByProduct returns a product's reviews, newest first, with the average
// rating over all of them.
func (r *GormReviewRepository) ListByProduct(ctx context.Context, productID uuid.UUID, limit int) (*models.ReviewSummary, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}

	var summary models.ReviewSummary
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("product_id = ?", productID).
		Count(&summary.Count).Error
	if err != nil {
		return nil, err
	}

	if summary.Count > 0 {
		err = r.db.WithContext(ctx).
			Model(&models.Review{}).
			Where("product_id = ?", productID).
			Select("COALESCE(AVG(rating), 0)").
			Scan(&summary.AverageRating).Error
		if err != nil {
			return nil, err
		}
	}

	err = r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Limit(limit).
		Find(&summary.Reviews).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}
