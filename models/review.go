package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a buyer's rating for a purchased product.
type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index:idx_review_product_user,unique" json:"product_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_review_product_user,unique" json:"user_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// CreateReviewRequest is the payload for submitting a review.
type CreateReviewRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Rating    int       `json:"rating" binding:"required,min=1,max=5"`
	Comment   string    `json:"comment" binding:"max=2000"`
}

// ReviewSummary is a product's review list with its average rating.
type ReviewSummary struct {
	Reviews       []Review `json:"reviews"`
	AverageRating float64  `json:"average_rating"`
	Count         int64    `json:"count"`
}
