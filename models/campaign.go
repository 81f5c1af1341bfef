package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CampaignStatusActive   = "active"
	CampaignStatusInactive = "inactive"
)

// Campaign is a discount code configuration, percentage or fixed amount,
// valid inside its date window.
type Campaign struct {
	ID                 uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CreatorID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"creator_id"`
	Name               string         `gorm:"type:varchar(128);not null" json:"name"`
	Code               string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`
	DiscountPercentage *float64       `json:"discount_percentage,omitempty"`
	DiscountAmount     *float64       `json:"discount_amount,omitempty"`
	StartDate          time.Time      `gorm:"not null" json:"start_date"`
	EndDate            time.Time      `gorm:"not null" json:"end_date"`
	Status             string         `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	CreatedAt          time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

// CreateCampaignRequest is the payload for creating a discount campaign.
// Exactly one of discount_percentage / discount_amount must be set.
type CreateCampaignRequest struct {
	Name               string    `json:"name" binding:"required,min=3,max=128"`
	Code               string    `json:"code" binding:"required,min=3,max=64"`
	DiscountPercentage *float64  `json:"discount_percentage" binding:"omitempty,gt=0,lte=100"`
	DiscountAmount     *float64  `json:"discount_amount" binding:"omitempty,gt=0"`
	StartDate          time.Time `json:"start_date" binding:"required"`
	EndDate            time.Time `json:"end_date" binding:"required"`
}

// UpdateCampaignRequest carries partial campaign updates.
type UpdateCampaignRequest struct {
	Name               *string    `json:"name"`
	DiscountPercentage *float64   `json:"discount_percentage"`
	DiscountAmount     *float64   `json:"discount_amount"`
	StartDate          *time.Time `json:"start_date"`
	EndDate            *time.Time `json:"end_date"`
	Status             *string    `json:"status"`
}

// ValidateCampaignRequest asks what discount a code would apply to a subtotal.
type ValidateCampaignRequest struct {
	Code     string  `json:"code" binding:"required"`
	Subtotal float64 `json:"subtotal" binding:"required,gt=0"`
}

// ValidateCampaignResponse is the result of a campaign validation.
type ValidateCampaignResponse struct {
	Valid    bool    `json:"valid"`
	Code     string  `json:"code"`
	Discount float64 `json:"discount"`
	Message  string  `json:"message,omitempty"`
}
