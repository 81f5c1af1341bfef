package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationTypeOrder          = "order"
	NotificationTypePriceAlert     = "price_alert"
	NotificationTypeRecommendation = "recommendation"
	NotificationTypeCampaign       = "campaign"
	NotificationTypeSecurity       = "security"
	NotificationTypeCommunity      = "community"
	NotificationTypeDispute        = "dispute"
)

// Notification is a fire-and-forget in-app message.
type Notification struct {
	ID        uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID              `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      string                 `gorm:"type:varchar(32);not null" json:"type"`
	Title     string                 `gorm:"type:varchar(255);not null" json:"title"`
	Message   string                 `gorm:"type:text;not null" json:"message"`
	Link      string                 `gorm:"type:text" json:"link,omitempty"`
	IsRead    bool                   `gorm:"not null;default:false;index" json:"is_read"`
	ReadAt    *time.Time             `json:"read_at,omitempty"`
	Metadata  map[string]interface{} `gorm:"serializer:json" json:"metadata,omitempty"`
	CreatedAt time.Time              `gorm:"autoCreateTime" json:"created_at"`
}
