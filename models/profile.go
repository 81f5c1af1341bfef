package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

// Profile is the marketplace-side user record. Identity itself lives at the
// gateway; profiles carry display and preference data keyed by the same ID.
type Profile struct {
	ID        uuid.UUID              `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string                 `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	FullName  string                 `gorm:"type:varchar(128)" json:"full_name"`
	Phone     string                 `gorm:"type:varchar(32)" json:"phone"`
	AvatarURL string                 `gorm:"type:text" json:"avatar_url"`
	Role      string                 `gorm:"type:varchar(20);not null;default:'buyer'" json:"role"`
	Metadata  map[string]interface{} `gorm:"serializer:json" json:"metadata,omitempty"`
	CreatedAt time.Time              `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time              `gorm:"autoUpdateTime" json:"updated_at"`
}

// NotificationPreferences is stored under profile metadata.
type NotificationPreferences struct {
	Email bool `json:"email"`
	Push  bool `json:"push"`
	SMS   bool `json:"sms"`
}

// ProfileCompletion reports how much of the profile is filled in.
type ProfileCompletion struct {
	Completion    int      `json:"completion"`
	MissingFields []string `json:"missing_fields"`
}
