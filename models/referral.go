package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ReferralStatusPending   = "pending"
	ReferralStatusCompleted = "completed"
)

// Referral links a referrer's code to the user who redeemed it.
type Referral struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReferrerID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"referrer_id"`
	ReferredID     *uuid.UUID `gorm:"type:uuid;index" json:"referred_id,omitempty"`
	ReferralCode   string     `gorm:"type:varchar(32);index;not null" json:"referral_code"`
	Status         string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	RewardAmount   float64    `gorm:"not null;default:0" json:"reward_amount"`
	RewardCurrency string     `gorm:"type:varchar(3);not null;default:'USD'" json:"reward_currency"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// ReferralStats summarizes a referrer's performance.
type ReferralStats struct {
	TotalReferrals     int     `json:"total_referrals"`
	CompletedReferrals int     `json:"completed_referrals"`
	TotalEarnings      float64 `json:"total_earnings"`
	CurrentLevel       int     `json:"current_level"`
}
