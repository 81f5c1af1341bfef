package repository

import (
	"context"
	"time"

	"epinera-marketplace/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReferralRepository defines the interface for referral data access.
type ReferralRepository interface {
	Create(ctx context.Context, referral *models.Referral) error
	FindCodeRow(ctx context.Context, referrerID uuid.UUID) (*models.Referral, error)
	FindByCode(ctx context.Context, code string) (*models.Referral, error)
	FindByReferred(ctx context.Context, referredID uuid.UUID) (*models.Referral, error)
	ListByReferrer(ctx context.Context, referrerID uuid.UUID) ([]models.Referral, error)
	Attach(ctx context.Context, referralID, referredID uuid.UUID) error
	Complete(ctx context.Context, referralID uuid.UUID, reward float64) error
}

// GormReferralRepository implements ReferralRepository using GORM.
type GormReferralRepository struct {
	db *gorm.DB
}

// NewGormReferralRepository creates a new GormReferralRepository.
func NewGormReferralRepository(db *gorm.DB) ReferralRepository {
	return &GormReferralRepository{db: db}
}

func (r *GormReferralRepository) Create(ctx context.Context, referral *models.Referral) error {
	return r.db.WithContext(ctx).Create(referral).Error
}

// FindCodeRow returns the referrer's own code row, the one with no
// referred user attached.
func (r *GormReferralRepository) FindCodeRow(ctx context.Context, referrerID uuid.UUID) (*models.Referral, error) {
	var referral models.Referral
	err := r.db.WithContext(ctx).
		Where("referrer_id = ? AND referred_id IS NULL", referrerID).
		First(&referral).Error
	if err != nil {
		return nil, err
	}
	return &referral, nil
}

func (r *GormReferralRepository) FindByCode(ctx context.Context, code string) (*models.Referral, error) {
	var referral models.Referral
	err := r.db.WithContext(ctx).
		Where("referral_code = ? AND referred_id IS NULL", code).
		First(&referral).Error
	if err != nil {
		return nil, err
	}
	return &referral, nil
}

// FindByReferred returns the redemption row for a referred user, if any.
func (r *GormReferralRepository) FindByReferred(ctx context.Context, referredID uuid.UUID) (*models.Referral, error) {
	var referral models.Referral
	err := r.db.WithContext(ctx).
		Where("referred_id = ?", referredID).
		First(&referral).Error
	if err != nil {
		return nil, err
	}
	return &referral, nil
}

// ListByReferrer returns every redemption row for the referrer.
func (r *GormReferralRepository) ListByReferrer(ctx context.Context, referrerID uuid.UUID) ([]models.Referral, error) {
	var referrals []models.Referral
	err := r.db.WithContext(ctx).
		Where("referrer_id = ? AND referred_id IS NOT NULL", referrerID).
		Order("created_at DESC").
		Find(&referrals).Error
	if err != nil {
		return nil, err
	}
	return referrals, nil
}

// Attach records a code redemption by inserting a pending row that links
// the referred user to the referrer.
func (r *GormReferralRepository) Attach(ctx context.Context, referralID, referredID uuid.UUID) error {
	var source models.Referral
	if err := r.db.WithContext(ctx).Where("id = ?", referralID).First(&source).Error; err != nil {
		return err
	}
	redemption := models.Referral{
		ReferrerID:   source.ReferrerID,
		ReferredID:   &referredID,
		ReferralCode: source.ReferralCode,
		Status:       models.ReferralStatusPending,
	}
	return r.db.WithContext(ctx).Create(&redemption).Error
}

// Complete marks a pending redemption completed and records its reward.
func (r *GormReferralRepository) Complete(ctx context.Context, referralID uuid.UUID, reward float64) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.Referral{}).
		Where("id = ? AND status = ?", referralID, models.ReferralStatusPending).
		Updates(map[string]interface{}{
			"status":        models.ReferralStatusCompleted,
			"reward_amount": reward,
			"completed_at":  now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
