package repository

import (
	"context"
	"time"

	"epinera-marketplace/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CampaignRepository defines the interface for campaign data access.
type CampaignRepository interface {
	Create(ctx context.Context, campaign *models.Campaign) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error)
	FindActiveByCode(ctx context.Context, code string, now time.Time) (*models.Campaign, error)
	FindByCreator(ctx context.Context, creatorID uuid.UUID, page, limit int) ([]models.Campaign, int64, error)
	Update(ctx context.Context, campaign *models.Campaign) error
	Deactivate(ctx context.Context, id, creatorID uuid.UUID) error
}

// GormCampaignRepository implements CampaignRepository using GORM.
type GormCampaignRepository struct {
	db *gorm.DB
}

// NewGormCampaignRepository creates a new GormCampaignRepository.
func NewGormCampaignRepository(db *gorm.DB) CampaignRepository {
	return &GormCampaignRepository{db: db}
}

func (r *GormCampaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	return r.db.WithContext(ctx).Create(campaign).Error
}

func (r *GormCampaignRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	var campaign models.Campaign
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&campaign).Error
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

// FindActiveByCode resolves a discount code that is active and inside its
// validity window at the given instant.
func (r *GormCampaignRepository) FindActiveByCode(ctx context.Context, code string, now time.Time) (*models.Campaign, error) {
	var campaign models.Campaign
	err := r.db.WithContext(ctx).
		Where("code = ? AND status = ? AND start_date <= ? AND end_date >= ?",
			code, models.CampaignStatusActive, now, now).
		First(&campaign).Error
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (r *GormCampaignRepository) FindByCreator(ctx context.Context, creatorID uuid.UUID, page, limit int) ([]models.Campaign, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	query := r.db.WithContext(ctx).
		Model(&models.Campaign{}).
		Where("creator_id = ?", creatorID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var campaigns []models.Campaign
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&campaigns).Error
	if err != nil {
		return nil, 0, err
	}
	return campaigns, total, nil
}

func (r *GormCampaignRepository) Update(ctx context.Context, campaign *models.Campaign) error {
	return r.db.WithContext(ctx).Save(campaign).Error
}

// Deactivate sets a campaign's status to inactive when owned by the creator.
func (r *GormCampaignRepository) Deactivate(ctx context.Context, id, creatorID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.Campaign{}).
		Where("id = ? AND creator_id = ?", id, creatorID).
		Update("status", models.CampaignStatusInactive)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
