package repository

import (
	"context"

	"epinera-marketplace/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DisputeRepository defines the interface for dispute data access.
type DisputeRepository interface {
	Create(ctx context.Context, dispute *models.Dispute) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Dispute, error)
	FindByOrderItem(ctx context.Context, orderItemID uuid.UUID) (*models.Dispute, error)
	ListByParticipant(ctx context.Context, userID uuid.UUID) ([]models.Dispute, error)
	ListOpen(ctx context.Context, page, limit int) ([]models.Dispute, int64, error)
	Update(ctx context.Context, dispute *models.Dispute) error
}

// GormDisputeRepository implements DisputeRepository using GORM.
type GormDisputeRepository struct {
	db *gorm.DB
}

// NewGormDisputeRepository creates a new GormDisputeRepository.
func NewGormDisputeRepository(db *gorm.DB) DisputeRepository {
	return &GormDisputeRepository{db: db}
}

func (r *GormDisputeRepository) Create(ctx context.Context, dispute *models.Dispute) error {
	return r.db.WithContext(ctx).Create(dispute).Error
}

func (r *GormDisputeRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Dispute, error) {
	var dispute models.Dispute
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dispute).Error
	if err != nil {
		return nil, err
	}
	return &dispute, nil
}

func (r *GormDisputeRepository) FindByOrderItem(ctx context.Context, orderItemID uuid.UUID) (*models.Dispute, error) {
	var dispute models.Dispute
	err := r.db.WithContext(ctx).Where("order_item_id = ?", orderItemID).First(&dispute).Error
	if err != nil {
		return nil, err
	}
	return &dispute, nil
}

// ListByParticipant returns disputes where the user is buyer or seller.
func (r *GormDisputeRepository) ListByParticipant(ctx context.Context, userID uuid.UUID) ([]models.Dispute, error) {
	var disputes []models.Dispute
	err := r.db.WithContext(ctx).
		Where("buyer_id = ? OR seller_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&disputes).Error
	if err != nil {
		return nil, err
	}
	return disputes, nil
}

// ListOpen returns open disputes for the admin queue, oldest first.
func (r *GormDisputeRepository) ListOpen(ctx context.Context, page, limit int) ([]models.Dispute, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	query := r.db.WithContext(ctx).
		Model(&models.Dispute{}).
		Where("status = ?", models.DisputeStatusOpen)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var disputes []models.Dispute
	err := query.
		Order("created_at ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&disputes).Error
	if err != nil {
		return nil, 0, err
	}
	return disputes, total, nil
}

func (r *GormDisputeRepository) Update(ctx context.Context, dispute *models.Dispute) error {
	return r.db.WithContext(ctx).Save(dispute).Error
}
