package repository

import (
	"context"

	"epinera-marketplace/models"

	"gorm.io/gorm"
)

// MarketplaceStats aggregates the headline numbers for the admin dashboard.
type MarketplaceStats struct {
	TotalUsers     int64   `json:"total_users"`
	TotalProducts  int64   `json:"total_products"`
	TotalOrders    int64   `json:"total_orders"`
	TotalRevenue   float64 `json:"total_revenue"`
	OpenDisputes   int64   `json:"open_disputes"`
	PendingPayouts int64   `json:"pending_payouts"`
}

// AdminRepository defines the interface for cross-domain admin queries.
type AdminRepository interface {
	Stats(ctx context.Context) (*MarketplaceStats, error)
}

// GormAdminRepository implements AdminRepository using GORM.
type GormAdminRepository struct {
	db *gorm.DB
}

// NewGormAdminRepository creates a new GormAdminRepository.
func NewGormAdminRepository(db *gorm.DB) AdminRepository {
	return &GormAdminRepository{db: db}
}

// Stats collects marketplace-wide counts for the admin dashboard.
func (r *GormAdminRepository) Stats(ctx context.Context) (*MarketplaceStats, error) {
	var stats MarketplaceStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.Profile{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}
	err := db.Model(&models.Order{}).
		Where("payment_status = ?", models.PaymentStatusPaid).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&stats.TotalRevenue).Error
	if err != nil {
		return nil, err
	}
	if err := db.Model(&models.Dispute{}).Where("status = ?", models.DisputeStatusOpen).Count(&stats.OpenDisputes).Error; err != nil {
		return nil, err
	}
	err = db.Model(&models.WalletTransaction{}).
		Where("type = ? AND status = ?", models.TransactionTypeWithdrawal, models.TransactionStatusPending).
		Count(&stats.PendingPayouts).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
