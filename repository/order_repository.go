package repository

import (
	"context"

	"epinera-marketplace/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SellerSale is an order item joined with its order's currency and buyer.
type SellerSale struct {
	models.OrderItem
	BuyerID  uuid.UUID `json:"buyer_id"`
	Currency string    `json:"currency"`
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	FindByBuyer(ctx context.Context, buyerID uuid.UUID, page, limit int) ([]models.Order, int64, error)
	FindByIDAndBuyer(ctx context.Context, orderID, buyerID uuid.UUID) (*models.Order, error)
	FindItemByID(ctx context.Context, itemID uuid.UUID) (*models.OrderItem, error)
	FindSellerSales(ctx context.Context, sellerID uuid.UUID, page, limit int) ([]SellerSale, int64, error)
	UpdateItemDelivery(ctx context.Context, itemID, sellerID uuid.UUID, status string, code *string) error
	HasCompletedPurchase(ctx context.Context, buyerID, productID uuid.UUID) (bool, error)
	CountCompletedByBuyer(ctx context.Context, buyerID uuid.UUID) (int64, error)
}

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository.
func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByBuyer returns the buyer's orders newest first, items preloaded.
func (r *GormOrderRepository) FindByBuyer(ctx context.Context, buyerID uuid.UUID, page, limit int) ([]models.Order, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("buyer_id = ?", buyerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := query.
		Preload("OrderItems").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *GormOrderRepository) FindByIDAndBuyer(ctx context.Context, orderID, buyerID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("OrderItems").
		Where("id = ? AND buyer_id = ?", orderID, buyerID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) FindItemByID(ctx context.Context, itemID uuid.UUID) (*models.OrderItem, error) {
	var item models.OrderItem
	err := r.db.WithContext(ctx).Where("id = ?", itemID).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindSellerSales returns the seller's sold items newest first, with the
// parent order's buyer and currency joined in.
func (r *GormOrderRepository) FindSellerSales(ctx context.Context, sellerID uuid.UUID, page, limit int) ([]SellerSale, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	base := r.db.WithContext(ctx).
		Table("order_items").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.seller_id = ?", sellerID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sales []SellerSale
	err := base.
		Select("order_items.*, orders.buyer_id, orders.currency").
		Order("order_items.created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Scan(&sales).Error
	if err != nil {
		return nil, 0, err
	}
	return sales, total, nil
}

// UpdateItemDelivery sets an item's delivery status and optionally its
// delivered code, restricted to items the seller owns.
func (r *GormOrderRepository) UpdateItemDelivery(ctx context.Context, itemID, sellerID uuid.UUID, status string, code *string) error {
	updates := map[string]interface{}{"delivery_status": status}
	if code != nil {
		updates["delivered_code"] = *code
	}
	result := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("id = ? AND seller_id = ?", itemID, sellerID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// HasCompletedPurchase reports whether the buyer has a paid order containing
// the product. Used to gate reviews.
func (r *GormOrderRepository) HasCompletedPurchase(ctx context.Context, buyerID, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("order_items").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.buyer_id = ? AND order_items.product_id = ? AND orders.payment_status = ?",
			buyerID, productID, models.PaymentStatusPaid).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountCompletedByBuyer counts the buyer's completed orders. Feeds the
// referral level calculation.
func (r *GormOrderRepository) CountCompletedByBuyer(ctx context.Context, buyerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("buyer_id = ? AND status = ?", buyerID, models.OrderStatusCompleted).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
