package repository

import (
	"context"

	"epinera-marketplace/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartRepository defines the interface for cart data access.
type CartRepository interface {
	ListLines(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error)
	FindItem(ctx context.Context, userID, variantID uuid.UUID) (*models.CartItem, error)
	FindItemByID(ctx context.Context, itemID, userID uuid.UUID) (*models.CartItem, error)
	Create(ctx context.Context, item *models.CartItem) error
	UpdateQuantity(ctx context.Context, itemID, userID uuid.UUID, quantity int) error
	Delete(ctx context.Context, itemID, userID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
}

// GormCartRepository implements CartRepository using GORM.
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository.
func NewGormCartRepository(db *gorm.DB) CartRepository {
	return &GormCartRepository{db: db}
}

// ListLines returns the user's cart items joined with variant and product data.
func (r *GormCartRepository) ListLines(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := r.db.WithContext(ctx).
		Table("cart_items").
		Select(`cart_items.id AS item_id,
			cart_items.variant_id,
			cart_items.quantity,
			product_variants.name AS variant_name,
			product_variants.price AS unit_price,
			product_variants.currency,
			product_variants.stock_quantity,
			products.id AS product_id,
			products.title AS product_title,
			products.slug AS product_slug,
			products.seller_id`).
		Joins("JOIN product_variants ON product_variants.id = cart_items.variant_id").
		Joins("JOIN products ON products.id = product_variants.product_id").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.created_at ASC").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// FindItem retrieves a cart item by user and variant.
func (r *GormCartRepository) FindItem(ctx context.Context, userID, variantID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND variant_id = ?", userID, variantID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindItemByID retrieves a cart item owned by the given user.
func (r *GormCartRepository) FindItemByID(ctx context.Context, itemID, userID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a new cart item.
func (r *GormCartRepository) Create(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// UpdateQuantity sets the quantity of a cart item owned by the user.
func (r *GormCartRepository) UpdateQuantity(ctx context.Context, itemID, userID uuid.UUID, quantity int) error {
	result := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ? AND user_id = ?", itemID, userID).
		Update("quantity", quantity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a cart item owned by the user.
func (r *GormCartRepository) Delete(ctx context.Context, itemID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&models.CartItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Clear removes all cart items for the user.
func (r *GormCartRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).Error
}
