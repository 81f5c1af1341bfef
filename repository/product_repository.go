package repository

import (
	"context"

	"epinera-marketplace/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductRepository defines the interface for catalog data access.
type ProductRepository interface {
	List(ctx context.Context, filters models.ProductFilters, page, limit int) ([]models.Product, int64, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindVariant(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error)
	Autocomplete(ctx context.Context, prefix string, limit int) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id, sellerID uuid.UUID) error
	ListCategories(ctx context.Context) ([]models.Category, error)
}

// GormProductRepository implements ProductRepository using GORM.
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository.
func NewGormProductRepository(db *gorm.DB) ProductRepository {
	return &GormProductRepository{db: db}
}

// List returns a filtered, paginated page of active products with their
// variants preloaded, plus the total match count.
func (r *GormProductRepository) List(ctx context.Context, filters models.ProductFilters, page, limit int) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})

	if filters.SellerID != nil {
		query = query.Where("products.seller_id = ?", *filters.SellerID)
	} else {
		query = query.Where("products.status = ?", "active")
	}
	if filters.CategorySlug != "" {
		query = query.
			Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", filters.CategorySlug)
	}
	if filters.Search != "" {
		query = query.Where("products.title ILIKE ?", "%"+filters.Search+"%")
	}
	if filters.MinPrice > 0 || filters.MaxPrice > 0 {
		sub := r.db.Model(&models.ProductVariant{}).
			Select("product_id").
			Group("product_id")
		if filters.MinPrice > 0 {
			sub = sub.Having("MIN(price) >= ?", filters.MinPrice)
		}
		if filters.MaxPrice > 0 {
			sub = sub.Having("MIN(price) <= ?", filters.MaxPrice)
		}
		query = query.Where("products.id IN (?)", sub)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch filters.Sort {
	case "price_asc":
		query = query.Order("(SELECT MIN(price) FROM product_variants WHERE product_variants.product_id = products.id) ASC")
	case "price_desc":
		query = query.Order("(SELECT MIN(price) FROM product_variants WHERE product_variants.product_id = products.id) DESC")
	default:
		query = query.Order("products.created_at DESC")
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	var products []models.Product
	err := query.
		Preload("Variants").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *GormProductRepository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Where("slug = ?", slug).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormProductRepository) FindVariant(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&variant).Error
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

// Autocomplete returns active products whose title starts with the prefix.
func (r *GormProductRepository) Autocomplete(ctx context.Context, prefix string, limit int) ([]models.Product, error) {
	if limit < 1 || limit > 10 {
		limit = 10
	}
	var products []models.Product
	err := r.db.WithContext(ctx).
		Select("id", "title", "slug", "image_url").
		Where("status = ? AND title ILIKE ?", "active", prefix+"%").
		Order("title ASC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *GormProductRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *GormProductRepository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete soft-deletes a listing owned by the seller.
func (r *GormProductRepository) Delete(ctx context.Context, id, sellerID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND seller_id = ?", id, sellerID).
		Delete(&models.Product{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormProductRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}
