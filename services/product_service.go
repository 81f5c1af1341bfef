package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"epinera-marketplace/models"
	awspkg "epinera-marketplace/pkg/aws"
	"epinera-marketplace/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProductPage is a paginated catalog listing.
type ProductPage struct {
	Products []models.Product `json:"products"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
}

// ProductService covers the public catalog and seller listing management.
type ProductService interface {
	ListProducts(ctx context.Context, filters models.ProductFilters, page, limit int) (*ProductPage, *ServiceError)
	GetProductBySlug(ctx context.Context, slug string) (*models.Product, *ServiceError)
	Autocomplete(ctx context.Context, prefix string, limit int) ([]models.Product, *ServiceError)
	ListCategories(ctx context.Context) ([]models.Category, *ServiceError)
	CreateProduct(ctx context.Context, sellerID uuid.UUID, req *models.CreateProductRequest) (*models.Product, *ServiceError)
	UpdateProduct(ctx context.Context, sellerID, productID uuid.UUID, req *models.UpdateProductRequest) (*models.Product, *ServiceError)
	DeleteProduct(ctx context.Context, sellerID, productID uuid.UUID) *ServiceError
	GenerateImageUploadURL(ctx context.Context, sellerID uuid.UUID, filename string) (string, *ServiceError)
}

type productServiceImpl struct {
	products repository.ProductRepository
	cache    *repository.ProductCache
	uploader *awspkg.S3Presigner
	metrics  *awspkg.MetricsClient
	logger   *zap.Logger
}

// NewProductService creates a new ProductService. cache and uploader are
// optional.
func NewProductService(products repository.ProductRepository, cache *repository.ProductCache, uploader *awspkg.S3Presigner, metrics *awspkg.MetricsClient, logger *zap.Logger) ProductService {
	return &productServiceImpl{
		products: products,
		cache:    cache,
		uploader: uploader,
		metrics:  metrics,
		logger:   logger,
	}
}

func (s *productServiceImpl) ListProducts(ctx context.Context, filters models.ProductFilters, page, limit int) (*ProductPage, *ServiceError) {
	cacheKey := listCacheKey(filters, page, limit)
	if s.cache != nil && filters.SellerID == nil {
		var cached ProductPage
		if s.cache.Get(ctx, cacheKey, &cached) {
			if s.metrics != nil {
				_ = s.metrics.RecordCount(ctx, awspkg.MetricCacheHits, nil)
			}
			return &cached, nil
		}
		if s.metrics != nil {
			_ = s.metrics.RecordCount(ctx, awspkg.MetricCacheMisses, nil)
		}
	}

	products, total, err := s.products.List(ctx, filters, page, limit)
	if err != nil {
		s.logger.Error("failed to list products", zap.Error(err))
		return nil, errInternal("failed to list products")
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	result := &ProductPage{Products: products, Total: total, Page: page, Limit: limit}

	if s.cache != nil && filters.SellerID == nil {
		s.cache.Set(ctx, cacheKey, result)
	}
	return result, nil
}

func listCacheKey(filters models.ProductFilters, page, limit int) string {
	return fmt.Sprintf("list:%s:%s:%.2f:%.2f:%s:%d:%d",
		filters.CategorySlug, filters.Search, filters.MinPrice, filters.MaxPrice, filters.Sort, page, limit)
}

func (s *productServiceImpl) GetProductBySlug(ctx context.Context, slug string) (*models.Product, *ServiceError) {
	cacheKey := "detail:" + slug
	if s.cache != nil {
		var cached models.Product
		if s.cache.Get(ctx, cacheKey, &cached) {
			return &cached, nil
		}
	}

	product, err := s.products.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("product not found")
		}
		s.logger.Error("failed to load product", zap.String("slug", slug), zap.Error(err))
		return nil, errInternal("failed to load product")
	}

	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, product)
	}
	return product, nil
}

func (s *productServiceImpl) Autocomplete(ctx context.Context, prefix string, limit int) ([]models.Product, *ServiceError) {
	prefix = strings.TrimSpace(prefix)
	if len(prefix) < 2 {
		return []models.Product{}, nil
	}
	products, err := s.products.Autocomplete(ctx, prefix, limit)
	if err != nil {
		s.logger.Error("autocomplete failed", zap.String("prefix", prefix), zap.Error(err))
		return nil, errInternal("search failed")
	}
	return products, nil
}

func (s *productServiceImpl) ListCategories(ctx context.Context) ([]models.Category, *ServiceError) {
	categories, err := s.products.ListCategories(ctx)
	if err != nil {
		s.logger.Error("failed to list categories", zap.Error(err))
		return nil, errInternal("failed to list categories")
	}
	return categories, nil
}

func (s *productServiceImpl) CreateProduct(ctx context.Context, sellerID uuid.UUID, req *models.CreateProductRequest) (*models.Product, *ServiceError) {
	product := &models.Product{
		SellerID:    sellerID,
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Slug:        strings.ToLower(strings.TrimSpace(req.Slug)),
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Status:      "active",
	}
	for _, v := range req.Variants {
		currency := v.Currency
		if currency == "" {
			currency = "USD"
		}
		product.Variants = append(product.Variants, models.ProductVariant{
			Name:          v.Name,
			Price:         v.Price,
			Currency:      currency,
			StockQuantity: v.StockQuantity,
		})
	}

	if err := s.products.Create(ctx, product); err != nil {
		if strings.Contains(err.Error(), "duplicate") {
			return nil, errConflict("a product with this slug already exists")
		}
		s.logger.Error("failed to create product", zap.String("seller_id", sellerID.String()), zap.Error(err))
		return nil, errInternal("failed to create product")
	}

	s.invalidateCache(ctx)
	return product, nil
}

func (s *productServiceImpl) UpdateProduct(ctx context.Context, sellerID, productID uuid.UUID, req *models.UpdateProductRequest) (*models.Product, *ServiceError) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("product not found")
		}
		s.logger.Error("failed to load product", zap.Error(err))
		return nil, errInternal("failed to update product")
	}
	if product.SellerID != sellerID {
		return nil, errNotFound("product not found")
	}

	if req.Title != nil {
		product.Title = *req.Title
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
	if req.CategoryID != nil {
		product.CategoryID = req.CategoryID
	}
	if req.Status != nil {
		product.Status = *req.Status
	}

	if err := s.products.Update(ctx, product); err != nil {
		s.logger.Error("failed to update product", zap.Error(err))
		return nil, errInternal("failed to update product")
	}

	s.invalidateCache(ctx)
	return product, nil
}

func (s *productServiceImpl) DeleteProduct(ctx context.Context, sellerID, productID uuid.UUID) *ServiceError {
	if err := s.products.Delete(ctx, productID, sellerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNotFound("product not found")
		}
		s.logger.Error("failed to delete product", zap.Error(err))
		return errInternal("failed to delete product")
	}
	s.invalidateCache(ctx)
	return nil
}

// GenerateImageUploadURL returns a presigned S3 PUT URL scoped to the
// seller's image prefix.
func (s *productServiceImpl) GenerateImageUploadURL(ctx context.Context, sellerID uuid.UUID, filename string) (string, *ServiceError) {
	if s.uploader == nil {
		return "", errInternal("uploads are not configured")
	}
	filename = strings.TrimSpace(filename)
	if filename == "" || strings.Contains(filename, "/") {
		return "", errValidation("invalid filename")
	}
	key := fmt.Sprintf("products/%s/%d-%s", sellerID, time.Now().Unix(), filename)
	url, err := s.uploader.GeneratePresignedPutURL(ctx, key, 15*time.Minute)
	if err != nil {
		s.logger.Error("failed to presign upload", zap.Error(err))
		return "", errInternal("failed to create upload URL")
	}
	return url, nil
}

func (s *productServiceImpl) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}
