package controllers

import (
	"net/http"
	"strconv"

	"epinera-marketplace/models"
	"epinera-marketplace/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProductController handles catalog and seller listing endpoints.
type ProductController struct {
	products services.ProductService
	logger   *zap.Logger
}

// NewProductController creates a new ProductController.
func NewProductController(products services.ProductService, logger *zap.Logger) *ProductController {
	return &ProductController{products: products, logger: logger}
}

// ListProducts handles GET /products.
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	filters := models.ProductFilters{
		CategorySlug: c.Query("category"),
		Search:       c.Query("search"),
		Sort:         c.Query("sort"),
	}
	if v, err := strconv.ParseFloat(c.Query("min_price"), 64); err == nil {
		filters.MinPrice = v
	}
	if v, err := strconv.ParseFloat(c.Query("max_price"), 64); err == nil {
		filters.MaxPrice = v
	}
	page, limit := pageParams(c, 20)

	result, serr := ctrl.products.ListProducts(c.Request.Context(), filters, page, limit)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetProduct handles GET /products/:slug.
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	product, serr := ctrl.products.GetProductBySlug(c.Request.Context(), c.Param("slug"))
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, product)
}

// Autocomplete handles GET /products/autocomplete.
func (ctrl *ProductController) Autocomplete(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "8"))
	results, serr := ctrl.products.Autocomplete(c.Request.Context(), c.Query("q"), limit)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// ListCategories handles GET /categories.
func (ctrl *ProductController) ListCategories(c *gin.Context) {
	categories, serr := ctrl.products.ListCategories(c.Request.Context())
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// ListMyProducts handles GET /seller/products.
func (ctrl *ProductController) ListMyProducts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, limit := pageParams(c, 20)
	filters := models.ProductFilters{SellerID: &userID}

	result, serr := ctrl.products.ListProducts(c.Request.Context(), filters, page, limit)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CreateProduct handles POST /seller/products.
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	product, serr := ctrl.products.CreateProduct(c.Request.Context(), userID, &req)
	if serr != nil {
		respondError(c, serr)
		return
	}
	ctrl.logger.Info("product created",
		zap.String("seller_id", userID.String()),
		zap.String("product_id", product.ID.String()))
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles PATCH /seller/products/:id.
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	productID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	product, serr := ctrl.products.UpdateProduct(c.Request.Context(), userID, productID, &req)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /seller/products/:id.
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	productID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if serr := ctrl.products.DeleteProduct(c.Request.Context(), userID, productID); serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// CreateUploadURL handles POST /seller/products/upload-url.
func (ctrl *ProductController) CreateUploadURL(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req struct {
		Filename string `json:"filename" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	url, serr := ctrl.products.GenerateImageUploadURL(c.Request.Context(), userID, req.Filename)
	if serr != nil {
		respondError(c, serr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"upload_url": url})
}
