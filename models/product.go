package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is a browsable product category. Top-level categories have a nil parent.
type Category struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string     `gorm:"type:varchar(128);not null" json:"name"`
	Slug      string     `gorm:"type:varchar(128);uniqueIndex;not null" json:"slug"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// Product is a digital key (epin) listing owned by a seller.
type Product struct {
	ID          uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SellerID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"seller_id"`
	CategoryID  *uuid.UUID       `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Title       string           `gorm:"type:varchar(255);not null" json:"title"`
	Slug        string           `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Description string           `gorm:"type:text" json:"description"`
	ImageURL    string           `gorm:"type:text" json:"image_url"`
	Status      string           `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	CreatedAt   time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`
	Variants    []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
}

// ProductVariant is a purchasable denomination of a product (region, value pack).
// StockQuantity is only ever changed through conditional decrements.
type ProductVariant struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID     uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Name          string    `gorm:"type:varchar(128);not null" json:"name"`
	Price         float64   `gorm:"not null" json:"price"`
	Currency      string    `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`
	StockQuantity int       `gorm:"not null;default:0" json:"stock_quantity"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// ProductFilters narrows product listing queries.
type ProductFilters struct {
	CategorySlug string
	Search       string
	MinPrice     float64
	MaxPrice     float64
	SellerID     *uuid.UUID
	Sort         string // newest | price_asc | price_desc
}

// CreateProductRequest is the payload for a seller creating a listing.
type CreateProductRequest struct {
	Title       string     `json:"title" binding:"required,min=3,max=255"`
	Slug        string     `json:"slug" binding:"required,min=3,max=255"`
	Description string     `json:"description"`
	ImageURL    string     `json:"image_url"`
	CategoryID  *uuid.UUID `json:"category_id"`
	Variants    []struct {
		Name          string  `json:"name" binding:"required"`
		Price         float64 `json:"price" binding:"required,gt=0"`
		Currency      string  `json:"currency"`
		StockQuantity int     `json:"stock_quantity" binding:"gte=0"`
	} `json:"variants" binding:"required,min=1,dive"`
}

// UpdateProductRequest carries partial listing updates.
type UpdateProductRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	ImageURL    *string    `json:"image_url"`
	CategoryID  *uuid.UUID `json:"category_id"`
	Status      *string    `json:"status"`
}
