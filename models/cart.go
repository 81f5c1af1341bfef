package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one line of a user's cart. Deleted wholesale on successful checkout.
type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_cart_user_variant,unique" json:"user_id"`
	VariantID uuid.UUID `gorm:"type:uuid;not null;index:idx_cart_user_variant,unique" json:"variant_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// CartLine is a cart item joined with its variant and product, the shape
// checkout and the cart view work with.
type CartLine struct {
	ItemID        uuid.UUID `json:"item_id"`
	VariantID     uuid.UUID `json:"variant_id"`
	VariantName   string    `json:"variant_name"`
	ProductID     uuid.UUID `json:"product_id"`
	ProductTitle  string    `json:"product_title"`
	ProductSlug   string    `json:"product_slug"`
	SellerID      uuid.UUID `json:"seller_id"`
	Quantity      int       `json:"quantity"`
	UnitPrice     float64   `json:"unit_price"`
	Currency      string    `json:"currency"`
	StockQuantity int       `json:"stock_quantity"`
}

// AddCartItemRequest is the payload for adding a variant to the cart.
type AddCartItemRequest struct {
	VariantID uuid.UUID `json:"variant_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// UpdateCartItemRequest changes the quantity of an existing cart line.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}
