package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"

	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"

	PaymentMethodWallet = "wallet"

	DeliveryStatusPending    = "pending"
	DeliveryStatusProcessing = "processing"
	DeliveryStatusCompleted  = "completed"
)

// Order is created once per checkout.
type Order struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BuyerID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"buyer_id"`
	Subtotal       float64        `gorm:"not null" json:"subtotal"`
	TaxAmount      float64        `gorm:"not null" json:"tax_amount"`
	DiscountAmount float64        `gorm:"not null;default:0" json:"discount_amount"`
	TotalAmount    float64        `gorm:"not null" json:"total_amount"`
	Currency       string         `gorm:"type:varchar(3);not null" json:"currency"`
	Status         string         `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PaymentStatus  string         `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	PaymentMethod  string         `gorm:"type:varchar(20);not null" json:"payment_method"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	OrderItems     []OrderItem    `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"`
}

// OrderItem is one cart line frozen at purchase time.
type OrderItem struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID        uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	VariantID      uuid.UUID `gorm:"type:uuid;not null" json:"variant_id"`
	ProductID      uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	SellerID       uuid.UUID `gorm:"type:uuid;not null;index" json:"seller_id"`
	Quantity       int       `gorm:"not null" json:"quantity"`
	UnitPrice      float64   `gorm:"not null" json:"unit_price"`
	TotalPrice     float64   `gorm:"not null" json:"total_price"`
	DeliveryStatus string    `gorm:"type:varchar(20);not null;default:'pending'" json:"delivery_status"`
	DeliveredCode  *string   `gorm:"type:text" json:"delivered_code,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// CheckoutRequest is the payload of a checkout submission.
type CheckoutRequest struct {
	DiscountCode   string `json:"discount_code"`
	IdempotencyKey string `json:"idempotency_key"`
}

// CheckoutResult is returned after a successful checkout.
type CheckoutResult struct {
	OrderID  uuid.UUID `json:"order_id"`
	Total    float64   `json:"total"`
	Currency string    `json:"currency"`
}

// OrderEvent is published to Kafka/SNS after a checkout commits.
type OrderEvent struct {
	EventType string    `json:"event_type"`
	OrderID   string    `json:"order_id"`
	BuyerID   string    `json:"buyer_id"`
	Total     float64   `json:"total"`
	Currency  string    `json:"currency"`
	Timestamp time.Time `json:"timestamp"`
}
