package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	DisputeStatusOpen     = "open"
	DisputeStatusResolved = "resolved"
	DisputeStatusRejected = "rejected"
)

// DisputeMessage is one entry in a dispute's message thread.
type DisputeMessage struct {
	AuthorID string    `json:"author_id"`
	Body     string    `json:"body"`
	SentAt   time.Time `json:"sent_at"`
}

// Dispute is raised by a buyer against one order item.
type Dispute struct {
	ID          uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderItemID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex" json:"order_item_id"`
	BuyerID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"buyer_id"`
	SellerID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"seller_id"`
	Reason      string           `gorm:"type:text;not null" json:"reason"`
	Status      string           `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	Resolution  string           `gorm:"type:text" json:"resolution,omitempty"`
	Messages    []DisputeMessage `gorm:"serializer:json" json:"messages,omitempty"`
	CreatedAt   time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

// OpenDisputeRequest is the payload for opening a dispute.
type OpenDisputeRequest struct {
	OrderItemID uuid.UUID `json:"order_item_id" binding:"required"`
	Reason      string    `json:"reason" binding:"required,min=10,max=2000"`
}

// DisputeMessageRequest appends a message to a dispute thread.
type DisputeMessageRequest struct {
	Body string `json:"body" binding:"required,min=1,max=2000"`
}

// ResolveDisputeRequest closes a dispute (admin only).
type ResolveDisputeRequest struct {
	Status     string `json:"status" binding:"required,oneof=resolved rejected"`
	Resolution string `json:"resolution" binding:"required,min=3,max=2000"`
}
