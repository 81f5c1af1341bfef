package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	TransactionTypePayment    = "payment"
	TransactionTypeWithdrawal = "withdrawal"
	TransactionTypeDeposit    = "deposit"
	TransactionTypeSale       = "sale"
	TransactionTypeRefund     = "refund"
	TransactionTypeBonus      = "bonus"

	TransactionStatusPending    = "pending"
	TransactionStatusProcessing = "processing"
	TransactionStatusCompleted  = "completed"
	TransactionStatusFailed     = "failed"
	TransactionStatusCancelled  = "cancelled"
)

// Wallet is a user's stored-value balance in one currency. FrozenBalance is the
// portion earmarked for pending withdrawals. Both fields are only ever changed
// through conditional atomic updates, never read-then-overwrite.
type Wallet struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index:idx_wallet_user_currency,unique" json:"user_id"`
	Currency      string    `gorm:"type:varchar(3);not null;index:idx_wallet_user_currency,unique" json:"currency"`
	Balance       float64   `gorm:"not null;default:0" json:"balance"`
	FrozenBalance float64   `gorm:"not null;default:0" json:"frozen_balance"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// WalletTransaction is an append-only ledger entry. Amount is signed: debits
// (payments, withdrawals) are negative, credits positive.
type WalletTransaction struct {
	ID          uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	WalletID    uuid.UUID              `gorm:"type:uuid;not null;index" json:"wallet_id"`
	UserID      uuid.UUID              `gorm:"type:uuid;not null;index" json:"user_id"`
	Type        string                 `gorm:"type:varchar(20);not null;index" json:"type"`
	Amount      float64                `gorm:"not null" json:"amount"`
	Currency    string                 `gorm:"type:varchar(3);not null" json:"currency"`
	Status      string                 `gorm:"type:varchar(20);not null;index" json:"status"`
	Description string                 `gorm:"type:text" json:"description"`
	Metadata    map[string]interface{} `gorm:"serializer:json" json:"metadata,omitempty"`
	CreatedAt   time.Time              `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time              `gorm:"autoUpdateTime" json:"updated_at"`
}

// TransactionFilter narrows ledger history queries.
type TransactionFilter struct {
	Type      string
	Status    string
	DateRange string // 7days | 30days | 90days | all
	Search    string
	Page      int
	Limit     int
}

// WithdrawalRequest is the payload for requesting a payout.
type WithdrawalRequest struct {
	Amount   float64 `json:"amount" binding:"required"`
	Currency string  `json:"currency"`
	Method   string  `json:"method" binding:"required,oneof=bank crypto"`

	AccountNumber     string `json:"account_number"`
	RoutingNumber     string `json:"routing_number"`
	AccountHolderName string `json:"account_holder_name"`
	CryptoAddress     string `json:"crypto_address"`
	CryptoNetwork     string `json:"crypto_network"`
}

// WithdrawalResult is returned after a withdrawal request is accepted.
type WithdrawalResult struct {
	TransactionID  uuid.UUID `json:"transaction_id"`
	Amount         float64   `json:"amount"`
	ProcessingFee  float64   `json:"processing_fee"`
	TotalDeduction float64   `json:"total_deduction"`
	NetAmount      float64   `json:"net_amount"`
	Status         string    `json:"status"`
}

// Payout is the display shape for withdrawal history rows.
type Payout struct {
	ID               uuid.UUID  `json:"id"`
	Amount           float64    `json:"amount"`
	Currency         string     `json:"currency"`
	Status           string     `json:"status"`
	Method           string     `json:"method"`
	ProcessingFee    float64    `json:"processing_fee"`
	NetAmount        float64    `json:"net_amount"`
	RequestedAt      time.Time  `json:"requested_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	StripeTransferID string     `json:"stripe_transfer_id,omitempty"`
}

// DepositRequest is the payload for funding the wallet.
type DepositRequest struct {
	Amount        float64 `json:"amount" binding:"required"`
	Currency      string  `json:"currency"`
	PaymentMethod string  `json:"payment_method" binding:"required"`
}

// DepositResult carries the Stripe client secret back to the caller.
type DepositResult struct {
	TransactionID    uuid.UUID `json:"transaction_id"`
	TotalAmount      float64   `json:"total_amount"`
	ProcessingFee    float64   `json:"processing_fee"`
	CreditsToReceive float64   `json:"credits_to_receive"`
	ClientSecret     string    `json:"client_secret,omitempty"`
	PaymentIntentID  string    `json:"payment_intent_id,omitempty"`
}
