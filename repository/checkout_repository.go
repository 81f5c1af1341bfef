package repository

import (
	"context"
	"errors"

	"epinera-marketplace/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrInsufficientBalance indicates the wallet balance does not cover the debit.
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	// ErrInsufficientStock indicates a variant does not have enough stock left.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// StockDecrement describes a conditional stock reduction for one variant.
type StockDecrement struct {
	VariantID uuid.UUID
	Quantity  int
}

// WalletDebit describes a conditional balance reduction for one wallet.
type WalletDebit struct {
	WalletID uuid.UUID
	Amount   float64
}

// CheckoutRepository persists a checkout as a single atomic unit.
type CheckoutRepository interface {
	PlaceOrder(ctx context.Context, order *models.Order, items []models.OrderItem, debit WalletDebit, ledger *models.WalletTransaction, buyerID uuid.UUID, decrements []StockDecrement) error
}

// GormCheckoutRepository implements CheckoutRepository using GORM.
type GormCheckoutRepository struct {
	db *gorm.DB
}

// NewGormCheckoutRepository creates a new GormCheckoutRepository.
func NewGormCheckoutRepository(db *gorm.DB) CheckoutRepository {
	return &GormCheckoutRepository{db: db}
}

// PlaceOrder runs the entire checkout write sequence in one database
// transaction: order and items insert, conditional wallet debit, ledger
// entry, cart clear and conditional stock decrements. Any failure rolls
// back every prior write.
func (r *GormCheckoutRepository) PlaceOrder(ctx context.Context, order *models.Order, items []models.OrderItem, debit WalletDebit, ledger *models.WalletTransaction, buyerID uuid.UUID, decrements []StockDecrement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		// The WHERE guard makes overdraft impossible under concurrency: the
		// debit only lands when the row still has enough balance.
		result := tx.Model(&models.Wallet{}).
			Where("id = ? AND balance >= ?", debit.WalletID, debit.Amount).
			UpdateColumn("balance", gorm.Expr("balance - ?", debit.Amount))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrInsufficientBalance
		}

		ledger.WalletID = debit.WalletID
		if err := tx.Create(ledger).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", buyerID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		for _, dec := range decrements {
			result := tx.Model(&models.ProductVariant{}).
				Where("id = ? AND stock_quantity >= ?", dec.VariantID, dec.Quantity).
				UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", dec.Quantity))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrInsufficientStock
			}
		}

		return nil
	})
}
