package repository

import (
	"context"
	"errors"
	"time"

	"epinera-marketplace/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotCancellable indicates a withdrawal is past the point where it can be cancelled.
var ErrNotCancellable = errors.New("withdrawal is no longer pending")

// WalletRepository defines the interface for wallet and ledger data access.
type WalletRepository interface {
	FindByUserAndCurrency(ctx context.Context, userID uuid.UUID, currency string) (*models.Wallet, error)
	GetOrCreate(ctx context.Context, userID uuid.UUID, currency string) (*models.Wallet, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Wallet, error)
	RequestWithdrawal(ctx context.Context, entry *models.WalletTransaction, total float64) error
	CancelWithdrawal(ctx context.Context, txID, userID uuid.UUID) (*models.WalletTransaction, error)
	CompleteDeposit(ctx context.Context, txID uuid.UUID) (*models.WalletTransaction, error)
	FailTransaction(ctx context.Context, txID uuid.UUID) error
	MarkProcessing(ctx context.Context, txID uuid.UUID) error
	CreateTransaction(ctx context.Context, entry *models.WalletTransaction) error
	UpdateTransactionMetadata(ctx context.Context, txID uuid.UUID, metadata map[string]interface{}) error
	FindTransactionByID(ctx context.Context, txID uuid.UUID) (*models.WalletTransaction, error)
	FindTransactions(ctx context.Context, userID uuid.UUID, filter models.TransactionFilter) ([]models.WalletTransaction, int64, error)
	FindWithdrawals(ctx context.Context, userID uuid.UUID, limit int) ([]models.WalletTransaction, error)
	FindAllTransactions(ctx context.Context, page, limit int) ([]models.WalletTransaction, int64, error)
	CreditSale(ctx context.Context, sellerID uuid.UUID, currency string, amount float64, entry *models.WalletTransaction) error
}

// GormWalletRepository implements WalletRepository using GORM.
type GormWalletRepository struct {
	db *gorm.DB
}

// NewGormWalletRepository creates a new GormWalletRepository.
func NewGormWalletRepository(db *gorm.DB) WalletRepository {
	return &GormWalletRepository{db: db}
}

func (r *GormWalletRepository) FindByUserAndCurrency(ctx context.Context, userID uuid.UUID, currency string) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND currency = ?", userID, currency).
		First(&wallet).Error
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// GetOrCreate returns the user's wallet in the given currency, creating a
// zero-balance wallet if one does not exist yet.
func (r *GormWalletRepository) GetOrCreate(ctx context.Context, userID uuid.UUID, currency string) (*models.Wallet, error) {
	wallet, err := r.FindByUserAndCurrency(ctx, userID, currency)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	created := models.Wallet{UserID: userID, Currency: currency}
	if err := r.db.WithContext(ctx).Create(&created).Error; err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *GormWalletRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Wallet, error) {
	var wallets []models.Wallet
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("currency ASC").
		Find(&wallets).Error
	if err != nil {
		return nil, err
	}
	return wallets, nil
}

// RequestWithdrawal atomically moves the withdrawal total from balance to
// frozen_balance and records the pending ledger entry. The conditional
// UPDATE rejects the request when the balance no longer covers it.
func (r *GormWalletRepository) RequestWithdrawal(ctx context.Context, entry *models.WalletTransaction, total float64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Wallet{}).
			Where("id = ? AND balance >= ?", entry.WalletID, total).
			Updates(map[string]interface{}{
				"balance":        gorm.Expr("balance - ?", total),
				"frozen_balance": gorm.Expr("frozen_balance + ?", total),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrInsufficientBalance
		}
		return tx.Create(entry).Error
	})
}

// CancelWithdrawal releases a pending withdrawal's frozen funds back to the
// wallet balance and marks the ledger entry cancelled. The row lock prevents
// a concurrent processor from completing the same withdrawal.
func (r *GormWalletRepository) CancelWithdrawal(ctx context.Context, txID, userID uuid.UUID) (*models.WalletTransaction, error) {
	var entry models.WalletTransaction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ? AND type = ?", txID, userID, models.TransactionTypeWithdrawal).
			First(&entry).Error
		if err != nil {
			return err
		}
		if entry.Status != models.TransactionStatusPending {
			return ErrNotCancellable
		}

		total := -entry.Amount
		result := tx.Model(&models.Wallet{}).
			Where("id = ?", entry.WalletID).
			Updates(map[string]interface{}{
				"balance":        gorm.Expr("balance + ?", total),
				"frozen_balance": gorm.Expr("frozen_balance - ?", total),
			})
		if result.Error != nil {
			return result.Error
		}

		entry.Status = models.TransactionStatusCancelled
		return tx.Model(&models.WalletTransaction{}).
			Where("id = ?", entry.ID).
			Update("status", models.TransactionStatusCancelled).Error
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// CompleteDeposit marks a pending deposit as completed and credits the
// wallet in the same transaction. Re-delivered confirmations are no-ops
// because the status guard matches zero rows.
func (r *GormWalletRepository) CompleteDeposit(ctx context.Context, txID uuid.UUID) (*models.WalletTransaction, error) {
	var entry models.WalletTransaction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND type = ?", txID, models.TransactionTypeDeposit).
			First(&entry).Error
		if err != nil {
			return err
		}
		if entry.Status != models.TransactionStatusPending {
			return nil
		}

		result := tx.Model(&models.Wallet{}).
			Where("id = ?", entry.WalletID).
			UpdateColumn("balance", gorm.Expr("balance + ?", entry.Amount))
		if result.Error != nil {
			return result.Error
		}

		entry.Status = models.TransactionStatusCompleted
		return tx.Model(&models.WalletTransaction{}).
			Where("id = ?", entry.ID).
			Update("status", models.TransactionStatusCompleted).Error
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// FailTransaction marks a pending ledger entry as failed.
func (r *GormWalletRepository) FailTransaction(ctx context.Context, txID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.WalletTransaction{}).
		Where("id = ? AND status = ?", txID, models.TransactionStatusPending).
		Update("status", models.TransactionStatusFailed).Error
}

// MarkProcessing moves a pending entry into the processing state.
func (r *GormWalletRepository) MarkProcessing(ctx context.Context, txID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.WalletTransaction{}).
		Where("id = ? AND status = ?", txID, models.TransactionStatusPending).
		Update("status", models.TransactionStatusProcessing).Error
}

func (r *GormWalletRepository) CreateTransaction(ctx context.Context, entry *models.WalletTransaction) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *GormWalletRepository) UpdateTransactionMetadata(ctx context.Context, txID uuid.UUID, metadata map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&models.WalletTransaction{}).
		Where("id = ?", txID).
		Update("metadata", metadata).Error
}

func (r *GormWalletRepository) FindTransactionByID(ctx context.Context, txID uuid.UUID) (*models.WalletTransaction, error) {
	var entry models.WalletTransaction
	err := r.db.WithContext(ctx).Where("id = ?", txID).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindTransactions returns a filtered, paginated page of the user's ledger
// entries, newest first, along with the total row count for the filter.
func (r *GormWalletRepository) FindTransactions(ctx context.Context, userID uuid.UUID, filter models.TransactionFilter) ([]models.WalletTransaction, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.WalletTransaction{}).
		Where("user_id = ?", userID)

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		query = query.Where("description ILIKE ?", "%"+filter.Search+"%")
	}
	if since, ok := dateRangeStart(filter.DateRange); ok {
		query = query.Where("created_at >= ?", since)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}

	var entries []models.WalletTransaction
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func dateRangeStart(dateRange string) (time.Time, bool) {
	var days int
	switch dateRange {
	case "7days":
		days = 7
	case "30days":
		days = 30
	case "90days":
		days = 90
	default:
		return time.Time{}, false
	}
	return time.Now().AddDate(0, 0, -days), true
}

// FindWithdrawals returns the user's withdrawal entries, newest first.
func (r *GormWalletRepository) FindWithdrawals(ctx context.Context, userID uuid.UUID, limit int) ([]models.WalletTransaction, error) {
	if limit < 1 {
		limit = 20
	}
	var entries []models.WalletTransaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND type = ?", userID, models.TransactionTypeWithdrawal).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// FindAllTransactions returns a paginated view over every ledger entry,
// newest first. Used by the admin surface.
func (r *GormWalletRepository) FindAllTransactions(ctx context.Context, page, limit int) ([]models.WalletTransaction, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.WalletTransaction{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var entries []models.WalletTransaction
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// CreditSale credits a seller's wallet for a completed sale, creating the
// wallet on first sale in that currency.
func (r *GormWalletRepository) CreditSale(ctx context.Context, sellerID uuid.UUID, currency string, amount float64, entry *models.WalletTransaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var wallet models.Wallet
		err := tx.Where("user_id = ? AND currency = ?", sellerID, currency).First(&wallet).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			wallet = models.Wallet{UserID: sellerID, Currency: currency}
			if err := tx.Create(&wallet).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		result := tx.Model(&models.Wallet{}).
			Where("id = ?", wallet.ID).
			UpdateColumn("balance", gorm.Expr("balance + ?", amount))
		if result.Error != nil {
			return result.Error
		}

		entry.WalletID = wallet.ID
		entry.UserID = sellerID
		return tx.Create(entry).Error
	})
}
