package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"

	"epinera-marketplace/models"
	awspkg "epinera-marketplace/pkg/aws"
	"epinera-marketplace/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// depositFeeRate is the processing fee taken off every deposit.
const depositFeeRate = 0.03

// TransactionPage is a paginated slice of ledger history.
type TransactionPage struct {
	Transactions []models.WalletTransaction `json:"transactions"`
	Total        int64                      `json:"total"`
	Page         int                        `json:"page"`
	Limit        int                        `json:"limit"`
}

// WalletService covers balances, deposits and ledger history.
type WalletService interface {
	GetWallets(ctx context.Context, userID uuid.UUID) ([]models.Wallet, *ServiceError)
	CreateDeposit(ctx context.Context, userID uuid.UUID, req *models.DepositRequest) (*models.DepositResult, *ServiceError)
	ConfirmDeposit(ctx context.Context, txID uuid.UUID) *ServiceError
	GetTransactions(ctx context.Context, userID uuid.UUID, filter models.TransactionFilter) (*TransactionPage, *ServiceError)
	ExportTransactionsCSV(ctx context.Context, userID uuid.UUID, filter models.TransactionFilter) ([]byte, *ServiceError)
}

type walletServiceImpl struct {
	wallets repository.WalletRepository
	gateway PaymentGateway
	metrics *awspkg.MetricsClient
	logger  *zap.Logger
}

// NewWalletService creates a new WalletService.
func NewWalletService(wallets repository.WalletRepository, gateway PaymentGateway, metrics *awspkg.MetricsClient, logger *zap.Logger) WalletService {
	return &walletServiceImpl{wallets: wallets, gateway: gateway, metrics: metrics, logger: logger}
}

// GetWallets lists the user's wallets, creating the USD wallet on first read.
func (s *walletServiceImpl) GetWallets(ctx context.Context, userID uuid.UUID) ([]models.Wallet, *ServiceError) {
	if _, err := s.wallets.GetOrCreate(ctx, userID, "USD"); err != nil {
		s.logger.Error("failed to ensure wallet", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, errInternal("failed to load wallets")
	}
	wallets, err := s.wallets.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list wallets", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, errInternal("failed to load wallets")
	}
	return wallets, nil
}

// CreateDeposit records a pending deposit and opens a Stripe payment intent
// for the gross amount. The 3% processing fee is deducted from the credited
// amount, not added on top.
func (s *walletServiceImpl) CreateDeposit(ctx context.Context, userID uuid.UUID, req *models.DepositRequest) (*models.DepositResult, *ServiceError) {
	if req.Amount <= 0 {
		return nil, errValidation("deposit amount must be positive")
	}
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	total := round2(req.Amount)
	fee := round2(total * depositFeeRate)
	credits := round2(total - fee)

	wallet, err := s.wallets.GetOrCreate(ctx, userID, currency)
	if err != nil {
		s.logger.Error("failed to ensure wallet", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, errInternal("failed to load wallet")
	}

	entry := &models.WalletTransaction{
		ID:          uuid.New(),
		WalletID:    wallet.ID,
		UserID:      userID,
		Type:        models.TransactionTypeDeposit,
		Amount:      credits,
		Currency:    currency,
		Status:      models.TransactionStatusPending,
		Description: fmt.Sprintf("Deposit via %s", req.PaymentMethod),
		Metadata: map[string]interface{}{
			"gross": total,
			"fee":   fee,
		},
	}
	if err := s.wallets.CreateTransaction(ctx, entry); err != nil {
		s.logger.Error("failed to create deposit entry", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, errInternal("failed to create deposit")
	}

	result := &models.DepositResult{
		TransactionID:    entry.ID,
		TotalAmount:      total,
		ProcessingFee:    fee,
		CreditsToReceive: credits,
	}

	if s.gateway != nil {
		intent, err := s.gateway.CreatePaymentIntent(toMinorUnits(total), currency, map[string]string{
			"transaction_id": entry.ID.String(),
			"user_id":        userID.String(),
		})
		if err != nil {
			s.logger.Error("stripe intent failed", zap.String("transaction_id", entry.ID.String()), zap.Error(err))
			if failErr := s.wallets.FailTransaction(ctx, entry.ID); failErr != nil {
				s.logger.Warn("failed to mark deposit failed", zap.Error(failErr))
			}
			return nil, errInternal("failed to start payment")
		}
		entry.Metadata["payment_intent_id"] = intent.ID
		if err := s.wallets.UpdateTransactionMetadata(ctx, entry.ID, entry.Metadata); err != nil {
			s.logger.Warn("failed to record intent id", zap.Error(err))
		}
		result.ClientSecret = intent.ClientSecret
		result.PaymentIntentID = intent.ID
	}

	return result, nil
}

// ConfirmDeposit completes a pending deposit and credits the wallet. Called
// from the Stripe webhook; replays are harmless.
func (s *walletServiceImpl) ConfirmDeposit(ctx context.Context, txID uuid.UUID) *ServiceError {
	entry, err := s.wallets.CompleteDeposit(ctx, txID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNotFound("deposit not found")
		}
		s.logger.Error("deposit confirmation failed", zap.String("transaction_id", txID.String()), zap.Error(err))
		return errInternal("failed to confirm deposit")
	}
	if s.metrics != nil {
		_ = s.metrics.RecordCount(ctx, awspkg.MetricDepositsConfirmed, nil)
	}
	s.logger.Info("deposit confirmed",
		zap.String("transaction_id", entry.ID.String()),
		zap.Float64("amount", entry.Amount))
	return nil
}

// GetTransactions returns a filtered page of ledger history.
func (s *walletServiceImpl) GetTransactions(ctx context.Context, userID uuid.UUID, filter models.TransactionFilter) (*TransactionPage, *ServiceError) {
	entries, total, err := s.wallets.FindTransactions(ctx, userID, filter)
	if err != nil {
		s.logger.Error("failed to load transactions", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, errInternal("failed to load transactions")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}
	return &TransactionPage{
		Transactions: entries,
		Total:        total,
		Page:         page,
		Limit:        limit,
	}, nil
}

// ExportTransactionsCSV renders the filtered history as CSV.
func (s *walletServiceImpl) ExportTransactionsCSV(ctx context.Context, userID uuid.UUID, filter models.TransactionFilter) ([]byte, *ServiceError) {
	filter.Page = 1
	filter.Limit = 10000
	entries, _, err := s.wallets.FindTransactions(ctx, userID, filter)
	if err != nil {
		s.logger.Error("failed to export transactions", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, errInternal("failed to export transactions")
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write([]string{"Date", "Type", "Amount", "Currency", "Status", "Description"}); err != nil {
		return nil, errInternal("failed to render export")
	}
	for _, entry := range entries {
		record := []string{
			entry.CreatedAt.Format("2006-01-02 15:04:05"),
			entry.Type,
			strconv.FormatFloat(entry.Amount, 'f', 2, 64),
			entry.Currency,
			entry.Status,
			entry.Description,
		}
		if err := writer.Write(record); err != nil {
			return nil, errInternal("failed to render export")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, errInternal("failed to render export")
	}
	return buf.Bytes(), nil
}
