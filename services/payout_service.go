package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"epinera-marketplace/models"
	awspkg "epinera-marketplace/pkg/aws"
	"epinera-marketplace/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	minWithdrawalAmount = 10.0
	bankWithdrawalFee   = 2.50
	cryptoWithdrawalFee = 5.00
)

// PayoutService handles seller withdrawals.
type PayoutService interface {
	RequestWithdrawal(ctx context.Context, userID uuid.UUID, req *models.WithdrawalRequest) (*models.WithdrawalResult, *ServiceError)
	CancelWithdrawal(ctx context.Context, userID, txID uuid.UUID) *ServiceError
	GetPayoutHistory(ctx context.Context, userID uuid.UUID, limit int) ([]models.Payout, *ServiceError)
}

type payoutServiceImpl struct {
	wallets       repository.WalletRepository
	profiles      repository.ProfileRepository
	notifications repository.NotificationRepository
	audit         repository.AuditRepository
	gateway       PaymentGateway
	metrics       *awspkg.MetricsClient
	logger        *zap.Logger
	appEnv        string
}

// NewPayoutService creates a new PayoutService. appEnv gates real Stripe
// transfers to production.
func NewPayoutService(wallets repository.WalletRepository, profiles repository.ProfileRepository, notifications repository.NotificationRepository, audit repository.AuditRepository, gateway PaymentGateway, metrics *awspkg.MetricsClient, logger *zap.Logger, appEnv string) PayoutService {
	return &payoutServiceImpl{
		wallets:       wallets,
		profiles:      profiles,
		notifications: notifications,
		audit:         audit,
		gateway:       gateway,
		metrics:       metrics,
		logger:        logger,
		appEnv:        appEnv,
	}
}

func withdrawalFee(method string) float64 {
	if method == "crypto" {
		return cryptoWithdrawalFee
	}
	return bankWithdrawalFee
}

// RequestWithdrawal freezes amount+fee out of the wallet balance and records
// a pending withdrawal. When the seller has a connected Stripe account and
// the service runs in production, a transfer is attempted immediately; a
// transfer failure leaves the withdrawal pending for manual processing.
func (s *payoutServiceImpl) RequestWithdrawal(ctx context.Context, userID uuid.UUID, req *models.WithdrawalRequest) (*models.WithdrawalResult, *ServiceError) {
	if req.Amount < minWithdrawalAmount {
		return nil, errValidation(fmt.Sprintf("minimum withdrawal amount is %.2f", minWithdrawalAmount))
	}
	if req.Method == "bank" && req.AccountNumber == "" {
		return nil, errValidation("bank withdrawals require an account number")
	}
	if req.Method == "crypto" && req.CryptoAddress == "" {
		return nil, errValidation("crypto withdrawals require a wallet address")
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	fee := withdrawalFee(req.Method)
	amount := round2(req.Amount)
	total := round2(amount + fee)

	wallet, err := s.wallets.FindByUserAndCurrency(ctx, userID, currency)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errInsufficientBalance("insufficient balance for withdrawal", 0, total)
		}
		s.logger.Error("failed to load wallet", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, errInternal("failed to load wallet")
	}
	if wallet.Balance < total {
		return nil, errInsufficientBalance("insufficient balance for withdrawal", wallet.Balance, total)
	}

	metadata := map[string]interface{}{
		"method": req.Method,
		"fee":    fee,
		"net":    amount,
	}
	switch req.Method {
	case "bank":
		metadata["account_number"] = maskAccount(req.AccountNumber)
		metadata["routing_number"] = req.RoutingNumber
		metadata["account_holder_name"] = req.AccountHolderName
	case "crypto":
		metadata["crypto_address"] = req.CryptoAddress
		metadata["crypto_network"] = req.CryptoNetwork
	}

	entry := &models.WalletTransaction{
		ID:          uuid.New(),
		WalletID:    wallet.ID,
		UserID:      userID,
		Type:        models.TransactionTypeWithdrawal,
		Amount:      -total,
		Currency:    currency,
		Status:      models.TransactionStatusPending,
		Description: fmt.Sprintf("Withdrawal via %s", req.Method),
		Metadata:    metadata,
	}

	if err := s.wallets.RequestWithdrawal(ctx, entry, total); err != nil {
		if errors.Is(err, repository.ErrInsufficientBalance) {
			return nil, errInsufficientBalance("insufficient balance for withdrawal", wallet.Balance, total)
		}
		s.logger.Error("withdrawal transaction failed", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, errInternal("failed to request withdrawal")
	}

	status := s.tryStripeTransfer(ctx, userID, entry, amount, currency)

	s.afterWithdrawal(ctx, userID, entry, amount, fee)

	return &models.WithdrawalResult{
		TransactionID:  entry.ID,
		Amount:         amount,
		ProcessingFee:  fee,
		TotalDeduction: total,
		NetAmount:      amount,
		Status:         status,
	}, nil
}

// tryStripeTransfer pays the withdrawal out through Stripe when possible.
// Returns the resulting transaction status.
func (s *payoutServiceImpl) tryStripeTransfer(ctx context.Context, userID uuid.UUID, entry *models.WalletTransaction, amount float64, currency string) string {
	if s.gateway == nil || s.appEnv != "production" {
		return models.TransactionStatusPending
	}
	profile, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		return models.TransactionStatusPending
	}
	accountID, _ := profile.Metadata["stripe_account_id"].(string)
	if accountID == "" {
		return models.TransactionStatusPending
	}

	transferID, err := s.gateway.CreateTransfer(toMinorUnits(amount), currency, accountID, map[string]string{
		"transaction_id": entry.ID.String(),
		"user_id":        userID.String(),
		"purpose":        "seller_withdrawal",
	})
	if err != nil {
		s.logger.Warn("stripe transfer failed, withdrawal left pending",
			zap.String("transaction_id", entry.ID.String()),
			zap.Error(err))
		return models.TransactionStatusPending
	}

	entry.Metadata["stripe_transfer_id"] = transferID
	if err := s.wallets.UpdateTransactionMetadata(ctx, entry.ID, entry.Metadata); err != nil {
		s.logger.Warn("failed to record transfer id", zap.Error(err))
	}
	if err := s.wallets.MarkProcessing(ctx, entry.ID); err != nil {
		s.logger.Warn("failed to mark withdrawal processing", zap.Error(err))
	}
	return models.TransactionStatusProcessing
}

func (s *payoutServiceImpl) afterWithdrawal(ctx context.Context, userID uuid.UUID, entry *models.WalletTransaction, amount, fee float64) {
	if s.metrics != nil {
		_ = s.metrics.RecordCount(ctx, awspkg.MetricWithdrawalsRequested, nil)
	}
	if s.notifications != nil {
		note := &models.Notification{
			UserID:  userID,
			Type:    models.NotificationTypeSecurity,
			Title:   "Withdrawal requested",
			Message: fmt.Sprintf("Your withdrawal of %.2f %s (fee %.2f) is being processed.", amount, entry.Currency, fee),
		}
		if err := s.notifications.Create(ctx, note); err != nil {
			s.logger.Warn("failed to notify withdrawal", zap.Error(err))
		}
	}
	if s.audit != nil {
		if err := s.audit.Record(ctx, &models.AuditLog{
			ActorID:    userID.String(),
			Action:     models.AuditActionWithdrawalRequest,
			EntityType: "wallet_transaction",
			EntityID:   entry.ID.String(),
			Metadata:   map[string]interface{}{"amount": amount, "fee": fee},
		}); err != nil {
			s.logger.Warn("failed to record audit entry", zap.Error(err))
		}
	}
}

// CancelWithdrawal releases a pending withdrawal's frozen funds.
func (s *payoutServiceImpl) CancelWithdrawal(ctx context.Context, userID, txID uuid.UUID) *ServiceError {
	entry, err := s.wallets.CancelWithdrawal(ctx, txID, userID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return errNotFound("withdrawal not found")
		case errors.Is(err, repository.ErrNotCancellable):
			return errConflict("only pending withdrawals can be cancelled")
		default:
			s.logger.Error("withdrawal cancellation failed", zap.String("transaction_id", txID.String()), zap.Error(err))
			return errInternal("failed to cancel withdrawal")
		}
	}

	if s.metrics != nil {
		_ = s.metrics.RecordCount(ctx, awspkg.MetricWithdrawalsCancelled, nil)
	}
	if s.audit != nil {
		if auditErr := s.audit.Record(ctx, &models.AuditLog{
			ActorID:    userID.String(),
			Action:     models.AuditActionWithdrawalCancel,
			EntityType: "wallet_transaction",
			EntityID:   entry.ID.String(),
		}); auditErr != nil {
			s.logger.Warn("failed to record audit entry", zap.Error(auditErr))
		}
	}
	return nil
}

// GetPayoutHistory returns the user's withdrawals mapped to the display shape.
func (s *payoutServiceImpl) GetPayoutHistory(ctx context.Context, userID uuid.UUID, limit int) ([]models.Payout, *ServiceError) {
	entries, err := s.wallets.FindWithdrawals(ctx, userID, limit)
	if err != nil {
		s.logger.Error("failed to load withdrawals", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, errInternal("failed to load withdrawal history")
	}

	payouts := make([]models.Payout, 0, len(entries))
	for _, entry := range entries {
		payout := models.Payout{
			ID:          entry.ID,
			Amount:      math.Abs(entry.Amount),
			Currency:    entry.Currency,
			Status:      entry.Status,
			RequestedAt: entry.CreatedAt,
		}
		if method, ok := entry.Metadata["method"].(string); ok {
			payout.Method = method
		}
		if fee, ok := entry.Metadata["fee"].(float64); ok {
			payout.ProcessingFee = fee
		}
		if net, ok := entry.Metadata["net"].(float64); ok {
			payout.NetAmount = net
		}
		if transferID, ok := entry.Metadata["stripe_transfer_id"].(string); ok {
			payout.StripeTransferID = transferID
		}
		if entry.Status == models.TransactionStatusCompleted {
			completedAt := entry.UpdatedAt
			payout.CompletedAt = &completedAt
		}
		payouts = append(payouts, payout)
	}
	return payouts, nil
}

// maskAccount keeps only the last four digits of an account number.
func maskAccount(account string) string {
	if len(account) <= 4 {
		return account
	}
	return "****" + account[len(account)-4:]
}

// toMinorUnits converts a major-unit amount to cents.
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
