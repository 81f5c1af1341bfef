package services

import (
	"context"
	"testing"
	"time"

	"epinera-marketplace/models"
	"epinera-marketplace/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func payoutFixture(balance float64, gateway PaymentGateway, appEnv string) (PayoutService, *mockWalletRepo, *mockProfileRepo, *mockNotificationRepo) {
	wallets := &mockWalletRepo{wallet: &models.Wallet{ID: uuid.New(), Currency: "USD", Balance: balance}}
	profiles := &mockProfileRepo{}
	notifications := &mockNotificationRepo{}
	svc := NewPayoutService(wallets, profiles, notifications, nil, gateway, nil, zap.NewNop(), appEnv)
	return svc, wallets, profiles, notifications
}

func bankWithdrawal(amount float64) *models.WithdrawalRequest {
	return &models.WithdrawalRequest{
		Amount:        amount,
		Method:        "bank",
		AccountNumber: "000123456789",
		RoutingNumber: "110000000",
	}
}

func TestRequestWithdrawalBelowMinimum(t *testing.T) {
	svc, wallets, _, _ := payoutFixture(100, nil, "development")

	_, svcErr := svc.RequestWithdrawal(context.Background(), uuid.New(), bankWithdrawal(9.99))
	require.NotNil(t, svcErr)
	assert.Equal(t, KindValidation, svcErr.Kind)
	assert.Empty(t, wallets.createdEntries)
}

func TestRequestWithdrawalBankRequiresAccount(t *testing.T) {
	svc, _, _, _ := payoutFixture(100, nil, "development")

	_, svcErr := svc.RequestWithdrawal(context.Background(), uuid.New(), &models.WithdrawalRequest{Amount: 50, Method: "bank"})
	require.NotNil(t, svcErr)
	assert.Equal(t, KindValidation, svcErr.Kind)
}

func TestRequestWithdrawalBankFee(t *testing.T) {
	svc, wallets, _, notifications := payoutFixture(100, nil, "development")

	result, svcErr := svc.RequestWithdrawal(context.Background(), uuid.New(), bankWithdrawal(50))
	require.Nil(t, svcErr)

	assert.Equal(t, 50.0, result.Amount)
	assert.Equal(t, 2.50, result.ProcessingFee)
	assert.Equal(t, 52.50, result.TotalDeduction)
	assert.Equal(t, 50.0, result.NetAmount)
	assert.Equal(t, models.TransactionStatusPending, result.Status)

	require.Len(t, wallets.createdEntries, 1)
	entry := wallets.createdEntries[0]
	assert.Equal(t, -52.50, entry.Amount)
	assert.Equal(t, models.TransactionTypeWithdrawal, entry.Type)
	assert.Equal(t, "****6789", entry.Metadata["account_number"])

	require.Len(t, notifications.notifications, 1)
}

func TestRequestWithdrawalCryptoFee(t *testing.T) {
	svc, _, _, _ := payoutFixture(100, nil, "development")

	result, svcErr := svc.RequestWithdrawal(context.Background(), uuid.New(), &models.WithdrawalRequest{
		Amount:        20,
		Method:        "crypto",
		CryptoAddress: "0xabc",
		CryptoNetwork: "ethereum",
	})
	require.Nil(t, svcErr)
	assert.Equal(t, 5.00, result.ProcessingFee)
	assert.Equal(t, 25.0, result.TotalDeduction)
}

func TestRequestWithdrawalInsufficientBalance(t *testing.T) {
	svc, wallets, _, _ := payoutFixture(52.49, nil, "development")

	_, svcErr := svc.RequestWithdrawal(context.Background(), uuid.New(), bankWithdrawal(50))
	require.NotNil(t, svcErr)
	assert.Equal(t, KindInsufficientBalance, svcErr.Kind)
	assert.Equal(t, 52.49, svcErr.Details["available"])
	assert.Equal(t, 52.5, svcErr.Details["required"])
	assert.Empty(t, wallets.createdEntries)
}

func TestRequestWithdrawalSkipsStripeOutsideProduction(t *testing.T) {
	gateway := &mockGateway{}
	svc, _, profiles, _ := payoutFixture(100, gateway, "development")
	profiles.profile = &models.Profile{Metadata: map[string]interface{}{"stripe_account_id": "acct_1"}}

	result, svcErr := svc.RequestWithdrawal(context.Background(), uuid.New(), bankWithdrawal(50))
	require.Nil(t, svcErr)
	assert.Equal(t, models.TransactionStatusPending, result.Status)
	assert.Empty(t, gateway.transfers)
}

func TestRequestWithdrawalTransfersInProduction(t *testing.T) {
	gateway := &mockGateway{}
	svc, wallets, profiles, _ := payoutFixture(100, gateway, "production")
	profiles.profile = &models.Profile{Metadata: map[string]interface{}{"stripe_account_id": "acct_1"}}

	userID := uuid.New()
	result, svcErr := svc.RequestWithdrawal(context.Background(), userID, bankWithdrawal(50))
	require.Nil(t, svcErr)
	assert.Equal(t, models.TransactionStatusProcessing, result.Status)
	require.Len(t, gateway.transfers, 1)
	assert.Equal(t, result.TransactionID.String(), gateway.transfers[0]["transaction_id"])
	assert.Equal(t, userID.String(), gateway.transfers[0]["user_id"])
	assert.Equal(t, "seller_withdrawal", gateway.transfers[0]["purpose"])
	require.Len(t, wallets.processingIDs, 1)
	assert.Equal(t, result.TransactionID, wallets.processingIDs[0])
}

func TestRequestWithdrawalTransferFailureStaysPending(t *testing.T) {
	gateway := &mockGateway{transferErr: assert.AnError}
	svc, wallets, profiles, _ := payoutFixture(100, gateway, "production")
	profiles.profile = &models.Profile{Metadata: map[string]interface{}{"stripe_account_id": "acct_1"}}

	result, svcErr := svc.RequestWithdrawal(context.Background(), uuid.New(), bankWithdrawal(50))
	require.Nil(t, svcErr)
	assert.Equal(t, models.TransactionStatusPending, result.Status)
	assert.Empty(t, wallets.processingIDs)
}

func TestCancelWithdrawalNotPending(t *testing.T) {
	svc, wallets, _, _ := payoutFixture(100, nil, "development")
	wallets.cancelWithdrawalFn = func(_, _ uuid.UUID) (*models.WalletTransaction, error) {
		return nil, repository.ErrNotCancellable
	}

	svcErr := svc.CancelWithdrawal(context.Background(), uuid.New(), uuid.New())
	require.NotNil(t, svcErr)
	assert.Equal(t, KindConflict, svcErr.Kind)
}

func TestCancelWithdrawalNotFound(t *testing.T) {
	svc, _, _, _ := payoutFixture(100, nil, "development")

	svcErr := svc.CancelWithdrawal(context.Background(), uuid.New(), uuid.New())
	require.NotNil(t, svcErr)
	assert.Equal(t, KindNotFound, svcErr.Kind)
}

func TestCancelWithdrawalReleasesFunds(t *testing.T) {
	svc, wallets, _, _ := payoutFixture(100, nil, "development")
	wallets.cancelWithdrawalFn = func(txID, _ uuid.UUID) (*models.WalletTransaction, error) {
		return &models.WalletTransaction{ID: txID, Status: models.TransactionStatusCancelled}, nil
	}

	svcErr := svc.CancelWithdrawal(context.Background(), uuid.New(), uuid.New())
	assert.Nil(t, svcErr)
}

func TestGetPayoutHistoryMapsMetadata(t *testing.T) {
	svc, wallets, _, _ := payoutFixture(100, nil, "development")
	completed := models.WalletTransaction{
		ID:        uuid.New(),
		Amount:    -52.50,
		Currency:  "USD",
		Status:    models.TransactionStatusCompleted,
		CreatedAt: time.Now().Add(-time.Hour),
		UpdatedAt: time.Now(),
		Metadata: map[string]interface{}{
			"method":             "bank",
			"fee":                2.50,
			"net":                50.0,
			"stripe_transfer_id": "tr_1",
		},
	}
	wallets.withdrawals = []models.WalletTransaction{completed}

	payouts, svcErr := svc.GetPayoutHistory(context.Background(), uuid.New(), 20)
	require.Nil(t, svcErr)
	require.Len(t, payouts, 1)

	payout := payouts[0]
	assert.Equal(t, 52.50, payout.Amount)
	assert.Equal(t, "bank", payout.Method)
	assert.Equal(t, 2.50, payout.ProcessingFee)
	assert.Equal(t, 50.0, payout.NetAmount)
	assert.Equal(t, "tr_1", payout.StripeTransferID)
	require.NotNil(t, payout.CompletedAt)
}

func TestMaskAccount(t *testing.T) {
	assert.Equal(t, "****6789", maskAccount("000123456789"))
	assert.Equal(t, "1234", maskAccount("1234"))
}
