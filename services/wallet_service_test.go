package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"epinera-marketplace/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func walletFixture(gateway PaymentGateway) (WalletService, *mockWalletRepo) {
	wallets := &mockWalletRepo{wallet: &models.Wallet{ID: uuid.New(), Currency: "USD"}}
	svc := NewWalletService(wallets, gateway, nil, zap.NewNop())
	return svc, wallets
}

func TestCreateDepositFeeComesOutOfCredits(t *testing.T) {
	gateway := &mockGateway{}
	svc, wallets := walletFixture(gateway)

	result, svcErr := svc.CreateDeposit(context.Background(), uuid.New(), &models.DepositRequest{
		Amount:        100,
		PaymentMethod: "card",
	})
	require.Nil(t, svcErr)

	assert.Equal(t, 100.0, result.TotalAmount)
	assert.Equal(t, 3.0, result.ProcessingFee)
	assert.Equal(t, 97.0, result.CreditsToReceive)
	assert.Equal(t, "cs_test", result.ClientSecret)
	assert.Equal(t, "pi_test", result.PaymentIntentID)

	require.Len(t, wallets.createdEntries, 1)
	entry := wallets.createdEntries[0]
	assert.Equal(t, 97.0, entry.Amount)
	assert.Equal(t, models.TransactionStatusPending, entry.Status)
	assert.Equal(t, 100.0, entry.Metadata["gross"])

	require.Len(t, gateway.intents, 1)
	assert.Equal(t, entry.ID.String(), gateway.intents[0]["transaction_id"])
}

func TestCreateDepositRejectsNonPositiveAmount(t *testing.T) {
	svc, wallets := walletFixture(nil)

	_, svcErr := svc.CreateDeposit(context.Background(), uuid.New(), &models.DepositRequest{
		Amount:        0,
		PaymentMethod: "card",
	})
	require.NotNil(t, svcErr)
	assert.Equal(t, KindValidation, svcErr.Kind)
	assert.Empty(t, wallets.createdEntries)
}

func TestCreateDepositIntentFailureMarksFailed(t *testing.T) {
	gateway := &mockGateway{intentErr: assert.AnError}
	svc, wallets := walletFixture(gateway)

	_, svcErr := svc.CreateDeposit(context.Background(), uuid.New(), &models.DepositRequest{
		Amount:        100,
		PaymentMethod: "card",
	})
	require.NotNil(t, svcErr)
	assert.Equal(t, KindInternal, svcErr.Kind)
	require.Len(t, wallets.createdEntries, 1)
	assert.Equal(t, []uuid.UUID{wallets.createdEntries[0].ID}, wallets.failedIDs)
}

func TestConfirmDepositUnknownTransaction(t *testing.T) {
	svc, _ := walletFixture(nil)

	svcErr := svc.ConfirmDeposit(context.Background(), uuid.New())
	require.NotNil(t, svcErr)
	assert.Equal(t, KindNotFound, svcErr.Kind)
}

func TestConfirmDepositCompletes(t *testing.T) {
	svc, wallets := walletFixture(nil)
	txID := uuid.New()
	wallets.completeDepositFn = func(id uuid.UUID) (*models.WalletTransaction, error) {
		return &models.WalletTransaction{ID: id, Amount: 97, Status: models.TransactionStatusCompleted}, nil
	}

	svcErr := svc.ConfirmDeposit(context.Background(), txID)
	assert.Nil(t, svcErr)
}

func TestExportTransactionsCSV(t *testing.T) {
	svc, wallets := walletFixture(nil)
	wallets.transactions = []models.WalletTransaction{
		{
			ID:          uuid.New(),
			Type:        models.TransactionTypeDeposit,
			Amount:      97,
			Currency:    "USD",
			Status:      models.TransactionStatusCompleted,
			Description: "Deposit via card",
			CreatedAt:   time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		},
		{
			ID:          uuid.New(),
			Type:        models.TransactionTypeWithdrawal,
			Amount:      -52.5,
			Currency:    "USD",
			Status:      models.TransactionStatusPending,
			Description: "Withdrawal via bank",
			CreatedAt:   time.Date(2026, 3, 15, 18, 0, 0, 0, time.UTC),
		},
	}

	data, svcErr := svc.ExportTransactionsCSV(context.Background(), uuid.New(), models.TransactionFilter{})
	require.Nil(t, svcErr)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Date", "Type", "Amount", "Currency", "Status", "Description"}, records[0])
	assert.Equal(t, []string{"2026-03-14 09:30:00", "deposit", "97.00", "USD", "completed", "Deposit via card"}, records[1])
	assert.Equal(t, []string{"2026-03-15 18:00:00", "withdrawal", "-52.50", "USD", "pending", "Withdrawal via bank"}, records[2])
}

func TestGetTransactionsDefaultsPaging(t *testing.T) {
	svc, wallets := walletFixture(nil)
	wallets.transactions = []models.WalletTransaction{{ID: uuid.New()}}

	page, svcErr := svc.GetTransactions(context.Background(), uuid.New(), models.TransactionFilter{})
	require.Nil(t, svcErr)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.Limit)
	assert.Equal(t, int64(1), page.Total)
}
