package repository_test

import (
	"context"
	"regexp"
	"testing"

	"epinera-marketplace/models"
	"epinera-marketplace/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRequestWithdrawal_FreezesTotal(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormWalletRepository(gormDB)

	walletID := uuid.New()
	entry := &models.WalletTransaction{
		WalletID: walletID,
		UserID:   uuid.New(),
		Type:     models.TransactionTypeWithdrawal,
		Amount:   -52.5,
		Currency: "USD",
		Status:   models.TransactionStatusPending,
	}

	mock.ExpectBegin()
	// Balance and frozen balance move together in one guarded statement.
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "wallets" SET "balance"=balance - $1,"frozen_balance"=frozen_balance + $2,"updated_at"=$3 WHERE id = $4 AND balance >= $5`)).
		WithArgs(52.5, 52.5, sqlmock.AnyArg(), walletID, 52.5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "wallet_transactions"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectCommit()

	err := repo.RequestWithdrawal(context.Background(), entry, 52.5)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestWithdrawal_InsufficientBalance(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormWalletRepository(gormDB)

	entry := &models.WalletTransaction{
		WalletID: uuid.New(),
		UserID:   uuid.New(),
		Type:     models.TransactionTypeWithdrawal,
		Amount:   -52.5,
		Currency: "USD",
		Status:   models.TransactionStatusPending,
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "wallets" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.RequestWithdrawal(context.Background(), entry, 52.5)
	assert.ErrorIs(t, err, repository.ErrInsufficientBalance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelWithdrawal_UnfreezesFunds(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormWalletRepository(gormDB)

	txID := uuid.New()
	userID := uuid.New()
	walletID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "wallet_transactions" WHERE id = $1 AND user_id = $2 AND type = $3`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "wallet_id", "user_id", "type", "amount", "currency", "status"}).
			AddRow(txID, walletID, userID, models.TransactionTypeWithdrawal, -52.5, "USD", models.TransactionStatusPending))
	// Cancelling reverses the freeze: balance gets the total back and
	// frozen_balance gives it up, in the same statement.
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "wallets" SET "balance"=balance + $1,"frozen_balance"=frozen_balance - $2,"updated_at"=$3 WHERE id = $4`)).
		WithArgs(52.5, 52.5, sqlmock.AnyArg(), walletID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "wallet_transactions" SET "status"=$1,"updated_at"=$2 WHERE id = $3`)).
		WithArgs(models.TransactionStatusCancelled, sqlmock.AnyArg(), txID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	entry, err := repo.CancelWithdrawal(context.Background(), txID, userID)
	assert.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCancelled, entry.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelWithdrawal_RejectsNonPending(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormWalletRepository(gormDB)

	txID := uuid.New()
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "wallet_transactions" WHERE id = $1 AND user_id = $2 AND type = $3`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "wallet_id", "user_id", "type", "amount", "currency", "status"}).
			AddRow(txID, uuid.New(), userID, models.TransactionTypeWithdrawal, -52.5, "USD", models.TransactionStatusProcessing))
	mock.ExpectRollback()

	entry, err := repo.CancelWithdrawal(context.Background(), txID, userID)
	assert.ErrorIs(t, err, repository.ErrNotCancellable)
	assert.Nil(t, entry)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompleteDeposit_ReplayIsNoOp(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormWalletRepository(gormDB)

	txID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "wallet_transactions" WHERE id = $1 AND type = $2`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "wallet_id", "user_id", "type", "amount", "currency", "status"}).
			AddRow(txID, uuid.New(), uuid.New(), models.TransactionTypeDeposit, 97.0, "USD", models.TransactionStatusCompleted))
	mock.ExpectCommit()

	entry, err := repo.CompleteDeposit(context.Background(), txID)
	assert.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCompleted, entry.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
