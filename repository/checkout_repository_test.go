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
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)
	return gormDB, mock
}

type placeOrderFixture struct {
	order     *models.Order
	items     []models.OrderItem
	debit     repository.WalletDebit
	ledger    *models.WalletTransaction
	buyerID   uuid.UUID
	decrement repository.StockDecrement
}

func newPlaceOrderFixture() placeOrderFixture {
	buyerID := uuid.New()
	walletID := uuid.New()
	variantID := uuid.New()
	return placeOrderFixture{
		order: &models.Order{
			BuyerID:       buyerID,
			Subtotal:      100,
			TaxAmount:     8,
			TotalAmount:   108,
			Currency:      "USD",
			Status:        models.OrderStatusPaid,
			PaymentStatus: models.PaymentStatusPaid,
			PaymentMethod: models.PaymentMethodWallet,
		},
		items: []models.OrderItem{{
			VariantID:  variantID,
			ProductID:  uuid.New(),
			SellerID:   uuid.New(),
			Quantity:   2,
			UnitPrice:  50,
			TotalPrice: 100,
		}},
		debit: repository.WalletDebit{WalletID: walletID, Amount: 108},
		ledger: &models.WalletTransaction{
			UserID:   buyerID,
			Type:     models.TransactionTypePayment,
			Amount:   -108,
			Currency: "USD",
			Status:   models.TransactionStatusCompleted,
		},
		buyerID:   buyerID,
		decrement: repository.StockDecrement{VariantID: variantID, Quantity: 2},
	}
}

func TestPlaceOrder_Commits(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormCheckoutRepository(gormDB)
	fx := newPlaceOrderFixture()

	orderID := uuid.New()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "orders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(orderID))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "order_items"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "wallets" SET "balance"=balance - $1 WHERE id = $2 AND balance >= $3`)).
		WithArgs(108.0, fx.debit.WalletID, 108.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "wallet_transactions"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "cart_items" WHERE user_id = $1`)).
		WithArgs(fx.buyerID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "product_variants" SET "stock_quantity"=stock_quantity - $1 WHERE id = $2 AND stock_quantity >= $3`)).
		WithArgs(2, fx.decrement.VariantID, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.PlaceOrder(context.Background(), fx.order, fx.items, fx.debit, fx.ledger, fx.buyerID, []repository.StockDecrement{fx.decrement})
	assert.NoError(t, err)
	assert.Equal(t, orderID, fx.items[0].OrderID)
	assert.Equal(t, fx.debit.WalletID, fx.ledger.WalletID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrder_RollsBackOnInsufficientBalance(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormCheckoutRepository(gormDB)
	fx := newPlaceOrderFixture()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "orders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "order_items"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	// The guarded debit matches no row when the balance is short.
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "wallets" SET "balance"=balance - $1 WHERE id = $2 AND balance >= $3`)).
		WithArgs(108.0, fx.debit.WalletID, 108.0).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.PlaceOrder(context.Background(), fx.order, fx.items, fx.debit, fx.ledger, fx.buyerID, []repository.StockDecrement{fx.decrement})
	assert.ErrorIs(t, err, repository.ErrInsufficientBalance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrder_RollsBackOnStockShortage(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormCheckoutRepository(gormDB)
	fx := newPlaceOrderFixture()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "orders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "order_items"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "wallets" SET "balance"=balance - $1 WHERE id = $2 AND balance >= $3`)).
		WithArgs(108.0, fx.debit.WalletID, 108.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "wallet_transactions"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "cart_items" WHERE user_id = $1`)).
		WithArgs(fx.buyerID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// A concurrent buyer drained the variant, so the guarded decrement
	// matches no row and every prior write must roll back.
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "product_variants" SET "stock_quantity"=stock_quantity - $1 WHERE id = $2 AND stock_quantity >= $3`)).
		WithArgs(2, fx.decrement.VariantID, 2).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.PlaceOrder(context.Background(), fx.order, fx.items, fx.debit, fx.ledger, fx.buyerID, []repository.StockDecrement{fx.decrement})
	assert.ErrorIs(t, err, repository.ErrInsufficientStock)
	assert.NoError(t, mock.ExpectationsWereMet())
}
